package service

import (
	"math"

	"tvm-calculator/domain"
)

const (
	opFutureValue  = "future value"
	opPresentValue = "present value"
	opPeriods      = "periods"
	opRate         = "rate"
)

// TVMEngine computes one TVM quantity from a parameter set. It holds no
// per-call state and is safe for concurrent use.
type TVMEngine struct {
	solver SolverConfig
}

// NewTVMEngine creates an engine; a zero SolverConfig selects DefaultSolverConfig.
func NewTVMEngine(solver SolverConfig) *TVMEngine {
	return &TVMEngine{solver: solver.withDefaults()}
}

// SolverConfig returns the effective root-finder settings.
func (e *TVMEngine) SolverConfig() SolverConfig {
	return e.solver
}

// FutureValue returns PV*(1+r)^n + PMT*((1+r)^n - 1)/r. A missing present
// value counts as 0.
func (e *TVMEngine) FutureValue(p domain.TVMParams) (float64, error) {
	if p.Rate == nil || p.Periods == nil {
		return 0, domain.InvalidInput(opFutureValue, "rate and periods are required")
	}
	r, n := *p.Rate, *p.Periods
	growth := math.Pow(1+r, n)

	var lump float64
	if p.PresentValue != nil {
		lump = *p.PresentValue * growth
	}

	var annuity float64
	if p.Payment != 0 {
		if r == 0 {
			return 0, domain.DomainError(opFutureValue, "annuity factor undefined for zero rate")
		}
		annuity = p.Payment * (growth - 1) / r
	}

	return finite(opFutureValue, lump+annuity)
}

// PresentValue returns FV/(1+r)^n + PMT*(1 - 1/(1+r)^n)/r. A missing future
// value counts as 0.
func (e *TVMEngine) PresentValue(p domain.TVMParams) (float64, error) {
	if p.Rate == nil || p.Periods == nil {
		return 0, domain.InvalidInput(opPresentValue, "rate and periods are required")
	}
	r, n := *p.Rate, *p.Periods
	growth := math.Pow(1+r, n)

	var lump float64
	if p.FutureValue != nil {
		lump = *p.FutureValue / growth
	}

	var annuity float64
	if p.Payment != 0 {
		if r == 0 {
			return 0, domain.DomainError(opPresentValue, "annuity factor undefined for zero rate")
		}
		annuity = p.Payment * (1 - 1/growth) / r
	}

	return finite(opPresentValue, lump+annuity)
}

// Periods returns ln(FV/PV) / ln(1+r). Payment is ignored: only the
// lump-sum to lump-sum case is solved.
func (e *TVMEngine) Periods(p domain.TVMParams) (float64, error) {
	if p.Rate == nil || p.PresentValue == nil || p.FutureValue == nil {
		return 0, domain.InvalidInput(opPeriods, "rate, present value and future value are required")
	}
	r, pv, fv := *p.Rate, *p.PresentValue, *p.FutureValue

	if pv == 0 {
		return 0, domain.DomainError(opPeriods, "present value must be non-zero")
	}
	ratio := fv / pv
	if ratio <= 0 {
		return 0, domain.DomainError(opPeriods, "future value / present value must be positive")
	}
	if 1+r <= 0 {
		return 0, domain.DomainError(opPeriods, "1 + rate must be positive")
	}
	if r == 0 {
		return 0, domain.DomainError(opPeriods, "periods undefined for zero rate")
	}

	return finite(opPeriods, math.Log(ratio)/math.Log(1+r))
}

// Rate solves PV*(1+r)^n - FV = 0 for r with Newton-Raphson. Payment is
// assumed to be 0. The returned int is the number of iterations taken.
func (e *TVMEngine) Rate(p domain.TVMParams) (float64, int, error) {
	if p.Periods == nil || p.PresentValue == nil || p.FutureValue == nil {
		return 0, 0, domain.InvalidInput(opRate, "periods, present value and future value are required")
	}
	n, pv, fv := *p.Periods, *p.PresentValue, *p.FutureValue

	f := func(r float64) (float64, float64) {
		growth := math.Pow(1+r, n)
		return pv*growth - fv, n * pv * growth / (1 + r)
	}

	r, iterations, err := newtonRaphson(f, -1, math.Max(math.Abs(pv), math.Abs(fv)), e.solver)
	if err != nil {
		return 0, iterations, domain.ConvergenceError(opRate, err.Error())
	}
	return r, iterations, nil
}

func finite(op string, v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, domain.DomainError(op, "result is not a finite number")
	}
	return v, nil
}
