package service

import (
	"fmt"
	"math"
)

// SolverConfig controls the Newton-Raphson iteration used by Rate.
type SolverConfig struct {
	// Tolerance is relative: the solve stops once |step| <= Tolerance*max(1, |r|).
	Tolerance float64
	// MaxIterations is a hard cap; reaching it is a convergence failure.
	MaxIterations int
	// DerivativeThreshold is the smallest |f'(r)| Newton will divide by.
	DerivativeThreshold float64
	// ResidualTolerance bounds |f(r)| at an accepted root, relative to the
	// scale the caller passes (|FV| for the rate solve).
	ResidualTolerance float64
	InitialGuess      float64
}

// DefaultSolverConfig is used when a zero SolverConfig is given.
var DefaultSolverConfig = SolverConfig{
	Tolerance:           DefaultSolverTolerance,
	MaxIterations:       DefaultSolverMaxIterations,
	DerivativeThreshold: DefaultDerivativeThreshold,
	ResidualTolerance:   DefaultResidualTolerance,
	InitialGuess:        DefaultRateGuess,
}

// withDefaults fills zero fields from DefaultSolverConfig. InitialGuess
// is kept as given, zero included, once any other field is set.
func (c SolverConfig) withDefaults() SolverConfig {
	if c == (SolverConfig{}) {
		return DefaultSolverConfig
	}
	if c.Tolerance <= 0 {
		c.Tolerance = DefaultSolverTolerance
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = DefaultSolverMaxIterations
	}
	if c.DerivativeThreshold <= 0 {
		c.DerivativeThreshold = DefaultDerivativeThreshold
	}
	if c.ResidualTolerance <= 0 {
		c.ResidualTolerance = DefaultResidualTolerance
	}
	return c
}

// errNoConvergence carries the reason the solve stopped; the engine wraps
// it into a ConvergenceError.
type errNoConvergence struct {
	reason string
}

func (e errNoConvergence) Error() string { return e.reason }

// newtonRaphson finds x with f(x) == 0 starting from cfg.InitialGuess.
// Iterates at or below lower are pulled back half-way toward lower; such a
// step never counts as convergence. A small step is accepted only when
// |f| <= cfg.ResidualTolerance*max(1, scale) there.
func newtonRaphson(
	f func(float64) (float64, float64),
	lower, scale float64,
	cfg SolverConfig,
) (float64, int, error) {
	x := cfg.InitialGuess
	residualTol := cfg.ResidualTolerance * math.Max(1, math.Abs(scale))

	for iter := 0; iter < cfg.MaxIterations; iter++ {
		fx, dfx := f(x)
		if math.IsNaN(fx) || math.IsInf(fx, 0) || math.IsNaN(dfx) || math.IsInf(dfx, 0) {
			return 0, iter + 1, errNoConvergence{fmt.Sprintf("non-finite value at iteration %d", iter+1)}
		}
		if fx == 0 {
			return x, iter + 1, nil
		}
		if math.Abs(dfx) < cfg.DerivativeThreshold {
			return 0, iter + 1, errNoConvergence{fmt.Sprintf("derivative too small at iteration %d", iter+1)}
		}

		next := x - fx/dfx
		if next <= lower {
			x = (x + lower) / 2
			continue
		}

		if math.Abs(next-x) <= cfg.Tolerance*math.Max(1, math.Abs(next)) {
			fn, _ := f(next)
			if math.IsNaN(fn) || math.Abs(fn) > residualTol {
				return 0, iter + 1, errNoConvergence{fmt.Sprintf("step converged but residual %g is not zero", fn)}
			}
			return next, iter + 1, nil
		}
		x = next
	}

	return 0, cfg.MaxIterations, errNoConvergence{fmt.Sprintf("did not converge after %d iterations", cfg.MaxIterations)}
}
