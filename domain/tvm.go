package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Target identifies which TVM quantity a calculation solves for.
type Target string

const (
	TargetFutureValue  Target = "fv"
	TargetPresentValue Target = "pv"
	TargetPeriods      Target = "n"
	TargetRate         Target = "r"
)

// Valid reports whether t is one of the four supported targets.
func (t Target) Valid() bool {
	switch t {
	case TargetFutureValue, TargetPresentValue, TargetPeriods, TargetRate:
		return true
	}
	return false
}

// TVMParams is the parameter set for a single calculation. A nil pointer
// means the caller did not supply the value.
type TVMParams struct {
	Periods              *float64 `json:"periods,omitempty"`
	Rate                 *float64 `json:"rate,omitempty"`
	PresentValue         *float64 `json:"present_value,omitempty"`
	FutureValue          *float64 `json:"future_value,omitempty"`
	Payment              float64  `json:"payment"`
	CompoundingFrequency int      `json:"compounding_frequency"`
}

// NewTVMParams builds a parameter set with the default payment (0) and
// compounding frequency (1).
func NewTVMParams(periods, rate, presentValue, futureValue *float64) TVMParams {
	return TVMParams{
		Periods:              periods,
		Rate:                 rate,
		PresentValue:         presentValue,
		FutureValue:          futureValue,
		CompoundingFrequency: 1,
	}
}

// Float returns a pointer to v, for filling optional fields.
func Float(v float64) *float64 {
	return &v
}

// Frequency returns the compounding frequency, treating an unset (zero)
// value as annual compounding.
func (p TVMParams) Frequency() int {
	if p.CompoundingFrequency <= 0 {
		return 1
	}
	return p.CompoundingFrequency
}

type CalculationResult struct {
	Target     Target          `json:"target"`
	Value      float64         `json:"value"`
	Rounded    decimal.Decimal `json:"rounded"`
	Iterations int             `json:"iterations,omitempty"`
	Cached     bool            `json:"cached"`
}

type CalculationRecord struct {
	ID        uuid.UUID         `json:"id"`
	Target    Target            `json:"target"`
	Params    TVMParams         `json:"params"`
	Result    CalculationResult `json:"result"`
	CreatedAt time.Time         `json:"created_at"`
}
