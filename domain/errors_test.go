package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestCalcError_MatchesOnlyItsKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", ConvergenceError("rate", "did not converge after 100 iterations"))

	if !errors.Is(err, ErrConvergence) {
		t.Errorf("expected ErrConvergence")
	}
	if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrDomain) {
		t.Errorf("matched the wrong kind")
	}
	if KindOf(err) != KindConvergence {
		t.Errorf("expected convergence kind, got %v", KindOf(err))
	}
	if KindOf(errors.New("other")) != 0 {
		t.Errorf("plain errors have no kind")
	}
}

func TestTVMParams_Defaults(t *testing.T) {
	p := NewTVMParams(nil, Float(0.05), nil, nil)
	if p.Payment != 0 || p.Frequency() != 1 || p.Periods != nil {
		t.Errorf("unexpected defaults: %+v", p)
	}
	if (TVMParams{}).Frequency() != 1 {
		t.Errorf("zero frequency should read as 1")
	}
	if !TargetRate.Valid() || Target("pmt").Valid() {
		t.Errorf("target validation")
	}
}
