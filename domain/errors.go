package domain

import "errors"

// ErrorKind classifies why a calculation failed.
type ErrorKind int

const (
	KindInvalidInput ErrorKind = iota + 1
	KindDomain
	KindConvergence
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindDomain:
		return "domain_error"
	case KindConvergence:
		return "convergence_error"
	}
	return "unknown"
}

// Sentinels for errors.Is; every CalcError matches the one for its kind.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrDomain       = errors.New("domain error")
	ErrConvergence  = errors.New("convergence error")
)

// CalcError is returned by every TVM operation that cannot produce a value.
type CalcError struct {
	Kind ErrorKind
	Op   string
	Msg  string
}

func (e *CalcError) Error() string {
	return e.Op + ": " + e.Msg
}

func (e *CalcError) Is(target error) bool {
	switch target {
	case ErrInvalidInput:
		return e.Kind == KindInvalidInput
	case ErrDomain:
		return e.Kind == KindDomain
	case ErrConvergence:
		return e.Kind == KindConvergence
	}
	return false
}

func InvalidInput(op, msg string) error {
	return &CalcError{Kind: KindInvalidInput, Op: op, Msg: msg}
}

func DomainError(op, msg string) error {
	return &CalcError{Kind: KindDomain, Op: op, Msg: msg}
}

func ConvergenceError(op, msg string) error {
	return &CalcError{Kind: KindConvergence, Op: op, Msg: msg}
}

// KindOf returns the kind of a CalcError anywhere in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var ce *CalcError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return 0
}
