package hflow

import (
	"errors"
	"fmt"
)

var (
	// ErrArgument is returned when an argument cannot be passed to the
	// parameter of a wrapped function.
	ErrArgument = errors.New("hflow: bad argument")
	// ErrNotCallable is reported by validation for steps wrapping something
	// that is not a function.
	ErrNotCallable = errors.New("hflow: not callable")
	// ErrNilStep is reported by validation for nil steps, including nil
	// StepFunc and AsyncStepFunc values.
	ErrNilStep = errors.New("hflow: nil step")
	// ErrUnnamedStep is reported by validation for steps whose String
	// method returns "".
	ErrUnnamedStep = errors.New("hflow: step has no string representation")
)

// RecoveredPanic is an error that wraps a recovered panic value.
type RecoveredPanic struct {
	Value any
}

func (p *RecoveredPanic) Error() string {
	return fmt.Sprintf("panic recovered: %v", p.Value)
}

// Unwrap returns the panic value if it is an error.
func (p *RecoveredPanic) Unwrap() error {
	err, _ := p.Value.(error)
	return err
}

// capturePanic turns a panic into a *RecoveredPanic stored in err.
// It must be deferred directly.
func capturePanic(err *error) {
	if r := recover(); r != nil {
		*err = &RecoveredPanic{Value: r}
	}
}
