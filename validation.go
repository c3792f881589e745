package hflow

import (
	"errors"
	"fmt"
	"reflect"
)

type callable interface {
	callable() bool
}

// Validate checks a list of steps for nil steps and wrapped values that are
// not functions. Such steps are skipped at run time; Validate reports them.
func Validate(steps []Step) error {
	var errs []error
	for i, s := range steps {
		if err := validateStep(s); err != nil {
			errs = append(errs, fmt.Errorf("step %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// ValidateAsync is [Validate] for asynchronous steps.
func ValidateAsync(steps []AsyncStep) error {
	var errs []error
	for i, s := range steps {
		if err := validateStep(s); err != nil {
			errs = append(errs, fmt.Errorf("step %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

func validateStep(s fmt.Stringer) error {
	if isNil(s) {
		return ErrNilStep
	}
	if c, ok := s.(callable); ok && !c.callable() {
		return fmt.Errorf("%v: %w", s, ErrNotCallable)
	}
	if s.String() == "" {
		return ErrUnnamedStep
	}
	return nil
}

// isNil reports whether s is nil or holds a nil func or pointer, such as
// StepFunc(nil).
func isNil(s fmt.Stringer) bool {
	if s == nil {
		return true
	}
	switch v := reflect.ValueOf(s); v.Kind() {
	case reflect.Func, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}
