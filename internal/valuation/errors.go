package valuation

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is the root of every validation failure raised by this package.
var ErrInvalidInput = errors.New("INVALID_INPUT")

// InputError describes which input was rejected and why.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

func invalid(field, format string, args ...interface{}) error {
	return &InputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
