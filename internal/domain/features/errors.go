package features

import (
	"errors"
	"fmt"
)

// Sentinel kinds for assembly errors. These allow errors.Is from callers.
var (
	ErrMissingField = errors.New("missing field")
	ErrInvalidValue = errors.New("invalid value")
	ErrUnknownField = errors.New("unknown field")
)

// MissingFieldError names the first absent field in vector order.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingField, e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// InvalidValueError reports a value of the wrong kind for its field.
type InvalidValueError struct {
	Field string
	Value any
	Want  Kind
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("%s: %s must be %s, got %v (%T)", ErrInvalidValue, e.Field, e.Want, e.Value, e.Value)
}

func (e *InvalidValueError) Unwrap() error { return ErrInvalidValue }
