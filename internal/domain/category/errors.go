package category

import (
	"errors"
	"fmt"
)

// ErrUnknownCategory is the sentinel kind for values outside a closed domain.
var ErrUnknownCategory = errors.New("unknown category")

// UnknownCategoryError reports a value (or field) the codec does not know.
type UnknownCategoryError struct {
	Field string
	Value string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("%s: %q is not a valid %s", ErrUnknownCategory, e.Value, e.Field)
}

// Unwrap exposes the sentinel kind to errors.Is.
func (e *UnknownCategoryError) Unwrap() error { return ErrUnknownCategory }
