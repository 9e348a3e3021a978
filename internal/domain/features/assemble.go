package features

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/okian/attrition/internal/domain/category"
)

// Input is a raw employee record keyed by field name. Numeric fields hold a
// number (any Go integer or float type, or json.Number); categorical fields
// hold a string.
type Input map[string]any

// Vector is an assembled feature row in schema order.
type Vector []float64

// Get returns the element for the named field.
func (v Vector) Get(name string) (float64, bool) {
	i := Position(name)
	if i < 0 || i >= len(v) {
		return 0, false
	}
	return v[i], true
}

// Defaults returns a complete Input holding every field's default.
func Defaults() Input {
	in := make(Input, len(schema))
	for _, s := range schema {
		in[s.Name] = s.Default
	}
	return in
}

// Clone returns a shallow copy of in.
func (in Input) Clone() Input {
	out := make(Input, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Clamp returns a copy of in with numeric values limited to their declared
// bounds. Values that are not numbers, and unknown keys, are left untouched
// for Assemble to judge.
func Clamp(in Input) Input {
	out := in.Clone()
	for _, s := range schema {
		if !s.Numeric() {
			continue
		}
		raw, ok := out[s.Name]
		if !ok {
			continue
		}
		if f, ok := toFloat(raw); ok {
			out[s.Name] = s.Clamp(f)
		}
	}
	return out
}

// Assembler turns Inputs into Vectors using a category codec.
type Assembler struct {
	codec *category.Codec
}

// NewAssembler creates an Assembler. A nil codec selects category.Default().
func NewAssembler(codec *category.Codec) *Assembler {
	if codec == nil {
		codec = category.Default()
	}
	return &Assembler{codec: codec}
}

// Assemble produces the feature vector for in. Numeric values pass through
// unchanged; categorical values are replaced by their codes. It fails with
// MissingFieldError, InvalidValueError or category.UnknownCategoryError.
func (a *Assembler) Assemble(in Input) (Vector, error) {
	vec := make(Vector, len(schema))
	for i, s := range schema {
		raw, ok := in[s.Name]
		if !ok || raw == nil {
			return nil, &MissingFieldError{Field: s.Name}
		}
		if s.Kind == KindCategory {
			str, ok := raw.(string)
			if !ok {
				return nil, &InvalidValueError{Field: s.Name, Value: raw, Want: s.Kind}
			}
			code, err := a.codec.Encode(s.Name, str)
			if err != nil {
				return nil, err
			}
			vec[i] = float64(code)
			continue
		}
		f, ok := toFloat(raw)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, &InvalidValueError{Field: s.Name, Value: raw, Want: s.Kind}
		}
		vec[i] = f
	}
	return vec, nil
}

var defaultAssembler = NewAssembler(nil) //nolint:gochecknoglobals // stateless

// Assemble runs the default assembler.
func Assemble(in Input) (Vector, error) {
	return defaultAssembler.Assemble(in)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// ParseValue converts a textual value (form field, CLI flag) into the Go
// type Assemble expects for the named field. Unknown field names and
// unparsable numbers yield an error.
func ParseValue(name, text string) (any, error) {
	s, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	if s.Kind == KindCategory {
		return text, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, &InvalidValueError{Field: name, Value: text, Want: s.Kind}
	}
	return f, nil
}
