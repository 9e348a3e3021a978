// Package artifact loads the pre-fitted scaler and classifier from disk and
// implements them as read-only values safe for concurrent use.
package artifact

import (
	"fmt"
	"math"
)

// Scaler kinds understood by LoadScaler.
const (
	KindStandard = "standard"
	KindMinMax   = "minmax"
)

// Scaler transforms feature rows column-wise.
type Scaler interface {
	Kind() string
	// Width is the number of columns the scaler was fit on.
	Width() int
	Transform(batch [][]float64) ([][]float64, error)
}

// StandardScaler applies (x - mean) / scale per column.
type StandardScaler struct {
	mean  []float64
	scale []float64
}

// NewStandardScaler copies mean and scale and validates them.
func NewStandardScaler(mean, scale []float64) (*StandardScaler, error) {
	if err := checkColumns(mean, scale, true); err != nil {
		return nil, err
	}
	return &StandardScaler{mean: clone(mean), scale: clone(scale)}, nil
}

func (s *StandardScaler) Kind() string { return KindStandard }
func (s *StandardScaler) Width() int   { return len(s.mean) }

// Transform returns a new batch; the input is not modified.
func (s *StandardScaler) Transform(batch [][]float64) ([][]float64, error) {
	return transform(batch, len(s.mean), func(j int, x float64) float64 {
		return (x - s.mean[j]) / s.scale[j]
	})
}

// MinMaxScaler applies x*scale + min per column, matching a fitted
// MinMaxScaler's min_ and scale_ attributes.
type MinMaxScaler struct {
	min   []float64
	scale []float64
}

// NewMinMaxScaler copies min and scale and validates them.
func NewMinMaxScaler(minimum, scale []float64) (*MinMaxScaler, error) {
	if err := checkColumns(minimum, scale, false); err != nil {
		return nil, err
	}
	return &MinMaxScaler{min: clone(minimum), scale: clone(scale)}, nil
}

func (s *MinMaxScaler) Kind() string { return KindMinMax }
func (s *MinMaxScaler) Width() int   { return len(s.min) }

// Transform returns a new batch; the input is not modified.
func (s *MinMaxScaler) Transform(batch [][]float64) ([][]float64, error) {
	return transform(batch, len(s.min), func(j int, x float64) float64 {
		return x*s.scale[j] + s.min[j]
	})
}

func transform(batch [][]float64, width int, f func(int, float64) float64) ([][]float64, error) {
	out := make([][]float64, len(batch))
	for i, row := range batch {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d columns, scaler expects %d", ErrDimension, i, len(row), width)
		}
		scaled := make([]float64, width)
		for j, x := range row {
			scaled[j] = f(j, x)
		}
		out[i] = scaled
	}
	return out, nil
}

func checkColumns(offset, scale []float64, nonZeroScale bool) error {
	if len(offset) == 0 {
		return fmt.Errorf("%w: no columns", ErrMalformed)
	}
	if len(offset) != len(scale) {
		return fmt.Errorf("%w: %d offsets but %d scales", ErrMalformed, len(offset), len(scale))
	}
	if err := checkFinite("offset", offset); err != nil {
		return err
	}
	if err := checkFinite("scale", scale); err != nil {
		return err
	}
	if nonZeroScale {
		for j, v := range scale {
			if v == 0 {
				return fmt.Errorf("%w: zero scale at column %d", ErrMalformed, j)
			}
		}
	}
	return nil
}

// checkFinite rejects NaN and infinite parameters.
func checkFinite(name string, v []float64) error {
	for j, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("%w: %s %v at column %d", ErrMalformed, name, x, j)
		}
	}
	return nil
}

func clone(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
