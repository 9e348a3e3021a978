package service

import (
	"errors"
	"fmt"
)

// Sentinel kinds for artifact contract violations at prediction time.
var (
	ErrScaling    = errors.New("scaling failed")
	ErrPrediction = errors.New("prediction failed")
	ErrNotReady   = errors.New("service not ready")
)

// ScalingError reports a scaler failure or a scaled batch of the wrong shape.
// Rows/Cols describe what came back when the shape was wrong.
type ScalingError struct {
	Rows, Cols int
	Want       int
	Err        error
}

func (e *ScalingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", ErrScaling, e.Err)
	}
	return fmt.Sprintf("%s: scaler returned %dx%d, want 1x%d", ErrScaling, e.Rows, e.Cols, e.Want)
}

// Unwrap exposes both the kind and the scaler's own error.
func (e *ScalingError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrScaling}
	}
	return []error{ErrScaling, e.Err}
}

// PredictionError reports a classifier failure or an unexpected output.
type PredictionError struct {
	Labels []int
	Err    error
}

func (e *PredictionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", ErrPrediction, e.Err)
	}
	return fmt.Sprintf("%s: classifier returned %v, want a single 0 or 1", ErrPrediction, e.Labels)
}

func (e *PredictionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrPrediction}
	}
	return []error{ErrPrediction, e.Err}
}
