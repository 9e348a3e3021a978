// Package service provides the prediction service behind every presentation
// layer: it owns the loaded scaler and classifier for the process lifetime
// and turns one raw employee record into one attrition label.
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/attrition/internal/adapters/artifact"
	"github.com/okian/attrition/internal/domain/category"
	"github.com/okian/attrition/internal/domain/features"
	"github.com/okian/attrition/pkg/logger"
	"github.com/okian/attrition/pkg/metrics"
)

// Scaler transforms a batch of feature rows.
type Scaler interface {
	Transform(batch [][]float64) ([][]float64, error)
}

// Classifier labels each row of a batch.
type Classifier interface {
	Predict(batch [][]float64) ([]int, error)
}

// ProbabilityClassifier is a Classifier that can also report the probability
// of the leave class.
type ProbabilityClassifier interface {
	Classifier
	PredictProba(batch [][]float64) ([]float64, error)
}

// Label is the binary attrition outcome.
type Label int

// Outcomes.
const (
	Stay  Label = 0
	Leave Label = 1
)

func (l Label) String() string {
	if l == Leave {
		return "leave"
	}
	return "stay"
}

// Message is the user-facing verdict.
func (l Label) Message() string {
	if l == Leave {
		return "likely to LEAVE"
	}
	return "likely to STAY"
}

// Result is one prediction. It is produced per request and never stored.
type Result struct {
	ID          string
	Label       Label
	Probability *float64
	Vector      features.Vector
	Input       features.Input
}

// Service holds the immutable artifacts. It is safe for concurrent use.
type Service struct {
	scaler     Scaler
	classifier Classifier
	assembler  *features.Assembler
	logger     logger.Logger
	newID      func() string
	now        func() time.Time
	started    time.Time

	predictions atomic.Int64
	leave       atomic.Int64
	failures    atomic.Int64
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCodec swaps the category codec used during assembly.
func WithCodec(c *category.Codec) Option {
	return func(s *Service) {
		if c != nil {
			s.assembler = features.NewAssembler(c)
		}
	}
}

// WithIDGenerator overrides how result IDs are minted.
func WithIDGenerator(f func() string) Option {
	return func(s *Service) {
		if f != nil {
			s.newID = f
		}
	}
}

// WithClock overrides the time source used for latency and uptime.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a Service around already loaded artifacts.
func New(scaler Scaler, classifier Classifier, opts ...Option) (*Service, error) {
	if scaler == nil || classifier == nil {
		return nil, ErrNotReady
	}
	s := &Service{
		scaler:     scaler,
		classifier: classifier,
		assembler:  features.NewAssembler(nil),
		newID:      func() string { return uuid.NewString() },
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.started = s.now()

	metrics.SetArtifactInfo(kindOf(scaler), kindOf(classifier))
	metrics.SetFeatureWidth(features.Count)
	return s, nil
}

// Load reads both artifacts from disk and constructs the Service. Any failure
// wraps artifact.ErrArtifactLoad and is fatal for the caller.
func Load(ctx context.Context, scalerPath, modelPath string, opts ...Option) (*Service, error) {
	began := time.Now()
	scaler, err := artifact.LoadScaler(scalerPath)
	if err != nil {
		return nil, err
	}
	classifier, err := artifact.LoadClassifier(modelPath)
	if err != nil {
		return nil, err
	}
	s, err := New(scaler, classifier, opts...)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "artifacts loaded",
		logger.String("scaler", kindOf(scaler)),
		logger.String("scalerPath", scalerPath),
		logger.String("classifier", kindOf(classifier)),
		logger.String("modelPath", modelPath),
		logger.Duration("took", time.Since(began)),
	)
	return s, nil
}

// Predict assembles in, scales it as a single-row batch and classifies it.
// Errors are returned as-is: assembly errors from package features or
// category, ScalingError, or PredictionError. Nothing is retried.
func (s *Service) Predict(ctx context.Context, in features.Input) (Result, error) {
	start := s.now()
	res, err := s.predict(in)
	elapsedMs := float64(s.now().Sub(start).Microseconds()) / 1e3
	if err != nil {
		s.failures.Add(1)
		kind := ErrorKind(err)
		metrics.RecordPredictionError(kind, elapsedMs)
		s.logger.Warn(ctx, "prediction failed", logger.String("kind", kind), logger.Error(err))
		return Result{}, err
	}

	s.predictions.Add(1)
	if res.Label == Leave {
		s.leave.Add(1)
	}
	metrics.RecordPrediction(res.Label.String(), elapsedMs)
	if res.Probability != nil {
		metrics.RecordLeaveProbability(*res.Probability)
	}
	s.logger.Debug(ctx, "prediction",
		logger.String("id", res.ID),
		logger.String("label", res.Label.String()),
		logger.Bool("probability", res.Probability != nil),
		logger.Float64("latencyMs", elapsedMs),
	)
	return res, nil
}

func (s *Service) predict(in features.Input) (Result, error) {
	vec, err := s.assembler.Assemble(in)
	if err != nil {
		return Result{}, err
	}

	row := make([]float64, len(vec))
	copy(row, vec)
	batch := [][]float64{row}
	scaled, err := s.scaler.Transform(batch)
	if err != nil {
		return Result{}, &ScalingError{Want: len(vec), Err: err}
	}
	if len(scaled) != 1 || len(scaled[0]) != len(vec) {
		cols := 0
		if len(scaled) > 0 {
			cols = len(scaled[0])
		}
		return Result{}, &ScalingError{Rows: len(scaled), Cols: cols, Want: len(vec)}
	}

	labels, err := s.classifier.Predict(scaled)
	if err != nil {
		return Result{}, &PredictionError{Err: err}
	}
	if len(labels) != 1 || (labels[0] != int(Stay) && labels[0] != int(Leave)) {
		return Result{}, &PredictionError{Labels: labels}
	}

	res := Result{
		ID:     s.newID(),
		Label:  Label(labels[0]),
		Vector: vec,
		Input:  in.Clone(),
	}
	if pc, ok := s.classifier.(ProbabilityClassifier); ok {
		probs, err := pc.PredictProba(scaled)
		if err != nil {
			return Result{}, &PredictionError{Err: err}
		}
		if len(probs) != 1 {
			return Result{}, &PredictionError{Labels: labels}
		}
		p := probs[0]
		if math.IsNaN(p) || p < 0 || p > 1 {
			return Result{}, &PredictionError{Labels: labels, Err: fmt.Errorf("probability %v outside [0,1]", p)}
		}
		res.Probability = &p
	}
	return res, nil
}

// ErrorKind classifies err into a short label for metrics and API codes.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, features.ErrMissingField):
		return "missing_field"
	case errors.Is(err, category.ErrUnknownCategory):
		return "unknown_category"
	case errors.Is(err, features.ErrInvalidValue):
		return "invalid_value"
	case errors.Is(err, ErrScaling):
		return "scaling_error"
	case errors.Is(err, ErrPrediction):
		return "prediction_error"
	default:
		return "internal_error"
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	total := s.predictions.Load()
	leave := s.leave.Load()
	return map[string]interface{}{
		"predictions":   total,
		"leave":         leave,
		"stay":          total - leave,
		"errors":        s.failures.Load(),
		"featureWidth":  features.Count,
		"scaler":        kindOf(s.scaler),
		"classifier":    kindOf(s.classifier),
		"uptimeSeconds": int64(s.now().Sub(s.started).Seconds()),
	}
}

func kindOf(v any) string {
	if k, ok := v.(interface{ Kind() string }); ok {
		return k.Kind()
	}
	return "custom"
}
