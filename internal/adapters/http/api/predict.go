package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	service "github.com/okian/attrition/internal/app"
	"github.com/okian/attrition/internal/domain/category"
	"github.com/okian/attrition/internal/domain/features"
)

// PredictHandler handles prediction requests.
type PredictHandler struct {
	predictor    Predictor
	maxBodyBytes int64
}

// NewPredictHandler creates a new predict handler.
func NewPredictHandler(p Predictor, maxBodyBytes int64) *PredictHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	return &PredictHandler{predictor: p, maxBodyBytes: maxBodyBytes}
}

type predictResponse struct {
	ID          string         `json:"id"`
	Prediction  int            `json:"prediction"`
	Label       string         `json:"label"`
	Message     string         `json:"message"`
	Probability *float64       `json:"probability,omitempty"`
	Input       features.Input `json:"input"`
}

// HandlePredict handles POST /predict requests. The body is a JSON object
// keyed by field name; numeric values are clamped to their bounds first.
func (h *PredictHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	const op = "api.predict"

	in, err := decodeInput(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", WrapKind(op, ErrPayloadTooLarge, err))
			return
		}
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	in = features.Clamp(in)
	res, err := h.predictor.Predict(r.Context(), in)
	if err != nil {
		writeError(w, statusFor(err), service.ErrorKind(err), Wrap(op, err))
		return
	}

	writeJSON(w, http.StatusOK, predictResponse{
		ID:          res.ID,
		Prediction:  int(res.Label),
		Label:       res.Label.String(),
		Message:     res.Label.Message(),
		Probability: res.Probability,
		Input:       in,
	})
}

// decodeInput reads exactly one JSON object from body.
func decodeInput(body io.Reader) (features.Input, error) {
	dec := json.NewDecoder(body)
	dec.UseNumber()
	var in features.Input
	if err := dec.Decode(&in); err != nil {
		return nil, err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, errors.New("body must hold a single JSON object")
	}
	if in == nil {
		return nil, errors.New("body must be a JSON object")
	}
	return in, nil
}

// statusFor maps prediction errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, features.ErrMissingField),
		errors.Is(err, features.ErrInvalidValue),
		errors.Is(err, category.ErrUnknownCategory):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
