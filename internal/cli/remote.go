package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	service "github.com/okian/attrition/internal/app"
	"github.com/okian/attrition/internal/domain/features"
)

// remotePredictor posts records to a running server's /predict.
type remotePredictor struct {
	url    string
	client *http.Client
}

func newRemotePredictor(baseURL string, timeout time.Duration) *remotePredictor {
	return &remotePredictor{
		url:    strings.TrimRight(baseURL, "/") + "/predict",
		client: &http.Client{Timeout: timeout},
	}
}

type remoteResponse struct {
	ID          string   `json:"id"`
	Prediction  int      `json:"prediction"`
	Probability *float64 `json:"probability"`
	Code        string   `json:"code"`
	Message     string   `json:"message"`
}

func (p *remotePredictor) Predict(ctx context.Context, in features.Input) (service.Result, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return service.Result{}, fmt.Errorf("%w: encode request: %w", ErrRemote, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return service.Result{}, fmt.Errorf("%w: %w", ErrRemote, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return service.Result{}, fmt.Errorf("%w: %w", ErrRemote, err)
	}
	defer resp.Body.Close()

	var out remoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return service.Result{}, fmt.Errorf("%w: %s: decode response: %w", ErrRemote, resp.Status, err)
	}
	if resp.StatusCode != http.StatusOK {
		return service.Result{}, &RemoteError{Status: resp.StatusCode, Code: out.Code, Message: out.Message}
	}
	if out.Prediction != int(service.Stay) && out.Prediction != int(service.Leave) {
		return service.Result{}, fmt.Errorf("%w: server returned label %d", ErrRemote, out.Prediction)
	}
	return service.Result{
		ID:          out.ID,
		Label:       service.Label(out.Prediction),
		Probability: out.Probability,
		Input:       in,
	}, nil
}
