// Package site serves the interactive prediction form.
package site

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	service "github.com/okian/attrition/internal/app"
	"github.com/okian/attrition/internal/domain/category"
	"github.com/okian/attrition/internal/domain/features"
	"github.com/okian/attrition/pkg/logger"
)

//go:embed templates/index.html
var templatesFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templatesFS, "templates/index.html")) //nolint:gochecknoglobals // parsed once

// Error constants
var (
	ErrRender   = errors.New("form render failed")
	ErrBadInput = errors.New("bad form input")
)

// Predictor runs one prediction for a raw record.
type Predictor interface {
	Predict(ctx context.Context, in features.Input) (service.Result, error)
}

// Register attaches the form routes to r.
func Register(_ context.Context, r chi.Router, p Predictor) {
	if r == nil {
		panic("router is nil")
	}
	h := NewRootHandler(p)
	r.Get("/", h.HandleRoot)
	r.Post("/", h.HandleSubmit)
}

// RootHandler renders the form and its result.
type RootHandler struct {
	predictor Predictor
	logger    logger.Logger
}

// NewRootHandler creates a new root handler.
func NewRootHandler(p Predictor) *RootHandler {
	return &RootHandler{predictor: p, logger: logger.Named("site")}
}

type optionView struct {
	Value    string
	Selected bool
}

type fieldView struct {
	Name, Label string
	Numeric     bool
	Min, Max    string
	Value       string
	Options     []optionView
}

type resultView struct {
	Leave       bool
	Message     string
	Probability string
}

type pageView struct {
	Fields []fieldView
	Result *resultView
	Error  string
}

// HandleRoot handles GET / with every field at its default.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, pageView{Fields: fieldViews(features.Defaults())})
}

// HandleSubmit handles POST /: parse, clamp, predict, re-render with the
// verdict or the error.
func (h *RootHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, pageView{
			Fields: fieldViews(features.Defaults()),
			Error:  fmt.Errorf("%w: %w", ErrBadInput, err).Error(),
		})
		return
	}

	in, err := parseForm(r)
	if err != nil {
		h.render(w, r, http.StatusBadRequest, pageView{Fields: fieldViews(in), Error: err.Error()})
		return
	}
	in = features.Clamp(in)

	res, err := h.predictor.Predict(r.Context(), in)
	if err != nil {
		status := http.StatusInternalServerError
		if isInputError(err) {
			status = http.StatusBadRequest
		}
		h.render(w, r, status, pageView{Fields: fieldViews(in), Error: err.Error()})
		return
	}

	view := &resultView{Leave: res.Label == service.Leave, Message: res.Label.Message()}
	if res.Probability != nil {
		view.Probability = strconv.FormatFloat(*res.Probability*100, 'f', 1, 64) + "%"
	}
	h.render(w, r, http.StatusOK, pageView{Fields: fieldViews(in), Result: view})
}

// parseForm builds an Input from the posted fields. Blank fields are left
// out so assembly reports them as missing. The returned Input is usable for
// re-rendering even when err is set.
func parseForm(r *http.Request) (features.Input, error) {
	in := make(features.Input, features.Count)
	var firstErr error
	for _, s := range features.Schema() {
		text := r.PostForm.Get(s.Name)
		if text == "" {
			continue
		}
		v, err := features.ParseValue(s.Name, text)
		if err != nil {
			in[s.Name] = text
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		in[s.Name] = v
	}
	return in, firstErr
}

func isInputError(err error) bool {
	return errors.Is(err, features.ErrMissingField) ||
		errors.Is(err, features.ErrInvalidValue) ||
		errors.Is(err, category.ErrUnknownCategory)
}

func fieldViews(in features.Input) []fieldView {
	specs := features.Schema()
	views := make([]fieldView, len(specs))
	for i, s := range specs {
		v := fieldView{Name: s.Name, Label: s.Label, Numeric: s.Numeric()}
		raw := in[s.Name]
		if v.Numeric {
			v.Min = formatNumber(s.Min)
			if !s.Unbounded() {
				v.Max = formatNumber(s.Max)
			}
			v.Value = formatValue(raw)
		} else {
			selected, _ := raw.(string)
			for _, opt := range s.Categories.Values() {
				v.Options = append(v.Options, optionView{Value: opt, Selected: opt == selected})
			}
		}
		views[i] = v
	}
	return views
}

func formatValue(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case float64:
		return formatNumber(n)
	case string:
		return n
	default:
		return fmt.Sprint(n)
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (h *RootHandler) render(w http.ResponseWriter, r *http.Request, status int, view pageView) {
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, view); err != nil {
		h.logger.Error(r.Context(), "render form", logger.Error(fmt.Errorf("%w: %w", ErrRender, err)))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
