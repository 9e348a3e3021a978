package api

import (
	"net/http"

	"github.com/okian/attrition/internal/domain/features"
)

// SchemaHandler serves the input schema.
type SchemaHandler struct {
	fields []fieldSchema
}

type fieldSchema struct {
	Position int      `json:"position"`
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Kind     string   `json:"kind"`
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Default  any      `json:"default"`
	Options  []string `json:"options,omitempty"`
}

// NewSchemaHandler creates a new schema handler.
func NewSchemaHandler() *SchemaHandler {
	specs := features.Schema()
	fields := make([]fieldSchema, len(specs))
	for i, s := range specs {
		f := fieldSchema{
			Position: i,
			Name:     s.Name,
			Label:    s.Label,
			Kind:     s.Kind.String(),
			Default:  s.Default,
		}
		if s.Numeric() {
			lo := s.Min
			f.Min = &lo
			if !s.Unbounded() {
				hi := s.Max
				f.Max = &hi
			}
		} else {
			f.Options = s.Categories.Values()
		}
		fields[i] = f
	}
	return &SchemaHandler{fields: fields}
}

// HandleSchema handles GET /schema requests.
func (h *SchemaHandler) HandleSchema(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.fields)
}
