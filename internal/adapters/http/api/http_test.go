package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/okian/attrition/internal/adapters/http/api"
	service "github.com/okian/attrition/internal/app"
	"github.com/okian/attrition/internal/domain/features"
	"github.com/okian/attrition/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

type identityScaler struct{ width int }

func (s identityScaler) Transform(batch [][]float64) ([][]float64, error) {
	out := make([][]float64, len(batch))
	for i, row := range batch {
		w := s.width
		if w == 0 {
			w = len(row)
		}
		out[i] = make([]float64, w)
		copy(out[i], row)
	}
	return out, nil
}

// ageClassifier predicts leave for anyone under 30 and reports a fixed
// probability.
type ageClassifier struct{}

func (ageClassifier) Predict(batch [][]float64) ([]int, error) {
	out := make([]int, len(batch))
	for i, row := range batch {
		if row[0] < 30 {
			out[i] = 1
		}
	}
	return out, nil
}

func (ageClassifier) PredictProba(batch [][]float64) ([]float64, error) {
	return []float64{0.75}, nil
}

// recordingPredictor captures the input it was handed.
type recordingPredictor struct {
	got  features.Input
	err  error
	prob *float64
}

func (p *recordingPredictor) Predict(_ context.Context, in features.Input) (service.Result, error) {
	p.got = in
	if p.err != nil {
		return service.Result{}, p.err
	}
	return service.Result{ID: "r1", Label: service.Stay, Probability: p.prob}, nil
}

func (p *recordingPredictor) GetStats() map[string]interface{} {
	return map[string]interface{}{"predictions": 7}
}

func newRouter(deps api.Dependencies, opts ...api.Option) http.Handler {
	r := chi.NewRouter()
	api.NewServer(deps, opts...).Register(context.Background(), r)
	return r
}

func newService(width int) *service.Service {
	svc, err := service.New(identityScaler{width: width}, ageClassifier{},
		service.WithIDGenerator(func() string { return "id-1" }))
	if err != nil {
		panic(err)
	}
	return svc
}

func body(t *testing.T, in features.Input) *strings.Reader {
	t.Helper()
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return strings.NewReader(string(b))
}

func post(h http.Handler, payload *strings.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/predict", payload)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return out
}

func TestPredictEndpoint(t *testing.T) {
	Convey("Given the API backed by a service with stub artifacts", t, func() {
		h := newRouter(newService(0))

		Convey("When posting a complete young employee record", func() {
			in := features.Defaults()
			in["age"] = 25
			w := post(h, body(t, in))

			Convey("Then it returns the leave verdict", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldEqual, "application/json; charset=utf-8")
				resp := decode(w)
				So(resp["id"], ShouldEqual, "id-1")
				So(resp["prediction"], ShouldEqual, 1.0)
				So(resp["label"], ShouldEqual, "leave")
				So(resp["message"], ShouldEqual, "likely to LEAVE")
				So(resp["probability"], ShouldEqual, 0.75)
			})
		})

		Convey("When posting the defaults unchanged", func() {
			w := post(h, body(t, features.Defaults()))

			Convey("Then it returns the stay verdict", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode(w)["label"], ShouldEqual, "stay")
			})
		})

		Convey("When monthly_income is missing", func() {
			in := features.Defaults()
			delete(in, "monthly_income")
			w := post(h, body(t, in))

			Convey("Then it is a 400 naming the field", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				resp := decode(w)
				So(resp["code"], ShouldEqual, "missing_field")
				So(resp["message"], ShouldContainSubstring, "monthly_income")
			})
		})

		Convey("When a category is unknown", func() {
			in := features.Defaults()
			in["department"] = "Engineering"
			w := post(h, body(t, in))

			Convey("Then it is a 400 unknown_category", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode(w)["code"], ShouldEqual, "unknown_category")
			})
		})

		Convey("When a numeric field holds a string", func() {
			in := features.Defaults()
			in["age"] = "thirty"
			w := post(h, body(t, in))

			Convey("Then it is a 400 invalid_value", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode(w)["code"], ShouldEqual, "invalid_value")
			})
		})

		Convey("When the body is not JSON", func() {
			w := post(h, strings.NewReader("age=30"))

			Convey("Then it is a 400 bad_request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode(w)["code"], ShouldEqual, "bad_request")
			})
		})

		Convey("When a valid record is followed by trailing data", func() {
			b, err := json.Marshal(features.Defaults())
			So(err, ShouldBeNil)
			w := post(h, strings.NewReader(string(b)+" garbage"))
			w2 := post(h, strings.NewReader(string(b)+"{}"))

			Convey("Then it is a 400 bad_request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode(w)["code"], ShouldEqual, "bad_request")
				So(w2.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When a valid record is followed only by whitespace", func() {
			b, err := json.Marshal(features.Defaults())
			So(err, ShouldBeNil)
			w := post(h, strings.NewReader(string(b)+"\n\t "))

			Convey("Then it is accepted", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When the body is JSON null", func() {
			w := post(h, strings.NewReader("null"))

			Convey("Then it is a 400 bad_request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})

	Convey("Given the API with a tiny body limit", t, func() {
		h := newRouter(newService(0), api.WithMaxBodyBytes(16))

		Convey("When posting a full record", func() {
			w := post(h, body(t, features.Defaults()))

			Convey("Then it is rejected as too large", func() {
				So(w.Code, ShouldEqual, http.StatusRequestEntityTooLarge)
				So(decode(w)["code"], ShouldEqual, "payload_too_large")
			})
		})
	})

	Convey("Given a service whose scaler returns the wrong width", t, func() {
		h := newRouter(newService(12))
		w := post(h, body(t, features.Defaults()))

		Convey("Then it is a 500 scaling_error", func() {
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(decode(w)["code"], ShouldEqual, "scaling_error")
		})
	})

	Convey("Given a recording predictor", t, func() {
		p := &recordingPredictor{}
		h := newRouter(p)

		Convey("When numeric values are out of range", func() {
			in := features.Defaults()
			in["age"] = 150
			in["job_level"] = -3
			in["monthly_income"] = 1e9
			w := post(h, body(t, in))

			Convey("Then they are clamped before prediction", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(p.got["age"], ShouldEqual, 70.0)
				So(p.got["job_level"], ShouldEqual, 1.0)
				So(p.got["monthly_income"], ShouldEqual, 1e9)
				So(decode(w)["input"].(map[string]any)["age"], ShouldEqual, 70.0)
			})
		})

		Convey("When the result cannot be encoded", func() {
			nan := math.NaN()
			p.prob = &nan
			w := post(h, body(t, features.Defaults()))

			Convey("Then it is a 500 with a JSON error body", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(decode(w)["code"], ShouldEqual, "internal_error")
				So(w.Header().Get("Content-Type"), ShouldStartWith, "application/json")
			})
		})

		Convey("When the predictor fails unexpectedly", func() {
			p.err = errors.New("boom")
			w := post(h, body(t, features.Defaults()))

			Convey("Then it is a 500 internal_error", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(decode(w)["code"], ShouldEqual, "internal_error")
			})
		})
	})
}

func TestSchemaEndpoint(t *testing.T) {
	Convey("Given the API", t, func() {
		h := newRouter(&recordingPredictor{})
		req := httptest.NewRequest(http.MethodGet, "/schema", http.NoBody)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		Convey("Then it lists every field in vector order", func() {
			So(w.Code, ShouldEqual, http.StatusOK)
			var fields []map[string]any
			So(json.Unmarshal(w.Body.Bytes(), &fields), ShouldBeNil)
			So(fields, ShouldHaveLength, features.Count)
			So(fields[0]["name"], ShouldEqual, "age")
			So(fields[0]["kind"], ShouldEqual, "integer")
			So(fields[1]["name"], ShouldEqual, "business_travel")
			So(fields[1]["options"], ShouldResemble, []any{"Non-Travel", "Travel_Rarely", "Travel_Frequently"})
			So(fields[18]["name"], ShouldEqual, "overtime")
		})

		Convey("Then unbounded fields carry no max", func() {
			var fields []map[string]any
			_ = json.Unmarshal(w.Body.Bytes(), &fields)
			for _, f := range fields {
				if f["name"] == "monthly_income" {
					_, hasMax := f["max"]
					So(hasMax, ShouldBeFalse)
					So(f["min"], ShouldEqual, 0.0)
				}
			}
		})
	})
}

func TestStatsAndHealthEndpoints(t *testing.T) {
	Convey("Given the API", t, func() {
		h := newRouter(&recordingPredictor{})

		Convey("When requesting /stats", func() {
			req := httptest.NewRequest(http.MethodGet, "/stats", http.NoBody)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			Convey("Then it returns the provider's stats", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode(w)["predictions"], ShouldEqual, 7.0)
			})
		})

		Convey("When requesting /healthz after some traffic", func() {
			_ = post(h, body(t, features.Defaults()))
			req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			Convey("Then it exposes the predictor metrics", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "attrition_predictor_http_requests_total")
			})
		})

		Convey("When using the wrong method", func() {
			req := httptest.NewRequest(http.MethodGet, "/predict", http.NoBody)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			Convey("Then the router rejects it", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			})
		})
	})
}

func TestErrorHelpers(t *testing.T) {
	Convey("Given an operation error with a kind and cause", t, func() {
		cause := errors.New("eof")
		err := api.WrapKind("api.predict", api.ErrBadRequest, cause)

		Convey("Then it renders op, kind and cause", func() {
			So(err.Error(), ShouldEqual, "api.predict: bad request: eof")
		})

		Convey("Then it matches both the kind and the cause", func() {
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
		})
	})

	Convey("Given the other constructors", t, func() {
		So(api.NewKind("op", api.ErrPayloadTooLarge).Error(), ShouldEqual, "op: payload too large")
		So(api.Wrap("op", errors.New("x")).Error(), ShouldEqual, "op: x")
		So(api.Wrap("op", nil), ShouldBeNil)
	})
}
