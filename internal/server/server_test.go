package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/samplesize/pkg/design"
	"github.com/matzehuels/samplesize/pkg/observability"
	"github.com/matzehuels/samplesize/pkg/pipeline"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	return New(pipeline.NewRunner(nil, nil, logger), logger, Options{Addr: ":0"})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decode[map[string]string](t, rec); got["status"] != "ok" {
		t.Errorf("body = %v", got)
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("missing request ID header")
	}
}

func TestRequestIDIsPropagated(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("request ID = %q, want abc-123", got)
	}
}

func TestRequestIDVisibleToChiMiddleware(t *testing.T) {
	s := newTestServer(t)
	var seen string
	s.router.Get("/id", func(w http.ResponseWriter, r *http.Request) {
		seen = middleware.GetReqID(r.Context())
	})

	rec := do(t, s, http.MethodGet, "/id", "")
	if seen == "" || seen != rec.Header().Get(RequestIDHeader) {
		t.Errorf("chi request ID = %q, header = %q", seen, rec.Header().Get(RequestIDHeader))
	}
}

func TestVersion(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/v1/version", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decode[map[string]string](t, rec); got["version"] == "" || got["go_version"] == "" {
		t.Errorf("body = %v", got)
	}
}

func TestDesigns(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/v1/designs", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode[struct {
		Designs []designInfo `json:"designs"`
	}](t, rec)
	if len(body.Designs) != len(design.All) {
		t.Fatalf("got %d designs, want %d", len(body.Designs), len(design.All))
	}
	for i, d := range body.Designs {
		if d.Design != design.All[i] || len(d.Fields) == 0 || d.Title == "" {
			t.Errorf("design %d = %+v", i, d)
		}
	}
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		body        string
		wantStatus  int
		wantPrimary int
		wantCode    string
		wantField   string
		wantGrid    bool
	}{
		{
			name:        "prevalence defaults",
			path:        "/v1/calculate/prevalence",
			wantStatus:  http.StatusOK,
			wantPrimary: 400,
		},
		{
			name:        "prevalence fpc",
			path:        "/v1/calculate/prevalence",
			body:        `{"prevalence": 50, "precision": 5, "fpc": true, "population": 1000}`,
			wantStatus:  http.StatusOK,
			wantPrimary: 286,
		},
		{
			name:        "case-control with grid",
			path:        "/v1/calculate/case_control",
			body:        `{"confidence": 95, "power": 80, "control_exposure": 30, "odds_ratio": 2, "ratio": 1, "width": 600, "height": 400}`,
			wantStatus:  http.StatusOK,
			wantPrimary: 284,
			wantGrid:    true,
		},
		{
			name:       "odds ratio one",
			path:       "/v1/calculate/case-control",
			body:       `{"odds_ratio": 1}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "INFINITE_SAMPLE_SIZE",
			wantField:  "odds_ratio",
		},
		{
			name:       "equal proportions",
			path:       "/v1/calculate/rct",
			body:       `{"proportion1": 40, "proportion2": 40}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "EQUAL_PROPORTIONS",
		},
		{
			name:       "zero ratio",
			path:       "/v1/calculate/cohort",
			body:       `{"ratio": 0}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "INVALID_RATIO",
			wantField:  "ratio",
		},
		{
			name:       "power out of range",
			path:       "/v1/calculate/two-means",
			body:       `{"power": 50}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_INPUT",
			wantField:  "power",
		},
		{
			name:       "unknown design",
			path:       "/v1/calculate/survival",
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_DESIGN",
			wantField:  "design",
		},
		{
			name:       "malformed body",
			path:       "/v1/calculate/cohort",
			body:       `{"ratio": `,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_INPUT",
		},
		{
			name:       "unknown field",
			path:       "/v1/calculate/cohort",
			body:       `{"risk": 3}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_INPUT",
		},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, tt.path, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus == http.StatusOK {
				out := decode[pipeline.Outcome](t, rec)
				if out.Result == nil || out.Result.Primary != tt.wantPrimary {
					t.Errorf("primary = %+v, want %d", out.Result, tt.wantPrimary)
				}
				if (out.Grid != nil) != tt.wantGrid {
					t.Errorf("grid = %+v, want present %v", out.Grid, tt.wantGrid)
				}
				return
			}
			body := decode[errorBody](t, rec)
			if body.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", body.Error.Code, tt.wantCode)
			}
			if body.Error.Field != tt.wantField {
				t.Errorf("field = %q, want %q", body.Error.Field, tt.wantField)
			}
			if body.Error.Message == "" {
				t.Error("empty error message")
			}
		})
	}
}

func TestGrid(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/v1/grid", `{"n1": 142, "n2": 142, "width": 600, "height": 400}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	got := decode[map[string]float64](t, rec)
	if got["cell_size_px"] != 20 || got["scale_factor"] != 1 || got["scaled_n1"] != 142 {
		t.Errorf("body = %v", got)
	}

	// Omitted area uses the configured default.
	rec = do(t, s, http.MethodPost, "/v1/grid", `{"n1": 10, "n2": 0}`)
	got = decode[map[string]float64](t, rec)
	if got["width"] != pipeline.DefaultWidth || got["height"] != pipeline.DefaultHeight {
		t.Errorf("default area = %v x %v", got["width"], got["height"])
	}

	rec = do(t, s, http.MethodPost, "/v1/grid", `{"n1": -1, "n2": 0}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("negative count status = %d", rec.Code)
	}
}

func TestNotFoundAndMethod(t *testing.T) {
	s := newTestServer(t)
	if rec := do(t, s, http.MethodGet, "/v2/nothing", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown route status = %d", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/v1/grid", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("wrong method status = %d", rec.Code)
	}
}

func TestRecovererReturns500(t *testing.T) {
	s := newTestServer(t)
	s.router.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })

	rec := do(t, s, http.MethodGet, "/boom", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := decode[errorBody](t, rec); body.Error.Code != "INTERNAL_ERROR" {
		t.Errorf("code = %q", body.Error.Code)
	}
}

type recordingHooks struct {
	observability.NoopHTTPHooks
	mu         sync.Mutex
	routes     []string
	statuses   []int
	errorsSeen int
}

func (h *recordingHooks) OnResponse(_ context.Context, _, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, route)
	h.statuses = append(h.statuses, status)
}

func (h *recordingHooks) OnError(context.Context, string, string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errorsSeen++
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	s := newTestServer(t)
	do(t, s, http.MethodPost, "/v1/calculate/cohort", "")
	do(t, s, http.MethodPost, "/v1/calculate/cohort", `{"ratio": 0}`)

	if len(hooks.routes) != 2 {
		t.Fatalf("responses = %d, want 2", len(hooks.routes))
	}
	if hooks.routes[0] != "/v1/calculate/{design}" {
		t.Errorf("route = %q, want pattern", hooks.routes[0])
	}
	if hooks.statuses[0] != http.StatusOK || hooks.statuses[1] != http.StatusUnprocessableEntity {
		t.Errorf("statuses = %v", hooks.statuses)
	}
	if hooks.errorsSeen != 0 {
		t.Errorf("client errors should not fire OnError, got %d", hooks.errorsSeen)
	}
}

func TestStartShutsDownOnCancel(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	s := New(pipeline.NewRunner(nil, nil, logger), logger, Options{Addr: "127.0.0.1:0"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() = %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
