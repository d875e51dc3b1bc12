package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/samplesize/pkg/buildinfo"
	"github.com/matzehuels/samplesize/pkg/design"
	errs "github.com/matzehuels/samplesize/pkg/errors"
	"github.com/matzehuels/samplesize/pkg/grid"
	"github.com/matzehuels/samplesize/pkg/pipeline"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

// designInfo describes one design for GET /v1/designs.
type designInfo struct {
	Design      design.Design  `json:"design"`
	Title       string         `json:"title"`
	Comparative bool           `json:"comparative"`
	Fields      []design.Field `json:"fields"`
}

func (s *Server) handleDesigns(w http.ResponseWriter, r *http.Request) {
	out := make([]designInfo, 0, len(design.All))
	for _, d := range design.All {
		out = append(out, designInfo{
			Design:      d,
			Title:       d.Title(),
			Comparative: d.Comparative(),
			Fields:      design.Fields(d),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"designs": out})
}

// calculateRequest is the POST /v1/calculate body: the design's parameters
// plus an optional grid area.
type calculateRequest struct {
	design.Params
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// handleCalculate runs one calculation. Omitted parameters keep the design's
// defaults. ?refresh=true bypasses the cache.
func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	d, err := design.Parse(chi.URLParam(r, "design"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	body := calculateRequest{Params: design.DefaultParams(d)}
	if err := decodeBody(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))

	out, err := s.runner.Run(r.Context(), pipeline.Request{
		Design:  d,
		Params:  body.Params,
		Width:   body.Width,
		Height:  body.Height,
		Refresh: refresh,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// gridRequest is the POST /v1/grid body.
type gridRequest struct {
	N1     int     `json:"n1"`
	N2     int     `json:"n2"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	var body gridRequest
	if err := decodeBody(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	if body.N1 < 0 || body.N2 < 0 {
		s.writeError(w, r, errs.NewField(errs.ErrCodeInvalidInput, "n1",
			"group counts must not be negative, got %d and %d", body.N1, body.N2))
		return
	}
	if body.Width == 0 {
		body.Width = s.opts.GridWidth
	}
	if body.Height == 0 {
		body.Height = s.opts.GridHeight
	}

	layout := s.runner.Pack(r.Context(), body.N1, body.N2, body.Width, body.Height)
	writeJSON(w, http.StatusOK, gridResponse{Layout: layout, Width: body.Width, Height: body.Height})
}

type gridResponse struct {
	grid.Layout
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// decodeBody decodes a JSON body into v. An empty body leaves v unchanged.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errs.New(errs.ErrCodeInvalidInput, "request body exceeds %d bytes", maxBodyBytes)
		}
		return errs.New(errs.ErrCodeInvalidInput, "invalid JSON body: %v", err)
	}
	if dec.More() {
		return errs.New(errs.ErrCodeInvalidInput, "request body must contain a single JSON object")
	}
	return nil
}

