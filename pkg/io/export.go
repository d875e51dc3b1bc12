package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/matzehuels/samplesize/pkg/design"
	errs "github.com/matzehuels/samplesize/pkg/errors"
	"github.com/matzehuels/samplesize/pkg/grid"
)

// Report is the output of one batch run.
type Report struct {
	RunID       string           `json:"run_id"`
	GeneratedAt time.Time        `json:"generated_at"`
	Results     []ScenarioResult `json:"results"`
}

// Failed returns the number of scenarios that ended in an error.
func (r Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Error != nil {
			n++
		}
	}
	return n
}

// ScenarioResult pairs a scenario with its result or failure. Exactly one of
// Result and Error is set.
type ScenarioResult struct {
	Scenario
	Result   *design.Result `json:"result,omitempty"`
	Grid     *grid.Layout   `json:"grid,omitempty"`
	CacheHit bool           `json:"cache_hit,omitempty"`
	Error    *ErrorInfo     `json:"error,omitempty"`
}

// ErrorInfo is the serialized form of a calculation failure.
type ErrorInfo struct {
	Code    errs.Code `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

// NewErrorInfo converts err. Errors without a code become INTERNAL_ERROR.
func NewErrorInfo(err error) *ErrorInfo {
	if err == nil {
		return nil
	}
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	return &ErrorInfo{Code: code, Message: errs.UserMessage(err), Field: errs.GetField(err)}
}

// WriteResults encodes report as indented JSON to w.
func WriteResults(w io.Writer, report Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportResults writes report to a JSON file at path.
func ExportResults(report Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteResults(f, report)
}
