// Package pipeline runs a calculation end to end: validate, calculate, pack
// the group counts into a grid, and memoize the outcome.
//
// The CLI, the batch command, the interactive calculator and the HTTP API all
// go through a [Runner], so caching and instrumentation behave the same on
// every surface.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	out, err := runner.Run(ctx, pipeline.Request{
//	    Design: design.Cohort,
//	    Params: design.DefaultParams(design.Cohort),
//	    Width:  600,
//	    Height: 400,
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(out.Result.Primary, out.Grid.CellSize)
package pipeline

import (
	"fmt"
	"math"
	"time"

	"github.com/matzehuels/samplesize/pkg/cache"
	"github.com/matzehuels/samplesize/pkg/design"
	errs "github.com/matzehuels/samplesize/pkg/errors"
	"github.com/matzehuels/samplesize/pkg/grid"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and TUI
// =============================================================================

const (
	// DefaultWidth is the default grid area width in pixels.
	DefaultWidth = 600.0

	// DefaultHeight is the default grid area height in pixels.
	DefaultHeight = 400.0
)

// =============================================================================
// Request / Outcome
// =============================================================================

// Request describes one calculation. A zero Width or Height skips packing.
type Request struct {
	Design design.Design `json:"design"`
	Params design.Params `json:"params"`
	Width  float64       `json:"width,omitempty"`
	Height float64       `json:"height,omitempty"`

	// Refresh bypasses the cache read; the fresh outcome is still stored.
	Refresh bool `json:"-"`
}

// Validate checks the design, its parameters and the grid area.
func (r Request) Validate() error {
	if !r.Design.Valid() {
		return errs.NewField(errs.ErrCodeInvalidDesign, "design", "unknown design %q", r.Design)
	}
	if err := r.Params.Validate(r.Design); err != nil {
		return err
	}
	for _, dim := range []struct {
		name string
		v    float64
	}{{"width", r.Width}, {"height", r.Height}} {
		if math.IsNaN(dim.v) || math.IsInf(dim.v, 0) || dim.v < 0 {
			return errs.NewField(errs.ErrCodeInvalidInput, dim.name,
				"%s must be a non-negative number, got %v", dim.name, dim.v)
		}
	}
	return nil
}

// WantsGrid reports whether the request asks for a grid layout.
func (r Request) WantsGrid() bool {
	return r.Width > 0 && r.Height > 0
}

// KeyOpts returns the cache key options for the grid area.
func (r Request) KeyOpts() cache.ResultKeyOpts {
	return cache.ResultKeyOpts{Width: r.Width, Height: r.Height}
}

// Outcome is the result of a [Runner.Run].
type Outcome struct {
	Result *design.Result `json:"result"`
	Grid   *grid.Layout   `json:"grid,omitempty"`

	// CacheHit is true when Result and Grid came from the cache.
	CacheHit bool `json:"cache_hit"`

	Stats Stats `json:"-"`
}

// Stats contains timing information for one run.
type Stats struct {
	CalculateTime time.Duration
	PackTime      time.Duration
	Total         time.Duration
}

// String renders the stats for debug logs.
func (s Stats) String() string {
	return fmt.Sprintf("calculate=%s pack=%s total=%s", s.CalculateTime, s.PackTime, s.Total)
}
