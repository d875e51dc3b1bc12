// Package pkg provides the core libraries for samplesize, a sample-size
// calculator for epidemiological study designs.
//
// # Overview
//
// The pkg directory is organized into three areas:
//
//  1. Engine - [zscore], [correction], [estimate], [design] and [grid]. Pure
//     functions with no I/O and no logging.
//  2. Infrastructure - [cache], [config], [io], [observability] and
//     [buildinfo].
//  3. Orchestration - [pipeline], which validates, calculates, packs and
//     caches a request for the CLI, the interactive calculator and the HTTP
//     API.
//
// # Architecture
//
// The data flow for one calculation:
//
//	Design + Params
//	       ↓
//	  [design] package (validate, dispatch to a calculator)
//	       ↓
//	  [zscore] + [estimate] + [correction] (quantiles, three estimators, FPC and dropout)
//	       ↓
//	  [design.Result] (headline total, per-group counts, summary)
//	       ↓
//	  [grid] package (cell size and dot scale for the chart)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/samplesize/pkg/design"
//	    "github.com/matzehuels/samplesize/pkg/grid"
//	)
//
//	p := design.DefaultParams(design.CaseControl)
//	p.OddsRatio = 2.5
//	r, err := design.Calculate(design.CaseControl, p)
//	if err != nil {
//	    // errors.GetCode(err) is INFINITE_SAMPLE_SIZE, IMPOSSIBLE_INPUTS, ...
//	}
//	n1, n2 := r.Counts()
//	layout := grid.Pack(n1, n2, 600, 400)
//
// Use [pipeline.Runner] to add caching and observability hooks around the
// same steps.
package pkg
