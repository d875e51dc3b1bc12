// Package design computes minimum sample sizes for epidemiological study designs.
//
// Five designs are supported, each with its own closed-form calculator:
//
//   - [Prevalence]: cross-sectional estimate of a single proportion
//   - [CaseControl]: cases vs controls, effect given as an odds ratio
//   - [Cohort]: exposed vs unexposed incidence proportions
//   - [RandomizedTrial]: two arm proportions
//   - [TwoMeans]: difference between two normal means
//
// The comparative designs (case-control, cohort, trial) delegate to
// [estimate.Compare] and report Kelsey, Fleiss and Fleiss-CC estimates, with
// Kelsey as the headline number.
//
// # Inputs
//
// All proportions in [Params] are percentages strictly between 0 and 100.
// Confidence is expected in 90–99 and power in 80–99; the calculators accept
// other values and fall back to the lenient z-score tables, while
// [Params.Validate] enforces the ranges for callers that want strict input.
// Ratios must be positive. [Fields] documents every input per design with
// its UI range, step and default.
//
// # Errors
//
// Inputs without a finite answer are returned as *errors.Error values with a
// domain code (INFINITE_SAMPLE_SIZE, IMPOSSIBLE_INPUTS, EQUAL_PROPORTIONS,
// EQUAL_MEANS, INVALID_RATIO). No partial result accompanies an error.
//
// # Determinism
//
// [Calculate] is pure. It reads only its arguments and returns a fresh
// [Result], so identical inputs always give identical output.
//
// [estimate.Compare]: github.com/matzehuels/samplesize/pkg/estimate.Compare
package design
