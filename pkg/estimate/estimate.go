// Package estimate implements the two-proportion sample-size estimators shared
// by the case-control, cohort and randomized-trial designs.
//
// Three closed-form methods are computed side by side:
//
//   - Kelsey: pooled-variance normal approximation
//   - Fleiss: Levin's modification with separate null and alternative variances
//   - Fleiss with continuity correction: a single-step correction of the
//     unrounded Fleiss value
//
// All three are O(1). The continuity correction is applied in closed form and
// is never refined iteratively.
//
// # Ratio Convention
//
// The allocation ratio r is n2/n1: the reference group is n1 and the paired
// group is ceil(n1·r). The pooled proportion weights p2 by r accordingly, so
// callers must pass the group the ratio multiplies as P2.
package estimate

import (
	"math"

	"github.com/matzehuels/samplesize/pkg/correction"
	errs "github.com/matzehuels/samplesize/pkg/errors"
	"github.com/matzehuels/samplesize/pkg/zscore"
)

// Method names used in tables and serialized output.
const (
	MethodKelsey   = "kelsey"
	MethodFleiss   = "fleiss"
	MethodFleissCC = "fleiss_cc"
)

// GroupEstimate is the per-group size produced by one method.
type GroupEstimate struct {
	N1    int `json:"n1"`
	N2    int `json:"n2"`
	Total int `json:"total"`
}

// Methods holds the three estimates for one comparison.
type Methods struct {
	Kelsey   GroupEstimate `json:"kelsey"`
	Fleiss   GroupEstimate `json:"fleiss"`
	FleissCC GroupEstimate `json:"fleiss_cc"`
}

// Primary returns the headline estimate (Kelsey).
func (m Methods) Primary() GroupEstimate { return m.Kelsey }

// Each calls fn for every method in display order.
func (m Methods) Each(fn func(name string, e GroupEstimate)) {
	fn(MethodKelsey, m.Kelsey)
	fn(MethodFleiss, m.Fleiss)
	fn(MethodFleissCC, m.FleissCC)
}

// Input describes one two-proportion comparison.
type Input struct {
	P1      float64     // proportion in the reference group, in (0,1)
	P2      float64     // proportion in the paired group, in (0,1)
	Ratio   float64     // n2/n1, > 0
	Z       zscore.Pair // quantiles for the requested confidence and power
	Dropout bool        // inflate each method's n1 for 10% non-response
}

// Compare computes the Kelsey, Fleiss and Fleiss-CC estimates.
//
// It returns INVALID_RATIO for r ≤ 0, INVALID_INPUT for proportions outside
// (0,1), EQUAL_PROPORTIONS when p1 == p2, NON_FINITE if any intermediate
// value is NaN or infinite, and INFINITE_SAMPLE_SIZE when a group total would
// exceed errors.MaxCount.
func Compare(in Input) (Methods, error) {
	if err := errs.ValidateRatio(in.Ratio); err != nil {
		return Methods{}, err
	}
	if err := validateProportion("p1", in.P1); err != nil {
		return Methods{}, err
	}
	if err := validateProportion("p2", in.P2); err != nil {
		return Methods{}, err
	}
	if in.P1 == in.P2 {
		return Methods{}, errs.New(errs.ErrCodeEqualProportions,
			"proportions must differ, both are %g", in.P1)
	}

	r := in.Ratio
	p1, p2 := in.P1, in.P2
	diff := p1 - p2
	diff2 := diff * diff

	pAvg := (p1 + r*p2) / (1 + r)
	pAvgQAvg := pAvg * (1 - pAvg)
	p1q1 := p1 * (1 - p1)
	p2q2 := p2 * (1 - p2)

	zSum := in.Z.Sum()
	kelseyRaw := zSum * zSum * pAvgQAvg * (r + 1) / (r * diff2)

	term1 := in.Z.Alpha * math.Sqrt((r+1)*pAvgQAvg)
	term2 := in.Z.Beta * math.Sqrt(r*p1q1+p2q2)
	fleissRaw := (term1 + term2) * (term1 + term2) / (r * diff2)

	correctionTerm := 2 * (r + 1) / (fleissRaw * r * math.Abs(diff))
	root := 1 + math.Sqrt(1+correctionTerm)
	fleissCCRaw := math.Ceil(fleissRaw/4*root*root)

	var m Methods
	var err error
	if m.Kelsey, err = finish("kelsey", kelseyRaw, r, in.Dropout); err != nil {
		return Methods{}, err
	}
	if m.Fleiss, err = finish("fleiss", fleissRaw, r, in.Dropout); err != nil {
		return Methods{}, err
	}
	if m.FleissCC, err = finish("fleiss_cc", fleissCCRaw, r, in.Dropout); err != nil {
		return Methods{}, err
	}
	return m, nil
}

// finish rounds the reference-group size, applies dropout to it, and derives
// the paired group from the ratio.
func finish(name string, raw, r float64, dropout bool) (GroupEstimate, error) {
	if err := errs.ValidateCount(name, raw); err != nil {
		return GroupEstimate{}, err
	}
	n1 := math.Ceil(raw)
	n1 = math.Ceil(correction.Dropout(n1, dropout))
	n2 := math.Ceil(n1 * r)
	if err := errs.ValidateCount(name, n1+n2); err != nil {
		return GroupEstimate{}, err
	}
	return NewGroupEstimate(int(n1), int(n2)), nil
}

// NewGroupEstimate builds an estimate with Total = n1 + n2.
func NewGroupEstimate(n1, n2 int) GroupEstimate {
	return GroupEstimate{N1: n1, N2: n2, Total: n1 + n2}
}

func validateProportion(name string, p float64) error {
	if err := errs.ValidateFinite(name, p); err != nil {
		return err
	}
	if p <= 0 || p >= 1 {
		return errs.NewField(errs.ErrCodeInvalidInput, name,
			"%s must be between 0 and 1 (exclusive), got %g", name, p)
	}
	return nil
}
