package design

import (
	"github.com/matzehuels/samplesize/pkg/estimate"
	"github.com/matzehuels/samplesize/pkg/zscore"
)

// GroupCounts is the per-group breakdown of the headline estimate, labelled
// for display. It is what a caller hands to grid.Pack.
type GroupCounts struct {
	N1     int    `json:"n1"`
	N2     int    `json:"n2"`
	Label1 string `json:"label1"`
	Label2 string `json:"label2"`
}

// Total returns N1 + N2.
func (g GroupCounts) Total() int { return g.N1 + g.N2 }

// Result is the outcome of one calculation. It is never mutated after
// [Calculate] returns it.
type Result struct {
	Design  Design            `json:"design"`
	Primary int               `json:"primary"`
	Z       *zscore.Pair      `json:"z,omitempty"`
	Methods *estimate.Methods `json:"methods,omitempty"`
	Groups  *GroupCounts      `json:"groups,omitempty"`

	// CaseExposure is the proportion exposed among cases derived from the
	// odds ratio (case-control only).
	CaseExposure float64 `json:"case_exposure,omitempty"`

	Summary string `json:"summary"`
}

// Counts returns the two group sizes for visualization. Prevalence has a
// single group, reported as (Primary, 0).
func (r *Result) Counts() (n1, n2 int) {
	if r.Groups == nil {
		return r.Primary, 0
	}
	return r.Groups.N1, r.Groups.N2
}

// comparativeResult labels an estimator's output. label1 names the group the
// ratio multiplies (estimator n2), label2 the reference group (estimator n1).
func comparativeResult(d Design, z zscore.Pair, m estimate.Methods, label1, label2 string) *Result {
	k := m.Primary()
	return &Result{
		Design:  d,
		Primary: k.Total,
		Z:       &z,
		Methods: &m,
		Groups:  &GroupCounts{N1: k.N2, N2: k.N1, Label1: label1, Label2: label2},
	}
}
