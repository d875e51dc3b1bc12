package design

import (
	"strings"

	errs "github.com/matzehuels/samplesize/pkg/errors"
)

// Design selects a calculator and its input schema.
type Design string

// Supported study designs.
const (
	Prevalence      Design = "prevalence"
	CaseControl     Design = "case-control"
	Cohort          Design = "cohort"
	RandomizedTrial Design = "rct"
	TwoMeans        Design = "two-means"
)

// All lists every design in display order.
var All = []Design{Prevalence, CaseControl, Cohort, RandomizedTrial, TwoMeans}

var aliases = map[string]Design{
	"prevalence":       Prevalence,
	"cross-sectional":  Prevalence,
	"case-control":     CaseControl,
	"casecontrol":      CaseControl,
	"cohort":           Cohort,
	"rct":              RandomizedTrial,
	"trial":            RandomizedTrial,
	"randomized-trial": RandomizedTrial,
	"two-means":        TwoMeans,
	"means":            TwoMeans,
	"twomeans":         TwoMeans,
}

var titles = map[Design]string{
	Prevalence:      "Prevalence (cross-sectional)",
	CaseControl:     "Case-control",
	Cohort:          "Cohort",
	RandomizedTrial: "Randomized controlled trial",
	TwoMeans:        "Comparison of two means",
}

// Parse resolves a design name or alias, case-insensitively.
func Parse(s string) (Design, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, "_", "-")
	if d, ok := aliases[key]; ok {
		return d, nil
	}
	return "", errs.NewField(errs.ErrCodeInvalidDesign, "design",
		"unknown design %q (must be one of: prevalence, case-control, cohort, rct, two-means)", s)
}

// Valid reports whether d is a supported design.
func (d Design) Valid() bool {
	_, ok := titles[d]
	return ok
}

// Title returns a human-readable name.
func (d Design) Title() string {
	if t, ok := titles[d]; ok {
		return t
	}
	return string(d)
}

// Comparative reports whether d reports Kelsey/Fleiss/Fleiss-CC estimates.
func (d Design) Comparative() bool {
	return d == CaseControl || d == Cohort || d == RandomizedTrial
}

func (d Design) String() string { return string(d) }
