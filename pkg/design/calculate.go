package design

import (
	"math"

	"github.com/matzehuels/samplesize/pkg/correction"
	errs "github.com/matzehuels/samplesize/pkg/errors"
	"github.com/matzehuels/samplesize/pkg/estimate"
	"github.com/matzehuels/samplesize/pkg/zscore"
)

// Thresholds below which two inputs are treated as showing no effect.
const (
	// OddsRatioTolerance: |OR-1| below this has no finite sample size.
	OddsRatioTolerance = 0.001

	// ProportionTolerance: |p1-p2| below this is rejected as equal proportions.
	ProportionTolerance = 0.0001

	// MaxCaseExposure: a derived case exposure above this is impossible.
	MaxCaseExposure = 0.999
)

// prevalenceQuantile is the squared 95% quantile, 1.96² ≈ 3.84, rounded to 4.
const prevalenceQuantile = 4

// Calculate runs the calculator for d.
func Calculate(d Design, p Params) (*Result, error) {
	var (
		r   *Result
		err error
	)
	switch d {
	case Prevalence:
		r, err = calculatePrevalence(p)
	case CaseControl:
		r, err = calculateCaseControl(p)
	case Cohort:
		r, err = calculateCohort(p)
	case RandomizedTrial:
		r, err = calculateTrial(p)
	case TwoMeans:
		r, err = calculateMeans(p)
	default:
		return nil, errs.NewField(errs.ErrCodeInvalidDesign, "design", "unknown design %q", d)
	}
	if err != nil {
		return nil, err
	}
	r.Summary = summarize(r, p)
	return r, nil
}

// calculatePrevalence: n = 4PQ/D², then FPC, then dropout, then ceiling.
func calculatePrevalence(p Params) (*Result, error) {
	if err := p.validatePrevalence(); err != nil {
		return nil, err
	}
	prev := p.Prevalence / 100
	q := 1 - prev
	d := p.Precision / 100

	n := prevalenceQuantile * prev * q / (d * d)
	if p.FPC {
		n = correction.FPC(n, p.Population)
	}
	n = correction.Dropout(n, p.Dropout)
	if err := errs.ValidateCount("n", n); err != nil {
		return nil, err
	}
	return &Result{Design: Prevalence, Primary: int(math.Ceil(n))}, nil
}

// calculateCaseControl derives case exposure from the odds ratio:
// p1 = OR·p0 / (1 + p0·(OR-1)).
func calculateCaseControl(p Params) (*Result, error) {
	if err := p.validateCaseControl(); err != nil {
		return nil, err
	}
	p0 := p.ControlExposure / 100
	or := p.OddsRatio
	if math.Abs(or-1) < OddsRatioTolerance {
		return nil, errs.NewField(errs.ErrCodeInfiniteSampleSize, "odds_ratio",
			"an odds ratio of %g implies no detectable effect", or)
	}
	p1 := or * p0 / (1 + p0*(or-1))
	if err := errs.ValidateFinite("case_exposure", p1); err != nil {
		return nil, err
	}
	if p1 > MaxCaseExposure {
		return nil, errs.NewField(errs.ErrCodeImpossibleInputs, "case_exposure",
			"exposure among cases would be %.2f%%; lower the odds ratio or the exposure among controls", p1*100)
	}

	z := zscore.For(p.Confidence, p.Power)
	m, err := estimate.Compare(estimate.Input{P1: p1, P2: p0, Ratio: p.Ratio, Z: z, Dropout: p.Dropout})
	if err != nil {
		return nil, err
	}
	r := comparativeResult(CaseControl, z, m, "controls", "cases")
	r.CaseExposure = p1
	return r, nil
}

func calculateCohort(p Params) (*Result, error) {
	if err := p.validateCohort(); err != nil {
		return nil, err
	}
	p1 := p.ExposedRisk / 100
	p2 := p.UnexposedRisk / 100
	if math.Abs(p1-p2) < ProportionTolerance {
		return nil, errs.New(errs.ErrCodeEqualProportions,
			"incidence among exposed and unexposed must differ")
	}

	z := zscore.For(p.Confidence, p.Power)
	m, err := estimate.Compare(estimate.Input{P1: p1, P2: p2, Ratio: p.Ratio, Z: z, Dropout: p.Dropout})
	if err != nil {
		return nil, err
	}
	return comparativeResult(Cohort, z, m, "unexposed", "exposed"), nil
}

// calculateTrial passes group 2 as the reference proportion: the ratio is
// group 1 per group 2, so group 1 is the count the ratio multiplies.
func calculateTrial(p Params) (*Result, error) {
	if err := p.validateTrial(); err != nil {
		return nil, err
	}
	p1 := p.Proportion1 / 100
	p2 := p.Proportion2 / 100
	if math.Abs(p1-p2) < ProportionTolerance {
		return nil, errs.New(errs.ErrCodeEqualProportions,
			"outcome proportions in the two groups must differ")
	}

	z := zscore.For(p.Confidence, p.Power)
	m, err := estimate.Compare(estimate.Input{P1: p2, P2: p1, Ratio: p.Ratio, Z: z, Dropout: p.Dropout})
	if err != nil {
		return nil, err
	}
	return comparativeResult(RandomizedTrial, z, m, "group 1", "group 2"), nil
}

// calculateMeans: n1 = (zα+zβ)²·(sd1² + sd2²/r) / (mean1-mean2)².
func calculateMeans(p Params) (*Result, error) {
	if err := p.validateMeans(); err != nil {
		return nil, err
	}
	if p.Mean1 == p.Mean2 {
		return nil, errs.New(errs.ErrCodeEqualMeans, "means must differ, both are %g", p.Mean1)
	}

	r := p.Ratio
	z := zscore.For(p.Confidence, p.Power)
	zSum := z.Sum()
	diff := p.Mean1 - p.Mean2
	raw := zSum * zSum * (p.SD1*p.SD1 + p.SD2*p.SD2/r) / (diff * diff)
	if err := errs.ValidateCount("n1", raw); err != nil {
		return nil, err
	}

	n1 := math.Ceil(raw)
	n1 = math.Ceil(correction.Dropout(n1, p.Dropout))
	n2 := math.Ceil(n1 * r)
	if err := errs.ValidateCount("n", n1+n2); err != nil {
		return nil, err
	}

	e := estimate.NewGroupEstimate(int(n1), int(n2))
	return &Result{
		Design:  TwoMeans,
		Primary: e.Total,
		Z:       &z,
		Groups:  &GroupCounts{N1: e.N1, N2: e.N2, Label1: "group 1", Label2: "group 2"},
	}, nil
}
