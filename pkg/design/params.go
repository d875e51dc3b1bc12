package design

import (
	errs "github.com/matzehuels/samplesize/pkg/errors"
)

// Confidence and power ranges accepted by [Params.Validate].
const (
	MinConfidence = 90
	MaxConfidence = 99
	MinPower      = 80
	MaxPower      = 99
)

// Params holds the inputs for every design. Each design reads only its own
// fields (see [Fields]); proportions are percentages in (0, 100).
type Params struct {
	Confidence int     `json:"confidence" yaml:"confidence" toml:"confidence"`
	Power      int     `json:"power" yaml:"power" toml:"power"`
	Ratio      float64 `json:"ratio,omitempty" yaml:"ratio,omitempty" toml:"ratio,omitempty"`
	Dropout    bool    `json:"dropout,omitempty" yaml:"dropout,omitempty" toml:"dropout,omitempty"`

	// Prevalence
	Prevalence float64 `json:"prevalence,omitempty" yaml:"prevalence,omitempty" toml:"prevalence,omitempty"`
	Precision  float64 `json:"precision,omitempty" yaml:"precision,omitempty" toml:"precision,omitempty"`
	FPC        bool    `json:"fpc,omitempty" yaml:"fpc,omitempty" toml:"fpc,omitempty"`
	Population int     `json:"population,omitempty" yaml:"population,omitempty" toml:"population,omitempty"`

	// Case-control: Ratio is controls per case.
	ControlExposure float64 `json:"control_exposure,omitempty" yaml:"control_exposure,omitempty" toml:"control_exposure,omitempty"`
	OddsRatio       float64 `json:"odds_ratio,omitempty" yaml:"odds_ratio,omitempty" toml:"odds_ratio,omitempty"`

	// Cohort: Ratio is unexposed per exposed.
	ExposedRisk   float64 `json:"exposed_risk,omitempty" yaml:"exposed_risk,omitempty" toml:"exposed_risk,omitempty"`
	UnexposedRisk float64 `json:"unexposed_risk,omitempty" yaml:"unexposed_risk,omitempty" toml:"unexposed_risk,omitempty"`

	// Randomized trial: Ratio is group 1 per group 2.
	Proportion1 float64 `json:"proportion1,omitempty" yaml:"proportion1,omitempty" toml:"proportion1,omitempty"`
	Proportion2 float64 `json:"proportion2,omitempty" yaml:"proportion2,omitempty" toml:"proportion2,omitempty"`

	// Two means: Ratio is n2/n1.
	Mean1 float64 `json:"mean1,omitempty" yaml:"mean1,omitempty" toml:"mean1,omitempty"`
	SD1   float64 `json:"sd1,omitempty" yaml:"sd1,omitempty" toml:"sd1,omitempty"`
	Mean2 float64 `json:"mean2,omitempty" yaml:"mean2,omitempty" toml:"mean2,omitempty"`
	SD2   float64 `json:"sd2,omitempty" yaml:"sd2,omitempty" toml:"sd2,omitempty"`
}

// Validate checks p against the input constraints of design d.
//
// It enforces confidence 90–99 and power 80–99 for designs that use them,
// then the design-specific checks the calculator itself performs.
func (p Params) Validate(d Design) error {
	if !d.Valid() {
		return errs.NewField(errs.ErrCodeInvalidDesign, "design", "unknown design %q", d)
	}
	if d != Prevalence {
		if err := errs.ValidateIntRange("confidence", p.Confidence, MinConfidence, MaxConfidence); err != nil {
			return err
		}
		if err := errs.ValidateIntRange("power", p.Power, MinPower, MaxPower); err != nil {
			return err
		}
	}
	switch d {
	case Prevalence:
		return p.validatePrevalence()
	case CaseControl:
		return p.validateCaseControl()
	case Cohort:
		return p.validateCohort()
	case RandomizedTrial:
		return p.validateTrial()
	default:
		return p.validateMeans()
	}
}

func (p Params) validatePrevalence() error {
	if err := errs.ValidatePercent("prevalence", p.Prevalence); err != nil {
		return err
	}
	if err := errs.ValidatePercent("precision", p.Precision); err != nil {
		return err
	}
	if p.FPC && p.Population <= 0 {
		return errs.NewField(errs.ErrCodeInvalidInput, "population",
			"population must be positive when the finite population correction is enabled, got %d", p.Population)
	}
	return nil
}

func (p Params) validateCaseControl() error {
	if err := errs.ValidatePercent("control_exposure", p.ControlExposure); err != nil {
		return err
	}
	if err := errs.ValidatePositive("odds_ratio", p.OddsRatio); err != nil {
		return err
	}
	return errs.ValidateRatio(p.Ratio)
}

func (p Params) validateCohort() error {
	if err := errs.ValidatePercent("exposed_risk", p.ExposedRisk); err != nil {
		return err
	}
	if err := errs.ValidatePercent("unexposed_risk", p.UnexposedRisk); err != nil {
		return err
	}
	return errs.ValidateRatio(p.Ratio)
}

func (p Params) validateTrial() error {
	if err := errs.ValidatePercent("proportion1", p.Proportion1); err != nil {
		return err
	}
	if err := errs.ValidatePercent("proportion2", p.Proportion2); err != nil {
		return err
	}
	return errs.ValidateRatio(p.Ratio)
}

func (p Params) validateMeans() error {
	for _, v := range []struct {
		name string
		val  float64
	}{{"mean1", p.Mean1}, {"mean2", p.Mean2}} {
		if err := errs.ValidateFinite(v.name, v.val); err != nil {
			return err
		}
	}
	if err := errs.ValidatePositive("sd1", p.SD1); err != nil {
		return err
	}
	if err := errs.ValidatePositive("sd2", p.SD2); err != nil {
		return err
	}
	return errs.ValidateRatio(p.Ratio)
}
