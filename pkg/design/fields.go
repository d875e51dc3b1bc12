package design

import (
	"math"

	errs "github.com/matzehuels/samplesize/pkg/errors"
)

// Field documents one numeric input: its key in [Params], a label, the range
// and step a UI should offer, and the default value.
type Field struct {
	Key     string  `json:"key"`
	Label   string  `json:"label"`
	Unit    string  `json:"unit,omitempty"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Step    float64 `json:"step"`
	Default float64 `json:"default"`
}

// Clamp limits v to [f.Min, f.Max].
func (f Field) Clamp(v float64) float64 {
	return min(max(v, f.Min), f.Max)
}

var (
	fieldConfidence = Field{Key: "confidence", Label: "Confidence level", Unit: "%", Min: MinConfidence, Max: MaxConfidence, Step: 1, Default: 95}
	fieldPower      = Field{Key: "power", Label: "Power", Unit: "%", Min: MinPower, Max: MaxPower, Step: 1, Default: 80}
)

func ratioField(label string) Field {
	return Field{Key: "ratio", Label: label, Min: 0.1, Max: 10, Step: 0.1, Default: 1}
}

var catalogue = map[Design][]Field{
	Prevalence: {
		{Key: "prevalence", Label: "Expected prevalence", Unit: "%", Min: 1, Max: 99, Step: 1, Default: 50},
		{Key: "precision", Label: "Precision (±)", Unit: "%", Min: 0.5, Max: 20, Step: 0.5, Default: 5},
		{Key: "population", Label: "Population size", Min: 10, Max: 10_000_000, Step: 100, Default: 1000},
	},
	CaseControl: {
		fieldConfidence,
		fieldPower,
		{Key: "control_exposure", Label: "Exposure among controls", Unit: "%", Min: 1, Max: 99, Step: 1, Default: 30},
		{Key: "odds_ratio", Label: "Odds ratio", Min: 0.1, Max: 20, Step: 0.1, Default: 2},
		ratioField("Controls per case"),
	},
	Cohort: {
		fieldConfidence,
		fieldPower,
		{Key: "exposed_risk", Label: "Incidence among exposed", Unit: "%", Min: 1, Max: 99, Step: 1, Default: 20},
		{Key: "unexposed_risk", Label: "Incidence among unexposed", Unit: "%", Min: 1, Max: 99, Step: 1, Default: 10},
		ratioField("Unexposed per exposed"),
	},
	RandomizedTrial: {
		fieldConfidence,
		fieldPower,
		{Key: "proportion1", Label: "Outcome in group 1 (control)", Unit: "%", Min: 1, Max: 99, Step: 1, Default: 50},
		{Key: "proportion2", Label: "Outcome in group 2 (treatment)", Unit: "%", Min: 1, Max: 99, Step: 1, Default: 30},
		ratioField("Group 1 per group 2"),
	},
	TwoMeans: {
		fieldConfidence,
		fieldPower,
		{Key: "mean1", Label: "Mean, group 1", Min: -1e6, Max: 1e6, Step: 0.5, Default: 10},
		{Key: "sd1", Label: "Standard deviation, group 1", Min: 0.1, Max: 1e6, Step: 0.1, Default: 2},
		{Key: "mean2", Label: "Mean, group 2", Min: -1e6, Max: 1e6, Step: 0.5, Default: 12},
		{Key: "sd2", Label: "Standard deviation, group 2", Min: 0.1, Max: 1e6, Step: 0.1, Default: 2},
		ratioField("Group 2 per group 1"),
	},
}

// Fields returns the ordered input fields for d, or nil for an unknown design.
func Fields(d Design) []Field {
	fs := catalogue[d]
	if fs == nil {
		return nil
	}
	out := make([]Field, len(fs))
	copy(out, fs)
	return out
}

// DefaultParams returns parameters populated with every field default for d.
func DefaultParams(d Design) Params {
	p := Params{Confidence: 95, Power: 80, Ratio: 1}
	for _, f := range catalogue[d] {
		_ = p.Set(f.Key, f.Default)
	}
	return p
}

// Get returns the value of the field named key.
func (p Params) Get(key string) (float64, error) {
	switch key {
	case "confidence":
		return float64(p.Confidence), nil
	case "power":
		return float64(p.Power), nil
	case "ratio":
		return p.Ratio, nil
	case "prevalence":
		return p.Prevalence, nil
	case "precision":
		return p.Precision, nil
	case "population":
		return float64(p.Population), nil
	case "control_exposure":
		return p.ControlExposure, nil
	case "odds_ratio":
		return p.OddsRatio, nil
	case "exposed_risk":
		return p.ExposedRisk, nil
	case "unexposed_risk":
		return p.UnexposedRisk, nil
	case "proportion1":
		return p.Proportion1, nil
	case "proportion2":
		return p.Proportion2, nil
	case "mean1":
		return p.Mean1, nil
	case "sd1":
		return p.SD1, nil
	case "mean2":
		return p.Mean2, nil
	case "sd2":
		return p.SD2, nil
	}
	return 0, unknownField(key)
}

// Set assigns v to the field named key. Integer fields are rounded.
func (p *Params) Set(key string, v float64) error {
	switch key {
	case "confidence":
		p.Confidence = roundInt(v)
	case "power":
		p.Power = roundInt(v)
	case "ratio":
		p.Ratio = v
	case "prevalence":
		p.Prevalence = v
	case "precision":
		p.Precision = v
	case "population":
		p.Population = roundInt(v)
	case "control_exposure":
		p.ControlExposure = v
	case "odds_ratio":
		p.OddsRatio = v
	case "exposed_risk":
		p.ExposedRisk = v
	case "unexposed_risk":
		p.UnexposedRisk = v
	case "proportion1":
		p.Proportion1 = v
	case "proportion2":
		p.Proportion2 = v
	case "mean1":
		p.Mean1 = v
	case "sd1":
		p.SD1 = v
	case "mean2":
		p.Mean2 = v
	case "sd2":
		p.SD2 = v
	default:
		return unknownField(key)
	}
	return nil
}

func unknownField(key string) error {
	return errs.NewField(errs.ErrCodeInvalidInput, key, "unknown parameter %q", key)
}

func roundInt(v float64) int {
	return int(math.Round(v))
}
