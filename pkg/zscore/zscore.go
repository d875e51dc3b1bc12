// Package zscore maps confidence and power percentages to standard-normal
// quantiles used by the sample-size formulas.
//
// Both lookups are lenient: values outside their tables never fail. Power
// falls back to the 80% quantile, and confidence is banded onto the nearest
// tabulated level below it. Callers are expected to constrain inputs to
// power 80–99 and confidence 90–99 before calling.
package zscore

// DefaultBeta is the quantile for 80% power, returned for powers outside the table.
const DefaultBeta = 0.842

// betaTable holds one-sided quantiles z(1-β) for integer power percentages.
var betaTable = map[int]float64{
	80: 0.842,
	81: 0.878,
	82: 0.915,
	83: 0.954,
	84: 0.994,
	85: 1.036,
	86: 1.080,
	87: 1.126,
	88: 1.175,
	89: 1.227,
	90: 1.282,
	91: 1.341,
	92: 1.405,
	93: 1.476,
	94: 1.555,
	95: 1.645,
	96: 1.751,
	97: 1.881,
	98: 2.054,
	99: 2.326,
}

// alphaTable holds two-sided quantiles z(1-α/2) for the exact confidence levels.
var alphaTable = map[int]float64{
	90: 1.645,
	95: 1.96,
	98: 2.326,
	99: 2.576,
}

// Pair holds the two quantiles a comparative formula needs.
type Pair struct {
	Alpha float64 `json:"z_alpha"`
	Beta  float64 `json:"z_beta"`
}

// Sum returns Alpha+Beta.
func (p Pair) Sum() float64 { return p.Alpha + p.Beta }

// For returns the quantile pair for a confidence and power percentage.
func For(confidencePercent, powerPercent int) Pair {
	return Pair{Alpha: Alpha(confidencePercent), Beta: Beta(powerPercent)}
}

// Beta returns z(1-β) for powerPercent. Values outside 80–99 yield DefaultBeta.
func Beta(powerPercent int) float64 {
	if z, ok := betaTable[powerPercent]; ok {
		return z
	}
	return DefaultBeta
}

// Alpha returns the two-sided z(1-α/2) for confidencePercent.
//
// 90, 95, 98 and 99 are exact. Any other value is banded:
// below 95 → 1.645, below 98 → 1.96, below 99 → 2.326, otherwise 2.576.
func Alpha(confidencePercent int) float64 {
	if z, ok := alphaTable[confidencePercent]; ok {
		return z
	}
	switch {
	case confidencePercent < 95:
		return 1.645
	case confidencePercent < 98:
		return 1.96
	case confidencePercent < 99:
		return 2.326
	default:
		return 2.576
	}
}
