// Package correction adjusts raw sample sizes for a finite source population
// and for expected non-response.
//
// Both functions operate on unrounded sizes. Ceiling rounding is the
// caller's last step.
package correction

// ResponseRate is the assumed proportion of enrolled participants who complete
// the study when the dropout adjustment is enabled (10% non-response).
const ResponseRate = 0.9

// FPC applies the finite population correction n / (1 + n/population).
// A non-positive population leaves n unchanged.
func FPC(n float64, population int) float64 {
	if population <= 0 {
		return n
	}
	return n / (1 + n/float64(population))
}

// Dropout inflates n by 1/ResponseRate when enabled.
func Dropout(n float64, enabled bool) float64 {
	if !enabled {
		return n
	}
	return n / ResponseRate
}
