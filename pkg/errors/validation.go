package errors

import "math"

// ValidateFinite rejects NaN and ±Inf. name identifies the quantity.
func ValidateFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NewField(ErrCodeNonFinite, name, "%s is not a finite number", name)
	}
	return nil
}

// ValidatePercent checks that a percentage lies strictly between 0 and 100.
func ValidatePercent(name string, v float64) error {
	if err := ValidateFinite(name, v); err != nil {
		return err
	}
	if v <= 0 || v >= 100 {
		return NewField(ErrCodeInvalidInput, name, "%s must be between 0 and 100 (exclusive), got %g", name, v)
	}
	return nil
}

// ValidateIntRange checks that v lies in [lo, hi].
func ValidateIntRange(name string, v, lo, hi int) error {
	if v < lo || v > hi {
		return NewField(ErrCodeInvalidInput, name, "%s must be between %d and %d, got %d", name, lo, hi, v)
	}
	return nil
}

// ValidatePositive checks that v is finite and greater than zero.
func ValidatePositive(name string, v float64) error {
	if err := ValidateFinite(name, v); err != nil {
		return err
	}
	if v <= 0 {
		return NewField(ErrCodeInvalidInput, name, "%s must be positive, got %g", name, v)
	}
	return nil
}

// ValidateRatio checks an allocation ratio. Unlike ValidatePositive it
// reports INVALID_RATIO so callers can tell the cases apart.
func ValidateRatio(r float64) error {
	if err := ValidateFinite("ratio", r); err != nil {
		return err
	}
	if r <= 0 {
		return NewField(ErrCodeInvalidRatio, "ratio", "allocation ratio must be positive, got %g", r)
	}
	return nil
}

// MaxCount is the largest sample size a calculation reports.
const MaxCount = math.MaxInt32

// ValidateCount rejects a sample size that is not finite or exceeds MaxCount.
// Too large a count means the effect is too small to resolve.
func ValidateCount(name string, v float64) error {
	if err := ValidateFinite(name, v); err != nil {
		return err
	}
	if v > MaxCount {
		return NewField(ErrCodeInfiniteSampleSize, name, "%s of %.3g exceeds %d participants; the effect is too small to detect", name, v, MaxCount)
	}
	return nil
}
