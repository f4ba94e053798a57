package normalize

import "math"

// DollarsToCents converts a nullable float64 dollar amount to nullable int64 cents.
// Uses math.Round to avoid truncation bias.
func DollarsToCents(v *float64) *int64 {
	if v == nil {
		return nil
	}
	c := int64(math.Round(*v * 100))
	return &c
}

// NormalizeConfidence maps a model confidence onto 0–1. Scores above 1 are
// taken as percentages; the result is clamped to [0, 1].
func NormalizeConfidence(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	c := *v
	if c > 1 {
		c /= 100
	}
	c = math.Max(0, math.Min(1, c))
	return &c
}
