package units

import "math"

// SqftPerAcre is the number of square feet in one acre.
const SqftPerAcre = 43560

// SqftToAcres converts square feet to acres at full precision.
// Returns false for non-positive or non-finite input; callers treat that as "no value", not zero.
func SqftToAcres(sqft float64) (float64, bool) {
	if !usable(sqft) {
		return 0, false
	}
	return sqft / SqftPerAcre, true
}

// AcresToSqft converts acres to whole square feet.
func AcresToSqft(acres float64) (int64, bool) {
	if !usable(acres) {
		return 0, false
	}
	return int64(math.Round(acres * SqftPerAcre)), true
}

// DimensionsToSqft multiplies lot width by lot depth.
func DimensionsToSqft(width, depth float64) (float64, bool) {
	if !usable(width) || !usable(depth) {
		return 0, false
	}
	return width * depth, true
}

// RoundAcres rounds to the 3 decimal places acres are displayed and stored with.
func RoundAcres(acres float64) float64 {
	return math.Round(acres*1000) / 1000
}

func usable(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
