package billing

import "math"

// Round1 rounds to one decimal place, used for meter hours.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Round2 rounds to two decimal places, used for monetary amounts.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ExclusiveToInclusive converts a tax-exclusive price to its tax-inclusive
// equivalent. A zero or negative tax rate leaves the price unchanged.
func ExclusiveToInclusive(price, taxRate float64) float64 {
	if taxRate <= 0 {
		return Round2(price)
	}
	return Round2(price * (1 + taxRate))
}

// InclusiveToExclusive is the inverse of ExclusiveToInclusive. The UI edits
// tax-inclusive rates while stored unit prices are tax-exclusive, so every
// edit path round-trips through these two functions.
func InclusiveToExclusive(price, taxRate float64) float64 {
	if taxRate <= 0 {
		return Round2(price)
	}
	return Round2(price / (1 + taxRate))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
