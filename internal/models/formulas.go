package models

import "math"

// All formulas work in float64. Amounts above 2^53 lose integer precision,
// which is accepted: late-game values routinely exceed 1e15.

// Price returns the cost of the next unit when n units are already owned
func Price(basePrice, growth float64, n int) float64 {
	if n < 0 {
		n = 0
	}
	return basePrice * math.Pow(growth, float64(n))
}

// BulkPrice returns the cost of buying k more units starting from n owned.
// It sums the series term by term.
func BulkPrice(basePrice, growth float64, n, k int) float64 {
	total := 0.0
	for i := 0; i < k; i++ {
		total += Price(basePrice, growth, n+i)
	}
	return total
}

// BulkPriceClosed is the geometric-series form of BulkPrice
func BulkPriceClosed(basePrice, growth float64, n, k int) float64 {
	if k <= 0 {
		return 0
	}
	if growth == 1 {
		return basePrice * float64(k)
	}
	return Price(basePrice, growth, n) * (math.Pow(growth, float64(k)) - 1) / (growth - 1)
}

// BuildingRate returns the pre-multiplier production of n units
func BuildingRate(perUnit float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	return perUnit * float64(n)
}

// PrestigeLevel converts lifetime currency into a (fractional) prestige level
func PrestigeLevel(total float64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Cbrt(total / PrestigeBase)
}

// CurrencyForPrestige is the inverse of PrestigeLevel
func CurrencyForPrestige(level float64) float64 {
	if level <= 0 {
		return 0
	}
	return math.Pow(level, HCFactor) * PrestigeBase
}

// WholePrestige floors a prestige level, tolerating cube-root rounding
func WholePrestige(total float64) float64 {
	return math.Floor(PrestigeLevel(total) + PrestigeEpsilon)
}

// MilkType maps an achievement count onto the milk step function
func MilkType(achievements int) int {
	t := achievements / AchievementsPerMilk
	if t > MaxMilkType {
		t = MaxMilkType
	}
	return t
}

// MilkProgress is the fractional milk level used by kitten boosts
func MilkProgress(achievements int) float64 {
	return float64(achievements) / AchievementsPerMilk
}
