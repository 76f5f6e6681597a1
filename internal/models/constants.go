package models

// Game balance constants
const (
	// PriceGrowthFactor is the per-unit price growth shared by every building
	PriceGrowthFactor = 1.15

	// PrestigeBase is the lifetime currency needed for the first prestige level
	PrestigeBase = 1e12

	// HCFactor is the root applied to lifetime currency (cube root)
	HCFactor = 3

	// PrestigeRatePerLevel is the production bonus granted per prestige level
	PrestigeRatePerLevel = 0.01

	// AchievementsPerMilk is how many achievements unlock one milk type
	AchievementsPerMilk = 25

	// MaxMilkType caps the milk step function
	MaxMilkType = 12

	// MilkRatePerType is the production bonus granted per milk type
	MilkRatePerType = 0.04

	// DefaultSynergyRate is the per-source bonus for synergy buildings (+1% per Grandma)
	DefaultSynergyRate = 0.01

	// DefaultClickBase is the currency earned by one unmodified click
	DefaultClickBase = 1.0

	// DefaultClickSourceFraction is the share of the click source building's
	// production added to every click
	DefaultClickSourceFraction = 1.0

	// DefaultMaxPurchasesPerTick bounds the auto-purchase loop of a single tick
	DefaultMaxPurchasesPerTick = 10

	// PrestigeEpsilon absorbs cube-root rounding before flooring a level
	PrestigeEpsilon = 1e-9
)
