package models

// BuildingDef contains static building data
type BuildingDef struct {
	Name         string
	BasePrice    float64
	BaseRate     float64 // production per unit per second, before multipliers
	GrowthFactor float64
	Synergy      bool // receives the per-source synergy bonus
}

// Price returns the cost of the next unit when n are owned
func (b BuildingDef) Price(n int) float64 {
	return Price(b.BasePrice, b.growth(), n)
}

// BulkPrice returns the cost of k more units when n are owned
func (b BuildingDef) BulkPrice(n, k int) float64 {
	return BulkPrice(b.BasePrice, b.growth(), n, k)
}

// Rate returns the pre-multiplier production of n units
func (b BuildingDef) Rate(n int) float64 {
	return BuildingRate(b.BaseRate, n)
}

func (b BuildingDef) growth() float64 {
	if b.GrowthFactor <= 0 {
		return PriceGrowthFactor
	}
	return b.GrowthFactor
}
