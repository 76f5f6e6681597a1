package models

import "fmt"

// Default catalog names referenced by code and tests
const (
	Cursor  = "Cursor"
	Grandma = "Grandma"
	Farm    = "Farm"
	Mine    = "Mine"
	Factory = "Factory"

	HeavenlyChipSecret = "Heavenly chip secret"
	EasterEgg          = "Golden egg"

	BuffFrenzy      = "frenzy"
	BuffClickFrenzy = "click frenzy"
	BuffElderFrenzy = "elder frenzy"
	BuffClot        = "clot"
)

// defaultBuildings lists every building with its base price and per-unit rate
var defaultBuildings = []struct {
	name  string
	price float64
	rate  float64
	tiers [3]string
}{
	{Cursor, 15, 0.1, [3]string{"Reinforced index finger", "Carpal tunnel prevention cream", "Ambidextrous"}},
	{Grandma, 100, 1, [3]string{"Forwards from grandma", "Steel-plated rolling pins", "Lubricated dentures"}},
	{Farm, 1100, 8, [3]string{"Cheap hoes", "Fertilizer", "Cookie trees"}},
	{Mine, 12000, 47, [3]string{"Sugar gas", "Megadrill", "Ultradrill"}},
	{Factory, 130000, 260, [3]string{"Sturdier conveyor belts", "Child labor", "Sweatshop"}},
	{"Bank", 1.4e6, 1400, [3]string{"Taller tellers", "Scissor-resistant credit cards", "Acid-proof vaults"}},
	{"Temple", 2e7, 7800, [3]string{"Golden idols", "Sacrifices", "Delicious blessing"}},
	{"Wizard tower", 3.3e8, 44000, [3]string{"Pointier hats", "Beardlier beards", "Ancient grimoires"}},
	{"Shipment", 5.1e9, 260000, [3]string{"Vanilla nebulae", "Wormholes", "Frequent flyer"}},
	{"Alchemy lab", 7.5e10, 1.6e6, [3]string{"Antimony", "Essence of dough", "True chocolate"}},
	{"Portal", 1e12, 1e7, [3]string{"Ancient tablet", "Insane oatling workers", "Soul bond"}},
	{"Time machine", 1.4e13, 6.5e7, [3]string{"Flux capacitors", "Time paradox resolver", "Quantum conundrum"}},
	{"Antimatter condenser", 1.7e14, 4.3e8, [3]string{"Sugar bosons", "String theory", "Large macaron collider"}},
	{"Prism", 2.1e15, 2.9e9, [3]string{"Gem polish", "Ninth color", "Chocolate light"}},
	{"Chancemaker", 2.6e16, 2.1e10, [3]string{"Your lucky cookie", "All-natural clovers", "Leprechaun village"}},
	{"Fractal engine", 3.1e17, 1.5e11, [3]string{"Metabakeries", "Mandelbrot cake", "Fractoids"}},
}

// Building tiers unlock at these counts and cost these multiples of base price
var (
	tierCounts = [3]int{1, 5, 25}
	tierPrices = [3]float64{10, 50, 500}

	// Cursor tiers are click upgrades gated on manual clicks instead
	cursorTierClicks = [3]int{15, 100, 1000}
	cursorTierPrices = [3]float64{100, 500, 10000}
)

// DefaultCatalog returns the built-in catalog. It panics only if the static
// data above is inconsistent, which the package tests guard against.
func DefaultCatalog() *Catalog {
	cat, err := NewCatalog(DefaultCatalogSpec())
	if err != nil {
		panic(fmt.Sprintf("default catalog: %v", err))
	}
	return cat
}

// DefaultCatalogSpec returns the raw data behind DefaultCatalog
func DefaultCatalogSpec() CatalogSpec {
	spec := CatalogSpec{
		GrowthFactor:        PriceGrowthFactor,
		SynergySource:       Grandma,
		SynergyRate:         DefaultSynergyRate,
		ClickSource:         Cursor,
		ClickBase:           DefaultClickBase,
		ClickSourceFraction: DefaultClickSourceFraction,
	}

	for _, b := range defaultBuildings {
		spec.Buildings = append(spec.Buildings, BuildingDef{
			Name:      b.name,
			BasePrice: b.price,
			BaseRate:  b.rate,
			Synergy:   b.name != Cursor && b.name != Grandma,
		})

		for i, tier := range b.tiers {
			u := UpgradeDef{
				Name:      tier,
				Price:     b.price * tierPrices[i],
				Effect:    EffectBuildingMultiplier,
				Magnitude: 2,
				Target:    b.name,
				Unlock:    WhenOwned(b.name, tierCounts[i]),
			}
			if b.name == Cursor {
				u.Effect = EffectClickMultiplier
				u.Price = cursorTierPrices[i]
				u.Unlock = WhenClicked(cursorTierClicks[i])
			}
			spec.Upgrades = append(spec.Upgrades, u)
		}

		for _, n := range []int{1, 50, 100} {
			spec.Achievements = append(spec.Achievements, AchievementDef{
				Name:   fmt.Sprintf("%s x%d", b.name, n),
				Unlock: WhenOwned(b.name, n),
			})
		}
	}

	// Global production upgrades unlock at a tenth of their price in run earnings
	for _, g := range []struct {
		name  string
		mult  float64
		price float64
	}{
		{"Specialized chocolate chips", 1.01, 1e15},
		{"Designer cocoa beans", 1.02, 2e15},
		{"Underworld ovens", 1.03, 5e15},
		{"Exotic nuts", 1.04, 1e16},
		{"Arcane sugar", 1.05, 5e16},
	} {
		spec.Upgrades = append(spec.Upgrades, UpgradeDef{
			Name:      g.name,
			Price:     g.price,
			Effect:    EffectRateMultiplier,
			Magnitude: g.mult,
			Unlock:    WhenReached(ResourceLifetime, g.price/10),
		})
	}

	spec.Upgrades = append(spec.Upgrades,
		special("Kitten helpers", 9e6, SpecialMilkBoost, 0.05, WhenReached(ResourceMilk, 0.5)),
		special("Kitten workers", 9e9, SpecialMilkBoost, 0.1, WhenReached(ResourceMilk, 1)),
		special("Kitten engineers", 9e12, SpecialMilkBoost, 0.2, WhenReached(ResourceMilk, 2)),
		heavenly(HeavenlyChipSecret, 1, 0.05, Always()),
		heavenly("Heavenly cookie stand", 3, 0.20, WhenUpgraded(HeavenlyChipSecret)),
		heavenly("Heavenly bakery", 10, 0.25, WhenUpgraded("Heavenly cookie stand")),
		special("Lucky day", 777777777, SpecialGoldenLuck, 1, WhenReached(ResourceGoldenClicks, 7)),
		special("Serendipity", 77777777777, SpecialGoldenLuck, 1, WhenReached(ResourceGoldenClicks, 27)),
		special(EasterEgg, 9e9, SpecialFlatRate, 9, WhenReached(ResourceLifetime, 1e9)),
	)

	for _, m := range []struct {
		name   string
		amount float64
	}{
		{"Wake and bake", 1},
		{"Making some dough", 1e3},
		{"So baked right now", 1e5},
		{"Fledgling bakery", 1e6},
		{"Affluent bakery", 1e8},
		{"World-famous bakery", 1e9},
		{"Cosmic bakery", 1e11},
		{"Galactic bakery", 1e12},
	} {
		spec.Achievements = append(spec.Achievements, AchievementDef{
			Name:   m.name,
			Unlock: WhenReached(ResourceLifetime, m.amount),
		})
	}
	spec.Achievements = append(spec.Achievements,
		AchievementDef{Name: "Clicktastic", Unlock: WhenClicked(1000)},
		AchievementDef{Name: "Clickathlon", Unlock: WhenClicked(10000)},
		AchievementDef{Name: "Clickolympics", Unlock: WhenClicked(100000)},
	)

	spec.Buffs = []BuffDef{
		{Name: BuffFrenzy, Duration: 77, Multiplier: 7, Target: BuffProduction},
		{Name: BuffClickFrenzy, Duration: 13, Multiplier: 777, Target: BuffClick},
		{Name: BuffElderFrenzy, Duration: 6, Multiplier: 666, Target: BuffProduction},
		{Name: BuffClot, Duration: 66, Multiplier: 0.5, Target: BuffProduction},
	}
	return spec
}

func special(name string, price float64, kind SpecialKind, magnitude float64, unlock Condition) UpgradeDef {
	return UpgradeDef{
		Name:      name,
		Price:     price,
		Effect:    EffectSpecial,
		Special:   kind,
		Magnitude: magnitude,
		Unlock:    unlock,
	}
}

func heavenly(name string, price, power float64, unlock Condition) UpgradeDef {
	u := special(name, price, SpecialPrestigePower, power, unlock)
	u.Premium = true
	return u
}
