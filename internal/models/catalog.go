package models

import (
	"errors"
	"fmt"
)

// CatalogSpec is the raw material for a Catalog
type CatalogSpec struct {
	Buildings    []BuildingDef
	Upgrades     []UpgradeDef
	Achievements []AchievementDef
	Buffs        []BuffDef

	GrowthFactor        float64 // applied to every building; 0 means PriceGrowthFactor
	SynergySource       string  // building whose count drives the synergy bonus
	SynergyRate         float64
	ClickSource         string // building whose production is added to clicks
	ClickBase           float64
	ClickSourceFraction float64
}

// Catalog is the immutable set of buildings, upgrades, achievements and buff
// presets a simulation runs against. It is shared by reference and never
// mutated after NewCatalog returns.
type Catalog struct {
	buildings    []BuildingDef
	upgrades     []UpgradeDef
	achievements []AchievementDef
	buffs        []BuffDef

	buildingIdx map[string]int
	upgradeIdx  map[string]int
	buffIdx     map[string]int

	growth              float64
	synergySource       string
	synergyRate         float64
	clickSource         string
	clickBase           float64
	clickSourceFraction float64
}

// NewCatalog validates a spec and freezes it into a Catalog
func NewCatalog(spec CatalogSpec) (*Catalog, error) {
	c := &Catalog{
		buildings:           make([]BuildingDef, 0, len(spec.Buildings)),
		upgrades:            make([]UpgradeDef, 0, len(spec.Upgrades)),
		achievements:        append([]AchievementDef(nil), spec.Achievements...),
		buffs:               append([]BuffDef(nil), spec.Buffs...),
		buildingIdx:         make(map[string]int, len(spec.Buildings)),
		upgradeIdx:          make(map[string]int, len(spec.Upgrades)),
		buffIdx:             make(map[string]int, len(spec.Buffs)),
		growth:              spec.GrowthFactor,
		synergySource:       spec.SynergySource,
		synergyRate:         spec.SynergyRate,
		clickSource:         spec.ClickSource,
		clickBase:           spec.ClickBase,
		clickSourceFraction: spec.ClickSourceFraction,
	}
	if c.growth == 0 {
		c.growth = PriceGrowthFactor
	}
	if c.growth <= 1 {
		return nil, fmt.Errorf("growth factor must be > 1, got %g", c.growth)
	}

	for _, b := range spec.Buildings {
		if b.Name == "" {
			return nil, errors.New("building with empty name")
		}
		if _, dup := c.buildingIdx[b.Name]; dup {
			return nil, fmt.Errorf("duplicate building %q", b.Name)
		}
		if b.BasePrice <= 0 {
			return nil, fmt.Errorf("building %q: base price must be positive", b.Name)
		}
		if b.BaseRate < 0 {
			return nil, fmt.Errorf("building %q: base rate must not be negative", b.Name)
		}
		b.GrowthFactor = c.growth
		c.buildingIdx[b.Name] = len(c.buildings)
		c.buildings = append(c.buildings, b)
	}

	for _, u := range spec.Upgrades {
		if u.Name == "" {
			return nil, errors.New("upgrade with empty name")
		}
		if _, dup := c.upgradeIdx[u.Name]; dup {
			return nil, fmt.Errorf("duplicate upgrade %q", u.Name)
		}
		if _, clash := c.buildingIdx[u.Name]; clash {
			return nil, fmt.Errorf("upgrade %q shadows a building", u.Name)
		}
		if u.Price <= 0 {
			return nil, fmt.Errorf("upgrade %q: price must be positive", u.Name)
		}
		if u.Magnitude <= 0 {
			return nil, fmt.Errorf("upgrade %q: magnitude must be positive", u.Name)
		}
		if u.Effect == EffectBuildingMultiplier && u.Target == "" {
			return nil, fmt.Errorf("upgrade %q: building multiplier needs a target", u.Name)
		}
		if u.Target != "" {
			if _, ok := c.buildingIdx[u.Target]; !ok {
				return nil, fmt.Errorf("upgrade %q: unknown target %q", u.Name, u.Target)
			}
		}
		c.upgradeIdx[u.Name] = len(c.upgrades)
		c.upgrades = append(c.upgrades, u)
	}

	// Conditions may reference upgrades declared later, so check them last
	for _, u := range c.upgrades {
		if err := c.checkCondition(u.Unlock); err != nil {
			return nil, fmt.Errorf("upgrade %q: %w", u.Name, err)
		}
	}
	seen := make(map[string]bool, len(c.achievements))
	for _, a := range c.achievements {
		if a.Name == "" || seen[a.Name] {
			return nil, fmt.Errorf("invalid or duplicate achievement %q", a.Name)
		}
		seen[a.Name] = true
		if err := c.checkCondition(a.Unlock); err != nil {
			return nil, fmt.Errorf("achievement %q: %w", a.Name, err)
		}
	}

	for i, b := range c.buffs {
		if b.Name == "" {
			return nil, errors.New("buff with empty name")
		}
		if _, dup := c.buffIdx[b.Name]; dup {
			return nil, fmt.Errorf("duplicate buff %q", b.Name)
		}
		if b.Duration <= 0 || b.Multiplier <= 0 {
			return nil, fmt.Errorf("buff %q: duration and multiplier must be positive", b.Name)
		}
		c.buffIdx[b.Name] = i
	}

	if c.synergySource != "" && !c.HasBuilding(c.synergySource) {
		return nil, fmt.Errorf("unknown synergy source %q", c.synergySource)
	}
	if c.clickSource != "" && !c.HasBuilding(c.clickSource) {
		return nil, fmt.Errorf("unknown click source %q", c.clickSource)
	}
	return c, nil
}

func (c *Catalog) checkCondition(cond Condition) error {
	switch cond.Kind {
	case CondBuildingCount:
		if !c.HasBuilding(cond.Building) {
			return fmt.Errorf("condition references unknown building %q", cond.Building)
		}
	case CondOwnsUpgrade:
		if !c.HasUpgrade(cond.Upgrade) {
			return fmt.Errorf("condition references unknown upgrade %q", cond.Upgrade)
		}
	case CondResource:
		switch cond.Resource {
		case ResourceLifetime, ResourceCurrency, ResourceMilk, ResourceGoldenClicks, ResourcePremium:
		default:
			return fmt.Errorf("condition references unknown resource %q", cond.Resource)
		}
	}
	return nil
}

// Buildings returns building definitions in catalog order
func (c *Catalog) Buildings() []BuildingDef {
	return append([]BuildingDef(nil), c.buildings...)
}

// Upgrades returns upgrade definitions in catalog order
func (c *Catalog) Upgrades() []UpgradeDef {
	return append([]UpgradeDef(nil), c.upgrades...)
}

// Achievements returns achievement definitions in catalog order
func (c *Catalog) Achievements() []AchievementDef {
	return append([]AchievementDef(nil), c.achievements...)
}

// Buffs returns the buff presets in catalog order
func (c *Catalog) Buffs() []BuffDef {
	return append([]BuffDef(nil), c.buffs...)
}

// EachBuilding iterates over buildings in deterministic order
func (c *Catalog) EachBuilding(fn func(BuildingDef)) {
	for _, b := range c.buildings {
		fn(b)
	}
}

// EachUpgrade iterates over upgrades in deterministic order
func (c *Catalog) EachUpgrade(fn func(UpgradeDef)) {
	for _, u := range c.upgrades {
		fn(u)
	}
}

// Building looks up a building by name
func (c *Catalog) Building(name string) (BuildingDef, bool) {
	i, ok := c.buildingIdx[name]
	if !ok {
		return BuildingDef{}, false
	}
	return c.buildings[i], true
}

// Upgrade looks up an upgrade by name
func (c *Catalog) Upgrade(name string) (UpgradeDef, bool) {
	i, ok := c.upgradeIdx[name]
	if !ok {
		return UpgradeDef{}, false
	}
	return c.upgrades[i], true
}

// Buff looks up a buff preset by name
func (c *Catalog) Buff(name string) (BuffDef, bool) {
	i, ok := c.buffIdx[name]
	if !ok {
		return BuffDef{}, false
	}
	return c.buffs[i], true
}

func (c *Catalog) HasBuilding(name string) bool {
	_, ok := c.buildingIdx[name]
	return ok
}

func (c *Catalog) HasUpgrade(name string) bool {
	_, ok := c.upgradeIdx[name]
	return ok
}

// Price returns the next-unit price of a building, 0 for unknown names
func (c *Catalog) Price(name string, owned int) float64 {
	b, ok := c.Building(name)
	if !ok {
		return 0
	}
	return b.Price(owned)
}

// BulkPrice returns the price of count more units, 0 for unknown names
func (c *Catalog) BulkPrice(name string, owned, count int) float64 {
	b, ok := c.Building(name)
	if !ok {
		return 0
	}
	return b.BulkPrice(owned, count)
}

func (c *Catalog) GrowthFactor() float64 { return c.growth }
func (c *Catalog) SynergySource() string { return c.synergySource }
func (c *Catalog) SynergyRate() float64 { return c.synergyRate }
func (c *Catalog) ClickSource() string { return c.clickSource }
func (c *Catalog) ClickBase() float64 { return c.clickBase }
func (c *Catalog) ClickSourceFraction() float64 { return c.clickSourceFraction }
