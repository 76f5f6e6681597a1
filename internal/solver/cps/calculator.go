// Package cps computes production rates for a game state
package cps

import (
	"encoding/binary"
	"math"
	"sort"

	"lukechampine.com/blake3"

	"github.com/napolitain/solver-idle/internal/models"
)

// Delta is a hypothetical change applied on top of a state without mutating it
type Delta struct {
	Building string
	Count    int
	Upgrade  string
}

// Breakdown itemizes a rate computation
type Breakdown struct {
	Buildings map[string]float64 // per-building contribution before global multipliers
	Flat      float64            // special flat sources
	Milk      float64
	Prestige  float64
	Upgrades  float64 // product of global rate upgrades
	Global    float64 // Milk × Prestige × Upgrades
	Buff      float64
	Total     float64
}

// Base is the production before global and buff multipliers
func (b Breakdown) Base() float64 {
	sum := b.Flat
	for _, v := range b.Buildings {
		sum += v
	}
	return sum
}

// Calculator computes rates against one catalog and memoizes the last result
type Calculator struct {
	catalog *models.Catalog

	byTarget map[string][]models.UpgradeDef // building and targeted click upgrades
	rate     []models.UpgradeDef
	click    []models.UpgradeDef
	special  []models.UpgradeDef

	cached  bool
	key     [32]byte
	last    float64
	scratch []byte
}

// New creates a calculator for a catalog
func New(cat *models.Catalog) *Calculator {
	c := &Calculator{
		catalog:  cat,
		byTarget: make(map[string][]models.UpgradeDef),
	}
	cat.EachUpgrade(func(u models.UpgradeDef) {
		switch u.Effect {
		case models.EffectBuildingMultiplier:
			c.byTarget[u.Target] = append(c.byTarget[u.Target], u)
		case models.EffectClickMultiplier:
			c.click = append(c.click, u)
			if u.Target != "" {
				c.byTarget[u.Target] = append(c.byTarget[u.Target], u)
			}
		case models.EffectRateMultiplier:
			c.rate = append(c.rate, u)
		case models.EffectSpecial:
			c.special = append(c.special, u)
		}
	})
	return c
}

// Catalog returns the catalog the calculator was built for
func (c *Calculator) Catalog() *models.Catalog {
	return c.catalog
}

// Invalidate drops the memoized rate
func (c *Calculator) Invalidate() {
	c.cached = false
}

// Rate returns the total production per second. The result is memoized and
// reused while no rate-affecting field of the state changes.
func (c *Calculator) Rate(s *models.GameState) float64 {
	key := c.fingerprint(s)
	if c.cached && key == c.key {
		return c.last
	}
	c.last = c.compute(s, Delta{}).Total
	c.key = key
	c.cached = true
	return c.last
}

// Breakdown returns the itemized rate, never cached
func (c *Calculator) Breakdown(s *models.GameState) Breakdown {
	return c.compute(s, Delta{})
}

// RateWith returns the rate the state would have after applying d.
// The state is not modified and the result is not cached.
func (c *Calculator) RateWith(s *models.GameState, d Delta) float64 {
	return c.compute(s, d).Total
}

// BuildingContribution returns one building's production before global
// multipliers, 0 for unknown names
func (c *Calculator) BuildingContribution(s *models.GameState, name string) float64 {
	b, ok := c.catalog.Building(name)
	if !ok {
		return 0
	}
	v := view{s: s}
	return c.buildingRate(v, b)
}

// ClickPower returns the currency earned by one manual click
func (c *Calculator) ClickPower(s *models.GameState) float64 {
	v := view{s: s}
	mult := 1.0
	for _, u := range c.click {
		if v.owns(u.Name) {
			mult *= u.Magnitude
		}
	}

	source := 0.0
	if b, ok := c.catalog.Building(c.catalog.ClickSource()); ok {
		milk, prestige, upgrades := c.globals(v)
		source = c.buildingRate(v, b) * milk * prestige * upgrades
	}

	buff := 1.0
	for _, name := range sortedBuffs(s) {
		if b := s.Buffs[name]; b.Target == models.BuffClick && b.Multiplier > 0 {
			buff *= b.Multiplier
		}
	}
	return clamp((c.catalog.ClickBase()*mult + c.catalog.ClickSourceFraction()*source) * buff)
}

// view overlays a Delta on a state for read-only evaluation
type view struct {
	s *models.GameState
	d Delta
}

func (v view) count(name string) int {
	n := v.s.OwnedCounts[name]
	if name == v.d.Building {
		n += v.d.Count
	}
	if n < 0 {
		return 0
	}
	return n
}

func (v view) owns(name string) bool {
	return v.s.OwnedUpgrades[name] || (name != "" && name == v.d.Upgrade)
}

func (c *Calculator) compute(s *models.GameState, d Delta) Breakdown {
	v := view{s: s, d: d}
	out := Breakdown{Buildings: make(map[string]float64)}

	base := 0.0
	c.catalog.EachBuilding(func(b models.BuildingDef) {
		r := c.buildingRate(v, b)
		out.Buildings[b.Name] = r
		base += r
	})

	for _, u := range c.special {
		if u.Special == models.SpecialFlatRate && v.owns(u.Name) {
			out.Flat += u.Magnitude
		}
	}

	out.Milk, out.Prestige, out.Upgrades = c.globals(v)
	out.Global = out.Milk * out.Prestige * out.Upgrades

	out.Buff = 1
	for _, name := range sortedBuffs(s) {
		if b := s.Buffs[name]; b.Target == models.BuffProduction && b.Multiplier > 0 {
			out.Buff *= b.Multiplier
		}
	}

	out.Total = clamp((base + out.Flat) * out.Global * out.Buff)
	return out
}

func (c *Calculator) buildingRate(v view, b models.BuildingDef) float64 {
	n := v.count(b.Name)
	if n == 0 {
		return 0
	}
	mult := 1.0
	for _, u := range c.byTarget[b.Name] {
		if v.owns(u.Name) {
			mult *= u.Magnitude
		}
	}
	if b.Synergy && c.catalog.SynergySource() != "" {
		mult *= 1 + float64(v.count(c.catalog.SynergySource()))*c.catalog.SynergyRate()
	}
	return b.Rate(n) * mult
}

func (c *Calculator) globals(v view) (milk, prestige, upgrades float64) {
	milk = 1 + float64(v.s.MilkType())*models.MilkRatePerType
	power := 1.0
	for _, u := range c.special {
		if !v.owns(u.Name) {
			continue
		}
		switch u.Special {
		case models.SpecialMilkBoost:
			milk *= 1 + v.s.MilkProgress()*u.Magnitude
		case models.SpecialPrestigePower:
			power += u.Magnitude
		}
	}

	prestige = 1
	if !v.s.ChallengeMode {
		prestige = 1 + v.s.Prestige*models.PrestigeRatePerLevel*power
	}

	upgrades = 1
	for _, u := range c.rate {
		if v.owns(u.Name) {
			upgrades *= u.Magnitude
		}
	}
	return milk, prestige, upgrades
}

// fingerprint hashes every field the rate depends on
func (c *Calculator) fingerprint(s *models.GameState) [32]byte {
	buf := c.scratch[:0]
	c.catalog.EachBuilding(func(b models.BuildingDef) {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(s.OwnedCounts[b.Name]))
	})
	for _, name := range models.SortedKeys(s.OwnedUpgrades) {
		buf = append(buf, name...)
		buf = append(buf, 0)
	}
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(s.Prestige))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(s.Achievements)))
	if s.ChallengeMode {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	for _, name := range sortedBuffs(s) {
		b := s.Buffs[name]
		buf = append(buf, name...)
		buf = append(buf, 0, byte(b.Target))
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(b.Multiplier))
	}
	c.scratch = buf
	return blake3.Sum256(buf)
}

func sortedBuffs(s *models.GameState) []string {
	if len(s.Buffs) == 0 {
		return nil
	}
	names := make([]string, 0, len(s.Buffs))
	for name := range s.Buffs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func clamp(x float64) float64 {
	if math.IsNaN(x) || x < 0 {
		return 0
	}
	return x
}
