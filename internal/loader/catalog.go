// Package loader reads catalogs from YAML and persists simulator snapshots
package loader

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/napolitain/solver-idle/internal/models"
)

// CatalogYAML represents the YAML structure for a catalog file
type CatalogYAML struct {
	Growth       float64           `yaml:"growth,omitempty"`
	Synergy      SynergyYAML       `yaml:"synergy"`
	Click        ClickYAML         `yaml:"click"`
	Buildings    []BuildingYAML    `yaml:"buildings"`
	Upgrades     []UpgradeYAML     `yaml:"upgrades,omitempty"`
	Achievements []AchievementYAML `yaml:"achievements,omitempty"`
	Buffs        []BuffYAML        `yaml:"buffs,omitempty"`
}

// SynergyYAML names the building that boosts synergy buildings
type SynergyYAML struct {
	Source string  `yaml:"source"`
	Rate   float64 `yaml:"rate"`
}

// ClickYAML configures manual click power
type ClickYAML struct {
	Base           float64 `yaml:"base"`
	Source         string  `yaml:"source,omitempty"`
	SourceFraction float64 `yaml:"source_fraction,omitempty"`
}

// BuildingYAML represents one building
type BuildingYAML struct {
	Name    string  `yaml:"name"`
	Price   float64 `yaml:"price"`
	Rate    float64 `yaml:"rate"`
	Synergy bool    `yaml:"synergy,omitempty"`
}

// UpgradeYAML represents one upgrade
type UpgradeYAML struct {
	Name      string        `yaml:"name"`
	Price     float64       `yaml:"price"`
	Effect    string        `yaml:"effect"`
	Special   string        `yaml:"special,omitempty"`
	Magnitude float64       `yaml:"magnitude"`
	Target    string        `yaml:"target,omitempty"`
	Premium   bool          `yaml:"premium,omitempty"`
	Unlock    ConditionYAML `yaml:"unlock"`
}

// ConditionYAML represents an unlock predicate
type ConditionYAML struct {
	Kind      string  `yaml:"kind"`
	Building  string  `yaml:"building,omitempty"`
	Upgrade   string  `yaml:"upgrade,omitempty"`
	Resource  string  `yaml:"resource,omitempty"`
	Threshold float64 `yaml:"threshold,omitempty"`
}

// AchievementYAML represents one achievement
type AchievementYAML struct {
	Name   string        `yaml:"name"`
	Unlock ConditionYAML `yaml:"unlock"`
}

// BuffYAML represents a buff preset
type BuffYAML struct {
	Name       string  `yaml:"name"`
	Duration   float64 `yaml:"duration"`
	Multiplier float64 `yaml:"multiplier"`
	Target     string  `yaml:"target,omitempty"`
}

// LoadCatalog reads and validates a YAML catalog file
func LoadCatalog(path string) (*models.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	cat, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

// ParseCatalog decodes YAML into a validated catalog. Unknown keys are errors.
func ParseCatalog(data []byte) (*models.Catalog, error) {
	spec, err := DecodeCatalogSpec(data)
	if err != nil {
		return nil, err
	}
	cat, err := models.NewCatalog(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return cat, nil
}

// DecodeCatalogSpec decodes YAML into an unvalidated catalog spec
func DecodeCatalogSpec(data []byte) (models.CatalogSpec, error) {
	var raw CatalogYAML
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return models.CatalogSpec{}, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return raw.toSpec()
}

func (raw CatalogYAML) toSpec() (models.CatalogSpec, error) {
	spec := models.CatalogSpec{
		GrowthFactor:        raw.Growth,
		SynergySource:       raw.Synergy.Source,
		SynergyRate:         raw.Synergy.Rate,
		ClickSource:         raw.Click.Source,
		ClickBase:           raw.Click.Base,
		ClickSourceFraction: raw.Click.SourceFraction,
	}

	for _, b := range raw.Buildings {
		spec.Buildings = append(spec.Buildings, models.BuildingDef{
			Name:      b.Name,
			BasePrice: b.Price,
			BaseRate:  b.Rate,
			Synergy:   b.Synergy,
		})
	}

	for _, u := range raw.Upgrades {
		effect, err := models.ParseEffectKind(u.Effect)
		if err != nil {
			return spec, fmt.Errorf("upgrade %q: %w", u.Name, err)
		}
		special, err := models.ParseSpecialKind(u.Special)
		if err != nil {
			return spec, fmt.Errorf("upgrade %q: %w", u.Name, err)
		}
		if effect == models.EffectSpecial && special == models.SpecialNone {
			return spec, fmt.Errorf("upgrade %q: special effect needs a special kind", u.Name)
		}
		unlock, err := u.Unlock.toCondition()
		if err != nil {
			return spec, fmt.Errorf("upgrade %q: %w", u.Name, err)
		}
		spec.Upgrades = append(spec.Upgrades, models.UpgradeDef{
			Name:      u.Name,
			Price:     u.Price,
			Effect:    effect,
			Special:   special,
			Magnitude: u.Magnitude,
			Target:    u.Target,
			Unlock:    unlock,
			Premium:   u.Premium,
		})
	}

	for _, a := range raw.Achievements {
		unlock, err := a.Unlock.toCondition()
		if err != nil {
			return spec, fmt.Errorf("achievement %q: %w", a.Name, err)
		}
		spec.Achievements = append(spec.Achievements, models.AchievementDef{Name: a.Name, Unlock: unlock})
	}

	for _, b := range raw.Buffs {
		target, err := models.ParseBuffTarget(b.Target)
		if err != nil {
			return spec, fmt.Errorf("buff %q: %w", b.Name, err)
		}
		spec.Buffs = append(spec.Buffs, models.BuffDef{
			Name:       b.Name,
			Duration:   b.Duration,
			Multiplier: b.Multiplier,
			Target:     target,
		})
	}
	return spec, nil
}

func (c ConditionYAML) toCondition() (models.Condition, error) {
	kind, err := models.ParseConditionKind(c.Kind)
	if err != nil {
		return models.Condition{}, err
	}
	cond := models.Condition{
		Kind:      kind,
		Building:  c.Building,
		Upgrade:   c.Upgrade,
		Resource:  models.Resource(c.Resource),
		Threshold: c.Threshold,
	}
	if c.Threshold < 0 {
		return cond, fmt.Errorf("negative threshold %g", c.Threshold)
	}
	return cond, nil
}

// MarshalCatalog encodes a catalog spec as YAML that ParseCatalog accepts
func MarshalCatalog(spec models.CatalogSpec) ([]byte, error) {
	raw := CatalogYAML{
		Growth:  spec.GrowthFactor,
		Synergy: SynergyYAML{Source: spec.SynergySource, Rate: spec.SynergyRate},
		Click: ClickYAML{
			Base:           spec.ClickBase,
			Source:         spec.ClickSource,
			SourceFraction: spec.ClickSourceFraction,
		},
	}
	for _, b := range spec.Buildings {
		raw.Buildings = append(raw.Buildings, BuildingYAML{
			Name:    b.Name,
			Price:   b.BasePrice,
			Rate:    b.BaseRate,
			Synergy: b.Synergy,
		})
	}
	for _, u := range spec.Upgrades {
		raw.Upgrades = append(raw.Upgrades, UpgradeYAML{
			Name:      u.Name,
			Price:     u.Price,
			Effect:    u.Effect.String(),
			Special:   u.Special.String(),
			Magnitude: u.Magnitude,
			Target:    u.Target,
			Premium:   u.Premium,
			Unlock:    conditionYAML(u.Unlock),
		})
	}
	for _, a := range spec.Achievements {
		raw.Achievements = append(raw.Achievements, AchievementYAML{Name: a.Name, Unlock: conditionYAML(a.Unlock)})
	}
	for _, b := range spec.Buffs {
		raw.Buffs = append(raw.Buffs, BuffYAML{
			Name:       b.Name,
			Duration:   b.Duration,
			Multiplier: b.Multiplier,
			Target:     b.Target.String(),
		})
	}
	return yaml.Marshal(raw)
}

func conditionYAML(c models.Condition) ConditionYAML {
	return ConditionYAML{
		Kind:      c.Kind.String(),
		Building:  c.Building,
		Upgrade:   c.Upgrade,
		Resource:  string(c.Resource),
		Threshold: c.Threshold,
	}
}
