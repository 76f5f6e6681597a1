package models

import "fmt"

// EffectKind is what an upgrade modifies
type EffectKind int

const (
	EffectRateMultiplier EffectKind = iota
	EffectClickMultiplier
	EffectBuildingMultiplier
	EffectSpecial
)

// String returns a string representation of the effect kind
func (e EffectKind) String() string {
	switch e {
	case EffectRateMultiplier:
		return "rate"
	case EffectClickMultiplier:
		return "click"
	case EffectBuildingMultiplier:
		return "building"
	case EffectSpecial:
		return "special"
	default:
		return "unknown"
	}
}

// ParseEffectKind is the inverse of EffectKind.String
func ParseEffectKind(s string) (EffectKind, error) {
	switch s {
	case "rate":
		return EffectRateMultiplier, nil
	case "click":
		return EffectClickMultiplier, nil
	case "building":
		return EffectBuildingMultiplier, nil
	case "special":
		return EffectSpecial, nil
	}
	return EffectSpecial, fmt.Errorf("unknown effect kind %q", s)
}

// SpecialKind refines EffectSpecial upgrades
type SpecialKind int

const (
	SpecialNone SpecialKind = iota
	SpecialFlatRate             // adds Magnitude to production before global multipliers
	SpecialPrestigePower        // adds Magnitude to the premium power factor
	SpecialMilkBoost            // multiplies milk by 1 + progress × Magnitude
	SpecialGoldenLuck           // no production effect
)

// String returns a string representation of the special kind
func (k SpecialKind) String() string {
	switch k {
	case SpecialFlatRate:
		return "flat_rate"
	case SpecialPrestigePower:
		return "prestige_power"
	case SpecialMilkBoost:
		return "milk_boost"
	case SpecialGoldenLuck:
		return "golden_luck"
	default:
		return ""
	}
}

// ParseSpecialKind is the inverse of SpecialKind.String
func ParseSpecialKind(s string) (SpecialKind, error) {
	switch s {
	case "":
		return SpecialNone, nil
	case "flat_rate":
		return SpecialFlatRate, nil
	case "prestige_power":
		return SpecialPrestigePower, nil
	case "milk_boost":
		return SpecialMilkBoost, nil
	case "golden_luck":
		return SpecialGoldenLuck, nil
	}
	return SpecialNone, fmt.Errorf("unknown special kind %q", s)
}

// UpgradeDef contains static upgrade data. Ownership lives in GameState.
type UpgradeDef struct {
	Name      string
	Price     float64
	Effect    EffectKind
	Special   SpecialKind
	Magnitude float64 // the multiplier itself (2.0 doubles), or the flat/power amount
	Target    string  // building affected by building (and targeted click) upgrades
	Unlock    Condition
	Premium   bool // priced in premium currency, survives ascension
}

// Describe returns a short effect description
func (u UpgradeDef) Describe() string {
	switch u.Effect {
	case EffectRateMultiplier:
		return fmt.Sprintf("x%g production", u.Magnitude)
	case EffectClickMultiplier:
		if u.Target != "" {
			return fmt.Sprintf("x%g clicks and %s", u.Magnitude, u.Target)
		}
		return fmt.Sprintf("x%g clicks", u.Magnitude)
	case EffectBuildingMultiplier:
		return fmt.Sprintf("x%g %s", u.Magnitude, u.Target)
	}
	switch u.Special {
	case SpecialFlatRate:
		return fmt.Sprintf("+%g/s flat", u.Magnitude)
	case SpecialPrestigePower:
		return fmt.Sprintf("+%g%% prestige power", u.Magnitude*100)
	case SpecialMilkBoost:
		return fmt.Sprintf("milk x(1+%g*progress)", u.Magnitude)
	case SpecialGoldenLuck:
		return "golden luck"
	}
	return "special"
}
