package models

import "fmt"

// BuffTarget selects what a buff multiplies
type BuffTarget int

const (
	BuffProduction BuffTarget = iota
	BuffClick
)

// String returns a string representation of the buff target
func (t BuffTarget) String() string {
	if t == BuffClick {
		return "click"
	}
	return "production"
}

// ParseBuffTarget is the inverse of BuffTarget.String
func ParseBuffTarget(s string) (BuffTarget, error) {
	switch s {
	case "", "production":
		return BuffProduction, nil
	case "click":
		return BuffClick, nil
	}
	return BuffProduction, fmt.Errorf("unknown buff target %q", s)
}

// Buff is an active, time-limited multiplier
type Buff struct {
	Remaining  float64 // seconds
	Multiplier float64
	Target     BuffTarget
}

// BuffDef is a named buff preset (e.g. what a golden cookie grants)
type BuffDef struct {
	Name       string
	Duration   float64
	Multiplier float64
	Target     BuffTarget
}

// Instance returns a fresh active buff for the preset
func (d BuffDef) Instance() Buff {
	return Buff{Remaining: d.Duration, Multiplier: d.Multiplier, Target: d.Target}
}
