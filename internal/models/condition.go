package models

import "fmt"

// ConditionKind tags the unlock predicate variants
type ConditionKind int

const (
	CondAlways ConditionKind = iota
	CondBuildingCount
	CondClicks
	CondOwnsUpgrade
	CondResource
)

// String returns a string representation of the condition kind
func (k ConditionKind) String() string {
	switch k {
	case CondAlways:
		return "always"
	case CondBuildingCount:
		return "building_count"
	case CondClicks:
		return "clicks"
	case CondOwnsUpgrade:
		return "owns_upgrade"
	case CondResource:
		return "resource"
	default:
		return "unknown"
	}
}

// ParseConditionKind is the inverse of ConditionKind.String
func ParseConditionKind(s string) (ConditionKind, error) {
	switch s {
	case "", "always":
		return CondAlways, nil
	case "building_count":
		return CondBuildingCount, nil
	case "clicks":
		return CondClicks, nil
	case "owns_upgrade":
		return CondOwnsUpgrade, nil
	case "resource":
		return CondResource, nil
	}
	return CondAlways, fmt.Errorf("unknown condition kind %q", s)
}

// Resource names a numeric GameState field a condition can threshold on
type Resource string

const (
	ResourceLifetime     Resource = "lifetime"
	ResourceCurrency     Resource = "currency"
	ResourceMilk         Resource = "milk"
	ResourceGoldenClicks Resource = "golden_clicks"
	ResourcePremium      Resource = "premium"
)

// Condition is a serializable unlock predicate
type Condition struct {
	Kind      ConditionKind
	Building  string   // CondBuildingCount
	Upgrade   string   // CondOwnsUpgrade
	Resource  Resource // CondResource
	Threshold float64
}

// Always is the condition that is satisfied by every state
func Always() Condition { return Condition{Kind: CondAlways} }

// WhenOwned is satisfied once at least n units of a building are owned
func WhenOwned(building string, n int) Condition {
	return Condition{Kind: CondBuildingCount, Building: building, Threshold: float64(n)}
}

// WhenClicked is satisfied after n manual clicks
func WhenClicked(n int) Condition {
	return Condition{Kind: CondClicks, Threshold: float64(n)}
}

// WhenUpgraded is satisfied once the named upgrade is owned
func WhenUpgraded(upgrade string) Condition {
	return Condition{Kind: CondOwnsUpgrade, Upgrade: upgrade}
}

// WhenReached is satisfied once a resource reaches the threshold
func WhenReached(r Resource, threshold float64) Condition {
	return Condition{Kind: CondResource, Resource: r, Threshold: threshold}
}

// Satisfied evaluates the condition against a state. It is pure and may
// read transient fields such as the golden click counter.
func (c Condition) Satisfied(s *GameState) bool {
	switch c.Kind {
	case CondAlways:
		return true
	case CondBuildingCount:
		return float64(s.BuildingCount(c.Building)) >= c.Threshold
	case CondClicks:
		return float64(s.Clicks) >= c.Threshold
	case CondOwnsUpgrade:
		return s.HasUpgrade(c.Upgrade)
	case CondResource:
		return s.resource(c.Resource) >= c.Threshold
	}
	return false
}

// String describes the condition for tables and logs
func (c Condition) String() string {
	switch c.Kind {
	case CondBuildingCount:
		return fmt.Sprintf("%s >= %g", c.Building, c.Threshold)
	case CondClicks:
		return fmt.Sprintf("clicks >= %g", c.Threshold)
	case CondOwnsUpgrade:
		return "owns " + c.Upgrade
	case CondResource:
		return fmt.Sprintf("%s >= %g", c.Resource, c.Threshold)
	}
	return "always"
}
