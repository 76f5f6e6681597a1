package models

import (
	"math"
	"sort"
)

// GameState is the mutable state of one simulated player
type GameState struct {
	Currency float64 // spendable
	Earned   float64 // produced during the current run
	Carried  float64 // banked from previous runs at each ascension

	OwnedCounts      map[string]int // one key per catalog building
	OwnedUpgrades    map[string]bool
	UnlockedUpgrades map[string]bool
	Achievements     map[string]bool

	Prestige        float64 // derived from Carried, never set freely
	PremiumCurrency float64 // total premium currency ever earned by ascending
	PremiumSpent    float64

	Buffs map[string]Buff

	Elapsed       float64 // seconds in the current run
	Clicks        int
	Handmade      float64 // currency produced by clicks
	GoldenClicks  int
	ChallengeMode bool // disables the prestige production bonus
}

// NewGameState creates an empty state with one zero count per catalog building
func NewGameState(cat *Catalog) *GameState {
	s := &GameState{
		OwnedCounts:      make(map[string]int),
		OwnedUpgrades:    make(map[string]bool),
		UnlockedUpgrades: make(map[string]bool),
		Achievements:     make(map[string]bool),
		Buffs:            make(map[string]Buff),
	}
	if cat != nil {
		cat.EachBuilding(func(b BuildingDef) {
			s.OwnedCounts[b.Name] = 0
		})
	}
	return s
}

// Clone creates a deep copy of the state
func (s *GameState) Clone() *GameState {
	clone := *s
	clone.OwnedCounts = make(map[string]int, len(s.OwnedCounts))
	for k, v := range s.OwnedCounts {
		clone.OwnedCounts[k] = v
	}
	clone.OwnedUpgrades = cloneSet(s.OwnedUpgrades)
	clone.UnlockedUpgrades = cloneSet(s.UnlockedUpgrades)
	clone.Achievements = cloneSet(s.Achievements)
	clone.Buffs = make(map[string]Buff, len(s.Buffs))
	for k, v := range s.Buffs {
		clone.Buffs[k] = v
	}
	return &clone
}

func cloneSet(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		if v {
			out[k] = true
		}
	}
	return out
}

// BuildingCount returns the owned count of a building, 0 for unknown names
func (s *GameState) BuildingCount(name string) int {
	return s.OwnedCounts[name]
}

// HasUpgrade reports whether an upgrade is owned
func (s *GameState) HasUpgrade(name string) bool {
	return s.OwnedUpgrades[name]
}

// IsUnlocked reports whether an upgrade is visible for purchase
func (s *GameState) IsUnlocked(name string) bool {
	return s.UnlockedUpgrades[name]
}

// Earn adds produced currency to both the balance and the run total
func (s *GameState) Earn(amount float64) {
	if amount <= 0 || math.IsNaN(amount) {
		return
	}
	s.Currency += amount
	s.Earned += amount
}

// Spend removes currency if the balance covers it
func (s *GameState) Spend(amount float64) bool {
	if amount < 0 || amount > s.Currency {
		return false
	}
	s.Currency -= amount
	return true
}

// Lifetime is everything produced across all runs
func (s *GameState) Lifetime() float64 {
	return s.Carried + s.Earned
}

// PotentialPrestige is the whole prestige level an ascension now would reach
func (s *GameState) PotentialPrestige() float64 {
	return WholePrestige(s.Lifetime())
}

// AvailablePremium is the unspent premium currency
func (s *GameState) AvailablePremium() float64 {
	return math.Max(0, s.PremiumCurrency-s.PremiumSpent)
}

// MilkProgress is the fractional milk level from owned achievements
func (s *GameState) MilkProgress() float64 {
	return MilkProgress(len(s.Achievements))
}

// MilkType is the milk step reached by owned achievements
func (s *GameState) MilkType() int {
	return MilkType(len(s.Achievements))
}

func (s *GameState) resource(r Resource) float64 {
	switch r {
	case ResourceLifetime:
		return s.Earned
	case ResourceCurrency:
		return s.Currency
	case ResourceMilk:
		return s.MilkProgress()
	case ResourceGoldenClicks:
		return float64(s.GoldenClicks)
	case ResourcePremium:
		return s.PremiumCurrency
	}
	return 0
}

// AddBuff starts (or restarts) a named buff
func (s *GameState) AddBuff(name string, b Buff) {
	if b.Remaining <= 0 {
		return
	}
	s.Buffs[name] = b
}

// RemoveBuff drops a buff if present
func (s *GameState) RemoveBuff(name string) {
	delete(s.Buffs, name)
}

// TickBuffs decrements every buff by dt and removes the ones that ran out.
// Expired names are returned sorted.
func (s *GameState) TickBuffs(dt float64) []string {
	var expired []string
	for name, b := range s.Buffs {
		b.Remaining -= dt
		if b.Remaining <= 0 {
			expired = append(expired, name)
			continue
		}
		s.Buffs[name] = b
	}
	for _, name := range expired {
		delete(s.Buffs, name)
	}
	sort.Strings(expired)
	return expired
}

// BuyBuilding buys count units of a building if affordable
func (s *GameState) BuyBuilding(cat *Catalog, name string, count int) bool {
	if count <= 0 {
		return false
	}
	b, ok := cat.Building(name)
	if !ok {
		return false
	}
	owned := s.OwnedCounts[name]
	if !s.Spend(b.BulkPrice(owned, count)) {
		return false
	}
	s.OwnedCounts[name] = owned + count
	return true
}

// CanBuyUpgrade reports whether BuyUpgrade would succeed
func (s *GameState) CanBuyUpgrade(cat *Catalog, name string) bool {
	u, ok := cat.Upgrade(name)
	if !ok || s.OwnedUpgrades[name] {
		return false
	}
	if u.Premium {
		return u.Unlock.Satisfied(s) && u.Price <= s.AvailablePremium()
	}
	return s.UnlockedUpgrades[name] && u.Price <= s.Currency
}

// BuyUpgrade buys an upgrade. Regular upgrades must be unlocked first.
// Premium upgrades only need their condition and are paid in premium currency.
func (s *GameState) BuyUpgrade(cat *Catalog, name string) bool {
	if !s.CanBuyUpgrade(cat, name) {
		return false
	}
	u, _ := cat.Upgrade(name)
	if u.Premium {
		s.PremiumSpent += u.Price
	} else {
		s.Currency -= u.Price
	}
	s.OwnedUpgrades[name] = true
	return true
}

// EvaluateUnlocks reveals every regular upgrade whose condition now holds and
// returns the newly unlocked names in catalog order. Unlocks are permanent for
// the run, so calling it again is a no-op.
func (s *GameState) EvaluateUnlocks(cat *Catalog) []string {
	var added []string
	cat.EachUpgrade(func(u UpgradeDef) {
		if u.Premium || s.UnlockedUpgrades[u.Name] || s.OwnedUpgrades[u.Name] {
			return
		}
		if u.Unlock.Satisfied(s) {
			s.UnlockedUpgrades[u.Name] = true
			added = append(added, u.Name)
		}
	})
	return added
}

// EvaluateAchievements awards every achievement whose condition now holds
func (s *GameState) EvaluateAchievements(cat *Catalog) []string {
	var added []string
	for _, a := range cat.achievements {
		if s.Achievements[a.Name] {
			continue
		}
		if a.Unlock.Satisfied(s) {
			s.Achievements[a.Name] = true
			added = append(added, a.Name)
		}
	}
	return added
}

// Ascend resets the run and converts lifetime production into prestige.
// It returns the prestige gained, which may be zero; it never refuses.
func (s *GameState) Ascend(cat *Catalog) float64 {
	level := WholePrestige(s.Lifetime())
	gained := level - s.Prestige
	if gained > 0 {
		s.PremiumCurrency += gained
		s.Prestige = level
	} else {
		gained = 0
	}

	s.Carried += s.Earned
	s.Earned = 0
	s.Currency = 0
	for name := range s.OwnedCounts {
		s.OwnedCounts[name] = 0
	}
	for name := range s.OwnedUpgrades {
		if u, ok := cat.Upgrade(name); !ok || !u.Premium {
			delete(s.OwnedUpgrades, name)
		}
	}
	s.UnlockedUpgrades = make(map[string]bool)
	s.Buffs = make(map[string]Buff)
	s.Elapsed = 0
	s.Clicks = 0
	s.Handmade = 0
	return gained
}

// SortedKeys returns the true keys of a set in lexical order
func SortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k, v := range m {
		if v {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
