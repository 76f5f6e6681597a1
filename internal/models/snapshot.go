package models

import "math"

// Snapshot keys
const (
	keyCurrency       = "currency"
	keyEarned         = "earned"
	keyCarried        = "carried"
	keyPrestige       = "prestige"
	keyPremium        = "premium_currency"
	keyPremiumSpent   = "premium_spent"
	keyOwnedCounts    = "owned_counts"
	keyOwnedUpgrades  = "owned_upgrades"
	keyUnlocked       = "unlocked_upgrades"
	keyAchievements   = "achievements"
	keyBuffs          = "buffs"
	keyElapsed        = "elapsed"
	keyClicks         = "clicks"
	keyHandmade       = "handmade"
	keyGoldenClicks   = "golden_clicks"
	keyChallengeMode  = "challenge_mode"
	keyBuffRemaining  = "remaining"
	keyBuffMultiplier = "multiplier"
	keyBuffTarget     = "target"
)

// Snapshot encodes the state as nested maps of float64, string, bool and
// []any so it can be fed to any generic encoder. Sets are sorted.
func (s *GameState) Snapshot() map[string]any {
	counts := make(map[string]any, len(s.OwnedCounts))
	for name, n := range s.OwnedCounts {
		counts[name] = float64(n)
	}
	buffs := make(map[string]any, len(s.Buffs))
	for name, b := range s.Buffs {
		buffs[name] = map[string]any{
			keyBuffRemaining:  b.Remaining,
			keyBuffMultiplier: b.Multiplier,
			keyBuffTarget:     b.Target.String(),
		}
	}
	return map[string]any{
		keyCurrency:      s.Currency,
		keyEarned:        s.Earned,
		keyCarried:       s.Carried,
		keyPrestige:      s.Prestige,
		keyPremium:       s.PremiumCurrency,
		keyPremiumSpent:  s.PremiumSpent,
		keyOwnedCounts:   counts,
		keyOwnedUpgrades: stringList(SortedKeys(s.OwnedUpgrades)),
		keyUnlocked:      stringList(SortedKeys(s.UnlockedUpgrades)),
		keyAchievements:  stringList(SortedKeys(s.Achievements)),
		keyBuffs:         buffs,
		keyElapsed:       s.Elapsed,
		keyClicks:        float64(s.Clicks),
		keyHandmade:      s.Handmade,
		keyGoldenClicks:  float64(s.GoldenClicks),
		keyChallengeMode: s.ChallengeMode,
	}
}

// RestoreGameState rebuilds a state from a Snapshot map. Missing or malformed
// fields fall back to their zero value, unknown catalog names are dropped and
// prestige is re-derived from the banked total.
func RestoreGameState(cat *Catalog, m map[string]any) *GameState {
	s := NewGameState(cat)
	if m == nil {
		return s
	}

	s.Currency = nonNegative(m[keyCurrency])
	s.Earned = nonNegative(m[keyEarned])
	s.Carried = nonNegative(m[keyCarried])
	s.PremiumCurrency = nonNegative(m[keyPremium])
	s.PremiumSpent = math.Min(nonNegative(m[keyPremiumSpent]), s.PremiumCurrency)
	s.Elapsed = nonNegative(m[keyElapsed])
	s.Clicks = int(nonNegative(m[keyClicks]))
	s.Handmade = nonNegative(m[keyHandmade])
	s.GoldenClicks = int(nonNegative(m[keyGoldenClicks]))
	s.ChallengeMode, _ = m[keyChallengeMode].(bool)
	s.Prestige = WholePrestige(s.Carried)

	if counts, ok := m[keyOwnedCounts].(map[string]any); ok {
		for name, v := range counts {
			if cat.HasBuilding(name) {
				s.OwnedCounts[name] = int(nonNegative(v))
			}
		}
	}
	for _, name := range readStrings(m[keyOwnedUpgrades]) {
		u, ok := cat.Upgrade(name)
		if !ok {
			continue
		}
		s.OwnedUpgrades[name] = true
		// owned regular upgrades are always unlocked
		if !u.Premium {
			s.UnlockedUpgrades[name] = true
		}
	}
	for _, name := range readStrings(m[keyUnlocked]) {
		if cat.HasUpgrade(name) {
			s.UnlockedUpgrades[name] = true
		}
	}
	known := make(map[string]bool, len(cat.achievements))
	for _, a := range cat.achievements {
		known[a.Name] = true
	}
	for _, name := range readStrings(m[keyAchievements]) {
		if known[name] {
			s.Achievements[name] = true
		}
	}

	if buffs, ok := m[keyBuffs].(map[string]any); ok {
		for name, v := range buffs {
			fields, ok := v.(map[string]any)
			if !ok {
				continue
			}
			target, _ := fields[keyBuffTarget].(string)
			t, err := ParseBuffTarget(target)
			if err != nil {
				continue
			}
			mult, ok := readFloat(fields[keyBuffMultiplier])
			if !ok {
				mult = 1
			}
			s.AddBuff(name, Buff{
				Remaining:  nonNegative(fields[keyBuffRemaining]),
				Multiplier: mult,
				Target:     t,
			})
		}
	}
	return s
}

func stringList(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

func readStrings(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// readFloat accepts the numeric types produced by common decoders
func readFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint64:
		f = float64(n)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func nonNegative(v any) float64 {
	f, ok := readFloat(v)
	if !ok || f < 0 {
		return 0
	}
	return f
}

// ReadFloat exposes the tolerant numeric reader to other snapshot layers
func ReadFloat(v any) (float64, bool) {
	return readFloat(v)
}
