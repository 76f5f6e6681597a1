package models

import (
	"reflect"
	"testing"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	cat := DefaultCatalog()
	s := NewGameState(cat)
	s.Earn(5e6)
	s.Carried = 8e12
	s.Prestige = WholePrestige(s.Carried)
	s.PremiumCurrency = 2
	s.BuyBuilding(cat, Cursor, 12)
	s.BuyBuilding(cat, Grandma, 6)
	s.EvaluateUnlocks(cat)
	s.EvaluateAchievements(cat)
	s.BuyUpgrade(cat, "Forwards from grandma")
	s.BuyUpgrade(cat, HeavenlyChipSecret)
	s.AddBuff(BuffClickFrenzy, Buff{Remaining: 4, Multiplier: 777, Target: BuffClick})
	s.Clicks = 30
	s.GoldenClicks = 2
	s.Elapsed = 99.5

	restored := RestoreGameState(cat, s.Snapshot())
	if !reflect.DeepEqual(s, restored) {
		t.Errorf("restored state differs\n got: %+v\nwant: %+v", restored, s)
	}
}

func TestRestoreGameState_MalformedFields(t *testing.T) {
	cat := DefaultCatalog()
	m := map[string]any{
		"currency":         "lots",
		"earned":           -4.0,
		"carried":          int64(27e12),
		"prestige":         1e9, // ignored, re-derived
		"premium_currency": 3,
		"premium_spent":    10.0,
		"owned_counts": map[string]any{
			Cursor:           7,
			Grandma:          -3.0,
			"Lemonade stand": 4.0,
			Farm:             "two",
		},
		"owned_upgrades": []any{"Forwards from grandma", "Nope", 12},
		"achievements":   []string{"Cursor x1", "made up"},
		"buffs": map[string]any{
			BuffFrenzy:  map[string]any{"remaining": 5.0, "multiplier": 7.0},
			"broken":    "x",
			"badtarget": map[string]any{"remaining": 5.0, "target": "sideways"},
		},
		"clicks":         3.9,
		"challenge_mode": "yes",
	}

	s := RestoreGameState(cat, m)
	if s.Currency != 0 || s.Earned != 0 {
		t.Errorf("currency = %g earned = %g, want 0", s.Currency, s.Earned)
	}
	if s.Carried != 27e12 || s.Prestige != 3 {
		t.Errorf("carried = %g prestige = %g, want 27e12 and 3", s.Carried, s.Prestige)
	}
	if s.PremiumSpent != 3 {
		t.Errorf("premium spent = %g, want capped to 3", s.PremiumSpent)
	}
	if s.OwnedCounts[Cursor] != 7 || s.OwnedCounts[Grandma] != 0 || s.OwnedCounts[Farm] != 0 {
		t.Errorf("counts = %v", s.OwnedCounts)
	}
	if _, ok := s.OwnedCounts["Lemonade stand"]; ok {
		t.Error("unknown building restored")
	}
	if !reflect.DeepEqual(SortedKeys(s.OwnedUpgrades), []string{"Forwards from grandma"}) {
		t.Errorf("owned upgrades = %v", SortedKeys(s.OwnedUpgrades))
	}
	if !reflect.DeepEqual(SortedKeys(s.Achievements), []string{"Cursor x1"}) {
		t.Errorf("achievements = %v", SortedKeys(s.Achievements))
	}
	if len(s.Buffs) != 1 || s.Buffs[BuffFrenzy].Multiplier != 7 {
		t.Errorf("buffs = %v", s.Buffs)
	}
	if s.Clicks != 3 || s.ChallengeMode {
		t.Errorf("clicks = %d challenge = %v", s.Clicks, s.ChallengeMode)
	}
}

func TestRestoreGameState_OwnedImpliesUnlocked(t *testing.T) {
	cat := DefaultCatalog()
	s := RestoreGameState(cat, map[string]any{
		"owned_upgrades": []any{"Reinforced index finger", HeavenlyChipSecret},
	})
	if !s.OwnedUpgrades["Reinforced index finger"] || !s.UnlockedUpgrades["Reinforced index finger"] {
		t.Errorf("owned regular upgrade: owned=%v unlocked=%v",
			s.OwnedUpgrades["Reinforced index finger"], s.UnlockedUpgrades["Reinforced index finger"])
	}
	if !s.OwnedUpgrades[HeavenlyChipSecret] {
		t.Error("premium upgrade not restored")
	}
	if s.UnlockedUpgrades[HeavenlyChipSecret] {
		t.Error("premium upgrades never enter the unlocked set")
	}
	for name := range s.OwnedUpgrades {
		u, _ := cat.Upgrade(name)
		if !u.Premium && !s.UnlockedUpgrades[name] {
			t.Errorf("%s owned but not unlocked", name)
		}
	}
}

func TestRestoreGameState_Nil(t *testing.T) {
	cat := DefaultCatalog()
	if got := RestoreGameState(cat, nil); !reflect.DeepEqual(got, NewGameState(cat)) {
		t.Error("nil snapshot should restore a fresh state")
	}
}
