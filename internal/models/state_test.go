package models

import (
	"math"
	"reflect"
	"testing"
)

func TestNewGameState_KeysEveryBuilding(t *testing.T) {
	cat := DefaultCatalog()
	s := NewGameState(cat)
	if len(s.OwnedCounts) != len(cat.Buildings()) {
		t.Fatalf("OwnedCounts has %d keys, want %d", len(s.OwnedCounts), len(cat.Buildings()))
	}
	for name, n := range s.OwnedCounts {
		if n != 0 {
			t.Errorf("%s starts at %d", name, n)
		}
	}
}

func TestBuyBuilding_FiveCursorsOneAtATime(t *testing.T) {
	cat := DefaultCatalog()
	s := NewGameState(cat)
	s.Currency = 1000

	for i := 0; i < 5; i++ {
		if !s.BuyBuilding(cat, Cursor, 1) {
			t.Fatalf("purchase %d rejected with %g currency", i+1, s.Currency)
		}
	}

	spent := 1000 - s.Currency
	want := 15 * (math.Pow(1.15, 5) - 1) / 0.15
	if !closeTo(spent, want, 1e-9) {
		t.Errorf("spent %g, want %g", spent, want)
	}
	if s.OwnedCounts[Cursor] != 5 {
		t.Errorf("owned Cursors = %d, want 5", s.OwnedCounts[Cursor])
	}
	t.Logf("5 Cursors cost %.4f", spent)
}

func TestBuyBuilding_Rejections(t *testing.T) {
	cat := DefaultCatalog()
	s := NewGameState(cat)
	s.Currency = 14

	tests := []struct {
		name  string
		id    string
		count int
	}{
		{"unaffordable", Cursor, 1},
		{"unknown", "Lemonade stand", 1},
		{"zero count", Cursor, 0},
		{"negative count", Cursor, -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if s.BuyBuilding(cat, tt.id, tt.count) {
				t.Error("purchase should be rejected")
			}
			if s.Currency != 14 || s.OwnedCounts[Cursor] != 0 {
				t.Error("rejected purchase mutated state")
			}
		})
	}
}

func TestBuyUpgrade_RequiresUnlock(t *testing.T) {
	cat := DefaultCatalog()
	s := NewGameState(cat)
	s.Currency = 1e6

	if s.BuyUpgrade(cat, "Forwards from grandma") {
		t.Fatal("bought a locked upgrade")
	}
	s.BuyBuilding(cat, Grandma, 1)
	added := s.EvaluateUnlocks(cat)
	if !reflect.DeepEqual(added, []string{"Forwards from grandma"}) {
		t.Fatalf("EvaluateUnlocks = %v", added)
	}
	if again := s.EvaluateUnlocks(cat); len(again) != 0 {
		t.Errorf("second evaluation unlocked %v", again)
	}

	before := s.Currency
	if !s.BuyUpgrade(cat, "Forwards from grandma") {
		t.Fatal("unlocked upgrade rejected")
	}
	if before-s.Currency != 1000 {
		t.Errorf("upgrade cost %g, want 1000", before-s.Currency)
	}
	if s.BuyUpgrade(cat, "Forwards from grandma") {
		t.Error("bought the same upgrade twice")
	}
}

func TestBuyUpgrade_PremiumUsesPremiumCurrency(t *testing.T) {
	cat := DefaultCatalog()
	s := NewGameState(cat)

	if s.BuyUpgrade(cat, HeavenlyChipSecret) {
		t.Fatal("bought premium upgrade without premium currency")
	}
	s.PremiumCurrency = 3
	if !s.BuyUpgrade(cat, HeavenlyChipSecret) {
		t.Fatal("premium purchase rejected")
	}
	if s.AvailablePremium() != 2 || s.PremiumCurrency != 3 {
		t.Errorf("available = %g total = %g, want 2 and 3", s.AvailablePremium(), s.PremiumCurrency)
	}
	if s.BuyUpgrade(cat, "Heavenly cookie stand") {
		t.Error("bought stand with only 2 available")
	}
}

func TestTickBuffs_RemovesExpiredTogether(t *testing.T) {
	s := NewGameState(nil)
	s.AddBuff("a", Buff{Remaining: 2, Multiplier: 7})
	s.AddBuff("b", Buff{Remaining: 1, Multiplier: 2})
	s.AddBuff("c", Buff{Remaining: 5, Multiplier: 3})
	s.AddBuff("ignored", Buff{Remaining: 0, Multiplier: 3})

	expired := s.TickBuffs(2)
	if !reflect.DeepEqual(expired, []string{"a", "b"}) {
		t.Errorf("expired = %v, want [a b]", expired)
	}
	if len(s.Buffs) != 1 || s.Buffs["c"].Remaining != 3 {
		t.Errorf("remaining buffs = %v", s.Buffs)
	}
}

func TestClone_IsDeep(t *testing.T) {
	cat := DefaultCatalog()
	s := NewGameState(cat)
	s.Currency = 500
	s.BuyBuilding(cat, Cursor, 2)
	s.Achievements["x"] = true
	s.AddBuff(BuffFrenzy, Buff{Remaining: 10, Multiplier: 7})

	c := s.Clone()
	c.OwnedCounts[Cursor] = 99
	c.Achievements["y"] = true
	c.OwnedUpgrades["z"] = true
	c.Buffs[BuffFrenzy] = Buff{Remaining: 1}
	c.Currency = 0

	if s.OwnedCounts[Cursor] != 2 || s.Achievements["y"] || s.OwnedUpgrades["z"] {
		t.Error("clone shares maps with the original")
	}
	if s.Buffs[BuffFrenzy].Remaining != 10 || s.Currency == 0 {
		t.Error("clone shares buffs or scalars with the original")
	}
}

func TestAscend_Invariants(t *testing.T) {
	cat := DefaultCatalog()
	s := NewGameState(cat)
	s.Earn(CurrencyForPrestige(2))
	s.BuyBuilding(cat, Cursor, 10)
	s.BuyBuilding(cat, Grandma, 5)
	s.EvaluateUnlocks(cat)
	s.BuyUpgrade(cat, "Forwards from grandma")
	s.PremiumCurrency = 1
	s.BuyUpgrade(cat, HeavenlyChipSecret)
	s.Achievements["Cursor x1"] = true
	s.AddBuff(BuffFrenzy, Buff{Remaining: 10, Multiplier: 7})
	s.Clicks = 40
	s.Elapsed = 1234
	earned := s.Earned

	gained := s.Ascend(cat)
	if gained != 2 {
		t.Errorf("gained = %g, want 2", gained)
	}
	if s.Prestige != 2 || s.PremiumCurrency != 3 {
		t.Errorf("prestige = %g premium = %g, want 2 and 3", s.Prestige, s.PremiumCurrency)
	}
	if s.Carried != earned || s.Earned != 0 || s.Currency != 0 {
		t.Errorf("carried = %g earned = %g currency = %g", s.Carried, s.Earned, s.Currency)
	}
	for name, n := range s.OwnedCounts {
		if n != 0 {
			t.Errorf("%s = %d after ascend", name, n)
		}
	}
	if !reflect.DeepEqual(SortedKeys(s.OwnedUpgrades), []string{HeavenlyChipSecret}) {
		t.Errorf("owned upgrades after ascend = %v", SortedKeys(s.OwnedUpgrades))
	}
	if len(s.UnlockedUpgrades) != 0 || len(s.Buffs) != 0 || s.Elapsed != 0 || s.Clicks != 0 {
		t.Error("run state not cleared")
	}
	if !s.Achievements["Cursor x1"] {
		t.Error("achievements should survive ascension")
	}

	// Nothing new earned: a second ascend gains nothing
	if again := s.Ascend(cat); again != 0 || s.Prestige != 2 {
		t.Errorf("second ascend gained %g, prestige %g", again, s.Prestige)
	}
}

func TestAscend_PrestigeMonotonic(t *testing.T) {
	cat := DefaultCatalog()
	s := NewGameState(cat)
	prev := s.Prestige
	for i := 0; i < 20; i++ {
		s.Earn(float64(i) * 3e11)
		s.Ascend(cat)
		if s.Prestige < prev {
			t.Fatalf("prestige decreased from %g to %g", prev, s.Prestige)
		}
		if s.Prestige != WholePrestige(s.Carried) {
			t.Fatalf("prestige %g not derived from carried %g", s.Prestige, s.Carried)
		}
		prev = s.Prestige
	}
}

func TestPotentialPrestige_OneTrillion(t *testing.T) {
	cat := DefaultCatalog()
	s := NewGameState(cat)
	s.Earned = 1e12
	if got := s.PotentialPrestige(); got != 1 {
		t.Errorf("PotentialPrestige() = %g, want 1", got)
	}
	if s.Prestige != 0 {
		t.Errorf("prestige changed before ascending: %g", s.Prestige)
	}

	s.Ascend(cat)
	if s.Prestige != 1 || s.Carried != 1e12 {
		t.Errorf("after ascend prestige = %g carried = %g", s.Prestige, s.Carried)
	}
}

func TestConditions(t *testing.T) {
	cat := DefaultCatalog()
	s := NewGameState(cat)
	s.OwnedCounts[Farm] = 5
	s.Clicks = 20
	s.Earned = 5000
	s.GoldenClicks = 7
	s.OwnedUpgrades["Cheap hoes"] = true
	for i := 0; i < 30; i++ {
		s.Achievements[string(rune('a'+i))] = true
	}

	tests := []struct {
		cond Condition
		want bool
	}{
		{Always(), true},
		{WhenOwned(Farm, 5), true},
		{WhenOwned(Farm, 6), false},
		{WhenOwned("Nowhere", 1), false},
		{WhenClicked(15), true},
		{WhenClicked(100), false},
		{WhenUpgraded("Cheap hoes"), true},
		{WhenUpgraded("Fertilizer"), false},
		{WhenReached(ResourceLifetime, 5000), true},
		{WhenReached(ResourceMilk, 1), true},
		{WhenReached(ResourceMilk, 2), false},
		{WhenReached(ResourceGoldenClicks, 7), true},
		{WhenReached(ResourcePremium, 1), false},
	}
	for _, tt := range tests {
		if got := tt.cond.Satisfied(s); got != tt.want {
			t.Errorf("%s: Satisfied = %v, want %v", tt.cond, got, tt.want)
		}
	}
}

func TestConditionKind_RoundTrip(t *testing.T) {
	for _, k := range []ConditionKind{CondAlways, CondBuildingCount, CondClicks, CondOwnsUpgrade, CondResource} {
		got, err := ParseConditionKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseConditionKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParseConditionKind("sometimes"); err == nil {
		t.Error("expected error for unknown kind")
	}
}
