package optimizer

import (
	"math"
	"reflect"
	"testing"

	"github.com/napolitain/solver-idle/internal/models"
	"github.com/napolitain/solver-idle/internal/solver/cps"
)

func newOptimizer(t testing.TB, cat *models.Catalog) *Optimizer {
	t.Helper()
	return New(cps.New(cat))
}

func mustCatalog(t testing.TB, spec models.CatalogSpec) *models.Catalog {
	t.Helper()
	cat, err := models.NewCatalog(spec)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return cat
}

func TestBestPurchase_NothingAffordable(t *testing.T) {
	cat := models.DefaultCatalog()
	o := newOptimizer(t, cat)
	s := models.NewGameState(cat)

	if opt, ok := o.BestPurchase(s, s.Currency); ok {
		t.Errorf("got %v with zero currency", opt)
	}
}

func TestBestPurchase_FirstCursor(t *testing.T) {
	cat := models.DefaultCatalog()
	o := newOptimizer(t, cat)
	s := models.NewGameState(cat)
	s.Currency = 20

	opt, ok := o.BestPurchase(s, s.Currency)
	if !ok || opt.ID != models.Cursor || opt.Kind != KindBuilding {
		t.Fatalf("BestPurchase = %v, %v; want Cursor", opt, ok)
	}
	if math.Abs(opt.RateGain-0.1) > 1e-12 || math.Abs(opt.Efficiency-0.1/15) > 1e-12 {
		t.Errorf("gain = %g efficiency = %g", opt.RateGain, opt.Efficiency)
	}
	if math.Abs(opt.Payback-150) > 1e-9 {
		t.Errorf("payback = %g, want 150", opt.Payback)
	}
}

func TestBestPurchase_TieBreak(t *testing.T) {
	tests := []struct {
		name string
		spec models.CatalogSpec
		want string
	}{
		{
			name: "lower price wins on equal efficiency",
			spec: models.CatalogSpec{Buildings: []models.BuildingDef{
				{Name: "Big", BasePrice: 20, BaseRate: 2},
				{Name: "Small", BasePrice: 10, BaseRate: 1},
			}},
			want: "Small",
		},
		{
			name: "name breaks full ties",
			spec: models.CatalogSpec{Buildings: []models.BuildingDef{
				{Name: "Yew", BasePrice: 10, BaseRate: 1},
				{Name: "Ash", BasePrice: 10, BaseRate: 1},
			}},
			want: "Ash",
		},
		{
			name: "building before upgrade",
			spec: models.CatalogSpec{
				Buildings: []models.BuildingDef{
					{Name: "Zed", BasePrice: 10, BaseRate: 1},
					{Name: "Mill", BasePrice: 1e9, BaseRate: 1},
				},
				Upgrades: []models.UpgradeDef{
					// Doubles the one owned Mill: +1/s for 10, like a Zed
					{Name: "Aardvark", Price: 10, Effect: models.EffectBuildingMultiplier, Magnitude: 2, Target: "Mill"},
				},
			},
			want: "Zed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := mustCatalog(t, tt.spec)
			o := newOptimizer(t, cat)
			s := models.NewGameState(cat)
			s.Currency = 100
			if cat.HasBuilding("Mill") {
				s.OwnedCounts["Mill"] = 1
				s.EvaluateUnlocks(cat)
			}

			opt, ok := o.BestPurchase(s, s.Currency)
			if !ok || opt.ID != tt.want {
				t.Errorf("BestPurchase = %v, want %s", opt, tt.want)
			}
			list := o.Options(s, s.Currency)
			if len(list) == 0 || list[0].ID != tt.want {
				t.Errorf("Options head = %v, want %s", list, tt.want)
			}
		})
	}
}

func TestOptions_RespectBudgetAndLocks(t *testing.T) {
	cat := models.DefaultCatalog()
	o := newOptimizer(t, cat)
	s := models.NewGameState(cat)
	s.Currency = 1500
	s.OwnedCounts[models.Grandma] = 1

	for _, opt := range o.Options(s, s.Currency) {
		if opt.Price > s.Currency {
			t.Errorf("%v exceeds budget", opt)
		}
		if opt.Kind == KindUpgrade {
			t.Errorf("%v offered before any unlock", opt)
		}
	}

	s.EvaluateUnlocks(cat)
	found := false
	for _, opt := range o.Options(s, s.Currency) {
		if opt.ID == "Forwards from grandma" {
			found = true
		}
	}
	if !found {
		t.Error("unlocked tier upgrade not offered")
	}
}

func TestOptions_PremiumUpgrades(t *testing.T) {
	cat := models.DefaultCatalog()
	o := newOptimizer(t, cat)
	s := models.NewGameState(cat)
	s.OwnedCounts[models.Farm] = 3
	s.Prestige = 5

	has := func(opts []PurchaseOption, id string) bool {
		for _, opt := range opts {
			if opt.ID == id {
				return true
			}
		}
		return false
	}
	if has(o.Options(s, 0), models.HeavenlyChipSecret) {
		t.Error("premium upgrade offered without premium currency")
	}
	if !has(o.PriorityList(s, 0), models.HeavenlyChipSecret) {
		t.Error("premium upgrade missing from the priority list")
	}

	s.PremiumCurrency = 1
	opt, ok := o.BestPurchase(s, 0)
	if !ok || opt.ID != models.HeavenlyChipSecret || !opt.Premium || opt.Payback != 0 {
		t.Errorf("BestPurchase = %v, %v", opt, ok)
	}
}

func TestPriorityList_SortedAndTruncated(t *testing.T) {
	cat := models.DefaultCatalog()
	o := newOptimizer(t, cat)
	s := models.NewGameState(cat)
	s.OwnedCounts[models.Cursor] = 5

	// One per building plus the first heavenly upgrade, whose condition always holds
	all := o.PriorityList(s, 0)
	if len(all) != len(cat.Buildings())+1 {
		t.Errorf("got %d options, want %d", len(all), len(cat.Buildings())+1)
	}
	for i := 1; i < len(all); i++ {
		if better(all[i], all[i-1]) {
			t.Fatalf("list not sorted at %d: %v before %v", i, all[i-1], all[i])
		}
	}
	top := o.PriorityList(s, 3)
	if !reflect.DeepEqual(top, all[:3]) {
		t.Errorf("top 3 = %v, want %v", top, all[:3])
	}
}

func TestOptimalStrategy_StopsAtHorizon(t *testing.T) {
	cat := models.DefaultCatalog()
	o := newOptimizer(t, cat)
	s := models.NewGameState(cat)
	s.Currency = 1e5

	plan := o.OptimalStrategy(s, 3600)
	if len(plan) == 0 {
		t.Fatal("empty plan with 1e5 currency")
	}
	if len(plan) > MaxStrategySteps {
		t.Errorf("plan has %d steps", len(plan))
	}
	for _, step := range plan {
		if step.Payback > 3600 {
			t.Errorf("%v pays back after the horizon", step)
		}
	}
	if s.Currency != 1e5 || s.OwnedCounts[models.Cursor] != 0 {
		t.Error("OptimalStrategy mutated the input state")
	}
	t.Logf("plan: %d purchases, first %v", len(plan), plan[0])
}

func TestBuildingRatio_SpendsBudget(t *testing.T) {
	cat := models.DefaultCatalog()
	o := newOptimizer(t, cat)
	s := models.NewGameState(cat)

	counts := o.BuildingRatio(s, 1e4)
	spent := 0.0
	for name, n := range counts {
		b, _ := cat.Building(name)
		spent += b.BulkPrice(0, n)
	}
	if spent > 1e4 || spent < 1e4-cat.Price(models.Cursor, counts[models.Cursor]) {
		t.Errorf("spent %g of 1e4", spent)
	}
	if counts[models.Cursor] == 0 && counts[models.Grandma] == 0 {
		t.Errorf("nothing bought: %v", counts)
	}
}

func TestEfficiencyCurve_Decreasing(t *testing.T) {
	cat := models.DefaultCatalog()
	o := newOptimizer(t, cat)
	s := models.NewGameState(cat)

	curve := o.EfficiencyCurve(s, models.Farm, 20)
	if len(curve) != 20 {
		t.Fatalf("curve has %d points", len(curve))
	}
	for i := 1; i < len(curve); i++ {
		if curve[i].Efficiency >= curve[i-1].Efficiency {
			t.Errorf("efficiency rose at %d", curve[i].Owned)
		}
	}
	if o.EfficiencyCurve(s, "Lemonade stand", 5) != nil {
		t.Error("unknown building should give no curve")
	}
}

func TestSimulateSequence(t *testing.T) {
	cat := models.DefaultCatalog()
	o := newOptimizer(t, cat)
	s := models.NewGameState(cat)
	s.Currency = 15

	res := o.SimulateSequence(s, []string{models.Cursor, "Nope", models.Cursor, models.Grandma}, 1e4)
	if !reflect.DeepEqual(res.Skipped, []string{"Nope"}) {
		t.Errorf("skipped = %v", res.Skipped)
	}
	if len(res.Steps) != 3 {
		t.Fatalf("steps = %v", res.Steps)
	}
	if res.Steps[0].At != 0 {
		t.Errorf("first Cursor should be immediate, at %g", res.Steps[0].At)
	}
	// Second Cursor costs 17.25 at 0.1/s
	if math.Abs(res.Steps[1].At-172.5) > 1e-6 {
		t.Errorf("second Cursor at %g, want 172.5", res.Steps[1].At)
	}
	if res.Final.OwnedCounts[models.Grandma] != 1 || s.OwnedCounts[models.Cursor] != 0 {
		t.Error("sequence should run on a copy")
	}
	if res.RateGain() <= 0 || res.Efficiency() <= 0 {
		t.Errorf("gain = %g efficiency = %g", res.RateGain(), res.Efficiency())
	}

	short := o.SimulateSequence(s, []string{models.Cursor, models.Cursor}, 100)
	if len(short.Steps) != 1 {
		t.Errorf("time limit ignored: %v", short.Steps)
	}
}

func TestTimeToAfford(t *testing.T) {
	if got := TimeToAfford(10, 0, 5); got != 0 {
		t.Errorf("affordable now = %g", got)
	}
	if got := TimeToAfford(0, 0, 5); !math.IsInf(got, 1) {
		t.Errorf("zero rate = %g, want +Inf", got)
	}
	if got := TimeToAfford(5, 2, 25); got != 10 {
		t.Errorf("got %g, want 10", got)
	}
}

func TestAscensionOutlook(t *testing.T) {
	cat := models.DefaultCatalog()
	o := newOptimizer(t, cat)
	s := models.NewGameState(cat)
	s.Earned = models.CurrencyForPrestige(3)
	s.OwnedCounts["Portal"] = 10

	out := o.AscensionOutlook(s)
	if len(out) != len(AscensionGains) {
		t.Fatalf("got %d rows", len(out))
	}
	prev := 0.0
	for _, row := range out {
		if row.Level != 3+float64(row.Gain) {
			t.Errorf("level = %g for gain %d", row.Level, row.Gain)
		}
		if row.Seconds <= prev {
			t.Errorf("seconds not increasing: %g after %g", row.Seconds, prev)
		}
		prev = row.Seconds
	}
	if got := o.TimeToPrestige(s, 2); got != 0 {
		t.Errorf("already reached level 2, got %g", got)
	}
}

func TestPolicies(t *testing.T) {
	cat := models.DefaultCatalog()
	o := newOptimizer(t, cat)
	s := models.NewGameState(cat)
	s.Currency = 2000
	s.OwnedCounts[models.Grandma] = 1
	s.EvaluateUnlocks(cat)

	for _, name := range PolicyNames() {
		p, ok := PolicyByName(o, name)
		if !ok || p.Name() != name {
			t.Fatalf("PolicyByName(%q) = %v, %v", name, p, ok)
		}
		opt, ok := p.Next(s)
		if !ok {
			t.Fatalf("%s: no purchase with 2000 currency", name)
		}
		switch name {
		case "cheapest":
			if opt.ID != models.Cursor {
				t.Errorf("cheapest picked %v", opt)
			}
		case "buildings-only":
			if opt.Kind != KindBuilding {
				t.Errorf("buildings-only picked %v", opt)
			}
		}
	}
	if _, ok := PolicyByName(o, "random"); ok {
		t.Error("unknown policy accepted")
	}
}

// FuzzBestPurchase checks the chosen option is affordable and top ranked
func FuzzBestPurchase(f *testing.F) {
	f.Add(100.0, 3, 2, 0)
	f.Add(1e7, 40, 20, 5)
	f.Add(1e12, 200, 100, 80)

	cat := models.DefaultCatalog()
	o := New(cps.New(cat))
	f.Fuzz(func(t *testing.T, currency float64, cursors, grandmas, farms int) {
		if math.IsNaN(currency) || currency < 0 || currency > 1e18 {
			return
		}
		if cursors < 0 || grandmas < 0 || farms < 0 || cursors > 500 || grandmas > 500 || farms > 500 {
			return
		}
		s := models.NewGameState(cat)
		s.Currency = currency
		s.OwnedCounts[models.Cursor] = cursors
		s.OwnedCounts[models.Grandma] = grandmas
		s.OwnedCounts[models.Farm] = farms
		s.EvaluateUnlocks(cat)

		best, ok := o.BestPurchase(s, s.Currency)
		opts := o.Options(s, s.Currency)
		if ok != (len(opts) > 0) {
			t.Fatalf("BestPurchase ok=%v with %d options", ok, len(opts))
		}
		if !ok {
			return
		}
		if best != opts[0] {
			t.Errorf("BestPurchase %v != Options head %v", best, opts[0])
		}
		if best.Price > currency {
			t.Errorf("%v not affordable with %g", best, currency)
		}
		if best.RateGain < 0 || best.Efficiency < 0 {
			t.Errorf("negative gain in %v", best)
		}
	})
}

func BenchmarkBestPurchase(b *testing.B) {
	cat := models.DefaultCatalog()
	o := New(cps.New(cat))
	s := models.NewGameState(cat)
	s.Currency = 1e15
	for _, bd := range cat.Buildings() {
		s.OwnedCounts[bd.Name] = 50
	}
	s.EvaluateUnlocks(cat)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		o.BestPurchase(s, s.Currency)
	}
}
