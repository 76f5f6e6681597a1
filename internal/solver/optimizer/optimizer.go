// Package optimizer ranks purchases by production gained per unit of price
package optimizer

import (
	"fmt"
	"math"
	"sort"

	"github.com/napolitain/solver-idle/internal/models"
	"github.com/napolitain/solver-idle/internal/solver/cps"
)

// MaxStrategySteps bounds OptimalStrategy
const MaxStrategySteps = 100

// Kind distinguishes building and upgrade purchases
type Kind int

const (
	KindBuilding Kind = iota
	KindUpgrade
)

// String returns a string representation of the kind
func (k Kind) String() string {
	if k == KindUpgrade {
		return "upgrade"
	}
	return "building"
}

// PurchaseOption is one candidate purchase evaluated against a state
type PurchaseOption struct {
	Kind       Kind
	ID         string
	Price      float64
	RateGain   float64
	Efficiency float64 // RateGain / Price
	Premium    bool    // priced in premium currency
	Payback    float64 // seconds of the added rate needed to repay Price
}

// String returns a short description
func (p PurchaseOption) String() string {
	return fmt.Sprintf("%s %s (price %.4g, +%.4g/s)", p.Kind, p.ID, p.Price, p.RateGain)
}

// Optimizer evaluates purchases with a rate calculator
type Optimizer struct {
	catalog *models.Catalog
	calc    *cps.Calculator
}

// New creates an optimizer sharing the calculator's catalog
func New(calc *cps.Calculator) *Optimizer {
	return &Optimizer{catalog: calc.Catalog(), calc: calc}
}

// Calculator returns the underlying rate calculator
func (o *Optimizer) Calculator() *cps.Calculator {
	return o.calc
}

// Options lists every purchase affordable within budget, best first.
// Premium upgrades are affordable against the state's unspent premium currency.
func (o *Optimizer) Options(s *models.GameState, budget float64) []PurchaseOption {
	opts := o.candidates(s, budget, true)
	sortOptions(opts)
	return opts
}

// BestPurchase returns the most efficient affordable purchase
func (o *Optimizer) BestPurchase(s *models.GameState, budget float64) (PurchaseOption, bool) {
	opts := o.candidates(s, budget, true)
	if len(opts) == 0 {
		return PurchaseOption{}, false
	}
	best := opts[0]
	for _, opt := range opts[1:] {
		if better(opt, best) {
			best = opt
		}
	}
	return best, true
}

// PriorityList ranks every visible purchase regardless of budget and keeps
// the top k (all when k <= 0)
func (o *Optimizer) PriorityList(s *models.GameState, k int) []PurchaseOption {
	opts := o.candidates(s, 0, false)
	sortOptions(opts)
	if k > 0 && len(opts) > k {
		opts = opts[:k]
	}
	return opts
}

// Apply performs a purchase on the state
func (o *Optimizer) Apply(s *models.GameState, opt PurchaseOption) bool {
	if opt.Kind == KindBuilding {
		return s.BuyBuilding(o.catalog, opt.ID, 1)
	}
	return s.BuyUpgrade(o.catalog, opt.ID)
}

// Evaluate builds the option for a single building or upgrade id
func (o *Optimizer) Evaluate(s *models.GameState, id string) (PurchaseOption, bool) {
	current := o.calc.Rate(s)
	if b, ok := o.catalog.Building(id); ok {
		return o.buildingOption(s, b, current), true
	}
	if u, ok := o.catalog.Upgrade(id); ok {
		return o.upgradeOption(s, u, current), true
	}
	return PurchaseOption{}, false
}

func (o *Optimizer) candidates(s *models.GameState, budget float64, limited bool) []PurchaseOption {
	current := o.calc.Rate(s)
	var opts []PurchaseOption

	o.catalog.EachBuilding(func(b models.BuildingDef) {
		if limited && b.Price(s.BuildingCount(b.Name)) > budget {
			return
		}
		opts = append(opts, o.buildingOption(s, b, current))
	})

	o.catalog.EachUpgrade(func(u models.UpgradeDef) {
		if s.HasUpgrade(u.Name) {
			return
		}
		if u.Premium {
			if !u.Unlock.Satisfied(s) || (limited && u.Price > s.AvailablePremium()) {
				return
			}
		} else if !s.IsUnlocked(u.Name) || (limited && u.Price > budget) {
			return
		}
		opts = append(opts, o.upgradeOption(s, u, current))
	})
	return opts
}

func (o *Optimizer) buildingOption(s *models.GameState, b models.BuildingDef, current float64) PurchaseOption {
	price := b.Price(s.BuildingCount(b.Name))
	gain := o.calc.RateWith(s, cps.Delta{Building: b.Name, Count: 1}) - current
	return newOption(KindBuilding, b.Name, price, gain, false)
}

func (o *Optimizer) upgradeOption(s *models.GameState, u models.UpgradeDef, current float64) PurchaseOption {
	gain := o.calc.RateWith(s, cps.Delta{Upgrade: u.Name}) - current
	return newOption(KindUpgrade, u.Name, u.Price, gain, u.Premium)
}

func newOption(kind Kind, id string, price, gain float64, premium bool) PurchaseOption {
	if gain < 0 || math.IsNaN(gain) {
		gain = 0
	}
	opt := PurchaseOption{
		Kind:     kind,
		ID:       id,
		Price:    price,
		RateGain: gain,
		Premium:  premium,
		Payback:  math.Inf(1),
	}
	if price > 0 {
		opt.Efficiency = gain / price
	}
	switch {
	case premium:
		opt.Payback = 0 // costs no regular currency
	case gain > 0:
		opt.Payback = price / gain
	}
	return opt
}

// better reports whether a ranks ahead of b: higher efficiency, then lower
// price, then buildings before upgrades, then name
func better(a, b PurchaseOption) bool {
	if a.Efficiency != b.Efficiency {
		return a.Efficiency > b.Efficiency
	}
	if a.Price != b.Price {
		return a.Price < b.Price
	}
	if a.Kind != b.Kind {
		return a.Kind == KindBuilding
	}
	return a.ID < b.ID
}

func sortOptions(opts []PurchaseOption) {
	sort.Slice(opts, func(i, j int) bool {
		return better(opts[i], opts[j])
	})
}

// TimeToAfford returns the seconds of production needed to reach price at
// the given rate, +Inf when it can never be reached
func TimeToAfford(currency, rate, price float64) float64 {
	if currency >= price {
		return 0
	}
	if rate <= 0 {
		return math.Inf(1)
	}
	return (price - currency) / rate
}

// TimeToAfford is the state-bound form of the package function
func (o *Optimizer) TimeToAfford(s *models.GameState, price float64) float64 {
	return TimeToAfford(s.Currency, o.calc.Rate(s), price)
}

// OptimalStrategy greedily buys the best purchase on a copy of the state
// while its payback fits within horizon seconds. Purchases are instant;
// no time passes between them.
func (o *Optimizer) OptimalStrategy(s *models.GameState, horizon float64) []PurchaseOption {
	sim := s.Clone()
	var plan []PurchaseOption
	for i := 0; i < MaxStrategySteps; i++ {
		best, ok := o.BestPurchase(sim, sim.Currency)
		if !ok || best.Payback > horizon {
			break
		}
		if !o.Apply(sim, best) {
			break
		}
		plan = append(plan, best)
		sim.EvaluateUnlocks(o.catalog)
	}
	return plan
}

// BuildingRatio spends budget on buildings only, always picking the most
// efficient, and returns the resulting counts
func (o *Optimizer) BuildingRatio(s *models.GameState, budget float64) map[string]int {
	sim := s.Clone()
	if math.IsInf(budget, 0) || math.IsNaN(budget) {
		return sim.OwnedCounts
	}
	sim.Currency = budget
	for {
		best, ok := bestBuilding(o.Options(sim, sim.Currency))
		if !ok || !o.Apply(sim, best) {
			break
		}
	}
	return sim.OwnedCounts
}

// EfficiencyPoint is one sample of an efficiency curve
type EfficiencyPoint struct {
	Owned      int
	Efficiency float64
}

// EfficiencyCurve samples the efficiency of the next unit of a building for
// the next n counts, holding everything else fixed
func (o *Optimizer) EfficiencyCurve(s *models.GameState, building string, n int) []EfficiencyPoint {
	b, ok := o.catalog.Building(building)
	if !ok || n <= 0 {
		return nil
	}
	start := s.BuildingCount(building)
	curve := make([]EfficiencyPoint, 0, n)
	for i := 0; i < n; i++ {
		before := o.calc.RateWith(s, cps.Delta{Building: building, Count: i})
		after := o.calc.RateWith(s, cps.Delta{Building: building, Count: i + 1})
		curve = append(curve, EfficiencyPoint{
			Owned:      start + i,
			Efficiency: (after - before) / b.Price(start+i),
		})
	}
	return curve
}

func bestBuilding(opts []PurchaseOption) (PurchaseOption, bool) {
	for _, opt := range opts {
		if opt.Kind == KindBuilding {
			return opt, true
		}
	}
	return PurchaseOption{}, false
}
