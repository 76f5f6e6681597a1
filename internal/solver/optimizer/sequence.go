package optimizer

import (
	"math"

	"github.com/napolitain/solver-idle/internal/models"
)

// SequenceStep records one purchase made by SimulateSequence
type SequenceStep struct {
	ID        string
	Kind      Kind
	Price     float64
	At        float64 // seconds since the start of the sequence
	RateAfter float64
}

// SequenceResult summarizes a simulated purchase sequence
type SequenceResult struct {
	InitialRate float64
	FinalRate   float64
	TotalCost   float64
	Elapsed     float64
	Steps       []SequenceStep
	Skipped     []string // unknown or unpurchasable ids
	Final       *models.GameState
}

// RateGain is the rate added by the sequence
func (r SequenceResult) RateGain() float64 {
	return r.FinalRate - r.InitialRate
}

// Efficiency is the rate added per unit of currency spent
func (r SequenceResult) Efficiency() float64 {
	if r.TotalCost <= 0 {
		return 0
	}
	return r.RateGain() / r.TotalCost
}

// SimulateSequence buys ids in order on a copy of the state, waiting at the
// current rate until each one is affordable. It stops at the first item that
// cannot be afforded within timeLimit seconds. Ids naming both a building and
// an upgrade resolve to the building.
func (o *Optimizer) SimulateSequence(s *models.GameState, ids []string, timeLimit float64) SequenceResult {
	sim := s.Clone()
	res := SequenceResult{InitialRate: o.calc.Rate(sim)}

	for _, id := range ids {
		var (
			price float64
			kind  Kind
		)
		if b, ok := o.catalog.Building(id); ok {
			price, kind = b.Price(sim.BuildingCount(id)), KindBuilding
		} else if u, ok := o.catalog.Upgrade(id); ok && !u.Premium && sim.IsUnlocked(id) && !sim.HasUpgrade(id) {
			price, kind = u.Price, KindUpgrade
		} else {
			res.Skipped = append(res.Skipped, id)
			continue
		}

		rate := o.calc.Rate(sim)
		wait := TimeToAfford(sim.Currency, rate, price)
		if math.IsInf(wait, 1) || res.Elapsed+wait > timeLimit {
			break
		}
		if wait > 0 {
			sim.Earn(rate * wait)
			sim.Elapsed += wait
			res.Elapsed += wait
			sim.EvaluateUnlocks(o.catalog)
			// Float rounding can leave the balance a hair short
			if sim.Currency < price {
				sim.Currency = price
			}
		}

		opt := PurchaseOption{Kind: kind, ID: id}
		if !o.Apply(sim, opt) {
			res.Skipped = append(res.Skipped, id)
			continue
		}
		sim.EvaluateUnlocks(o.catalog)
		res.TotalCost += price
		res.Steps = append(res.Steps, SequenceStep{
			ID:        id,
			Kind:      kind,
			Price:     price,
			At:        res.Elapsed,
			RateAfter: o.calc.Rate(sim),
		})
	}

	res.FinalRate = o.calc.Rate(sim)
	res.Final = sim
	return res
}
