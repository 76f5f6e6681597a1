package simulator

import (
	"fmt"
	"sort"

	"github.com/napolitain/solver-idle/internal/models"
)

// Strategy is a named automated-player configuration
type Strategy struct {
	Name      string
	Policy    string
	AscendAt  float64 // minimum prestige gain to ascend; 0 never ascends
	AutoClick float64 // clicks per second
}

// String returns the strategy name
func (s Strategy) String() string {
	if s.Name != "" {
		return s.Name
	}
	if s.AscendAt > 0 {
		return fmt.Sprintf("%s/ascend+%g", s.Policy, s.AscendAt)
	}
	return s.Policy
}

// StrategyResult is the outcome of one strategy run
type StrategyResult struct {
	Strategy Strategy
	Summary  Summary
	Final    *models.GameState
}

// Score ranks results: total production across runs, clicks included
func (r StrategyResult) Score() float64 {
	return r.Summary.Lifetime
}

// DefaultStrategies covers every policy plus ascension thresholds for greedy
func DefaultStrategies() []Strategy {
	return []Strategy{
		{Name: "greedy", Policy: "greedy"},
		{Name: "cheapest", Policy: "cheapest"},
		{Name: "buildings-only", Policy: "buildings-only"},
		{Name: "greedy/ascend+1", Policy: "greedy", AscendAt: 1},
		{Name: "greedy/ascend+10", Policy: "greedy", AscendAt: 10},
	}
}

// RunStrategy simulates one strategy from a copy of initial. Caller options
// apply last and may override the strategy's own.
func RunStrategy(cat *models.Catalog, initial *models.GameState, duration, step float64, strat Strategy, opts ...Option) StrategyResult {
	all := []Option{
		WithState(initial),
		WithAutoBuy(true),
		WithPolicy(strat.Policy),
		WithAutoClick(strat.AutoClick),
	}
	if strat.AscendAt > 0 {
		all = append(all, WithAutoAscend(strat.AscendAt))
	}
	all = append(all, opts...)
	sim := New(cat, all...)
	sim.AdvanceFor(duration, step)
	return StrategyResult{Strategy: strat, Summary: sim.Summary(), Final: sim.State()}
}

// CompareStrategies runs every strategy from the same starting state and
// returns the best one along with all results, best first. Ties keep the
// input order.
func CompareStrategies(cat *models.Catalog, initial *models.GameState, duration, step float64, strategies []Strategy, opts ...Option) (StrategyResult, []StrategyResult) {
	if initial == nil {
		initial = models.NewGameState(cat)
	}
	results := make([]StrategyResult, 0, len(strategies))
	for _, strat := range strategies {
		results = append(results, RunStrategy(cat, initial, duration, step, strat, opts...))
	}
	if len(results) == 0 {
		return StrategyResult{}, nil
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score() > results[j].Score()
	})
	return results[0], results
}
