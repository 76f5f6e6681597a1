package optimizer

import "github.com/napolitain/solver-idle/internal/models"

// Policy picks the next purchase for an automated player
type Policy interface {
	Name() string
	Next(s *models.GameState) (PurchaseOption, bool)
}

// Greedy buys the most efficient affordable option
type Greedy struct {
	Optimizer *Optimizer
}

func (Greedy) Name() string { return "greedy" }

func (p Greedy) Next(s *models.GameState) (PurchaseOption, bool) {
	return p.Optimizer.BestPurchase(s, s.Currency)
}

// CheapestFirst buys the cheapest affordable option, ignoring premium upgrades
type CheapestFirst struct {
	Optimizer *Optimizer
}

func (CheapestFirst) Name() string { return "cheapest" }

func (p CheapestFirst) Next(s *models.GameState) (PurchaseOption, bool) {
	var (
		best  PurchaseOption
		found bool
	)
	for _, opt := range p.Optimizer.Options(s, s.Currency) {
		if opt.Premium {
			continue
		}
		if !found || opt.Price < best.Price || (opt.Price == best.Price && better(opt, best)) {
			best, found = opt, true
		}
	}
	return best, found
}

// BuildingsOnly buys the most efficient affordable building and never upgrades
type BuildingsOnly struct {
	Optimizer *Optimizer
}

func (BuildingsOnly) Name() string { return "buildings-only" }

func (p BuildingsOnly) Next(s *models.GameState) (PurchaseOption, bool) {
	return bestBuilding(p.Optimizer.Options(s, s.Currency))
}

// PolicyByName returns one of the built-in policies
func PolicyByName(o *Optimizer, name string) (Policy, bool) {
	switch name {
	case "greedy", "":
		return Greedy{Optimizer: o}, true
	case "cheapest":
		return CheapestFirst{Optimizer: o}, true
	case "buildings-only":
		return BuildingsOnly{Optimizer: o}, true
	}
	return nil, false
}

// PolicyNames lists the names accepted by PolicyByName
func PolicyNames() []string {
	return []string{"greedy", "cheapest", "buildings-only"}
}
