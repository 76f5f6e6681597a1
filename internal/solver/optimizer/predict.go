package optimizer

import (
	"math"

	"github.com/napolitain/solver-idle/internal/models"
)

// AscensionGains are the prestige increments reported by AscensionOutlook
var AscensionGains = []int{1, 5, 10, 25, 50}

// TimeToCurrency returns the seconds until the balance reaches target at the
// current rate
func (o *Optimizer) TimeToCurrency(s *models.GameState, target float64) float64 {
	return TimeToAfford(s.Currency, o.calc.Rate(s), target)
}

// TimeToPrestige returns the seconds until lifetime production reaches the
// total needed for level, at the current rate
func (o *Optimizer) TimeToPrestige(s *models.GameState, level float64) float64 {
	need := models.CurrencyForPrestige(level) - s.Lifetime()
	if need <= 0 {
		return 0
	}
	rate := o.calc.Rate(s)
	if rate <= 0 {
		return math.Inf(1)
	}
	return need / rate
}

// AscensionTarget is one row of an ascension outlook
type AscensionTarget struct {
	Gain     int
	Level    float64
	Required float64 // lifetime currency needed
	Seconds  float64
}

// AscensionOutlook estimates how long each prestige increment takes from the
// level an ascension would reach now
func (o *Optimizer) AscensionOutlook(s *models.GameState) []AscensionTarget {
	current := s.PotentialPrestige()
	out := make([]AscensionTarget, 0, len(AscensionGains))
	for _, gain := range AscensionGains {
		level := current + float64(gain)
		out = append(out, AscensionTarget{
			Gain:     gain,
			Level:    level,
			Required: models.CurrencyForPrestige(level),
			Seconds:  o.TimeToPrestige(s, level),
		})
	}
	return out
}
