package simulator

import (
	"github.com/google/uuid"

	"github.com/napolitain/solver-idle/internal/models"
)

// Snapshot encodes the run as nested maps of float64, string, bool and []any
func (sim *Simulator) Snapshot() map[string]any {
	st := sim.stats
	return map[string]any{
		"run_id":     sim.runID.String(),
		"game_state": sim.state.Snapshot(),
		"stats": map[string]any{
			"total_time":       st.TotalTime,
			"steps":            float64(st.Steps),
			"produced":         st.Produced,
			"handmade":         st.Handmade,
			"buildings_bought": float64(st.BuildingsBought),
			"upgrades_bought":  float64(st.UpgradesBought),
			"ascensions":       float64(st.Ascensions),
			"prestige_gained":  st.PrestigeGained,
			"clicks":           float64(st.Clicks),
			"golden_clicks":    float64(st.GoldenClicks),
		},
		"settings": map[string]any{
			"auto_buy":               sim.settings.AutoBuy,
			"max_purchases_per_tick": float64(sim.settings.MaxPurchasesPerTick),
			"policy":                 sim.settings.Policy,
			"auto_click_rate":        sim.settings.AutoClickRate,
			"auto_ascend":            sim.settings.AutoAscend,
			"ascend_min_gain":        sim.settings.AscendMinGain,
		},
	}
}

// Load replaces the run with a snapshot. Missing or malformed fields fall
// back to defaults and derived values are recomputed. Observers are kept.
func (sim *Simulator) Load(m map[string]any) {
	state, _ := m["game_state"].(map[string]any)
	sim.state = models.RestoreGameState(sim.catalog, state)

	if id, err := uuid.Parse(str(m["run_id"])); err == nil {
		sim.runID = id
	} else {
		sim.runID = uuid.New()
	}

	stats, _ := m["stats"].(map[string]any)
	sim.stats = Stats{
		TotalTime:       num(stats, "total_time", 0),
		Steps:           int(num(stats, "steps", 0)),
		Produced:        num(stats, "produced", 0),
		Handmade:        num(stats, "handmade", 0),
		BuildingsBought: int(num(stats, "buildings_bought", 0)),
		UpgradesBought:  int(num(stats, "upgrades_bought", 0)),
		Ascensions:      int(num(stats, "ascensions", 0)),
		PrestigeGained:  num(stats, "prestige_gained", 0),
		Clicks:          int(num(stats, "clicks", 0)),
		GoldenClicks:    int(num(stats, "golden_clicks", 0)),
	}

	def := DefaultSettings()
	settings, _ := m["settings"].(map[string]any)
	sim.settings = Settings{
		AutoBuy:             flag(settings, "auto_buy", def.AutoBuy),
		MaxPurchasesPerTick: int(num(settings, "max_purchases_per_tick", float64(def.MaxPurchasesPerTick))),
		Policy:              str(settings["policy"]),
		AutoClickRate:       num(settings, "auto_click_rate", def.AutoClickRate),
		AutoAscend:          flag(settings, "auto_ascend", def.AutoAscend),
		AscendMinGain:       num(settings, "ascend_min_gain", def.AscendMinGain),
	}
	sim.clickCarry = 0
	sim.applySettings()
}

func num(m map[string]any, key string, fallback float64) float64 {
	if f, ok := models.ReadFloat(m[key]); ok && f >= 0 {
		return f
	}
	return fallback
}

func flag(m map[string]any, key string, fallback bool) bool {
	if b, ok := m[key].(bool); ok {
		return b
	}
	return fallback
}

func str(v any) string {
	s, _ := v.(string)
	return s
}
