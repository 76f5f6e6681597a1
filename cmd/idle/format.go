package main

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/napolitain/solver-idle/internal/models"
	"github.com/napolitain/solver-idle/internal/solver/optimizer"
	"github.com/napolitain/solver-idle/internal/solver/simulator"
)

var amountScales = []struct {
	value float64
	name  string
}{
	{1e30, "nonillion"},
	{1e27, "octillion"},
	{1e24, "septillion"},
	{1e21, "sextillion"},
	{1e18, "quintillion"},
	{1e15, "quadrillion"},
	{1e12, "trillion"},
	{1e9, "billion"},
	{1e6, "million"},
}

// formatAmount renders currency the way the game does: digits below a
// million, named scales above
func formatAmount(x float64) string {
	switch {
	case math.IsNaN(x):
		return "-"
	case math.IsInf(x, 0):
		return "∞"
	case math.Abs(x) >= 1e33:
		return fmt.Sprintf("%.3e", x)
	}
	for _, s := range amountScales {
		if math.Abs(x) >= s.value {
			return humanize.FtoaWithDigits(x/s.value, 3) + " " + s.name
		}
	}
	return humanize.CommafWithDigits(x, 1)
}

func formatDuration(seconds float64) string {
	if math.IsInf(seconds, 1) || math.IsNaN(seconds) {
		return "never"
	}
	total := int64(math.Round(seconds))
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	if days > 0 {
		return fmt.Sprintf("%dd %02d:%02d:%02d", days, hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}

func printSummary(w io.Writer, sum simulator.Summary) {
	successColor := color.New(color.FgGreen, color.Bold)
	successColor.Fprintln(w, "✓ Simulation complete")
	fmt.Fprintln(w)

	table := tablewriter.NewTable(w, tablewriter.WithHeader([]string{"Metric", "Value"}))
	rows := [][]string{
		{"Run", sum.RunID},
		{"Policy", sum.Policy},
		{"Simulated", formatDuration(sum.TotalTime)},
		{"Production", formatAmount(sum.Rate) + "/s"},
		{"Currency", formatAmount(sum.Currency)},
		{"Produced (all runs)", formatAmount(sum.Lifetime)},
		{"Buildings", humanize.Comma(int64(sum.Buildings))},
		{"Upgrades", humanize.Comma(int64(sum.Upgrades))},
		{"Achievements", humanize.Comma(int64(sum.Achievements))},
		{"Clicks", humanize.Comma(int64(sum.Stats.Clicks))},
		{"Golden cookies", humanize.Comma(int64(sum.Stats.GoldenClicks))},
		{"Prestige", fmt.Sprintf("%g (ascend now: %g)", sum.Prestige, sum.PotentialPrestige)},
		{"Ascensions", humanize.Comma(int64(sum.Stats.Ascensions))},
		{"Produced per hour", formatAmount(sum.ProducedPerHour)},
		{"Purchases per hour", humanize.CommafWithDigits(sum.PurchasesPerHour, 1)},
	}
	for _, row := range rows {
		_ = table.Append(row)
	}
	_ = table.Render()
}

func printBreakdown(w io.Writer, sim *simulator.Simulator) {
	b := sim.Breakdown()
	counts := sim.OwnedCounts()
	base := b.Base()

	names := make([]string, 0, len(b.Buildings))
	for name, v := range b.Buildings {
		if v > 0 {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		if b.Buildings[names[i]] != b.Buildings[names[j]] {
			return b.Buildings[names[i]] > b.Buildings[names[j]]
		}
		return names[i] < names[j]
	})

	fmt.Fprintln(w, "\n🏭 Production breakdown:")
	table := tablewriter.NewTable(w, tablewriter.WithHeader([]string{"Building", "Owned", "Base /s", "Share"}))
	for _, name := range names {
		share := 0.0
		if base > 0 {
			share = b.Buildings[name] / base * 100
		}
		_ = table.Append([]string{
			name,
			humanize.Comma(int64(counts[name])),
			formatAmount(b.Buildings[name]),
			fmt.Sprintf("%.1f%%", share),
		})
	}
	_ = table.Render()

	fmt.Fprintf(w, "   Flat %s | milk x%.3f | prestige x%.3f | upgrades x%.3f | buffs x%g\n",
		formatAmount(b.Flat), b.Milk, b.Prestige, b.Upgrades, b.Buff)
}

func printStrategies(w io.Writer, results []simulator.StrategyResult) {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"#", "Strategy", "Produced", "Final /s", "Prestige", "Purchases", "Ascensions"}),
	)
	for i, r := range results {
		_ = table.Append([]string{
			fmt.Sprintf("%d", i+1),
			r.Strategy.String(),
			formatAmount(r.Score()),
			formatAmount(r.Summary.Rate),
			fmt.Sprintf("%g", r.Summary.Prestige),
			humanize.Comma(int64(r.Summary.Stats.Purchases())),
			humanize.Comma(int64(r.Summary.Stats.Ascensions)),
		})
	}
	_ = table.Render()
}

func printOptions(w io.Writer, opts []optimizer.PurchaseOption, s *models.GameState, opt *optimizer.Optimizer) {
	if len(opts) == 0 {
		fmt.Fprintln(w, "No purchases available")
		return
	}
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"#", "Kind", "Item", "Price", "Gain /s", "Payback", "Affordable in"}),
	)
	for i, o := range opts {
		price := formatAmount(o.Price)
		wait := formatDuration(opt.TimeToAfford(s, o.Price))
		payback := formatDuration(o.Payback)
		if o.Premium {
			price = fmt.Sprintf("%g premium", o.Price)
			payback = "-"
			if o.Price <= s.AvailablePremium() {
				wait = "now"
			} else {
				wait = "after ascending"
			}
		}
		_ = table.Append([]string{
			fmt.Sprintf("%d", i+1),
			o.Kind.String(),
			o.ID,
			price,
			formatAmount(o.RateGain),
			payback,
			wait,
		})
	}
	_ = table.Render()
}

func printOutlook(w io.Writer, targets []optimizer.AscensionTarget) {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Gain", "Level", "Produced needed", "Time at current rate"}),
	)
	for _, t := range targets {
		_ = table.Append([]string{
			fmt.Sprintf("+%d", t.Gain),
			fmt.Sprintf("%g", t.Level),
			formatAmount(t.Required),
			formatDuration(t.Seconds),
		})
	}
	_ = table.Render()
}

func printCatalog(w io.Writer, cat *models.Catalog) {
	fmt.Fprintln(w, "📋 Buildings:")
	table := tablewriter.NewTable(w, tablewriter.WithHeader([]string{"Building", "Base price", "Base /s", "Synergy"}))
	cat.EachBuilding(func(b models.BuildingDef) {
		synergy := ""
		if b.Synergy {
			synergy = "yes"
		}
		_ = table.Append([]string{b.Name, formatAmount(b.BasePrice), formatAmount(b.BaseRate), synergy})
	})
	_ = table.Render()

	fmt.Fprintln(w, "\n📋 Upgrades:")
	table = tablewriter.NewTable(w, tablewriter.WithHeader([]string{"Upgrade", "Price", "Effect", "Unlock"}))
	cat.EachUpgrade(func(u models.UpgradeDef) {
		price := formatAmount(u.Price)
		if u.Premium {
			price = fmt.Sprintf("%g premium", u.Price)
		}
		_ = table.Append([]string{u.Name, price, u.Describe(), u.Unlock.String()})
	})
	_ = table.Render()
}
