package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/napolitain/solver-idle/internal/loader"
	"github.com/napolitain/solver-idle/internal/models"
	"github.com/napolitain/solver-idle/internal/solver/cps"
	"github.com/napolitain/solver-idle/internal/solver/optimizer"
	"github.com/napolitain/solver-idle/internal/solver/simulator"
)

func newSimulateCmd() *cobra.Command {
	var (
		hours       float64
		step        float64
		policy      string
		autoClick   float64
		ascendAt    float64
		noBuy       bool
		golden      string
		goldenEvery float64
		saveFile    string
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the automated player for a while",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			log := newLogger(cmd.ErrOrStderr())
			cat, err := loadCatalog()
			if err != nil {
				return err
			}
			initial, snap, err := startState(cat, log)
			if err != nil {
				return err
			}

			opts := []simulator.Option{
				simulator.WithLogger(log),
				simulator.WithState(initial),
				simulator.WithPolicy(policy),
				simulator.WithAutoBuy(!noBuy),
				simulator.WithAutoClick(autoClick),
			}
			if ascendAt > 0 {
				opts = append(opts, simulator.WithAutoAscend(ascendAt))
			}
			sim := simulator.New(cat, opts...)
			if snap != nil {
				// resume with the saved run id, stats and settings, then let
				// explicit flags win over the saved settings
				sim.Load(snap)
				sim.Configure(simulator.WithSettings(resumeSettings(cmd, sim.Settings(), policy, autoClick, ascendAt, noBuy)))
			}
			if golden != "" {
				if _, ok := cat.Buff(golden); !ok {
					return fmt.Errorf("unknown buff preset %q", golden)
				}
			}

			progress := rate.Sometimes{Interval: time.Second}
			sim.On(simulator.EventTick, func(s *models.GameState, e simulator.Event) error {
				progress.Do(func() {
					tick := e.Payload.(simulator.TickPayload)
					log.Info("progress", "run", sim.RunID(), "time", formatDuration(e.Time),
						"rate", formatAmount(tick.Rate), "currency", formatAmount(s.Currency))
				})
				return nil
			})

			if !quiet {
				printBanner(out, "Idle Simulator")
				fmt.Fprintf(out, "📦 %d buildings, %d upgrades | policy %s | %s simulated\n\n",
					len(cat.Buildings()), len(cat.Upgrades()), sim.Settings().Policy, formatDuration(hours*3600))
			}

			start := time.Now()
			runFor(sim, hours*3600, step, golden, goldenEvery)
			log.Debug("simulation finished", "run", sim.RunID(), "wall", time.Since(start))

			sum := sim.Summary()
			printSummary(out, sum)
			if !quiet {
				printBreakdown(out, sim)
			}
			if saveFile != "" {
				if err := loader.SaveSnapshot(saveFile, sim.Snapshot()); err != nil {
					return err
				}
				color.New(color.FgGreen).Fprintf(out, "\n💾 Saved snapshot to %s\n", saveFile)
			}
			return nil
		},
	}
	addStateFlags(cmd)
	f := cmd.Flags()
	f.Float64Var(&hours, "hours", 1, "Simulated hours")
	f.Float64Var(&step, "step", 1, "Tick length in seconds")
	f.StringVarP(&policy, "policy", "p", "greedy", "Purchase policy: "+strings.Join(optimizer.PolicyNames(), ", "))
	f.Float64Var(&autoClick, "auto-click", 0, "Manual clicks per second")
	f.Float64Var(&ascendAt, "ascend", 0, "Ascend when it gains at least this many prestige levels (0 never)")
	f.BoolVar(&noBuy, "no-buy", false, "Disable automatic purchases")
	f.StringVar(&golden, "golden", "", "Buff preset granted by periodic golden cookies")
	f.Float64Var(&goldenEvery, "golden-every", 300, "Seconds between golden cookies")
	f.StringVarP(&saveFile, "save", "o", "", "Write a snapshot when done")
	return cmd
}

// resumeSettings overrides saved settings with the flags given on the
// command line
func resumeSettings(cmd *cobra.Command, st simulator.Settings, policy string, autoClick, ascendAt float64, noBuy bool) simulator.Settings {
	f := cmd.Flags()
	if f.Changed("policy") {
		st.Policy = policy
	}
	if f.Changed("no-buy") {
		st.AutoBuy = !noBuy
	}
	if f.Changed("auto-click") {
		st.AutoClickRate = math.Max(0, autoClick)
	}
	if f.Changed("ascend") {
		st.AutoAscend = ascendAt > 0
		if ascendAt > 0 {
			st.AscendMinGain = ascendAt
		}
	}
	return st
}

// runFor advances the simulation, clicking a golden cookie every interval
// when a preset is given
func runFor(sim *simulator.Simulator, duration, step float64, golden string, every float64) {
	if golden == "" || every <= 0 {
		sim.AdvanceFor(duration, step)
		return
	}
	for left := duration; left > 1e-9; left -= every {
		sim.AdvanceFor(math.Min(every, left), step)
		if left > every {
			sim.ClickGoldenCookie(golden)
		}
	}
}

func newCompareCmd() *cobra.Command {
	var (
		hours float64
		step  float64
	)
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run every built-in strategy from the same state and rank them",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			log := newLogger(cmd.ErrOrStderr())
			cat, err := loadCatalog()
			if err != nil {
				return err
			}
			initial, _, err := startState(cat, log)
			if err != nil {
				return err
			}

			if !quiet {
				printBanner(out, "Strategy Comparison")
				fmt.Fprintf(out, "🔄 Running %d strategies for %s each...\n\n",
					len(simulator.DefaultStrategies()), formatDuration(hours*3600))
			}
			best, results := simulator.CompareStrategies(cat, initial, hours*3600, step,
				simulator.DefaultStrategies(), simulator.WithLogger(log))
			printStrategies(out, results)
			color.New(color.FgGreen, color.Bold).Fprintf(out, "\n✓ Best strategy: %s (%s produced)\n",
				best.Strategy, formatAmount(best.Score()))
			return nil
		},
	}
	addStateFlags(cmd)
	cmd.Flags().Float64Var(&hours, "hours", 1, "Simulated hours per strategy")
	cmd.Flags().Float64Var(&step, "step", 1, "Tick length in seconds")
	return cmd
}

func newRecommendCmd() *cobra.Command {
	var (
		top     int
		horizon float64
		curve   string
	)
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank the most efficient next purchases",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			log := newLogger(cmd.ErrOrStderr())
			cat, err := loadCatalog()
			if err != nil {
				return err
			}
			s, _, err := startState(cat, log)
			if err != nil {
				return err
			}
			sim := simulator.New(cat, simulator.WithLogger(log), simulator.WithState(s))
			opt := sim.Optimizer()

			if !quiet {
				printBanner(out, "Purchase Advisor")
				fmt.Fprintf(out, "💰 %s in hand, %s/s\n\n", formatAmount(s.Currency), formatAmount(sim.Rate()))
			}
			printOptions(out, sim.Recommendations(top), s, opt)

			if best, ok := opt.BestPurchase(s, s.Currency); ok {
				color.New(color.FgGreen, color.Bold).Fprintf(out, "\n👉 Buy now: %s\n", best)
			} else {
				color.New(color.FgYellow).Fprintln(out, "\n⏳ Nothing affordable yet")
			}

			if horizon > 0 {
				plan := opt.OptimalStrategy(s, horizon)
				fmt.Fprintf(out, "\n📋 Plan (%d purchases with payback under %s):\n", len(plan), formatDuration(horizon))
				for i, p := range plan {
					fmt.Fprintf(out, "   %2d. %s\n", i+1, p)
				}
			}
			if curve != "" {
				if !cat.HasBuilding(curve) {
					return fmt.Errorf("unknown building %q", curve)
				}
				fmt.Fprintf(out, "\n📉 %s efficiency over the next 10 units:\n", curve)
				for _, p := range opt.EfficiencyCurve(s, curve, 10) {
					fmt.Fprintf(out, "   %4d owned: %.3g /s per currency\n", p.Owned, p.Efficiency)
				}
			}
			return nil
		},
	}
	addStateFlags(cmd)
	cmd.Flags().IntVarP(&top, "top", "n", 10, "Number of options to list")
	cmd.Flags().Float64Var(&horizon, "plan", 0, "Also plan purchases whose payback fits this many seconds")
	cmd.Flags().StringVar(&curve, "curve", "", "Show the efficiency curve of a building")
	return cmd
}

func newPrestigeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prestige",
		Short: "Show prestige progress and time to the next levels",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			log := newLogger(cmd.ErrOrStderr())
			cat, err := loadCatalog()
			if err != nil {
				return err
			}
			s, _, err := startState(cat, log)
			if err != nil {
				return err
			}
			opt := optimizer.New(cps.New(cat))

			if !quiet {
				printBanner(out, "Prestige Outlook")
			}
			fmt.Fprintf(out, "👑 Prestige %g, an ascension now reaches %g\n", s.Prestige, s.PotentialPrestige())
			fmt.Fprintf(out, "   Premium currency: %g available of %g\n\n", s.AvailablePremium(), s.PremiumCurrency)
			printOutlook(out, opt.AscensionOutlook(s))
			return nil
		},
	}
	addStateFlags(cmd)
	return cmd
}

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect or export the catalog",
	}

	var outFile string
	export := &cobra.Command{
		Use:   "export",
		Short: "Write the catalog as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			spec := models.DefaultCatalogSpec()
			if catalogFile != "" {
				data, err := os.ReadFile(catalogFile)
				if err != nil {
					return fmt.Errorf("failed to read catalog: %w", err)
				}
				if spec, err = loader.DecodeCatalogSpec(data); err != nil {
					return err
				}
			}
			data, err := loader.MarshalCatalog(spec)
			if err != nil {
				return err
			}
			if outFile == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return os.WriteFile(outFile, data, 0o644)
		},
	}
	export.Flags().StringVarP(&outFile, "output", "o", "", "Output file (default stdout)")

	show := &cobra.Command{
		Use:   "show",
		Short: "List buildings and upgrades",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog()
			if err != nil {
				return err
			}
			printCatalog(cmd.OutOrStdout(), cat)
			return nil
		},
	}

	cmd.AddCommand(export, show)
	return cmd
}

func printBanner(w io.Writer, title string) {
	titleColor := color.New(color.FgCyan, color.Bold)
	line := strings.Repeat("─", 27)
	titleColor.Fprintf(w, "\n╭%s╮\n", line)
	titleColor.Fprintf(w, "│  %-25s│\n", title)
	titleColor.Fprintf(w, "╰%s╯\n\n", line)
}
