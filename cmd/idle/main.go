package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/napolitain/solver-idle/internal/loader"
	"github.com/napolitain/solver-idle/internal/models"
	"github.com/napolitain/solver-idle/internal/solver/simulator"
)

var (
	catalogFile string
	quiet       bool
	verbose     bool

	// shared by the commands that start from a state
	loadFile string
	currency float64
	owned    map[string]int
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "idle",
		Short: "Idle game simulator and purchase optimizer",
		Long: `Simulates an incremental bakery game offline: production, purchases,
golden cookie buffs and prestige ascensions. Compares automated
strategies and recommends the most efficient next purchases.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&catalogFile, "catalog", "c", "", "Path to a YAML catalog (default: built-in)")
	pf.BoolVarP(&quiet, "quiet", "q", false, "Minimal output")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(
		newSimulateCmd(),
		newCompareCmd(),
		newRecommendCmd(),
		newPrestigeCmd(),
		newCatalogCmd(),
	)
	return rootCmd
}

// addStateFlags registers the flags that describe a starting state
func addStateFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&loadFile, "load", "l", "", "Start from a saved snapshot")
	cmd.Flags().Float64Var(&currency, "currency", 0, "Starting currency (fresh state only)")
	cmd.Flags().StringToIntVar(&owned, "owned", nil, "Starting buildings, e.g. Cursor=10,Grandma=5 (fresh state only)")
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case verbose:
		level = slog.LevelDebug
	case !quiet:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func loadCatalog() (*models.Catalog, error) {
	if catalogFile == "" {
		return models.DefaultCatalog(), nil
	}
	return loader.LoadCatalog(catalogFile)
}

// startState builds the initial state from --load, or from --currency and
// --owned
func startState(cat *models.Catalog, log *slog.Logger) (*models.GameState, map[string]any, error) {
	if loadFile != "" {
		snap, err := loader.LoadSnapshot(loadFile)
		if err != nil {
			return nil, nil, err
		}
		sim := simulator.New(cat, simulator.WithLogger(log))
		sim.Load(snap)
		return sim.State(), snap, nil
	}

	s := models.NewGameState(cat)
	s.Currency = currency
	for name, n := range owned {
		if !cat.HasBuilding(name) {
			return nil, nil, fmt.Errorf("unknown building %q", name)
		}
		if n < 0 {
			return nil, nil, fmt.Errorf("negative count for %s", name)
		}
		s.OwnedCounts[name] = n
	}
	s.EvaluateUnlocks(cat)
	s.EvaluateAchievements(cat)
	return s, nil, nil
}
