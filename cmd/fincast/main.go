package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/fincast/fincast/internal/config"
	"github.com/fincast/fincast/internal/logging"
	"github.com/fincast/fincast/internal/montecarlo"
	"github.com/fincast/fincast/internal/output"
	"github.com/fincast/fincast/internal/simulation"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var log *logrus.Logger

var rootCmd = &cobra.Command{
	Use:   "fincast",
	Short: "Personal finance projection engine",
	Long:  "Projects year-by-year household cashflow, taxes, and net worth, with Monte Carlo analysis of retirement outcomes",
}

var simulateCmd = &cobra.Command{
	Use:   "simulate [plan-file]",
	Short: "Run a deterministic lifetime projection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := config.NewInputParser().LoadFromFile(args[0])
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		formatter, err := output.GetFormatterByName(format)
		if err != nil {
			return err
		}

		log.WithField("plan", plan.Name).Info("running projection")
		start := time.Now()
		engine := newEngine()
		timeline := engine.RunProjection(plan.Incomes, plan.Expenses, plan.Accounts, plan.Assumptions, plan.TaxState)
		log.WithField("years", len(timeline)).WithField("elapsed", time.Since(start)).Info("projection complete")

		rendered, err := formatter.FormatTimeline(timeline)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(rendered)
		return err
	},
}

var montecarloCmd = &cobra.Command{
	Use:   "montecarlo [plan-file]",
	Short: "Run randomized scenarios and report success statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := config.NewInputParser().LoadFromFile(args[0])
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		formatter, err := output.GetFormatterByName(format)
		if err != nil {
			return err
		}
		numScenarios, _ := cmd.Flags().GetInt("scenarios")
		seed, _ := cmd.Flags().GetInt64("seed")
		if seed == 0 {
			seed = time.Now().UnixNano()
		}

		log.WithFields(logrus.Fields{"plan": plan.Name, "scenarios": numScenarios, "seed": seed}).Info("running monte carlo")
		start := time.Now()
		summary, _, err := montecarlo.RunMonteCarlo(context.Background(), newEngine(),
			plan.Incomes, plan.Expenses, plan.Accounts, plan.Assumptions, plan.TaxState, numScenarios, seed)
		if err != nil {
			return err
		}
		log.WithField("elapsed", time.Since(start)).Info("monte carlo complete")

		rendered, err := formatter.FormatSummary(summary)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(rendered)
		return err
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "fincast %s (commit %s, built %s)\n", version, commit, date)
		if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
			fmt.Fprintln(os.Stdout, bi.Main.Version)
		}
	},
}

// newEngine builds an engine over the built-in parameter tables, wired to
// the process logger.
func newEngine() *simulation.Engine {
	engine := simulation.NewDefaultEngine()
	engine.Log = log
	return engine
}

func main() {
	// A local .env can supply LOG_LEVEL and friends; absence is fine.
	_ = godotenv.Load()
	log = logging.New()

	simulateCmd.Flags().String("format", "console", "Output format: console, json, or csv")
	montecarloCmd.Flags().String("format", "console", "Output format: console, json, or csv")
	montecarloCmd.Flags().Int("scenarios", 1000, "Number of scenarios to run")
	montecarloCmd.Flags().Int64("seed", 0, "Random seed (0 picks one from the clock)")

	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(montecarloCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
