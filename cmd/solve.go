package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/evplan/config"
	"github.com/kilianp07/evplan/core/plan"
	"github.com/kilianp07/evplan/infra/dataset"
	"github.com/kilianp07/evplan/infra/logger"
	infrasolver "github.com/kilianp07/evplan/infra/solver"
	"github.com/kilianp07/evplan/pkg/export"
)

var solveBudget float64

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve the placement problem for a single budget",
	RunE:  runSolve,
}

func init() {
	solveCmd.Flags().Float64Var(&solveBudget, "budget", 0, "budget for this solve")
	_ = solveCmd.MarkFlagRequired("budget")
	rootCmd.AddCommand(solveCmd)
}

func runSolve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Dataset.Validate(); err != nil {
		return err
	}
	ds, err := dataset.Load(cfg.Dataset.Dir)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	logg := logger.New("solve")
	engine := infrasolver.NewBranchBound(cfg.Solver, logger.New("solver"))
	planner := plan.NewPlanner(engine, cfg.Planner, logg)

	out, err := planner.Plan(ctx, ds, solveBudget)
	if err != nil {
		return err
	}
	logg.Infof("budget %.2f: status %s, coverage %.2f, cost %.2f", solveBudget, out.Status, out.Solution.Coverage, out.Solution.Cost)

	summary := plan.Summarize(ds, out.Solution)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return err
	}
	return export.WritePlanCSV(os.Stdout, out.Solution)
}
