package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/evplan/config"
	"github.com/kilianp07/evplan/core/metrics"
	"github.com/kilianp07/evplan/core/model"
	"github.com/kilianp07/evplan/core/plan"
	"github.com/kilianp07/evplan/core/sweep"
	"github.com/kilianp07/evplan/infra/dataset"
	"github.com/kilianp07/evplan/infra/logger"
	_ "github.com/kilianp07/evplan/infra/metrics"
	infrasolver "github.com/kilianp07/evplan/infra/solver"
	"github.com/kilianp07/evplan/internal/eventbus"
	"github.com/kilianp07/evplan/pkg/export"
)

var (
	sweepOut       string
	sweepSynthetic bool
	sweepSeed      int64
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Sweep budgets and select the most profitable one",
	RunE:  runSweep,
}

func init() {
	sweepCmd.Flags().StringVar(&sweepOut, "out", "", "write the sweep result to this file (.json or .csv); stdout when empty")
	sweepCmd.Flags().BoolVar(&sweepSynthetic, "synthetic", false, "use a generated dataset instead of CSV input")
	sweepCmd.Flags().Int64Var(&sweepSeed, "seed", 42, "seed for the synthetic dataset")
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	ds, err := sweepDataset(cfg)
	if err != nil {
		return err
	}

	logg := logger.New("sweep")
	engine := infrasolver.NewBranchBound(cfg.Solver, logger.New("solver"))
	planner := plan.NewPlanner(engine, cfg.Planner, logg)
	controller := sweep.NewController(planner, cfg.Sweep, nil, logg)

	sink, err := metrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return fmt.Errorf("metrics sink: %w", err)
	}
	controller.SetMetricsSink(sink)

	bus := eventbus.New[sweep.Event](64)
	defer bus.Close()
	controller.SetEventBus(bus)
	progress := bus.Subscribe()
	go func() {
		for ev := range progress {
			if se, ok := ev.(sweep.SolveEvent); ok {
				logg.Infof("budget %.2f done: coverage %.2f, status %s", se.Point.Budget, se.Point.Coverage, se.Point.Status)
			}
		}
	}()

	res, err := controller.Run(ctx, ds)
	if err != nil {
		return err
	}
	logg.Infof("best budget %.2f (profit %.2f) out of %d candidates", res.Best.Budget, res.Best.Profit, len(res.Points))
	return writeSweep(res)
}

func sweepDataset(cfg *config.Config) (*model.Dataset, error) {
	if sweepSynthetic {
		return model.GenerateDataset(model.SyntheticSpec{
			Areas:       10,
			Sites:       5,
			StationCost: 1000,
			ChargerCost: 500,
			MaxChargers: 5,
		}, sweepSeed)
	}
	if err := cfg.Dataset.Validate(); err != nil {
		return nil, err
	}
	ds, err := dataset.Load(cfg.Dataset.Dir)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	return ds, nil
}

func writeSweep(res *sweep.Result) error {
	if sweepOut == "" {
		return export.WriteSweepJSON(os.Stdout, res)
	}
	f, err := os.Create(sweepOut)
	if err != nil {
		return err
	}
	defer f.Close()
	if strings.ToLower(filepath.Ext(sweepOut)) == ".csv" {
		return export.WriteSweepCSV(f, res)
	}
	return export.WriteSweepJSON(f, res)
}
