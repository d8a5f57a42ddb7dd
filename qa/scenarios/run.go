package scenarios

import (
	"context"

	"github.com/kilianp07/evplan/core/plan"
	"github.com/kilianp07/evplan/core/sweep"
	infrasolver "github.com/kilianp07/evplan/infra/solver"
)

// Run executes the scenario's sweep with the default branch-and-bound
// engine.
func Run(ctx context.Context, s *Scenario) (*sweep.Result, error) {
	planner := plan.NewPlanner(
		infrasolver.NewBranchBound(infrasolver.Config{}, nil),
		plan.Config{CapSpot: s.CapSpot},
		nil,
	)
	controller := sweep.NewController(planner, sweep.Config{
		Budgets:          s.Budgets,
		ValuePerCoverage: s.ValuePerCoverage,
	}, nil, nil)
	return controller.Run(ctx, s.Dataset())
}
