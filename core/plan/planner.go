package plan

import (
	"context"
	"errors"

	"github.com/kilianp07/evplan/core/logger"
	"github.com/kilianp07/evplan/core/model"
	"github.com/kilianp07/evplan/core/solver"
)

// Outcome couples a Solution with the solver status it was obtained
// under, so downstream consumers can tell optimal from approximate
// results.
type Outcome struct {
	Solution model.Solution
	Status   solver.Status
}

// Planner runs one complete solve: build the MIP, hand it to the
// engine, extract and check the assignment.
type Planner struct {
	engine solver.Solver
	cfg    Config
	log    logger.Logger
}

// NewPlanner returns a Planner using the given engine. A nil log
// disables logging.
func NewPlanner(engine solver.Solver, cfg Config, log logger.Logger) *Planner {
	cfg.SetDefaults()
	if log == nil {
		log = logger.Nop{}
	}
	return &Planner{engine: engine, cfg: cfg, log: log}
}

// Config returns the planner configuration in effect.
func (p *Planner) Config() Config { return p.cfg }

// Plan solves the placement problem for a single budget.
//
// Validation failures and contract violations are returned as errors
// and abort the caller. Infeasibility, timeouts and engine errors are
// legitimate per-budget outcomes: they yield a zero-coverage or
// best-found Outcome with the corresponding status and a nil error.
func (p *Planner) Plan(ctx context.Context, ds *model.Dataset, budget float64) (Outcome, error) {
	bm, err := Build(ds, budget, p.cfg)
	if err != nil {
		return Outcome{}, err
	}

	res, err := p.engine.Solve(ctx, bm.Model)
	if err != nil {
		if ctx.Err() != nil {
			return Outcome{}, ctx.Err()
		}
		if p.cfg.GreedyFallback {
			p.log.Warnf("solver failed for budget %v, using greedy fallback: %v", budget, err)
			return Outcome{Solution: Greedy(ds, budget, p.cfg), Status: solver.StatusFeasible}, nil
		}
		p.log.Warnf("solver failed for budget %v: %v", budget, err)
		return Outcome{Solution: model.EmptySolution(ds), Status: solver.StatusError}, nil
	}

	switch {
	case res.Status == solver.StatusInfeasible:
		p.log.Debugf("budget %v infeasible", budget)
		return Outcome{Solution: model.EmptySolution(ds), Status: solver.StatusInfeasible}, nil
	case res.Status.Usable() && res.HasAssignment():
		sol, err := Extract(bm, res, ds, p.cfg)
		if err != nil {
			var cv *ContractViolationError
			if errors.As(err, &cv) {
				p.log.Errorf("budget %v: %v", budget, err)
			}
			return Outcome{}, err
		}
		return Outcome{Solution: sol, Status: res.Status}, nil
	default:
		// Timed out before any incumbent was found.
		p.log.Warnf("budget %v: no assignment (status %s)", budget, res.Status)
		return Outcome{Solution: model.EmptySolution(ds), Status: res.Status}, nil
	}
}
