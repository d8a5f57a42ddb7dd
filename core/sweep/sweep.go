// Package sweep drives the planner across a sequence of budgets and
// selects the one maximizing profit. Per-budget failures that reflect
// the input (infeasibility, timeouts) are recorded as flagged points;
// defects (validation, solver contract violations) abort the sweep.
package sweep

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/evplan/core/logger"
	"github.com/kilianp07/evplan/core/metrics"
	"github.com/kilianp07/evplan/core/model"
	"github.com/kilianp07/evplan/core/plan"
	"github.com/kilianp07/evplan/internal/eventbus"
)

// ProfitFunc scores one solved budget. Implementations must be
// monotone in coverage for the saturation encoding to stay meaningful.
type ProfitFunc func(budget, coverage, cost float64) float64

// ValueProfit returns the default profit model:
// valuePerCoverage * coverage - budget.
func ValueProfit(valuePerCoverage float64) ProfitFunc {
	return func(budget, coverage, _ float64) float64 {
		return valuePerCoverage*coverage - budget
	}
}

// Point is one sweep observation. Coverage is recorded as observed:
// a flagged status means the value may be below the true optimum.
type Point struct {
	Budget   float64        `json:"budget"`
	Coverage float64        `json:"coverage"`
	Cost     float64        `json:"cost"`
	Profit   float64        `json:"profit"`
	Status   string         `json:"status"`
	Solution model.Solution `json:"-"`
}

// Result is the terminal, immutable output of one sweep.
type Result struct {
	RunID     string  `json:"run_id"`
	Points    []Point `json:"points"`
	Best      Point   `json:"best"`
	BestIndex int     `json:"best_index"`
}

// Event is a progress notification published during a sweep. The
// concrete types are SolveEvent and BestEvent.
type Event interface {
	sweepEvent()
}

// SolveEvent is published on the event bus after each budget solve.
type SolveEvent struct {
	RunID string
	Point Point
}

// BestEvent is published once the sweep has selected the best budget.
type BestEvent struct {
	RunID string
	Point Point
}

func (SolveEvent) sweepEvent() {}
func (BestEvent) sweepEvent()  {}

// Controller owns one sweep run.
type Controller struct {
	planner *plan.Planner
	cfg     Config
	profit  ProfitFunc
	log     logger.Logger
	sink    metrics.MetricsSink
	bus     eventbus.EventBus[Event]
}

// NewController builds a sweep controller. A nil profit function uses
// the ValueProfit model with cfg.ValuePerCoverage; a nil log disables
// logging.
func NewController(planner *plan.Planner, cfg Config, profit ProfitFunc, log logger.Logger) *Controller {
	cfg.SetDefaults()
	if profit == nil {
		profit = ValueProfit(cfg.ValuePerCoverage)
	}
	if log == nil {
		log = logger.Nop{}
	}
	return &Controller{planner: planner, cfg: cfg, profit: profit, log: log, sink: metrics.NopSink{}}
}

// SetMetricsSink configures the sink receiving per-solve records.
func (c *Controller) SetMetricsSink(sink metrics.MetricsSink) {
	if sink != nil {
		c.sink = sink
	}
}

// SetEventBus configures the bus receiving progress events.
func (c *Controller) SetEventBus(bus eventbus.EventBus[Event]) { c.bus = bus }

// Run sweeps the configured budgets in ascending order. Each budget is
// an independent solve; iterations share only the read-only dataset and
// write their own result slot, so they can run on several workers.
// When the context is cancelled mid-sweep, Run returns the points that
// completed before the cancellation together with the context error.
func (c *Controller) Run(ctx context.Context, ds *model.Dataset) (*Result, error) {
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	budgets, err := c.cfg.BudgetList()
	if err != nil {
		return nil, &model.ValidationError{Field: "sweep", Reason: err.Error()}
	}

	runID := uuid.NewString()
	points := make([]Point, len(budgets))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		errMu    sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		errMu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		errMu.Unlock()
		cancel()
	}

	jobs := make(chan int)
	workers := c.cfg.Workers
	if workers > len(budgets) {
		workers = len(budgets)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					continue
				}
				points[idx] = c.solveOne(ctx, ds, budgets[idx], runID, fail)
			}
		}()
	}

feed:
	for i := range budgets {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		// Hand back what finished before the cancellation; budgets that
		// never solved have no status and are skipped. No best is chosen
		// from a partial sweep.
		partial := &Result{RunID: runID}
		for _, p := range points {
			if p.Status != "" {
				partial.Points = append(partial.Points, p)
			}
		}
		return partial, err
	}

	res := &Result{RunID: runID, Points: points}
	for i, p := range res.Points {
		// Budgets are ascending, so strict improvement keeps the lowest
		// budget on profit ties.
		if i == 0 || p.Profit > res.Best.Profit {
			res.Best = p
			res.BestIndex = i
		}
	}
	if err := c.sink.RecordBest(metrics.BestRecord{RunID: runID, Budget: res.Best.Budget, Profit: res.Best.Profit}); err != nil {
		c.log.Warnf("record best: %v", err)
	}
	if c.bus != nil {
		c.bus.Publish(BestEvent{RunID: runID, Point: res.Best})
	}
	c.log.Infof("sweep %s: %d budgets, best %.2f with profit %.2f", runID, len(res.Points), res.Best.Budget, res.Best.Profit)
	return res, nil
}

func (c *Controller) solveOne(ctx context.Context, ds *model.Dataset, budget float64, runID string, fail func(error)) Point {
	start := time.Now()
	out, err := c.planner.Plan(ctx, ds, budget)
	if err != nil {
		fail(err)
		return Point{Budget: budget}
	}
	pt := Point{
		Budget:   budget,
		Coverage: out.Solution.Coverage,
		Cost:     out.Solution.Cost,
		Profit:   c.profit(budget, out.Solution.Coverage, out.Solution.Cost),
		Status:   out.Status.String(),
		Solution: out.Solution,
	}
	rec := metrics.SolveRecord{
		RunID:           runID,
		Budget:          pt.Budget,
		Status:          pt.Status,
		Coverage:        pt.Coverage,
		Cost:            pt.Cost,
		Profit:          pt.Profit,
		DurationSeconds: time.Since(start).Seconds(),
	}
	if err := c.sink.RecordSolve(rec); err != nil {
		c.log.Warnf("record solve: %v", err)
	}
	if c.bus != nil {
		c.bus.Publish(SolveEvent{RunID: runID, Point: pt})
	}
	c.log.Debugf("budget %.2f: coverage %.2f cost %.2f status %s", pt.Budget, pt.Coverage, pt.Cost, pt.Status)
	return pt
}
