package solver

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/kilianp07/evplan/core/model"
	"github.com/kilianp07/evplan/core/plan"
	coresolver "github.com/kilianp07/evplan/core/solver"
)

func TestSolveContinuousLP(t *testing.T) {
	m := coresolver.NewModel()
	x := m.AddVar(coresolver.Variable{Name: "x", Upper: 2})
	y := m.AddVar(coresolver.Variable{Name: "y", Upper: 3})
	m.AddConstraint(coresolver.Constraint{
		Coeffs: map[coresolver.Var]float64{x: 1, y: 1},
		Sense:  coresolver.LessEq,
		RHS:    4,
	})
	m.SetObjective(map[coresolver.Var]float64{x: 3, y: 2}, true)

	res, err := NewBranchBound(Config{}, nil).Solve(context.Background(), m)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if res.Status != coresolver.StatusOptimal {
		t.Fatalf("expected optimal got %s", res.Status)
	}
	if math.Abs(res.Objective-10) > 1e-6 {
		t.Fatalf("expected objective 10 got %v", res.Objective)
	}
	if math.Abs(res.Value(x)-2) > 1e-6 || math.Abs(res.Value(y)-2) > 1e-6 {
		t.Fatalf("expected x=2 y=2 got %v/%v", res.Value(x), res.Value(y))
	}
}

func TestSolveIntegerKnapsack(t *testing.T) {
	m := coresolver.NewModel()
	x := m.AddVar(coresolver.Variable{Name: "x", Type: coresolver.Integer, Upper: 3})
	y := m.AddVar(coresolver.Variable{Name: "y", Type: coresolver.Integer, Upper: 3})
	m.AddConstraint(coresolver.Constraint{
		Coeffs: map[coresolver.Var]float64{x: 6, y: 5},
		Sense:  coresolver.LessEq,
		RHS:    10,
	})
	m.SetObjective(map[coresolver.Var]float64{x: 5, y: 4}, true)

	res, err := NewBranchBound(Config{}, nil).Solve(context.Background(), m)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if res.Status != coresolver.StatusOptimal {
		t.Fatalf("expected optimal got %s", res.Status)
	}
	if math.Abs(res.Objective-8) > 1e-6 {
		t.Fatalf("expected objective 8 got %v", res.Objective)
	}
	if math.Abs(res.Value(x)) > 1e-6 || math.Abs(res.Value(y)-2) > 1e-6 {
		t.Fatalf("expected x=0 y=2 got %v/%v", res.Value(x), res.Value(y))
	}
}

func TestSolveMinimize(t *testing.T) {
	m := coresolver.NewModel()
	x := m.AddVar(coresolver.Variable{Name: "x", Type: coresolver.Integer, Upper: 5})
	m.AddConstraint(coresolver.Constraint{
		Coeffs: map[coresolver.Var]float64{x: 1},
		Sense:  coresolver.GreaterEq,
		RHS:    2,
	})
	m.SetObjective(map[coresolver.Var]float64{x: 1}, false)

	res, err := NewBranchBound(Config{}, nil).Solve(context.Background(), m)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if res.Status != coresolver.StatusOptimal || math.Abs(res.Objective-2) > 1e-6 {
		t.Fatalf("expected optimal objective 2, got %s/%v", res.Status, res.Objective)
	}
}

func TestSolveInfeasible(t *testing.T) {
	m := coresolver.NewModel()
	x := m.AddVar(coresolver.Variable{Name: "x", Upper: 1})
	m.AddConstraint(coresolver.Constraint{
		Coeffs: map[coresolver.Var]float64{x: 1},
		Sense:  coresolver.GreaterEq,
		RHS:    2,
	})
	m.SetObjective(map[coresolver.Var]float64{x: 1}, true)

	res, err := NewBranchBound(Config{}, nil).Solve(context.Background(), m)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if res.Status != coresolver.StatusInfeasible {
		t.Fatalf("expected infeasible got %s", res.Status)
	}
	if res.HasAssignment() {
		t.Fatal("infeasible result must not carry an assignment")
	}
}

func TestSolveTimeLimit(t *testing.T) {
	m := coresolver.NewModel()
	x := m.AddVar(coresolver.Variable{Name: "x", Type: coresolver.Integer, Upper: 3})
	m.SetObjective(map[coresolver.Var]float64{x: 1}, true)

	res, err := NewBranchBound(Config{TimeLimitSeconds: 1e-12}, nil).Solve(context.Background(), m)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if res.Status != coresolver.StatusTimedOut {
		t.Fatalf("expected timed_out got %s", res.Status)
	}
	if res.HasAssignment() {
		t.Fatal("no incumbent expected under an expired limit")
	}
}

func TestSolveNodeLimitKeepsIncumbent(t *testing.T) {
	m := coresolver.NewModel()
	x := m.AddVar(coresolver.Variable{Name: "x", Type: coresolver.Integer, Upper: 3})
	y := m.AddVar(coresolver.Variable{Name: "y", Type: coresolver.Integer, Upper: 3})
	m.AddConstraint(coresolver.Constraint{
		Coeffs: map[coresolver.Var]float64{x: 6, y: 5},
		Sense:  coresolver.LessEq,
		RHS:    10,
	})
	m.SetObjective(map[coresolver.Var]float64{x: 5, y: 4}, true)

	// Three nodes are enough to reach the first integral leaf (x=1, y=0)
	// but not the optimum, so the engine reports a suboptimal incumbent.
	res, err := NewBranchBound(Config{MaxNodes: 3}, nil).Solve(context.Background(), m)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if res.Status != coresolver.StatusFeasible {
		t.Fatalf("expected feasible got %s", res.Status)
	}
	if !res.HasAssignment() {
		t.Fatal("expected an incumbent assignment")
	}
	if math.Abs(res.Objective-5) > 1e-6 {
		t.Fatalf("expected incumbent objective 5 got %v", res.Objective)
	}
}

func TestSolveCancelledContext(t *testing.T) {
	m := coresolver.NewModel()
	m.AddVar(coresolver.Variable{Name: "x", Upper: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewBranchBound(Config{}, nil).Solve(ctx, m)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func placementDataset() *model.Dataset {
	return &model.Dataset{
		Areas: []model.Area{{ID: "a1", Demand: 100}},
		Sites: []model.Site{{ID: "s1", StationCost: 1000, ChargerCost: 500, MaxChargers: 4}},
		Links: []model.TripLink{{SiteID: "s1", AreaID: "a1", Trips: 100}},
	}
}

func TestPlacementFullBudget(t *testing.T) {
	cfg := plan.Config{CapSpot: 50}
	cfg.SetDefaults()
	bm, err := plan.Build(placementDataset(), 3000, cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	res, err := NewBranchBound(Config{}, nil).Solve(context.Background(), bm.Model)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if res.Status != coresolver.StatusOptimal {
		t.Fatalf("expected optimal got %s", res.Status)
	}
	sol, err := plan.Extract(bm, res, placementDataset(), cfg)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if sol.Saturation["a1"] != 1 {
		t.Fatalf("expected full saturation got %v", sol.Saturation["a1"])
	}
	if sol.Coverage != 100 {
		t.Fatalf("expected coverage 100 got %v", sol.Coverage)
	}
	if sol.Builds["s1"] < 2 {
		t.Fatalf("serving 100 trips needs at least 2 chargers, got %d", sol.Builds["s1"])
	}
	if sol.Cost > 3000 {
		t.Fatalf("cost %v exceeds budget", sol.Cost)
	}
}

func TestPlacementBudgetTooSmall(t *testing.T) {
	cfg := plan.Config{CapSpot: 50}
	cfg.SetDefaults()
	bm, err := plan.Build(placementDataset(), 500, cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	res, err := NewBranchBound(Config{}, nil).Solve(context.Background(), bm.Model)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if res.Status != coresolver.StatusOptimal {
		t.Fatalf("expected optimal got %s", res.Status)
	}
	sol, err := plan.Extract(bm, res, placementDataset(), cfg)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if sol.Coverage != 0 || len(sol.Builds) != 0 {
		t.Fatalf("budget 500 cannot build anything, got %+v", sol)
	}
}

func TestPlacementTwoAreas(t *testing.T) {
	ds := &model.Dataset{
		Areas: []model.Area{{ID: "a1", Demand: 100}, {ID: "a2", Demand: 50}},
		Sites: []model.Site{{ID: "s1", StationCost: 500, ChargerCost: 100, MaxChargers: 5}},
		Links: []model.TripLink{
			{SiteID: "s1", AreaID: "a1", Trips: 100},
			{SiteID: "s1", AreaID: "a2", Trips: 50},
		},
	}
	cfg := plan.Config{CapSpot: 30}
	cfg.SetDefaults()
	bm, err := plan.Build(ds, 1500, cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	res, err := NewBranchBound(Config{}, nil).Solve(context.Background(), bm.Model)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	sol, err := plan.Extract(bm, res, ds, cfg)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	// Five chargers give capacity 150 and cover both areas fully.
	if sol.Saturation["a1"] != 1 || sol.Saturation["a2"] != 1 {
		t.Fatalf("expected both areas saturated: %v", sol.Saturation)
	}
	if sol.Coverage != 150 {
		t.Fatalf("expected demand-weighted coverage 150 got %v", sol.Coverage)
	}
}
