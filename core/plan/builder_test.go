package plan

import (
	"errors"
	"math"
	"testing"

	"github.com/kilianp07/evplan/core/model"
	"github.com/kilianp07/evplan/core/solver"
)

func testDataset() *model.Dataset {
	return &model.Dataset{
		Areas: []model.Area{{ID: "a1", Demand: 100}, {ID: "a2", Demand: 0}},
		Sites: []model.Site{{ID: "s1", StationCost: 1000, ChargerCost: 500, MaxChargers: 4}},
		Links: []model.TripLink{{SiteID: "s1", AreaID: "a1", Trips: 100}},
	}
}

func TestBuildShape(t *testing.T) {
	cfg := Config{CapSpot: 50}
	cfg.SetDefaults()
	bm, err := Build(testDataset(), 3000, cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	// 1 build + 1 is_built + 2 satRaw + 2 sat + 1 served
	if got := bm.Model.NumVars(); got != 7 {
		t.Fatalf("expected 7 variables got %d", got)
	}
	// capacity(1) + saturation_raw eq(1, demand>0 only) + saturation_cap(2) + open(1) + budget(1)
	if got := len(bm.Model.Constraints()); got != 6 {
		t.Fatalf("expected 6 constraints got %d", got)
	}
	var budgetRow *solver.Constraint
	for i := range bm.Model.Constraints() {
		c := &bm.Model.Constraints()[i]
		if c.Name == "budget" {
			budgetRow = c
		}
	}
	if budgetRow == nil {
		t.Fatal("budget constraint missing")
	}
	if budgetRow.RHS != 3000 || budgetRow.Sense != solver.LessEq {
		t.Fatalf("unexpected budget row: %+v", budgetRow)
	}
}

func TestBuildPinsZeroDemandSaturation(t *testing.T) {
	cfg := Config{CapSpot: 50}
	cfg.SetDefaults()
	bm, err := Build(testDataset(), 1000, cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	vars := bm.Model.Vars()
	for _, v := range vars {
		if v.Name == "saturation_raw[a2]" && v.Upper != 0 {
			t.Fatalf("saturation_raw for zero-demand area not pinned: upper %v", v.Upper)
		}
		if v.Name == "saturation_raw[a1]" && !math.IsInf(v.Upper, 1) {
			t.Fatalf("saturation_raw for demanded area bounded: upper %v", v.Upper)
		}
		if v.Name == "served[s1,a1]" && v.Upper != 100 {
			t.Fatalf("served upper bound should equal trip volume, got %v", v.Upper)
		}
	}
}

func TestBuildObjectiveWeighting(t *testing.T) {
	cfg := Config{CapSpot: 50}
	cfg.SetDefaults()
	bm, err := Build(testDataset(), 1000, cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	obj, maximize := bm.Model.Objective()
	if !maximize {
		t.Fatal("objective must maximize")
	}
	// Only the demanded area contributes, weighted by its demand.
	if len(obj) != 1 {
		t.Fatalf("expected 1 objective term got %d", len(obj))
	}
	for _, coef := range obj {
		if coef != 100 {
			t.Fatalf("expected demand weight 100 got %v", coef)
		}
	}
}

func TestBuildRejectsNegativeBudget(t *testing.T) {
	_, err := Build(testDataset(), -1, Config{CapSpot: 50, Tolerance: 1e-6})
	var ve *model.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestBuildRejectsInvalidDataset(t *testing.T) {
	ds := testDataset()
	ds.Areas[0].Demand = -3
	_, err := Build(ds, 1000, Config{CapSpot: 50, Tolerance: 1e-6})
	var ve *model.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestBuildRejectsDuplicateLink(t *testing.T) {
	// A repeated row would create two served variables for one pair,
	// doubling its trip cap in the model while the extractor keeps only
	// one of the two values. It must be rejected before any model exists.
	ds := testDataset()
	ds.Links = append(ds.Links, ds.Links[0])
	_, err := Build(ds, 10000, Config{CapSpot: 50, Tolerance: 1e-6})
	var ve *model.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
