package plan

import (
	"fmt"
	"math"

	"github.com/kilianp07/evplan/core/model"
	"github.com/kilianp07/evplan/core/solver"
)

// BuiltModel couples a MIP instance with the variable handles needed to
// read a solution back out.
type BuiltModel struct {
	Model  *solver.Model
	Budget float64

	build   []solver.Var // per site, integer
	isBuilt []solver.Var // per site, binary
	served  []solver.Var // parallel to dataset links
	satRaw  []solver.Var // per area
	sat     []solver.Var // per area
}

// Build translates a dataset and a single budget into a complete MIP
// instance. The dataset is validated eagerly: malformed input is a
// caller contract violation and never reaches the solver.
func Build(ds *model.Dataset, budget float64, cfg Config) (*BuiltModel, error) {
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	if budget < 0 {
		return nil, &model.ValidationError{Field: "budget", Reason: fmt.Sprintf("negative budget %v", budget)}
	}
	if err := cfg.Validate(); err != nil {
		return nil, &model.ValidationError{Field: "config", Reason: err.Error()}
	}

	m := solver.NewModel()
	bm := &BuiltModel{Model: m, Budget: budget}

	for _, s := range ds.Sites {
		bm.build = append(bm.build, m.AddVar(solver.Variable{
			Name:  "build[" + s.ID + "]",
			Type:  solver.Integer,
			Upper: float64(s.MaxChargers),
		}))
		bm.isBuilt = append(bm.isBuilt, m.AddVar(solver.Variable{
			Name: "is_built[" + s.ID + "]",
			Type: solver.Binary,
		}))
	}

	for _, a := range ds.Areas {
		rawUB := math.Inf(1)
		if a.Demand == 0 {
			// No demand: pin raw saturation to zero instead of dividing.
			rawUB = 0
		}
		bm.satRaw = append(bm.satRaw, m.AddVar(solver.Variable{
			Name:  "saturation_raw[" + a.ID + "]",
			Upper: rawUB,
		}))
		bm.sat = append(bm.sat, m.AddVar(solver.Variable{
			Name:  "saturation[" + a.ID + "]",
			Upper: 1,
		}))
	}

	// Trips served may never exceed the observed link volume; the bound
	// doubles as the per-pair trip cap.
	for _, l := range ds.Links {
		bm.served = append(bm.served, m.AddVar(solver.Variable{
			Name:  "served[" + l.SiteID + "," + l.AreaID + "]",
			Upper: l.Trips,
		}))
	}

	// Capacity: trips served out of a site are limited by its chargers.
	for i, s := range ds.Sites {
		row := map[solver.Var]float64{bm.build[i]: -cfg.CapSpot}
		for k, l := range ds.Links {
			if l.SiteID == s.ID {
				row[bm.served[k]] = 1
			}
		}
		m.AddConstraint(solver.Constraint{
			Name:   "capacity[" + s.ID + "]",
			Coeffs: row,
			Sense:  solver.LessEq,
		})
	}

	// Raw saturation, scaled by demand to avoid division:
	// demand * saturation_raw = sum of trips served into the area.
	for j, a := range ds.Areas {
		if a.Demand == 0 {
			continue
		}
		row := map[solver.Var]float64{bm.satRaw[j]: a.Demand}
		for k, l := range ds.Links {
			if l.AreaID == a.ID {
				row[bm.served[k]] = -1
			}
		}
		m.AddConstraint(solver.Constraint{
			Name:   "saturation_raw[" + a.ID + "]",
			Coeffs: row,
			Sense:  solver.Equal,
		})
	}

	// saturation <= saturation_raw; together with the [0,1] bound this
	// models min(1, raw) because the objective always pushes saturation
	// up against the binding side.
	for j, a := range ds.Areas {
		m.AddConstraint(solver.Constraint{
			Name:   "saturation_cap[" + a.ID + "]",
			Coeffs: map[solver.Var]float64{bm.sat[j]: 1, bm.satRaw[j]: -1},
			Sense:  solver.LessEq,
		})
	}

	// Chargers can only be installed at opened stations.
	for i, s := range ds.Sites {
		m.AddConstraint(solver.Constraint{
			Name:   "open[" + s.ID + "]",
			Coeffs: map[solver.Var]float64{bm.build[i]: 1, bm.isBuilt[i]: -float64(s.MaxChargers)},
			Sense:  solver.LessEq,
		})
	}

	// Budget: station costs are paid once per opened site, charger
	// costs per installed spot.
	budgetRow := make(map[solver.Var]float64, 2*len(ds.Sites))
	for i, s := range ds.Sites {
		if s.StationCost != 0 {
			budgetRow[bm.isBuilt[i]] = s.StationCost
		}
		if s.ChargerCost != 0 {
			budgetRow[bm.build[i]] = s.ChargerCost
		}
	}
	m.AddConstraint(solver.Constraint{
		Name:   "budget",
		Coeffs: budgetRow,
		Sense:  solver.LessEq,
		RHS:    budget,
	})

	// Demand-weighted coverage score: high-demand areas dominate.
	obj := make(map[solver.Var]float64, len(ds.Areas))
	for j, a := range ds.Areas {
		if a.Demand > 0 {
			obj[bm.sat[j]] = a.Demand
		}
	}
	m.SetObjective(obj, true)

	return bm, nil
}
