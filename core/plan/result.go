package plan

import (
	"fmt"
	"math"

	"github.com/kilianp07/evplan/core/model"
	"github.com/kilianp07/evplan/core/solver"
)

// ContractViolationError reports a solver assignment that breaks a
// modelled constraint beyond numerical tolerance. It indicates a
// solver/model mismatch and is never silently clamped away.
type ContractViolationError struct {
	Constraint string
	Detail     string
}

func (e *ContractViolationError) Error() string {
	return fmt.Sprintf("solver contract violation: %s: %s", e.Constraint, e.Detail)
}

// Extract converts a solved assignment into a Solution. Coverage, cost
// and saturation are recomputed from the served quantities so the
// reported figures satisfy the invariants exactly; the raw assignment
// is checked against every modelled constraint first.
func Extract(bm *BuiltModel, res solver.Result, ds *model.Dataset, cfg Config) (model.Solution, error) {
	if !res.HasAssignment() {
		return model.Solution{}, &ContractViolationError{Constraint: "assignment", Detail: "result carries no variable values"}
	}
	tol := cfg.Tolerance

	builds := make(map[string]int, len(ds.Sites))
	for i, s := range ds.Sites {
		raw := res.Value(bm.build[i])
		n := int(math.Round(raw))
		if math.Abs(raw-float64(n)) > 1e-4 {
			return model.Solution{}, &ContractViolationError{
				Constraint: "integrality",
				Detail:     fmt.Sprintf("build[%s] = %v is not integral", s.ID, raw),
			}
		}
		if n < 0 || n > s.MaxChargers {
			return model.Solution{}, &ContractViolationError{
				Constraint: "bounds",
				Detail:     fmt.Sprintf("build[%s] = %d outside [0,%d]", s.ID, n, s.MaxChargers),
			}
		}
		open := math.Round(res.Value(bm.isBuilt[i]))
		if n > 0 && open < 1 {
			return model.Solution{}, &ContractViolationError{
				Constraint: "open",
				Detail:     fmt.Sprintf("site %s has %d chargers but is_built = 0", s.ID, n),
			}
		}
		if n > 0 {
			builds[s.ID] = n
		}
	}

	served := make(map[model.ServedKey]float64, len(ds.Links))
	siteLoad := make(map[string]float64, len(ds.Sites))
	for k, l := range ds.Links {
		v := res.Value(bm.served[k])
		if v < 0 {
			if v < -tol*(1+l.Trips) {
				return model.Solution{}, &ContractViolationError{
					Constraint: "served",
					Detail:     fmt.Sprintf("served[%s,%s] = %v is negative", l.SiteID, l.AreaID, v),
				}
			}
			v = 0
		}
		if v > l.Trips+tol*(1+l.Trips) {
			return model.Solution{}, &ContractViolationError{
				Constraint: "trip_cap",
				Detail:     fmt.Sprintf("served[%s,%s] = %v exceeds trip volume %v", l.SiteID, l.AreaID, v, l.Trips),
			}
		}
		if v > l.Trips {
			v = l.Trips
		}
		if v > 0 {
			served[model.ServedKey{SiteID: l.SiteID, AreaID: l.AreaID}] = v
		}
		siteLoad[l.SiteID] += v
	}

	for _, s := range ds.Sites {
		capacity := float64(builds[s.ID]) * cfg.CapSpot
		if siteLoad[s.ID] > capacity+tol*(1+capacity) {
			return model.Solution{}, &ContractViolationError{
				Constraint: "capacity",
				Detail:     fmt.Sprintf("site %s serves %v trips with capacity %v", s.ID, siteLoad[s.ID], capacity),
			}
		}
	}

	sol := finalize(ds, builds, served, cfg)
	if sol.Cost > bm.Budget+tol*(1+bm.Budget) {
		return model.Solution{}, &ContractViolationError{
			Constraint: "budget",
			Detail:     fmt.Sprintf("cost %v exceeds budget %v", sol.Cost, bm.Budget),
		}
	}
	return sol, nil
}

// finalize derives saturation, coverage and cost from build counts and
// served trips. Shared by the exact extractor and the greedy planner.
func finalize(ds *model.Dataset, builds map[string]int, served map[model.ServedKey]float64, cfg Config) model.Solution {
	areaServed := make(map[string]float64, len(ds.Areas))
	for key, v := range served {
		areaServed[key.AreaID] += v
	}

	sat := make(map[string]float64, len(ds.Areas))
	var coverage float64
	for _, a := range ds.Areas {
		if a.Demand <= 0 {
			sat[a.ID] = 0
			continue
		}
		s := areaServed[a.ID] / a.Demand
		if s > 1 {
			s = 1
		}
		sat[a.ID] = s
		coverage += a.Demand * s
	}

	var cost float64
	for _, s := range ds.Sites {
		if n := builds[s.ID]; n > 0 {
			cost += s.StationCost + float64(n)*s.ChargerCost
		}
	}

	return model.Solution{
		Builds:     builds,
		Served:     served,
		Saturation: sat,
		Coverage:   coverage,
		Cost:       cost,
	}
}
