package model

import (
	"fmt"
	"math/rand"
)

// SyntheticSpec parameterises GenerateDataset. Hub areas attract high
// inbound trip volumes while residential areas carry the demand.
type SyntheticSpec struct {
	Areas       int
	Sites       int
	StationCost float64
	ChargerCost float64
	MaxChargers int
}

// GenerateDataset builds a reproducible synthetic dataset for the given
// seed. The first half of the areas act as hubs, the second half as
// residential areas; trip volumes and demands follow the same ranges as
// the recorded Georgia calibration runs.
func GenerateDataset(spec SyntheticSpec, seed int64) (*Dataset, error) {
	if spec.Areas < 2 || spec.Sites < 1 || spec.Sites > spec.Areas {
		return nil, &ValidationError{Field: "synthetic", Reason: fmt.Sprintf("need at least 2 areas and 1..areas sites, got %d/%d", spec.Areas, spec.Sites)}
	}
	if spec.MaxChargers <= 0 {
		spec.MaxChargers = 5
	}
	rng := rand.New(rand.NewSource(seed))

	ds := &Dataset{}
	half := spec.Areas / 2
	hub := make(map[string]bool, half)
	for i := 1; i <= spec.Areas; i++ {
		id := fmt.Sprintf("Area%d", i)
		demand := float64(800 + rng.Intn(201)) // residential
		if i <= half {
			demand = float64(100 + rng.Intn(101)) // hub
			hub[id] = true
		}
		ds.Areas = append(ds.Areas, Area{ID: id, Demand: demand})
	}

	// Candidate sites are drawn from the areas without replacement.
	perm := rng.Perm(spec.Areas)
	for _, idx := range perm[:spec.Sites] {
		ds.Sites = append(ds.Sites, Site{
			ID:          ds.Areas[idx].ID,
			StationCost: spec.StationCost,
			ChargerCost: spec.ChargerCost,
			MaxChargers: spec.MaxChargers,
		})
	}

	for _, s := range ds.Sites {
		for _, a := range ds.Areas {
			var trips float64
			switch {
			case hub[s.ID] && !hub[a.ID]:
				trips = float64(800 + rng.Intn(401))
			case hub[s.ID]:
				trips = float64(700 + rng.Intn(401))
			case !hub[s.ID] && hub[a.ID]:
				trips = float64(800 + rng.Intn(401))
			default:
				trips = float64(150 + rng.Intn(151))
			}
			ds.Links = append(ds.Links, TripLink{SiteID: s.ID, AreaID: a.ID, Trips: trips})
		}
	}
	return ds, nil
}
