package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/evplan/core/model"
)

type AreaDef struct {
	ID     string  `yaml:"id"`
	Demand float64 `yaml:"demand"`
}

type SiteDef struct {
	ID          string  `yaml:"id"`
	StationCost float64 `yaml:"station_cost"`
	ChargerCost float64 `yaml:"charger_cost"`
	MaxChargers int     `yaml:"max_chargers"`
}

type TripDef struct {
	Site  string  `yaml:"site"`
	Area  string  `yaml:"area"`
	Trips float64 `yaml:"trips"`
}

// ExpectedPoint pins the coverage observed for one budget.
type ExpectedPoint struct {
	Budget   float64 `yaml:"budget"`
	Coverage float64 `yaml:"coverage"`
}

type Expected struct {
	BestBudget float64         `yaml:"best_budget"`
	Points     []ExpectedPoint `yaml:"points"`
}

// Scenario is a self-contained sweep case: dataset, sweep parameters
// and the outcome it must produce.
type Scenario struct {
	Name             string    `yaml:"name"`
	CapSpot          float64   `yaml:"cap_spot"`
	ValuePerCoverage float64   `yaml:"value_per_coverage"`
	Budgets          []float64 `yaml:"budgets"`
	Areas            []AreaDef `yaml:"areas"`
	Sites            []SiteDef `yaml:"sites"`
	Trips            []TripDef `yaml:"trips"`
	Expected         Expected  `yaml:"expected"`
}

// Load reads a scenario definition from a YAML file.
func Load(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Scenario
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Dataset converts the scenario tables into a model dataset.
func (s *Scenario) Dataset() *model.Dataset {
	ds := &model.Dataset{}
	for _, a := range s.Areas {
		ds.Areas = append(ds.Areas, model.Area{ID: a.ID, Demand: a.Demand})
	}
	for _, st := range s.Sites {
		ds.Sites = append(ds.Sites, model.Site{
			ID:          st.ID,
			StationCost: st.StationCost,
			ChargerCost: st.ChargerCost,
			MaxChargers: st.MaxChargers,
		})
	}
	for _, t := range s.Trips {
		ds.Links = append(ds.Links, model.TripLink{SiteID: t.Site, AreaID: t.Area, Trips: t.Trips})
	}
	return ds
}
