package model

import (
	"errors"
	"testing"
)

func validDataset() *Dataset {
	return &Dataset{
		Areas: []Area{{ID: "a1", Demand: 100}, {ID: "a2", Demand: 0}},
		Sites: []Site{{ID: "s1", StationCost: 1000, ChargerCost: 500, MaxChargers: 4}},
		Links: []TripLink{{SiteID: "s1", AreaID: "a1", Trips: 100}},
	}
}

func TestDatasetValidate(t *testing.T) {
	if err := validDataset().Validate(); err != nil {
		t.Fatalf("valid dataset rejected: %v", err)
	}
}

func TestDatasetValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Dataset)
	}{
		{"negative demand", func(d *Dataset) { d.Areas[0].Demand = -1 }},
		{"negative station cost", func(d *Dataset) { d.Sites[0].StationCost = -5 }},
		{"negative charger cost", func(d *Dataset) { d.Sites[0].ChargerCost = -5 }},
		{"zero max chargers", func(d *Dataset) { d.Sites[0].MaxChargers = 0 }},
		{"negative trips", func(d *Dataset) { d.Links[0].Trips = -1 }},
		{"dangling site", func(d *Dataset) { d.Links[0].SiteID = "ghost" }},
		{"dangling area", func(d *Dataset) { d.Links[0].AreaID = "ghost" }},
		{"duplicate area", func(d *Dataset) { d.Areas = append(d.Areas, Area{ID: "a1"}) }},
		{"duplicate site", func(d *Dataset) { d.Sites = append(d.Sites, d.Sites[0]) }},
		{"duplicate link", func(d *Dataset) { d.Links = append(d.Links, d.Links[0]) }},
		{"no areas", func(d *Dataset) { d.Areas = nil }},
		{"no sites", func(d *Dataset) { d.Sites = nil }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ds := validDataset()
			tc.mutate(ds)
			err := ds.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
		})
	}
}

func TestTotalDemand(t *testing.T) {
	ds := validDataset()
	if got := ds.TotalDemand(); got != 100 {
		t.Fatalf("expected 100 got %v", got)
	}
}

func TestEmptySolution(t *testing.T) {
	sol := EmptySolution(validDataset())
	if sol.Coverage != 0 || sol.Cost != 0 || sol.ChargersBuilt() != 0 {
		t.Fatalf("empty solution not empty: %+v", sol)
	}
	if sat, ok := sol.Saturation["a1"]; !ok || sat != 0 {
		t.Fatalf("expected zero saturation for a1, got %v", sat)
	}
}
