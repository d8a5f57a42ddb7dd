package model

import "fmt"

// Area is a geographic demand unit. Demand aggregates trip-based demand
// for the area and must be non-negative.
type Area struct {
	ID     string
	Demand float64
}

// Site is a candidate charger location.
type Site struct {
	ID          string
	StationCost float64 // fixed cost paid once when any charger is installed
	ChargerCost float64 // incremental cost per charger
	MaxChargers int     // maximum chargers allowed at this site
}

// TripLink holds the trip volume between a site and an area. Pairs
// without a link are implicitly zero.
type TripLink struct {
	SiteID string
	AreaID string
	Trips  float64
}

// Dataset bundles the three input tables for one planning run. It is
// immutable for the lifetime of a sweep.
type Dataset struct {
	Areas []Area
	Sites []Site
	Links []TripLink
}

// Validate checks the dataset against the input contract: non-negative
// demands, costs and trip volumes, positive charger limits and no
// dangling trip-link references.
func (d *Dataset) Validate() error {
	if len(d.Areas) == 0 {
		return &ValidationError{Field: "areas", Reason: "dataset has no areas"}
	}
	if len(d.Sites) == 0 {
		return &ValidationError{Field: "sites", Reason: "dataset has no sites"}
	}
	areas := make(map[string]bool, len(d.Areas))
	for _, a := range d.Areas {
		if a.ID == "" {
			return &ValidationError{Field: "area.id", Reason: "empty identifier"}
		}
		if areas[a.ID] {
			return &ValidationError{Field: "area.id", Reason: fmt.Sprintf("duplicate area %s", a.ID)}
		}
		if a.Demand < 0 {
			return &ValidationError{Field: "area.demand", Reason: fmt.Sprintf("area %s has negative demand %v", a.ID, a.Demand)}
		}
		areas[a.ID] = true
	}
	sites := make(map[string]bool, len(d.Sites))
	for _, s := range d.Sites {
		if s.ID == "" {
			return &ValidationError{Field: "site.id", Reason: "empty identifier"}
		}
		if sites[s.ID] {
			return &ValidationError{Field: "site.id", Reason: fmt.Sprintf("duplicate site %s", s.ID)}
		}
		if s.StationCost < 0 {
			return &ValidationError{Field: "site.station_cost", Reason: fmt.Sprintf("site %s has negative station cost %v", s.ID, s.StationCost)}
		}
		if s.ChargerCost < 0 {
			return &ValidationError{Field: "site.charger_cost", Reason: fmt.Sprintf("site %s has negative charger cost %v", s.ID, s.ChargerCost)}
		}
		if s.MaxChargers <= 0 {
			return &ValidationError{Field: "site.max_chargers", Reason: fmt.Sprintf("site %s allows %d chargers", s.ID, s.MaxChargers)}
		}
		sites[s.ID] = true
	}
	links := make(map[ServedKey]bool, len(d.Links))
	for _, l := range d.Links {
		if !sites[l.SiteID] {
			return &ValidationError{Field: "link.site_id", Reason: fmt.Sprintf("link references unknown site %s", l.SiteID)}
		}
		if !areas[l.AreaID] {
			return &ValidationError{Field: "link.area_id", Reason: fmt.Sprintf("link references unknown area %s", l.AreaID)}
		}
		if l.Trips < 0 {
			return &ValidationError{Field: "link.trips", Reason: fmt.Sprintf("link %s->%s has negative trips %v", l.SiteID, l.AreaID, l.Trips)}
		}
		key := ServedKey{SiteID: l.SiteID, AreaID: l.AreaID}
		// A site-area pair is keyed: a second row would model the same
		// trips twice and shadow the first in the extracted solution.
		if links[key] {
			return &ValidationError{Field: "link", Reason: fmt.Sprintf("duplicate trip link %s->%s", l.SiteID, l.AreaID)}
		}
		links[key] = true
	}
	return nil
}

// TotalDemand returns the sum of demand over all areas.
func (d *Dataset) TotalDemand() float64 {
	var sum float64
	for _, a := range d.Areas {
		sum += a.Demand
	}
	return sum
}

// ValidationError reports malformed input rejected before any model is
// built or solved.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}
