package model

// ServedKey addresses a (site, area) trip allocation in a Solution.
type ServedKey struct {
	SiteID string
	AreaID string
}

// Solution holds the extracted outcome of one solved budget instance.
// It is produced once and never mutated afterwards.
type Solution struct {
	Builds     map[string]int       // chargers installed per site, zero entries omitted
	Served     map[ServedKey]float64 // trips served per linked pair
	Saturation map[string]float64   // per-area saturation in [0,1]
	Coverage   float64              // sum over areas of demand * saturation
	Cost       float64              // station and charger spend
}

// EmptySolution returns the zero-build solution used when a budget
// admits no installation at all.
func EmptySolution(d *Dataset) Solution {
	sat := make(map[string]float64, len(d.Areas))
	for _, a := range d.Areas {
		sat[a.ID] = 0
	}
	return Solution{
		Builds:     map[string]int{},
		Served:     map[ServedKey]float64{},
		Saturation: sat,
	}
}

// ChargersBuilt returns the total number of chargers across all sites.
func (s Solution) ChargersBuilt() int {
	var n int
	for _, b := range s.Builds {
		n += b
	}
	return n
}
