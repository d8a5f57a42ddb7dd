package plan

import "github.com/kilianp07/evplan/core/model"

// AreaStats aggregates demand figures over a group of areas.
type AreaStats struct {
	Count       int     `json:"count"`
	MeanDemand  float64 `json:"mean_demand"`
	TotalDemand float64 `json:"total_demand"`
}

// Summary is the coverage report for one solved budget: overall demand
// coverage plus a breakdown into fully, partially and uncovered areas.
type Summary struct {
	TotalDemand     float64   `json:"total_demand"`
	DemandCovered   float64   `json:"demand_covered"`
	CoveragePercent float64   `json:"coverage_percent"`
	ChargersBuilt   int       `json:"chargers_built"`
	SitesOpened     int       `json:"sites_opened"`
	Cost            float64   `json:"cost"`
	Full            AreaStats `json:"fully_covered"`
	Partial         AreaStats `json:"partially_covered"`
	Uncovered       AreaStats `json:"uncovered"`
}

// Summarize computes the coverage report for a solution.
func Summarize(ds *model.Dataset, sol model.Solution) Summary {
	sum := Summary{
		TotalDemand:   ds.TotalDemand(),
		DemandCovered: sol.Coverage,
		ChargersBuilt: sol.ChargersBuilt(),
		SitesOpened:   len(sol.Builds),
		Cost:          sol.Cost,
	}
	if sum.TotalDemand > 0 {
		sum.CoveragePercent = 100 * sum.DemandCovered / sum.TotalDemand
	}
	for _, a := range ds.Areas {
		sat := sol.Saturation[a.ID]
		switch {
		case sat >= 1:
			sum.Full.Count++
			sum.Full.TotalDemand += a.Demand
		case sat > 0:
			sum.Partial.Count++
			sum.Partial.TotalDemand += a.Demand
		default:
			sum.Uncovered.Count++
			sum.Uncovered.TotalDemand += a.Demand
		}
	}
	if sum.Full.Count > 0 {
		sum.Full.MeanDemand = sum.Full.TotalDemand / float64(sum.Full.Count)
	}
	if sum.Partial.Count > 0 {
		sum.Partial.MeanDemand = sum.Partial.TotalDemand / float64(sum.Partial.Count)
	}
	if sum.Uncovered.Count > 0 {
		sum.Uncovered.MeanDemand = sum.Uncovered.TotalDemand / float64(sum.Uncovered.Count)
	}
	return sum
}
