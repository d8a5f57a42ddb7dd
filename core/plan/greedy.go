package plan

import (
	"math"
	"sort"

	"github.com/kilianp07/evplan/core/model"
)

// Greedy allocates chargers to the busiest sites first, serving areas
// in descending trip-volume order. It respects the budget and per-site
// limits but makes no optimality claim; it serves as the fallback when
// the exact solver fails and as a cross-check in tests.
func Greedy(ds *model.Dataset, budget float64, cfg Config) model.Solution {
	type siteTraffic struct {
		site  model.Site
		total float64
	}
	traffic := make([]siteTraffic, 0, len(ds.Sites))
	for _, s := range ds.Sites {
		var total float64
		for _, l := range ds.Links {
			if l.SiteID == s.ID {
				total += l.Trips
			}
		}
		traffic = append(traffic, siteTraffic{site: s, total: total})
	}
	sort.SliceStable(traffic, func(i, j int) bool {
		if traffic[i].total != traffic[j].total {
			return traffic[i].total > traffic[j].total
		}
		return traffic[i].site.ID < traffic[j].site.ID
	})

	builds := make(map[string]int)
	served := make(map[model.ServedKey]float64)
	remaining := budget

	for _, st := range traffic {
		s := st.site
		if st.total <= 0 || remaining < s.StationCost+s.ChargerCost {
			continue
		}
		// Chargers the site can actually keep busy.
		utilizable := int(math.Ceil(st.total / cfg.CapSpot))
		affordable := s.MaxChargers
		if s.ChargerCost > 0 {
			affordable = int((remaining - s.StationCost) / s.ChargerCost)
		}
		n := utilizable
		if s.MaxChargers < n {
			n = s.MaxChargers
		}
		if affordable < n {
			n = affordable
		}
		if n <= 0 {
			continue
		}
		builds[s.ID] = n
		remaining -= s.StationCost + float64(n)*s.ChargerCost

		capLeft := float64(n) * cfg.CapSpot
		links := make([]model.TripLink, 0, len(ds.Links))
		for _, l := range ds.Links {
			if l.SiteID == s.ID && l.Trips > 0 {
				links = append(links, l)
			}
		}
		sort.SliceStable(links, func(i, j int) bool {
			if links[i].Trips != links[j].Trips {
				return links[i].Trips > links[j].Trips
			}
			return links[i].AreaID < links[j].AreaID
		})
		for _, l := range links {
			if capLeft <= 0 {
				break
			}
			v := l.Trips
			if v > capLeft {
				v = capLeft
			}
			served[model.ServedKey{SiteID: l.SiteID, AreaID: l.AreaID}] = v
			capLeft -= v
		}
	}

	return finalize(ds, builds, served, cfg)
}
