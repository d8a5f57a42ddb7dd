package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"sort"
	"strconv"

	"github.com/kilianp07/evplan/core/model"
	"github.com/kilianp07/evplan/core/sweep"
)

// WriteSweepJSON writes the sweep result to w in JSON format.
func WriteSweepJSON(w io.Writer, res *sweep.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// WriteSweepCSV writes the sweep points to w as CSV rows.
func WriteSweepCSV(w io.Writer, res *sweep.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"budget", "coverage", "cost", "profit", "status"}); err != nil {
		return err
	}
	for _, p := range res.Points {
		rec := []string{
			formatFloat(p.Budget),
			formatFloat(p.Coverage),
			formatFloat(p.Cost),
			formatFloat(p.Profit),
			p.Status,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePlanCSV writes the per-site build decisions of a solution to w.
func WritePlanCSV(w io.Writer, sol model.Solution) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"site_id", "chargers"}); err != nil {
		return err
	}
	ids := make([]string, 0, len(sol.Builds))
	for id := range sol.Builds {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if err := cw.Write([]string{id, strconv.Itoa(sol.Builds[id])}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
