// Package dataset loads the three input tables from CSV files. The
// expected layout is a directory containing areas.csv (id,demand),
// sites.csv (id,station_cost,charger_cost,max_chargers) and trips.csv
// (site_id,area_id,trips), each with a header row.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/kilianp07/evplan/core/model"
)

// Load reads a dataset from dir and validates it.
func Load(dir string) (*model.Dataset, error) {
	ds := &model.Dataset{}

	if err := readTable(filepath.Join(dir, "areas.csv"), 2, func(rec []string, line int) error {
		demand, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return fmt.Errorf("line %d: demand: %w", line, err)
		}
		ds.Areas = append(ds.Areas, model.Area{ID: rec[0], Demand: demand})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := readTable(filepath.Join(dir, "sites.csv"), 4, func(rec []string, line int) error {
		station, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return fmt.Errorf("line %d: station_cost: %w", line, err)
		}
		charger, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return fmt.Errorf("line %d: charger_cost: %w", line, err)
		}
		maxChargers, err := strconv.Atoi(rec[3])
		if err != nil {
			return fmt.Errorf("line %d: max_chargers: %w", line, err)
		}
		ds.Sites = append(ds.Sites, model.Site{
			ID:          rec[0],
			StationCost: station,
			ChargerCost: charger,
			MaxChargers: maxChargers,
		})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := readTable(filepath.Join(dir, "trips.csv"), 3, func(rec []string, line int) error {
		trips, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return fmt.Errorf("line %d: trips: %w", line, err)
		}
		ds.Links = append(ds.Links, model.TripLink{SiteID: rec[0], AreaID: rec[1], Trips: trips})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

func readTable(path string, fields int, row func(rec []string, line int) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = fields
	r.TrimLeadingSpace = true

	line := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		line++
		if line == 1 {
			continue // header
		}
		if err := row(rec, line); err != nil {
			return fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
	}
}
