package scenarios

import (
	"context"
	"math"
	"path/filepath"
	"testing"
)

func TestScenarios(t *testing.T) {
	files, err := filepath.Glob("testdata/*.yaml")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("no scenario files found")
	}
	for _, file := range files {
		sc, err := Load(file)
		if err != nil {
			t.Fatalf("load %s: %v", file, err)
		}
		t.Run(sc.Name, func(t *testing.T) {
			res, err := Run(context.Background(), sc)
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if math.Abs(res.Best.Budget-sc.Expected.BestBudget) > 1e-9 {
				t.Fatalf("best budget: expected %v got %v", sc.Expected.BestBudget, res.Best.Budget)
			}
			byBudget := make(map[float64]float64, len(res.Points))
			for _, p := range res.Points {
				byBudget[p.Budget] = p.Coverage
			}
			for _, exp := range sc.Expected.Points {
				got, ok := byBudget[exp.Budget]
				if !ok {
					t.Fatalf("no point for budget %v", exp.Budget)
				}
				if math.Abs(got-exp.Coverage) > 1e-6 {
					t.Fatalf("budget %v: expected coverage %v got %v", exp.Budget, exp.Coverage, got)
				}
			}
		})
	}
}
