// Package solver provides the default mixed-integer engine: a
// deterministic branch-and-bound search whose LP relaxations are solved
// with gonum's simplex implementation.
package solver

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/kilianp07/evplan/core/logger"
	coresolver "github.com/kilianp07/evplan/core/solver"
)

const (
	simplexTol = 1e-7
	intTol     = 1e-6
	pruneTol   = 1e-9
)

// Config defines engine limits.
type Config struct {
	// TimeLimitSeconds caps one solve; 0 disables the limit. A context
	// deadline, when earlier, takes precedence.
	TimeLimitSeconds float64 `json:"time_limit_seconds"`
	// MaxNodes caps the number of branch-and-bound nodes; 0 disables.
	MaxNodes int `json:"max_nodes"`
}

// BranchBound is a depth-first branch-and-bound MIP solver.
type BranchBound struct {
	cfg Config
	log logger.Logger
}

// NewBranchBound returns an engine with the given limits. A nil log
// disables logging.
func NewBranchBound(cfg Config, log logger.Logger) *BranchBound {
	if log == nil {
		log = logger.Nop{}
	}
	return &BranchBound{cfg: cfg, log: log}
}

type node struct {
	lower, upper []float64
}

// Solve implements coresolver.Solver.
func (s *BranchBound) Solve(ctx context.Context, m *coresolver.Model) (coresolver.Result, error) {
	n := m.NumVars()
	if n == 0 {
		return coresolver.Result{Status: coresolver.StatusOptimal}, nil
	}
	prob := newProblem(m)

	deadline := time.Time{}
	if s.cfg.TimeLimitSeconds > 0 {
		deadline = time.Now().Add(time.Duration(s.cfg.TimeLimitSeconds * float64(time.Second)))
	}
	if d, ok := ctx.Deadline(); ok && (deadline.IsZero() || d.Before(deadline)) {
		deadline = d
	}

	root := node{lower: make([]float64, n), upper: make([]float64, n)}
	for i, v := range m.Vars() {
		root.lower[i] = v.Lower
		root.upper[i] = v.Upper
	}

	var (
		stack     = []node{root}
		bestX     []float64
		bestScore = math.Inf(-1)
		explored  int
		timedOut  bool
		nodeLimit bool
	)

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return coresolver.Result{Status: coresolver.StatusError}, err
		}
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			timedOut = true
			break
		}
		if s.cfg.MaxNodes > 0 && explored >= s.cfg.MaxNodes {
			nodeLimit = true
			break
		}

		nd := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		explored++

		x, score, feasible, err := prob.relax(nd.lower, nd.upper)
		if err != nil {
			return coresolver.Result{Status: coresolver.StatusError}, fmt.Errorf("lp relaxation: %w", err)
		}
		if !feasible || score <= bestScore+pruneTol {
			continue
		}

		branch := prob.fractionalVar(x)
		if branch < 0 {
			for _, i := range prob.intVars {
				x[i] = math.Round(x[i])
			}
			bestX, bestScore = x, score
			continue
		}

		// Ceil child is pushed first so the floor branch is explored
		// depth-first; the order is fixed to keep solves deterministic.
		up := node{lower: append([]float64(nil), nd.lower...), upper: append([]float64(nil), nd.upper...)}
		up.lower[branch] = math.Ceil(x[branch])
		down := node{lower: append([]float64(nil), nd.lower...), upper: append([]float64(nil), nd.upper...)}
		down.upper[branch] = math.Floor(x[branch])
		if up.lower[branch] <= up.upper[branch] {
			stack = append(stack, up)
		}
		if down.lower[branch] <= down.upper[branch] {
			stack = append(stack, down)
		}
	}

	res := coresolver.Result{}
	switch {
	case bestX != nil:
		res.Values = bestX
		res.Objective = prob.trueObjective(bestScore)
		switch {
		case timedOut:
			res.Status = coresolver.StatusTimedOut
		case nodeLimit:
			res.Status = coresolver.StatusFeasible
		default:
			res.Status = coresolver.StatusOptimal
		}
		s.log.Debugf("solved in %d nodes, status %s, objective %v", explored, res.Status, res.Objective)
	case timedOut || nodeLimit:
		res.Status = coresolver.StatusTimedOut
		s.log.Warnf("limit reached after %d nodes with no incumbent", explored)
	default:
		res.Status = coresolver.StatusInfeasible
		s.log.Debugf("infeasible after %d nodes", explored)
	}
	return res, nil
}

// problem caches the model in the dense row form fed to lp.Convert.
type problem struct {
	n        int
	cMin     []float64 // objective in minimization form
	maximize bool
	ineq     [][]float64 // rows of G without bound rows
	ineqRHS  []float64
	eq       [][]float64
	eqRHS    []float64
	intVars  []int
}

func newProblem(m *coresolver.Model) *problem {
	n := m.NumVars()
	obj, maximize := m.Objective()
	p := &problem{n: n, cMin: make([]float64, n), maximize: maximize}
	for v, coef := range obj {
		if maximize {
			p.cMin[v] = -coef
		} else {
			p.cMin[v] = coef
		}
	}
	for i, v := range m.Vars() {
		if v.Type != coresolver.Continuous {
			p.intVars = append(p.intVars, i)
		}
	}
	for _, c := range m.Constraints() {
		row := make([]float64, n)
		for v, coef := range c.Coeffs {
			row[v] = coef
		}
		switch c.Sense {
		case coresolver.LessEq:
			p.ineq = append(p.ineq, row)
			p.ineqRHS = append(p.ineqRHS, c.RHS)
		case coresolver.GreaterEq:
			neg := make([]float64, n)
			for i, coef := range row {
				neg[i] = -coef
			}
			p.ineq = append(p.ineq, neg)
			p.ineqRHS = append(p.ineqRHS, -c.RHS)
		case coresolver.Equal:
			p.eq = append(p.eq, row)
			p.eqRHS = append(p.eqRHS, c.RHS)
		}
	}
	return p
}

// relax solves the LP relaxation under the given variable bounds and
// returns the first-n solution values and the bound score (higher is
// better regardless of the model's sense).
func (p *problem) relax(lower, upper []float64) ([]float64, float64, bool, error) {
	rows := len(p.ineq) + p.n // ineq rows plus one lower-bound row per var
	for _, ub := range upper {
		if !math.IsInf(ub, 1) {
			rows++
		}
	}
	g := mat.NewDense(rows, p.n, nil)
	h := make([]float64, rows)
	r := 0
	for i, row := range p.ineq {
		g.SetRow(r, row)
		h[r] = p.ineqRHS[i]
		r++
	}
	for i := 0; i < p.n; i++ {
		g.Set(r, i, -1)
		h[r] = -lower[i]
		r++
	}
	for i, ub := range upper {
		if math.IsInf(ub, 1) {
			continue
		}
		g.Set(r, i, 1)
		h[r] = ub
		r++
	}

	var a mat.Matrix
	var b []float64
	if len(p.eq) > 0 {
		dense := mat.NewDense(len(p.eq), p.n, nil)
		for i, row := range p.eq {
			dense.SetRow(i, row)
		}
		a = dense
		b = p.eqRHS
	}

	cStd, aStd, bStd := lp.Convert(p.cMin, g, h, a, b)
	opt, sol, err := lp.Simplex(cStd, aStd, bStd, simplexTol, nil)
	if err != nil {
		if errors.Is(err, lp.ErrInfeasible) {
			return nil, 0, false, nil
		}
		return nil, 0, false, err
	}

	// All variables carry explicit lower bounds, so the negative halves
	// introduced by lp.Convert stay at zero and the first n entries are
	// the variable values.
	x := make([]float64, p.n)
	for i := range x {
		x[i] = sol[i]
		if x[i] < lower[i] {
			x[i] = lower[i]
		}
		if x[i] > upper[i] {
			x[i] = upper[i]
		}
	}
	return x, -opt, true, nil
}

// fractionalVar returns the most fractional integer variable, or -1
// when the assignment is integral within tolerance.
func (p *problem) fractionalVar(x []float64) int {
	branch, worst := -1, intTol
	for _, i := range p.intVars {
		dist := math.Abs(x[i] - math.Round(x[i]))
		if dist > worst {
			branch, worst = i, dist
		}
	}
	return branch
}

func (p *problem) trueObjective(score float64) float64 {
	if p.maximize {
		return score
	}
	return -score
}
