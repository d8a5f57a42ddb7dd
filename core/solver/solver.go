package solver

import "context"

// Status classifies the outcome of one solve.
type Status int

const (
	// StatusOptimal means the returned assignment is proven optimal.
	StatusOptimal Status = iota
	// StatusFeasible means a feasible but not proven optimal assignment
	// was returned, typically because a node limit was hit.
	StatusFeasible
	// StatusInfeasible means no assignment satisfies the constraints.
	StatusInfeasible
	// StatusTimedOut means the time limit expired; the best incumbent
	// found so far, if any, is returned.
	StatusTimedOut
	// StatusError means the engine failed for a reason unrelated to the
	// model, for example a numerical breakdown.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusFeasible:
		return "feasible"
	case StatusInfeasible:
		return "infeasible"
	case StatusTimedOut:
		return "timed_out"
	case StatusError:
		return "error"
	}
	return "unknown"
}

// Usable reports whether the result carries an assignment worth
// extracting. Timed-out results are usable when an incumbent exists.
func (s Status) Usable() bool {
	return s == StatusOptimal || s == StatusFeasible || s == StatusTimedOut
}

// Result is the outcome of a solve. Values is indexed by Var handle and
// is empty when no assignment was found.
type Result struct {
	Status    Status
	Objective float64
	Values    []float64
}

// Value returns the assignment for v, or 0 when no assignment exists.
func (r Result) Value(v Var) float64 {
	if int(v) >= len(r.Values) {
		return 0
	}
	return r.Values[v]
}

// HasAssignment reports whether the result carries variable values.
func (r Result) HasAssignment() bool { return len(r.Values) > 0 }

// Solver is the engine boundary. Implementations must honour context
// cancellation and deadlines: a cancelled context aborts the solve with
// an error, an expired deadline yields StatusTimedOut with the best
// incumbent found.
type Solver interface {
	Solve(ctx context.Context, m *Model) (Result, error)
}
