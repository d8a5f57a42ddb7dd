// Package solver defines the abstract mixed-integer programming
// boundary. A Model is plain data: variable records, linear constraint
// records and a linear objective. Concrete engines live under
// infra/solver and only need to understand this representation.
package solver

// VarType distinguishes continuous from integral decision variables.
type VarType int

const (
	Continuous VarType = iota
	Integer
	Binary
)

// Var is an opaque handle to a variable inside one Model.
type Var int

// Variable declares bounds and integrality for a decision variable.
type Variable struct {
	Name  string
	Type  VarType
	Lower float64
	Upper float64 // math.Inf(1) for unbounded
}

// Sense is the direction of a linear constraint.
type Sense int

const (
	LessEq Sense = iota
	GreaterEq
	Equal
)

// Constraint is a linear row: sum(Coeffs[v] * x[v]) Sense RHS.
type Constraint struct {
	Name   string
	Coeffs map[Var]float64
	Sense  Sense
	RHS    float64
}

// Model is a self-contained MIP instance.
type Model struct {
	vars     []Variable
	cons     []Constraint
	obj      map[Var]float64
	maximize bool
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{obj: make(map[Var]float64)}
}

// AddVar appends a variable and returns its handle. Binary variables
// have their bounds forced to [0,1].
func (m *Model) AddVar(v Variable) Var {
	if v.Type == Binary {
		v.Lower, v.Upper = 0, 1
	}
	m.vars = append(m.vars, v)
	return Var(len(m.vars) - 1)
}

// AddConstraint appends a linear constraint row.
func (m *Model) AddConstraint(c Constraint) {
	m.cons = append(m.cons, c)
}

// SetObjective replaces the objective coefficients and sense.
func (m *Model) SetObjective(coeffs map[Var]float64, maximize bool) {
	m.obj = coeffs
	m.maximize = maximize
}

// NumVars returns the number of declared variables.
func (m *Model) NumVars() int { return len(m.vars) }

// Vars returns the declared variables in handle order.
func (m *Model) Vars() []Variable { return m.vars }

// Constraints returns the constraint rows in insertion order.
func (m *Model) Constraints() []Constraint { return m.cons }

// Objective returns the objective coefficients and whether the model
// maximizes.
func (m *Model) Objective() (map[Var]float64, bool) { return m.obj, m.maximize }
