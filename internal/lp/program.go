// Package lp holds the solver-independent linear-program model: decision
// variables keyed by (facility, customer, product), a linear objective,
// and an explicit list of constraint descriptors. Nothing here knows
// which solver library will run the program; translation to a concrete
// solver call happens at the adapter boundary.
package lp

import "flowplan/internal/model"

type Relation int

const (
	LessEq Relation = iota
	GreaterEq
	Equal
)

func (r Relation) String() string {
	switch r {
	case LessEq:
		return "<="
	case GreaterEq:
		return ">="
	case Equal:
		return "="
	}
	return "?"
}

// Variable is one decision: the quantity of a product shipped from a
// facility to a customer. Every variable has lower bound 0 and is
// continuous.
type Variable struct {
	FacilityID string
	CustomerID string
	ProductID  string
}

// Term pairs a variable (by index into Program.Vars) with a coefficient.
type Term struct {
	Var   int
	Coeff float64
}

type Expr struct {
	Terms []Term
}

func (e *Expr) Add(v int, coeff float64) {
	e.Terms = append(e.Terms, Term{Var: v, Coeff: coeff})
}

// Constraint is one named row of the program: Expr Rel Bound.
type Constraint struct {
	Name  string
	Expr  Expr
	Rel   Relation
	Bound float64
}

// Program is a complete minimization LP. Vars are sorted by (facility,
// customer, product) and Constraints are emitted demand rows first,
// then capacity rows, then any registered extras, so building the same
// dataset twice yields an identical program.
type Program struct {
	Vars        []Variable
	Objective   Expr
	Constraints []Constraint

	// Unrouted lists positive demand pairs that no variable can serve;
	// their demand rows have an empty left-hand side.
	Unrouted []model.DemandKey

	index map[Variable]int
}

// VarIndex resolves a triple to its variable index.
func (p *Program) VarIndex(facilityID, customerID, productID string) (int, bool) {
	i, ok := p.index[Variable{FacilityID: facilityID, CustomerID: customerID, ProductID: productID}]
	return i, ok
}

func (p *Program) NumVariables() int   { return len(p.Vars) }
func (p *Program) NumConstraints() int { return len(p.Constraints) }

func (p *Program) buildIndex() {
	p.index = make(map[Variable]int, len(p.Vars))
	for i, v := range p.Vars {
		p.index[v] = i
	}
}
