package lp

import (
	"fmt"

	"flowplan/internal/model"
)

// ExtraTerm references a variable by its triple, so callers can state
// additional constraints without knowing variable indices.
type ExtraTerm struct {
	FacilityID string
	CustomerID string
	ProductID  string
	Coeff      float64
}

// ExtraConstraint is a named constraint applied after the base demand
// and capacity rows, e.g. a minimum shipment size on a route. Extras
// never alter variable creation; a term that names a triple with no
// variable is a configuration error.
type ExtraConstraint struct {
	Name  string
	Terms []ExtraTerm
	Rel   Relation
	Bound float64
}

// Builder turns a validated DataSet into a Program. Build is a pure
// function of the dataset and the registered extras: no shared state,
// same input, same output.
type Builder struct {
	extras []ExtraConstraint
}

func NewBuilder() *Builder { return &Builder{} }

// WithConstraint registers an extra named constraint and returns the
// builder for chaining.
func (b *Builder) WithConstraint(ec ExtraConstraint) *Builder {
	b.extras = append(b.extras, ec)
	return b
}

// Build creates one variable per (facility, customer, product) triple
// where the route exists and the facility still has effective capacity
// for the product. A facility/product pair with zero or absent capacity
// contributes no variables at all, and a missing route never becomes a
// zero-cost (or penalty-cost) variable.
//
// The objective minimizes total transport cost using the route-level
// unit cost for every product on the route.
func (b *Builder) Build(ds *model.DataSet) (*Program, error) {
	p := &Program{}

	// Variables: route order × product order keeps the layout stable.
	products := ds.ProductIDs()
	for _, rk := range ds.RouteKeys() {
		for _, pid := range products {
			cap, ok := ds.Capacities[model.CapacityKey{FacilityID: rk.FacilityID, ProductID: pid}]
			if !ok || cap.Effective() <= 0 {
				continue
			}
			p.Vars = append(p.Vars, Variable{
				FacilityID: rk.FacilityID,
				CustomerID: rk.CustomerID,
				ProductID:  pid,
			})
		}
	}
	p.buildIndex()

	for i, v := range p.Vars {
		cost, ok := ds.Costs[model.RouteKey{FacilityID: v.FacilityID, CustomerID: v.CustomerID}]
		if !ok {
			return nil, fmt.Errorf("lp: no transport cost for route %s->%s", v.FacilityID, v.CustomerID)
		}
		p.Objective.Add(i, cost.CostPerUnit)
	}

	// Demand rows: sum over facilities serving the pair >= demand.
	// Zero demand contributes no row. A pair with no serving variable
	// still gets its row (empty left-hand side); Verify flags it and
	// the solver reports such a program infeasible.
	for _, dk := range ds.DemandKeys() {
		d := ds.Demands[dk]
		if d.Quantity <= 0 {
			continue
		}
		c := Constraint{
			Name:  fmt.Sprintf("demand_%s_%s", dk.CustomerID, dk.ProductID),
			Rel:   GreaterEq,
			Bound: d.Quantity,
		}
		for _, rk := range ds.RouteKeys() {
			if rk.CustomerID != dk.CustomerID {
				continue
			}
			if i, ok := p.VarIndex(rk.FacilityID, rk.CustomerID, dk.ProductID); ok {
				c.Expr.Add(i, 1)
			}
		}
		if len(c.Expr.Terms) == 0 {
			p.Unrouted = append(p.Unrouted, dk)
		}
		p.Constraints = append(p.Constraints, c)
	}

	// Capacity rows: sum over customers served <= effective capacity.
	for _, ck := range ds.CapacityKeys() {
		cap := ds.Capacities[ck]
		if cap.Effective() <= 0 {
			continue
		}
		c := Constraint{
			Name:  fmt.Sprintf("capacity_%s_%s", ck.FacilityID, ck.ProductID),
			Rel:   LessEq,
			Bound: cap.Effective(),
		}
		for _, rk := range ds.RouteKeys() {
			if rk.FacilityID != ck.FacilityID {
				continue
			}
			if i, ok := p.VarIndex(rk.FacilityID, rk.CustomerID, ck.ProductID); ok {
				c.Expr.Add(i, 1)
			}
		}
		if len(c.Expr.Terms) == 0 {
			// capacity on a facility with no routes constrains nothing
			continue
		}
		p.Constraints = append(p.Constraints, c)
	}

	for _, ec := range b.extras {
		c := Constraint{Name: ec.Name, Rel: ec.Rel, Bound: ec.Bound}
		for _, t := range ec.Terms {
			i, ok := p.VarIndex(t.FacilityID, t.CustomerID, t.ProductID)
			if !ok {
				return nil, fmt.Errorf("lp: constraint %q references %s->%s/%s which has no variable (no route or no capacity)",
					ec.Name, t.FacilityID, t.CustomerID, t.ProductID)
			}
			c.Expr.Add(i, t.Coeff)
		}
		p.Constraints = append(p.Constraints, c)
	}

	return p, nil
}
