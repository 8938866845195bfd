// Package plan turns a solved linear program back into a shipment
// table, cross-checking the result against the input data on the way.
package plan

import (
	"fmt"
	"math"

	"flowplan/internal/lp"
	"flowplan/internal/model"
	"flowplan/internal/solver"
)

// Epsilon is the cutoff below which a solver quantity is treated as
// exactly zero. It absorbs simplex floating-point noise, not real
// shipments.
const Epsilon = 1e-6

// costTolerance is the relative tolerance for the objective cross-check.
const costTolerance = 1e-6

// InvalidResultError is returned when extraction is attempted on a
// non-Optimal solve.
type InvalidResultError struct {
	Status solver.Status
	Detail string
}

func (e *InvalidResultError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("plan: cannot extract from %s result: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("plan: cannot extract from %s result", e.Status)
}

// ConsistencyError means the recomputed plan cost disagrees with the
// solver-reported objective. That is an internal bug in the builder or
// the extractor, never a data problem, and is always fatal.
type ConsistencyError struct {
	Reported   float64
	Recomputed float64
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("plan: recomputed cost %.6f disagrees with solver objective %.6f", e.Recomputed, e.Reported)
}

// Extract builds the shipment plan from an Optimal result. Variables at
// or below Epsilon are dropped; values within Epsilon of an integer are
// snapped for display. Extraction is deterministic: the same inputs
// always produce a byte-identical plan.
func Extract(ds *model.DataSet, p *lp.Program, res solver.Result) (*model.ShipmentPlan, error) {
	if res.Status != solver.StatusOptimal {
		return nil, &InvalidResultError{Status: res.Status, Detail: res.Detail}
	}
	if len(res.Values) != p.NumVariables() {
		return nil, fmt.Errorf("plan: result has %d values for %d variables", len(res.Values), p.NumVariables())
	}

	out := &model.ShipmentPlan{Shipments: []model.Shipment{}}
	recomputed := 0.0
	for i, v := range p.Vars {
		qty := res.Values[i]
		if qty <= Epsilon {
			continue
		}
		if r := math.Round(qty); math.Abs(qty-r) < Epsilon {
			qty = r
		}
		cost, ok := ds.Costs[model.RouteKey{FacilityID: v.FacilityID, CustomerID: v.CustomerID}]
		if !ok {
			return nil, fmt.Errorf("plan: shipment %s->%s has no route cost", v.FacilityID, v.CustomerID)
		}
		line := qty * cost.CostPerUnit
		recomputed += line
		out.Shipments = append(out.Shipments, model.Shipment{
			FacilityID:  v.FacilityID,
			CustomerID:  v.CustomerID,
			ProductID:   v.ProductID,
			Quantity:    qty,
			UnitCost:    cost.CostPerUnit,
			TransitDays: cost.TransitDays,
			LineCost:    line,
		})
	}

	if !costsAgree(res.Objective, recomputed) {
		return nil, &ConsistencyError{Reported: res.Objective, Recomputed: recomputed}
	}
	out.TotalCost = res.Objective
	return out, nil
}

func costsAgree(reported, recomputed float64) bool {
	scale := math.Max(1, math.Max(math.Abs(reported), math.Abs(recomputed)))
	return math.Abs(reported-recomputed) <= costTolerance*scale
}
