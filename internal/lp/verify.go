package lp

import (
	"fmt"
	"strings"

	"flowplan/internal/model"
)

// ModelingError reports demand that the program cannot satisfy by
// construction: positive demand with no variable able to serve it. It
// is detected statically so a broken network surfaces before the solver
// runs rather than as an opaque infeasibility.
type ModelingError struct {
	Unrouted []model.DemandKey
}

func (e *ModelingError) Error() string {
	pairs := make([]string, len(e.Unrouted))
	for i, k := range e.Unrouted {
		pairs[i] = k.CustomerID + "/" + k.ProductID
	}
	return fmt.Sprintf("lp: no route can serve demand for %s", strings.Join(pairs, ", "))
}

// Verify checks the built program for statically detectable modeling
// problems. Solving an unverified program is still safe: the solver
// reports an unroutable demand as StatusInfeasible.
func Verify(p *Program) error {
	if len(p.Unrouted) > 0 {
		return &ModelingError{Unrouted: p.Unrouted}
	}
	return nil
}

// ProductShortfall describes a product whose total demand exceeds the
// total effective capacity across all facilities. The program is still
// built and solved; the solver will report it infeasible.
type ProductShortfall struct {
	ProductID string
	Demand    float64
	Capacity  float64
}

// CapacityShortfalls aggregates demand against effective capacity per
// product. Callers log these as warnings before solving.
func CapacityShortfalls(ds *model.DataSet) []ProductShortfall {
	demand := map[string]float64{}
	for _, dk := range ds.DemandKeys() {
		demand[dk.ProductID] += ds.Demands[dk].Quantity
	}
	capacity := map[string]float64{}
	for _, ck := range ds.CapacityKeys() {
		capacity[ck.ProductID] += ds.Capacities[ck].Effective()
	}
	var out []ProductShortfall
	for _, pid := range ds.ProductIDs() {
		if demand[pid] > capacity[pid] {
			out = append(out, ProductShortfall{ProductID: pid, Demand: demand[pid], Capacity: capacity[pid]})
		}
	}
	return out
}
