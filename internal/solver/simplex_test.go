package solver

import (
	"context"
	"math"
	"testing"

	"flowplan/internal/lp"
	"flowplan/internal/model"
)

func buildProgram(t *testing.T, ds *model.DataSet) *lp.Program {
	t.Helper()
	p, err := lp.NewBuilder().Build(ds)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return p
}

func singleRouteDataSet(demand float64) *model.DataSet {
	ds := model.NewDataSet()
	ds.Facilities["F1"] = model.Facility{ID: "F1"}
	ds.Customers["C1"] = model.Customer{ID: "C1"}
	ds.Products["P1"] = model.Product{ID: "P1"}
	ds.Costs[model.RouteKey{FacilityID: "F1", CustomerID: "C1"}] = model.TransportCost{FacilityID: "F1", CustomerID: "C1", CostPerUnit: 2.0}
	ds.Demands[model.DemandKey{CustomerID: "C1", ProductID: "P1"}] = model.Demand{CustomerID: "C1", ProductID: "P1", Quantity: demand}
	ds.Capacities[model.CapacityKey{FacilityID: "F1", ProductID: "P1"}] = model.Capacity{FacilityID: "F1", ProductID: "P1", Quantity: 500}
	return ds
}

func TestSolveSingleRoute(t *testing.T) {
	p := buildProgram(t, singleRouteDataSet(300))
	res, err := NewSimplex().Solve(context.Background(), p, Options{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Status != StatusOptimal {
		t.Fatalf("status = %s, want Optimal (%s)", res.Status, res.Detail)
	}
	if math.Abs(res.Objective-600) > 1e-9 {
		t.Errorf("objective = %g, want 600", res.Objective)
	}
	if len(res.Values) != 1 || math.Abs(res.Values[0]-300) > 1e-9 {
		t.Errorf("values = %v, want [300]", res.Values)
	}
}

func TestSolveInfeasibleDemand(t *testing.T) {
	// demand 600 against effective capacity 500
	p := buildProgram(t, singleRouteDataSet(600))
	res, err := NewSimplex().Solve(context.Background(), p, Options{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Status != StatusInfeasible {
		t.Fatalf("status = %s, want Infeasible", res.Status)
	}
	if len(res.Values) != 0 {
		t.Errorf("infeasible result carries values: %v", res.Values)
	}
}

func TestSolvePrefersCheapRoute(t *testing.T) {
	ds := model.NewDataSet()
	for _, id := range []string{"F1", "F2"} {
		ds.Facilities[id] = model.Facility{ID: id}
	}
	ds.Customers["C1"] = model.Customer{ID: "C1"}
	ds.Products["P1"] = model.Product{ID: "P1"}
	ds.Costs[model.RouteKey{FacilityID: "F1", CustomerID: "C1"}] = model.TransportCost{FacilityID: "F1", CustomerID: "C1", CostPerUnit: 1.0}
	ds.Costs[model.RouteKey{FacilityID: "F2", CustomerID: "C1"}] = model.TransportCost{FacilityID: "F2", CustomerID: "C1", CostPerUnit: 3.0}
	ds.Demands[model.DemandKey{CustomerID: "C1", ProductID: "P1"}] = model.Demand{CustomerID: "C1", ProductID: "P1", Quantity: 50}
	ds.Capacities[model.CapacityKey{FacilityID: "F1", ProductID: "P1"}] = model.Capacity{FacilityID: "F1", ProductID: "P1", Quantity: 100}
	ds.Capacities[model.CapacityKey{FacilityID: "F2", ProductID: "P1"}] = model.Capacity{FacilityID: "F2", ProductID: "P1", Quantity: 1000}

	p := buildProgram(t, ds)
	res, err := NewSimplex().Solve(context.Background(), p, Options{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Status != StatusOptimal {
		t.Fatalf("status = %s (%s)", res.Status, res.Detail)
	}
	if math.Abs(res.Objective-50) > 1e-9 {
		t.Errorf("objective = %g, want 50", res.Objective)
	}
	i1, _ := p.VarIndex("F1", "C1", "P1")
	i2, _ := p.VarIndex("F2", "C1", "P1")
	if math.Abs(res.Values[i1]-50) > 1e-9 {
		t.Errorf("cheap route quantity = %g, want 50", res.Values[i1])
	}
	if res.Values[i2] > 1e-9 {
		t.Errorf("expensive route quantity = %g, want 0", res.Values[i2])
	}
}

func TestSolveUnroutedDemandIsInfeasible(t *testing.T) {
	ds := singleRouteDataSet(300)
	ds.Products["P2"] = model.Product{ID: "P2"}
	ds.Demands[model.DemandKey{CustomerID: "C1", ProductID: "P2"}] = model.Demand{CustomerID: "C1", ProductID: "P2", Quantity: 10}

	p := buildProgram(t, ds)
	res, err := NewSimplex().Solve(context.Background(), p, Options{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Status != StatusInfeasible {
		t.Fatalf("status = %s, want Infeasible", res.Status)
	}
	if res.Detail == "" {
		t.Error("infeasible result has no detail")
	}
}

func TestSolveEmptyProgram(t *testing.T) {
	res, err := NewSimplex().Solve(context.Background(), &lp.Program{}, Options{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Status != StatusOptimal || len(res.Values) != 0 {
		t.Errorf("empty program result = %+v, want Optimal with no values", res)
	}
}

func TestSolveCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := buildProgram(t, singleRouteDataSet(300))
	res, err := NewSimplex().Solve(ctx, p, Options{})
	if err == nil {
		t.Fatal("Solve with cancelled context succeeded")
	}
	if res.Status != StatusError {
		t.Errorf("status = %s, want Error", res.Status)
	}
}
