package lp

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"flowplan/internal/model"
)

// testDataSet returns a small two-facility network. F1 carries only P1;
// F2 carries P1 (partly utilized) and P2.
func testDataSet() *model.DataSet {
	ds := model.NewDataSet()
	for _, id := range []string{"F1", "F2"} {
		ds.Facilities[id] = model.Facility{ID: id}
	}
	for _, id := range []string{"C1", "C2"} {
		ds.Customers[id] = model.Customer{ID: id}
	}
	for _, id := range []string{"P1", "P2"} {
		ds.Products[id] = model.Product{ID: id}
	}
	addRoute(ds, "F1", "C1", 2.0)
	addRoute(ds, "F1", "C2", 4.0)
	addRoute(ds, "F2", "C1", 3.5)
	addRoute(ds, "F2", "C2", 1.5)
	addDemand(ds, "C1", "P1", 300)
	addDemand(ds, "C2", "P1", 200)
	addDemand(ds, "C2", "P2", 50)
	addCapacity(ds, "F1", "P1", 500, 0)
	addCapacity(ds, "F2", "P1", 400, 0.25)
	addCapacity(ds, "F2", "P2", 100, 0)
	return ds
}

func addRoute(ds *model.DataSet, fid, cid string, cost float64) {
	ds.Costs[model.RouteKey{FacilityID: fid, CustomerID: cid}] = model.TransportCost{FacilityID: fid, CustomerID: cid, CostPerUnit: cost}
}

func addDemand(ds *model.DataSet, cid, pid string, qty float64) {
	ds.Demands[model.DemandKey{CustomerID: cid, ProductID: pid}] = model.Demand{CustomerID: cid, ProductID: pid, Quantity: qty}
}

func addCapacity(ds *model.DataSet, fid, pid string, qty, util float64) {
	ds.Capacities[model.CapacityKey{FacilityID: fid, ProductID: pid}] = model.Capacity{FacilityID: fid, ProductID: pid, Quantity: qty, Utilization: util}
}

func TestBuildVariables(t *testing.T) {
	p, err := NewBuilder().Build(testDataSet())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := []Variable{
		{FacilityID: "F1", CustomerID: "C1", ProductID: "P1"},
		{FacilityID: "F1", CustomerID: "C2", ProductID: "P1"},
		{FacilityID: "F2", CustomerID: "C1", ProductID: "P1"},
		{FacilityID: "F2", CustomerID: "C1", ProductID: "P2"},
		{FacilityID: "F2", CustomerID: "C2", ProductID: "P1"},
		{FacilityID: "F2", CustomerID: "C2", ProductID: "P2"},
	}
	if diff := cmp.Diff(want, p.Vars); diff != "" {
		t.Errorf("variables mismatch (-want +got):\n%s", diff)
	}
	// F1 has no P2 capacity, so no F1/P2 variable may exist.
	if _, ok := p.VarIndex("F1", "C2", "P2"); ok {
		t.Error("variable exists for facility without product capacity")
	}
}

func TestBuildConstraints(t *testing.T) {
	p, err := NewBuilder().Build(testDataSet())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	byName := map[string]Constraint{}
	for _, c := range p.Constraints {
		byName[c.Name] = c
	}
	if len(byName) != 6 {
		t.Fatalf("got %d constraints, want 6 (3 demand + 3 capacity)", len(byName))
	}

	d, ok := byName["demand_C1_P1"]
	if !ok {
		t.Fatal("missing demand_C1_P1")
	}
	if d.Rel != GreaterEq || d.Bound != 300 || len(d.Expr.Terms) != 2 {
		t.Errorf("demand_C1_P1 = %+v, want >= 300 over two variables", d)
	}

	// Utilization scales the capacity bound: 400 * (1 - 0.25).
	c, ok := byName["capacity_F2_P1"]
	if !ok {
		t.Fatal("missing capacity_F2_P1")
	}
	if c.Rel != LessEq || c.Bound != 300 {
		t.Errorf("capacity_F2_P1 bound = %g (%s), want <= 300", c.Bound, c.Rel)
	}
}

func TestBuildSkipsZeroDemandAndZeroCapacity(t *testing.T) {
	ds := testDataSet()
	addDemand(ds, "C1", "P2", 0)
	addCapacity(ds, "F1", "P2", 0, 0)

	p, err := NewBuilder().Build(ds)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, c := range p.Constraints {
		if c.Name == "demand_C1_P2" {
			t.Error("zero demand produced a constraint row")
		}
		if c.Name == "capacity_F1_P2" {
			t.Error("zero capacity produced a constraint row")
		}
	}
	if _, ok := p.VarIndex("F1", "C1", "P2"); ok {
		t.Error("zero capacity produced a variable")
	}
	if len(p.Unrouted) != 0 {
		t.Errorf("unrouted = %v, want none", p.Unrouted)
	}
}

func TestBuildDeterministic(t *testing.T) {
	p1, err := NewBuilder().Build(testDataSet())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	p2, err := NewBuilder().Build(testDataSet())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	opts := cmpopts.IgnoreUnexported(Program{})
	if diff := cmp.Diff(p1, p2, opts); diff != "" {
		t.Errorf("two builds of the same dataset differ (-first +second):\n%s", diff)
	}
}

func TestBuildRecordsUnroutedDemand(t *testing.T) {
	ds := testDataSet()
	ds.Products["P3"] = model.Product{ID: "P3"}
	addDemand(ds, "C1", "P3", 40) // no facility has P3 capacity

	p, err := NewBuilder().Build(ds)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := []model.DemandKey{{CustomerID: "C1", ProductID: "P3"}}
	if diff := cmp.Diff(want, p.Unrouted); diff != "" {
		t.Errorf("unrouted mismatch (-want +got):\n%s", diff)
	}

	err = Verify(p)
	if err == nil {
		t.Fatal("Verify passed with unserved demand")
	}
	if !strings.Contains(err.Error(), "C1/P3") {
		t.Errorf("Verify error %q does not name the demand pair", err)
	}
}

func TestBuildExtraConstraint(t *testing.T) {
	b := NewBuilder().WithConstraint(ExtraConstraint{
		Name:  "min_ship_F1_C1",
		Terms: []ExtraTerm{{FacilityID: "F1", CustomerID: "C1", ProductID: "P1", Coeff: 1}},
		Rel:   GreaterEq,
		Bound: 10,
	})
	p, err := b.Build(testDataSet())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	last := p.Constraints[len(p.Constraints)-1]
	if last.Name != "min_ship_F1_C1" || last.Bound != 10 {
		t.Errorf("extra constraint = %+v", last)
	}

	bad := NewBuilder().WithConstraint(ExtraConstraint{
		Name:  "broken",
		Terms: []ExtraTerm{{FacilityID: "F1", CustomerID: "C1", ProductID: "P9", Coeff: 1}},
		Rel:   LessEq,
		Bound: 1,
	})
	if _, err := bad.Build(testDataSet()); err == nil {
		t.Fatal("extra constraint over unknown variable did not fail")
	}
}

func TestCapacityShortfalls(t *testing.T) {
	ds := testDataSet()
	if got := CapacityShortfalls(ds); len(got) != 0 {
		t.Fatalf("shortfalls = %+v, want none", got)
	}
	addDemand(ds, "C1", "P2", 200) // P2 demand 250 vs capacity 100
	got := CapacityShortfalls(ds)
	if len(got) != 1 || got[0].ProductID != "P2" {
		t.Fatalf("shortfalls = %+v, want one for P2", got)
	}
	if got[0].Demand != 250 || got[0].Capacity != 100 {
		t.Errorf("P2 shortfall = %+v, want demand 250 capacity 100", got[0])
	}
}
