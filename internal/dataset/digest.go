package dataset

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"flowplan/internal/model"
)

// Digest returns a stable sha256 over a canonical serialization of the
// dataset. Equal inputs always hash equal regardless of row order in
// the source files; the planner uses it to key cached plans and to find
// a baseline run for the savings report.
func Digest(ds *model.DataSet) string {
	h := sha256.New()
	for _, id := range facilityIDs(ds) {
		f := ds.Facilities[id]
		fmt.Fprintf(h, "F|%s|%s|%s|%g\n", f.ID, f.Location, f.Type, f.OperationalCost)
	}
	for _, id := range customerIDs(ds) {
		c := ds.Customers[id]
		fmt.Fprintf(h, "C|%s|%s|%s\n", c.ID, c.Name, c.Region)
	}
	for _, id := range ds.ProductIDs() {
		p := ds.Products[id]
		fmt.Fprintf(h, "P|%s|%s|%g\n", p.ID, p.Name, p.UnitWeight)
	}
	for _, k := range ds.RouteKeys() {
		c := ds.Costs[k]
		fmt.Fprintf(h, "R|%s|%s|%g|%d\n", c.FacilityID, c.CustomerID, c.CostPerUnit, c.TransitDays)
	}
	for _, k := range ds.DemandKeys() {
		d := ds.Demands[k]
		fmt.Fprintf(h, "D|%s|%s|%g\n", d.CustomerID, d.ProductID, d.Quantity)
	}
	for _, k := range ds.CapacityKeys() {
		c := ds.Capacities[k]
		fmt.Fprintf(h, "K|%s|%s|%g|%g\n", c.FacilityID, c.ProductID, c.Quantity, c.Utilization)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func facilityIDs(ds *model.DataSet) []string {
	ids := make([]string, 0, len(ds.Facilities))
	for id := range ds.Facilities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func customerIDs(ds *model.DataSet) []string {
	ids := make([]string, 0, len(ds.Customers))
	for id := range ds.Customers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
