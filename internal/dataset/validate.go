package dataset

import "flowplan/internal/model"

// Validate checks cross-table references: every cost, demand, and
// capacity row must point at facilities, customers, and products that
// actually exist. The first dangling reference aborts the run.
func Validate(ds *model.DataSet) error {
	for _, k := range ds.RouteKeys() {
		if _, ok := ds.Facilities[k.FacilityID]; !ok {
			return &DataError{Table: CostsFile, Key: k.FacilityID + "->" + k.CustomerID, Msg: "unknown facility_id"}
		}
		if _, ok := ds.Customers[k.CustomerID]; !ok {
			return &DataError{Table: CostsFile, Key: k.FacilityID + "->" + k.CustomerID, Msg: "unknown customer_id"}
		}
	}
	for _, k := range ds.DemandKeys() {
		if _, ok := ds.Customers[k.CustomerID]; !ok {
			return &DataError{Table: DemandFile, Key: k.CustomerID + "/" + k.ProductID, Msg: "unknown customer_id"}
		}
		if _, ok := ds.Products[k.ProductID]; !ok {
			return &DataError{Table: DemandFile, Key: k.CustomerID + "/" + k.ProductID, Msg: "unknown product_id"}
		}
	}
	for _, k := range ds.CapacityKeys() {
		if _, ok := ds.Facilities[k.FacilityID]; !ok {
			return &DataError{Table: CapacityFile, Key: k.FacilityID + "/" + k.ProductID, Msg: "unknown facility_id"}
		}
		if _, ok := ds.Products[k.ProductID]; !ok {
			return &DataError{Table: CapacityFile, Key: k.FacilityID + "/" + k.ProductID, Msg: "unknown product_id"}
		}
	}
	return nil
}
