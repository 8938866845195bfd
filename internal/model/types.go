package model

import "sort"

// Domain records for the supply network. A DataSet is immutable once
// validated; every downstream stage reads it and produces new values.

type Facility struct {
	ID              string  `json:"facilityId"`
	Location        string  `json:"location,omitempty"`
	Type            string  `json:"type,omitempty"`
	OperationalCost float64 `json:"operationalCost,omitempty"`
}

type Customer struct {
	ID     string `json:"customerId"`
	Name   string `json:"name,omitempty"`
	Region string `json:"region,omitempty"`
}

type Product struct {
	ID         string  `json:"productId"`
	Name       string  `json:"name,omitempty"`
	UnitWeight float64 `json:"unitWeight,omitempty"`
}

// TransportCost prices a route. The cost is per unit shipped and covers
// every product moved on that route; the cost table is route-level, not
// per-product. A (facility, customer) pair with no row here has no
// route at all, which is never the same thing as a zero-cost route.
type TransportCost struct {
	FacilityID  string  `json:"facilityId"`
	CustomerID  string  `json:"customerId"`
	CostPerUnit float64 `json:"costPerUnit"`
	TransitDays int     `json:"transitDays,omitempty"`
}

type Demand struct {
	CustomerID string  `json:"customerId"`
	ProductID  string  `json:"productId"`
	Quantity   float64 `json:"quantity"`
}

// Capacity caps what a facility may supply of a product. Utilization is
// the fraction already committed to other work.
type Capacity struct {
	FacilityID  string  `json:"facilityId"`
	ProductID   string  `json:"productId"`
	Quantity    float64 `json:"quantity"`
	Utilization float64 `json:"utilization,omitempty"`
}

// Effective returns the capacity still available for planning.
func (c Capacity) Effective() float64 {
	return c.Quantity * (1 - c.Utilization)
}

type RouteKey struct {
	FacilityID string
	CustomerID string
}

type DemandKey struct {
	CustomerID string
	ProductID  string
}

type CapacityKey struct {
	FacilityID string
	ProductID  string
}

// DataSet is the normalized in-memory form of the six input tables.
type DataSet struct {
	Facilities map[string]Facility
	Customers  map[string]Customer
	Products   map[string]Product
	Costs      map[RouteKey]TransportCost
	Demands    map[DemandKey]Demand
	Capacities map[CapacityKey]Capacity
}

func NewDataSet() *DataSet {
	return &DataSet{
		Facilities: map[string]Facility{},
		Customers:  map[string]Customer{},
		Products:   map[string]Product{},
		Costs:      map[RouteKey]TransportCost{},
		Demands:    map[DemandKey]Demand{},
		Capacities: map[CapacityKey]Capacity{},
	}
}

// RouteKeys returns the route keys sorted by (facility, customer) so
// that every pass over the dataset iterates in one fixed order.
func (d *DataSet) RouteKeys() []RouteKey {
	keys := make([]RouteKey, 0, len(d.Costs))
	for k := range d.Costs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].FacilityID != keys[j].FacilityID {
			return keys[i].FacilityID < keys[j].FacilityID
		}
		return keys[i].CustomerID < keys[j].CustomerID
	})
	return keys
}

func (d *DataSet) DemandKeys() []DemandKey {
	keys := make([]DemandKey, 0, len(d.Demands))
	for k := range d.Demands {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].CustomerID != keys[j].CustomerID {
			return keys[i].CustomerID < keys[j].CustomerID
		}
		return keys[i].ProductID < keys[j].ProductID
	})
	return keys
}

func (d *DataSet) CapacityKeys() []CapacityKey {
	keys := make([]CapacityKey, 0, len(d.Capacities))
	for k := range d.Capacities {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].FacilityID != keys[j].FacilityID {
			return keys[i].FacilityID < keys[j].FacilityID
		}
		return keys[i].ProductID < keys[j].ProductID
	})
	return keys
}

func (d *DataSet) ProductIDs() []string {
	ids := make([]string, 0, len(d.Products))
	for id := range d.Products {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
