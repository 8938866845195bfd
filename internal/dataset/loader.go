package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"

	"flowplan/internal/model"
)

// Input table file names within the data directory.
const (
	FacilitiesFile = "facilities.csv"
	CustomersFile  = "customers.csv"
	ProductsFile   = "products.csv"
	CostsFile      = "transport_costs.csv"
	DemandFile     = "demand.csv"
	CapacityFile   = "capacity.csv"
)

// table is one parsed CSV file: a header index plus data rows tagged
// with their original line numbers for error reporting.
type table struct {
	name string
	cols map[string]int
	rows []row
}

type row struct {
	line   int
	fields []string
}

func readTable(path string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	name := filepath.Base(path)
	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, errors.Wrapf(err, "read header of %s", name)
	}
	t := &table{name: name, cols: make(map[string]int, len(header))}
	for i, c := range header {
		t.cols[c] = i
	}
	for line := 2; ; line++ {
		fields, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &DataError{Table: name, Line: line, Msg: err.Error()}
		}
		t.rows = append(t.rows, row{line: line, fields: fields})
	}
	return t, nil
}

// get returns the named column of a row; the column must exist.
func (t *table) get(r row, col string) (string, error) {
	i, ok := t.cols[col]
	if !ok {
		return "", &DataError{Table: t.name, Line: 1, Msg: "missing column " + col}
	}
	return r.fields[i], nil
}

// getFloat parses a required nonnegative numeric column.
func (t *table) getFloat(r row, col, key string) (float64, error) {
	s, err := t.get(r, col)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &DataError{Table: t.name, Line: r.line, Key: key, Msg: "bad " + col + " value " + strconv.Quote(s)}
	}
	if v < 0 {
		return 0, &DataError{Table: t.name, Line: r.line, Key: key, Msg: col + " is negative"}
	}
	return v, nil
}

// getOptFloat is like getFloat for columns that may be absent entirely.
func (t *table) getOptFloat(r row, col, key string) (float64, error) {
	if _, ok := t.cols[col]; !ok {
		return 0, nil
	}
	return t.getFloat(r, col, key)
}

// Load reads the six input tables from dir into a DataSet. It fails on
// the first malformed row: duplicate keys, negative quantities, and
// unparsable numbers are rejected here, before any model is built.
// Cross-table references are checked separately by Validate.
func Load(dir string) (*model.DataSet, error) {
	ds := model.NewDataSet()

	t, err := readTable(filepath.Join(dir, FacilitiesFile))
	if err != nil {
		return nil, err
	}
	for _, r := range t.rows {
		id, err := t.get(r, "facility_id")
		if err != nil {
			return nil, err
		}
		if _, dup := ds.Facilities[id]; dup {
			return nil, &DataError{Table: t.name, Line: r.line, Key: id, Msg: "duplicate facility_id"}
		}
		loc, _ := t.get(r, "location")
		typ, _ := t.get(r, "type")
		opCost, err := t.getOptFloat(r, "operational_cost", id)
		if err != nil {
			return nil, err
		}
		ds.Facilities[id] = model.Facility{ID: id, Location: loc, Type: typ, OperationalCost: opCost}
	}

	t, err = readTable(filepath.Join(dir, CustomersFile))
	if err != nil {
		return nil, err
	}
	for _, r := range t.rows {
		id, err := t.get(r, "customer_id")
		if err != nil {
			return nil, err
		}
		if _, dup := ds.Customers[id]; dup {
			return nil, &DataError{Table: t.name, Line: r.line, Key: id, Msg: "duplicate customer_id"}
		}
		name, _ := t.get(r, "name")
		region, _ := t.get(r, "region")
		ds.Customers[id] = model.Customer{ID: id, Name: name, Region: region}
	}

	t, err = readTable(filepath.Join(dir, ProductsFile))
	if err != nil {
		return nil, err
	}
	for _, r := range t.rows {
		id, err := t.get(r, "product_id")
		if err != nil {
			return nil, err
		}
		if _, dup := ds.Products[id]; dup {
			return nil, &DataError{Table: t.name, Line: r.line, Key: id, Msg: "duplicate product_id"}
		}
		name, _ := t.get(r, "name")
		weight, err := t.getOptFloat(r, "unit_weight", id)
		if err != nil {
			return nil, err
		}
		ds.Products[id] = model.Product{ID: id, Name: name, UnitWeight: weight}
	}

	t, err = readTable(filepath.Join(dir, CostsFile))
	if err != nil {
		return nil, err
	}
	for _, r := range t.rows {
		fid, err := t.get(r, "facility_id")
		if err != nil {
			return nil, err
		}
		cid, err := t.get(r, "customer_id")
		if err != nil {
			return nil, err
		}
		key := model.RouteKey{FacilityID: fid, CustomerID: cid}
		tag := fid + "->" + cid
		if _, dup := ds.Costs[key]; dup {
			return nil, &DataError{Table: t.name, Line: r.line, Key: tag, Msg: "duplicate route"}
		}
		cost, err := t.getFloat(r, "cost_per_unit", tag)
		if err != nil {
			return nil, err
		}
		transit, err := t.getOptFloat(r, "transit_time_days", tag)
		if err != nil {
			return nil, err
		}
		ds.Costs[key] = model.TransportCost{FacilityID: fid, CustomerID: cid, CostPerUnit: cost, TransitDays: int(transit)}
	}

	t, err = readTable(filepath.Join(dir, DemandFile))
	if err != nil {
		return nil, err
	}
	for _, r := range t.rows {
		cid, err := t.get(r, "customer_id")
		if err != nil {
			return nil, err
		}
		pid, err := t.get(r, "product_id")
		if err != nil {
			return nil, err
		}
		key := model.DemandKey{CustomerID: cid, ProductID: pid}
		tag := cid + "/" + pid
		if _, dup := ds.Demands[key]; dup {
			return nil, &DataError{Table: t.name, Line: r.line, Key: tag, Msg: "duplicate demand row"}
		}
		qty, err := t.getFloat(r, "demand", tag)
		if err != nil {
			return nil, err
		}
		ds.Demands[key] = model.Demand{CustomerID: cid, ProductID: pid, Quantity: qty}
	}

	t, err = readTable(filepath.Join(dir, CapacityFile))
	if err != nil {
		return nil, err
	}
	for _, r := range t.rows {
		fid, err := t.get(r, "facility_id")
		if err != nil {
			return nil, err
		}
		pid, err := t.get(r, "product_id")
		if err != nil {
			return nil, err
		}
		key := model.CapacityKey{FacilityID: fid, ProductID: pid}
		tag := fid + "/" + pid
		if _, dup := ds.Capacities[key]; dup {
			return nil, &DataError{Table: t.name, Line: r.line, Key: tag, Msg: "duplicate capacity row"}
		}
		qty, err := t.getFloat(r, "capacity", tag)
		if err != nil {
			return nil, err
		}
		util, err := t.getOptFloat(r, "current_utilization", tag)
		if err != nil {
			return nil, err
		}
		if util >= 1 {
			return nil, &DataError{Table: t.name, Line: r.line, Key: tag, Msg: "current_utilization must be below 1"}
		}
		ds.Capacities[key] = model.Capacity{FacilityID: fid, ProductID: pid, Quantity: qty, Utilization: util}
	}

	return ds, nil
}
