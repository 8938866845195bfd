// Package report writes plan artifacts for downstream consumption.
package report

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"

	"flowplan/internal/model"
)

const (
	PlanFile    = "shipment_plan.csv"
	SummaryFile = "summary.json"
)

// WritePlanCSV writes one row per shipment in plan order.
func WritePlanCSV(w io.Writer, plan *model.ShipmentPlan) error {
	cw := csv.NewWriter(w)
	header := []string{"facility_id", "customer_id", "product_id", "quantity", "unit_cost", "transit_days", "line_cost"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, s := range plan.Shipments {
		row := []string{
			s.FacilityID,
			s.CustomerID,
			s.ProductID,
			formatFloat(s.Quantity),
			formatFloat(s.UnitCost),
			strconv.Itoa(s.TransitDays),
			formatFloat(s.LineCost),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteSummaryJSON(w io.Writer, sum *model.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sum)
}

// WriteAll materializes both artifacts under dir, creating it if needed.
func WriteAll(dir string, plan *model.ShipmentPlan, sum *model.Summary) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "create output dir %s", dir)
	}
	if err := writeFile(filepath.Join(dir, PlanFile), func(w io.Writer) error {
		return WritePlanCSV(w, plan)
	}); err != nil {
		return err
	}
	return writeFile(filepath.Join(dir, SummaryFile), func(w io.Writer) error {
		return WriteSummaryJSON(w, sum)
	})
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if err := fn(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "write %s", path)
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
