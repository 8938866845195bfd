package plan

import (
	"sort"

	"flowplan/internal/model"
)

// TopN returns the n largest shipments by quantity. Ties are broken by
// (facility, customer, product) so the ranking is deterministic. n <= 0
// or n beyond the plan size returns every shipment ranked.
func TopN(p *model.ShipmentPlan, n int) []model.Shipment {
	ranked := append([]model.Shipment(nil), p.Shipments...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Quantity != ranked[j].Quantity {
			return ranked[i].Quantity > ranked[j].Quantity
		}
		if ranked[i].FacilityID != ranked[j].FacilityID {
			return ranked[i].FacilityID < ranked[j].FacilityID
		}
		if ranked[i].CustomerID != ranked[j].CustomerID {
			return ranked[i].CustomerID < ranked[j].CustomerID
		}
		return ranked[i].ProductID < ranked[j].ProductID
	})
	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// Savings compares the optimized cost with a baseline, e.g. the cost of
// a previous plan for the same inputs. A nonpositive baseline yields no
// report.
func Savings(optimized, baseline float64) *model.SavingsReport {
	if baseline <= 0 {
		return nil
	}
	saved := baseline - optimized
	return &model.SavingsReport{
		BaselineCost:   baseline,
		OptimizedCost:  optimized,
		Savings:        saved,
		SavingsPercent: saved / baseline * 100,
	}
}
