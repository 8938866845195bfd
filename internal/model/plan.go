package model

// Shipment is one line of the extracted plan: a positive quantity of a
// product moving from a facility to a customer.
type Shipment struct {
	FacilityID  string  `json:"facilityId"`
	CustomerID  string  `json:"customerId"`
	ProductID   string  `json:"productId"`
	Quantity    float64 `json:"quantity"`
	UnitCost    float64 `json:"unitCost"`
	TransitDays int     `json:"transitDays,omitempty"`
	LineCost    float64 `json:"lineCost"`
}

// ShipmentPlan is the validated solver output. Shipments are ordered by
// (facility, customer, product); extraction of the same inputs always
// yields an identical plan.
type ShipmentPlan struct {
	Shipments []Shipment `json:"shipments"`
	TotalCost float64    `json:"totalCost"`
}

// SolverStats describes the solved model for run records and metrics.
type SolverStats struct {
	Variables   int   `json:"variables"`
	Constraints int   `json:"constraints"`
	SolveMillis int64 `json:"solveMillis"`
}

// SavingsReport compares the optimized cost against a baseline.
type SavingsReport struct {
	BaselineCost   float64 `json:"baselineCost"`
	OptimizedCost  float64 `json:"optimizedCost"`
	Savings        float64 `json:"savings"`
	SavingsPercent float64 `json:"savingsPercent"`
}

// Summary is the run-level output written next to the plan table.
type Summary struct {
	Status        string         `json:"status"`
	TotalCost     float64        `json:"totalCost"`
	ShipmentCount int            `json:"shipmentCount"`
	DatasetDigest string         `json:"datasetDigest,omitempty"`
	Savings       *SavingsReport `json:"savings,omitempty"`
	Stats         SolverStats    `json:"stats"`
}
