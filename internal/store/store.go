package store

import (
	"context"
	"errors"
	"time"

	"flowplan/internal/model"
)

// Run is one planner invocation: the dataset digest it planned, the
// outcome, and the extracted plan when the solve was Optimal.
type Run struct {
	ID        string             `json:"id"`
	CreatedAt time.Time          `json:"createdAt"`
	Digest    string             `json:"digest"`
	Status    string             `json:"status"`
	TotalCost float64            `json:"totalCost"`
	Plan      *model.ShipmentPlan `json:"plan,omitempty"`
	Stats     model.SolverStats  `json:"stats"`
}

// Store persists planner runs. The memory implementation is used when
// no DATABASE_URL is set.
type Store interface {
	SaveRun(ctx context.Context, run Run) (string, error)
	GetRun(ctx context.Context, id string) (Run, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)
	// LatestRunByDigest returns the most recent run for a dataset
	// digest; the planner uses it as the savings baseline.
	LatestRunByDigest(ctx context.Context, digest string) (Run, error)
}

var ErrNotFound = errors.New("not found")
