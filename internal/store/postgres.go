package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"

	"flowplan/internal/model"
)

// Postgres stores runs in a single table; the plan itself is a jsonb
// column. Schema in scripts/schema.sql.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}
	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "ping postgres")
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) Close() error { return p.db.Close() }

func (p *Postgres) SaveRun(ctx context.Context, run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	var planJSON []byte
	if run.Plan != nil {
		b, err := json.Marshal(run.Plan)
		if err != nil {
			return "", errors.Wrap(err, "marshal plan")
		}
		planJSON = b
	}
	statsJSON, err := json.Marshal(run.Stats)
	if err != nil {
		return "", errors.Wrap(err, "marshal stats")
	}
	_, err = p.db.ExecContext(ctx,
		`INSERT INTO plan_runs (id, created_at, digest, status, total_cost, plan, stats)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		run.ID, run.CreatedAt, run.Digest, run.Status, run.TotalCost, planJSON, statsJSON)
	if err != nil {
		return "", errors.Wrap(err, "insert run")
	}
	return run.ID, nil
}

func (p *Postgres) GetRun(ctx context.Context, id string) (Run, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT id, created_at, digest, status, total_cost, plan, stats FROM plan_runs WHERE id=$1`, id)
	return scanRun(row)
}

func (p *Postgres) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, created_at, digest, status, total_cost, plan, stats
		 FROM plan_runs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "list runs")
	}
	defer rows.Close()
	out := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func (p *Postgres) LatestRunByDigest(ctx context.Context, digest string) (Run, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT id, created_at, digest, status, total_cost, plan, stats
		 FROM plan_runs WHERE digest=$1 ORDER BY created_at DESC LIMIT 1`, digest)
	return scanRun(row)
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRun(row scannable) (Run, error) {
	var run Run
	var planJSON, statsJSON []byte
	err := row.Scan(&run.ID, &run.CreatedAt, &run.Digest, &run.Status, &run.TotalCost, &planJSON, &statsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNotFound
	}
	if err != nil {
		return Run{}, errors.Wrap(err, "scan run")
	}
	if len(planJSON) > 0 {
		run.Plan = &model.ShipmentPlan{}
		if err := json.Unmarshal(planJSON, run.Plan); err != nil {
			return Run{}, errors.Wrap(err, "unmarshal plan")
		}
	}
	if len(statsJSON) > 0 {
		if err := json.Unmarshal(statsJSON, &run.Stats); err != nil {
			return Run{}, errors.Wrap(err, "unmarshal stats")
		}
	}
	return run, nil
}
