// Package planner wires the pipeline end to end: load, build, solve,
// extract, persist, report.
package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang/glog"
	pkgerrors "github.com/pkg/errors"

	"flowplan/internal/cache"
	"flowplan/internal/config"
	"flowplan/internal/dataset"
	"flowplan/internal/lp"
	"flowplan/internal/metrics"
	"flowplan/internal/model"
	"flowplan/internal/plan"
	"flowplan/internal/report"
	"flowplan/internal/solver"
	"flowplan/internal/store"
)

// SolveError is returned when the solver finishes without an optimal
// solution. The run is still recorded before it is returned.
type SolveError struct {
	Status solver.Status
	Detail string
}

func (e *SolveError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("planner: solve finished %s: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("planner: solve finished %s", e.Status)
}

// Outcome is the result of one planner run.
type Outcome struct {
	RunID   string
	Digest  string
	Plan    *model.ShipmentPlan
	Summary *model.Summary
	Cached  bool
}

type Planner struct {
	Solver  solver.Solver
	Store   store.Store
	Cache   *cache.PlanCache
	Builder *lp.Builder
}

func New(s solver.Solver, st store.Store) *Planner {
	return &Planner{Solver: s, Store: st, Builder: lp.NewBuilder()}
}

// Run executes the full pipeline for the dataset under cfg.DataDir and
// writes the plan and summary artifacts under cfg.OutDir.
func (pl *Planner) Run(ctx context.Context, cfg *config.Config) (*Outcome, error) {
	ds, err := dataset.Load(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	if err := dataset.Validate(ds); err != nil {
		return nil, err
	}
	digest := dataset.Digest(ds)
	glog.Infof("loaded dataset from %s: %d facilities, %d customers, %d products (digest %.12s)",
		cfg.DataDir, len(ds.Facilities), len(ds.Customers), len(ds.Products), digest)

	if pl.Cache != nil {
		hit, err := pl.Cache.Get(ctx, digest)
		if err != nil {
			glog.Warningf("cache lookup failed: %v", err)
		} else if hit != nil {
			glog.Infof("cache hit for digest %.12s, skipping solve", digest)
			out := &Outcome{Digest: digest, Plan: hit, Cached: true}
			out.Summary = pl.summarize(ctx, cfg, digest, hit, model.SolverStats{})
			if err := report.WriteAll(cfg.OutDir, hit, out.Summary); err != nil {
				return nil, err
			}
			return out, nil
		}
	}

	for _, sf := range lp.CapacityShortfalls(ds) {
		glog.Warningf("product %s: total demand %.1f exceeds effective capacity %.1f",
			sf.ProductID, sf.Demand, sf.Capacity)
	}

	prog, err := pl.Builder.Build(ds)
	if err != nil {
		return nil, err
	}
	metrics.ModelVariables.Set(float64(prog.NumVariables()))
	metrics.ModelConstraints.Set(float64(prog.NumConstraints()))
	glog.Infof("built program: %d variables, %d constraints", prog.NumVariables(), prog.NumConstraints())

	if err := lp.Verify(prog); err != nil {
		metrics.Runs.WithLabelValues(solver.StatusInfeasible.String()).Inc()
		pl.saveRun(ctx, store.Run{
			Digest: digest,
			Status: solver.StatusInfeasible.String(),
			Stats:  model.SolverStats{Variables: prog.NumVariables(), Constraints: prog.NumConstraints()},
		})
		return nil, err
	}

	start := time.Now()
	res, err := pl.Solver.Solve(ctx, prog, solver.Options{Tol: cfg.Solver.Tolerance})
	elapsed := time.Since(start)
	metrics.SolveDuration.Observe(elapsed.Seconds())
	if err != nil {
		return nil, pkgerrors.Wrap(err, "solve")
	}
	metrics.Runs.WithLabelValues(res.Status.String()).Inc()
	glog.Infof("solve finished %s in %s", res.Status, elapsed)

	stats := model.SolverStats{
		Variables:   prog.NumVariables(),
		Constraints: prog.NumConstraints(),
		SolveMillis: elapsed.Milliseconds(),
	}

	if res.Status != solver.StatusOptimal {
		pl.saveRun(ctx, store.Run{Digest: digest, Status: res.Status.String(), Stats: stats})
		return nil, &SolveError{Status: res.Status, Detail: res.Detail}
	}

	shipments, err := plan.Extract(ds, prog, res)
	if err != nil {
		return nil, err
	}

	out := &Outcome{Digest: digest, Plan: shipments}
	out.Summary = pl.summarize(ctx, cfg, digest, shipments, stats)

	runID := pl.saveRun(ctx, store.Run{
		Digest:    digest,
		Status:    res.Status.String(),
		TotalCost: shipments.TotalCost,
		Plan:      shipments,
		Stats:     stats,
	})
	out.RunID = runID

	if err := report.WriteAll(cfg.OutDir, shipments, out.Summary); err != nil {
		return nil, err
	}
	if pl.Cache != nil {
		if err := pl.Cache.Put(ctx, digest, shipments); err != nil {
			glog.Warningf("cache store failed: %v", err)
		}
	}
	return out, nil
}

// summarize assembles the run summary, resolving the savings baseline
// from config first and the latest stored run for the digest second.
func (pl *Planner) summarize(ctx context.Context, cfg *config.Config, digest string, p *model.ShipmentPlan, stats model.SolverStats) *model.Summary {
	sum := &model.Summary{
		Status:        solver.StatusOptimal.String(),
		TotalCost:     p.TotalCost,
		ShipmentCount: len(p.Shipments),
		DatasetDigest: digest,
		Stats:         stats,
	}
	baseline := cfg.BaselineCost
	if baseline <= 0 && pl.Store != nil {
		prev, err := pl.Store.LatestRunByDigest(ctx, digest)
		switch {
		case errors.Is(err, store.ErrNotFound):
		case err != nil:
			glog.Warningf("baseline lookup failed: %v", err)
		case prev.TotalCost > 0:
			baseline = prev.TotalCost
		}
	}
	sum.Savings = plan.Savings(p.TotalCost, baseline)
	return sum
}

func (pl *Planner) saveRun(ctx context.Context, run store.Run) string {
	if pl.Store == nil {
		return ""
	}
	id, err := pl.Store.SaveRun(ctx, run)
	if err != nil {
		glog.Warningf("save run failed: %v", err)
		return ""
	}
	return id
}
