// Command planner optimizes shipment assignments for a supply network.
// It reads the network tables from a data directory, solves the
// minimum-cost shipment problem, and writes the plan and a run summary
// to an output directory.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"

	"flowplan/internal/buildinfo"
	"flowplan/internal/cache"
	"flowplan/internal/config"
	"flowplan/internal/metrics"
	"flowplan/internal/plan"
	"flowplan/internal/planner"
	"flowplan/internal/solver"
	"flowplan/internal/store"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to YAML config file")
		dataDir    = flag.String("data", "", "override data directory")
		outDir     = flag.String("out", "", "override output directory")
		topN       = flag.Int("top", 0, "override top-N shipment count")
		baseline   = flag.Float64("baseline", 0, "override baseline cost for savings")
		version    = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()
	defer glog.Flush()

	if *version {
		os.Stdout.WriteString("planner " + buildinfo.String() + "\n")
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		glog.Exitf("config: %v", err)
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *outDir != "" {
		cfg.OutDir = *outDir
	}
	if *topN > 0 {
		cfg.TopN = *topN
	}
	if *baseline > 0 {
		cfg.BaselineCost = *baseline
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := openStore(cfg)
	if err != nil {
		glog.Exitf("store: %v", err)
	}
	defer closeStore()

	pl := planner.New(solver.NewSimplex(), st)
	if cfg.RedisAddr != "" {
		c := cache.New(cfg.RedisAddr, cfg.CacheTTL)
		defer c.Close()
		pl.Cache = c
	}

	out, err := pl.Run(ctx, cfg)
	if err != nil {
		pushMetrics(cfg)
		glog.Exitf("run: %v", err)
	}

	glog.Infof("plan: %d shipments, total cost %.2f", out.Summary.ShipmentCount, out.Summary.TotalCost)
	if sv := out.Summary.Savings; sv != nil {
		glog.Infof("savings vs baseline %.2f: %.2f (%.1f%%)", sv.BaselineCost, sv.Savings, sv.SavingsPercent)
	}
	for _, s := range plan.TopN(out.Plan, cfg.TopN) {
		glog.Infof("  %s -> %s  %s x %.0f  (%.2f)", s.FacilityID, s.CustomerID, s.ProductID, s.Quantity, s.LineCost)
	}
	pushMetrics(cfg)
}

func openStore(cfg *config.Config) (store.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		return store.NewMemory(), func() {}, nil
	}
	pg, err := store.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return pg, func() { pg.Close() }, nil
}

func pushMetrics(cfg *config.Config) {
	if cfg.Metrics.Pushgateway == "" {
		return
	}
	if err := metrics.Push(cfg.Metrics.Pushgateway, cfg.Metrics.Job); err != nil {
		glog.Warningf("metrics push failed: %v", err)
	}
}
