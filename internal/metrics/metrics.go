package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/push"
)

var (
	// Registry is the dedicated Prometheus registry for the planner.
	Registry = prometheus.NewRegistry()

	// SolveDuration records wall time of the simplex call in seconds.
	SolveDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "planner_solve_duration_seconds", Help: "LP solve duration in seconds.",
			Buckets: []float64{.01, .05, .1, .5, 1, 5, 15, 60}},
	)
	// ModelVariables and ModelConstraints describe the last built program.
	ModelVariables = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "planner_model_variables", Help: "Decision variables in the last built program."},
	)
	ModelConstraints = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "planner_model_constraints", Help: "Constraints in the last built program."},
	)
	// Runs counts planner invocations by solve status.
	Runs = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "planner_runs_total", Help: "Planner runs by solve status."},
		[]string{"status"},
	)
)

func init() {
	Registry.MustRegister(collectors.NewGoCollector(), SolveDuration, ModelVariables, ModelConstraints, Runs)
}

// Push sends the registry to a Pushgateway. The planner is a batch
// process with nothing to scrape, so push is the only export path.
func Push(url, job string) error {
	return push.New(url, job).Gatherer(Registry).Push()
}
