package lifecycle

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks workflow outcomes. All methods are nil-safe.
type Metrics struct {
	runsTotal    *prometheus.CounterVec
	resultsTotal *prometheus.CounterVec
	prunedTotal  prometheus.Counter
	runDuration  *prometheus.HistogramVec
}

// NewMetrics creates the workflow metrics and registers them with reg when
// reg is non-nil. Collectors already registered under the same name are reused.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rds_lifecycle",
			Name:      "workflow_runs_total",
			Help:      "Total number of workflow runs",
		}, []string{"workflow"}),
		resultsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rds_lifecycle",
			Name:      "instance_results_total",
			Help:      "Per-instance workflow outcomes",
		}, []string{"workflow", "phase"}),
		prunedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rds_lifecycle",
			Name:      "snapshots_pruned_total",
			Help:      "Manual snapshots deleted before teardown",
		}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rds_lifecycle",
			Name:      "workflow_duration_seconds",
			Help:      "Wall time of a workflow run",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
		}, []string{"workflow"}),
	}

	if reg != nil {
		m.runsTotal = registerOrReuse(reg, m.runsTotal).(*prometheus.CounterVec)
		m.resultsTotal = registerOrReuse(reg, m.resultsTotal).(*prometheus.CounterVec)
		m.prunedTotal = registerOrReuse(reg, m.prunedTotal).(prometheus.Counter)
		m.runDuration = registerOrReuse(reg, m.runDuration).(*prometheus.HistogramVec)
	}
	return m
}

func registerOrReuse(reg prometheus.Registerer, c prometheus.Collector) prometheus.Collector {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector
		}
		panic(err)
	}
	return c
}

func (m *Metrics) observeRun(res WorkflowResult, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(res.Workflow).Inc()
	m.runDuration.WithLabelValues(res.Workflow).Observe(elapsed.Seconds())
	for _, r := range res.Results {
		m.resultsTotal.WithLabelValues(res.Workflow, string(r.Phase)).Inc()
	}
}

func (m *Metrics) addPruned(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.prunedTotal.Add(float64(n))
}
