package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckMetrics holds the collectors of one checker process on a dedicated registry.
type CheckMetrics struct {
	Registry   *prometheus.Registry
	Solutions  *prometheus.CounterVec
	Violations *prometheus.CounterVec
	Duration   prometheus.Histogram
}

func NewCheckMetrics() *CheckMetrics {
	m := &CheckMetrics{
		Registry: prometheus.NewRegistry(),
		Solutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "darpcheck_solutions_checked_total", Help: "Checked solutions by result."},
			[]string{"result"},
		),
		Violations: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "darpcheck_violations_total", Help: "Constraint violations and warnings by kind."},
			[]string{"kind"},
		),
		Duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{Name: "darpcheck_check_duration_seconds", Help: "Time spent checking one solution.", Buckets: prometheus.DefBuckets},
		),
	}
	m.Registry.MustRegister(m.Solutions, m.Violations, m.Duration)
	return m
}

// Record one checked solution.
func (m *CheckMetrics) ObserveSolution(ok bool, violationsByKind map[string]int, dur time.Duration) {
	result := "ok"
	if !ok {
		result = "not_ok"
	}
	m.Solutions.WithLabelValues(result).Inc()
	for kind, n := range violationsByKind {
		m.Violations.WithLabelValues(kind).Add(float64(n))
	}
	m.Duration.Observe(dur.Seconds())
}

// Write the registry in the text exposition format, e.g. for the node exporter textfile collector.
func (m *CheckMetrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
