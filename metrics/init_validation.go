package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initValidationMetrics() {
	r.ValidationsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "dhc_designer_validations_total",
			Help: "Total number of rule engine runs",
		},
	)

	r.ValidationDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dhc_designer_validation_duration_seconds",
			Help:    "Duration of rule engine runs in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	r.ViolationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "dhc_designer_violations_total",
			Help: "Total number of violations reported",
		},
		[]string{"rule", "severity"},
	)

	r.RuleFailuresTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "dhc_designer_rule_failures_total",
			Help: "Total number of rule runs that failed and were skipped",
		},
		[]string{"rule"},
	)

	r.RuleDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dhc_designer_rule_duration_seconds",
			Help:    "Duration of individual rule runs in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		},
		[]string{"rule"},
	)

	r.SupersededRuns = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "dhc_designer_superseded_runs_total",
			Help: "Live validation results discarded because a newer run was requested",
		},
	)
}
