package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initCompilerMetrics() {
	r.CompilesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "dhc_designer_compiles_total",
			Help: "Total number of design compilations",
		},
		[]string{"status"}, // success, error
	)

	r.CompileDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dhc_designer_compile_duration_seconds",
			Help:    "Duration of design compilations in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	r.RecordsEmitted = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "dhc_designer_records_emitted_total",
			Help: "Total number of instance records emitted by the compiler",
		},
	)
}
