package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initStorageMetrics() {
	r.ArtifactWritesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "dhc_designer_artifact_writes_total",
			Help: "Total number of design artifact writes",
		},
		[]string{"backend", "artifact", "status"},
	)

	r.ArtifactBytes = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "dhc_designer_artifact_bytes_total",
			Help: "Total bytes of design artifacts written",
		},
		[]string{"backend", "artifact"},
	)
}
