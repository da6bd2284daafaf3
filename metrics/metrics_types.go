// Package metrics exposes Prometheus instrumentation for design compilation,
// rule validation and artifact storage.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the designer. A nil *Registry is valid and
// records nothing.
type Registry struct {
	// Compiler Metrics
	CompilesTotal   *prometheus.CounterVec
	CompileDuration prometheus.Histogram
	RecordsEmitted  prometheus.Counter

	// Validation Metrics
	ValidationsTotal   prometheus.Counter
	ValidationDuration prometheus.Histogram
	ViolationsTotal    *prometheus.CounterVec
	RuleFailuresTotal  *prometheus.CounterVec
	RuleDuration       *prometheus.HistogramVec
	SupersededRuns     prometheus.Counter

	// Storage Metrics
	ArtifactWritesTotal *prometheus.CounterVec
	ArtifactBytes       *prometheus.CounterVec

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the process-wide metrics registry.
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a registry with all metrics initialized.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.initCompilerMetrics()
	r.initValidationMetrics()
	r.initStorageMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
