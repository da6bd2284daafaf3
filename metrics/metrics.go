package metrics

import (
	"time"
)

// Status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

func status(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}

// RecordCompile records one compiler run.
func (r *Registry) RecordCompile(duration time.Duration, records int, err error) {
	if r == nil {
		return
	}
	r.CompilesTotal.WithLabelValues(status(err)).Inc()
	r.CompileDuration.Observe(duration.Seconds())
	r.RecordsEmitted.Add(float64(records))
}

// RecordValidation records one rule engine run.
func (r *Registry) RecordValidation(duration time.Duration) {
	if r == nil {
		return
	}
	r.ValidationsTotal.Inc()
	r.ValidationDuration.Observe(duration.Seconds())
}

// RecordRule records one rule run and the violations it produced.
func (r *Registry) RecordRule(rule string, duration time.Duration, severities []string) {
	if r == nil {
		return
	}
	r.RuleDuration.WithLabelValues(rule).Observe(duration.Seconds())
	for _, s := range severities {
		r.ViolationsTotal.WithLabelValues(rule, s).Inc()
	}
}

// RecordRuleFailure records a rule run whose contribution was dropped.
func (r *Registry) RecordRuleFailure(rule string) {
	if r == nil {
		return
	}
	r.RuleFailuresTotal.WithLabelValues(rule).Inc()
}

// RecordSuperseded records a live validation result that was discarded.
func (r *Registry) RecordSuperseded() {
	if r == nil {
		return
	}
	r.SupersededRuns.Inc()
}

// RecordArtifactWrite records one artifact upload.
func (r *Registry) RecordArtifactWrite(backend, artifact string, size int, err error) {
	if r == nil {
		return
	}
	r.ArtifactWritesTotal.WithLabelValues(backend, artifact, status(err)).Inc()
	if err == nil {
		r.ArtifactBytes.WithLabelValues(backend, artifact).Add(float64(size))
	}
}
