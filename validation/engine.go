package validation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/design"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/metrics"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/vocabulary/dhc"
)

// Engine runs an ordered rule list over design trees. It holds no per-run
// state and is safe for concurrent use.
type Engine struct {
	reg     *dhc.Registry
	rules   []Rule
	logger  *slog.Logger
	metrics *metrics.Registry
}

// Option configures an Engine.
type Option func(*Engine)

// WithRules replaces the rule list.
func WithRules(rules ...Rule) Option {
	return func(e *Engine) {
		e.rules = append([]Rule(nil), rules...)
	}
}

// WithPlacement appends the nesting check after the fixed rules.
func WithPlacement() Option {
	return func(e *Engine) {
		e.rules = append(e.rules, PlacementRule())
	}
}

// WithLogger sets the logger used to report rule failures.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics records rule durations, violations and failures in m.
func WithMetrics(m *metrics.Registry) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// NewEngine creates an engine running DefaultRules unless WithRules says
// otherwise.
func NewEngine(reg *dhc.Registry, opts ...Option) *Engine {
	e := &Engine{
		reg:    reg,
		rules:  DefaultRules(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rules returns the rule ids in evaluation order.
func (e *Engine) Rules() []string {
	ids := make([]string, len(e.rules))
	for i, r := range e.rules {
		ids[i] = r.ID
	}
	return ids
}

// Validate runs every rule and concatenates their violations in rule order.
// A rule that returns an error or panics is logged and contributes nothing.
// A malformed tree is reported once and yields no violations, as does a
// context cancelled before all rules ran.
func (e *Engine) Validate(ctx context.Context, tree *design.Tree) []Violation {
	start := time.Now()
	defer func() {
		e.metrics.RecordValidation(time.Since(start))
	}()

	violations := make([]Violation, 0)
	if _, err := tree.All(); err != nil {
		e.logger.Error("Design tree is malformed, skipping validation",
			slog.String("error", err.Error()))
		return violations
	}

	for _, rule := range e.rules {
		if err := ctx.Err(); err != nil {
			e.logger.Debug("Validation cancelled",
				slog.String("next_rule", rule.ID),
				slog.String("error", err.Error()))
			return make([]Violation, 0)
		}

		ruleStart := time.Now()
		found, err := e.run(rule, tree)
		if err != nil {
			e.logger.Error("Rule failed",
				slog.String("rule", rule.ID),
				slog.String("error", err.Error()))
			e.metrics.RecordRuleFailure(rule.ID)
			continue
		}

		severities := make([]string, len(found))
		for i, v := range found {
			severities[i] = string(v.Severity)
		}
		e.metrics.RecordRule(rule.ID, time.Since(ruleStart), severities)
		violations = append(violations, found...)
	}
	return violations
}

// run invokes one rule inside a failure boundary.
func (e *Engine) run(rule Rule, tree *design.Tree) (found []Violation, err error) {
	defer func() {
		if r := recover(); r != nil {
			found = nil
			err = fmt.Errorf("rule %s panicked: %v", rule.ID, r)
		}
	}()
	return rule.Check(tree, e.reg)
}
