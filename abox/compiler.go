package abox

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/design"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/metrics"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/vocabulary/dhc"
)

// Compiler lowers design trees into records. It holds no per-run state and
// is safe for concurrent use.
type Compiler struct {
	resolver *Resolver
	logger   *slog.Logger
	metrics  *metrics.Registry
}

// CompilerOption configures a Compiler.
type CompilerOption func(*Compiler)

// WithLogger sets the logger used for run diagnostics.
func WithLogger(logger *slog.Logger) CompilerOption {
	return func(c *Compiler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics records compile counts and durations in m.
func WithMetrics(m *metrics.Registry) CompilerOption {
	return func(c *Compiler) {
		c.metrics = m
	}
}

// NewCompiler creates a compiler over reg.
func NewCompiler(reg *dhc.Registry, opts ...CompilerOption) *Compiler {
	c := &Compiler{
		resolver: NewResolver(reg),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resolver returns the resolver the compiler names terms with.
func (c *Compiler) Resolver() *Resolver {
	return c.resolver
}

// Compile walks every top-level block of tree in pre-order and returns one
// record per managed block. Reaching a block twice fails the whole run with
// design.ErrMalformedTree; no partial result is returned.
func (c *Compiler) Compile(ctx context.Context, tree *design.Tree, rootID string) ([]Record, error) {
	start := time.Now()
	run := &compileRun{resolver: c.resolver, rootID: rootID, seen: make(design.Visited)}

	var err error
	for _, root := range tree.Roots {
		if err = ctx.Err(); err != nil {
			break
		}
		if err = run.visit(root); err != nil {
			break
		}
	}

	c.metrics.RecordCompile(time.Since(start), len(run.records), err)
	if err != nil {
		c.logger.Warn("Design compilation failed",
			slog.String("root_id", rootID),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("compile %s: %w", rootID, err)
	}

	c.logger.Debug("Design compiled",
		slog.String("root_id", rootID),
		slog.Int("records", len(run.records)),
		slog.Duration("duration", time.Since(start)))
	return run.records, nil
}

type compileRun struct {
	resolver *Resolver
	rootID   string
	seen     design.Visited
	records  []Record
}

func (r *compileRun) visit(n *design.Node) error {
	if err := r.seen.Enter(n); err != nil {
		return err
	}
	class, ok := r.resolver.ClassOf(n.Type)
	if !ok {
		return nil
	}

	rec := Record{
		IRI:    r.resolver.IRI(r.rootID, n.Type, n.ID),
		NodeID: n.ID,
		Type:   n.Type,
		Class:  class,
		Fields: n.Fields,
	}
	for _, f := range n.Fields {
		if f.Value == "" {
			continue
		}
		value, kind := classify(f.Value)
		rec.Attributes = append(rec.Attributes, Attribute{
			Property: r.resolver.PropertyOf(f.Name),
			Value:    value,
			Kind:     kind,
		})
	}

	// Children of every slot in declared order; the head of a reference
	// slot is its single target.
	slots := make([][]*design.Node, len(n.Inputs))
	for i, in := range n.Inputs {
		if slotKind(in) == dhc.Reference {
			if in.Block != nil {
				slots[i] = []*design.Node{in.Block}
			}
		} else {
			chain, err := design.Chain(in.Block)
			if err != nil {
				return err
			}
			slots[i] = chain
		}
	}

	for _, kind := range []dhc.SlotKind{dhc.Containment, dhc.Reference} {
		for i, in := range n.Inputs {
			if slotKind(in) != kind {
				continue
			}
			for _, child := range slots[i] {
				if !r.resolver.reg.IsManaged(child.Type) {
					continue
				}
				rec.Relations = append(rec.Relations, Relation{
					Property: r.resolver.RelationPropertyOf(in.Name),
					Target:   r.resolver.IRI(r.rootID, child.Type, child.ID),
					Kind:     kind,
				})
			}
		}
	}

	r.records = append(r.records, rec)

	for _, children := range slots {
		for _, child := range children {
			if err := r.visit(child); err != nil {
				return err
			}
		}
	}
	return nil
}

// slotKind treats untagged slots as containment.
func slotKind(in design.Input) dhc.SlotKind {
	if in.Kind == dhc.Reference {
		return dhc.Reference
	}
	return dhc.Containment
}
