// Package designer runs the design pipeline for one smart home: decode the
// workspace, compile it into records, serialize the records, validate the
// tree, then save the artifacts and announce the save.
package designer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/abox"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/design"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/export"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/graph"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/metrics"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/smarthome"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/storage"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/validation"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/vocabulary/dhc"
)

// ErrNoStore is returned by operations that need storage when none is configured.
var ErrNoStore = errors.New("no artifact store configured")

// Service is safe for concurrent use.
type Service struct {
	reg       *dhc.Registry
	compiler  *abox.Compiler
	exporter  *export.Exporter
	engine    *validation.Engine
	store     storage.ArtifactStore
	publisher graph.Publisher
	subject   string
	placement bool
	logger    *slog.Logger
	metrics   *metrics.Registry
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithStore saves artifacts to store.
func WithStore(store storage.ArtifactStore) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithPublisher announces saved designs on subjectPrefix.<root id>.
func WithPublisher(p graph.Publisher, subjectPrefix string) Option {
	return func(s *Service) {
		s.publisher = p
		s.subject = subjectPrefix
	}
}

// WithPlacement enables the block nesting checks.
func WithPlacement(enabled bool) Option {
	return func(s *Service) {
		s.placement = enabled
	}
}

// WithLogger sets the logger for the service and the components it creates.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records pipeline metrics in m.
func WithMetrics(m *metrics.Registry) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock overrides the time source used for save timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates a service over reg.
func New(reg *dhc.Registry, opts ...Option) *Service {
	s := &Service{
		reg:     reg,
		subject: graph.SubjectPrefix,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.compiler = abox.NewCompiler(reg, abox.WithLogger(s.logger), abox.WithMetrics(s.metrics))
	s.exporter = export.NewExporter(reg)
	engineOpts := []validation.Option{validation.WithLogger(s.logger), validation.WithMetrics(s.metrics)}
	if s.placement {
		engineOpts = append(engineOpts, validation.WithPlacement())
	}
	s.engine = validation.NewEngine(reg, engineOpts...)
	return s
}

// Registry returns the vocabulary registry.
func (s *Service) Registry() *dhc.Registry {
	return s.reg
}

// Rules returns the rule ids the service validates with.
func (s *Service) Rules() []string {
	return s.engine.Rules()
}

// Report is the outcome of running the pipeline over one design.
type Report struct {
	RootID     string
	Records    []abox.Record
	Turtle     []byte
	Graph      export.Graph
	Violations []validation.Violation
	// CompileErr is set when the tree could not be compiled. Turtle then
	// holds only the prefix header and Graph is empty.
	CompileErr error
}

// HasErrors reports whether the design failed to compile or has an
// error-severity violation.
func (r *Report) HasErrors() bool {
	return r.CompileErr != nil || validation.HasErrors(r.Violations)
}

// Analyze compiles, serializes and validates tree.
func (s *Service) Analyze(ctx context.Context, tree *design.Tree, rootID string) *Report {
	report := &Report{RootID: rootID}

	records, err := s.compiler.Compile(ctx, tree, rootID)
	if err != nil {
		report.CompileErr = err
		records = nil
	}
	report.Records = records
	report.Turtle = []byte(export.TripleText(records, s.reg.Prefixes()))
	report.Graph = export.GraphJSON(records, s.reg)
	report.Violations = s.engine.Validate(ctx, tree)

	errs, warnings := validation.Count(report.Violations)
	s.logger.Debug("Design analyzed",
		slog.String("root_id", rootID),
		slog.Int("records", len(records)),
		slog.Int("errors", errs),
		slog.Int("warnings", warnings))
	return report
}

// AnalyzeWorkspace decodes a workspace document and analyzes it.
func (s *Service) AnalyzeWorkspace(ctx context.Context, data []byte, rootID string) (*Report, error) {
	tree, err := design.DecodeWorkspace(data, s.reg)
	if err != nil {
		return nil, err
	}
	return s.Analyze(ctx, tree, rootID), nil
}

// ValidateWorkspace decodes a workspace document and runs the rules only.
func (s *Service) ValidateWorkspace(ctx context.Context, data []byte) ([]validation.Violation, error) {
	tree, err := design.DecodeWorkspace(data, s.reg)
	if err != nil {
		return nil, err
	}
	return s.engine.Validate(ctx, tree), nil
}

// Export decodes a workspace document and serializes its records. A tree
// that cannot be compiled is an error here, unlike in Analyze.
func (s *Service) Export(ctx context.Context, data []byte, rootID string, format export.Format) ([]byte, error) {
	tree, err := design.DecodeWorkspace(data, s.reg)
	if err != nil {
		return nil, err
	}
	records, err := s.compiler.Compile(ctx, tree, rootID)
	if err != nil {
		return nil, err
	}
	return s.exporter.Export(format, records)
}

// Save analyzes a workspace document, writes the workspace, Turtle and
// graph artifacts, and publishes the save. A design that fails to compile
// is still saved, with header-only Turtle, so no edit is lost.
func (s *Service) Save(ctx context.Context, rootID string, workspace []byte) (*Report, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}

	report, err := s.AnalyzeWorkspace(ctx, workspace, rootID)
	if err != nil {
		return nil, err
	}

	graphJSON, err := report.Graph.Marshal()
	if err != nil {
		return nil, fmt.Errorf("marshal graph: %w", err)
	}

	if err := s.store.SaveDesign(ctx, rootID, storage.Artifacts{
		Workspace: workspace,
		Turtle:    report.Turtle,
		Graph:     graphJSON,
	}); err != nil {
		return nil, fmt.Errorf("save design %s: %w", rootID, err)
	}

	msg := &graph.DesignSavedMessage{
		RootID:     rootID,
		Graph:      report.Graph,
		Violations: report.Violations,
		UpdatedAt:  s.now().UTC(),
	}
	if err := graph.PublishDesignTo(ctx, s.publisher, s.subject, msg); err != nil {
		// The artifacts are saved; a missed announcement is not fatal.
		s.logger.Warn("Failed to publish design",
			slog.String("root_id", rootID),
			slog.String("error", err.Error()))
	}

	s.logger.Info("Design saved",
		slog.String("root_id", rootID),
		slog.Int("records", len(report.Records)),
		slog.Int("violations", len(report.Violations)))
	return report, nil
}

// Open loads and decodes a saved design.
func (s *Service) Open(ctx context.Context, rootID string) (*design.Tree, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	data, err := s.store.LoadWorkspace(ctx, rootID)
	if err != nil {
		return nil, err
	}
	return design.DecodeWorkspace(data, s.reg)
}

// CreateSmartHome saves the starter design for a new smart home. The id is
// normalized first and must be a valid smart home id.
func (s *Service) CreateSmartHome(ctx context.Context, id, country string) (*Report, error) {
	parsed, err := smarthome.ParseID(id)
	if err != nil {
		return nil, err
	}
	if country == "" {
		country = parsed.Country
	}

	workspace, err := smarthome.GenerateShellWorkspace(country)
	if err != nil {
		return nil, fmt.Errorf("generate shell: %w", err)
	}
	return s.Save(ctx, parsed.String(), workspace)
}
