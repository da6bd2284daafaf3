package storage

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/metrics"
)

// Backend reads and writes opaque objects by key.
type Backend interface {
	// Name identifies the backend in logs and metrics.
	Name() string
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// Get returns ErrNotFound when the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)
}

// ArtifactStore saves and loads design artifacts.
type ArtifactStore interface {
	SaveDesign(ctx context.Context, rootID string, a Artifacts) error
	LoadWorkspace(ctx context.Context, rootID string) ([]byte, error)
	LoadGraph(ctx context.Context, rootID string) ([]byte, error)
	LoadCatalog(ctx context.Context, version string) ([]byte, error)
}

// Store implements ArtifactStore on top of a Backend.
type Store struct {
	backend Backend
	layout  Layout
	logger  *slog.Logger
	metrics *metrics.Registry
}

// Option configures a Store.
type Option func(*Store)

// WithLayout overrides the key layout.
func WithLayout(l Layout) Option {
	return func(s *Store) {
		s.layout = l
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records artifact writes.
func WithMetrics(m *metrics.Registry) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// NewStore creates a store writing through backend.
func NewStore(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		layout:  DefaultLayout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Backend returns the underlying backend.
func (s *Store) Backend() Backend {
	return s.backend
}

// SaveDesign writes the non-nil artifacts of a design concurrently. The first
// failure cancels the remaining uploads.
func (s *Store) SaveDesign(ctx context.Context, rootID string, a Artifacts) error {
	if _, err := s.layout.DesignPrefix(rootID); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, kind := range ArtifactKinds {
		data := a.Get(kind)
		if data == nil {
			continue
		}
		key, _ := s.layout.DesignKey(rootID, kind)
		g.Go(func() error {
			err := s.backend.Put(gctx, key, data, kind.ContentType())
			s.metrics.RecordArtifactWrite(s.backend.Name(), string(kind), len(data), err)
			if err != nil {
				return fmt.Errorf("save %s: %w", kind.FileName(), err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error("Failed to save design",
			slog.String("root_id", rootID),
			slog.String("backend", s.backend.Name()),
			slog.String("error", err.Error()))
		return err
	}

	s.logger.Debug("Saved design",
		slog.String("root_id", rootID),
		slog.String("backend", s.backend.Name()))
	return nil
}

// LoadWorkspace reads a design's workspace document.
func (s *Store) LoadWorkspace(ctx context.Context, rootID string) ([]byte, error) {
	return s.load(ctx, rootID, ArtifactWorkspace)
}

// LoadGraph reads a design's graph JSON.
func (s *Store) LoadGraph(ctx context.Context, rootID string) ([]byte, error) {
	return s.load(ctx, rootID, ArtifactGraph)
}

// LoadTurtle reads a design's Turtle export.
func (s *Store) LoadTurtle(ctx context.Context, rootID string) ([]byte, error) {
	return s.load(ctx, rootID, ArtifactTurtle)
}

func (s *Store) load(ctx context.Context, rootID string, kind ArtifactKind) ([]byte, error) {
	key, err := s.layout.DesignKey(rootID, kind)
	if err != nil {
		return nil, err
	}
	data, err := s.backend.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load %s for %s: %w", kind.FileName(), rootID, err)
	}
	return data, nil
}

// LoadCatalog reads the block catalog for an ontology version.
func (s *Store) LoadCatalog(ctx context.Context, version string) ([]byte, error) {
	key, err := s.layout.CatalogKey(version)
	if err != nil {
		return nil, err
	}
	data, err := s.backend.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", key, err)
	}
	return data, nil
}
