package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/config"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/designer"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/metrics"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/storage"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/vocabulary/dhc"
)

// app holds the components built from one configuration.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.Registry
	store   *storage.Store
	nc      *nats.Conn
	service *designer.Service
}

// newLogger builds the slog handler selected by level and format.
func newLogger(w io.Writer, level, format string) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.ToLower(format) == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// loadConfig reads an explicit config file or runs the layered loader.
func loadConfig(path string, logger *slog.Logger) (*config.Config, error) {
	if path == "" {
		return config.NewLoader(logger).Load()
	}
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newApp connects to NATS when configured, opens the artifact store and
// builds the designer service with the block catalog applied.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, m *metrics.Registry) (*app, error) {
	a := &app{cfg: cfg, logger: logger, metrics: m}

	if cfg.NATS.URL != "" {
		nc, err := nats.Connect(cfg.NATS.URL, nats.Name(appName))
		if err != nil {
			return nil, fmt.Errorf("connect to NATS: %w", err)
		}
		a.nc = nc
		logger.Debug("Connected to NATS", slog.String("url", cfg.NATS.URL))
	}

	backend, err := a.openBackend(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.store = storage.NewStore(backend,
		storage.WithLayout(storage.Layout{Prefix: cfg.Storage.Prefix}),
		storage.WithLogger(logger),
		storage.WithMetrics(m))

	catalog, err := a.loadCatalog(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	regOpts := []dhc.Option{dhc.WithInstanceNamespace(cfg.Design.InstanceNamespace)}
	if catalog != nil {
		regOpts = append(regOpts, dhc.WithCatalog(catalog))
	}

	svcOpts := []designer.Option{
		designer.WithStore(a.store),
		designer.WithPlacement(cfg.Validation.Placement),
		designer.WithLogger(logger),
		designer.WithMetrics(m),
	}
	if a.nc != nil {
		svcOpts = append(svcOpts, designer.WithPublisher(a.nc, cfg.NATS.SubjectPrefix))
	}
	a.service = designer.New(dhc.NewRegistry(regOpts...), svcOpts...)
	return a, nil
}

func (a *app) openBackend(ctx context.Context) (storage.Backend, error) {
	sc := a.cfg.Storage
	switch sc.Backend {
	case config.BackendS3:
		return storage.NewS3Backend(ctx, storage.S3Config{
			Bucket:          sc.Bucket,
			Region:          sc.Region,
			Endpoint:        sc.Endpoint,
			PathStyle:       sc.PathStyle,
			AccessKeyID:     sc.AccessKeyID,
			SecretAccessKey: sc.SecretAccessKey,
		})
	case config.BackendKV:
		if a.nc == nil {
			return nil, errors.New("kv storage requires nats.url")
		}
		js, err := jetstream.New(a.nc)
		if err != nil {
			return nil, fmt.Errorf("create JetStream context: %w", err)
		}
		return storage.NewKVBackend(ctx, js, sc.Bucket)
	default:
		return storage.NewFileBackend(sc.Root), nil
	}
}

// loadCatalog reads the block catalog from catalog.path, or from storage
// when no path is set. A catalog missing from storage is not an error: the
// built-in slot table applies.
func (a *app) loadCatalog(ctx context.Context) (*dhc.Catalog, error) {
	if path := a.cfg.Catalog.Path; path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open catalog: %w", err)
		}
		defer f.Close()
		return dhc.LoadCatalog(f)
	}

	data, err := a.store.LoadCatalog(ctx, a.cfg.Catalog.Version)
	if errors.Is(err, storage.ErrNotFound) {
		a.logger.Debug("No block catalog found, using built-in slot kinds",
			slog.String("version", a.cfg.Catalog.Version))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return dhc.LoadCatalog(bytes.NewReader(data))
}

// Close releases the NATS connection.
func (a *app) Close() {
	if a.nc != nil {
		if err := a.nc.Drain(); err != nil {
			a.logger.Warn("Failed to drain NATS connection", slog.String("error", err.Error()))
		}
		a.nc = nil
	}
}
