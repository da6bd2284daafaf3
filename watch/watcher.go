// Package watch re-validates workspace files as they change on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/metrics"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/validation"
)

const (
	// resultChannelBuffer is the size of the result channel.
	resultChannelBuffer = 64

	defaultDebounce = 300 * time.Millisecond
	defaultPattern  = "**/*.json"
)

// CheckFunc validates one workspace document.
type CheckFunc func(ctx context.Context, data []byte) ([]validation.Violation, error)

// Config configures a Watcher.
type Config struct {
	// Root is the directory watched recursively.
	Root string
	// Pattern selects workspace files by their slash-separated path
	// relative to Root, with ** matching any number of directories.
	Pattern string
	// Debounce is the quiet period before a changed file is validated.
	Debounce time.Duration
	// ExcludeDirs lists directory names that are never watched.
	ExcludeDirs []string
}

func (c Config) withDefaults() Config {
	if c.Root == "" {
		c.Root = "."
	}
	if c.Pattern == "" {
		c.Pattern = defaultPattern
	}
	if c.Debounce <= 0 {
		c.Debounce = defaultDebounce
	}
	if len(c.ExcludeDirs) == 0 {
		c.ExcludeDirs = []string{".git", "node_modules"}
	}
	return c
}

// Result is the outcome of one validation run.
type Result struct {
	RunID      string
	Path       string
	Violations []validation.Violation
	Err        error
	At         time.Time
}

// Watcher validates matching files whenever they change. Each file has its
// own debouncer, so only the newest edit of a file produces a result.
type Watcher struct {
	config   Config
	check    CheckFunc
	logger   *slog.Logger
	metrics  *metrics.Registry
	watcher  *fsnotify.Watcher
	excludes map[string]bool

	mu         sync.Mutex
	debouncers map[string]*Debouncer[Result]

	results chan Result
	dropped atomic.Int64
	started atomic.Bool
	done    chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithMetrics records superseded runs.
func WithMetrics(m *metrics.Registry) Option {
	return func(w *Watcher) {
		w.metrics = m
	}
}

// NewWatcher creates a watcher. It does nothing until Start is called.
func NewWatcher(cfg Config, check CheckFunc, opts ...Option) (*Watcher, error) {
	if check == nil {
		return nil, errors.New("check function is required")
	}
	cfg = cfg.withDefaults()
	if !doublestar.ValidatePattern(cfg.Pattern) {
		return nil, fmt.Errorf("invalid pattern: %s", cfg.Pattern)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	excludes := make(map[string]bool, len(cfg.ExcludeDirs))
	for _, dir := range cfg.ExcludeDirs {
		excludes[dir] = true
	}

	w := &Watcher{
		config:     cfg,
		check:      check,
		logger:     slog.Default(),
		watcher:    fsw,
		excludes:   excludes,
		debouncers: make(map[string]*Debouncer[Result]),
		results:    make(chan Result, resultChannelBuffer),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Results returns the channel of validation results. It is closed when the
// watcher stops.
func (w *Watcher) Results() <-chan Result {
	return w.results
}

// Start adds watches below the root, validates every matching file once and
// then follows changes until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addWatchesRecursive(w.config.Root); err != nil {
		return err
	}

	initial, err := doublestar.Glob(os.DirFS(w.config.Root), w.config.Pattern, doublestar.WithFilesOnly())
	if err != nil {
		return fmt.Errorf("glob %s: %w", w.config.Pattern, err)
	}

	for _, rel := range initial {
		if w.excluded(rel) {
			continue
		}
		w.schedule(ctx, filepath.Join(w.config.Root, filepath.FromSlash(rel)))
	}

	w.started.Store(true)
	go w.processEvents(ctx)

	w.logger.Info("Workspace watcher started",
		"root", w.config.Root,
		"pattern", w.config.Pattern,
		"debounce", w.config.Debounce,
		"initial_files", len(initial))
	return nil
}

// Stop closes the file watcher. Results is closed once pending runs finish.
func (w *Watcher) Stop() error {
	err := w.watcher.Close()
	if w.started.Load() {
		<-w.done
	}
	return err
}

// DroppedResults returns the number of results dropped because the result
// channel was full.
func (w *Watcher) DroppedResults() int64 {
	return w.dropped.Load()
}

func (w *Watcher) addWatchesRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}

		base := filepath.Base(path)
		if path != root && (w.excludes[base] || strings.HasPrefix(base, ".")) {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("Failed to watch directory",
				"path", path,
				"error", err)
		}
		return nil
	})
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.done)
	defer close(w.results)
	defer w.closeDebouncers()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(ctx, event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleFSEvent(ctx context.Context, event fsnotify.Event) {
	path := event.Name

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !w.excludes[filepath.Base(path)] {
				if err := w.addWatchesRecursive(path); err != nil {
					w.logger.Warn("Failed to watch new directory", "path", path, "error", err)
				}
			}
			return
		}
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	if !w.matches(path) {
		return
	}

	w.logger.Debug("Workspace change detected",
		"path", path,
		"op", event.Op.String())
	w.schedule(ctx, path)
}

// matches reports whether an absolute or root-relative path selects a
// workspace file.
func (w *Watcher) matches(path string) bool {
	rel, err := filepath.Rel(w.config.Root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	rel = filepath.ToSlash(rel)
	if w.excluded(rel) {
		return false
	}
	ok, err := doublestar.Match(w.config.Pattern, rel)
	return err == nil && ok
}

func (w *Watcher) excluded(rel string) bool {
	parts := strings.Split(rel, "/")
	for _, dir := range parts[:len(parts)-1] {
		if w.excludes[dir] || strings.HasPrefix(dir, ".") {
			return true
		}
	}
	return false
}

func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	d, ok := w.debouncers[path]
	if !ok {
		d = NewDebouncer(w.config.Debounce, w.send, w.metrics.RecordSuperseded)
		w.debouncers[path] = d
	}
	w.mu.Unlock()

	d.Trigger(ctx, func(runCtx context.Context) Result {
		return w.validate(runCtx, path)
	})
}

func (w *Watcher) validate(ctx context.Context, path string) Result {
	res := Result{RunID: uuid.New().String(), Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		res.Err = fmt.Errorf("read workspace: %w", err)
		return res
	}
	res.Violations, res.Err = w.check(ctx, data)
	return res
}

func (w *Watcher) send(res Result) {
	res.At = time.Now()
	select {
	case w.results <- res:
		w.logger.Debug("Sent validation result",
			"run_id", res.RunID,
			"path", res.Path,
			"violations", len(res.Violations))
	default:
		dropped := w.dropped.Add(1)
		w.logger.Warn("Result channel full, dropping result",
			"path", res.Path,
			"total_dropped", dropped)
	}
}

func (w *Watcher) closeDebouncers() {
	w.mu.Lock()
	debouncers := make([]*Debouncer[Result], 0, len(w.debouncers))
	for _, d := range w.debouncers {
		debouncers = append(debouncers, d)
	}
	w.mu.Unlock()

	for _, d := range debouncers {
		d.Close()
	}
}
