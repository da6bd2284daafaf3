package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// ProjectConfigFile is the name of the project-level config file
	ProjectConfigFile = "designer.yaml"
	// UserConfigDir is the directory for user-level config
	UserConfigDir = ".config/dhc-designer"
	// UserConfigFile is the name of the user-level config file
	UserConfigFile = "config.yaml"
	// EnvPrefix starts every environment override
	EnvPrefix = "DHC_"
)

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger    *slog.Logger
	lookupEnv func(string) (string, bool)
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger, lookupEnv: os.LookupEnv}
}

// Load builds the effective configuration. Later layers win:
// defaults, then ~/.config/dhc-designer/config.yaml, then the nearest
// designer.yaml walking up from the working directory, then DHC_* variables.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	for _, layer := range []struct {
		kind, path string
	}{
		{"user", l.userConfigPath()},
		{"project", l.findProjectConfig()},
	} {
		if layer.path == "" {
			continue
		}
		fileCfg, err := readLayer(layer.path)
		switch {
		case err == nil:
			l.logger.Debug("Config layer applied", slog.String("layer", layer.kind), slog.String("path", layer.path))
			cfg.Merge(fileCfg)
		case errors.Is(err, fs.ErrNotExist):
		default:
			l.logger.Warn("Skipping unreadable config",
				slog.String("layer", layer.kind),
				slog.String("path", layer.path),
				slog.String("error", err.Error()))
		}
	}

	l.applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readLayer parses one config file without defaults, so Merge only
// applies the keys the file sets.
func readLayer(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var layer Config
	if err := yaml.Unmarshal(data, &layer); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &layer, nil
}

// applyEnv overrides settings from DHC_* environment variables.
func (l *Loader) applyEnv(c *Config) {
	strs := map[string]*string{
		"INSTANCE_NAMESPACE":        &c.Design.InstanceNamespace,
		"CATALOG_PATH":              &c.Catalog.Path,
		"CATALOG_VERSION":           &c.Catalog.Version,
		"STORAGE_BACKEND":           &c.Storage.Backend,
		"STORAGE_ROOT":              &c.Storage.Root,
		"STORAGE_PREFIX":            &c.Storage.Prefix,
		"STORAGE_BUCKET":            &c.Storage.Bucket,
		"STORAGE_REGION":            &c.Storage.Region,
		"STORAGE_ENDPOINT":          &c.Storage.Endpoint,
		"STORAGE_ACCESS_KEY_ID":     &c.Storage.AccessKeyID,
		"STORAGE_SECRET_ACCESS_KEY": &c.Storage.SecretAccessKey,
		"VALIDATION_PATTERN":        &c.Validation.Pattern,
		"NATS_URL":                  &c.NATS.URL,
		"NATS_SUBJECT_PREFIX":       &c.NATS.SubjectPrefix,
		"METRICS_ADDR":              &c.Metrics.Addr,
		"LOG_LEVEL":                 &c.Log.Level,
		"LOG_FORMAT":                &c.Log.Format,
	}
	for name, dst := range strs {
		if v, ok := l.lookupEnv(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}

	bools := map[string]*bool{
		"STORAGE_PATH_STYLE":   &c.Storage.PathStyle,
		"VALIDATION_PLACEMENT": &c.Validation.Placement,
	}
	for name, dst := range bools {
		if v, ok := l.lookupEnv(EnvPrefix + name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				l.logger.Warn("Ignoring invalid boolean", slog.String("env", EnvPrefix+name), slog.String("value", v))
				continue
			}
			*dst = b
		}
	}

	if v, ok := l.lookupEnv(EnvPrefix + "VALIDATION_DEBOUNCE"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			l.logger.Warn("Ignoring invalid duration", slog.String("env", EnvPrefix+"VALIDATION_DEBOUNCE"), slog.String("value", v))
		} else {
			c.Validation.Debounce = d
		}
	}
}

// EnsureUserConfig writes the default config to the user config path
// unless a file is already there.
func (l *Loader) EnsureUserConfig() error {
	path := l.userConfigPath()
	if path == "" {
		return errors.New("no home directory for user config")
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := DefaultConfig().SaveToFile(path); err != nil {
		return err
	}
	l.logger.Info("Wrote default user config", slog.String("path", path))
	return nil
}

func (l *Loader) userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, UserConfigDir, UserConfigFile)
}

// findProjectConfig returns the closest designer.yaml at or above the
// working directory, or "" when there is none.
func (l *Loader) findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, ProjectConfigFile)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
