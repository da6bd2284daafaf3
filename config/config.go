// Package config provides configuration loading and management for the designer.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/vocabulary/dhc"
)

// Storage backends.
const (
	BackendFile = "file"
	BackendS3   = "s3"
	BackendKV   = "kv"
)

// Config represents the complete designer configuration
type Config struct {
	Design     DesignConfig     `yaml:"design"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Storage    StorageConfig    `yaml:"storage"`
	Validation ValidationConfig `yaml:"validation"`
	NATS       NATSConfig       `yaml:"nats"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Log        LogConfig        `yaml:"log"`
}

// DesignConfig configures IRI generation
type DesignConfig struct {
	// InstanceNamespace is the base IRI bound to the dhc-instance prefix
	InstanceNamespace string `yaml:"instance_namespace" validate:"required,url"`
}

// CatalogConfig locates the block catalog that declares slot kinds
type CatalogConfig struct {
	// Path is a local blockly-blocks.json; empty = load from storage
	Path string `yaml:"path"`
	// Version selects the published ontology when loading from storage ("latest" or "1.2.0")
	Version string `yaml:"version"`
}

// StorageConfig configures where design artifacts are saved
type StorageConfig struct {
	// Backend is file, s3 or kv
	Backend string `yaml:"backend" validate:"oneof=file s3 kv"`
	// Root is the directory used by the file backend
	Root string `yaml:"root" validate:"required_if=Backend file"`
	// Prefix is prepended to every object key (default: public)
	Prefix string `yaml:"prefix"`
	// Bucket is the S3 bucket or the NATS KV bucket
	Bucket    string `yaml:"bucket" validate:"required_if=Backend s3"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint" validate:"omitempty,url"`
	PathStyle bool   `yaml:"path_style"`
	// Static S3 credentials (empty = default AWS credential chain)
	AccessKeyID     string `yaml:"access_key_id,omitempty"`
	SecretAccessKey string `yaml:"secret_access_key,omitempty" validate:"required_with=AccessKeyID"`
}

// ValidationConfig configures rule evaluation and live validation
type ValidationConfig struct {
	// Debounce is the quiet period before a changed workspace is re-validated
	Debounce time.Duration `yaml:"debounce" validate:"gte=0"`
	// Placement enables the block nesting checks
	Placement bool `yaml:"placement"`
	// Pattern selects watched workspace files (doublestar syntax)
	Pattern string `yaml:"pattern"`
}

// NATSConfig configures the NATS connection
type NATSConfig struct {
	// URL is the NATS server URL (empty = do not publish)
	URL string `yaml:"url" validate:"omitempty,url"`
	// SubjectPrefix is the subject root for design-saved events
	SubjectPrefix string `yaml:"subject_prefix"`
}

// MetricsConfig configures the Prometheus endpoint
type MetricsConfig struct {
	// Addr is the listen address for /metrics (empty = disabled)
	Addr string `yaml:"addr" validate:"omitempty,hostname_port"`
}

// LogConfig configures structured logging
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

var validate = validator.New()

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Design: DesignConfig{
			InstanceNamespace: dhc.InstanceNamespace,
		},
		Catalog: CatalogConfig{
			Path:    "", // Load from storage
			Version: "latest",
		},
		Storage: StorageConfig{
			Backend: BackendFile,
			Root:    ".dhc",
			Prefix:  "public",
		},
		Validation: ValidationConfig{
			Debounce: 300 * time.Millisecond,
			Pattern:  "**/workspace.json",
		},
		NATS: NATSConfig{
			SubjectPrefix: "dhc.design.saved",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", yamlPath(fe.Namespace()), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if !strings.HasSuffix(c.Design.InstanceNamespace, "#") && !strings.HasSuffix(c.Design.InstanceNamespace, "/") {
		return fmt.Errorf("design.instance_namespace must end with # or /")
	}
	return nil
}

// yamlPath turns Config.Storage.Bucket into storage.bucket.
func yamlPath(ns string) string {
	parts := strings.Split(ns, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = snake(p)
	}
	return strings.Join(parts, ".")
}

func snake(s string) string {
	switch s {
	case "NATS":
		return "nats"
	case "URL":
		return "url"
	}
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Design
	if other.Design.InstanceNamespace != "" {
		c.Design.InstanceNamespace = other.Design.InstanceNamespace
	}

	// Catalog
	if other.Catalog.Path != "" {
		c.Catalog.Path = other.Catalog.Path
	}
	if other.Catalog.Version != "" {
		c.Catalog.Version = other.Catalog.Version
	}

	// Storage
	mergeString(&c.Storage.Backend, other.Storage.Backend)
	mergeString(&c.Storage.Root, other.Storage.Root)
	mergeString(&c.Storage.Prefix, other.Storage.Prefix)
	mergeString(&c.Storage.Bucket, other.Storage.Bucket)
	mergeString(&c.Storage.Region, other.Storage.Region)
	mergeString(&c.Storage.Endpoint, other.Storage.Endpoint)
	mergeString(&c.Storage.AccessKeyID, other.Storage.AccessKeyID)
	mergeString(&c.Storage.SecretAccessKey, other.Storage.SecretAccessKey)
	if other.Storage.PathStyle {
		c.Storage.PathStyle = true
	}

	// Validation
	if other.Validation.Debounce != 0 {
		c.Validation.Debounce = other.Validation.Debounce
	}
	if other.Validation.Placement {
		c.Validation.Placement = true
	}
	mergeString(&c.Validation.Pattern, other.Validation.Pattern)

	// NATS
	mergeString(&c.NATS.URL, other.NATS.URL)
	mergeString(&c.NATS.SubjectPrefix, other.NATS.SubjectPrefix)

	// Metrics
	mergeString(&c.Metrics.Addr, other.Metrics.Addr)

	// Log
	mergeString(&c.Log.Level, other.Log.Level)
	mergeString(&c.Log.Format, other.Log.Format)
}

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
