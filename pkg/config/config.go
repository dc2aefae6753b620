// Package config loads the optional fiber.yaml file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up by Load.
const FileName = "fiber.yaml"

// SchemaVersion is the version written by Default. Any v1.x file is accepted.
const SchemaVersion = "v1.0.0"

// Config represents fiber.yaml.
type Config struct {
	Version    string           `yaml:"version" validate:"required"`
	Log        LogConfig        `yaml:"log"`
	Reconciler ReconcilerConfig `yaml:"reconciler"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Tracing    TracingConfig    `yaml:"tracing"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `yaml:"format" validate:"oneof=console json"`
}

// ReconcilerConfig contains engine limits.
type ReconcilerConfig struct {
	// NestedUpdateLimit bounds the synchronous re-renders a root may trigger
	// from its own commits.
	NestedUpdateLimit int `yaml:"nestedUpdateLimit" validate:"min=1"`
}

// SchedulerConfig contains microtask queue settings.
type SchedulerConfig struct {
	// FlushLimit bounds the tasks run by a single flush. Zero uses the
	// platform default.
	FlushLimit int `yaml:"flushLimit" validate:"min=0"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace" validate:"required_if=Enabled true,omitempty,alphanum"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter" validate:"oneof=stdout none"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Version: SchemaVersion,
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Reconciler: ReconcilerConfig{NestedUpdateLimit: 50},
		Scheduler:  SchedulerConfig{FlushLimit: 10000},
		Metrics: MetricsConfig{
			Namespace: "fiber",
		},
		Tracing: TracingConfig{Exporter: "none"},
	}
}

// Load reads path, or FileName inside path when it is a directory. A missing
// file yields Default.
func Load(path string) (*Config, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, FileName)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// Parse decodes data over Default and validates the result. Fields missing
// from data keep their defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks field constraints and the schema version.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := CheckVersion(c.Version); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// CheckVersion accepts any semantic version with major version 1. The
// leading "v" is optional.
func CheckVersion(version string) error {
	v := strings.TrimSpace(version)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("version %q is not a semantic version", version)
	}
	if major := semver.Major(v); major != semver.Major(SchemaVersion) {
		return fmt.Errorf("unsupported version %s (want %s.x)", v, semver.Major(SchemaVersion))
	}
	return nil
}
