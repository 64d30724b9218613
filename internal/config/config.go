// Package config holds the explicit configuration value passed into
// every component constructor. There is no process-wide state.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultStorageDir = ".dirsnap"

	BlobsDir     = "blobs"
	ManifestsDir = "manifests"
	HeadFile     = "HEAD"
)

// Duration wraps time.Duration so YAML values like "2s" parse.
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Config configures a repository and its watcher.
type Config struct {
	// StorageDir is the storage directory name under the repository root.
	StorageDir string `yaml:"storage_dir"`

	// Debounce is the quiet period after the last filesystem event
	// before an automatic snapshot is attempted.
	Debounce Duration `yaml:"debounce"`

	// Settle is the delay after a created auto-snapshot before the
	// watcher emits its event, letting the filesystem quiesce.
	Settle Duration `yaml:"settle"`

	// Workers bounds concurrent hashing and blob writes. Zero means
	// one worker per CPU.
	Workers int `yaml:"workers"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		StorageDir: DefaultStorageDir,
		Debounce:   Duration(2 * time.Second),
		Settle:     Duration(200 * time.Millisecond),
		Workers:    0,
		LogLevel:   "info",
	}
}

// Load reads a YAML configuration file on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for usable values.
func (c Config) Validate() error {
	if c.StorageDir == "" {
		return fmt.Errorf("storage_dir must not be empty")
	}
	if strings.ContainsAny(c.StorageDir, `/\`) {
		return fmt.Errorf("storage_dir %q must be a bare directory name", c.StorageDir)
	}
	if c.Debounce <= 0 {
		return fmt.Errorf("debounce must be positive, got %s", c.Debounce.Std())
	}
	if c.Settle < 0 {
		return fmt.Errorf("settle must not be negative, got %s", c.Settle.Std())
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}
