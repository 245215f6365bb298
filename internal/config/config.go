// config.go — Runtime configuration: defaults, file loading, validation.
// Files are YAML (config.yaml / config.yml) or TOML (config.toml), chosen by extension.
// Keys absent from the file keep their default values.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dev-console/pagectx/internal/redaction"
	"github.com/dev-console/pagectx/internal/resolver"
	"github.com/dev-console/pagectx/internal/state"
)

const (
	DefaultPort            = 7891
	DefaultErrorCapacity   = 20
	DefaultNetworkCapacity = 50
	DefaultHistoryCapacity = 300
	DefaultDebounceMS      = 300
)

// DefaultExtensions is the default indexer extension allow-list.
var DefaultExtensions = []string{"tsx", "ts", "jsx", "js", "json", "md"}

// Config is the full runtime configuration.
type Config struct {
	Port       int              `yaml:"port" toml:"port"`
	StateDir   string           `yaml:"state_dir" toml:"state_dir"`
	LogLevel   string           `yaml:"log_level" toml:"log_level"`
	Extensions []string         `yaml:"extensions" toml:"extensions"`
	Capacity   CapacityConfig   `yaml:"capacity" toml:"capacity"`
	DebounceMS int              `yaml:"debounce_ms" toml:"debounce_ms"`
	Resolver   resolver.Weights `yaml:"resolver_weights" toml:"resolver_weights"`
	// Redaction adds patterns to the built-in secret scrubbers.
	Redaction []redaction.Pattern `yaml:"redaction" toml:"redaction"`
}

// CapacityConfig bounds the in-memory and persisted collections.
type CapacityConfig struct {
	Errors  int `yaml:"errors" toml:"errors"`
	Network int `yaml:"network" toml:"network"`
	History int `yaml:"history" toml:"history"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:       DefaultPort,
		LogLevel:   "info",
		Extensions: append([]string(nil), DefaultExtensions...),
		Capacity: CapacityConfig{
			Errors:  DefaultErrorCapacity,
			Network: DefaultNetworkCapacity,
			History: DefaultHistoryCapacity,
		},
		DebounceMS: DefaultDebounceMS,
		Resolver:   resolver.DefaultWeights(),
	}
}

// Load reads configuration from path. An empty path probes the state
// directory candidates; when none exists the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		candidates, err := state.ConfigCandidates()
		if err != nil {
			return cfg, nil // no state dir: defaults
		}
		for _, c := range candidates {
			if _, err := os.Stat(c); err == nil {
				path = c
				break
			}
		}
		if path == "" {
			return cfg, nil
		}
	}

	// #nosec G304 -- path is an operator-supplied config file
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := decode(path, data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(cfg)
	case ".yaml", ".yml", "":
		if len(bytes.TrimSpace(data)) == 0 {
			return nil
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		return dec.Decode(cfg)
	default:
		return fmt.Errorf("unsupported config extension %q", filepath.Ext(path))
	}
}

// Validate checks ranges and normalizes the extension list.
func (c *Config) Validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.Capacity.Errors < 1 {
		errs = append(errs, errors.New("capacity.errors must be positive"))
	}
	if c.Capacity.Network < 1 {
		errs = append(errs, errors.New("capacity.network must be positive"))
	}
	if c.Capacity.History < 1 {
		errs = append(errs, errors.New("capacity.history must be positive"))
	}
	if c.DebounceMS < 0 {
		errs = append(errs, errors.New("debounce_ms must not be negative"))
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log_level %q", c.LogLevel))
	}
	if _, err := redaction.New(c.Redaction); err != nil {
		errs = append(errs, err)
	}
	exts := make([]string, 0, len(c.Extensions))
	for _, e := range c.Extensions {
		e = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))
		if e != "" {
			exts = append(exts, e)
		}
	}
	if len(exts) == 0 {
		exts = append(exts, DefaultExtensions...)
	}
	c.Extensions = exts
	return errors.Join(errs...)
}
