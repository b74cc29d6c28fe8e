// Package config loads the pipeline configuration from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mitsuba-lab/odaigen/pkg/odaigen/internalerr"
)

// Source adapter types accepted in the sources list.
const (
	TypeFixture   = "fixture"
	TypeLocaleDB  = "localedb"
	TypeDirectory = "directory"
)

// Defaults applied when the config file leaves a field unset.
const (
	DefaultMinAnswers   = 10
	DefaultFetchTimeout = 30 * time.Second
)

// Config is the full pipeline configuration.
type Config struct {
	Output       Output   `yaml:"output"`
	Sources      []Source `yaml:"sources"`
	MinAnswers   int      `yaml:"min_answers"`
	FetchTimeout int      `yaml:"fetch_timeout_seconds"`
}

// Output holds the two artifact locations. Themes and datasets are kept
// physically separate so consumers can tell quiz-ready data from
// reference data without inspecting content.
type Output struct {
	ThemesDir   string `yaml:"themes_dir"`
	DatasetsDir string `yaml:"datasets_dir"`
}

// Source describes one adapter in fixed processing order.
type Source struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	Path string `yaml:"path"`
	URL  string `yaml:"url"`
}

// Load reads and validates a YAML config file, applying defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.MinAnswers == 0 {
		cfg.MinAnswers = DefaultMinAnswers
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks structural requirements.
func (c *Config) Validate() error {
	if c.Output.ThemesDir == "" || c.Output.DatasetsDir == "" {
		return fmt.Errorf("%w: both output.themes_dir and output.datasets_dir are required", internalerr.ErrInvalidConfig)
	}
	if c.Output.ThemesDir == c.Output.DatasetsDir {
		return fmt.Errorf("%w: theme and dataset outputs must be separate locations", internalerr.ErrInvalidConfig)
	}
	if len(c.Sources) == 0 {
		return fmt.Errorf("%w: at least one source is required", internalerr.ErrInvalidConfig)
	}
	for i, s := range c.Sources {
		if s.Name == "" {
			return fmt.Errorf("%w: sources[%d] has no name", internalerr.ErrInvalidConfig, i)
		}
		switch s.Type {
		case TypeFixture, TypeLocaleDB:
			if s.Path == "" {
				return fmt.Errorf("%w: source %q needs a path", internalerr.ErrInvalidConfig, s.Name)
			}
		case TypeDirectory:
			if s.URL == "" {
				return fmt.Errorf("%w: source %q needs a url", internalerr.ErrInvalidConfig, s.Name)
			}
		default:
			return fmt.Errorf("%w: source %q has unknown type %q", internalerr.ErrInvalidConfig, s.Name, s.Type)
		}
	}
	if c.MinAnswers < 1 {
		return fmt.Errorf("%w: min_answers must be positive", internalerr.ErrInvalidConfig)
	}
	return nil
}

// Timeout returns the outbound fetch budget.
func (c *Config) Timeout() time.Duration {
	if c.FetchTimeout <= 0 {
		return DefaultFetchTimeout
	}
	return time.Duration(c.FetchTimeout) * time.Second
}
