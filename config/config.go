// Package config provides centralized configuration for LeadMesh wiring:
// workflow step timeouts, session sweep tuning, topic placeholder data and
// logging. Values load from an optional YAML file with environment-variable
// overrides, so demo wiring works with no file at all.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full LeadMesh configuration tree.
type Config struct {
	Orchestrator OrchestratorConfig `yaml:"orchestrator"`
	Sessions     SessionConfig      `yaml:"sessions"`
	Topics       TopicConfig        `yaml:"topics"`
	Logging      LoggingConfig      `yaml:"logging"`
}

// OrchestratorConfig tunes workflow execution.
type OrchestratorConfig struct {
	// StepTimeout bounds each workflow step.
	StepTimeout time.Duration `yaml:"step_timeout"`
}

// SessionConfig tunes session lifecycle management.
type SessionConfig struct {
	// MaxIdle is the inactivity age past which the sweep finalizes a session.
	MaxIdle time.Duration `yaml:"max_idle"`
	// SweepInterval is how often the background sweep runs.
	SweepInterval time.Duration `yaml:"sweep_interval"`
	// DefaultLanguage is used when a caller supplies no language.
	DefaultLanguage string `yaml:"default_language"`
}

// TopicConfig tunes topic selection.
type TopicConfig struct {
	// Locations feeds the location placeholder in topic titles.
	Locations []string `yaml:"locations"`
}

// LoggingConfig tunes the structured logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or text
}

// Default returns a configuration safe for local development and tests.
func Default() Config {
	return Config{
		Orchestrator: OrchestratorConfig{StepTimeout: 10 * time.Second},
		Sessions: SessionConfig{
			MaxIdle:         30 * time.Minute,
			SweepInterval:   5 * time.Minute,
			DefaultLanguage: "en",
		},
		Topics: TopicConfig{
			Locations: []string{"Houston", "Dallas", "Austin", "San Antonio"},
		},
		Logging: LoggingConfig{Level: "info", Format: "json"},
	}
}

// Load reads the YAML file at path (when path is non-empty and the file
// exists), overlays environment variables, validates, and returns the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// Missing file is fine; env and defaults carry the config.
		case err != nil:
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overlays LEADMESH_* environment variables onto the config.
func (c *Config) applyEnv() {
	if v := os.Getenv("LEADMESH_STEP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Orchestrator.StepTimeout = d
		}
	}
	if v := os.Getenv("LEADMESH_SESSION_MAX_IDLE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Sessions.MaxIdle = d
		}
	}
	if v := os.Getenv("LEADMESH_SWEEP_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Sessions.SweepInterval = d
		}
	}
	if v := os.Getenv("LEADMESH_DEFAULT_LANGUAGE"); v != "" {
		c.Sessions.DefaultLanguage = v
	}
	if v := os.Getenv("LEADMESH_TOPIC_LOCATIONS"); v != "" {
		parts := strings.Split(v, ",")
		locations := parts[:0]
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				locations = append(locations, trimmed)
			}
		}
		c.Topics.Locations = locations
	}
	if v := os.Getenv("LEADMESH_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("LEADMESH_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
}

// Validate rejects configurations that would break the runtime.
func (c Config) Validate() error {
	if c.Orchestrator.StepTimeout <= 0 {
		return errors.New("config: orchestrator.step_timeout must be positive")
	}
	if c.Sessions.MaxIdle <= 0 {
		return errors.New("config: sessions.max_idle must be positive")
	}
	if c.Sessions.SweepInterval <= 0 {
		return errors.New("config: sessions.sweep_interval must be positive")
	}
	switch c.Sessions.DefaultLanguage {
	case "en", "es":
	default:
		return fmt.Errorf("config: unsupported default language %q", c.Sessions.DefaultLanguage)
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("config: unsupported log format %q", c.Logging.Format)
	}
	return nil
}
