// Package config loads the scenario configuration for a simulation run.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config describes one simulation: the target, the load profile and the
// resources every virtual user visits in order.
type Config struct {
	Target     string     `yaml:"target"`
	Users      int        `yaml:"users"`
	Ramp       Duration   `yaml:"ramp"`
	Iterations int        `yaml:"iterations"`
	Timeout    Duration   `yaml:"timeout"`
	Caching    *bool      `yaml:"caching,omitempty"`
	Resources  []Resource `yaml:"resources"`
}

// Resource is one entry of the scenario, fetched relative to the target URL.
type Resource struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// Duration wraps time.Duration so values like "30s" can be written in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var text string
	if err := value.Decode(&text); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(text)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", text, err)
	}
	*d = Duration(parsed)
	return nil
}

// Load reads and validates a scenario file, filling in defaults.
func Load(filename string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(filename)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal yaml: %w", err)
	}
	if cfg.Target == "" {
		return cfg, fmt.Errorf("config: target is required")
	}
	if len(cfg.Resources) == 0 {
		return cfg, fmt.Errorf("config: at least one resource is required")
	}
	if cfg.Users <= 0 {
		cfg.Users = 1
	}
	if cfg.Iterations <= 0 {
		cfg.Iterations = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = Duration(30 * time.Second)
	}
	for i, r := range cfg.Resources {
		if r.Name == "" {
			cfg.Resources[i].Name = r.Path
		}
	}
	return cfg, nil
}

// CachingEnabled reports whether client-side cache emulation is on for this
// simulation. It defaults to on when the scenario does not say otherwise.
func (c Config) CachingEnabled() bool {
	if c.Caching != nil {
		return *c.Caching
	}
	return true
}
