// Package config loads and validates the runtime options of a training run.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Gradient backends.
const (
	GradientClosedForm = "closed-form"
	GradientTape       = "tape"
)

// Config captures the runtime knobs for a training run.
type Config struct {
	DataPath    string `yaml:"data_path"`
	Seed        uint64 `yaml:"seed"`
	Gradient    string `yaml:"gradient"`
	ProgressCSV string `yaml:"progress_csv"`
	Interactive bool   `yaml:"interactive"`
}

// Overrides captures CLI supplied values. A nil Seed means the flag was not given.
type Overrides struct {
	DataPath    string
	Seed        *uint64
	Gradient    string
	ProgressCSV string
	Interactive bool
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Seed:     1,
		Gradient: GradientClosedForm,
	}
}

// Load reads a Config from a YAML file on top of Default.
// It does not validate; callers apply overrides first.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML from r on top of Default. Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if cfg.Gradient == "" {
		cfg.Gradient = GradientClosedForm
	}
	return cfg, nil
}

// ApplyOverrides updates cfg using any non-zero override. Seed is applied
// whenever it is set, zero included.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.DataPath != "" {
		c.DataPath = o.DataPath
	}
	if o.Seed != nil {
		c.Seed = *o.Seed
	}
	if o.Gradient != "" {
		c.Gradient = o.Gradient
	}
	if o.ProgressCSV != "" {
		c.ProgressCSV = o.ProgressCSV
	}
	if o.Interactive {
		c.Interactive = true
	}
}

// Validate verifies the config is runnable.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.DataPath == "" {
		return errors.New("data_path must be set")
	}
	switch c.Gradient {
	case GradientClosedForm, GradientTape:
	default:
		return fmt.Errorf("gradient must be %q or %q (got %q)", GradientClosedForm, GradientTape, c.Gradient)
	}
	return nil
}
