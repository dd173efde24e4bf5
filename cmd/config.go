package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/greensort/greensort/bench"
	"github.com/greensort/greensort/bench/energy"
	"github.com/greensort/greensort/bench/input"
	"github.com/greensort/greensort/bench/report"
)

// Config represents the full --config YAML structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type Config struct {
	Tuning bench.Tuning  `yaml:"tuning"`
	Energy energy.Config `yaml:"energy"`
	Input  input.Spec    `yaml:"input"`
	Output OutputConfig  `yaml:"output"`
}

// OutputConfig selects the record format and destination.
type OutputConfig struct {
	Format string `yaml:"format"`
	Path   string `yaml:"path"` // empty = stdout
}

// DefaultConfig returns the configuration used when no --config file is given.
func DefaultConfig() Config {
	return Config{
		Tuning: bench.DefaultTuning(),
		Energy: energy.Config{Source: energy.SourceAuto, Root: energy.DefaultSysfsRoot},
		Input:  input.DefaultSpec(),
		Output: OutputConfig{Format: report.FormatText},
	}
}

// LoadConfig parses a config file over DefaultConfig. Sections and fields absent
// from the file keep their defaults; unknown fields are errors.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Tuning.Validate(); err != nil {
		return fmt.Errorf("tuning: %w", err)
	}
	if err := c.Energy.Validate(); err != nil {
		return fmt.Errorf("energy: %w", err)
	}
	if err := c.Input.Validate(); err != nil {
		return fmt.Errorf("input: %w", err)
	}
	if !report.ValidFormats[c.Output.Format] {
		return fmt.Errorf("output: unknown format %q; valid: text, json, yaml, benchfmt, vector", c.Output.Format)
	}
	return nil
}
