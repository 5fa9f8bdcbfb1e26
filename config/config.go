// Package config loads the YAML configuration file the CLI reads at
// startup: logging setup, the detection budgets and worker-pool size the
// Driver uses when a subcommand doesn't override them, and report output
// settings.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration document.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Detection DetectionConfig `yaml:"detection"`
	Report    ReportConfig    `yaml:"report"`
}

// LoggingConfig mirrors logging.Config's exported fields for YAML
// round-tripping.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Quiet  bool   `yaml:"quiet"`
}

// DetectionConfig holds the default Driver budgets and worker-pool size
// (spec.md §6's event_iterations/detect_iterations/cores/sensitivity).
type DetectionConfig struct {
	EventIterations  int      `yaml:"event_iterations"`
	DetectIterations int      `yaml:"detect_iterations"`
	Cores            int      `yaml:"cores"`
	Sensitivity      string   `yaml:"sensitivity"`
	NumInput         []int    `yaml:"num_input"`
	TestEpsilons     []float64 `yaml:"test_epsilons"`
}

// ReportConfig controls where JSONL rows and the HTML chart land.
type ReportConfig struct {
	OutputDir  string `yaml:"output_dir"`
	ChartTitle string `yaml:"chart_title"`
}

// DefaultConfig returns the configuration used when no file is found,
// matching spec.md §6's own defaults.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Detection: DetectionConfig{
			EventIterations:  100_000,
			DetectIterations: 500_000,
			Cores:            0,
			Sensitivity:      "ALL_DIFFER",
			NumInput:         []int{5, 10},
			TestEpsilons:     []float64{0.1, 0.5, 1.0, 1.5},
		},
		Report: ReportConfig{
			OutputDir:  "./reports",
			ChartTitle: "statdp counterexample detection",
		},
	}
}

// Load reads a YAML configuration file, overlaying any fields the file
// does set on top of DefaultConfig. An empty path reads statdp.yaml in
// the working directory; when the file does not exist, Load returns
// DefaultConfig unchanged.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = "statdp.yaml"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("statdp/config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("statdp/config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("statdp/config: marshaling: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate rejects a configuration that would produce a nonsensical
// detection run.
func (c *Config) Validate() error {
	if c.Detection.EventIterations <= 0 {
		return fmt.Errorf("statdp/config: detection.event_iterations must be positive")
	}
	if c.Detection.DetectIterations <= 0 {
		return fmt.Errorf("statdp/config: detection.detect_iterations must be positive")
	}
	if c.Detection.Sensitivity != "ALL_DIFFER" && c.Detection.Sensitivity != "ONE_DIFFER" {
		return fmt.Errorf("statdp/config: detection.sensitivity must be ALL_DIFFER or ONE_DIFFER, got %q", c.Detection.Sensitivity)
	}
	if c.Report.OutputDir == "" {
		return fmt.Errorf("statdp/config: report.output_dir is required")
	}
	return nil
}
