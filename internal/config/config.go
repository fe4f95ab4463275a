package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultGap       = 2.0
	DefaultTxRadius  = 0.2
	DefaultPoints    = 500
	DefaultDL        = 0.1
	DefaultFrequency = 10.0e6
	DefaultLoad      = 50.0
)

// Config drives a placement sweep. Grid defaults follow the reference
// four-coil arrangement: lilypad radii from just above the Tx radius
// up to 0.55 m, positions strictly inside the Tx-Rx gap.
type Config struct {
	Gap       float64    `yaml:"gap"`
	TxRadius  float64    `yaml:"tx_radius"`
	Points    int        `yaml:"points"`
	DL        float64    `yaml:"dl"`
	Frequency float64    `yaml:"frequency"`
	Load      float64    `yaml:"load"`
	Radius    GridConfig `yaml:"radius"`
	Position  GridConfig `yaml:"position"`
	Workers   int        `yaml:"workers"`
	Seed      int64      `yaml:"seed"`
}

// GridConfig is one linearly spaced parameter axis.
type GridConfig struct {
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
	Steps int     `yaml:"steps"`
}

func DefaultConfig() *Config {
	return &Config{
		Gap:       DefaultGap,
		TxRadius:  DefaultTxRadius,
		Points:    DefaultPoints,
		DL:        DefaultDL,
		Frequency: DefaultFrequency,
		Load:      DefaultLoad,
		Radius:    GridConfig{Min: 0.2167, Max: 0.55, Steps: 7},
		Position:  GridConfig{Min: 0.05, Max: 0.975, Steps: 19},
		Workers:   4,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Gap <= 0 {
		return fmt.Errorf("config: gap must be positive, got %g", c.Gap)
	}
	if c.TxRadius <= 0 {
		return fmt.Errorf("config: tx_radius must be positive, got %g", c.TxRadius)
	}
	if c.Points < 3 {
		return fmt.Errorf("config: points must be at least 3, got %d", c.Points)
	}
	if c.DL <= 0 {
		return fmt.Errorf("config: dl must be positive, got %g", c.DL)
	}
	if c.Frequency <= 0 {
		return fmt.Errorf("config: frequency must be positive, got %g", c.Frequency)
	}
	if c.Load <= 0 {
		return fmt.Errorf("config: load must be positive, got %g", c.Load)
	}
	for name, g := range map[string]GridConfig{"radius": c.Radius, "position": c.Position} {
		if g.Steps < 1 {
			return fmt.Errorf("config: %s.steps must be at least 1, got %d", name, g.Steps)
		}
		if g.Max < g.Min {
			return fmt.Errorf("config: %s bounds inverted: [%g, %g]", name, g.Min, g.Max)
		}
	}
	if c.Position.Min <= 0 || c.Position.Max >= c.Gap {
		return fmt.Errorf("config: positions must lie strictly inside the gap (0, %g)", c.Gap)
	}
	return nil
}
