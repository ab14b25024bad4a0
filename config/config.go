// Package config loads the YAML configuration a keeperctl deployment
// starts a Pool from: how many Keepers to run and the GC threshold each
// one enforces.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PoolConfig is the top-level pool.yml configuration.
type PoolConfig struct {
	// Keepers is the fixed number of auxiliary interpreters the Pool
	// constructs. Per spec §4.7, this is a deployment knob, not hardcoded.
	Keepers int `yaml:"keepers"`

	// GCThreshold governs the Pool's GC policy (spec §4.8): negative
	// disables GC, zero steps incrementally every call, positive runs a
	// full collection once allocation crosses the threshold.
	GCThreshold int64 `yaml:"gc_threshold"`
}

// Validate checks the fields Load doesn't already guarantee are well typed.
func (c *PoolConfig) Validate() error {
	if c.Keepers < 1 {
		return fmt.Errorf("keepers must be >= 1, got %d", c.Keepers)
	}
	return nil
}

// Load reads and validates a PoolConfig from path.
func Load(path string) (*PoolConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg PoolConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
