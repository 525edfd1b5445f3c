// Copyright 2025 Marc Jourdan <mjourdan@fastmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netsta

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// A Config carries the scalar timing constraints of one analysis plus
// optional per-tag delay overrides and per-vertex boundary overrides.
//
type Config struct {
	// ClockPeriod is Tclk in nanoseconds. Zero means the design is
	// unclocked: endpoints then require their own arrival time (zero slack
	// at the outputs).
	ClockPeriod float64 `yaml:"clock_period" validate:"gte=0"`

	// Setup is the endpoint setup time in nanoseconds.
	Setup float64 `yaml:"setup" validate:"gte=0"`

	// ClockToQ seeds flip-flop Q-side startpoints, in nanoseconds.
	ClockToQ float64 `yaml:"clock_to_q" validate:"gte=0"`

	// MaxPaths bounds the number of critical paths extracted.
	MaxPaths int `yaml:"max_paths" validate:"gte=0"`

	// ViolationsOnly restricts path extraction to negative-slack endpoints
	// after the first path.
	ViolationsOnly bool `yaml:"violations_only"`

	// Delays overrides individual gate-delay table entries by tag name.
	// Tags must exist; there is no loader rule for new ones.
	Delays map[string]float64 `yaml:"delays" validate:"omitempty,dive,gte=0"`

	// StartpointAT overrides the arrival-time seed of named startpoints.
	StartpointAT map[string]float64 `yaml:"startpoint_at"`

	// EndpointRT overrides the required-time seed of named endpoints.
	EndpointRT map[string]float64 `yaml:"endpoint_rt"`
}

// DefaultConfig returns the default constraints: a 2 ns clock, 0.05 ns
// setup, 0.08 ns clock-to-Q and a single reported path.
//
func DefaultConfig() Config {
	return Config{
		ClockPeriod: 2.0,
		Setup:       0.05,
		ClockToQ:    0.08,
		MaxPaths:    1,
	}
}

var validate = validator.New()

// Validate checks the constraint values and the delay override tag names.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid timing constraints")
	}
	for name := range c.Delays {
		if _, ok := GateTypeByName(name); !ok {
			return errors.Errorf("delay override for unknown gate tag %q", name)
		}
	}
	return nil
}

// LoadConfig reads a YAML constraints file over the defaults.
//
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "reading constraints")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(err, "parsing constraints")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// delayTable resolves the run's effective gate-delay table.
func (c *Config) delayTable() (DelayTable, error) {
	t := DefaultDelays()
	for name, d := range c.Delays {
		gt, ok := GateTypeByName(name)
		if !ok {
			return t, errors.Errorf("delay override for unknown gate tag %q", name)
		}
		t[gt] = d
	}
	return t, nil
}
