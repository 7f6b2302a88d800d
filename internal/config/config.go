// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package config loads the YAML device description used by the commands to
// find the panel: geometry, SPI port and the control pins. It plays the role
// a device tree node plays for a kernel driver, which is why the geometry is
// mandatory while everything else has defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values can use the "2s" form.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Pins names the GPIO lines wired to the panel. Empty cs, reset or busy
// entries leave the corresponding line unwired.
type Pins struct {
	DC    string `yaml:"dc"`
	CS    string `yaml:"cs"`
	Reset string `yaml:"reset"`
	Busy  string `yaml:"busy"`
}

// Config describes one attached panel.
type Config struct {
	// Width and Height are the panel geometry in pixels. Both are
	// required; a missing value is an attach-time error.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// SPI is the port name for spireg.Open. Empty selects the first
	// available port.
	SPI string `yaml:"spi"`

	// SpeedHz overrides the SPI clock. Zero keeps the driver default.
	SpeedHz int64 `yaml:"speed_hz"`

	Pins Pins `yaml:"pins"`

	// InitTimeout and UpdateTimeout override the busy wait budgets.
	InitTimeout   Duration `yaml:"init_timeout"`
	UpdateTimeout Duration `yaml:"update_timeout"`

	// ResetBeforePartial pulses the reset line before each partial
	// update. Defaults to true, matching the stock panel's controller.
	ResetBeforePartial *bool `yaml:"reset_before_partial"`
}

// Default returns the configuration for the stock 2.13" HAT wiring.
func Default() *Config {
	yes := true
	return &Config{
		Width:  128,
		Height: 250,
		Pins: Pins{
			DC:    "GPIO25",
			CS:    "GPIO8",
			Reset: "GPIO17",
			Busy:  "GPIO24",
		},
		ResetBeforePartial: &yes,
	}
}

// Normalize fills in missing values with the stock wiring defaults. The
// geometry is deliberately not defaulted.
func (c *Config) Normalize() {
	def := Default()
	if c.Pins.DC == "" {
		c.Pins.DC = def.Pins.DC
	}
	if c.Pins.CS == "" {
		c.Pins.CS = def.Pins.CS
	}
	if c.Pins.Reset == "" {
		c.Pins.Reset = def.Pins.Reset
	}
	if c.Pins.Busy == "" {
		c.Pins.Busy = def.Pins.Busy
	}
	if c.ResetBeforePartial == nil {
		c.ResetBeforePartial = def.ResetBeforePartial
	}
}

// Validate reports the first fatal problem with the configuration.
func (c *Config) Validate() error {
	if c.Width <= 0 {
		return errors.New("config: width is required and must be positive")
	}
	if c.Height <= 0 {
		return errors.New("config: height is required and must be positive")
	}
	if c.SpeedHz < 0 {
		return fmt.Errorf("config: negative speed_hz %d", c.SpeedHz)
	}
	return nil
}

// Load reads and validates a device description. An empty path returns the
// stock default configuration.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
