// Package config loads YAML device configuration: which backend to use,
// the oscillator and hour format for initialization, and optional
// prescaler overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"gortc/core"
)

// Config describes one RTC device instance.
type Config struct {
	// Backend selects the hardware access layer: "sim", "serial" or
	// "i2c".
	Backend string `yaml:"backend"`

	// ClockSource is "lsi", "lse" or "hse".
	ClockSource string `yaml:"clock_source"`

	// HourFormat is 12 or 24.
	HourFormat int `yaml:"hour_format"`

	Serial SerialConfig `yaml:"serial"`
	I2C    I2CConfig    `yaml:"i2c"`

	// Prescaler optionally overrides the divider chain before
	// initialization.
	Prescaler *PrescalerConfig `yaml:"prescaler"`
}

// SerialConfig is the bridge link for the "serial" backend.
type SerialConfig struct {
	Device      string `yaml:"device"`
	Baud        int    `yaml:"baud"`
	ReadTimeout int    `yaml:"read_timeout"` // milliseconds
}

// I2CConfig locates the chip for the "i2c" backend.
type I2CConfig struct {
	// Bus is the periph.io bus name, e.g. "/dev/i2c-1"; empty selects
	// the first available bus.
	Bus string `yaml:"bus"`
	// Address 0 selects the chip default.
	Address uint8 `yaml:"address"`
}

// PrescalerConfig mirrors core.Prescaler with a textual layout.
type PrescalerConfig struct {
	Layout string `yaml:"layout"` // "dual" (default) or "single"
	Async  int32  `yaml:"async"`
	Sync   int32  `yaml:"sync"`
}

// Load reads and parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data, applies defaults and validates the
// enumerated fields.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Backend == "" {
		cfg.Backend = "sim"
	}
	if cfg.ClockSource == "" {
		cfg.ClockSource = "lsi"
	}
	if cfg.HourFormat == 0 {
		cfg.HourFormat = 24
	}
	if cfg.Serial.Baud == 0 {
		cfg.Serial.Baud = 115200
	}
	if cfg.Serial.ReadTimeout == 0 {
		cfg.Serial.ReadTimeout = 100
	}
	if cfg.Prescaler != nil && cfg.Prescaler.Layout == "" {
		cfg.Prescaler.Layout = "dual"
	}
}

func validate(cfg *Config) error {
	switch cfg.Backend {
	case "sim", "serial", "i2c":
	default:
		return fmt.Errorf("config: unknown backend %q", cfg.Backend)
	}
	switch cfg.ClockSource {
	case "lsi", "lse", "hse":
	default:
		return fmt.Errorf("config: unknown clock source %q", cfg.ClockSource)
	}
	if cfg.HourFormat != 12 && cfg.HourFormat != 24 {
		return fmt.Errorf("config: hour format must be 12 or 24, got %d", cfg.HourFormat)
	}
	if cfg.Backend == "serial" && cfg.Serial.Device == "" {
		return fmt.Errorf("config: serial backend needs a device path")
	}
	if cfg.Prescaler != nil {
		switch cfg.Prescaler.Layout {
		case "dual", "single":
		default:
			return fmt.Errorf("config: unknown prescaler layout %q", cfg.Prescaler.Layout)
		}
	}
	return nil
}

// Source returns the configured oscillator.
func (c *Config) Source() core.ClockSource {
	switch c.ClockSource {
	case "lse":
		return core.SourceLSE
	case "hse":
		return core.SourceHSE
	}
	return core.SourceLSI
}

// Format returns the configured hour format.
func (c *Config) Format() core.HourFormat {
	if c.HourFormat == 12 {
		return core.Hour12
	}
	return core.Hour24
}

// CorePrescaler returns the configured divider chain override, if any.
func (c *Config) CorePrescaler() (core.Prescaler, bool) {
	if c.Prescaler == nil {
		return core.Prescaler{}, false
	}
	layout := core.PrescalerDual
	if c.Prescaler.Layout == "single" {
		layout = core.PrescalerSingle
	}
	return core.Prescaler{Layout: layout, Async: c.Prescaler.Async, Sync: c.Prescaler.Sync}, true
}
