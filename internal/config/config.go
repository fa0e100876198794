package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/creasty/defaults"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "JOBSWARM"

const (
	MetricsNone   = "none"
	MetricsAtomic = "atomic"
	MetricsOTel   = "otel"
)

// Configuration holds the settings of the demo command.
type Configuration struct {
	Size         int    `default:"2048" mapstructure:"size" debugmap:"visible"`
	Tile         int    `default:"8" mapstructure:"tile" debugmap:"visible"`
	Workers      int    `default:"8" mapstructure:"workers" debugmap:"visible"`
	Iterations   int    `default:"65536" mapstructure:"iterations" debugmap:"visible"`
	Spool        bool   `default:"false" mapstructure:"spool" debugmap:"visible"`
	SpoolCeiling int    `default:"256" mapstructure:"spool-ceiling" debugmap:"visible"`
	PinWorkers   bool   `default:"false" mapstructure:"pin-workers" debugmap:"visible"`
	Repetitions  int    `default:"10" mapstructure:"repetitions" debugmap:"visible"`
	OutputDir    string `default:"." mapstructure:"output-dir" debugmap:"visible"`
	WriteImages  bool   `default:"true" mapstructure:"write-images" debugmap:"visible"`
	Metrics      string `default:"atomic" mapstructure:"metrics" debugmap:"visible"`
	LogFormat    string `default:"console" mapstructure:"log-format" debugmap:"visible"`
	LogLevel     string `default:"info" mapstructure:"log-level" debugmap:"visible"`
}

// NewConfigurationWithDefaults returns a configuration with every field set
// to its default tag.
func NewConfigurationWithDefaults() (*Configuration, error) {
	c := &Configuration{}
	if err := defaults.Set(c); err != nil {
		return nil, fmt.Errorf("failed to apply configuration defaults: %w", err)
	}
	return c, nil
}

// ApplyStressPreset switches to small tiles, few iterations and spooling,
// which maximises the number of jobs and callbacks per image.
func (c *Configuration) ApplyStressPreset() {
	c.Tile = 2
	c.Iterations = 16
	c.Spool = true
	c.SpoolCeiling = 32
}

// StressDefaults registers the stress preset as viper defaults. Flags,
// environment and config file values still take precedence over it.
func StressDefaults(v *viper.Viper) {
	var c Configuration
	c.ApplyStressPreset()
	v.SetDefault("tile", c.Tile)
	v.SetDefault("iterations", c.Iterations)
	v.SetDefault("spool", c.Spool)
	v.SetDefault("spool-ceiling", c.SpoolCeiling)
}

func (c Configuration) Validate() error {
	var errs []error
	if c.Size < 1 {
		errs = append(errs, fmt.Errorf("size must be positive, got %d", c.Size))
	}
	if c.Tile < 1 || (c.Size > 0 && c.Size%c.Tile != 0) {
		errs = append(errs, fmt.Errorf("tile %d must evenly divide size %d", c.Tile, c.Size))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", c.Workers))
	}
	if c.Iterations < 1 {
		errs = append(errs, fmt.Errorf("iterations must be positive, got %d", c.Iterations))
	}
	if c.Spool && c.SpoolCeiling < 1 {
		errs = append(errs, fmt.Errorf("spool-ceiling must be positive, got %d", c.SpoolCeiling))
	}
	if c.Repetitions < 1 {
		errs = append(errs, fmt.Errorf("repetitions must be positive, got %d", c.Repetitions))
	}
	switch c.Metrics {
	case MetricsNone, MetricsAtomic, MetricsOTel:
	default:
		errs = append(errs, fmt.Errorf("invalid metrics %q: must be %q, %q or %q", c.Metrics, MetricsNone, MetricsAtomic, MetricsOTel))
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("invalid log-format %q: must be 'console' or 'json'", c.LogFormat))
	}
	return errors.Join(errs...)
}

// NewViper returns a viper instance reading JOBSWARM_* environment
// variables, with dashes in keys mapped to underscores.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load overlays the values known to v on top of the defaults and validates
// the result. An optional config file is read first when v has one set.
func Load(v *viper.Viper) (*Configuration, error) {
	c, err := NewConfigurationWithDefaults()
	if err != nil {
		return nil, err
	}
	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	// Keys only reachable through the environment must be registered for
	// Unmarshal to see them.
	for _, key := range Keys() {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate configuration: %w", err)
	}
	return c, nil
}

// Keys lists the configuration keys in field order.
func Keys() []string {
	return []string{
		"size", "tile", "workers", "iterations", "spool", "spool-ceiling",
		"pin-workers", "repetitions", "output-dir", "write-images",
		"metrics", "log-format", "log-level",
	}
}

// DebugMap returns the configuration as a map for structured logging.
func (c Configuration) DebugMap() map[string]any {
	return map[string]any{
		"size":          c.Size,
		"tile":          c.Tile,
		"workers":       c.Workers,
		"iterations":    c.Iterations,
		"spool":         c.Spool,
		"spool-ceiling": c.SpoolCeiling,
		"pin-workers":   c.PinWorkers,
		"repetitions":   c.Repetitions,
		"output-dir":    c.OutputDir,
		"write-images":  c.WriteImages,
		"metrics":       c.Metrics,
		"log-format":    c.LogFormat,
		"log-level":     c.LogLevel,
	}
}
