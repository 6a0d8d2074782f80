package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the demo configuration.
type Config struct {
	// Style is the path of the YAML symbol layer.
	Style string `mapstructure:"style"`

	// Input is the path of the GeoJSON feature collection, in WGS84.
	Input string `mapstructure:"input"`

	// Zoom is the tile zoom the features are cut into.
	Zoom int `mapstructure:"zoom"`

	// Font is an OpenType font file. Empty uses Go Regular.
	Font string `mapstructure:"font"`

	Shaper  ShaperConfig  `mapstructure:"shaper"`
	Workers int           `mapstructure:"workers"`
	Debug   bool          `mapstructure:"debug"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// ShaperConfig selects the text shaper.
type ShaperConfig struct {
	// Kind is "gotext" for HarfBuzz advances or "metric" for atlas advances.
	Kind string `mapstructure:"kind"`

	// CacheSize is the number of cached shapings. Zero disables the cache.
	CacheSize int `mapstructure:"cache_size"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig configures the metrics dump.
type MetricsConfig struct {
	// Dump writes the Prometheus text exposition to stdout after layout.
	Dump bool `mapstructure:"dump"`
}

var (
	errMissingStyle = errors.New("labeldemo: style is required")
	errMissingInput = errors.New("labeldemo: input is required")
)

// newViper returns a viper instance with the demo defaults, reading
// LABELDEMO_* environment variables.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("labeldemo")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("style", "")
	v.SetDefault("input", "")
	v.SetDefault("zoom", 14)
	v.SetDefault("font", "")
	v.SetDefault("shaper.kind", "gotext")
	v.SetDefault("shaper.cache_size", 1024)
	v.SetDefault("workers", 4)
	v.SetDefault("debug", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("metrics.dump", false)
	return v
}

// loadConfig reads cfgFile, when set, over the defaults and environment.
func loadConfig(v *viper.Viper, cfgFile string) (Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	switch {
	case c.Style == "":
		return errMissingStyle
	case c.Input == "":
		return errMissingInput
	case c.Zoom < 0 || c.Zoom > 24:
		return fmt.Errorf("labeldemo: zoom %d out of range [0, 24]", c.Zoom)
	}
	switch c.Shaper.Kind {
	case "gotext", "metric":
	default:
		return fmt.Errorf("labeldemo: unknown shaper %q", c.Shaper.Kind)
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	return nil
}
