// File: internal/config/config.go
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger LoggerConfig `mapstructure:"logger" yaml:"logger"`
	Render RenderConfig `mapstructure:"render" yaml:"render"`
	Limits LimitsConfig `mapstructure:"limits" yaml:"limits"`
	Engine EngineConfig `mapstructure:"engine" yaml:"engine"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// RenderConfig holds the page geometry and output settings used when a job
// does not override them.
type RenderConfig struct {
	PageWidth    float64 `mapstructure:"page_width" yaml:"page_width"`
	PageHeight   float64 `mapstructure:"page_height" yaml:"page_height"`
	BaseFontSize float64 `mapstructure:"base_font_size" yaml:"base_font_size"`
	OutputDir    string  `mapstructure:"output_dir" yaml:"output_dir"`
	Format       string  `mapstructure:"format" yaml:"format"`
}

// LimitsConfig bounds the work one layout call may perform.
type LimitsConfig struct {
	MaxNestingDepth int `mapstructure:"max_nesting_depth" yaml:"max_nesting_depth"`
	MaxFlexLines    int `mapstructure:"max_flex_lines" yaml:"max_flex_lines"`
	MaxRenderDepth  int `mapstructure:"max_render_depth" yaml:"max_render_depth"`
}

// EngineConfig configures the batch rendering pipeline.
type EngineConfig struct {
	WorkerConcurrency int `mapstructure:"worker_concurrency" yaml:"worker_concurrency"`
}

// NewDefaultConfig creates a new configuration struct populated with
// default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration
// parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "stencil")
	v.SetDefault("logger.log_file", "stencil.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Render --
	// 384pt is the printable width of a common 80mm thermal roll.
	v.SetDefault("render.page_width", 384.0)
	// Zero height means auto: the page grows to fit its content.
	v.SetDefault("render.page_height", 0.0)
	v.SetDefault("render.base_font_size", 12.0)
	v.SetDefault("render.output_dir", ".")
	v.SetDefault("render.format", "json")

	// -- Limits --
	v.SetDefault("limits.max_nesting_depth", 64)
	v.SetDefault("limits.max_flex_lines", 1024)
	v.SetDefault("limits.max_render_depth", 256)

	// -- Engine --
	v.SetDefault("engine.worker_concurrency", 4)
}

// InitViper configures a viper instance for stencil: explicit file if
// given, otherwise discovery in the working directory and the user's home,
// plus STENCIL_ environment overrides.
func InitViper(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".stencil"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("STENCIL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; proceed with defaults/env vars.
	}
	return nil
}

// NewConfigFromViper creates a validated configuration instance from a
// viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.Render.PageWidth <= 0 {
		return fmt.Errorf("render.page_width must be a positive number")
	}
	if c.Render.PageHeight < 0 {
		return fmt.Errorf("render.page_height must be zero (auto) or positive")
	}
	if c.Render.BaseFontSize <= 0 {
		return fmt.Errorf("render.base_font_size must be a positive number")
	}
	switch c.Render.Format {
	case "json", "json-indent":
	default:
		return fmt.Errorf("render.format must be one of: json, json-indent")
	}
	if c.Limits.MaxNestingDepth <= 0 {
		return fmt.Errorf("limits.max_nesting_depth must be a positive integer")
	}
	if c.Limits.MaxFlexLines <= 0 {
		return fmt.Errorf("limits.max_flex_lines must be a positive integer")
	}
	if c.Limits.MaxRenderDepth <= 0 {
		return fmt.Errorf("limits.max_render_depth must be a positive integer")
	}
	if c.Engine.WorkerConcurrency <= 0 {
		return fmt.Errorf("engine.worker_concurrency must be a positive integer")
	}
	return nil
}
