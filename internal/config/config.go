// Package config provides configuration management for optionlab.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Market  MarketConfig  `mapstructure:"market"`
	Solver  SolverConfig  `mapstructure:"solver"`
	Surface SurfaceConfig `mapstructure:"surface"`
	Log     LogConfig     `mapstructure:"log"`
	Store   StoreConfig   `mapstructure:"store"`
	UI      UIConfig      `mapstructure:"ui"`
}

// MarketConfig holds default market inputs used when a command omits them.
type MarketConfig struct {
	Rate       float64 `mapstructure:"rate"`
	Volatility float64 `mapstructure:"volatility"`
}

// SolverConfig tunes the break-even search.
type SolverConfig struct {
	Precision     float64 `mapstructure:"precision"`
	ScanStep      float64 `mapstructure:"scan_step"`
	MaxIterations int     `mapstructure:"max_iterations"`
	Window        float64 `mapstructure:"window"`
	WindowStep    float64 `mapstructure:"window_step"`
	PriceRange    float64 `mapstructure:"price_range"`
}

// SurfaceConfig tunes the P/L surface grid.
type SurfaceConfig struct {
	PriceRange    float64      `mapstructure:"price_range"`
	RenderHeight  int          `mapstructure:"render_height"`
	MinCellHeight int          `mapstructure:"min_cell_height"`
	Workers       int          `mapstructure:"workers"` // 0 means one per CPU
	Steps         []ColumnStep `mapstructure:"steps"`
	Fallback      int          `mapstructure:"fallback_columns"`
}

// ColumnStep maps a horizon of up to MaxDays to a column count.
type ColumnStep struct {
	MaxDays float64 `mapstructure:"max_days"`
	Columns int     `mapstructure:"columns"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       bool   `mapstructure:"file"`
	Path       string `mapstructure:"path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// StoreConfig holds the saved-strategy database location.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/optionlab"
	}
	return filepath.Join(home, ".config", "optionlab")
}

// Default returns the built-in configuration. File paths are left empty and
// resolved against the config directory on Load.
func Default() *Config {
	return &Config{
		Market: MarketConfig{Rate: 0.05, Volatility: 0.30},
		Solver: SolverConfig{
			Precision:     0.001,
			ScanStep:      0.10,
			MaxIterations: 1000,
			Window:        5,
			WindowStep:    0.01,
			PriceRange:    0.5,
		},
		Surface: SurfaceConfig{
			PriceRange:    0.5,
			RenderHeight:  400,
			MinCellHeight: 20,
			Steps: []ColumnStep{
				{MaxDays: 7, Columns: 48},
				{MaxDays: 14, Columns: 40},
				{MaxDays: 30, Columns: 32},
				{MaxDays: 60, Columns: 26},
				{MaxDays: 90, Columns: 22},
			},
			Fallback: 20,
		},
		Log: LogConfig{
			Level:      "info",
			File:       true,
			MaxSize:    20,
			MaxBackups: 5,
			MaxAge:     30,
		},
		UI: UIConfig{ColorEnabled: true, DateFormat: "2006-01-02"},
	}
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory. A missing file is
// replaced by a template and the built-in defaults are used.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := Default()
	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	applyEnvOverrides(cfg)
	cfg.resolvePaths(configDir)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir, name string, target *Config) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateConfig(configDir, name)
		}
		return err
	}

	return v.Unmarshal(target)
}

// resolvePaths places unset file paths inside the config directory.
func (c *Config) resolvePaths(configDir string) {
	if c.Store.Path == "" {
		c.Store.Path = filepath.Join(configDir, "strategies.db")
	}
	if c.Log.Path == "" {
		c.Log.Path = filepath.Join(configDir, "logs", "optionlab.log")
	}
}

func applyEnvOverrides(cfg *Config) {
	if v, ok := envFloat("OPTIONLAB_RATE"); ok {
		cfg.Market.Rate = v
	}
	if v, ok := envFloat("OPTIONLAB_VOLATILITY"); ok {
		cfg.Market.Volatility = v
	}
	if v := os.Getenv("OPTIONLAB_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("OPTIONLAB_DB"); v != "" {
		cfg.Store.Path = v
	}
	if v, ok := envInt("OPTIONLAB_WORKERS"); ok {
		cfg.Surface.Workers = v
	}
	if os.Getenv("NO_COLOR") != "" {
		cfg.UI.ColorEnabled = false
	}
}

func envFloat(key string) (float64, bool) {
	s := os.Getenv(key)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

func envInt(key string) (int, bool) {
	s := os.Getenv(key)
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	return v, err == nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Market.Volatility < 0 {
		return fmt.Errorf("market.volatility must be non-negative")
	}

	if c.Solver.Precision <= 0 {
		return fmt.Errorf("solver.precision must be positive")
	}
	if c.Solver.ScanStep <= 0 || c.Solver.WindowStep <= 0 {
		return fmt.Errorf("solver scan steps must be positive")
	}
	if c.Solver.MaxIterations <= 0 {
		return fmt.Errorf("solver.max_iterations must be positive")
	}
	if c.Solver.PriceRange <= 0 {
		return fmt.Errorf("solver.price_range must be positive")
	}

	if c.Surface.PriceRange <= 0 || c.Surface.PriceRange > 1 {
		return fmt.Errorf("surface.price_range must be in (0, 1]")
	}
	if c.Surface.MinCellHeight <= 0 {
		return fmt.Errorf("surface.min_cell_height must be positive")
	}
	if c.Surface.Workers < 0 {
		return fmt.Errorf("surface.workers must be non-negative")
	}
	for i := 1; i < len(c.Surface.Steps); i++ {
		if c.Surface.Steps[i].MaxDays <= c.Surface.Steps[i-1].MaxDays {
			return fmt.Errorf("surface.steps must be ordered by max_days")
		}
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn or error)", c.Log.Level)
	}

	return nil
}
