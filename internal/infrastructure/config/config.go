// Package config provides centralized configuration management
// using Viper for configuration loading and validation
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage drivers
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// EnvPrefix prefixes every environment override, e.g. DIETPLANNER_STORAGE_DATA_DIR
const EnvPrefix = "DIETPLANNER"

// Config holds all application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Diet       DietConfig       `mapstructure:"diet"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
}

// StorageConfig selects and locates the meal plan store
type StorageConfig struct {
	Driver        string        `mapstructure:"driver"`
	DataDir       string        `mapstructure:"data_dir"`
	RecipeDir     string        `mapstructure:"recipe_dir"`
	MealsFile     string        `mapstructure:"meals_file"`
	DietFile      string        `mapstructure:"diet_file"`
	SQLitePath    string        `mapstructure:"sqlite_path"`
	Watch         bool          `mapstructure:"watch"`
	WatchDebounce time.Duration `mapstructure:"watch_debounce"`
}

// DietConfig tunes compliance checking and unit conversion
type DietConfig struct {
	RestrictedThreshold float64 `mapstructure:"restricted_threshold"`
	WarningThreshold    float64 `mapstructure:"warning_threshold"`
	SevereThreshold     float64 `mapstructure:"severe_threshold"`
	KitchenContext      bool    `mapstructure:"kitchen_context"`
	DensityGPerML       float64 `mapstructure:"density_g_per_ml"`
}

// MonitoringConfig contains monitoring configuration
type MonitoringConfig struct {
	EnableMetrics    bool    `mapstructure:"enable_metrics"`
	EnableTracing    bool    `mapstructure:"enable_tracing"`
	MetricsNamespace string  `mapstructure:"metrics_namespace"`
	SamplingRate     float64 `mapstructure:"sampling_rate"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("dietplanner")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.config/dietplanner")
	}

	// Enable environment variable override
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist, we have defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// Unmarshal configuration
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "dietplanner")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.log_level", "warn")
	v.SetDefault("app.log_format", "console")

	// Storage defaults
	v.SetDefault("storage.driver", DriverFile)
	v.SetDefault("storage.data_dir", ".")
	v.SetDefault("storage.recipe_dir", "Recipes")
	v.SetDefault("storage.meals_file", "saved_meals.csv")
	v.SetDefault("storage.diet_file", "tracker.csv")
	v.SetDefault("storage.sqlite_path", "dietplanner.db")
	v.SetDefault("storage.watch", false)
	v.SetDefault("storage.watch_debounce", "250ms")

	// Diet defaults
	v.SetDefault("diet.restricted_threshold", 0.20)
	v.SetDefault("diet.warning_threshold", 0.20)
	v.SetDefault("diet.severe_threshold", 0.40)
	v.SetDefault("diet.kitchen_context", true)
	v.SetDefault("diet.density_g_per_ml", 0)

	// Monitoring defaults
	v.SetDefault("monitoring.enable_metrics", true)
	v.SetDefault("monitoring.enable_tracing", false)
	v.SetDefault("monitoring.metrics_namespace", "dietplanner")
	v.SetDefault("monitoring.sampling_rate", 1.0)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}

	switch c.Storage.Driver {
	case DriverFile:
		if c.Storage.DataDir == "" {
			return fmt.Errorf("storage.data_dir is required for the %s driver", DriverFile)
		}
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("storage.sqlite_path is required for the %s driver", DriverSQLite)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("storage.driver must be one of %s, %s, %s", DriverFile, DriverSQLite, DriverMemory)
	}

	if c.Storage.WatchDebounce < 0 {
		return fmt.Errorf("storage.watch_debounce must not be negative")
	}

	for name, value := range map[string]float64{
		"diet.restricted_threshold": c.Diet.RestrictedThreshold,
		"diet.warning_threshold":    c.Diet.WarningThreshold,
		"diet.severe_threshold":     c.Diet.SevereThreshold,
		"monitoring.sampling_rate":  c.Monitoring.SamplingRate,
	} {
		if value < 0 || value > 1 {
			return fmt.Errorf("%s must be between 0 and 1", name)
		}
	}
	if c.Diet.WarningThreshold > c.Diet.SevereThreshold {
		return fmt.Errorf("diet.warning_threshold must not exceed diet.severe_threshold")
	}
	if c.Diet.DensityGPerML < 0 {
		return fmt.Errorf("diet.density_g_per_ml must not be negative")
	}

	return nil
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}
