package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds every runtime knob for the engine. Values come from the
// environment (or a .env file in development) with defaults suitable
// for a local run.
type Config struct {
	Environment string `mapstructure:"ENVIRONMENT"`
	Port        string `mapstructure:"PORT"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	// Simulation
	SimulationTrials int   `mapstructure:"SIMULATION_TRIALS"`
	SimulationSeed   int64 `mapstructure:"SIMULATION_SEED"`

	// Priors
	PriorsDir string `mapstructure:"PRIORS_DIR"`

	// Portfolio policy
	PortfolioSize    int     `mapstructure:"PORTFOLIO_SIZE"`
	MaxChalkExposure float64 `mapstructure:"MAX_CHALK_EXPOSURE"`
	MaxBaseExposure  float64 `mapstructure:"MAX_BASE_EXPOSURE"`
	MaxOverlap       int     `mapstructure:"MAX_OVERLAP"`

	// Cache
	RedisURL      string `mapstructure:"REDIS_URL"`
	CacheTTLHours int    `mapstructure:"CACHE_TTL_HOURS"`
}

// Load reads configuration from the environment, tolerating a missing
// .env file outside development.
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SIMULATION_TRIALS", 10000)
	viper.SetDefault("SIMULATION_SEED", 0)
	viper.SetDefault("PRIORS_DIR", "data/priors")
	viper.SetDefault("PORTFOLIO_SIZE", 20)
	viper.SetDefault("MAX_CHALK_EXPOSURE", 0.40)
	viper.SetDefault("MAX_BASE_EXPOSURE", 0.20)
	viper.SetDefault("MAX_OVERLAP", 6)
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("CACHE_TTL_HOURS", 24)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
