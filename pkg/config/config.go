// Package config loads the vault server configuration from environment
// variables and an optional config file.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvConfigFile names the environment variable holding an optional config
// file path (yaml, json or .env).
const EnvConfigFile = "VAULT_CONFIG"

// Config holds every server setting. Keys match the environment variable names.
type Config struct {
	Port int `mapstructure:"PORT" validate:"min=1,max=65535"`

	FootballDataToken   string `mapstructure:"FOOTBALL_DATA_TOKEN"`
	FootballDataBaseURL string `mapstructure:"FOOTBALL_DATA_BASE_URL" validate:"required,url"`

	// TeamID 0 resolves the id by searching Competition's teams for TeamName.
	TeamID      int64  `mapstructure:"TEAM_ID" validate:"min=0"`
	TeamName    string `mapstructure:"TEAM_NAME" validate:"required"`
	Competition string `mapstructure:"COMPETITION" validate:"required,alphanum"`

	FixturesFile string `mapstructure:"FIXTURES_FILE"`
	StaticDir    string `mapstructure:"STATIC_DIR" validate:"required"`

	CacheBackend string `mapstructure:"CACHE_BACKEND" validate:"oneof=memory bigcache redis layered"`
	RedisURL     string `mapstructure:"REDIS_URL"`

	UpstreamTimeout time.Duration `mapstructure:"UPSTREAM_TIMEOUT" validate:"gt=0"`
	TTLLive         time.Duration `mapstructure:"TTL_LIVE" validate:"gt=0"`
	TTLFixtures     time.Duration `mapstructure:"TTL_FIXTURES" validate:"gt=0"`
	TTLStandings    time.Duration `mapstructure:"TTL_STANDINGS" validate:"gt=0"`

	LogLevel  string `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn warning error"`
	LogPretty bool   `mapstructure:"LOG_PRETTY"`
}

// Load reads configuration from configPath (optional) and the environment.
// Environment variables win over the file.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	}

	v.AutomaticEnv()
	setDefaults(v)

	if configPath != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks field constraints and cross-field rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if (c.CacheBackend == "redis" || c.CacheBackend == "layered") && c.RedisURL == "" {
		return errors.New("REDIS_URL is required for the " + c.CacheBackend + " cache backend")
	}
	return nil
}

// HasToken reports whether an upstream token is configured.
func (c *Config) HasToken() bool {
	return c.FootballDataToken != ""
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("0.0.0.0:%d", c.Port)
}

// setDefaults registers every key so AutomaticEnv can populate Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", 3000)

	v.SetDefault("FOOTBALL_DATA_TOKEN", "")
	v.SetDefault("FOOTBALL_DATA_BASE_URL", "https://api.football-data.org/v4")

	v.SetDefault("TEAM_ID", 67)
	v.SetDefault("TEAM_NAME", "newcastle")
	v.SetDefault("COMPETITION", "PL")

	v.SetDefault("FIXTURES_FILE", "")
	v.SetDefault("STATIC_DIR", "./public")

	v.SetDefault("CACHE_BACKEND", "memory")
	v.SetDefault("REDIS_URL", "")

	v.SetDefault("UPSTREAM_TIMEOUT", "10s")
	v.SetDefault("TTL_LIVE", "15s")
	v.SetDefault("TTL_FIXTURES", "60s")
	v.SetDefault("TTL_STANDINGS", "5m")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)
}
