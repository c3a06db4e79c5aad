package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port              string `mapstructure:"PORT"`
	Env               string `mapstructure:"ENV"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	RedisAddr         string `mapstructure:"REDIS_ADDR"`
	RedisPassword     string `mapstructure:"REDIS_PASSWORD"`
	RedisDB           int    `mapstructure:"REDIS_DB"`
	DefaultTenantCode string `mapstructure:"DEFAULT_TENANT_CODE"`
	SessionTTLHours   int    `mapstructure:"SESSION_TTL_HOURS"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("DEFAULT_TENANT_CODE", "")
	v.SetDefault("SESSION_TTL_HOURS", 24)
	v.SetDefault("LOG_LEVEL", "info")

	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("REDIS_ADDR")
	v.BindEnv("REDIS_PASSWORD")
	v.BindEnv("REDIS_DB")
	v.BindEnv("DEFAULT_TENANT_CODE")
	v.BindEnv("SESSION_TTL_HOURS")
	v.BindEnv("LOG_LEVEL")

	// Read .env when present; env vars alone are fine.
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}
