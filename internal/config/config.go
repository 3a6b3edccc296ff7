package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/BruksfildServices01/maintenance-orders/internal/timezone"
)

const devSecret = "dev-secret-change-me"

type Config struct {
	AppEnv     string        `env:"APP_ENV" envDefault:"development"`
	SecretKey  string        `env:"SECRET_KEY"`
	DBDriver   string        `env:"DB_DRIVER" envDefault:"sqlite"`
	DBUrl      string        `env:"DATABASE_URL" envDefault:"maintenance.db"`
	ServerPort string        `env:"SERVER_PORT" envDefault:"8080"`
	LogLevel   string        `env:"LOG_LEVEL" envDefault:"info"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	Timezone   string        `env:"TIMEZONE" envDefault:"UTC"`
	RedisAddr  string        `env:"REDIS_ADDR"`

	Report ReportConfig
}

type ReportConfig struct {
	Dir         string `env:"REPORT_DIR"`
	Bucket      string `env:"REPORT_BUCKET"`
	Region      string `env:"AWS_REGION" envDefault:"us-east-1"`
	AccessKeyID string `env:"AWS_ACCESS_KEY_ID"`
	SecretKey   string `env:"AWS_SECRET_ACCESS_KEY"`
	Endpoint    string `env:"S3_ENDPOINT"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.SecretKey == "" {
		if c.IsProduction() {
			return errors.New("SECRET_KEY is required in production")
		}
		c.SecretKey = devSecret
	}

	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}

	if !timezone.IsValid(c.Timezone) {
		return fmt.Errorf("unknown TIMEZONE %q", c.Timezone)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.ServerPort)
}
