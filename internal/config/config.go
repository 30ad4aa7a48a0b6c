package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort     string `env:"PORT" envDefault:"8080"`
	DatabaseType   string `env:"DATABASE_TYPE" envDefault:"sqlite"`
	DatabaseURL    string `env:"DATABASE_URL"`
	DatabasePath   string `env:"DB_PATH" envDefault:"./fitfam.db"`
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"./migrations"`

	JWTSecret  string        `env:"JWT_SECRET" envDefault:"secret-dev"`
	JWTTTL     time.Duration `env:"JWT_TTL" envDefault:"24h"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"12"`

	LoginRateLimit  int           `env:"LOGIN_RATE_LIMIT" envDefault:"5"`
	LoginRateWindow time.Duration `env:"LOGIN_RATE_WINDOW" envDefault:"1m"`

	SugarWODAPIKey  string `env:"SUGARWOD_API_KEY"`
	SugarWODBaseURL string `env:"SUGARWOD_BASE_URL" envDefault:"https://api.sugarwod.com/v2"`
	RedisURL        string `env:"REDIS_URL"`

	AWSRegion    string `env:"AWS_REGION" envDefault:"us-east-1"`
	SESFromEmail string `env:"SES_FROM_EMAIL"`
	SESFromName  string `env:"SES_FROM_NAME" envDefault:"FitFam"`
	AppBaseURL   string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	GoogleClientID       string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret   string `env:"GOOGLE_CLIENT_SECRET"`
	OAuthRedirectBaseURL string `env:"OAUTH_REDIRECT_BASE_URL"`

	Debug bool `env:"DEBUG" envDefault:"false"`
}

// Load reads configuration from the environment, after loading .env when one exists
func Load() (*Config, error) {
	// A missing .env is normal outside development
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
