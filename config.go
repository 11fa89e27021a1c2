package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Config is read from the environment, after an optional .env file.
// List values are separated by semicolons.
type Config struct {
	Addr string `env:"ADDR,default=:8080"`

	DBDriver    string `env:"DB_DRIVER,default=sqlite"`
	DatabaseURL string `env:"DATABASE_URL,default=blog.db"`

	JWTSecret             string        `env:"JWT_SECRET"`
	AccessTokenExpiration time.Duration `env:"JWT_ACCESS_TOKEN_EXPIRATION,default=1h"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS,default=http://localhost:3000"`

	// A rate of zero disables login throttling.
	LoginRateLimit float64 `env:"LOGIN_RATE_LIMIT,default=5"`
	LoginRateBurst int     `env:"LOGIN_RATE_BURST,default=10"`

	AdminUser string `env:"ADMIN_USER"`
	AdminPass string `env:"ADMIN_PASS"`
}

func loadConfig() (Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("decoding environment: %w", err)
	}

	if cfg.AccessTokenExpiration <= 0 {
		return Config{}, fmt.Errorf("JWT_ACCESS_TOKEN_EXPIRATION must be positive, got %s", cfg.AccessTokenExpiration)
	}
	if cfg.JWTSecret != "" && len(cfg.JWTSecret) < minSigningKeySize {
		return Config{}, fmt.Errorf("JWT_SECRET: %w", errWeakSigningKey)
	}

	return cfg, nil
}
