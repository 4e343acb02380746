package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// JWTSecret is the HMAC signing key. Required, at least 32 bytes of key
	// material, never logged.
	JWTSecret string `env:"JWT_SECRET, required"`
	// JWTExpirationMs is the token lifetime in milliseconds (default 24h).
	JWTExpirationMs int `env:"JWT_EXPIRATION_MS, default=86400000"`

	Login LoginConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type LoginConfig struct {
	MaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS, default=10"`
	Window      time.Duration `env:"LOGIN_WINDOW, default=15m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=auth_backend"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("config: JWT_SECRET must be at least 32 bytes")
	}
	return &cfg, nil
}
