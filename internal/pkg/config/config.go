package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Mongo   MongoConfig
	Redis   RedisConfig
	Session SessionConfig
	Gateway GatewayConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=lr_console"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// SessionConfig tunes the auth lifecycle and the idle-timeout policy.
type SessionConfig struct {
	// IdleTimeout is the inactivity window after which logout is forced.
	IdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT, default=10m"`
	// ActivityThrottle caps how often the shared activity marker is written.
	ActivityThrottle time.Duration `env:"SESSION_ACTIVITY_THROTTLE, default=60s"`
	// RestoreDeadline bounds startup session restoration end to end.
	RestoreDeadline time.Duration `env:"SESSION_RESTORE_DEADLINE, default=8s"`
	TokenTTL        time.Duration `env:"SESSION_TOKEN_TTL, default=24h"`
}

// GatewayConfig tunes the remote data gateway's retry policy.
type GatewayConfig struct {
	Timeout time.Duration `env:"GATEWAY_TIMEOUT, default=8s"`
	Retries int           `env:"GATEWAY_RETRIES, default=2"`
	Backoff time.Duration `env:"GATEWAY_BACKOFF, default=500ms"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
