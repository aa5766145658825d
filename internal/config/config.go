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
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogPretty bool   `env:"LOG_PRETTY"`

	Auth   AuthConfig
	Ledger LedgerConfig
	Audit  AuditConfig
	Mongo  MongoConfig
	Redis  RedisConfig
}

type AuthConfig struct {
	// JWTSecret signs session tokens. When empty a random secret is generated
	// at startup, so tokens do not survive a restart (neither do sessions).
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`
}

type LedgerConfig struct {
	SeedDemo       bool          `env:"LEDGER_SEED_DEMO, default=false"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL,  default=1h"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=2"`
}

// MongoConfig enables the activity audit trail when URI is set.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=finance"`
}

// RedisConfig enables the shared idempotency store when Addr is set.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// IsDevelopment reports whether the service runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if cfg.Audit.Workers < 0 {
		return nil, fmt.Errorf("config: AUDIT_WORKERS must not be negative, got %d", cfg.Audit.Workers)
	}
	return &cfg, nil
}
