package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, time.Hour, cfg.Ledger.IdempotencyTTL)
	assert.False(t, cfg.Ledger.SeedDemo)
	assert.Equal(t, 2, cfg.Audit.Workers)
	assert.Empty(t, cfg.Mongo.URI)
	assert.Equal(t, "finance", cfg.Mongo.Database)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"PORT":             "9090",
		"ENV":              "production",
		"JWT_SECRET":       "s3cret",
		"TOKEN_TTL":        "30m",
		"LEDGER_SEED_DEMO": "true",
		"REDIS_ADDR":       "redis:6379",
		"MONGO_URI":        "mongodb://mongo:27017",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.True(t, cfg.Ledger.SeedDemo)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, "mongodb://mongo:27017", cfg.Mongo.URI)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"TOKEN_TTL": "forever",
	}))
	assert.Error(t, err)

	_, err = load(context.Background(), envconfig.MapLookuper(map[string]string{
		"AUDIT_WORKERS": "-1",
	}))
	assert.Error(t, err)
}
