package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := decode(v)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "https://www.cbr-xml-daily.ru", cfg.CBR.BaseURL)
	assert.Equal(t, 5, cfg.CBR.Timeout)
	assert.True(t, cfg.CBR.LatestFallback)
	assert.Equal(t, 3600, cfg.Cache.RatesTTLSec)
	assert.False(t, cfg.Cache.ServeStaleOnError)
	assert.Equal(t, 0, cfg.Worker.MaxRetry)
	assert.Equal(t, 1000, cfg.History.MaxEntries)
	assert.Equal(t, "postgres://postgres:postgres@db:5432/ratesdb?sslmode=disable", cfg.Database.DSN)
}

func TestDecode_Overrides(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("cbr.base_url", "http://localhost:9999")
	v.Set("cache.serve_stale_on_error", true)
	v.Set("database.host", "pg")

	cfg, err := decode(v)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999", cfg.CBR.BaseURL)
	assert.True(t, cfg.Cache.ServeStaleOnError)
	assert.Contains(t, cfg.Database.DSN, "@pg:5432/")
}

func TestValidate(t *testing.T) {
	t.Run("collects every problem", func(t *testing.T) {
		cfg := &Config{}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "server.port must be positive")
		assert.Contains(t, err.Error(), "redis.cache_addr is required")
		assert.Contains(t, err.Error(), "cbr.base_url is required")
		assert.Contains(t, err.Error(), "cache.rates_ttl_sec must be positive")
	})

	t.Run("retention shorter than ttl", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set("cache.redis_retention_sec", 60)

		_, err := decode(v)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must not be shorter than cache.rates_ttl_sec")
	})
}
