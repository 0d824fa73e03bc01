// Package testkit starts the Postgres and Redis containers used by integration tests.
package testkit

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds environment-driven settings for integration test infrastructure.
// Every key can be overridden with a RUBCONV_TEST_ prefixed variable,
// e.g. RUBCONV_TEST_POSTGRES_DSN.
type Config struct {
	PostgresImage  string
	RedisImage     string
	PostgresDSN    string // If set, no Postgres container is started.
	RedisAddr      string // If set, no Redis container is started.
	StartupTimeout time.Duration
	KeepContainers bool // Leave containers running after the suite finishes.
}

// LoadConfig reads test infrastructure settings from the environment.
func LoadConfig() Config {
	v := viper.New()
	v.SetEnvPrefix("RUBCONV_TEST")
	v.AutomaticEnv()

	v.SetDefault("postgres_image", "postgres:18.1-alpine")
	v.SetDefault("redis_image", "redis:8.4.0-alpine")
	v.SetDefault("postgres_dsn", "")
	v.SetDefault("redis_addr", "")
	v.SetDefault("startup_timeout_sec", 90)
	v.SetDefault("keep_containers", false)

	timeout := v.GetInt("startup_timeout_sec")
	if timeout <= 0 {
		timeout = 90
	}

	return Config{
		PostgresImage:  v.GetString("postgres_image"),
		RedisImage:     v.GetString("redis_image"),
		PostgresDSN:    v.GetString("postgres_dsn"),
		RedisAddr:      v.GetString("redis_addr"),
		StartupTimeout: time.Duration(timeout) * time.Second,
		KeepContainers: v.GetBool("keep_containers"),
	}
}
