// Package config provides application configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the complete application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	CBR      CBRConfig `mapstructure:"cbr"`
	Worker   WorkerConfig
	Cache    CacheConfig
	History  HistoryConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port          int  `mapstructure:"port"`
	ServeSwagger  bool `mapstructure:"serve_swagger"`
	ServeAsynqmon bool `mapstructure:"serve_asynqmon"`
}

// DatabaseConfig holds PostgreSQL connection settings for the rate archive.
type DatabaseConfig struct {
	Host               string `mapstructure:"host"`
	Port               int    `mapstructure:"port"`
	User               string `mapstructure:"user"`
	Password           string `mapstructure:"password"`
	Name               string `mapstructure:"name"`
	SSLMode            string `mapstructure:"sslmode"`
	MaxOpenConns       int    `mapstructure:"max_open_conns"`
	MaxIdleConns       int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSec int    `mapstructure:"conn_max_lifetime_sec"`
	DSN                string
}

// RedisConfig holds connection settings for both Redis instances.
type RedisConfig struct {
	AsynqAddr string `mapstructure:"asynq_addr"` // Redis instance for the conversion task queue.
	CacheAddr string `mapstructure:"cache_addr"` // Redis instance for the shared rates snapshot.
}

// CBRConfig holds settings for the cbr-xml-daily.ru feeds.
type CBRConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	Timeout        int    `mapstructure:"timeout_sec"`
	LatestFallback bool   `mapstructure:"latest_fallback"`
}

// WorkerConfig holds background worker and task queue settings.
type WorkerConfig struct {
	Concurrency        int `mapstructure:"concurrency"`
	MaxRetry           int `mapstructure:"max_retry"`
	TimeoutSec         int `mapstructure:"timeout_sec"`
	CheckIntervalSec   int `mapstructure:"check_interval_sec"`
	ResultRetentionSec int `mapstructure:"result_retention_sec"`
}

// CacheConfig holds rates caching settings.
type CacheConfig struct {
	RatesTTLSec       int  `mapstructure:"rates_ttl_sec"`
	RedisRetentionSec int  `mapstructure:"redis_retention_sec"`
	ServeStaleOnError bool `mapstructure:"serve_stale_on_error"`
}

// HistoryConfig holds in-memory conversion history settings.
type HistoryConfig struct {
	MaxEntries int `mapstructure:"max_entries"`
}

// LoadConfig reads configuration from config files, environment variables, and defaults.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("No .env file found or error loading it: %v\n", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./internal/config")

	v.SetEnvPrefix("RUBCONV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Config file not found: %v\n", err)
	}

	return decode(v)
}

// SetDefaults registers the default value of every known key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.serve_swagger", true)
	v.SetDefault("server.serve_asynqmon", true)
	v.SetDefault("database.host", "db")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "ratesdb")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime_sec", 300)
	v.SetDefault("redis.asynq_addr", "redis_asynq:6380")
	v.SetDefault("redis.cache_addr", "redis_cache:6381")
	v.SetDefault("cbr.base_url", "https://www.cbr-xml-daily.ru")
	v.SetDefault("cbr.timeout_sec", 5)
	v.SetDefault("cbr.latest_fallback", true)
	v.SetDefault("worker.concurrency", 2)
	v.SetDefault("worker.max_retry", 0)
	v.SetDefault("worker.timeout_sec", 30)
	v.SetDefault("worker.check_interval_sec", 1)
	v.SetDefault("worker.result_retention_sec", 3600)
	v.SetDefault("cache.rates_ttl_sec", 3600)
	v.SetDefault("cache.redis_retention_sec", 86400)
	v.SetDefault("cache.serve_stale_on_error", false)
	v.SetDefault("history.max_entries", 1000)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Database.MaxOpenConns <= 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns <= 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetimeSec <= 0 {
		cfg.Database.ConnMaxLifetimeSec = 300
	}

	cfg.Database.DSN = fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Database.User, cfg.Database.Password,
		cfg.Database.Host, cfg.Database.Port,
		cfg.Database.Name, cfg.Database.SSLMode)

	return &cfg, nil
}

// Validate checks that all required configuration fields are set and valid.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 {
		errs = append(errs, fmt.Errorf("server.port must be positive, got %d", c.Server.Port))
	}

	if c.Database.Host == "" {
		errs = append(errs, fmt.Errorf("database.host is required"))
	}
	if c.Database.Port <= 0 {
		errs = append(errs, fmt.Errorf("database.port must be positive, got %d", c.Database.Port))
	}
	if c.Database.User == "" {
		errs = append(errs, fmt.Errorf("database.user is required"))
	}
	if c.Database.Name == "" {
		errs = append(errs, fmt.Errorf("database.name is required"))
	}

	if c.Redis.AsynqAddr == "" {
		errs = append(errs, fmt.Errorf("redis.asynq_addr is required (set RUBCONV_REDIS_ASYNQ_ADDR)"))
	}
	if c.Redis.CacheAddr == "" {
		errs = append(errs, fmt.Errorf("redis.cache_addr is required (set RUBCONV_REDIS_CACHE_ADDR)"))
	}

	if c.CBR.BaseURL == "" {
		errs = append(errs, fmt.Errorf("cbr.base_url is required"))
	}
	if c.CBR.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("cbr.timeout_sec must be positive, got %d", c.CBR.Timeout))
	}

	if c.Worker.Concurrency <= 0 {
		errs = append(errs, fmt.Errorf("worker.concurrency must be positive, got %d", c.Worker.Concurrency))
	}
	if c.Worker.MaxRetry < 0 {
		errs = append(errs, fmt.Errorf("worker.max_retry must be non-negative, got %d", c.Worker.MaxRetry))
	}
	if c.Worker.TimeoutSec <= 0 {
		errs = append(errs, fmt.Errorf("worker.timeout_sec must be positive, got %d", c.Worker.TimeoutSec))
	}
	if c.Worker.CheckIntervalSec <= 0 {
		errs = append(errs, fmt.Errorf("worker.check_interval_sec must be positive, got %d", c.Worker.CheckIntervalSec))
	}
	if c.Worker.ResultRetentionSec <= 0 {
		errs = append(errs, fmt.Errorf("worker.result_retention_sec must be positive, got %d", c.Worker.ResultRetentionSec))
	}

	if c.Cache.RatesTTLSec <= 0 {
		errs = append(errs, fmt.Errorf("cache.rates_ttl_sec must be positive, got %d", c.Cache.RatesTTLSec))
	}
	if c.Cache.RedisRetentionSec < c.Cache.RatesTTLSec {
		errs = append(errs, fmt.Errorf("cache.redis_retention_sec (%d) must not be shorter than cache.rates_ttl_sec (%d)",
			c.Cache.RedisRetentionSec, c.Cache.RatesTTLSec))
	}

	if c.History.MaxEntries < 0 {
		errs = append(errs, fmt.Errorf("history.max_entries must be non-negative, got %d", c.History.MaxEntries))
	}

	return errors.Join(errs...)
}
