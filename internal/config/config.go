// Package config loads the service configuration from an optional YAML file,
// SMARTHIRE_* environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/smarthire/internal/kv"
	"github.com/spf13/viper"
)

// FileName is the config file looked up in the working directory and ./configs.
const FileName = "smarthire"

// EnvPrefix prefixes every environment override, e.g. SMARTHIRE_SERVER_PORT.
const EnvPrefix = "SMARTHIRE"

// Config is the complete service configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Agents    AgentsConfig    `mapstructure:"agents"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	Usage     UsageConfig     `mapstructure:"usage"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// GeminiAPIKey also falls back to GEMINI_API_KEY and API_KEY.
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type StorageConfig struct {
	Backend      string        `mapstructure:"backend"`
	DataDir      string        `mapstructure:"data_dir"`
	SQLitePath   string        `mapstructure:"sqlite_path"`
	DatabaseURL  string        `mapstructure:"database_url"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Redis        RedisConfig   `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type AgentsConfig struct {
	Model         string        `mapstructure:"model"`
	Temperature   float32       `mapstructure:"temperature"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxConcurrent int           `mapstructure:"max_concurrent"`
}

type NotifyConfig struct {
	ToastTTL time.Duration `mapstructure:"toast_ttl"`
}

// UsageConfig holds the displayed AI usage allowance. It is not enforced.
type UsageConfig struct {
	Limit int `mapstructure:"limit"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RateLimitConfig tunes the HTTP token-bucket limiter. The default limit
// applies to reads; agent and write calls have their own allowances. Whitelist
// and Blacklist are comma-separated client IPs.
type RateLimitConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	DefaultLimit    int           `mapstructure:"default_limit"`
	DefaultWindow   time.Duration `mapstructure:"default_window"`
	AgentLimit      int           `mapstructure:"agent_limit"`
	AgentWindow     time.Duration `mapstructure:"agent_window"`
	WriteLimit      int           `mapstructure:"write_limit"`
	WriteWindow     time.Duration `mapstructure:"write_window"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	Whitelist       string        `mapstructure:"whitelist"`
	Blacklist       string        `mapstructure:"blacklist"`
}

// rateLimitEnv maps rate_limit keys to the unprefixed variables older
// deployments already set.
var rateLimitEnv = map[string]string{
	"rate_limit.enabled":          "RATE_LIMIT_ENABLED",
	"rate_limit.default_limit":    "RATE_LIMIT_DEFAULT_LIMIT",
	"rate_limit.default_window":   "RATE_LIMIT_DEFAULT_WINDOW",
	"rate_limit.agent_limit":      "RATE_LIMIT_AGENT_LIMIT",
	"rate_limit.agent_window":     "RATE_LIMIT_AGENT_WINDOW",
	"rate_limit.write_limit":      "RATE_LIMIT_WRITE_LIMIT",
	"rate_limit.write_window":     "RATE_LIMIT_WRITE_WINDOW",
	"rate_limit.cleanup_interval": "RATE_LIMIT_CLEANUP_INTERVAL",
	"rate_limit.whitelist":        "RATE_LIMIT_WHITELIST",
	"rate_limit.blacklist":        "RATE_LIMIT_BLACKLIST",
}

// KV converts the storage section into backend options.
func (s StorageConfig) KV() kv.Config {
	return kv.Config{
		Backend:       s.Backend,
		DataDir:       s.DataDir,
		SQLitePath:    s.SQLitePath,
		DatabaseURL:   s.DatabaseURL,
		RedisAddr:     s.Redis.Address,
		RedisPassword: s.Redis.Password,
		RedisDB:       s.Redis.DB,
		RedisPrefix:   s.Redis.Prefix,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("storage.backend", kv.BackendFile)
	v.SetDefault("storage.data_dir", "./data")
	v.SetDefault("storage.sqlite_path", "./data/smarthire.db")
	v.SetDefault("storage.database_url", "")
	v.SetDefault("storage.write_timeout", 5*time.Second)
	v.SetDefault("storage.redis.address", "")
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.prefix", "smarthire:")

	v.SetDefault("agents.model", "")
	v.SetDefault("agents.temperature", 0.4)
	v.SetDefault("agents.timeout", 60*time.Second)
	v.SetDefault("agents.max_concurrent", 4)

	v.SetDefault("notify.toast_ttl", 4*time.Second)
	v.SetDefault("usage.limit", 30)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.default_limit", 1000)
	v.SetDefault("rate_limit.default_window", time.Minute)
	v.SetDefault("rate_limit.agent_limit", 30)
	v.SetDefault("rate_limit.agent_window", time.Hour)
	v.SetDefault("rate_limit.write_limit", 100)
	v.SetDefault("rate_limit.write_window", time.Minute)
	v.SetDefault("rate_limit.cleanup_interval", 5*time.Minute)
	v.SetDefault("rate_limit.whitelist", "")
	v.SetDefault("rate_limit.blacklist", "")

	v.SetDefault("gemini_api_key", "")
}

// Load reads the configuration. path names an explicit YAML file; when empty,
// smarthire.yaml is looked up in . and ./configs and may be absent.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("gemini_api_key", EnvPrefix+"_GEMINI_API_KEY", "GEMINI_API_KEY", "API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind API key env: %w", err)
	}
	for key, legacy := range rateLimitEnv {
		envKey := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envKey, legacy); err != nil {
			return nil, fmt.Errorf("failed to bind %s env: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks that the configuration has usable values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	switch c.Storage.Backend {
	case kv.BackendMemory, kv.BackendFile, kv.BackendSQLite:
	case kv.BackendPostgres:
		if c.Storage.DatabaseURL == "" {
			return fmt.Errorf("storage.database_url is required for the postgres backend")
		}
	case kv.BackendRedis:
		if c.Storage.Redis.Address == "" {
			return fmt.Errorf("storage.redis.address is required for the redis backend")
		}
	default:
		return fmt.Errorf("storage.backend %q is not one of memory, file, sqlite, postgres, redis", c.Storage.Backend)
	}

	durations := map[string]time.Duration{
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
		"storage.write_timeout":   c.Storage.WriteTimeout,
		"agents.timeout":          c.Agents.Timeout,
		"notify.toast_ttl":        c.Notify.ToastTTL,
	}
	for key, d := range durations {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", key, d)
		}
	}

	if c.Agents.MaxConcurrent < 1 {
		return fmt.Errorf("agents.max_concurrent must be at least 1")
	}
	if c.Agents.Temperature < 0 || c.Agents.Temperature > 2 {
		return fmt.Errorf("agents.temperature must be between 0 and 2")
	}
	if c.Usage.Limit < 0 {
		return fmt.Errorf("usage.limit must be non-negative")
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.DefaultLimit < 1 {
			return fmt.Errorf("rate_limit.default_limit must be at least 1")
		}
		if c.RateLimit.DefaultWindow <= 0 {
			return fmt.Errorf("rate_limit.default_window must be positive, got %s", c.RateLimit.DefaultWindow)
		}
		if c.RateLimit.AgentLimit < 1 || c.RateLimit.WriteLimit < 1 {
			return fmt.Errorf("rate_limit.agent_limit and rate_limit.write_limit must be at least 1")
		}
		if c.RateLimit.AgentWindow <= 0 || c.RateLimit.WriteWindow <= 0 {
			return fmt.Errorf("rate_limit.agent_window and rate_limit.write_window must be positive")
		}
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
