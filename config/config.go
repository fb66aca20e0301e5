package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const maxSchedulerRetries = 10

// Config holds all configuration for the application
type Config struct {
	Server       ServerConfig
	API          APIConfig
	Storage      StorageConfig
	Cache        CacheConfig
	Scheduler    SchedulerConfig
	Notification NotificationConfig
	Log          LogConfig
	Sentry       SentryConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// APIConfig holds the deals API configuration
type APIConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	Token         string        `mapstructure:"token"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RatePerSecond float64       `mapstructure:"rate_per_second"`
	Burst         int           `mapstructure:"burst"`
}

// StorageConfig holds preference store configuration
type StorageConfig struct {
	Type string `mapstructure:"type"` // "badger" or "memory"
	Path string `mapstructure:"path"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// SchedulerConfig holds reconciliation scheduling configuration
type SchedulerConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	Interval   time.Duration `mapstructure:"interval"`
	RetryBase  time.Duration `mapstructure:"retry_base"`
	MaxRetries int           `mapstructure:"max_retries"`
	RunOnStart bool          `mapstructure:"run_on_start"`
}

// NotificationConfig holds notification sink configuration
type NotificationConfig struct {
	Type       string        `mapstructure:"type"` // "log" or "webhook"
	WebhookURL string        `mapstructure:"webhook_url"`
	DeepLink   string        `mapstructure:"deep_link"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "text" or "json"
}

// SentryConfig holds error reporting configuration
type SentryConfig struct {
	DSN         string `mapstructure:"dsn"`
	Environment string `mapstructure:"environment"`
}

// Load loads configuration from .env, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/omiri/")

	v.SetEnvPrefix("OMIRI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads variables from ./.env without overriding ones already set.
// A missing file is not an error.
func loadEnvFile() error {
	err := godotenv.Load(".env")
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	v.SetDefault("api.base_url", "http://localhost:8000")
	v.SetDefault("api.token", "")
	v.SetDefault("api.timeout", "60s")
	v.SetDefault("api.rate_per_second", 2.0)
	v.SetDefault("api.burst", 5)

	v.SetDefault("storage.type", "badger")
	v.SetDefault("storage.path", "./data/preferences")

	v.SetDefault("cache.ttl", "24h")

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.interval", "1h")
	v.SetDefault("scheduler.retry_base", "30s")
	v.SetDefault("scheduler.max_retries", 3)
	v.SetDefault("scheduler.run_on_start", true)

	v.SetDefault("notification.type", "log")
	v.SetDefault("notification.webhook_url", "")
	v.SetDefault("notification.deep_link", "omiri://shopping_list_matches")
	v.SetDefault("notification.timeout", "10s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.API.BaseURL == "" {
		return fmt.Errorf("deals API base URL is required (set OMIRI_API_BASE_URL)")
	}

	if config.Storage.Type != "badger" && config.Storage.Type != "memory" {
		return fmt.Errorf("storage type must be 'badger' or 'memory', got: %s", config.Storage.Type)
	}

	if config.Storage.Type == "badger" && config.Storage.Path == "" {
		return fmt.Errorf("storage path is required when storage type is 'badger'")
	}

	if config.Notification.Type != "log" && config.Notification.Type != "webhook" {
		return fmt.Errorf("notification type must be 'log' or 'webhook', got: %s", config.Notification.Type)
	}

	if config.Notification.Type == "webhook" && config.Notification.WebhookURL == "" {
		return fmt.Errorf("webhook URL is required when notification type is 'webhook'")
	}

	if config.Scheduler.Enabled && config.Scheduler.Interval <= 0 {
		return fmt.Errorf("scheduler interval must be positive, got: %s", config.Scheduler.Interval)
	}

	if config.Scheduler.MaxRetries < 0 {
		return fmt.Errorf("scheduler max retries cannot be negative, got: %d", config.Scheduler.MaxRetries)
	}

	if config.Scheduler.MaxRetries > maxSchedulerRetries {
		return fmt.Errorf("scheduler max retries cannot exceed %d, got: %d", maxSchedulerRetries, config.Scheduler.MaxRetries)
	}

	return nil
}
