package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment variables used by earlier deployments, honored when the
// SCRY_ prefixed variables are absent.
const (
	legacyDatabaseURLEnv  = "DATABASE_URL"
	legacySessionTokenEnv = "UUID"
)

// keys lists every setting so that environment variables are picked up
// even when no default or config file mentions the key.
var keys = []string{
	"server.port",
	"server.log_level",
	"server.assets_dir",
	"server.cors_origins",
	"server.shutdown_timeout_seconds",
	"database.url",
	"database.max_open_conns",
	"database.max_idle_conns",
	"auth.session_token",
	"auth.user_id",
	"review.cache_ttl_minutes",
	"llm.gemini_api_key",
	"llm.model_name",
	"llm.max_retries",
	"llm.retry_delay_seconds",
	"task.worker_count",
	"task.queue_size",
	"task.stuck_task_age_minutes",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout_seconds", 10)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("auth.user_id", 1)
	v.SetDefault("review.cache_ttl_minutes", 120)
	v.SetDefault("llm.model_name", "gemini-2.0-flash")
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay_seconds", 2)
	v.SetDefault("task.worker_count", 2)
	v.SetDefault("task.queue_size", 100)
	v.SetDefault("task.stuck_task_age_minutes", 30)
}

// Load reads configuration from ./.env, an optional ./config.yaml and
// SCRY_ prefixed environment variables, in increasing precedence.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file path. An empty path searches
// the working directory for config.yaml and tolerates its absence.
func LoadFile(path string) (*Config, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDatabase reads the same sources as LoadFile but validates only the
// database section, for commands that never serve requests.
func LoadDatabase(path string) (*DatabaseConfig, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}
	if err := validator.New().Struct(cfg.Database); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg.Database, nil
}

func read(path string) (*Config, error) {
	// A missing .env file is the normal case outside development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("SCRY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if v.GetString("database.url") == "" {
		if url := os.Getenv(legacyDatabaseURLEnv); url != "" {
			v.Set("database.url", url)
		}
	}
	if v.GetString("auth.session_token") == "" {
		if token := os.Getenv(legacySessionTokenEnv); token != "" {
			v.Set("auth.session_token", token)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
