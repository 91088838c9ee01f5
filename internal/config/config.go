package config

import "time"

// Config holds all application configuration, grouped by concern.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Review   ReviewConfig   `mapstructure:"review" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Task     TaskConfig     `mapstructure:"task" validate:"required"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// AssetsDir overrides the embedded static assets when set.
	AssetsDir              string   `mapstructure:"assets_dir"`
	CORSOrigins            []string `mapstructure:"cors_origins"`
	ShutdownTimeoutSeconds int      `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
}

// ShutdownTimeout returns the graceful shutdown window.
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// DatabaseConfig contains PostgreSQL connection settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gt=0"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0"`
}

// AuthConfig identifies the single configured user and the session token
// every request must present.
type AuthConfig struct {
	SessionToken string `mapstructure:"session_token" validate:"required,uuid"`
	UserID       int    `mapstructure:"user_id" validate:"required,gt=0"`
}

// ReviewConfig tunes review sessions.
type ReviewConfig struct {
	// CacheTTLMinutes of 0 keeps ordered sessions until the deck is restarted.
	CacheTTLMinutes int `mapstructure:"cache_ttl_minutes" validate:"gte=0"`
}

// CacheTTL returns how long an ordered session stays cached. Zero never
// expires.
func (c ReviewConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

// LLMConfig configures example sentence generation. An empty API key
// disables it.
type LLMConfig struct {
	GeminiAPIKey      string `mapstructure:"gemini_api_key"`
	ModelName         string `mapstructure:"model_name" validate:"required_with=GeminiAPIKey"`
	MaxRetries        int    `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" validate:"gte=0,lte=60"`
}

// Enabled reports whether generation is configured.
func (c LLMConfig) Enabled() bool {
	return c.GeminiAPIKey != ""
}

// TaskConfig configures the background task runner.
type TaskConfig struct {
	WorkerCount         int `mapstructure:"worker_count" validate:"gt=0"`
	QueueSize           int `mapstructure:"queue_size" validate:"gt=0"`
	StuckTaskAgeMinutes int `mapstructure:"stuck_task_age_minutes" validate:"gt=0"`
}
