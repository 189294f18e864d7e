// Package config provides application configuration.
package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration.
// Nested structs use underscore delimiter (e.g., PROVIDER_MODE).
type EnvConfig struct {
	// DataDir is the data directory path.
	// Env: DATA_DIR
	// Default: ~/.parkscout
	DataDir string `envconfig:"DATA_DIR"`

	// DBURL is the database connection URL.
	// Env: DB_URL
	// Default: sqlite:///{data_dir}/parkscout.db
	DBURL string `envconfig:"DB_URL"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// Provider configures the embedding provider.
	Provider ProviderEnv `envconfig:"PROVIDER"`

	// Search configures semantic search behavior.
	Search SearchEnv `envconfig:"SEARCH"`

	// HTTPCacheDir is the directory for caching HTTP responses to disk.
	// When set, embedding request/response pairs are cached to avoid
	// repeated API calls.
	// Env: HTTP_CACHE_DIR
	HTTPCacheDir string `envconfig:"HTTP_CACHE_DIR"`

	// ModelDir is the local ONNX model directory.
	// Env: MODEL_DIR
	// Default: {data_dir}/models
	ModelDir string `envconfig:"MODEL_DIR"`
}

// ProviderEnv holds environment configuration for the embedding provider.
type ProviderEnv struct {
	// Mode selects the provider: openai, transformers, or auto.
	// Env: PROVIDER_MODE (default: auto)
	Mode string `envconfig:"MODE" default:"auto"`

	// APIKey is the OpenAI API key.
	// Env: PROVIDER_API_KEY
	APIKey string `envconfig:"API_KEY"`

	// BaseURL is an OpenAI-compatible base URL override.
	// Env: PROVIDER_BASE_URL
	BaseURL string `envconfig:"BASE_URL"`

	// Model is the remote embedding model override.
	// Env: PROVIDER_MODEL
	Model string `envconfig:"MODEL"`

	// Timeout is the request timeout in seconds.
	// Env: PROVIDER_TIMEOUT (default: 60)
	Timeout float64 `envconfig:"TIMEOUT" default:"60"`

	// MaxRetries is the maximum number of retries.
	// Env: PROVIDER_MAX_RETRIES (default: 5)
	MaxRetries int `envconfig:"MAX_RETRIES" default:"5"`

	// InitialDelay is the initial retry delay in seconds.
	// Env: PROVIDER_INITIAL_DELAY (default: 2.0)
	InitialDelay float64 `envconfig:"INITIAL_DELAY" default:"2.0"`

	// BackoffFactor is the retry backoff multiplier.
	// Env: PROVIDER_BACKOFF_FACTOR (default: 2.0)
	BackoffFactor float64 `envconfig:"BACKOFF_FACTOR" default:"2.0"`
}

// SearchEnv holds environment configuration for semantic search.
type SearchEnv struct {
	// Limit is the default result limit.
	// Env: SEARCH_LIMIT (default: 10)
	Limit int `envconfig:"LIMIT" default:"10"`

	// MinScore is the minimum similarity score threshold.
	// Env: SEARCH_MIN_SCORE (default: 0.3)
	MinScore float64 `envconfig:"MIN_SCORE" default:"0.3"`

	// OverFetch is the candidate over-fetch multiplier.
	// Env: SEARCH_OVER_FETCH (default: 3)
	OverFetch int `envconfig:"OVER_FETCH" default:"3"`

	// ChunkSize is the batch regeneration chunk size.
	// Env: SEARCH_CHUNK_SIZE (default: 10)
	ChunkSize int `envconfig:"CHUNK_SIZE" default:"10"`
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// LoadFromEnvWithPrefix loads configuration with a custom prefix.
// For example, prefix "PARKSCOUT" would require PARKSCOUT_DATA_DIR
// instead of DATA_DIR.
func LoadFromEnvWithPrefix(prefix string) (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// ToAppConfig converts EnvConfig to AppConfig.
func (e EnvConfig) ToAppConfig() AppConfig {
	cfg := NewAppConfig()

	if e.DataDir != "" {
		cfg = cfg.Apply(WithDataDir(e.DataDir))
	}
	if e.DBURL != "" {
		cfg = cfg.Apply(WithDBURL(e.DBURL))
	}
	if e.LogLevel != "" {
		cfg = cfg.Apply(WithLogLevel(e.LogLevel))
	}
	if e.LogFormat != "" {
		cfg = cfg.Apply(WithLogFormat(parseLogFormat(e.LogFormat)))
	}

	cfg = cfg.Apply(WithProviderConfig(e.Provider.ToProviderConfig()))
	cfg = cfg.Apply(WithSearchConfig(e.Search.ToSearchConfig()))

	if e.HTTPCacheDir != "" {
		cfg = cfg.Apply(WithHTTPCacheDir(e.HTTPCacheDir))
	}
	if e.ModelDir != "" {
		cfg = cfg.Apply(WithModelDir(e.ModelDir))
	}

	return cfg
}

// ToProviderConfig converts ProviderEnv to ProviderConfig.
func (p ProviderEnv) ToProviderConfig() ProviderConfig {
	opts := []ProviderOption{
		WithMode(p.Mode),
		WithTimeout(time.Duration(p.Timeout * float64(time.Second))),
		WithMaxRetries(p.MaxRetries),
		WithInitialDelay(time.Duration(p.InitialDelay * float64(time.Second))),
		WithBackoffFactor(p.BackoffFactor),
	}

	if p.APIKey != "" {
		opts = append(opts, WithAPIKey(p.APIKey))
	}
	if p.BaseURL != "" {
		opts = append(opts, WithBaseURL(p.BaseURL))
	}
	if p.Model != "" {
		opts = append(opts, WithModel(p.Model))
	}

	return NewProviderConfigWithOptions(opts...)
}

// ToSearchConfig converts SearchEnv to SearchConfig.
func (s SearchEnv) ToSearchConfig() SearchConfig {
	return NewSearchConfig().
		WithLimit(s.Limit).
		WithMinScore(s.MinScore).
		WithOverFetch(s.OverFetch).
		WithChunkSize(s.ChunkSize)
}

// parseLogFormat parses a log format string.
func parseLogFormat(s string) LogFormat {
	switch strings.ToLower(s) {
	case "json":
		return LogFormatJSON
	default:
		return LogFormatPretty
	}
}
