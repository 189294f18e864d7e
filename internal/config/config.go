// Package config provides application configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Default configuration values.
const (
	DefaultLogLevel      = "INFO"
	DefaultSearchLimit   = 10
	DefaultMinScore      = 0.3
	DefaultOverFetch     = 3
	DefaultChunkSize     = 10
	DefaultTimeout       = 60 * time.Second
	DefaultMaxRetries    = 5
	DefaultInitialDelay  = 2 * time.Second
	DefaultBackoffFactor = 2.0
	DefaultModelSubdir   = "models"
)

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// ProviderConfig configures the embedding provider.
type ProviderConfig struct {
	mode          string
	apiKey        string
	baseURL       string
	model         string
	timeout       time.Duration
	maxRetries    int
	initialDelay  time.Duration
	backoffFactor float64
}

// NewProviderConfig creates a ProviderConfig with defaults.
func NewProviderConfig() ProviderConfig {
	return ProviderConfig{
		timeout:       DefaultTimeout,
		maxRetries:    DefaultMaxRetries,
		initialDelay:  DefaultInitialDelay,
		backoffFactor: DefaultBackoffFactor,
	}
}

// Mode returns the provider selection mode (openai, transformers, or auto).
func (p ProviderConfig) Mode() string { return p.mode }

// APIKey returns the OpenAI API key.
func (p ProviderConfig) APIKey() string { return p.apiKey }

// BaseURL returns the OpenAI-compatible base URL override.
func (p ProviderConfig) BaseURL() string { return p.baseURL }

// Model returns the remote embedding model override.
func (p ProviderConfig) Model() string { return p.model }

// Timeout returns the request timeout.
func (p ProviderConfig) Timeout() time.Duration { return p.timeout }

// MaxRetries returns the maximum retry count.
func (p ProviderConfig) MaxRetries() int { return p.maxRetries }

// InitialDelay returns the initial retry delay.
func (p ProviderConfig) InitialDelay() time.Duration { return p.initialDelay }

// BackoffFactor returns the retry backoff multiplier.
func (p ProviderConfig) BackoffFactor() float64 { return p.backoffFactor }

// ProviderOption is a functional option for ProviderConfig.
type ProviderOption func(*ProviderConfig)

// WithMode sets the provider selection mode.
func WithMode(mode string) ProviderOption {
	return func(p *ProviderConfig) { p.mode = mode }
}

// WithAPIKey sets the OpenAI API key.
func WithAPIKey(key string) ProviderOption {
	return func(p *ProviderConfig) { p.apiKey = key }
}

// WithBaseURL sets the OpenAI-compatible base URL.
func WithBaseURL(url string) ProviderOption {
	return func(p *ProviderConfig) { p.baseURL = url }
}

// WithModel sets the remote embedding model.
func WithModel(model string) ProviderOption {
	return func(p *ProviderConfig) { p.model = model }
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) ProviderOption {
	return func(p *ProviderConfig) { p.timeout = d }
}

// WithMaxRetries sets the maximum retry count.
func WithMaxRetries(n int) ProviderOption {
	return func(p *ProviderConfig) { p.maxRetries = n }
}

// WithInitialDelay sets the initial retry delay.
func WithInitialDelay(d time.Duration) ProviderOption {
	return func(p *ProviderConfig) { p.initialDelay = d }
}

// WithBackoffFactor sets the retry backoff multiplier.
func WithBackoffFactor(f float64) ProviderOption {
	return func(p *ProviderConfig) { p.backoffFactor = f }
}

// NewProviderConfigWithOptions creates a ProviderConfig with options.
func NewProviderConfigWithOptions(opts ...ProviderOption) ProviderConfig {
	p := NewProviderConfig()
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// SearchConfig configures semantic search behavior.
type SearchConfig struct {
	limit     int
	minScore  float64
	overFetch int
	chunkSize int
}

// NewSearchConfig creates a SearchConfig with defaults.
func NewSearchConfig() SearchConfig {
	return SearchConfig{
		limit:     DefaultSearchLimit,
		minScore:  DefaultMinScore,
		overFetch: DefaultOverFetch,
		chunkSize: DefaultChunkSize,
	}
}

// Limit returns the default search result limit.
func (s SearchConfig) Limit() int { return s.limit }

// MinScore returns the minimum similarity score threshold.
func (s SearchConfig) MinScore() float64 { return s.minScore }

// OverFetch returns the candidate over-fetch multiplier.
func (s SearchConfig) OverFetch() int { return s.overFetch }

// ChunkSize returns the batch regeneration chunk size.
func (s SearchConfig) ChunkSize() int { return s.chunkSize }

// WithLimit returns a new config with the specified limit.
func (s SearchConfig) WithLimit(n int) SearchConfig {
	if n > 0 {
		s.limit = n
	}
	return s
}

// WithMinScore returns a new config with the specified threshold.
func (s SearchConfig) WithMinScore(score float64) SearchConfig {
	s.minScore = score
	return s
}

// WithOverFetch returns a new config with the specified multiplier.
func (s SearchConfig) WithOverFetch(n int) SearchConfig {
	if n > 0 {
		s.overFetch = n
	}
	return s
}

// WithChunkSize returns a new config with the specified chunk size.
func (s SearchConfig) WithChunkSize(n int) SearchConfig {
	if n > 0 {
		s.chunkSize = n
	}
	return s
}

// AppConfig holds the main application configuration.
type AppConfig struct {
	dataDir      string
	dbURL        string
	logLevel     string
	logFormat    LogFormat
	provider     ProviderConfig
	search       SearchConfig
	httpCacheDir string
	modelDir     string
}

// DefaultDataDir returns the default data directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".parkscout"
	}
	return filepath.Join(home, ".parkscout")
}

// PrepareDataDir creates the data directory if it does not exist and returns it.
func PrepareDataDir(dataDir string) (string, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	return dataDir, nil
}

// NewAppConfig creates a new AppConfig with defaults.
func NewAppConfig() AppConfig {
	dataDir := DefaultDataDir()
	return AppConfig{
		dataDir:   dataDir,
		dbURL:     "sqlite:///" + filepath.Join(dataDir, "parkscout.db"),
		logLevel:  DefaultLogLevel,
		logFormat: LogFormatPretty,
		provider:  NewProviderConfig(),
		search:    NewSearchConfig(),
	}
}

// DataDir returns the data directory path.
func (c AppConfig) DataDir() string { return c.dataDir }

// DBURL returns the database connection URL.
func (c AppConfig) DBURL() string { return c.dbURL }

// LogLevel returns the log level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// Provider returns the embedding provider config.
func (c AppConfig) Provider() ProviderConfig { return c.provider }

// Search returns the semantic search config.
func (c AppConfig) Search() SearchConfig { return c.search }

// HTTPCacheDir returns the HTTP response cache directory, or empty when
// caching is disabled.
func (c AppConfig) HTTPCacheDir() string { return c.httpCacheDir }

// ModelDir returns the local model directory path.
func (c AppConfig) ModelDir() string {
	if c.modelDir != "" {
		return c.modelDir
	}
	return filepath.Join(c.dataDir, DefaultModelSubdir)
}

// EnsureDataDir creates the data directory if it doesn't exist.
func (c AppConfig) EnsureDataDir() error {
	return os.MkdirAll(c.dataDir, 0o755)
}

// AppConfigOption is a functional option for AppConfig.
type AppConfigOption func(*AppConfig)

// WithDataDir sets the data directory.
func WithDataDir(dir string) AppConfigOption {
	return func(c *AppConfig) {
		c.dataDir = dir
		if c.dbURL == "" || strings.Contains(c.dbURL, "parkscout.db") {
			c.dbURL = "sqlite:///" + filepath.Join(dir, "parkscout.db")
		}
	}
}

// WithDBURL sets the database URL.
func WithDBURL(url string) AppConfigOption {
	return func(c *AppConfig) { c.dbURL = url }
}

// WithLogLevel sets the log level.
func WithLogLevel(level string) AppConfigOption {
	return func(c *AppConfig) { c.logLevel = level }
}

// WithLogFormat sets the log format.
func WithLogFormat(format LogFormat) AppConfigOption {
	return func(c *AppConfig) { c.logFormat = format }
}

// WithProviderConfig sets the embedding provider config.
func WithProviderConfig(p ProviderConfig) AppConfigOption {
	return func(c *AppConfig) { c.provider = p }
}

// WithSearchConfig sets the semantic search config.
func WithSearchConfig(s SearchConfig) AppConfigOption {
	return func(c *AppConfig) { c.search = s }
}

// WithHTTPCacheDir sets the HTTP response cache directory.
func WithHTTPCacheDir(dir string) AppConfigOption {
	return func(c *AppConfig) { c.httpCacheDir = dir }
}

// WithModelDir sets the local model directory.
func WithModelDir(dir string) AppConfigOption {
	return func(c *AppConfig) { c.modelDir = dir }
}

// NewAppConfigWithOptions creates an AppConfig with functional options.
func NewAppConfigWithOptions(opts ...AppConfigOption) AppConfig {
	c := NewAppConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Apply returns a new AppConfig with the given options applied.
func (c AppConfig) Apply(opts ...AppConfigOption) AppConfig {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// LogAttrs returns slog attributes for logging the configuration.
// Sensitive values like the API key are masked.
func (c AppConfig) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("data_dir", c.dataDir),
		slog.String("db_url", c.maskedDBURL()),
		slog.String("log_level", c.logLevel),
		slog.String("provider_mode", c.provider.mode),
		slog.Bool("api_key_set", c.provider.apiKey != ""),
		slog.String("base_url", c.provider.baseURL),
		slog.String("model_dir", c.ModelDir()),
		slog.Int("search_limit", c.search.limit),
		slog.Float64("min_score", c.search.minScore),
	}
}

func (c AppConfig) maskedDBURL() string {
	if c.dbURL == "" {
		return "(default)"
	}
	if idx := strings.Index(c.dbURL, "@"); idx >= 0 {
		if schemeEnd := strings.Index(c.dbURL, "://"); schemeEnd >= 0 && schemeEnd < idx {
			return c.dbURL[:schemeEnd+3] + "***" + c.dbURL[idx:]
		}
	}
	return c.dbURL
}
