package parkscout

import (
	"log/slog"
	"time"

	"github.com/parkscout/parkscout/domain/search"
	"github.com/parkscout/parkscout/infrastructure/provider"
	"github.com/parkscout/parkscout/internal/config"
)

// clientConfig holds configuration for Client construction.
// Use newClientConfig() to create with defaults from internal/config.
type clientConfig struct {
	dataDir       string
	dbURL         string
	mode          provider.Mode
	apiKey        string
	baseURL       string
	model         string
	modelDir      string
	httpCacheDir  string
	timeout       time.Duration
	maxRetries    int
	initialDelay  time.Duration
	backoffFactor float64
	logger        *slog.Logger
	search        config.SearchConfig

	remoteEmbedder search.Embedder
	localEmbedder  search.Embedder
}

// newClientConfig creates a clientConfig with defaults from internal/config.
func newClientConfig() *clientConfig {
	return &clientConfig{
		dataDir: config.DefaultDataDir(),
		mode:    provider.ModeAuto,
		search:  config.NewSearchConfig(),
	}
}

// Option configures the Client.
type Option func(*clientConfig)

// WithSQLite configures SQLite as the database.
func WithSQLite(path string) Option {
	return func(c *clientConfig) { c.dbURL = "sqlite:///" + path }
}

// WithDatabaseURL configures the database from a URL
// (sqlite:///path or postgres://...).
func WithDatabaseURL(url string) Option {
	return func(c *clientConfig) { c.dbURL = url }
}

// WithDataDir sets the data directory.
func WithDataDir(dir string) Option {
	return func(c *clientConfig) { c.dataDir = dir }
}

// WithOpenAI pins the OpenAI embedding provider with the given API key.
func WithOpenAI(apiKey string) Option {
	return func(c *clientConfig) {
		c.mode = provider.ModeOpenAI
		c.apiKey = apiKey
	}
}

// WithOpenAIBaseURL sets an OpenAI-compatible base URL override.
func WithOpenAIBaseURL(url string) Option {
	return func(c *clientConfig) { c.baseURL = url }
}

// WithEmbeddingModel overrides the remote embedding model.
func WithEmbeddingModel(model string) Option {
	return func(c *clientConfig) { c.model = model }
}

// WithTransformers pins the local transformer provider with models loaded
// from dir.
func WithTransformers(dir string) Option {
	return func(c *clientConfig) {
		c.mode = provider.ModeTransformers
		c.modelDir = dir
	}
}

// WithProviderMode sets the provider selection mode directly.
func WithProviderMode(mode provider.Mode) Option {
	return func(c *clientConfig) { c.mode = mode }
}

// WithHTTPCacheDir enables disk caching of embedding API responses.
func WithHTTPCacheDir(dir string) Option {
	return func(c *clientConfig) { c.httpCacheDir = dir }
}

// WithProviderTimeout sets the remote provider's HTTP request timeout.
func WithProviderTimeout(d time.Duration) Option {
	return func(c *clientConfig) { c.timeout = d }
}

// WithRetryPolicy sets the remote provider's retry budget and backoff curve.
func WithRetryPolicy(maxRetries int, initialDelay time.Duration, backoffFactor float64) Option {
	return func(c *clientConfig) {
		c.maxRetries = maxRetries
		c.initialDelay = initialDelay
		c.backoffFactor = backoffFactor
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) { c.logger = logger }
}

// WithSearchConfig sets search defaults (limit, score threshold, over-fetch,
// chunk size).
func WithSearchConfig(s config.SearchConfig) Option {
	return func(c *clientConfig) { c.search = s }
}

// WithAppConfig applies settings from a loaded application configuration.
func WithAppConfig(cfg config.AppConfig) Option {
	return func(c *clientConfig) {
		c.dataDir = cfg.DataDir()
		c.dbURL = cfg.DBURL()
		c.mode = provider.Mode(cfg.Provider().Mode())
		c.apiKey = cfg.Provider().APIKey()
		c.baseURL = cfg.Provider().BaseURL()
		c.model = cfg.Provider().Model()
		c.modelDir = cfg.ModelDir()
		c.httpCacheDir = cfg.HTTPCacheDir()
		c.timeout = cfg.Provider().Timeout()
		c.maxRetries = cfg.Provider().MaxRetries()
		c.initialDelay = cfg.Provider().InitialDelay()
		c.backoffFactor = cfg.Provider().BackoffFactor()
		c.search = cfg.Search()
	}
}

// WithEmbedder injects a pre-built remote embedder. Intended for tests.
func WithEmbedder(e search.Embedder) Option {
	return func(c *clientConfig) { c.remoteEmbedder = e }
}

// WithLocalEmbedder injects a pre-built local embedder. Intended for tests.
func WithLocalEmbedder(e search.Embedder) Option {
	return func(c *clientConfig) { c.localEmbedder = e }
}
