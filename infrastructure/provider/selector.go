package provider

import (
	"log/slog"
	"sync"
	"time"

	"github.com/parkscout/parkscout/domain/search"
)

// Mode selects how the embedding provider is chosen.
type Mode string

// Mode values.
const (
	// ModeOpenAI pins the remote OpenAI provider. Construction fails fast
	// when no API key is configured.
	ModeOpenAI Mode = "openai"

	// ModeTransformers pins the local transformers provider.
	ModeTransformers Mode = "transformers"

	// ModeAuto prefers the remote provider when a credential is present and
	// its availability probe passes, falling back to the local provider.
	ModeAuto Mode = "auto"
)

// Selector chooses and caches the embedding provider for a process lifetime.
// The cached instance is never re-selected mid-session: swapping providers
// after records were stamped with a model id would corrupt the staleness
// check. Tests wanting a different selection construct a fresh Selector.
type Selector struct {
	mode          Mode
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

	remote search.Embedder
	local  search.Embedder

	mu     sync.Mutex
	cached search.Embedder
}

// SelectorOption is a functional option for Selector.
type SelectorOption func(*Selector)

// SelectMode sets the provider selection mode.
func SelectMode(mode Mode) SelectorOption {
	return func(s *Selector) { s.mode = mode }
}

// SelectAPIKey sets the remote provider credential.
func SelectAPIKey(key string) SelectorOption {
	return func(s *Selector) { s.apiKey = key }
}

// SelectBaseURL sets the remote provider endpoint.
func SelectBaseURL(url string) SelectorOption {
	return func(s *Selector) { s.baseURL = url }
}

// SelectModel overrides the remote embedding model.
func SelectModel(model string) SelectorOption {
	return func(s *Selector) { s.model = model }
}

// SelectModelDir sets the local model directory.
func SelectModelDir(dir string) SelectorOption {
	return func(s *Selector) { s.modelDir = dir }
}

// SelectHTTPCacheDir enables on-disk caching of remote embedding responses.
func SelectHTTPCacheDir(dir string) SelectorOption {
	return func(s *Selector) { s.httpCacheDir = dir }
}

// SelectTimeout sets the remote request timeout.
func SelectTimeout(d time.Duration) SelectorOption {
	return func(s *Selector) { s.timeout = d }
}

// SelectMaxRetries sets the remote provider's maximum retry count.
func SelectMaxRetries(n int) SelectorOption {
	return func(s *Selector) { s.maxRetries = n }
}

// SelectInitialDelay sets the remote provider's initial retry delay.
func SelectInitialDelay(d time.Duration) SelectorOption {
	return func(s *Selector) { s.initialDelay = d }
}

// SelectBackoffFactor sets the remote provider's retry backoff multiplier.
func SelectBackoffFactor(f float64) SelectorOption {
	return func(s *Selector) { s.backoffFactor = f }
}

// SelectLogger sets the logger.
func SelectLogger(logger *slog.Logger) SelectorOption {
	return func(s *Selector) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// SelectRemoteEmbedder injects a pre-built remote provider. Used by tests.
func SelectRemoteEmbedder(e search.Embedder) SelectorOption {
	return func(s *Selector) { s.remote = e }
}

// SelectLocalEmbedder injects a pre-built local provider. Used by tests.
func SelectLocalEmbedder(e search.Embedder) SelectorOption {
	return func(s *Selector) { s.local = e }
}

// NewSelector creates a Selector. No provider is constructed until the first
// Embedder call.
func NewSelector(opts ...SelectorOption) *Selector {
	s := &Selector{
		mode:   ModeAuto,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Embedder returns the selected provider, constructing and caching it on
// first use. A pinned mode with missing credentials returns a ConfigError;
// automatic mode never fails, since the local provider needs nothing.
func (s *Selector) Embedder() (search.Embedder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil {
		return s.cached, nil
	}

	embedder, err := s.build()
	if err != nil {
		return nil, err
	}

	s.cached = embedder
	s.logger.Info("embedding provider selected", slog.String("model", embedder.ModelID()))
	return embedder, nil
}

func (s *Selector) build() (search.Embedder, error) {
	switch s.mode {
	case ModeOpenAI:
		if s.apiKey == "" {
			return nil, NewConfigError(string(ModeOpenAI), "OPENAI_API_KEY is required when the provider is pinned")
		}
		return s.buildRemote(), nil

	case ModeTransformers:
		return s.buildLocal(), nil

	case ModeAuto, "":
		if s.apiKey != "" {
			remote := s.buildRemote()
			if remote.Available() {
				return remote, nil
			}
			s.logger.Warn("remote provider unavailable, falling back to local model")
		}
		return s.buildLocal(), nil

	default:
		return nil, NewConfigError(string(s.mode), "unknown provider mode")
	}
}

func (s *Selector) buildRemote() search.Embedder {
	if s.remote != nil {
		return s.remote
	}

	opts := []OpenAIOption{WithModel(s.model)}
	if s.baseURL != "" {
		opts = append(opts, WithBaseURL(s.baseURL))
	}
	if s.httpCacheDir != "" {
		opts = append(opts, WithHTTPCache(s.httpCacheDir))
	}
	if s.timeout > 0 {
		opts = append(opts, WithTimeout(s.timeout))
	}
	if s.maxRetries > 0 {
		opts = append(opts, WithMaxRetries(s.maxRetries))
	}
	if s.initialDelay > 0 {
		opts = append(opts, WithInitialDelay(s.initialDelay))
	}
	if s.backoffFactor > 0 {
		opts = append(opts, WithBackoffFactor(s.backoffFactor))
	}
	return NewOpenAIEmbedder(s.apiKey, opts...)
}

func (s *Selector) buildLocal() search.Embedder {
	if s.local != nil {
		return s.local
	}
	return NewHugotEmbedder(s.modelDir)
}
