package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/parkscout/parkscout/domain/search"
)

// DefaultEmbeddingModel is the embedding model used when no override is
// configured.
const DefaultEmbeddingModel = "text-embedding-3-small"

// errEmbeddingCountMismatch indicates the API returned fewer vectors than
// requested. Retryable: transient upstream issues (rate-limiting behind a
// 200 status) can produce partial responses.
var errEmbeddingCountMismatch = errors.New("embedding response count mismatch")

// errUpstreamFailure indicates the API returned HTTP 200 but the body carried
// no embedding data at all. Routing gateways do this when every upstream is
// down, so retrying is futile.
var errUpstreamFailure = errors.New("upstream provider failure")

// OpenAIEmbedder generates embeddings through the OpenAI embeddings API.
type OpenAIEmbedder struct {
	client        *openai.Client
	apiKey        string
	model         string
	maxRetries    int
	initialDelay  time.Duration
	backoffFactor float64
}

// OpenAIOption is a functional option for OpenAIEmbedder.
type OpenAIOption func(*openAIConfig)

type openAIConfig struct {
	baseURL       string
	model         string
	timeout       time.Duration
	maxRetries    int
	initialDelay  time.Duration
	backoffFactor float64
	httpCacheDir  string
}

// WithBaseURL points the client at a non-default API endpoint.
func WithBaseURL(url string) OpenAIOption {
	return func(c *openAIConfig) { c.baseURL = url }
}

// WithModel overrides the embedding model.
func WithModel(model string) OpenAIOption {
	return func(c *openAIConfig) {
		if model != "" {
			c.model = model
		}
	}
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) OpenAIOption {
	return func(c *openAIConfig) { c.timeout = d }
}

// WithMaxRetries sets the maximum retry count.
func WithMaxRetries(n int) OpenAIOption {
	return func(c *openAIConfig) { c.maxRetries = n }
}

// WithInitialDelay sets the initial retry delay.
func WithInitialDelay(d time.Duration) OpenAIOption {
	return func(c *openAIConfig) { c.initialDelay = d }
}

// WithBackoffFactor sets the retry backoff multiplier.
func WithBackoffFactor(f float64) OpenAIOption {
	return func(c *openAIConfig) { c.backoffFactor = f }
}

// WithHTTPCache caches embedding responses on disk under dir, keyed by
// request content. Repeated identical requests are served from disk.
func WithHTTPCache(dir string) OpenAIOption {
	return func(c *openAIConfig) { c.httpCacheDir = dir }
}

// NewOpenAIEmbedder creates an OpenAIEmbedder.
func NewOpenAIEmbedder(apiKey string, opts ...OpenAIOption) *OpenAIEmbedder {
	cfg := openAIConfig{
		model:         DefaultEmbeddingModel,
		maxRetries:    5,
		initialDelay:  2 * time.Second,
		backoffFactor: 2.0,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	clientCfg := openai.DefaultConfig(apiKey)
	if cfg.baseURL != "" {
		clientCfg.BaseURL = cfg.baseURL
	}

	httpClient := &http.Client{}
	if cfg.timeout > 0 {
		httpClient.Timeout = cfg.timeout
	}
	if cfg.httpCacheDir != "" {
		httpClient.Transport = NewCachingTransport(cfg.httpCacheDir, nil)
	}
	clientCfg.HTTPClient = httpClient

	return &OpenAIEmbedder{
		client:        openai.NewClientWithConfig(clientCfg),
		apiKey:        apiKey,
		model:         cfg.model,
		maxRetries:    cfg.maxRetries,
		initialDelay:  cfg.initialDelay,
		backoffFactor: cfg.backoffFactor,
	}
}

// ModelID returns the fully-qualified model identifier.
func (p *OpenAIEmbedder) ModelID() string {
	return "openai:" + p.model
}

// Available reports whether a credential is configured. This is a fallback
// probe only; an invalid key still surfaces as a ProviderError at call time.
func (p *OpenAIEmbedder) Available() bool {
	return p.apiKey != ""
}

// Embed generates a vector for a single text.
func (p *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	vectors, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch generates one vector per text in a single API call. The call is
// atomic: a partial response is treated as a failure of the whole batch.
func (p *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	req := openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(p.model),
		Input: texts,
	}

	var resp openai.EmbeddingResponse
	var err error

	err = p.withRetry(ctx, func() error {
		resp, err = p.client.CreateEmbeddings(ctx, req)
		if err != nil {
			return err
		}
		if len(resp.Data) == 0 && string(resp.Model) == "" && resp.Usage.TotalTokens == 0 {
			return fmt.Errorf("%w: HTTP 200 with no embedding data, no model, and zero usage", errUpstreamFailure)
		}
		if len(resp.Data) != len(texts) {
			return fmt.Errorf("%w: got %d vectors for %d texts", errEmbeddingCountMismatch, len(resp.Data), len(texts))
		}
		return nil
	})
	if err != nil {
		return nil, p.wrapError("embed", err)
	}

	vectors := make([][]float64, len(resp.Data))
	for i, data := range resp.Data {
		vectors[i] = make([]float64, len(data.Embedding))
		for j, v := range data.Embedding {
			vectors[i][j] = float64(v)
		}
	}
	return vectors, nil
}

// withRetry executes fn with exponential backoff.
func (p *OpenAIEmbedder) withRetry(ctx context.Context, fn func() error) error {
	delay := p.initialDelay
	var lastErr error

	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if !p.isRetryable(lastErr) {
			return lastErr
		}

		if attempt < p.maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay = time.Duration(float64(delay) * p.backoffFactor)
			}
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (p *OpenAIEmbedder) isRetryable(err error) bool {
	if errors.Is(err, errEmbeddingCountMismatch) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return true
	}

	return false
}

func (p *OpenAIEmbedder) wrapError(op string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return NewProviderError(op, apiErr.HTTPStatusCode, apiErr.Message, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return NewProviderError(op, reqErr.HTTPStatusCode, reqErr.Error(), err)
	}

	return NewProviderError(op, 0, err.Error(), err)
}

var _ search.Embedder = (*OpenAIEmbedder)(nil)
