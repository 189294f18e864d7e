package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func decodeTexts(r *http.Request) []string {
	var body struct {
		Input interface{} `json:"input"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil
	}

	// Input can be a single string or []string.
	var texts []string
	switch v := body.Input.(type) {
	case string:
		texts = []string{v}
	case []interface{}:
		for _, item := range v {
			texts = append(texts, item.(string))
		}
	}
	return texts
}

func writeEmbeddings(w http.ResponseWriter, texts []string) {
	data := make([]map[string]interface{}, len(texts))
	for i := range texts {
		data[i] = map[string]interface{}{
			"object":    "embedding",
			"index":     i,
			"embedding": []float64{0.1, 0.2, 0.3},
		}
	}

	resp := map[string]interface{}{
		"object": "list",
		"data":   data,
		"model":  "test-model",
		"usage": map[string]int{
			"prompt_tokens": len(texts) * 4,
			"total_tokens":  len(texts) * 4,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// fakeEmbeddingServer mimics the OpenAI embeddings endpoint. It returns
// deterministic 3-dimensional vectors and tracks how many requests it
// received via the counter.
func fakeEmbeddingServer(t *testing.T, counter *atomic.Int64) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		counter.Add(1)
		writeEmbeddings(w, decodeTexts(r))
	}))
}

func TestOpenAIEmbedder_EmbedBatchEmpty(t *testing.T) {
	var counter atomic.Int64
	srv := fakeEmbeddingServer(t, &counter)
	defer srv.Close()

	p := NewOpenAIEmbedder("test-key", WithBaseURL(srv.URL))

	vectors, err := p.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, vectors)
	require.Equal(t, int64(0), counter.Load(), "no HTTP request for empty input")
}

func TestOpenAIEmbedder_Embed(t *testing.T) {
	var counter atomic.Int64
	srv := fakeEmbeddingServer(t, &counter)
	defer srv.Close()

	p := NewOpenAIEmbedder("test-key", WithBaseURL(srv.URL))

	vector, err := p.Embed(context.Background(), "Space Mountain. roller coaster attraction")
	require.NoError(t, err)
	require.Len(t, vector, 3)
	require.InDelta(t, 0.1, vector[0], 1e-6)
	require.Equal(t, int64(1), counter.Load())
}

func TestOpenAIEmbedder_EmbedBatchSingleCall(t *testing.T) {
	var counter atomic.Int64
	srv := fakeEmbeddingServer(t, &counter)
	defer srv.Close()

	p := NewOpenAIEmbedder("test-key", WithBaseURL(srv.URL))

	texts := make([]string, 10)
	for i := range texts {
		texts[i] = "text"
	}

	vectors, err := p.EmbedBatch(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, vectors, 10)
	require.Equal(t, int64(1), counter.Load(), "10 texts should be one request")
}

func TestOpenAIEmbedder_ModelID(t *testing.T) {
	p := NewOpenAIEmbedder("test-key")
	require.Equal(t, "openai:"+DefaultEmbeddingModel, p.ModelID())

	p = NewOpenAIEmbedder("test-key", WithModel("text-embedding-3-large"))
	require.Equal(t, "openai:text-embedding-3-large", p.ModelID())

	// An empty override keeps the default.
	p = NewOpenAIEmbedder("test-key", WithModel(""))
	require.Equal(t, "openai:"+DefaultEmbeddingModel, p.ModelID())
}

func TestOpenAIEmbedder_Available(t *testing.T) {
	require.True(t, NewOpenAIEmbedder("test-key").Available())
	require.False(t, NewOpenAIEmbedder("").Available())
}

func TestOpenAIEmbedder_RetriesOnServerError(t *testing.T) {
	var counter atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := counter.Add(1)
		texts := decodeTexts(r)
		if n <= 2 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]interface{}{
					"message": "overloaded",
					"type":    "server_error",
				},
			})
			return
		}
		writeEmbeddings(w, texts)
	}))
	defer srv.Close()

	p := NewOpenAIEmbedder("test-key",
		WithBaseURL(srv.URL),
		WithMaxRetries(3),
		WithInitialDelay(time.Millisecond),
	)

	vectors, err := p.EmbedBatch(context.Background(), []string{"hello", "world"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	require.Equal(t, int64(3), counter.Load(), "should have retried twice then succeeded")
}

func TestOpenAIEmbedder_RetriesExhaustedWrapsProviderError(t *testing.T) {
	var counter atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		counter.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{
				"message": "rate limited",
				"type":    "rate_limit_error",
			},
		})
	}))
	defer srv.Close()

	p := NewOpenAIEmbedder("test-key",
		WithBaseURL(srv.URL),
		WithMaxRetries(2),
		WithInitialDelay(time.Millisecond),
	)

	_, err := p.EmbedBatch(context.Background(), []string{"hello"})
	require.Error(t, err)

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	require.Equal(t, "embed", provErr.Op())
	require.Equal(t, http.StatusTooManyRequests, provErr.StatusCode())
	require.Equal(t, int64(3), counter.Load(), "initial attempt plus two retries")
}

func TestOpenAIEmbedder_CountMismatchRetries(t *testing.T) {
	var counter atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := counter.Add(1)
		texts := decodeTexts(r)
		if n <= 1 {
			// Echoes model and usage but drops half the vectors.
			writeEmbeddings(w, texts[:1])
			return
		}
		writeEmbeddings(w, texts)
	}))
	defer srv.Close()

	p := NewOpenAIEmbedder("test-key",
		WithBaseURL(srv.URL),
		WithMaxRetries(2),
		WithInitialDelay(time.Millisecond),
	)

	vectors, err := p.EmbedBatch(context.Background(), []string{"hello", "world"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	require.Equal(t, int64(2), counter.Load())
}

func TestOpenAIEmbedder_UpstreamFailureNotRetried(t *testing.T) {
	var counter atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		counter.Add(1)
		// HTTP 200 with no data, no model, and zero usage: the signature of
		// a routing gateway whose upstreams are all down.
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"object": "list",
			"data":   []interface{}{},
			"model":  "",
			"usage":  map[string]int{"prompt_tokens": 0, "total_tokens": 0},
		})
	}))
	defer srv.Close()

	p := NewOpenAIEmbedder("test-key",
		WithBaseURL(srv.URL),
		WithMaxRetries(5),
		WithInitialDelay(time.Millisecond),
	)

	_, err := p.EmbedBatch(context.Background(), []string{"hello"})
	require.Error(t, err)
	require.ErrorIs(t, err, errUpstreamFailure)
	require.Equal(t, int64(1), counter.Load(), "upstream failure is not retried")
}

func TestOpenAIEmbedder_CancelledContext(t *testing.T) {
	var counter atomic.Int64
	srv := fakeEmbeddingServer(t, &counter)
	defer srv.Close()

	p := NewOpenAIEmbedder("test-key", WithBaseURL(srv.URL), WithMaxRetries(0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.EmbedBatch(ctx, []string{"hello"})
	require.Error(t, err)
}
