package provider

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// failingTransport always returns an error.
type failingTransport struct{}

func (f *failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, http.ErrServerClosed
}

func TestCachingTransport_CacheHit(t *testing.T) {
	var count atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"result":"ok"}`))
	}))
	defer srv.Close()

	transport := NewCachingTransport(t.TempDir(), srv.Client().Transport)

	for range 3 {
		req, err := http.NewRequest(http.MethodPost, srv.URL+"/v1/embeddings", strings.NewReader(`{"input":"hello"}`))
		require.NoError(t, err)

		resp, err := transport.RoundTrip(req)
		require.NoError(t, err)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		_ = resp.Body.Close()
		require.JSONEq(t, `{"result":"ok"}`, string(body))
	}

	require.Equal(t, int32(1), count.Load(), "repeated identical requests served from disk")
}

func TestCachingTransport_EntryNaming(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	transport := NewCachingTransport(dir, srv.Client().Transport)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/v1/embeddings", strings.NewReader(`{"input":"hello"}`))
	require.NoError(t, err)

	resp, err := transport.RoundTrip(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.True(t, strings.HasPrefix(entries[0].Name(), "embed-"))
	require.True(t, strings.HasSuffix(entries[0].Name(), ".json"))
}

func TestCachingTransport_DifferentBodiesMiss(t *testing.T) {
	var count atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count.Add(1)
		body, _ := io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	transport := NewCachingTransport(t.TempDir(), srv.Client().Transport)

	for _, b := range []string{`{"input":"hello"}`, `{"input":"world"}`} {
		req, err := http.NewRequest(http.MethodPost, srv.URL+"/v1/embeddings", strings.NewReader(b))
		require.NoError(t, err)

		resp, err := transport.RoundTrip(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
	}

	require.Equal(t, int32(2), count.Load())
}

func TestCachingTransport_PreservesStatusAndHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Custom", "test-value")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	transport := NewCachingTransport(t.TempDir(), srv.Client().Transport)

	for i := range 2 {
		req, err := http.NewRequest(http.MethodPost, srv.URL+"/api", strings.NewReader("body"))
		require.NoError(t, err)

		resp, err := transport.RoundTrip(req)
		require.NoError(t, err)
		_ = resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode, "request %d", i)
		require.Equal(t, "application/json", resp.Header.Get("Content-Type"), "request %d", i)
		require.Equal(t, "test-value", resp.Header.Get("X-Custom"), "request %d", i)
	}
}

func TestCachingTransport_NonSuccessNotCached(t *testing.T) {
	var count atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"fail"}`))
	}))
	defer srv.Close()

	transport := NewCachingTransport(t.TempDir(), srv.Client().Transport)

	for range 2 {
		req, err := http.NewRequest(http.MethodPost, srv.URL+"/api", strings.NewReader("body"))
		require.NoError(t, err)

		resp, err := transport.RoundTrip(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
	}

	require.Equal(t, int32(2), count.Load(), "500 responses are never cached")
}

func TestCachingTransport_CorruptEntryFallsThrough(t *testing.T) {
	var count atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count.Add(1)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	transport := NewCachingTransport(dir, srv.Client().Transport)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api", strings.NewReader("body"))
	require.NoError(t, err)
	resp, err := transport.RoundTrip(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, int32(1), count.Load())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, entries[0].Name()), []byte("not json{{{"), 0o644))

	req, err = http.NewRequest(http.MethodPost, srv.URL+"/api", strings.NewReader("body"))
	require.NoError(t, err)
	resp, err = transport.RoundTrip(req)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.JSONEq(t, `{"ok":true}`, string(body))
	require.Equal(t, int32(2), count.Load(), "corrupt entry falls through to upstream")
}

func TestCachingTransport_InnerError(t *testing.T) {
	transport := NewCachingTransport(t.TempDir(), &failingTransport{})

	req, err := http.NewRequest(http.MethodPost, "http://localhost/api", strings.NewReader("body"))
	require.NoError(t, err)

	_, err = transport.RoundTrip(req)
	require.Error(t, err)
}

func TestCachingTransport_EmbedderIntegration(t *testing.T) {
	var count atomic.Int64
	srv := fakeEmbeddingServer(t, &count)
	defer srv.Close()

	p := NewOpenAIEmbedder("test-key",
		WithBaseURL(srv.URL),
		WithHTTPCache(t.TempDir()),
	)

	ctx := t.Context()
	texts := []string{"hello world", "foo bar"}

	vectors, err := p.EmbedBatch(ctx, texts)
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	require.Equal(t, int64(1), count.Load())

	vectors, err = p.EmbedBatch(ctx, texts)
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	require.Equal(t, int64(1), count.Load(), "identical batch served from cache")

	_, err = p.EmbedBatch(ctx, []string{"different text"})
	require.NoError(t, err)
	require.Equal(t, int64(2), count.Load())
}
