package provider

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"

	"github.com/parkscout/parkscout/domain/search"
)

// LocalModelName is the sentence-transformers model served by the local
// provider.
const LocalModelName = "all-MiniLM-L6-v2"

// hugotBatchMax caps the number of texts per local inference call. Larger
// batches are split transparently inside EmbedBatch.
const hugotBatchMax = 10

// ortState holds the process-wide ONNX Runtime session and pipeline. ORT
// allows one active session per process, so every HugotEmbedder shares it;
// the mutex serializes initialization and inference (ORT is not thread-safe).
var ortState struct {
	session  *hugot.Session
	pipeline *pipelines.FeatureExtractionPipeline
	mu       sync.Mutex
	ready    bool
}

// HugotEmbedder generates embeddings locally with the all-MiniLM-L6-v2 model
// via hugot. It needs no credential or network access, which makes it the
// unconditional fallback in automatic provider selection.
//
// Model files are looked up in modelDir (a subdirectory containing
// tokenizer.json); when the binary was built with -tags embed_model the
// embedded copy is extracted there on first use.
type HugotEmbedder struct {
	modelDir string

	// infer overrides the shared ORT pipeline. Used by tests.
	infer func(texts []string) ([][]float64, error)
}

// NewHugotEmbedder creates a HugotEmbedder that looks for model files in
// modelDir.
func NewHugotEmbedder(modelDir string) *HugotEmbedder {
	return &HugotEmbedder{modelDir: modelDir}
}

// ModelID returns the fully-qualified model identifier.
func (h *HugotEmbedder) ModelID() string {
	return "transformers:" + LocalModelName
}

// Available reports whether a usable model exists on disk or compiled into
// the binary.
func (h *HugotEmbedder) Available() bool {
	if hasEmbeddedModel {
		return true
	}
	_, err := h.diskModelPath()
	return err == nil
}

// Embed generates a vector for a single text.
func (h *HugotEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	vectors, err := h.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch generates one vector per text. Inference runs at most
// hugotBatchMax texts at a time; larger batches are split into sequential
// sub-batches so callers never need to know the local capacity. Any failed
// sub-batch fails the whole call.
func (h *HugotEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	infer := h.infer
	if infer == nil {
		if err := h.initialize(); err != nil {
			return nil, NewProviderError("embed", 0, err.Error(), err)
		}
		infer = runSharedPipeline
	}

	vectors := make([][]float64, 0, len(texts))
	for start := 0; start < len(texts); start += hugotBatchMax {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := min(start+hugotBatchMax, len(texts))
		batch, err := infer(texts[start:end])
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}

// runSharedPipeline runs one inference call against the process-wide ORT
// pipeline. The mutex is held per call, not per batch, so a long ingest does
// not starve concurrent single-text queries.
func runSharedPipeline(texts []string) ([][]float64, error) {
	ortState.mu.Lock()
	defer ortState.mu.Unlock()

	result, err := ortState.pipeline.RunPipeline(texts)
	if err != nil {
		return nil, NewProviderError("embed", 0, fmt.Sprintf("run local pipeline: %v", err), err)
	}

	vectors := make([][]float64, len(result.Embeddings))
	for i, vec32 := range result.Embeddings {
		vec64 := make([]float64, len(vec32))
		for j, v := range vec32 {
			vec64[j] = float64(v)
		}
		vectors[i] = vec64
	}
	return vectors, nil
}

func (h *HugotEmbedder) initialize() error {
	ortState.mu.Lock()
	defer ortState.mu.Unlock()

	if ortState.ready {
		return nil
	}

	session, err := newHugotSession()
	if err != nil {
		return fmt.Errorf("create hugot session: %w", err)
	}

	modelPath, err := h.resolveModelPath()
	if err != nil {
		_ = session.Destroy()
		return err
	}

	pipeline, err := hugot.NewPipeline(session, hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "entity-embeddings",
		Options: []hugot.FeatureExtractionOption{
			pipelines.WithNormalization(),
		},
	})
	if err != nil {
		_ = session.Destroy()
		return fmt.Errorf("create feature extraction pipeline: %w", err)
	}

	ortState.session = session
	ortState.pipeline = pipeline
	ortState.ready = true
	return nil
}

// resolveModelPath prefers model files already on disk, then falls back to
// extracting the embedded model when the embed_model build tag was used.
func (h *HugotEmbedder) resolveModelPath() (string, error) {
	if diskPath, err := h.diskModelPath(); err == nil {
		return diskPath, nil
	}

	if !hasEmbeddedModel {
		return "", fmt.Errorf("no model found in %s and no embedded model compiled in (build with -tags embed_model)", h.modelDir)
	}

	if err := os.MkdirAll(h.modelDir, 0o755); err != nil {
		return "", fmt.Errorf("create model directory: %w", err)
	}

	return extractEmbeddedModel(h.modelDir)
}

// diskModelPath looks for a subdirectory of modelDir containing
// tokenizer.json.
func (h *HugotEmbedder) diskModelPath() (string, error) {
	entries, err := os.ReadDir(h.modelDir)
	if err != nil {
		return "", fmt.Errorf("read model directory %s: %w", h.modelDir, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		candidate := filepath.Join(h.modelDir, entry.Name())
		if _, statErr := os.Stat(filepath.Join(candidate, "tokenizer.json")); statErr == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no model subdirectory with tokenizer.json found in %s", h.modelDir)
}

var _ search.Embedder = (*HugotEmbedder)(nil)
