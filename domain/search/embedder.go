package search

import "context"

// Embedder turns text into fixed-dimension vectors. Implementations live in
// infrastructure/provider; this contract is all the domain services see.
type Embedder interface {
	// Embed generates a vector for a single text.
	Embed(ctx context.Context, text string) ([]float64, error)

	// EmbedBatch generates one vector per input text. The call is atomic:
	// either every text gets a vector or the whole batch fails.
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)

	// ModelID returns the fully-qualified "provider:model" identifier that
	// stamps every record this embedder produces.
	ModelID() string

	// Available is a cheap probe used only for fallback decisions during
	// provider selection, never for correctness.
	Available() bool
}
