package search

import "errors"

// ErrEmbeddingNotFound indicates no embedding record exists for an entity id.
var ErrEmbeddingNotFound = errors.New("embedding not found")
