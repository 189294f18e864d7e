// Package service implements the semantic search orchestrator and the
// embedding maintenance pipeline.
package service

import "errors"

// ErrEmptyQuery indicates the search query is empty after trimming.
var ErrEmptyQuery = errors.New("query is empty")
