// Package vector implements the vector store gateway: embedding persistence,
// k-nearest-neighbor queries, and the escaped filter-expression builder that
// is the only code path allowed to produce filter text.
package vector

import (
	"errors"
	"fmt"
)

// ErrInvalidInput indicates a malformed filter value, identifier, or vector
// rejected before any engine call was made.
var ErrInvalidInput = errors.New("invalid input")

// ErrDimensionMismatch indicates two compared vectors have different lengths.
var ErrDimensionMismatch = fmt.Errorf("%w: vector dimension mismatch", ErrInvalidInput)

// ErrEngine indicates the vector engine failed or rejected a query. Retry
// policy, if any, belongs to the caller's transport layer.
var ErrEngine = errors.New("vector engine error")
