package search

import "github.com/parkscout/parkscout/domain/entity"

// Result pairs a hydrated entity with its similarity score and the raw
// engine distance, kept for diagnostics.
type Result struct {
	entity   entity.Entity
	score    float64
	distance float64
}

// NewResult creates a Result.
func NewResult(e entity.Entity, score, distance float64) Result {
	return Result{entity: e, score: score, distance: distance}
}

// Entity returns the hydrated entity.
func (r Result) Entity() entity.Entity { return r.entity }

// Score returns the similarity score in (0, 1].
func (r Result) Score() float64 { return r.score }

// Distance returns the raw distance metric.
func (r Result) Distance() float64 { return r.distance }
