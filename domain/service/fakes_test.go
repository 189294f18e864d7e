package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/parkscout/parkscout/domain/entity"
	"github.com/parkscout/parkscout/domain/search"
)

// fakeEmbedder returns deterministic vectors and counts provider calls.
type fakeEmbedder struct {
	mu         sync.Mutex
	modelID    string
	vector     []float64
	embedCalls int
	batchCalls int
	err        error
}

func newFakeEmbedder() *fakeEmbedder {
	return &fakeEmbedder{
		modelID: "fake:test-model",
		vector:  []float64{0.1, 0.2, 0.3},
	}
}

func (f *fakeEmbedder) Embed(_ context.Context, _ string) ([]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.embedCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batchCalls++
	if f.err != nil {
		return nil, f.err
	}
	vectors := make([][]float64, len(texts))
	for i := range texts {
		vectors[i] = f.vector
	}
	return vectors, nil
}

func (f *fakeEmbedder) ModelID() string { return f.modelID }

func (f *fakeEmbedder) Available() bool { return true }

func (f *fakeEmbedder) calls() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.embedCalls, f.batchCalls
}

var _ search.Embedder = (*fakeEmbedder)(nil)

// fakeVectorStore holds records in a map and serves canned query matches.
type fakeVectorStore struct {
	mu       sync.Mutex
	records  map[string]search.Embedding
	matches  []search.Match
	lastK    int
	lastFill search.Filter
	queryErr error
	batches  [][]search.Embedding
}

func newFakeVectorStore() *fakeVectorStore {
	return &fakeVectorStore{records: map[string]search.Embedding{}}
}

func (f *fakeVectorStore) Upsert(_ context.Context, e search.Embedding) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[e.ID()] = e
	return nil
}

func (f *fakeVectorStore) UpsertBatch(_ context.Context, embeddings []search.Embedding) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	batch := make([]search.Embedding, len(embeddings))
	copy(batch, embeddings)
	f.batches = append(f.batches, batch)
	for _, e := range embeddings {
		f.records[e.ID()] = e
	}
	return nil
}

func (f *fakeVectorStore) Get(_ context.Context, id string) (search.Embedding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.records[id]
	if !ok {
		return search.Embedding{}, fmt.Errorf("%w: %s", search.ErrEmbeddingNotFound, id)
	}
	return e, nil
}

func (f *fakeVectorStore) Query(_ context.Context, _ []float64, k int, filter search.Filter) ([]search.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	f.lastK = k
	f.lastFill = filter
	return f.matches, nil
}

func (f *fakeVectorStore) DeleteByDestination(_ context.Context, destinationID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, e := range f.records {
		if e.DestinationID() == destinationID {
			delete(f.records, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeVectorStore) Stats(_ context.Context) (search.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	byModel := map[string]int64{}
	for _, e := range f.records {
		byModel[e.Model()]++
	}
	return search.NewStats(int64(len(f.records)), byModel), nil
}

var _ search.VectorStore = (*fakeVectorStore)(nil)

// fakeEntityStore holds entities in a map.
type fakeEntityStore struct {
	mu       sync.Mutex
	entities map[string]entity.Entity
}

func newFakeEntityStore(entities ...entity.Entity) *fakeEntityStore {
	s := &fakeEntityStore{entities: map[string]entity.Entity{}}
	for _, e := range entities {
		s.entities[e.ID()] = e
	}
	return s
}

func (f *fakeEntityStore) GetByID(_ context.Context, id string) (entity.Entity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entities[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", entity.ErrNotFound, id)
	}
	return e, nil
}

func (f *fakeEntityStore) Save(_ context.Context, e entity.Entity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entities[e.ID()] = e
	return nil
}

func (f *fakeEntityStore) SaveBatch(_ context.Context, entities []entity.Entity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range entities {
		f.entities[e.ID()] = e
	}
	return nil
}

func (f *fakeEntityStore) ListByDestination(_ context.Context, destinationID string) ([]entity.Entity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []entity.Entity
	for _, e := range f.entities {
		if e.DestinationID() == destinationID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (f *fakeEntityStore) DeleteByDestination(_ context.Context, destinationID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, e := range f.entities {
		if e.DestinationID() == destinationID {
			delete(f.entities, id)
			n++
		}
	}
	return n, nil
}

var _ entity.Store = (*fakeEntityStore)(nil)
