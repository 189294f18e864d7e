// Package parkscout provides semantic search over theme-park destination
// entities.
//
// Parkscout stores attractions, restaurants, shows, and hotels, embeds a
// canonical text rendering of each one with a pluggable embedding provider,
// and answers natural-language queries with nearest-neighbor vector search.
//
// Basic usage:
//
//	client, err := parkscout.New(
//	    parkscout.WithSQLite(".parkscout/data.db"),
//	    parkscout.WithOpenAI(os.Getenv("OPENAI_API_KEY")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Store entities and generate embeddings
//	err = client.SaveEntities(ctx, entities)
//
//	// Search
//	results, err := client.Search(ctx, "thrilling roller coaster",
//	    search.WithEntityType("ATTRACTION"),
//	    search.WithLimit(5),
//	)
//	for _, r := range results {
//	    fmt.Println(r.Entity().Name(), r.Score())
//	}
package parkscout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/parkscout/parkscout/domain/entity"
	"github.com/parkscout/parkscout/domain/search"
	"github.com/parkscout/parkscout/domain/service"
	"github.com/parkscout/parkscout/infrastructure/persistence"
	"github.com/parkscout/parkscout/infrastructure/provider"
	"github.com/parkscout/parkscout/infrastructure/vector"
	"github.com/parkscout/parkscout/internal/config"
	"github.com/parkscout/parkscout/internal/database"
)

// ErrClosed is returned when an operation is attempted on a closed Client.
var ErrClosed = errors.New("client is closed")

// Client is the main entry point for the parkscout library.
//
// The embedding provider is selected once, on first use, and stays pinned
// for the Client's lifetime.
type Client struct {
	db       database.Database
	entities *persistence.EntityStore
	vectors  *vector.Store
	selector *provider.Selector

	logger *slog.Logger
	search config.SearchConfig

	mu          sync.Mutex
	semantic    *service.Semantic
	maintenance *service.Maintenance

	closed atomic.Bool
}

// New creates a new Client with the given options.
func New(opts ...Option) (*Client, error) {
	cfg := newClientConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	dataDir, err := config.PrepareDataDir(cfg.dataDir)
	if err != nil {
		return nil, err
	}

	dbURL := cfg.dbURL
	if dbURL == "" {
		dbURL = config.NewAppConfigWithOptions(config.WithDataDir(dataDir)).DBURL()
	}

	db, err := database.NewDatabase(context.Background(), dbURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	selectorOpts := []provider.SelectorOption{
		provider.SelectMode(cfg.mode),
		provider.SelectAPIKey(cfg.apiKey),
		provider.SelectBaseURL(cfg.baseURL),
		provider.SelectModel(cfg.model),
		provider.SelectModelDir(cfg.modelDir),
		provider.SelectHTTPCacheDir(cfg.httpCacheDir),
		provider.SelectLogger(logger),
	}
	if cfg.timeout > 0 {
		selectorOpts = append(selectorOpts, provider.SelectTimeout(cfg.timeout))
	}
	if cfg.maxRetries > 0 {
		selectorOpts = append(selectorOpts, provider.SelectMaxRetries(cfg.maxRetries))
	}
	if cfg.initialDelay > 0 {
		selectorOpts = append(selectorOpts, provider.SelectInitialDelay(cfg.initialDelay))
	}
	if cfg.backoffFactor > 0 {
		selectorOpts = append(selectorOpts, provider.SelectBackoffFactor(cfg.backoffFactor))
	}
	if cfg.remoteEmbedder != nil {
		selectorOpts = append(selectorOpts, provider.SelectRemoteEmbedder(cfg.remoteEmbedder))
	}
	if cfg.localEmbedder != nil {
		selectorOpts = append(selectorOpts, provider.SelectLocalEmbedder(cfg.localEmbedder))
	}

	return &Client{
		db:       db,
		entities: persistence.NewEntityStore(db, logger),
		vectors:  vector.NewStore(db, logger),
		selector: provider.NewSelector(selectorOpts...),
		logger:   logger,
		search:   cfg.search,
	}, nil
}

// services resolves the embedding provider and wires the domain services.
// The resolved provider is reused for every subsequent call.
func (c *Client) services() (*service.Semantic, *service.Maintenance, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.semantic != nil {
		return c.semantic, c.maintenance, nil
	}

	embedder, err := c.selector.Embedder()
	if err != nil {
		return nil, nil, err
	}

	semantic, err := service.NewSemantic(c.vectors, embedder, c.entities,
		service.WithOverFetch(c.search.OverFetch()),
		service.WithSemanticLogger(c.logger),
	)
	if err != nil {
		return nil, nil, err
	}

	maintenance, err := service.NewMaintenance(c.vectors, embedder,
		service.WithChunkSize(c.search.ChunkSize()),
		service.WithMaintenanceLogger(c.logger),
	)
	if err != nil {
		return nil, nil, err
	}

	c.semantic = semantic
	c.maintenance = maintenance
	return semantic, maintenance, nil
}

// Search runs a semantic search over stored entities.
func (c *Client) Search(ctx context.Context, query string, opts ...search.Option) ([]search.Result, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	semantic, _, err := c.services()
	if err != nil {
		return nil, err
	}
	opts = append([]search.Option{
		search.WithLimit(c.search.Limit()),
		search.WithMinScore(c.search.MinScore()),
	}, opts...)
	return semantic.Search(ctx, query, opts...)
}

// GetEntity retrieves a stored entity by ID.
func (c *Client) GetEntity(ctx context.Context, id string) (entity.Entity, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	return c.entities.GetByID(ctx, id)
}

// SaveEntity stores an entity and brings its embedding up to date.
func (c *Client) SaveEntity(ctx context.Context, e entity.Entity) error {
	if c.closed.Load() {
		return ErrClosed
	}
	_, maintenance, err := c.services()
	if err != nil {
		return err
	}
	if err := c.entities.Save(ctx, e); err != nil {
		return err
	}
	return maintenance.Ensure(ctx, e)
}

// SaveEntities stores entities and regenerates any stale embeddings.
// It returns the number of embeddings regenerated.
func (c *Client) SaveEntities(ctx context.Context, entities []entity.Entity) (int, error) {
	if c.closed.Load() {
		return 0, ErrClosed
	}
	_, maintenance, err := c.services()
	if err != nil {
		return 0, err
	}
	if err := c.entities.SaveBatch(ctx, entities); err != nil {
		return 0, err
	}
	return maintenance.EnsureBatch(ctx, entities)
}

// Reindex regenerates stale embeddings for every entity of a destination.
// It returns the number of embeddings regenerated.
func (c *Client) Reindex(ctx context.Context, destinationID string) (int, error) {
	if c.closed.Load() {
		return 0, ErrClosed
	}
	_, maintenance, err := c.services()
	if err != nil {
		return 0, err
	}
	entities, err := c.entities.ListByDestination(ctx, destinationID)
	if err != nil {
		return 0, err
	}
	return maintenance.EnsureBatch(ctx, entities)
}

// DeleteDestination removes every entity and embedding scoped to a
// destination. It returns the number of entities removed.
func (c *Client) DeleteDestination(ctx context.Context, destinationID string) (int64, error) {
	if c.closed.Load() {
		return 0, ErrClosed
	}
	removed, err := c.entities.DeleteByDestination(ctx, destinationID)
	if err != nil {
		return 0, err
	}
	if _, err := c.vectors.DeleteByDestination(ctx, destinationID); err != nil {
		return removed, err
	}
	return removed, nil
}

// ListEntities returns every stored entity for a destination.
func (c *Client) ListEntities(ctx context.Context, destinationID string) ([]entity.Entity, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	return c.entities.ListByDestination(ctx, destinationID)
}

// Stats reports stored embedding counts grouped by model.
func (c *Client) Stats(ctx context.Context) (search.Stats, error) {
	if c.closed.Load() {
		return search.Stats{}, ErrClosed
	}
	return c.vectors.Stats(ctx)
}

// Misses reports how many search hits referenced entities that no longer
// exist. Zero until the first search runs.
func (c *Client) Misses() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.semantic == nil {
		return 0
	}
	return c.semantic.Misses()
}

// Entities exposes the entity store for advanced use.
func (c *Client) Entities() entity.Store { return c.entities }

// Vectors exposes the vector store for advanced use.
func (c *Client) Vectors() search.VectorStore { return c.vectors }

// Close releases the database connection. Subsequent operations return
// ErrClosed.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.db.Close()
}
