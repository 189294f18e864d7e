// Package mcp provides Model Context Protocol server functionality.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/parkscout/parkscout/domain/entity"
	"github.com/parkscout/parkscout/domain/search"
)

// Searcher provides semantic search over destination entities for MCP tools.
type Searcher interface {
	Search(ctx context.Context, query string, opts ...search.Option) ([]search.Result, error)
}

// EntityLookup provides entity retrieval by ID for MCP tools.
type EntityLookup interface {
	GetByID(ctx context.Context, id string) (entity.Entity, error)
}

// StatsProvider reports embedding inventory statistics for MCP tools.
type StatsProvider interface {
	Stats(ctx context.Context) (search.Stats, error)
}

// Server wraps the MCP server with destination search tools.
type Server struct {
	mcpServer *server.MCPServer
	searcher  Searcher
	entities  EntityLookup
	stats     StatsProvider
	logger    *slog.Logger
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(searcher Searcher, entities EntityLookup, stats StatsProvider, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		searcher: searcher,
		entities: entities,
		stats:    stats,
		logger:   logger,
	}

	mcpServer := server.NewMCPServer(
		"parkscout",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	s.registerTools(mcpServer)

	s.mcpServer = mcpServer
	return s
}

// registerTools registers all tools with the MCP server.
func (s *Server) registerTools(mcpServer *server.MCPServer) {
	searchTool := mcp.NewTool("semantic_search",
		mcp.WithDescription("Search destination attractions, restaurants, shows, and hotels by natural-language query"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The search query, e.g. 'thrilling roller coaster for teenagers'"),
		),
		mcp.WithString("entity_type",
			mcp.Description("Filter by entity type: ATTRACTION, RESTAURANT, SHOW, or HOTEL"),
		),
		mcp.WithString("destination_id",
			mcp.Description("Filter by destination ID"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Number of results to return (default: 10)"),
		),
		mcp.WithNumber("min_score",
			mcp.Description("Minimum similarity score between 0 and 1 (default: 0.3)"),
		),
	)
	mcpServer.AddTool(searchTool, s.handleSearch)

	getEntityTool := mcp.NewTool("get_entity",
		mcp.WithDescription("Get a destination entity by its ID"),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("The entity ID"),
		),
	)
	mcpServer.AddTool(getEntityTool, s.handleGetEntity)

	statsTool := mcp.NewTool("embedding_stats",
		mcp.WithDescription("Report stored embedding counts grouped by model"),
	)
	mcpServer.AddTool(statsTool, s.handleStats)
}

// searchResult is the wire shape of a single search hit.
type searchResult struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	EntityType    string  `json:"entity_type"`
	DestinationID string  `json:"destination_id"`
	ParkName      string  `json:"park_name,omitempty"`
	Score         float64 `json:"score"`
}

// handleSearch handles the semantic_search tool invocation.
func (s *Server) handleSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query is required"), nil
	}

	var opts []search.Option
	if entityType := request.GetString("entity_type", ""); entityType != "" {
		if !entity.Type(entityType).IsValid() {
			return mcp.NewToolResultError(fmt.Sprintf("unknown entity type: %s", entityType)), nil
		}
		opts = append(opts, search.WithEntityType(entityType))
	}
	if destinationID := request.GetString("destination_id", ""); destinationID != "" {
		opts = append(opts, search.WithDestination(destinationID))
	}
	if limit := request.GetInt("limit", 0); limit > 0 {
		opts = append(opts, search.WithLimit(limit))
	}
	if minScore := request.GetFloat("min_score", -1); minScore >= 0 {
		opts = append(opts, search.WithMinScore(minScore))
	}

	results, err := s.searcher.Search(ctx, query, opts...)
	if err != nil {
		s.logger.Error("search failed", slog.Any("error", err))
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	payload := make([]searchResult, len(results))
	for i, r := range results {
		e := r.Entity()
		payload[i] = searchResult{
			ID:            e.ID(),
			Name:          e.Name(),
			EntityType:    string(e.EntityType()),
			DestinationID: e.DestinationID(),
			ParkName:      e.ParkName(),
			Score:         r.Score(),
		}
	}

	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// handleGetEntity handles the get_entity tool invocation.
func (s *Server) handleGetEntity(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id is required"), nil
	}

	e, err := s.entities.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get entity", slog.String("id", id), slog.Any("error", err))
		return mcp.NewToolResultError(fmt.Sprintf("failed to get entity: %v", err)), nil
	}

	result := searchResult{
		ID:            e.ID(),
		Name:          e.Name(),
		EntityType:    string(e.EntityType()),
		DestinationID: e.DestinationID(),
		ParkName:      e.ParkName(),
	}

	jsonBytes, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// handleStats handles the embedding_stats tool invocation.
func (s *Server) handleStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.stats.Stats(ctx)
	if err != nil {
		s.logger.Error("failed to load embedding stats", slog.Any("error", err))
		return mcp.NewToolResultError(fmt.Sprintf("failed to load stats: %v", err)), nil
	}

	payload := struct {
		Total   int64            `json:"total"`
		ByModel map[string]int64 `json:"by_model"`
	}{
		Total:   stats.Total(),
		ByModel: stats.ByModel(),
	}

	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal stats: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// MCPServer returns the underlying MCP server for stdio serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio runs the MCP server on stdio.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// Listen runs the MCP server on the given streams until ctx is cancelled.
func (s *Server) Listen(ctx context.Context, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s.mcpServer).Listen(ctx, in, out)
}
