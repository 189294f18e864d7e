package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/parkscout/parkscout/domain/entity"
	"github.com/parkscout/parkscout/domain/search"
)

// fakeSearcher implements Searcher with canned results, recording the options
// it was called with.
type fakeSearcher struct {
	results  []search.Result
	err      error
	lastOpts search.Options
}

func (f *fakeSearcher) Search(_ context.Context, _ string, opts ...search.Option) ([]search.Result, error) {
	f.lastOpts = search.NewOptions(opts...)
	return f.results, f.err
}

// fakeLookup implements EntityLookup over a map.
type fakeLookup struct {
	entities map[string]entity.Entity
}

func (f *fakeLookup) GetByID(_ context.Context, id string) (entity.Entity, error) {
	e, ok := f.entities[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return e, nil
}

// fakeStats implements StatsProvider with a canned value.
type fakeStats struct {
	stats search.Stats
	err   error
}

func (f *fakeStats) Stats(context.Context) (search.Stats, error) {
	return f.stats, f.err
}

var (
	_ Searcher      = (*fakeSearcher)(nil)
	_ EntityLookup  = (*fakeLookup)(nil)
	_ StatsProvider = (*fakeStats)(nil)
)

func testAttraction() entity.Entity {
	return entity.NewAttraction("att-1", "Space Mountain", "wdw",
		entity.WithAttractionPark("Magic Kingdom"),
		entity.WithExperienceType("roller coaster"),
	)
}

func testServer(searcher *fakeSearcher, lookup *fakeLookup, stats *fakeStats) *Server {
	if searcher == nil {
		searcher = &fakeSearcher{}
	}
	if lookup == nil {
		lookup = &fakeLookup{}
	}
	if stats == nil {
		stats = &fakeStats{}
	}
	return NewServer(searcher, lookup, stats, nil)
}

// sendMessage marshals a JSON-RPC request, sends it through HandleMessage,
// and returns the JSONRPCResponse.
func sendMessage(t *testing.T, srv *Server, method string, id int, params map[string]any) mcp.JSONRPCResponse {
	t.Helper()

	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
	}
	if params != nil {
		msg["params"] = params
	}

	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	result := srv.MCPServer().HandleMessage(context.Background(), raw)

	resp, ok := result.(mcp.JSONRPCResponse)
	require.True(t, ok, "expected JSONRPCResponse, got %T: %+v", result, result)
	return resp
}

// resultJSON re-marshals the Result field through JSON into dst.
func resultJSON(t *testing.T, resp mcp.JSONRPCResponse, dst any) {
	t.Helper()
	b, err := json.Marshal(resp.Result)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, dst))
}

// textFromContent extracts the text of the first content item. It round-trips
// through JSON because in-process responses may hold the content as a map
// rather than a typed struct.
func textFromContent(t *testing.T, result mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)

	b, err := json.Marshal(result.Content[0])
	require.NoError(t, err)

	var tc struct {
		Text string `json:"text"`
	}
	require.NoError(t, json.Unmarshal(b, &tc))
	return tc.Text
}

func initializeParams() map[string]any {
	return map[string]any{
		"protocolVersion": "2025-06-18",
		"capabilities":    map[string]any{},
		"clientInfo": map[string]any{
			"name":    "test-client",
			"version": "0.0.1",
		},
	}
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) mcp.CallToolResult {
	t.Helper()

	sendMessage(t, srv, "initialize", 1, initializeParams())
	resp := sendMessage(t, srv, "tools/call", 2, map[string]any{
		"name":      name,
		"arguments": args,
	})

	var result mcp.CallToolResult
	resultJSON(t, resp, &result)
	return result
}

func TestServer_ListTools(t *testing.T) {
	srv := testServer(nil, nil, nil)
	sendMessage(t, srv, "initialize", 1, initializeParams())

	resp := sendMessage(t, srv, "tools/list", 2, nil)

	var result mcp.ListToolsResult
	resultJSON(t, resp, &result)
	require.Len(t, result.Tools, 3)

	tools := map[string]mcp.Tool{}
	for _, tool := range result.Tools {
		tools[tool.Name] = tool
	}
	require.Contains(t, tools, "semantic_search")
	require.Contains(t, tools, "get_entity")
	require.Contains(t, tools, "embedding_stats")

	searchTool := tools["semantic_search"]
	require.Contains(t, searchTool.InputSchema.Properties, "query")
	require.Contains(t, searchTool.InputSchema.Properties, "entity_type")
	require.Contains(t, searchTool.InputSchema.Properties, "destination_id")
	require.Contains(t, searchTool.InputSchema.Properties, "limit")
	require.Contains(t, searchTool.InputSchema.Properties, "min_score")
	require.Contains(t, searchTool.InputSchema.Required, "query")
}

func TestServer_SemanticSearch(t *testing.T) {
	searcher := &fakeSearcher{
		results: []search.Result{search.NewResult(testAttraction(), 0.82, 0.2)},
	}
	srv := testServer(searcher, nil, nil)

	result := callTool(t, srv, "semantic_search", map[string]any{
		"query": "thrilling roller coaster",
	})
	require.False(t, result.IsError, "unexpected error: %s", textFromContent(t, result))

	var items []struct {
		ID            string  `json:"id"`
		Name          string  `json:"name"`
		EntityType    string  `json:"entity_type"`
		DestinationID string  `json:"destination_id"`
		ParkName      string  `json:"park_name"`
		Score         float64 `json:"score"`
	}
	require.NoError(t, json.Unmarshal([]byte(textFromContent(t, result)), &items))
	require.Len(t, items, 1)
	require.Equal(t, "att-1", items[0].ID)
	require.Equal(t, "Space Mountain", items[0].Name)
	require.Equal(t, "ATTRACTION", items[0].EntityType)
	require.Equal(t, "wdw", items[0].DestinationID)
	require.Equal(t, "Magic Kingdom", items[0].ParkName)
	require.InDelta(t, 0.82, items[0].Score, 1e-9)
}

func TestServer_SemanticSearchPassesOptions(t *testing.T) {
	searcher := &fakeSearcher{}
	srv := testServer(searcher, nil, nil)

	result := callTool(t, srv, "semantic_search", map[string]any{
		"query":          "shows",
		"entity_type":    "SHOW",
		"destination_id": "dlr",
		"limit":          5,
		"min_score":      0.6,
	})
	require.False(t, result.IsError)

	require.Equal(t, "SHOW", searcher.lastOpts.EntityType())
	require.Equal(t, "dlr", searcher.lastOpts.DestinationID())
	require.Equal(t, 5, searcher.lastOpts.Limit())
	require.InDelta(t, 0.6, searcher.lastOpts.MinScore(), 1e-9)
}

func TestServer_SemanticSearchMissingQuery(t *testing.T) {
	srv := testServer(nil, nil, nil)

	result := callTool(t, srv, "semantic_search", map[string]any{})
	require.True(t, result.IsError)
	require.Contains(t, textFromContent(t, result), "query is required")
}

func TestServer_SemanticSearchInvalidEntityType(t *testing.T) {
	srv := testServer(nil, nil, nil)

	result := callTool(t, srv, "semantic_search", map[string]any{
		"query":       "rides",
		"entity_type": "CASTLE",
	})
	require.True(t, result.IsError)
	require.Contains(t, textFromContent(t, result), "unknown entity type")
}

func TestServer_SemanticSearchError(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("store offline")}
	srv := testServer(searcher, nil, nil)

	result := callTool(t, srv, "semantic_search", map[string]any{"query": "rides"})
	require.True(t, result.IsError)
	require.Contains(t, textFromContent(t, result), "search failed")
}

func TestServer_GetEntity(t *testing.T) {
	lookup := &fakeLookup{entities: map[string]entity.Entity{"att-1": testAttraction()}}
	srv := testServer(nil, lookup, nil)

	result := callTool(t, srv, "get_entity", map[string]any{"id": "att-1"})
	require.False(t, result.IsError)

	var item struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		EntityType string `json:"entity_type"`
	}
	require.NoError(t, json.Unmarshal([]byte(textFromContent(t, result)), &item))
	require.Equal(t, "att-1", item.ID)
	require.Equal(t, "Space Mountain", item.Name)
	require.Equal(t, "ATTRACTION", item.EntityType)
}

func TestServer_GetEntityNotFound(t *testing.T) {
	srv := testServer(nil, &fakeLookup{}, nil)

	result := callTool(t, srv, "get_entity", map[string]any{"id": "missing"})
	require.True(t, result.IsError)
	require.Contains(t, textFromContent(t, result), "failed to get entity")
}

func TestServer_GetEntityMissingID(t *testing.T) {
	srv := testServer(nil, nil, nil)

	result := callTool(t, srv, "get_entity", map[string]any{})
	require.True(t, result.IsError)
	require.Contains(t, textFromContent(t, result), "id is required")
}

func TestServer_EmbeddingStats(t *testing.T) {
	stats := &fakeStats{stats: search.NewStats(7, map[string]int64{
		"openai:text-embedding-3-small": 7,
	})}
	srv := testServer(nil, nil, stats)

	result := callTool(t, srv, "embedding_stats", map[string]any{})
	require.False(t, result.IsError)

	var payload struct {
		Total   int64            `json:"total"`
		ByModel map[string]int64 `json:"by_model"`
	}
	require.NoError(t, json.Unmarshal([]byte(textFromContent(t, result)), &payload))
	require.Equal(t, int64(7), payload.Total)
	require.Equal(t, int64(7), payload.ByModel["openai:text-embedding-3-small"])
}

func TestServer_EmbeddingStatsError(t *testing.T) {
	stats := &fakeStats{err: errors.New("database gone")}
	srv := testServer(nil, nil, stats)

	result := callTool(t, srv, "embedding_stats", map[string]any{})
	require.True(t, result.IsError)
	require.Contains(t, textFromContent(t, result), "failed to load stats")
}
