// Package mcp exposes the scouting engine to agent tooling over the
// Model Context Protocol. Tools mirror the HTTP query surface; failures
// surface as tool errors in the result payload, never as transport
// errors.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/okian/scout/internal/domain/compare"
	"github.com/okian/scout/internal/domain/filter"
	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/internal/domain/recommend"
)

// Server identity reported to MCP clients.
const (
	serverName    = "scout"
	serverVersion = "1.0.0"
)

// Tool names.
const (
	toolSearchPlayers         = "search_players"
	toolTopPlayers            = "top_players"
	toolComparePlayers        = "compare_players"
	toolRecommendReplacements = "recommend_replacements"
)

// Call outcome labels for metrics.
const (
	outcomeOK    = "ok"
	outcomeError = "error"
)

// Dependencies is the query surface the tools call into.
type Dependencies interface {
	EnrichedPlayers(ctx context.Context, criteria filter.Criteria) ([]model.EnrichedPlayer, error)
	TopN(ctx context.Context, criteria filter.Criteria, key string, n int, descending bool) ([]model.EnrichedPlayer, error)
	Compare(ctx context.Context, aID, bID string) (compare.Comparison, error)
	Recommend(ctx context.Context, playerID string, budget float64, position model.Position, limit int) ([]recommend.Suggestion, error)
}

// Server wires the scouting tools into an MCP server. maxLimit caps the
// limit argument of the listing tools, mirroring the HTTP API.
type Server struct {
	deps     Dependencies
	maxLimit int
	impl     *sdk.Server
}

// NewServer creates an MCP server with all tools registered.
func NewServer(deps Dependencies, maxLimit int) *Server {
	s := &Server{
		deps:     deps,
		maxLimit: maxLimit,
		impl: sdk.NewServer(&sdk.Implementation{
			Name:    serverName,
			Version: serverVersion,
		}, nil),
	}

	sdk.AddTool(s.impl, &sdk.Tool{
		Name:        toolSearchPlayers,
		Description: "Search the player dataset by position, team, league, price band, minutes, age, or name; records carry derived value metrics",
	}, s.searchPlayers)
	sdk.AddTool(s.impl, &sdk.Tool{
		Name:        toolTopPlayers,
		Description: "Rank players by a named stat (total_points, value_efficiency, overperformance, ...) with optional filters",
	}, s.topPlayers)
	sdk.AddTool(s.impl, &sdk.Tool{
		Name:        toolComparePlayers,
		Description: "Compare two players side by side with radar axes normalized against the league",
	}, s.comparePlayers)
	sdk.AddTool(s.impl, &sdk.Tool{
		Name:        toolRecommendReplacements,
		Description: "Score replacement candidates for a player under a budget, weighing points, value efficiency, and price savings",
	}, s.recommendReplacements)

	return s
}

// Register mounts the MCP endpoint on mux at path.
func (s *Server) Register(_ context.Context, mux *http.ServeMux, path string) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle(path, s.Handler())
}

// Handler returns the streamable HTTP handler for the MCP endpoint.
func (s *Server) Handler() http.Handler {
	return sdk.NewStreamableHTTPHandler(func(_ *http.Request) *sdk.Server {
		return s.impl
	}, &sdk.StreamableHTTPOptions{JSONResponse: true})
}

// toolJSON wraps v as an indented JSON text result.
func toolJSON(v any) (*sdk.CallToolResult, any, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(err), nil, nil
	}
	return &sdk.CallToolResult{
		Content: []sdk.Content{&sdk.TextContent{Text: string(raw)}},
	}, nil, nil
}

// toolError wraps err as an IsError result so the calling agent sees the
// failure text instead of a broken transport.
func toolError(err error) *sdk.CallToolResult {
	return &sdk.CallToolResult{
		IsError: true,
		Content: []sdk.Content{&sdk.TextContent{Text: fmt.Sprintf("error: %v", err)}},
	}
}
