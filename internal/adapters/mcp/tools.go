package mcp

import (
	"context"
	"fmt"
	"math"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/okian/scout/internal/domain/filter"
	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/internal/domain/types"
	"github.com/okian/scout/pkg/metrics"
)

// FilterArgs is the criteria block shared by the search and ranking tools.
// Every field is optional; empty means no constraint.
type FilterArgs struct {
	Position   string   `json:"position,omitempty" jsonschema:"Position filter: GK, DEF, MID or FWD"`
	Team       string   `json:"team,omitempty" jsonschema:"Exact team name"`
	League     string   `json:"league,omitempty" jsonschema:"Exact league name"`
	PriceMin   *float64 `json:"price_min,omitempty" jsonschema:"Minimum price, inclusive"`
	PriceMax   *float64 `json:"price_max,omitempty" jsonschema:"Maximum price, inclusive"`
	MinMinutes int      `json:"min_minutes,omitempty" jsonschema:"Keep players with at least this many minutes"`
	AgeMin     *int     `json:"age_min,omitempty" jsonschema:"Minimum age, inclusive"`
	AgeMax     *int     `json:"age_max,omitempty" jsonschema:"Maximum age, inclusive"`
	Query      string   `json:"query,omitempty" jsonschema:"Case-insensitive substring match on player name"`
}

// criteria converts the args block to filter criteria. Validation happens
// in the engine; this only shapes the request.
func (a FilterArgs) criteria() (filter.Criteria, error) {
	c := filter.Criteria{
		Team:       a.Team,
		League:     a.League,
		MinMinutes: a.MinMinutes,
		NameQuery:  a.Query,
	}
	if a.Position != "" {
		pos, err := model.ParsePosition(a.Position)
		if err != nil {
			return filter.Criteria{}, err
		}
		c.Position = pos
	}
	if a.PriceMin != nil || a.PriceMax != nil {
		r := &filter.PriceRange{Min: 0, Max: math.MaxFloat64}
		if a.PriceMin != nil {
			r.Min = *a.PriceMin
		}
		if a.PriceMax != nil {
			r.Max = *a.PriceMax
		}
		c.PriceRange = r
	}
	if a.AgeMin != nil || a.AgeMax != nil {
		r := &filter.AgeRange{Min: 0, Max: math.MaxInt}
		if a.AgeMin != nil {
			r.Min = *a.AgeMin
		}
		if a.AgeMax != nil {
			r.Max = *a.AgeMax
		}
		c.AgeRange = r
	}
	return c, nil
}

// SearchPlayersArgs selects players by criteria.
type SearchPlayersArgs struct {
	FilterArgs
	Limit int `json:"limit,omitempty" jsonschema:"Maximum records returned; 0 returns all matches"`
}

// TopPlayersArgs ranks players by a named stat.
type TopPlayersArgs struct {
	FilterArgs
	Key       string `json:"key" jsonschema:"Sort key: total_points, goals, assists, minutes, form, influence, creativity, threat, ict_index, price, age, value_efficiency, expected_points, overperformance, or overperformance_pct"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Number of entries to return (default 10)"`
	Ascending bool   `json:"ascending,omitempty" jsonschema:"Sort lowest first instead of highest first"`
}

// ComparePlayersArgs names the two players of a comparison.
type ComparePlayersArgs struct {
	PlayerA string `json:"player_a" jsonschema:"Id of the first player (required)"`
	PlayerB string `json:"player_b" jsonschema:"Id of the second player (required)"`
}

// RecommendReplacementsArgs describes a replacement search.
type RecommendReplacementsArgs struct {
	Player   string  `json:"player" jsonschema:"Id of the player to replace (required)"`
	Budget   float64 `json:"budget" jsonschema:"Maximum acceptable candidate price (required)"`
	Position string  `json:"position,omitempty" jsonschema:"Restrict candidates to this position; empty allows any"`
	Limit    int     `json:"limit,omitempty" jsonschema:"Number of suggestions to return; 0 returns the full ranking"`
}

const defaultTopLimit = 10

func (s *Server) searchPlayers(ctx context.Context, _ *sdk.CallToolRequest, args SearchPlayersArgs) (*sdk.CallToolResult, any, error) {
	criteria, err := args.criteria()
	if err != nil {
		metrics.RecordMCPToolCall(toolSearchPlayers, outcomeError)
		return toolError(err), nil, nil
	}
	if err := s.checkLimit(args.Limit); err != nil {
		metrics.RecordMCPToolCall(toolSearchPlayers, outcomeError)
		return toolError(err), nil, nil
	}

	records, err := s.deps.EnrichedPlayers(ctx, criteria)
	if err != nil {
		metrics.RecordMCPToolCall(toolSearchPlayers, outcomeError)
		return toolError(err), nil, nil
	}
	if args.Limit > 0 && len(records) > args.Limit {
		records = records[:args.Limit]
	}
	metrics.RecordMCPToolCall(toolSearchPlayers, outcomeOK)
	return toolJSON(types.NewPlayerViews(records))
}

func (s *Server) topPlayers(ctx context.Context, _ *sdk.CallToolRequest, args TopPlayersArgs) (*sdk.CallToolResult, any, error) {
	criteria, err := args.criteria()
	if err != nil {
		metrics.RecordMCPToolCall(toolTopPlayers, outcomeError)
		return toolError(err), nil, nil
	}
	limit := args.Limit
	if limit == 0 {
		limit = defaultTopLimit
	}
	if err := s.checkLimit(limit); err != nil {
		metrics.RecordMCPToolCall(toolTopPlayers, outcomeError)
		return toolError(err), nil, nil
	}

	records, err := s.deps.TopN(ctx, criteria, args.Key, limit, !args.Ascending)
	if err != nil {
		metrics.RecordMCPToolCall(toolTopPlayers, outcomeError)
		return toolError(err), nil, nil
	}
	metrics.RecordMCPToolCall(toolTopPlayers, outcomeOK)
	return toolJSON(types.NewRankedRows(args.Key, records))
}

func (s *Server) comparePlayers(ctx context.Context, _ *sdk.CallToolRequest, args ComparePlayersArgs) (*sdk.CallToolResult, any, error) {
	if args.PlayerA == "" || args.PlayerB == "" {
		metrics.RecordMCPToolCall(toolComparePlayers, outcomeError)
		return toolError(fmt.Errorf("player_a and player_b are required")), nil, nil
	}

	cmp, err := s.deps.Compare(ctx, args.PlayerA, args.PlayerB)
	if err != nil {
		metrics.RecordMCPToolCall(toolComparePlayers, outcomeError)
		return toolError(err), nil, nil
	}
	metrics.RecordMCPToolCall(toolComparePlayers, outcomeOK)
	return toolJSON(types.NewComparison(cmp))
}

func (s *Server) recommendReplacements(ctx context.Context, _ *sdk.CallToolRequest, args RecommendReplacementsArgs) (*sdk.CallToolResult, any, error) {
	if args.Player == "" {
		metrics.RecordMCPToolCall(toolRecommendReplacements, outcomeError)
		return toolError(fmt.Errorf("player is required")), nil, nil
	}
	if err := s.checkLimit(args.Limit); err != nil {
		metrics.RecordMCPToolCall(toolRecommendReplacements, outcomeError)
		return toolError(err), nil, nil
	}

	var position model.Position
	if args.Position != "" {
		pos, err := model.ParsePosition(args.Position)
		if err != nil {
			metrics.RecordMCPToolCall(toolRecommendReplacements, outcomeError)
			return toolError(err), nil, nil
		}
		position = pos
	}

	suggestions, err := s.deps.Recommend(ctx, args.Player, args.Budget, position, args.Limit)
	if err != nil {
		metrics.RecordMCPToolCall(toolRecommendReplacements, outcomeError)
		return toolError(err), nil, nil
	}
	metrics.RecordMCPToolCall(toolRecommendReplacements, outcomeOK)
	return toolJSON(types.NewSuggestions(suggestions))
}

// checkLimit rejects limits above the configured cap. Zero is valid: the
// tools treat it as "no explicit limit".
func (s *Server) checkLimit(limit int) error {
	if limit < 0 {
		return fmt.Errorf("%w: limit must not be negative, got %d", model.ErrInvalidParameter, limit)
	}
	if s.maxLimit > 0 && limit > s.maxLimit {
		return fmt.Errorf("limit %d exceeds maximum %d", limit, s.maxLimit)
	}
	return nil
}
