// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/scout/internal/domain/compare"
	"github.com/okian/scout/internal/domain/filter"
	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/internal/domain/rank"
	"github.com/okian/scout/internal/domain/recommend"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	PlayerDependencies
	RankingDependencies
	ScatterDependencies
	CompareDependencies
	RecommendationDependencies
	RefreshDependencies
}

// PlayerDependencies exposes the player listing and lookup queries.
type PlayerDependencies interface {
	Players(ctx context.Context, criteria filter.Criteria) ([]model.Player, error)
	EnrichedPlayers(ctx context.Context, criteria filter.Criteria) ([]model.EnrichedPlayer, error)
	PlayerByID(ctx context.Context, id string) (model.EnrichedPlayer, error)
}

// RankingDependencies exposes the leaderboard query.
type RankingDependencies interface {
	TopN(ctx context.Context, criteria filter.Criteria, key string, n int, descending bool) ([]model.EnrichedPlayer, error)
}

// ScatterDependencies exposes the price-vs-points projection.
type ScatterDependencies interface {
	Scatter(ctx context.Context, criteria filter.Criteria) ([]rank.ScatterPoint, error)
}

// CompareDependencies exposes the side-by-side comparison.
type CompareDependencies interface {
	Compare(ctx context.Context, aID, bID string) (compare.Comparison, error)
}

// RecommendationDependencies exposes the replacement search.
type RecommendationDependencies interface {
	Recommend(ctx context.Context, playerID string, budget float64, position model.Position, limit int) ([]recommend.Suggestion, error)
}

// RefreshDependencies exposes the manual refresh trigger.
type RefreshDependencies interface {
	TriggerRefresh(ctx context.Context) bool
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler          *HealthHandler
	statsHandler           *StatsHandler
	playersHandler         *PlayersHandler
	rankingsHandler        *RankingsHandler
	scatterHandler         *ScatterHandler
	compareHandler         *CompareHandler
	recommendationsHandler *RecommendationsHandler
	refreshHandler         *RefreshHandler
	dashboardHandler       *dashboardHandler
}

// NewServer creates a new API server with all handlers. maxLimit caps the
// limit query parameter of the listing and ranking routes.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:          NewHealthHandler(),
		statsHandler:           NewStatsHandler(statsProvider),
		playersHandler:         NewPlayersHandler(deps, maxLimit),
		rankingsHandler:        NewRankingsHandler(deps, maxLimit),
		scatterHandler:         NewScatterHandler(deps),
		compareHandler:         NewCompareHandler(deps),
		recommendationsHandler: NewRecommendationsHandler(deps),
		refreshHandler:         NewRefreshHandler(deps),
		dashboardHandler:       newDashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/players", MetricsMiddleware(s.playersHandler.HandleList, "players"))
	mux.HandleFunc("/players/", MetricsMiddleware(s.playersHandler.HandleGet, "player"))
	mux.HandleFunc("/rankings", MetricsMiddleware(s.rankingsHandler.HandleGetRankings, "rankings"))
	mux.HandleFunc("/scatter", MetricsMiddleware(s.scatterHandler.HandleGetScatter, "scatter"))
	mux.HandleFunc("/compare", MetricsMiddleware(s.compareHandler.HandleGetCompare, "compare"))
	mux.HandleFunc("/recommendations", MetricsMiddleware(s.recommendationsHandler.HandleGetRecommendations, "recommendations"))
	mux.HandleFunc("/refresh", MetricsMiddleware(s.refreshHandler.HandlePostRefresh, "refresh"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
