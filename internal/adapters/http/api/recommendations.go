package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/internal/domain/types"
)

// RecommendationsHandler handles replacement search requests.
type RecommendationsHandler struct {
	deps RecommendationDependencies
}

// NewRecommendationsHandler creates a new recommendations handler.
func NewRecommendationsHandler(deps RecommendationDependencies) *RecommendationsHandler {
	return &RecommendationsHandler{deps: deps}
}

// HandleGetRecommendations handles GET /recommendations?player=ID&budget=N
// requests. Optional position narrows candidates to one role; optional limit
// truncates the scored list.
func (h *RecommendationsHandler) HandleGetRecommendations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()

	playerID := q.Get("player")
	if playerID == "" {
		writeDomainError(w, fmt.Errorf("%w: player id is required", model.ErrInvalidParameter))
		return
	}

	rawBudget := q.Get("budget")
	if rawBudget == "" {
		writeDomainError(w, fmt.Errorf("%w: budget is required", model.ErrInvalidParameter))
		return
	}
	budget, err := strconv.ParseFloat(rawBudget, 64)
	if err != nil {
		writeDomainError(w, fmt.Errorf("%w: budget must be a number, got %q", model.ErrInvalidParameter, rawBudget))
		return
	}

	var position model.Position
	if raw := q.Get("position"); raw != "" {
		position, err = model.ParsePosition(raw)
		if err != nil {
			writeDomainError(w, err)
			return
		}
	}

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeDomainError(w, fmt.Errorf("%w: limit must be a non-negative integer, got %q", model.ErrInvalidParameter, raw))
			return
		}
	}

	suggestions, err := h.deps.Recommend(r.Context(), playerID, budget, position, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.NewSuggestions(suggestions))
}
