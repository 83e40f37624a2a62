package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/internal/domain/rank"
	"github.com/okian/scout/internal/domain/types"
)

const defaultRankLimit = 10

// RankingsHandler handles leaderboard requests.
type RankingsHandler struct {
	deps     RankingDependencies
	maxLimit int
}

// NewRankingsHandler creates a new rankings handler.
func NewRankingsHandler(deps RankingDependencies, maxLimit int) *RankingsHandler {
	return &RankingsHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetRankings handles GET /rankings?key=K&limit=N requests. The key
// defaults to total_points, order to descending; filter criteria narrow the
// ranked population.
func (h *RankingsHandler) HandleGetRankings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()

	key := q.Get("key")
	if key == "" {
		key = rank.KeyTotalPoints
	}
	if !rank.ValidKey(key) {
		err := fmt.Errorf("%w: unknown ranking key %q, valid keys: %s",
			model.ErrInvalidParameter, key, strings.Join(rank.Keys(), ", "))
		writeDomainError(w, err)
		return
	}

	limit, err := parseLimit(q, defaultRankLimit, h.maxLimit)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	descending := true
	switch order := q.Get("order"); order {
	case "", "desc":
	case "asc":
		descending = false
	default:
		writeDomainError(w, fmt.Errorf("%w: order must be asc or desc, got %q", model.ErrInvalidParameter, order))
		return
	}

	criteria, err := parseCriteria(q)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	records, err := h.deps.TopN(r.Context(), criteria, key, limit, descending)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.NewRankedRows(key, records))
}
