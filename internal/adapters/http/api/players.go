package api

import (
	"net/http"
	"strings"

	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/internal/domain/types"
)

// PlayersHandler handles player listing and lookup requests.
type PlayersHandler struct {
	deps     PlayerDependencies
	maxLimit int
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps PlayerDependencies, maxLimit int) *PlayersHandler {
	return &PlayersHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleList handles GET /players requests. Filter criteria arrive as query
// parameters; enriched=true attaches derived metrics to each record.
func (h *PlayersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	criteria, err := parseCriteria(q)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	limit, err := parseLimit(q, 0, h.maxLimit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	enriched := q.Get("enriched") == "true"

	var views []types.PlayerView
	if enriched {
		records, err := h.deps.EnrichedPlayers(r.Context(), criteria)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		views = types.NewPlayerViews(records)
	} else {
		records, err := h.deps.Players(r.Context(), criteria)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		views = make([]types.PlayerView, len(records))
		for i, p := range records {
			views[i] = types.NewPlayerView(model.EnrichedPlayer{Player: p})
		}
	}
	if limit > 0 && len(views) > limit {
		views = views[:limit]
	}
	writeJSON(w, http.StatusOK, views)
}

// HandleGet handles GET /players/{id} requests. The record always carries
// derived metrics when the league baseline allows computing them.
func (h *PlayersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/players/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	record, err := h.deps.PlayerByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.NewPlayerView(record))
}
