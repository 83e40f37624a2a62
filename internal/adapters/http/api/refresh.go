package api

import (
	"net/http"
)

// RefreshHandler handles manual dataset refresh requests.
type RefreshHandler struct {
	deps RefreshDependencies
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(deps RefreshDependencies) *RefreshHandler {
	return &RefreshHandler{deps: deps}
}

type refreshResponse struct {
	Status string `json:"status"`
	Queued bool   `json:"queued"`
}

// HandlePostRefresh handles POST /refresh requests. A queued trigger answers
// 202; a full queue answers 200 with queued=false since a refresh is already
// pending.
func (h *RefreshHandler) HandlePostRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if h.deps.TriggerRefresh(r.Context()) {
		writeJSON(w, http.StatusAccepted, refreshResponse{Status: "queued", Queued: true})
		return
	}
	writeJSON(w, http.StatusOK, refreshResponse{Status: "pending", Queued: false})
}
