package api

import (
	"net/http"

	"github.com/okian/scout/internal/domain/types"
)

// ScatterHandler handles price-vs-points projection requests.
type ScatterHandler struct {
	deps ScatterDependencies
}

// NewScatterHandler creates a new scatter handler.
func NewScatterHandler(deps ScatterDependencies) *ScatterHandler {
	return &ScatterHandler{deps: deps}
}

// HandleGetScatter handles GET /scatter requests. Filter criteria narrow the
// projected population.
func (h *ScatterHandler) HandleGetScatter(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	criteria, err := parseCriteria(r.URL.Query())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	points, err := h.deps.Scatter(r.Context(), criteria)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.NewScatterPoints(points))
}
