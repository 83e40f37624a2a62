package api

import (
	"fmt"
	"net/http"

	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/internal/domain/types"
)

// CompareHandler handles side-by-side comparison requests.
type CompareHandler struct {
	deps CompareDependencies
}

// NewCompareHandler creates a new compare handler.
func NewCompareHandler(deps CompareDependencies) *CompareHandler {
	return &CompareHandler{deps: deps}
}

// HandleGetCompare handles GET /compare?a=ID&b=ID requests.
func (h *CompareHandler) HandleGetCompare(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	aID, bID := q.Get("a"), q.Get("b")
	if aID == "" || bID == "" {
		writeDomainError(w, fmt.Errorf("%w: both a and b player ids are required", model.ErrInvalidParameter))
		return
	}
	comparison, err := h.deps.Compare(r.Context(), aID, bID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.NewComparison(comparison))
}
