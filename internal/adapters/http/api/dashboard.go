package api

import (
	_ "embed"
	"net/http"
)

// The dashboard is a single self-contained page; it pulls /stats and
// /rankings client-side, no server-side templating involved.
//
//go:embed static/dashboard.html
var dashboardHTML []byte

// dashboardHandler handles dashboard requests.
type dashboardHandler struct{}

// newDashboardHandler creates a new dashboard handler.
func newDashboardHandler() *dashboardHandler {
	return &dashboardHandler{}
}

// HandleDashboard handles GET /dashboard requests.
func (h *dashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(dashboardHTML)
}
