// filepath: internal/api/handlers/dashboard_handler.go
package handlers

import (
	"net/http"

	"snapstream/internal/views"
)

// DashboardPage renders the dashboard shell with skeleton panels.
func (h *Handlers) DashboardPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "dashboard", "Dashboard", "dashboard", views.DashboardPage{})
}

// @Summary Dashboard panels
// @Description Loads stats and recent activity concurrently and returns both rendered panels. A failed panel is rendered in its failure state.
// @Tags Dashboard
// @Produce  json
// @Param   X-SnapStream-Fragment header string true "Set by the page script"
// @Success 200 {object} FragmentResponse
// @Router /dashboard/panels [get]
func (h *Handlers) DashboardPanels(w http.ResponseWriter, r *http.Request) {
	view := h.Dashboard.Load(r.Context())
	if !isFragment(r) {
		h.render(w, r, http.StatusOK, "dashboard", "Dashboard", "dashboard", views.DashboardPage{Panels: view})
		return
	}
	html, err := h.fragmentHTML("dashboard_panels", view)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to render dashboard")
		return
	}
	h.respondFragment(w, http.StatusOK, FragmentResponse{HTML: html})
}
