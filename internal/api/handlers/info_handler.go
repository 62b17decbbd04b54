// filepath: internal/api/handlers/info_handler.go
package handlers

import (
	"net/http"
)

// @Summary Get frontend information
// @Description Retrieves the frontend version, uptime, the backend it talks to and the notifications source. This is a public endpoint.
// @Tags Info
// @Produce  json
// @Success 200 {object} models.Info
// @Router /api/info [get]
func (h *Handlers) GetInfo(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.Info.GetInfo())
}
