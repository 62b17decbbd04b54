// internal/api/handlers/health_handler.go
package handlers

import (
	"io"
	"net/http"
)

// HealthCheck reports that the frontend process is serving. It does not call
// the backend.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, "OK\n")
}
