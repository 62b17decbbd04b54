package httpserver

import (
	"encoding/json"
	"net/http"

	"snapstream/internal/logging"
)

// errorResponse matches the JSON structure used by the handlers.
// Defined locally to avoid circular dependencies with the handlers package.
type errorResponse struct {
	Error string `json:"error"`
}

// respondWithError writes a JSON error response to ensure consistency with the handlers.
func respondWithError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(errorResponse{Error: message}); err != nil {
		logging.Log.Errorf("Failed to encode error response: %v", err)
	}
}

// methodNotAllowed answers requests whose path exists with another method.
func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
}
