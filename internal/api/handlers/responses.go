// internal/api/handlers/responses.go
package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"snapstream/internal/logging"
	"snapstream/internal/models"
	"snapstream/internal/services"
	"snapstream/internal/services/auth"
	"snapstream/internal/toast"
	"snapstream/internal/views"
)

// ErrorResponse is a standard format for API error messages.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is a standard format for simple API messages.
type MessageResponse struct {
	Message string `json:"message"`
}

// FragmentResponse is what the page script receives instead of a page.
type FragmentResponse struct {
	HTML       string               `json:"html,omitempty"`
	Toasts     []models.Toast       `json:"toasts,omitempty"`
	ToastsHTML string               `json:"toasts_html,omitempty"`
	Redirect   string               `json:"redirect,omitempty"`
	DelayMS    int64                `json:"delay_ms,omitempty"`
	Errors     services.FieldErrors `json:"errors,omitempty"`
	Token      string               `json:"token,omitempty"`
}

// respondWithError sends a JSON error response.
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

// respondWithJSON sends a JSON response.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, `{"error":"Failed to marshal JSON response"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// isFragment reports whether the page script made the request.
func isFragment(r *http.Request) bool {
	return r.Header.Get(auth.FragmentHeader) != "" || strings.Contains(r.Header.Get("Accept"), "application/json")
}

// respondFragment sends res as JSON, rendering its toasts with the page's
// toast markup.
func (h *Handlers) respondFragment(w http.ResponseWriter, code int, res FragmentResponse) {
	if len(res.Toasts) > 0 {
		html, err := h.Views.FragmentString("toasts", res.Toasts)
		if err != nil {
			logging.Log.Errorf("respondFragment: %v", err)
		}
		res.ToastsHTML = html
	}
	respondWithJSON(w, code, res)
}

// respondAction finishes a form POST. Script requests get JSON; plain form
// posts carry their toasts across a redirect to res.Redirect or fallback.
func (h *Handlers) respondAction(w http.ResponseWriter, r *http.Request, code int, res FragmentResponse, fallback string) {
	if isFragment(r) {
		h.respondFragment(w, code, res)
		return
	}
	h.Flash.Queue(w, r, res.Toasts...)
	target := res.Redirect
	if target == "" {
		target = fallback
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// pageToasts collects the flash toasts from the previous request and those
// pushed while handling this one.
func (h *Handlers) pageToasts(w http.ResponseWriter, r *http.Request) []models.Toast {
	toasts := h.Flash.Take(w, r)
	if c := toast.Current(r.Context()); c != nil {
		toasts = append(toasts, c.Toasts()...)
	}
	return toasts
}

// render writes a full page with the navigation for the current user.
func (h *Handlers) render(w http.ResponseWriter, r *http.Request, code int, page, title, active string, data interface{}) {
	user, _ := auth.UserFromContext(r.Context())
	p := views.Page{
		Title:  title,
		Active: active,
		Nav:    auth.NavFor(user),
		Theme:  auth.Theme(r),
		Toasts: h.pageToasts(w, r),
		Data:   data,
	}

	var buf bytes.Buffer
	if err := h.Views.Render(&buf, page, p); err != nil {
		logging.Log.Errorf("render: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	buf.WriteTo(w)
}

// renderError shows the error page, or a JSON error to the page script.
func (h *Handlers) renderError(w http.ResponseWriter, r *http.Request, code int, message string) {
	if isFragment(r) {
		respondWithError(w, code, message)
		return
	}
	h.render(w, r, code, "error", http.StatusText(code), "", views.ErrorPage{Status: code, Message: message})
}

// fragmentHTML renders a partial for a FragmentResponse.
func (h *Handlers) fragmentHTML(name string, data interface{}) (string, error) {
	html, err := h.Views.FragmentString(name, data)
	if err != nil {
		logging.Log.Errorf("fragment %s: %v", name, err)
	}
	return html, err
}

func (h *Handlers) audit(r *http.Request, action, resource string, details map[string]interface{}) {
	if h.Auditor == nil {
		return
	}
	actor := "anonymous"
	if user, ok := auth.UserFromContext(r.Context()); ok {
		actor = user.DisplayName()
	}
	h.Auditor.Log(r.Context(), action, actor, resource, details)
}

// ownerKey names the session user's account, "" when unknown.
func ownerKey(r *http.Request) string {
	user, _ := auth.UserFromContext(r.Context())
	return services.OwnerKey(user)
}
