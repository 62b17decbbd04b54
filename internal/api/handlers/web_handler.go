// filepath: internal/api/handlers/web_handler.go
package handlers

import (
	"net/http"
	"net/url"

	"snapstream/internal/services/auth"
)

// LegacyPages maps the old static page names to their routes.
var LegacyPages = map[string]string{
	"/index.html":         "/",
	"/login.html":         "/login",
	"/register.html":      "/register",
	"/dashboard.html":     "/dashboard",
	"/upload.html":        "/upload",
	"/media.html":         "/media",
	"/notification.html":  "/notifications",
	"/notifications.html": "/notifications",
	"/profile.html":       "/profile",
}

// LegacyRedirect sends an old page name to its route.
func LegacyRedirect(target string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target, http.StatusMovedPermanently)
	}
}

// LegacyMediaDetail maps /media_detail?id=X to /media/X.
func LegacyMediaDetail(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Redirect(w, r, "/media", http.StatusMovedPermanently)
		return
	}
	http.Redirect(w, r, "/media/"+url.PathEscape(id), http.StatusMovedPermanently)
}

// ToggleTheme flips the colour scheme and returns to the page the form was
// posted from.
func ToggleTheme(w http.ResponseWriter, r *http.Request) {
	theme := auth.ToggleTheme(w, r)
	if isFragment(r) {
		respondWithJSON(w, http.StatusOK, map[string]string{"theme": theme})
		return
	}
	back := "/"
	if ref, err := url.Parse(r.Referer()); err == nil && ref.Path != "" && (ref.Host == "" || ref.Host == r.Host) {
		back = ref.RequestURI()
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// NotFound renders the 404 page.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, http.StatusNotFound, "Page not found")
}
