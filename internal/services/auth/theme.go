package auth

import "net/http"

// ThemeCookie stores the colour scheme.
const ThemeCookie = "theme"

// Theme returns "dark" or "light" (the default) for the request.
func Theme(r *http.Request) string {
	if c, err := r.Cookie(ThemeCookie); err == nil && c.Value == "dark" {
		return "dark"
	}
	return "light"
}

// ToggleTheme flips the stored theme and returns the new value.
func ToggleTheme(w http.ResponseWriter, r *http.Request) string {
	next := "dark"
	if Theme(r) == "dark" {
		next = "light"
	}
	http.SetCookie(w, &http.Cookie{
		Name:     ThemeCookie,
		Value:    next,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		SameSite: http.SameSiteLaxMode,
	})
	return next
}
