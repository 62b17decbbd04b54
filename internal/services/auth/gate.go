// filepath: internal/services/auth/gate.go
package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"snapstream/internal/backend"
	"snapstream/internal/logging"
	"snapstream/internal/models"
)

// LoginPath is where unauthenticated visitors are sent.
const LoginPath = "/login"

// FragmentHeader marks requests made by the page script for partial HTML.
// Those get a JSON redirect instead of a 303 they cannot follow visibly.
const FragmentHeader = "X-SnapStream-Fragment"

// legacyCookies are cleared on logout. They date from token-based auth.
var legacyCookies = []string{backend.LegacyTokenCookie, "user", "rememberMe"}

type userKey struct{}

// WithUser stores the session user in ctx.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// UserFromContext returns the user stored by RequireAuth.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey{}).(*models.User)
	return user, ok && user != nil
}

// Gate decides whether a visitor has a backend session.
type Gate struct {
	api SessionAPI
}

// NewGate creates a new instance of Gate.
func NewGate(api SessionAPI) *Gate {
	return &Gate{api: api}
}

// CurrentUser asks the backend for the session user. It never fails: any
// error means "logged out". Nothing is cached between calls.
func (g *Gate) CurrentUser(ctx context.Context) *models.User {
	user, err := g.api.Me(ctx)
	if err != nil {
		logging.Log.Debugf("CurrentUser: treating visitor as logged out: %v", err)
		return nil
	}
	return user
}

// RequireAuth only runs next for visitors with a session. Everyone else is
// redirected to the login page and next is not called.
func (g *Gate) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := g.CurrentUser(r.Context())
		if user == nil {
			redirectToLogin(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// OptionalUser puts the user in the context when there is one. Public pages
// use it to render the right navigation.
func (g *Gate) OptionalUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user := g.CurrentUser(r.Context()); user != nil {
			r = r.WithContext(WithUser(r.Context(), user))
		}
		next.ServeHTTP(w, r)
	})
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get(FragmentHeader) != "" || strings.Contains(r.Header.Get("Accept"), "application/json") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"redirect": LoginPath})
		return
	}
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
}

// Logout ends the backend session on a best-effort basis and always clears
// the legacy client cookies.
func (g *Gate) Logout(ctx context.Context, w http.ResponseWriter) {
	if err := g.api.Logout(ctx); err != nil {
		logging.Log.Warnf("Logout: backend call failed, clearing client state anyway: %v", err)
	}
	for _, name := range legacyCookies {
		http.SetCookie(w, &http.Cookie{Name: name, Value: "", Path: "/", MaxAge: -1})
	}
}

// Nav is the state of the navigation bar.
type Nav struct {
	LoggedIn bool
	Username string
	Avatar   string
}

// NavFor builds the navigation state for user, which may be nil.
func NavFor(user *models.User) Nav {
	if user == nil {
		return Nav{Avatar: "U"}
	}
	name := user.DisplayName()
	return Nav{
		LoggedIn: true,
		Username: name,
		Avatar:   strings.ToUpper(string([]rune(name)[:1])),
	}
}
