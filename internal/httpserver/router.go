package httpserver

import (
	"io/fs"
	"net/http"

	"snapstream/internal/api/handlers"
	"snapstream/internal/web"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRouter configures the main router and its sub-routers.
// It sets up the pages, the fragment endpoints, the session gate and the
// static assets.
func SetupRouter(h *handlers.Handlers, static fs.FS) (*mux.Router, error) {
	r := mux.NewRouter()

	var obs HTTPObserver
	if h.Metrics != nil {
		obs = h.Metrics
	}
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		requestLogger(obs),
		middleware.Recoverer,
		sessionMiddleware(h.Cfg.Backend.SessionCookies),
	)

	// Public Endpoints
	r.HandleFunc("/health", handlers.HealthCheck).Methods("GET")
	r.HandleFunc("/api/info", h.GetInfo).Methods("GET")
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)
	if h.Metrics != nil {
		r.Handle("/metrics", h.Metrics.Handler()).Methods("GET")
	}
	if err := web.AddRoutes(r, static); err != nil {
		return nil, err
	}

	addLegacyRoutes(r)
	r.HandleFunc("/theme", handlers.ToggleTheme).Methods("POST")
	r.HandleFunc("/logout", h.Logout).Methods("GET", "POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	r.HandleFunc("/register", h.Register).Methods("POST")

	// Public pages render the navigation for whoever is logged in.
	publicRouter := r.PathPrefix("").Subrouter()
	publicRouter.Use(h.Gate.OptionalUser)
	publicRouter.HandleFunc("/", h.LandingPage).Methods("GET")
	publicRouter.HandleFunc("/login", h.LoginPage).Methods("GET")
	publicRouter.HandleFunc("/register", h.RegisterPage).Methods("GET")

	// Everything else needs a backend session.
	authRouter := r.PathPrefix("").Subrouter()
	authRouter.Use(h.Gate.RequireAuth)
	addDashboardRoutes(authRouter, h)
	addUploadRoutes(authRouter, h)
	addMediaRoutes(authRouter, h)
	addNotificationRoutes(authRouter, h)
	addProfileRoutes(authRouter, h)

	r.NotFoundHandler = middleware.RequestID(http.HandlerFunc(h.NotFound))
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	return r, nil
}

// addLegacyRoutes keeps the old static page names working.
func addLegacyRoutes(r *mux.Router) {
	for page, target := range handlers.LegacyPages {
		r.HandleFunc(page, handlers.LegacyRedirect(target)).Methods("GET")
	}
	r.HandleFunc("/media_detail", handlers.LegacyMediaDetail).Methods("GET")
}

func addDashboardRoutes(r *mux.Router, h *handlers.Handlers) {
	r.HandleFunc("/dashboard", h.DashboardPage).Methods("GET")
	r.HandleFunc("/dashboard/panels", h.DashboardPanels).Methods("GET")
}

func addUploadRoutes(r *mux.Router, h *handlers.Handlers) {
	r.HandleFunc("/upload", h.UploadPage).Methods("GET")
	r.HandleFunc("/upload", h.Upload).Methods("POST")
	r.HandleFunc("/upload/validate", h.ValidateUpload).Methods("POST")
	r.HandleFunc("/upload/{id}/progress", h.UploadProgress).Methods("GET")
}

// addMediaRoutes registers /media/grid before /media/{id}.
func addMediaRoutes(r *mux.Router, h *handlers.Handlers) {
	r.HandleFunc("/media", h.MediaPage).Methods("GET")
	r.HandleFunc("/media/grid", h.MediaGrid).Methods("GET")
	r.HandleFunc("/media/{id}", h.MediaDetailPage).Methods("GET")
	r.HandleFunc("/media/{id}/delete", h.DeleteMedia).Methods("POST")
	r.HandleFunc("/media/{id}/thumb", h.Thumbnail).Methods("GET")
	r.HandleFunc("/uploads/{name}", h.Asset).Methods("GET")
}

func addNotificationRoutes(r *mux.Router, h *handlers.Handlers) {
	r.HandleFunc("/notifications", h.NotificationsPage).Methods("GET")
	r.HandleFunc("/notifications/list", h.NotificationsList).Methods("GET")
	r.HandleFunc("/notifications/read-all", h.MarkAllNotificationsRead).Methods("POST")
	r.HandleFunc("/notifications/clear-all", h.ClearNotifications).Methods("POST")
	r.HandleFunc("/notifications/{id}/read", h.MarkNotificationRead).Methods("POST")
}

func addProfileRoutes(r *mux.Router, h *handlers.Handlers) {
	r.HandleFunc("/profile", h.ProfilePage).Methods("GET")
	r.HandleFunc("/profile/update", h.UpdateProfile).Methods("POST")
	r.HandleFunc("/profile/change-password", h.ChangePassword).Methods("POST")
	r.HandleFunc("/profile/delete-account", h.DeleteAccount).Methods("POST")
}
