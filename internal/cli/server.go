// filepath: internal/cli/server.go
package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"snapstream/internal/api/handlers"
	"snapstream/internal/audit"
	"snapstream/internal/backend"
	"snapstream/internal/config"
	"snapstream/internal/httpserver"
	"snapstream/internal/logging"
	"snapstream/internal/media"
	"snapstream/internal/metrics"
	"snapstream/internal/progress"
	"snapstream/internal/services"
	"snapstream/internal/services/auth"
	"snapstream/internal/toast"
	"snapstream/internal/views"
)

const (
	flashTTL     = 5 * time.Minute
	progressTTL  = 10 * time.Minute
	thumbnailTTL = 30 * time.Minute
	galleryTTL   = 15 * time.Minute
)

// runServer contains the logic to start the HTTP server with graceful shutdown.
func runServer() error {
	// Handle cookie secret
	if cfg.CookieSecret == "" {
		if cfg.Cookie.Secret != "" {
			logging.Log.Info("Using cookie secret loaded from config.toml.")
			cfg.CookieSecret = cfg.Cookie.Secret
		} else {
			logging.Log.Info("Generating new random cookie secret...")
			newSecret, err := auth.GenerateSecret()
			if err != nil {
				return fmt.Errorf("failed to generate cookie secret: %w", err)
			}
			cfg.Cookie.Secret = newSecret
			cfg.CookieSecret = newSecret
			if err := config.SaveConfig(cfgFile, cfg); err != nil {
				logging.Log.Warnf("Failed to save new cookie secret to %s: %v", cfgFile, err)
			} else {
				logging.Log.Infof("New cookie secret saved to %s.", cfgFile)
			}
		}
	}

	collector := metrics.NewCollector()
	client := backend.NewClient(cfg.Backend.URL, cfg.Backend.APIPrefix, cfg.BackendTimeout, backend.WithObserver(collector))

	signer, err := auth.NewCookieSigner(cfg.CookieSecret)
	if err != nil {
		return fmt.Errorf("failed to create cookie signer: %w", err)
	}

	renderer, err := views.New(views.UIFromConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}

	var sources services.NotificationSources
	switch cfg.Notifications.Source {
	case "api":
		sources = services.NewAPINotifications(client)
	default:
		sources = services.NewMockNotifications(
			cfg.Timings.NotificationList,
			cfg.Timings.NotificationWrite,
			cfg.Timings.NotificationTTL,
		)
	}

	// Service Initialization
	svc := handlers.Services{
		Info:          services.NewInfoService(Version, StartTime, cfg.Backend.URL, cfg.Notifications.Source),
		Forms:         services.NewAuthFormService(client),
		Profile:       services.NewProfileService(client),
		Dashboard:     services.NewDashboardService(client),
		Gallery:       services.NewGalleryService(client, galleryTTL),
		Uploads:       services.NewUploadService(client, cfg.MaxUploadSizeBytes, cfg.Server.MaxConcurrentUploads),
		Notifications: services.NewNotificationsService(sources),
	}

	hub := progress.NewHub(progressTTL)
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go hub.Run(hubCtx)

	h := handlers.NewHandlers(
		svc,
		auth.NewGate(client),
		toast.NewFlashStore(signer, flashTTL, cfg.Cookie.Secure),
		renderer,
		hub,
		media.NewThumbnailCache(thumbnailTTL),
		client,
		collector,
		audit.NewLoggerAuditor(cfg.Logging.AuditEnabled),
		cfg,
	)

	r, err := httpserver.SetupRouter(h, staticFS)
	if err != nil {
		return fmt.Errorf("failed to set up routes: %w", err)
	}

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              serverAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// --- Graceful Shutdown Setup ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logging.Log.Infof("Server starting on %s (backend: %s, max upload: %s)", serverAddr, cfg.Backend.URL, cfg.Server.MaxUploadSize)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-stop
	logging.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Closes the progress sockets before the server waits on them.
	stopHub()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Log.Errorf("Server forced to shutdown: %v", err)
		return err
	}

	logging.Log.Info("Server exiting")
	return nil
}
