// filepath: internal/api/handlers/main.go
package handlers

import (
	"context"
	"io"

	"snapstream/internal/config"
	"snapstream/internal/media"
	"snapstream/internal/metrics"
	"snapstream/internal/progress"
	"snapstream/internal/services"
	"snapstream/internal/services/auth"
	"snapstream/internal/toast"
	"snapstream/internal/views"
)

// AssetFetcher streams an uploaded file from the backend.
type AssetFetcher interface {
	FetchAsset(ctx context.Context, storedName string) (io.ReadCloser, string, error)
}

// Services groups the page controllers the handlers drive.
type Services struct {
	Info          services.InfoService
	Forms         *services.AuthFormService
	Profile       *services.ProfileService
	Dashboard     *services.DashboardService
	Gallery       *services.GalleryService
	Uploads       *services.UploadService
	Notifications *services.NotificationsService
}

// Handlers provides a struct to hold shared dependencies for the page and
// fragment handlers.
type Handlers struct {
	Info          services.InfoService
	Forms         *services.AuthFormService
	Profile       *services.ProfileService
	Dashboard     *services.DashboardService
	Gallery       *services.GalleryService
	Uploads       *services.UploadService
	Notifications *services.NotificationsService

	Gate     *auth.Gate
	Flash    *toast.FlashStore
	Views    *views.Renderer
	Progress *progress.Hub
	Thumbs   *media.ThumbnailCache
	Assets   AssetFetcher
	Metrics  *metrics.Collector // optional
	Auditor  services.Auditor
	Cfg      *config.Config
}

// NewHandlers creates a new instance of Handlers with its dependencies.
func NewHandlers(
	svc Services,
	gate *auth.Gate,
	flash *toast.FlashStore,
	renderer *views.Renderer,
	hub *progress.Hub,
	thumbs *media.ThumbnailCache,
	assets AssetFetcher,
	collector *metrics.Collector,
	auditor services.Auditor,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		Info:          svc.Info,
		Forms:         svc.Forms,
		Profile:       svc.Profile,
		Dashboard:     svc.Dashboard,
		Gallery:       svc.Gallery,
		Uploads:       svc.Uploads,
		Notifications: svc.Notifications,
		Gate:          gate,
		Flash:         flash,
		Views:         renderer,
		Progress:      hub,
		Thumbs:        thumbs,
		Assets:        assets,
		Metrics:       collector,
		Auditor:       auditor,
		Cfg:           cfg,
	}
}
