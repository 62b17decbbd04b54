// filepath: internal/services/interfaces.go
package services

import (
	"context"

	"snapstream/internal/backend"
	"snapstream/internal/models"
)

// Auditor defines the interface for recording user actions.
type Auditor interface {
	// Log records an event.
	// ctx: context to trace request IDs (if available)
	// action: what happened (e.g., "auth.login", "media.delete")
	// actor: who did it (username or email)
	// resource: what was affected (e.g., "Media:3f2b...")
	// details: structured metadata about the event
	Log(ctx context.Context, action string, actor string, resource string, details map[string]interface{})
}

// InfoService defines the interface for the info service.
type InfoService interface {
	GetInfo() models.Info
}

// AuthAPI is the backend surface used by the login and register forms.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*backend.AuthResult, error)
	Register(ctx context.Context, username, email, password string) (*backend.AuthResult, error)
}

// ProfileAPI is the backend surface used by the profile page.
type ProfileAPI interface {
	UpdateProfile(ctx context.Context, username string) (*backend.Result, error)
	ChangePassword(ctx context.Context, current, next string) (*backend.Result, error)
	DeleteAccount(ctx context.Context) (*backend.AuthResult, error)
}

// DashboardAPI is the backend surface used by the dashboard.
type DashboardAPI interface {
	DashboardStats(ctx context.Context) (models.Stats, error)
	DashboardActivity(ctx context.Context) ([]models.Activity, error)
}

// MediaAPI is the backend surface used by the gallery and detail pages.
type MediaAPI interface {
	ListMedia(ctx context.Context) ([]models.MediaItem, error)
	GetMedia(ctx context.Context, id string) (*models.MediaDetail, error)
	DeleteMedia(ctx context.Context, id string) error
}

// UploadAPI sends files to the backend.
type UploadAPI interface {
	UploadMedia(ctx context.Context, form backend.UploadForm, onProgress backend.ProgressFunc) (*backend.UploadResult, error)
}

// NotificationAPI is the backend notifications contract.
type NotificationAPI interface {
	Notifications(ctx context.Context) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context) error
	ClearNotifications(ctx context.Context) error
}

// NotificationSource is where the notifications page reads and writes.
type NotificationSource interface {
	List(ctx context.Context) ([]models.Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) error
	ClearAll(ctx context.Context) error
}
