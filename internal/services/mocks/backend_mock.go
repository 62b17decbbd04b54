// filepath: internal/services/mocks/backend_mock.go
package mocks

import (
	"context"
	"io"

	"snapstream/internal/backend"
	"snapstream/internal/models"
	"snapstream/internal/services"
	"snapstream/internal/services/auth"

	"github.com/stretchr/testify/mock"
)

// MockBackend is a mock of the SnapStream JSON backend.
type MockBackend struct {
	mock.Mock
}

var (
	_ services.AuthAPI         = (*MockBackend)(nil)
	_ services.ProfileAPI      = (*MockBackend)(nil)
	_ services.DashboardAPI    = (*MockBackend)(nil)
	_ services.MediaAPI        = (*MockBackend)(nil)
	_ services.UploadAPI       = (*MockBackend)(nil)
	_ services.NotificationAPI = (*MockBackend)(nil)
	_ auth.SessionAPI          = (*MockBackend)(nil)
)

func (m *MockBackend) Me(ctx context.Context) (*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockBackend) Logout(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockBackend) Login(ctx context.Context, email, password string) (*backend.AuthResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*backend.AuthResult), args.Error(1)
}

func (m *MockBackend) Register(ctx context.Context, username, email, password string) (*backend.AuthResult, error) {
	args := m.Called(ctx, username, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*backend.AuthResult), args.Error(1)
}

func (m *MockBackend) UpdateProfile(ctx context.Context, username string) (*backend.Result, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*backend.Result), args.Error(1)
}

func (m *MockBackend) ChangePassword(ctx context.Context, current, next string) (*backend.Result, error) {
	args := m.Called(ctx, current, next)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*backend.Result), args.Error(1)
}

func (m *MockBackend) DeleteAccount(ctx context.Context) (*backend.AuthResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*backend.AuthResult), args.Error(1)
}

func (m *MockBackend) DashboardStats(ctx context.Context) (models.Stats, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Stats), args.Error(1)
}

func (m *MockBackend) DashboardActivity(ctx context.Context) ([]models.Activity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Activity), args.Error(1)
}

func (m *MockBackend) ListMedia(ctx context.Context) ([]models.MediaItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MediaItem), args.Error(1)
}

func (m *MockBackend) GetMedia(ctx context.Context, id string) (*models.MediaDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MediaDetail), args.Error(1)
}

func (m *MockBackend) DeleteMedia(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// UploadMedia drains the file so callers see the body consumed, then
// reports full progress before returning the configured result.
func (m *MockBackend) UploadMedia(ctx context.Context, form backend.UploadForm, onProgress backend.ProgressFunc) (*backend.UploadResult, error) {
	if form.File != nil {
		n, _ := io.Copy(io.Discard, form.File)
		if onProgress != nil && n > 0 {
			onProgress(backend.Progress{Sent: n, Total: n, Percent: 100})
		}
	}
	args := m.Called(ctx, form.FileName, form.Fields["custom_tags"])
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*backend.UploadResult), args.Error(1)
}

func (m *MockBackend) Notifications(ctx context.Context) ([]models.Notification, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockBackend) MarkNotificationRead(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockBackend) MarkAllNotificationsRead(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockBackend) ClearNotifications(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockBackend) FetchAsset(ctx context.Context, storedName string) (io.ReadCloser, string, error) {
	args := m.Called(ctx, storedName)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.String(1), args.Error(2)
}
