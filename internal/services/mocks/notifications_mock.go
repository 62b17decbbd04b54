// filepath: internal/services/mocks/notifications_mock.go
package mocks

import (
	"context"

	"snapstream/internal/models"
	"snapstream/internal/services"

	"github.com/stretchr/testify/mock"
)

// MockNotificationSource is a mock implementation of services.NotificationSource.
// It hands itself out for every session.
type MockNotificationSource struct {
	mock.Mock
}

var (
	_ services.NotificationSource  = (*MockNotificationSource)(nil)
	_ services.NotificationSources = (*MockNotificationSource)(nil)
)

func (m *MockNotificationSource) ForSession(string) services.NotificationSource { return m }

func (m *MockNotificationSource) List(ctx context.Context) ([]models.Notification, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationSource) MarkRead(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockNotificationSource) MarkAllRead(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockNotificationSource) ClearAll(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
