// filepath: internal/services/notifications.go
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"snapstream/internal/logging"
	"snapstream/internal/models"
	"snapstream/internal/toast"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// NotificationSources hands out the source for one browser session.
type NotificationSources interface {
	ForSession(key string) NotificationSource
}

// NewNotificationSessionKey returns a fresh key for a browser session.
func NewNotificationSessionKey() string {
	return uuid.NewString()
}

// mockNotifications is the fixed set shown when no backend contract is used.
var mockNotifications = []models.Notification{
	{ID: "1", Type: toast.Success, Title: "Analysis Complete", Message: `Your video "product_demo.mp4" has been analyzed successfully.`, Timestamp: "2026-01-24 10:45"},
	{ID: "2", Type: toast.Info, Title: "Upload Successful", Message: `Your file "team_photo.jpg" has been uploaded and is being processed.`, Timestamp: "2026-01-24 10:15"},
	{ID: "3", Type: toast.Error, Title: "Processing Failed", Message: `Failed to process "interview_recording.wav". Please try uploading again.`, Timestamp: "2026-01-23 16:45", Read: true},
	{ID: "4", Type: toast.Warning, Title: "Storage Limit Warning", Message: "You have used 80% of your storage quota. Consider upgrading your plan.", Timestamp: "2026-01-22 09:00", Read: true},
	{ID: "5", Type: toast.Success, Title: "Transcription Complete", Message: `Transcription for "podcast_episode.mp3" is now available.`, Timestamp: "2026-01-21 14:30", Read: true},
}

type mockState struct {
	read    map[string]bool
	cleared bool
}

// MockNotifications serves the fixed notification set with artificial
// latency. Read and cleared state is kept per session key and expires.
type MockNotifications struct {
	mu         sync.Mutex
	state      *cache.Cache
	listDelay  time.Duration
	writeDelay time.Duration
}

// NewMockNotifications creates the in-memory notification store.
func NewMockNotifications(listDelay, writeDelay, ttl time.Duration) *MockNotifications {
	return &MockNotifications{
		state:      cache.New(ttl, 10*time.Minute),
		listDelay:  listDelay,
		writeDelay: writeDelay,
	}
}

// ForSession returns the source bound to key.
func (m *MockNotifications) ForSession(key string) NotificationSource {
	return &mockSession{store: m, key: key}
}

// update applies fn to the state of key and refreshes its expiry.
func (m *MockNotifications) update(key string, fn func(s *mockState) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.load(key)
	if err := fn(s); err != nil {
		return err
	}
	m.state.Set(key, s, cache.DefaultExpiration)
	return nil
}

func (m *MockNotifications) load(key string) *mockState {
	if v, ok := m.state.Get(key); ok {
		return v.(*mockState)
	}
	s := &mockState{read: map[string]bool{}}
	for _, n := range mockNotifications {
		s.read[n.ID] = n.Read
	}
	return s
}

type mockSession struct {
	store *MockNotifications
	key   string
}

func (s *mockSession) List(ctx context.Context) ([]models.Notification, error) {
	if err := wait(ctx, s.store.listDelay); err != nil {
		return nil, err
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	st := s.store.load(s.key)
	if st.cleared {
		return []models.Notification{}, nil
	}
	out := make([]models.Notification, len(mockNotifications))
	for i, n := range mockNotifications {
		n.Read = st.read[n.ID]
		out[i] = n
	}
	return out, nil
}

func (s *mockSession) MarkRead(ctx context.Context, id string) error {
	if err := wait(ctx, s.store.writeDelay); err != nil {
		return err
	}
	return s.store.update(s.key, func(st *mockState) error {
		if _, ok := st.read[id]; !ok || st.cleared {
			return fmt.Errorf("notification '%s': %w", id, ErrNotFound)
		}
		st.read[id] = true
		return nil
	})
}

func (s *mockSession) MarkAllRead(ctx context.Context) error {
	if err := wait(ctx, s.store.writeDelay); err != nil {
		return err
	}
	return s.store.update(s.key, func(st *mockState) error {
		for id := range st.read {
			st.read[id] = true
		}
		return nil
	})
}

func (s *mockSession) ClearAll(ctx context.Context) error {
	if err := wait(ctx, s.store.writeDelay); err != nil {
		return err
	}
	return s.store.update(s.key, func(st *mockState) error {
		st.cleared = true
		return nil
	})
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// APINotifications reads and writes notifications through the backend.
type APINotifications struct {
	api NotificationAPI
}

// NewAPINotifications creates a backend-backed source.
func NewAPINotifications(api NotificationAPI) *APINotifications {
	return &APINotifications{api: api}
}

// ForSession returns the source itself; the backend tracks the session.
func (a *APINotifications) ForSession(string) NotificationSource { return a }

func (a *APINotifications) List(ctx context.Context) ([]models.Notification, error) {
	return a.api.Notifications(ctx)
}

func (a *APINotifications) MarkRead(ctx context.Context, id string) error {
	return a.api.MarkNotificationRead(ctx, id)
}

func (a *APINotifications) MarkAllRead(ctx context.Context) error {
	return a.api.MarkAllNotificationsRead(ctx)
}

func (a *APINotifications) ClearAll(ctx context.Context) error {
	return a.api.ClearNotifications(ctx)
}

// Notification messages.
const (
	MsgNotificationsLoadFailed = "Failed to load notifications"
)

// NotificationsView is the rendered notifications panel.
type NotificationsView struct {
	Items     []models.Notification
	LoadError string
}

// Empty reports whether the empty state should be shown.
func (v *NotificationsView) Empty() bool {
	return v.LoadError == "" && len(v.Items) == 0
}

// Unread counts the unread notifications.
func (v *NotificationsView) Unread() int {
	n := 0
	for _, item := range v.Items {
		if !item.Read {
			n++
		}
	}
	return n
}

// NotificationsService drives the notifications page.
type NotificationsService struct {
	sources NotificationSources
}

// NewNotificationsService creates a new NotificationsService.
func NewNotificationsService(sources NotificationSources) *NotificationsService {
	return &NotificationsService{sources: sources}
}

// Load lists the notifications of a session. Unknown types render as info.
func (s *NotificationsService) Load(ctx context.Context, key string) (*NotificationsView, *models.Toast) {
	items, err := s.sources.ForSession(key).List(ctx)
	if err != nil {
		logging.Log.Warnf("Notifications: list failed: %v", err)
		t := toast.New(MsgNotificationsLoadFailed, toast.Error, "")
		return &NotificationsView{LoadError: MsgNotificationsLoadFailed}, &t
	}
	view := &NotificationsView{Items: make([]models.Notification, 0, len(items))}
	for _, n := range items {
		n.Type = toast.NormalizeSeverity(n.Type)
		view.Items = append(view.Items, n)
	}
	return view, nil
}

// MarkRead marks one notification of a session as read.
func (s *NotificationsService) MarkRead(ctx context.Context, key, id string) (models.Toast, error) {
	if err := s.sources.ForSession(key).MarkRead(ctx, id); err != nil {
		logging.Log.Infof("Notifications: mark '%s' read failed: %v", id, err)
		return toast.New("Failed to mark notification as read", toast.Error, ""), err
	}
	return toast.New("Notification marked as read", toast.Success, ""), nil
}

// MarkAllRead marks every notification of a session as read.
func (s *NotificationsService) MarkAllRead(ctx context.Context, key string) (models.Toast, error) {
	if err := s.sources.ForSession(key).MarkAllRead(ctx); err != nil {
		logging.Log.Infof("Notifications: mark all read failed: %v", err)
		return toast.New("Failed to mark all notifications as read", toast.Error, ""), err
	}
	return toast.New("All notifications marked as read", toast.Success, ""), nil
}

// ClearAll removes every notification of a session.
func (s *NotificationsService) ClearAll(ctx context.Context, key string) (models.Toast, error) {
	if err := s.sources.ForSession(key).ClearAll(ctx); err != nil {
		logging.Log.Infof("Notifications: clear all failed: %v", err)
		return toast.New("Failed to clear notifications", toast.Error, ""), err
	}
	return toast.New("All notifications cleared", toast.Success, ""), nil
}
