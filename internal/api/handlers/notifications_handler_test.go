// filepath: internal/api/handlers/notifications_handler_test.go
package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// notificationCookie returns the key cookie issued in rr.
func notificationCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == NotificationsCookie {
			return c
		}
	}
	require.FailNow(t, "notification cookie not issued")
	return nil
}

func TestNotificationsList_IssuesKey(t *testing.T) {
	h, _ := newTestHandlers(t)

	rr := httptest.NewRecorder()
	h.NotificationsList(rr, asFragment(httptest.NewRequest(http.MethodGet, "/notifications/list", nil)))

	assert.Equal(t, http.StatusOK, rr.Code)
	c := notificationCookie(t, rr)
	assert.NotEmpty(t, c.Value)
	assert.True(t, c.HttpOnly)

	res := decodeFragment(t, rr.Body)
	assert.Contains(t, res.HTML, "Analysis Complete")
	assert.Contains(t, res.HTML, `data-unread="2"`)
	assert.Equal(t, 2, strings.Count(res.HTML, "Mark as read"))
}

func TestNotificationActions(t *testing.T) {
	h, _ := newTestHandlers(t)

	rr := httptest.NewRecorder()
	h.NotificationsList(rr, asFragment(httptest.NewRequest(http.MethodGet, "/notifications/list", nil)))
	key := notificationCookie(t, rr)

	post := func(target string, vars map[string]string) *httptest.ResponseRecorder {
		req := asFragment(newFormRequest(target, url.Values{}))
		req.AddCookie(key)
		if vars != nil {
			req = withVars(req, vars)
		}
		rr := httptest.NewRecorder()
		switch {
		case strings.HasSuffix(target, "/read-all"):
			h.MarkAllNotificationsRead(rr, req)
		case strings.HasSuffix(target, "/clear-all"):
			h.ClearNotifications(rr, req)
		default:
			h.MarkNotificationRead(rr, req)
		}
		return rr
	}

	t.Run("Mark One", func(t *testing.T) {
		rr := post("/notifications/1/read", map[string]string{"id": "1"})
		assert.Equal(t, http.StatusOK, rr.Code)
		res := decodeFragment(t, rr.Body)
		assert.Equal(t, "Notification marked as read", res.Toasts[0].Message)
		assert.Contains(t, res.HTML, `data-unread="1"`)
	})

	t.Run("Unknown Id", func(t *testing.T) {
		rr := post("/notifications/99/read", map[string]string{"id": "99"})
		assert.Equal(t, http.StatusNotFound, rr.Code)
		res := decodeFragment(t, rr.Body)
		assert.Equal(t, "Failed to mark notification as read", res.Toasts[0].Message)
	})

	t.Run("Mark All", func(t *testing.T) {
		rr := post("/notifications/read-all", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		res := decodeFragment(t, rr.Body)
		assert.Equal(t, "All notifications marked as read", res.Toasts[0].Message)
		assert.Contains(t, res.HTML, `data-unread="0"`)
		assert.NotContains(t, res.HTML, "Mark as read")
	})

	t.Run("Clear All", func(t *testing.T) {
		rr := post("/notifications/clear-all", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		res := decodeFragment(t, rr.Body)
		assert.Equal(t, "All notifications cleared", res.Toasts[0].Message)
		assert.Contains(t, res.HTML, "No notifications")
	})
}

func TestNotificationState_IsPerBrowser(t *testing.T) {
	h, _ := newTestHandlers(t)

	first := httptest.NewRecorder()
	h.NotificationsList(first, asFragment(httptest.NewRequest(http.MethodGet, "/notifications/list", nil)))
	key := notificationCookie(t, first)

	req := asFragment(newFormRequest("/notifications/clear-all", url.Values{}))
	req.AddCookie(key)
	h.ClearNotifications(httptest.NewRecorder(), req)

	other := httptest.NewRecorder()
	h.NotificationsList(other, asFragment(httptest.NewRequest(http.MethodGet, "/notifications/list", nil)))
	res := decodeFragment(t, other.Body)
	assert.Contains(t, res.HTML, "Analysis Complete")
}

func TestClearNotifications_WithoutScript(t *testing.T) {
	h, _ := newTestHandlers(t)

	rr := httptest.NewRecorder()
	h.ClearNotifications(rr, newFormRequest("/notifications/clear-all", url.Values{}))

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/notifications/list", rr.Header().Get("Location"))
}
