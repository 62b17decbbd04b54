package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"snapstream/internal/models"
)

// Result is the minimal body of mutating endpoints.
type Result struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Redirect string `json:"redirect"`
}

// AuthResult is returned by login, register and account deletion.
type AuthResult struct {
	Result
	User *models.User `json:"user,omitempty"`
}

// UploadResult is the body of a successful upload.
type UploadResult struct {
	Result
	MediaID string            `json:"media_id"`
	Media   *models.MediaItem `json:"media,omitempty"`
}

// Me returns the user of the current session.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var resp struct {
		Success bool         `json:"success"`
		User    *models.User `json:"user"`
	}
	if err := c.Request(ctx, http.MethodGet, "/me", nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success || resp.User == nil {
		return nil, &APIError{Status: http.StatusUnauthorized, Message: "Not logged in"}
	}
	return resp.User, nil
}

// Login starts a session for the given credentials.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	in := map[string]string{"email": email, "password": password}
	var out AuthResult
	if err := c.Request(ctx, http.MethodPost, "/login", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	in := map[string]string{"username": username, "email": email, "password": password}
	var out AuthResult
	if err := c.Request(ctx, http.MethodPost, "/register", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout ends the backend session.
func (c *Client) Logout(ctx context.Context) error {
	return c.Request(ctx, http.MethodPost, "/logout", nil, nil)
}

// DashboardStats returns the upload counters of the current user.
func (c *Client) DashboardStats(ctx context.Context) (models.Stats, error) {
	var stats models.Stats
	err := c.Request(ctx, http.MethodGet, "/dashboard/stats", nil, &stats)
	return stats, err
}

// DashboardActivity returns the most recent uploads, newest first.
func (c *Client) DashboardActivity(ctx context.Context) ([]models.Activity, error) {
	var resp struct {
		Activity []models.Activity `json:"activity"`
	}
	if err := c.Request(ctx, http.MethodGet, "/dashboard/activity", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Activity, nil
}

// ListMedia returns every media item of the current user.
func (c *Client) ListMedia(ctx context.Context) ([]models.MediaItem, error) {
	var resp struct {
		Media []models.MediaItem `json:"media"`
	}
	if err := c.Request(ctx, http.MethodGet, "/media", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Media, nil
}

// GetMedia returns one media item with its analysis.
func (c *Client) GetMedia(ctx context.Context, id string) (*models.MediaDetail, error) {
	var detail models.MediaDetail
	if err := c.Request(ctx, http.MethodGet, "/media/"+url.PathEscape(id), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// DeleteMedia removes a media item.
func (c *Client) DeleteMedia(ctx context.Context, id string) error {
	return c.Request(ctx, http.MethodDelete, "/media/"+url.PathEscape(id), nil, nil)
}

// UploadMedia uploads a file with its free-text tags.
func (c *Client) UploadMedia(ctx context.Context, form UploadForm, onProgress ProgressFunc) (*UploadResult, error) {
	var out UploadResult
	if err := c.Upload(ctx, "/upload", form, onProgress, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// apiNotification is the backend's notification shape.
type apiNotification struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Status  string `json:"status"` // "Unread" or "Read"
	Time    string `json:"time"`
	Type    string `json:"type"`
}

// Notifications lists the notifications of the current user.
func (c *Client) Notifications(ctx context.Context) ([]models.Notification, error) {
	var resp struct {
		Notifications []apiNotification `json:"notifications"`
	}
	if err := c.Request(ctx, http.MethodGet, "/notifications", nil, &resp); err != nil {
		return nil, err
	}
	out := make([]models.Notification, 0, len(resp.Notifications))
	for _, n := range resp.Notifications {
		severity := n.Type
		if severity == "" {
			severity = "info"
		}
		out = append(out, models.Notification{
			ID:        n.ID,
			Type:      severity,
			Title:     n.Title,
			Message:   n.Message,
			Timestamp: n.Time,
			Read:      strings.EqualFold(n.Status, "read"),
		})
	}
	return out, nil
}

// MarkNotificationRead marks one notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	return c.Request(ctx, http.MethodPost, "/notifications/read/"+url.PathEscape(id), nil, nil)
}

// MarkAllNotificationsRead marks every notification as read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.Request(ctx, http.MethodPost, "/notifications/read-all", nil, nil)
}

// ClearNotifications removes every notification.
func (c *Client) ClearNotifications(ctx context.Context) error {
	return c.Request(ctx, http.MethodPost, "/notifications/clear-all", nil, nil)
}

// UpdateProfile changes the username.
func (c *Client) UpdateProfile(ctx context.Context, username string) (*Result, error) {
	var out Result
	if err := c.Request(ctx, http.MethodPost, "/profile/update", map[string]string{"username": username}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangePassword replaces the password of the current user.
func (c *Client) ChangePassword(ctx context.Context, current, next string) (*Result, error) {
	in := map[string]string{"currentPassword": current, "newPassword": next}
	var out Result
	if err := c.Request(ctx, http.MethodPost, "/profile/change-password", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAccount removes the account of the current user.
func (c *Client) DeleteAccount(ctx context.Context) (*AuthResult, error) {
	var out AuthResult
	if err := c.Request(ctx, http.MethodPost, "/profile/delete-account", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchAsset opens an uploaded file served by the backend under
// /static/uploads. The caller closes the returned body.
func (c *Client) FetchAsset(ctx context.Context, storedName string) (io.ReadCloser, string, error) {
	endpoint := "/static/uploads/" + url.PathEscape(storedName)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build asset request: %w", err)
	}
	SessionFromContext(ctx).apply(req)

	resp, err := c.uploadHTTP.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, "", &APIError{Status: resp.StatusCode, Message: "Media file not available"}
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}
