// filepath: internal/api/handlers/main_test.go
package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"snapstream/internal/config"
	"snapstream/internal/media"
	"snapstream/internal/models"
	"snapstream/internal/services"
	"snapstream/internal/services/auth"
	"snapstream/internal/services/mocks"
	"snapstream/internal/toast"
	"snapstream/internal/views"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

// testMaxUpload keeps upload fixtures small.
const testMaxUpload = 1024

// newTestHandlers wires real services and templates around a mocked backend.
// Notifications use the in-memory source without latency.
func newTestHandlers(t *testing.T) (*Handlers, *mocks.MockBackend) {
	t.Helper()

	cfg := &config.Config{}
	require.NoError(t, cfg.ParseAndValidate())

	signer, err := auth.NewCookieSigner("test-secret")
	require.NoError(t, err)
	renderer, err := views.New(views.UIFromConfig(cfg))
	require.NoError(t, err)

	api := new(mocks.MockBackend)
	svc := Services{
		Info:          services.NewInfoService("test", time.Now(), cfg.Backend.URL, "mock"),
		Forms:         services.NewAuthFormService(api),
		Profile:       services.NewProfileService(api),
		Dashboard:     services.NewDashboardService(api),
		Gallery:       services.NewGalleryService(api, time.Minute),
		Uploads:       services.NewUploadService(api, testMaxUpload, 1),
		Notifications: services.NewNotificationsService(services.NewMockNotifications(0, 0, time.Hour)),
	}
	h := NewHandlers(
		svc,
		auth.NewGate(api),
		toast.NewFlashStore(signer, time.Minute, false),
		renderer,
		nil,
		media.NewThumbnailCache(time.Minute),
		api,
		nil,
		nil,
		cfg,
	)
	return h, api
}

// newFormRequest builds a form POST the way a browser without the page
// script sends it. The toast container is attached like the session
// middleware does.
func newFormRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req.WithContext(toast.Attach(req.Context()))
}

// asFragment marks req as sent by the page script.
func asFragment(req *http.Request) *http.Request {
	req.Header.Set(auth.FragmentHeader, "1")
	return req
}

// asUser attaches a session user the way the backend's /api/me reports it:
// username and email, no numeric id.
func asUser(req *http.Request, email string) *http.Request {
	user := &models.User{Username: strings.Split(email, "@")[0], Email: email}
	return req.WithContext(auth.WithUser(req.Context(), user))
}

func withVars(req *http.Request, vars map[string]string) *http.Request {
	return mux.SetURLVars(req, vars)
}

func decodeFragment(t *testing.T, body io.Reader) FragmentResponse {
	t.Helper()
	var res FragmentResponse
	require.NoError(t, json.NewDecoder(body).Decode(&res))
	return res
}
