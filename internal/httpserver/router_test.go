package httpserver

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"snapstream/internal/api/handlers"
	"snapstream/internal/audit"
	"snapstream/internal/backend"
	"snapstream/internal/config"
	"snapstream/internal/media"
	"snapstream/internal/metrics"
	"snapstream/internal/progress"
	"snapstream/internal/services"
	"snapstream/internal/services/auth"
	"snapstream/internal/toast"
	"snapstream/internal/views"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sessionValue = "s3cret"

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// fakeBackend answers the few backend calls the router tests make.
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/me", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("session"); err != nil || c.Value != sessionValue {
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "error": "Not logged in"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"user":    map[string]interface{}{"id": 1, "username": "ana", "email": "ana@example.com"},
		})
	})
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: sessionValue, Path: "/", Domain: "backend.internal", HttpOnly: true})
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Login successful"})
	})
	mux.HandleFunc("/api/dashboard/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]int{"total_uploads": 3})
	})
	mux.HandleFunc("/api/dashboard/activity", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"activity": []interface{}{}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// newTestServer wires the full stack in front of a fake backend.
func newTestServer(t *testing.T) (*httptest.Server, *metrics.Collector) {
	t.Helper()
	be := fakeBackend(t)

	cfg := &config.Config{Backend: config.BackendConfig{URL: be.URL}}
	require.NoError(t, cfg.ParseAndValidate())

	collector := metrics.NewCollector()
	client := backend.NewClient(cfg.Backend.URL, cfg.Backend.APIPrefix, 5*time.Second, backend.WithObserver(collector))
	signer, err := auth.NewCookieSigner("router-test")
	require.NoError(t, err)
	renderer, err := views.New(views.UIFromConfig(cfg))
	require.NoError(t, err)

	svc := handlers.Services{
		Info:          services.NewInfoService("test", time.Now(), cfg.Backend.URL, cfg.Notifications.Source),
		Forms:         services.NewAuthFormService(client),
		Profile:       services.NewProfileService(client),
		Dashboard:     services.NewDashboardService(client),
		Gallery:       services.NewGalleryService(client, time.Minute),
		Uploads:       services.NewUploadService(client, cfg.MaxUploadSizeBytes, 1),
		Notifications: services.NewNotificationsService(services.NewMockNotifications(0, 0, time.Hour)),
	}
	h := handlers.NewHandlers(
		svc,
		auth.NewGate(client),
		toast.NewFlashStore(signer, time.Minute, false),
		renderer,
		progress.NewHub(time.Minute),
		media.NewThumbnailCache(time.Minute),
		client,
		collector,
		audit.NewLoggerAuditor(false),
		cfg,
	)

	static := fstest.MapFS{
		"static/css/app.css": &fstest.MapFile{Data: []byte("body{}")},
	}
	r, err := SetupRouter(h, static)
	require.NoError(t, err)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, collector
}

// noRedirect returns a client that reports redirects instead of following them.
func noRedirect() *http.Client {
	return &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
}

func TestRouter_PublicRoutes(t *testing.T) {
	srv, _ := newTestServer(t)
	client := noRedirect()

	tests := []struct {
		name     string
		method   string
		path     string
		code     int
		location string
	}{
		{"health", http.MethodGet, "/health", http.StatusOK, ""},
		{"info", http.MethodGet, "/api/info", http.StatusOK, ""},
		{"static", http.MethodGet, "/static/css/app.css", http.StatusOK, ""},
		{"static missing", http.MethodGet, "/static/js/none.js", http.StatusNotFound, ""},
		{"landing", http.MethodGet, "/", http.StatusOK, ""},
		{"login page", http.MethodGet, "/login", http.StatusOK, ""},
		{"legacy page", http.MethodGet, "/dashboard.html", http.StatusMovedPermanently, "/dashboard"},
		{"legacy detail", http.MethodGet, "/media_detail?id=42", http.StatusMovedPermanently, "/media/42"},
		{"unknown", http.MethodGet, "/no/such/page", http.StatusNotFound, ""},
		{"wrong method", http.MethodDelete, "/health", http.StatusMethodNotAllowed, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, nil)
			require.NoError(t, err)
			resp, err := client.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.code, resp.StatusCode)
			if tt.location != "" {
				assert.Equal(t, tt.location, resp.Header.Get("Location"))
			}
		})
	}
}

func TestRouter_GatesPages(t *testing.T) {
	srv, _ := newTestServer(t)
	client := noRedirect()

	t.Run("Page Redirects To Login", func(t *testing.T) {
		resp, err := client.Get(srv.URL + "/dashboard")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/login", resp.Header.Get("Location"))
	})

	t.Run("Fragment Gets JSON Redirect", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, srv.URL+"/dashboard/panels", nil)
		req.Header.Set(auth.FragmentHeader, "1")
		resp, err := client.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "/login", body["redirect"])
	})

	t.Run("Session Passes", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, srv.URL+"/dashboard/panels", nil)
		req.Header.Set(auth.FragmentHeader, "1")
		req.AddCookie(&http.Cookie{Name: "session", Value: sessionValue})
		resp, err := client.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body handlers.FragmentResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Contains(t, body.HTML, `id="total-uploads">3<`)
	})
}

func TestRouter_LoginRelaysBackendCookie(t *testing.T) {
	srv, _ := newTestServer(t)

	form := url.Values{"email": {"ana@example.com"}, "password": {"secret1"}}
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(auth.FragmentHeader, "1")
	resp, err := noRedirect().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var relayed *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "session" {
			relayed = c
		}
	}
	require.NotNil(t, relayed)
	assert.Equal(t, sessionValue, relayed.Value)
	assert.Empty(t, relayed.Domain)
	assert.True(t, relayed.HttpOnly)
}

func TestRouter_Metrics(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `snapstream_http_requests_total{method="GET",route="/health",status="200"} 1`)
}
