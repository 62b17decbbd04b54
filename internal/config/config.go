// filepath: internal/config/config.go
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"snapstream/internal/shared"

	"github.com/BurntSushi/toml"
)

// Config holds the application's configuration.
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Backend       BackendConfig       `toml:"backend"`
	UI            UIConfig            `toml:"ui"`
	Notifications NotificationsConfig `toml:"notifications"`
	Logging       LoggingConfig       `toml:"logging"`
	Cookie        CookieConfig        `toml:"cookie"`

	CookieSecret string `toml:"-"` // Runtime secret (from env, flag, or file)

	// Runtime computed values
	MaxUploadSizeBytes int64         `toml:"-"`
	BackendTimeout     time.Duration `toml:"-"`
	Timings            Timings       `toml:"-"`
}

// ServerConfig holds the frontend server configuration.
type ServerConfig struct {
	Host                 string `toml:"host"`
	Port                 int    `toml:"port"`
	MaxUploadSize        string `toml:"max_upload_size"` // e.g. "100MB"
	MaxConcurrentUploads int64  `toml:"max_concurrent_uploads"`
}

// BackendConfig describes how to reach the SnapStream JSON backend.
type BackendConfig struct {
	URL            string   `toml:"url"`
	APIPrefix      string   `toml:"api_prefix"`
	Timeout        string   `toml:"timeout"`
	SessionCookies []string `toml:"session_cookies"` // browser cookies forwarded to the backend
}

// UIConfig holds the presentation timings. Values are durations like "3500ms".
type UIConfig struct {
	ToastVisible   string `toml:"toast_visible"`
	ToastExit      string `toml:"toast_exit"`
	AuthRedirect   string `toml:"auth_redirect"`
	UploadRedirect string `toml:"upload_redirect"`
	LogoutRedirect string `toml:"logout_redirect"`
	SkeletonCount  int    `toml:"skeleton_count"`
}

// NotificationsConfig selects where notifications come from.
type NotificationsConfig struct {
	Source      string `toml:"source"` // "mock" or "api"
	ListDelay   string `toml:"list_delay"`
	ActionDelay string `toml:"action_delay"`
	StateTTL    string `toml:"state_ttl"`
}

// LoggingConfig holds the logging configuration.
type LoggingConfig struct {
	Level        string `toml:"level"`
	AuditEnabled bool   `toml:"audit_enabled"`
}

// CookieConfig holds the signing secret for frontend-owned cookies.
type CookieConfig struct {
	Secret string `toml:"secret"` // Persisted secret
	Secure bool   `toml:"secure"`
}

// Timings are the parsed UI and notification durations.
type Timings struct {
	ToastVisible      time.Duration
	ToastExit         time.Duration
	AuthRedirect      time.Duration
	UploadRedirect    time.Duration
	LogoutRedirect    time.Duration
	NotificationList  time.Duration
	NotificationWrite time.Duration
	NotificationTTL   time.Duration
}

// LoadConfig loads the configuration from a TOML file.
func LoadConfig(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// SaveConfig writes the current configuration back to a TOML file.
// Used to persist the auto-generated cookie secret.
func SaveConfig(path string, cfg *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrorCreateFile, err)
	}
	defer f.Close()
	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrorEncodeFile, err)
	}
	return nil
}

// ParseAndValidate processes configuration strings into runtime values.
// It sets defaults if values are missing and parses human-readable sizes and durations.
func (c *Config) ParseAndValidate() error {
	if c.Server.MaxUploadSize == "" {
		c.Server.MaxUploadSize = "100MB"
	}
	sizeBytes, err := shared.ParseSize(c.Server.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	c.MaxUploadSizeBytes = sizeBytes

	if c.Server.MaxConcurrentUploads <= 0 {
		c.Server.MaxConcurrentUploads = 4
	}

	if c.Backend.URL == "" {
		c.Backend.URL = "http://127.0.0.1:5000"
	}
	u, err := url.Parse(c.Backend.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid backend url: %q", c.Backend.URL)
	}
	c.Backend.URL = strings.TrimRight(c.Backend.URL, "/")
	if c.Backend.APIPrefix == "" {
		c.Backend.APIPrefix = "/api"
	}
	if len(c.Backend.SessionCookies) == 0 {
		c.Backend.SessionCookies = []string{"session"}
	}

	if c.UI.SkeletonCount <= 0 {
		c.UI.SkeletonCount = 5
	}

	switch c.Notifications.Source {
	case "":
		c.Notifications.Source = "mock"
	case "mock", "api":
	default:
		return fmt.Errorf("invalid notifications source: %q", c.Notifications.Source)
	}

	durations := []struct {
		name   string
		value  *string
		def    string
		target *time.Duration
	}{
		{"backend.timeout", &c.Backend.Timeout, "30s", &c.BackendTimeout},
		{"ui.toast_visible", &c.UI.ToastVisible, "3500ms", &c.Timings.ToastVisible},
		{"ui.toast_exit", &c.UI.ToastExit, "300ms", &c.Timings.ToastExit},
		{"ui.auth_redirect", &c.UI.AuthRedirect, "1000ms", &c.Timings.AuthRedirect},
		{"ui.upload_redirect", &c.UI.UploadRedirect, "1000ms", &c.Timings.UploadRedirect},
		{"ui.logout_redirect", &c.UI.LogoutRedirect, "300ms", &c.Timings.LogoutRedirect},
		{"notifications.list_delay", &c.Notifications.ListDelay, "600ms", &c.Timings.NotificationList},
		{"notifications.action_delay", &c.Notifications.ActionDelay, "300ms", &c.Timings.NotificationWrite},
		{"notifications.state_ttl", &c.Notifications.StateTTL, "24h", &c.Timings.NotificationTTL},
	}
	for _, d := range durations {
		if *d.value == "" {
			*d.value = d.def
		}
		parsed, err := shared.ParseDuration(*d.value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.name, err)
		}
		*d.target = parsed
	}

	return nil
}
