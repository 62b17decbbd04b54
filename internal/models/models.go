// filepath: internal/models/models.go
package models

import (
	"strings"
	"time"
)

// TimeLayout is the timestamp format used by the backend ("2026-01-24 10:45:00").
const TimeLayout = "2006-01-02 15:04:05"

// User is the session user returned by /api/me.
type User struct {
	ID       int    `json:"id,omitempty"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// DisplayName returns the username, or "User" when the backend sent none.
func (u *User) DisplayName() string {
	if u == nil || strings.TrimSpace(u.Username) == "" {
		return "User"
	}
	return u.Username
}

// MediaItem is one uploaded file as listed by /api/media.
type MediaItem struct {
	ID         string   `json:"id"`
	Filename   string   `json:"filename"`
	StoredName string   `json:"stored_name"`
	Type       string   `json:"type"` // file extension, e.g. "jpg"
	Status     string   `json:"status"`
	SizeKB     float64  `json:"size_kb"`
	UploadedAt string   `json:"uploaded_at"`
	Tags       []string `json:"tags,omitempty"`
}

// UploadedTime parses UploadedAt. Unparseable values yield the zero time.
func (m MediaItem) UploadedTime() time.Time {
	t, err := time.Parse(TimeLayout, m.UploadedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Label is one detected object in an image analysis.
type Label struct {
	Name       string  `json:"Name"`
	Confidence float64 `json:"Confidence"`
}

// Analysis is the analysis block attached to a single media item.
type Analysis struct {
	Rekognition struct {
		Labels []Label `json:"labels"`
	} `json:"rekognition"`
	Transcribe string `json:"transcribe"`
	Comprehend struct {
		Sentiment string `json:"sentiment"`
	} `json:"comprehend"`
}

// MediaDetail is a media item together with its analysis.
type MediaDetail struct {
	Media    MediaItem `json:"media"`
	Analysis *Analysis `json:"analysis,omitempty"`
}

// Stats holds the dashboard counters. Absent fields decode as zero.
type Stats struct {
	TotalUploads int `json:"total_uploads"`
	Processing   int `json:"processing"`
	Completed    int `json:"completed"`
	Failed       int `json:"failed"`
}

// Activity is one entry of the dashboard activity feed.
type Activity struct {
	Type       string `json:"type"`
	Filename   string `json:"filename"`
	Status     string `json:"status"`
	UploadedAt string `json:"uploaded_at"`
}

// Notification is a user notification. Type is the severity used for the icon.
type Notification struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Read      bool   `json:"read"`
}

// Toast is a transient feedback message.
type Toast struct {
	Message  string `json:"message"`
	Severity string `json:"type"`
	Title    string `json:"title,omitempty"`
}

// Info holds frontend build and runtime information.
type Info struct {
	Version             string    `json:"version"`
	UptimeSince         time.Time `json:"uptime_since"`
	Uptime              string    `json:"uptime"`
	BackendURL          string    `json:"backend_url"`
	NotificationsSource string    `json:"notifications_source"`
}
