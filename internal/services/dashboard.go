// filepath: internal/services/dashboard.go
package services

import (
	"context"
	"strings"

	"snapstream/internal/logging"
	"snapstream/internal/models"

	"golang.org/x/sync/errgroup"
)

// Media type groups.
const (
	MediaImage = "image"
	MediaVideo = "video"
	MediaAudio = "audio"
	MediaOther = "other"
)

var extensionGroups = map[string]string{
	"jpg":  MediaImage,
	"jpeg": MediaImage,
	"png":  MediaImage,
	"gif":  MediaImage,
	"mp4":  MediaVideo,
	"mp3":  MediaAudio,
	"wav":  MediaAudio,
}

// GroupOf maps a file extension to its media group, or MediaOther.
func GroupOf(ext string) string {
	if g, ok := extensionGroups[strings.ToLower(strings.TrimPrefix(ext, "."))]; ok {
		return g
	}
	return MediaOther
}

// MediaType is the dashboard's icon category for an activity entry. Values
// that already name a group pass through; anything unknown is an image.
func MediaType(ext string) string {
	switch v := strings.ToLower(ext); v {
	case MediaImage, MediaVideo, MediaAudio:
		return v
	}
	if g := GroupOf(ext); g != MediaOther {
		return g
	}
	return MediaImage
}

// StatusBadgeClass maps a processing status to its badge CSS class.
func StatusBadgeClass(status string) string {
	switch strings.ToLower(status) {
	case "completed":
		return "badge-success"
	case "processing":
		return "badge-warning"
	case "failed":
		return "badge-danger"
	default:
		return "badge-secondary"
	}
}

// ActivityMessageFailed is shown in the activity panel when its fetch fails.
const ActivityMessageFailed = "Failed to load recent activity"

// ActivityRow is one rendered activity entry.
type ActivityRow struct {
	models.Activity
	MediaType  string
	BadgeClass string
}

// DashboardView is the state of both dashboard panels.
type DashboardView struct {
	Stats         models.Stats
	StatsFailed   bool
	Activity      []ActivityRow
	ActivityError string
}

// Empty reports whether the activity panel should show its call to action.
func (v *DashboardView) Empty() bool {
	return v.ActivityError == "" && len(v.Activity) == 0
}

// DashboardService loads the dashboard panels.
type DashboardService struct {
	api DashboardAPI
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(api DashboardAPI) *DashboardService {
	return &DashboardService{api: api}
}

// Load fetches stats and activity concurrently and waits for both. Each
// panel records its own failure; neither cancels the other.
func (s *DashboardService) Load(ctx context.Context) *DashboardView {
	view := &DashboardView{}
	var g errgroup.Group

	g.Go(func() error {
		stats, err := s.api.DashboardStats(ctx)
		if err != nil {
			logging.Log.Warnf("Dashboard: failed to load stats: %v", err)
			view.StatsFailed = true
			return nil
		}
		view.Stats = stats
		return nil
	})

	g.Go(func() error {
		activity, err := s.api.DashboardActivity(ctx)
		if err != nil {
			logging.Log.Warnf("Dashboard: failed to load activity: %v", err)
			view.ActivityError = ActivityMessageFailed
			return nil
		}
		rows := make([]ActivityRow, 0, len(activity))
		for _, a := range activity {
			rows = append(rows, ActivityRow{
				Activity:   a,
				MediaType:  MediaType(a.Type),
				BadgeClass: StatusBadgeClass(a.Status),
			})
		}
		view.Activity = rows
		return nil
	})

	_ = g.Wait()
	return view
}
