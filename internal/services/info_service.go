// filepath: internal/services/info_service.go
package services

import (
	"time"

	"snapstream/internal/models"
)

var _ InfoService = (*infoService)(nil)

type infoService struct {
	Version             string
	StartTime           time.Time
	BackendURL          string
	NotificationsSource string
}

// NewInfoService creates a new InfoService.
func NewInfoService(version string, startTime time.Time, backendURL, notificationsSource string) *infoService {
	return &infoService{
		Version:             version,
		StartTime:           startTime,
		BackendURL:          backendURL,
		NotificationsSource: notificationsSource,
	}
}

// GetInfo retrieves the application information.
func (s *infoService) GetInfo() models.Info {
	return models.Info{
		Version:             s.Version,
		UptimeSince:         s.StartTime,
		Uptime:              time.Since(s.StartTime).Round(time.Second).String(),
		BackendURL:          s.BackendURL,
		NotificationsSource: s.NotificationsSource,
	}
}
