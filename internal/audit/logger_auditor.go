// filepath: internal/audit/logger_auditor.go
package audit

import (
	"context"

	"snapstream/internal/logging"
	"snapstream/internal/services"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// Ensure LoggerAuditor implements services.Auditor
var _ services.Auditor = (*LoggerAuditor)(nil)

// LoggerAuditor writes user actions (logins, deletions, uploads) to the
// application log.
type LoggerAuditor struct {
	enabled bool
}

// NewLoggerAuditor creates a new instance of LoggerAuditor.
func NewLoggerAuditor(enabled bool) *LoggerAuditor {
	return &LoggerAuditor{enabled: enabled}
}

// Log records an event if auditing is enabled. The request id, when the
// request went through the router, ties the event to its access log line.
func (a *LoggerAuditor) Log(ctx context.Context, action string, actor string, resource string, details map[string]interface{}) {
	if !a.enabled {
		return
	}

	fields := logrus.Fields{
		"audit_action":   action,
		"audit_actor":    actor,
		"audit_resource": resource,
	}
	if id := middleware.GetReqID(ctx); id != "" {
		fields["request_id"] = id
	}
	for k, v := range details {
		fields["detail."+k] = v
	}

	logging.Log.WithFields(fields).Info("AUDIT EVENT")
}
