// filepath: internal/services/auth/interfaces.go
package auth

import (
	"context"
	"time"

	"snapstream/internal/models"
)

// SessionAPI is the part of the backend the gate needs.
type SessionAPI interface {
	Me(ctx context.Context) (*models.User, error)
	Logout(ctx context.Context) error
}

// CookieSigner signs short values stored in frontend-owned cookies.
type CookieSigner interface {
	Sign(subject string, ttl time.Duration) (string, error)
	Verify(token string) (string, error)
}
