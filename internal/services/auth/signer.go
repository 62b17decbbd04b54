// filepath: internal/services/auth/signer.go
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"snapstream/internal/shared"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "snapstream"

// Compile-time check to ensure cookieSigner implements the CookieSigner interface.
var _ CookieSigner = (*cookieSigner)(nil)

// cookieSigner wraps values in HS256 JWTs.
type cookieSigner struct {
	secret []byte
}

// secretBytes is the length of generated cookie secrets.
const secretBytes = 32

// GenerateSecret returns a random hex secret for signing cookies. The CLI
// persists it when no secret is configured.
func GenerateSecret() (string, error) {
	buf := make([]byte, secretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// NewCookieSigner creates a signer for the given secret.
func NewCookieSigner(secret string) (CookieSigner, error) {
	if secret == "" {
		return nil, shared.ErrMissingSecret
	}
	return &cookieSigner{secret: []byte(secret)}, nil
}

// Sign returns a token carrying subject that expires after ttl.
func (s *cookieSigner) Sign(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign cookie value: %w", err)
	}
	return signed, nil
}

// Verify checks signature, issuer and expiry and returns the subject.
func (s *cookieSigner) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrInvalidCookie, err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", shared.ErrInvalidCookie
	}
	return claims.Subject, nil
}
