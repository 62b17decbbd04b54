// filepath: internal/services/auth/signer_test.go
package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"snapstream/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCookieSigner(t *testing.T) {
	_, err := NewCookieSigner("")
	assert.ErrorIs(t, err, shared.ErrMissingSecret)

	signer, err := NewCookieSigner("test-secret")
	require.NoError(t, err)

	t.Run("Round Trip", func(t *testing.T) {
		token, err := signer.Sign("01HZYX", time.Minute)
		require.NoError(t, err)
		subject, err := signer.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "01HZYX", subject)
	})

	t.Run("Expired", func(t *testing.T) {
		token, err := signer.Sign("01HZYX", -time.Minute)
		require.NoError(t, err)
		_, err = signer.Verify(token)
		assert.ErrorIs(t, err, shared.ErrInvalidCookie)
	})

	t.Run("Other Secret", func(t *testing.T) {
		other, err := NewCookieSigner("other-secret")
		require.NoError(t, err)
		token, err := other.Sign("01HZYX", time.Minute)
		require.NoError(t, err)
		_, err = signer.Verify(token)
		assert.ErrorIs(t, err, shared.ErrInvalidCookie)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := signer.Verify("not-a-token")
		assert.ErrorIs(t, err, shared.ErrInvalidCookie)
	})
}

func TestGenerateSecret(t *testing.T) {
	a, err := GenerateSecret()
	require.NoError(t, err)
	b, err := GenerateSecret()
	require.NoError(t, err)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

func TestTheme(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "light", Theme(req))

	req.AddCookie(&http.Cookie{Name: ThemeCookie, Value: "purple"})
	assert.Equal(t, "light", Theme(req))

	rr := httptest.NewRecorder()
	assert.Equal(t, "dark", ToggleTheme(rr, req))
	c := rr.Result().Cookies()
	require.Len(t, c, 1)
	assert.Equal(t, "dark", c[0].Value)
	assert.Equal(t, "/", c[0].Path)
}
