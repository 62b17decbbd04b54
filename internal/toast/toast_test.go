package toast

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"snapstream/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSeverity(t *testing.T) {
	for _, s := range []string{Success, Error, Warning, Info} {
		assert.Equal(t, s, NormalizeSeverity(s))
	}
	assert.Equal(t, Info, NormalizeSeverity(""))
	assert.Equal(t, Info, NormalizeSeverity("fatal"))
	assert.Equal(t, Icon(Info), Icon("fatal"))
}

func TestContainer_LazyPerRequest(t *testing.T) {
	ctx := Attach(context.Background())
	assert.Nil(t, Current(ctx))

	Push(ctx, "Saved", Success, "")
	Push(ctx, "Careful", "shout", "Heads up")

	c := Current(ctx)
	require.NotNil(t, c)
	assert.Same(t, c, Ensure(ctx))
	assert.Equal(t, []models.Toast{
		{Message: "Saved", Severity: Success},
		{Message: "Careful", Severity: Info, Title: "Heads up"},
	}, c.Toasts())
}

func TestContainer_WithoutAttach(t *testing.T) {
	ctx := context.Background()
	Push(ctx, "lost", Error, "")
	assert.Nil(t, Current(ctx))
	assert.NotSame(t, Ensure(ctx), Ensure(ctx))

	var c *Container
	assert.Zero(t, c.Len())
	assert.Nil(t, c.Toasts())
}

func TestContainer_ConcurrentPush(t *testing.T) {
	ctx := Attach(context.Background())
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Push(ctx, "x", Info, "")
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, Current(ctx).Len())
}

// prefixSigner stands in for the cookie signer.
type prefixSigner struct{}

func (prefixSigner) Sign(subject string, _ time.Duration) (string, error) {
	return "signed." + subject, nil
}

func (prefixSigner) Verify(token string) (string, error) {
	if !strings.HasPrefix(token, "signed.") {
		return "", errors.New("bad signature")
	}
	return strings.TrimPrefix(token, "signed."), nil
}

func flashCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == FlashCookie {
			return c
		}
	}
	require.FailNow(t, "flash cookie not set")
	return nil
}

func TestFlashStore_SurvivesOneRedirect(t *testing.T) {
	store := NewFlashStore(prefixSigner{}, time.Minute, true)

	rr := httptest.NewRecorder()
	store.Queue(rr, httptest.NewRequest(http.MethodPost, "/login", nil), New("Login successful", Success, ""))
	cookie := flashCookie(t, rr)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, 60, cookie.MaxAge)

	// A second queue on the same browser appends.
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()
	store.Queue(rr, req, New("Welcome", Info, ""))
	assert.Equal(t, cookie.Value, flashCookie(t, rr).Value)

	rr = httptest.NewRecorder()
	got := store.Take(rr, req)
	require.Len(t, got, 2)
	assert.Equal(t, "Login successful", got[0].Message)
	assert.Equal(t, "Welcome", got[1].Message)
	assert.Equal(t, -1, flashCookie(t, rr).MaxAge)

	assert.Empty(t, store.Take(httptest.NewRecorder(), req))
}

func TestFlashStore_RejectsTamperedCookie(t *testing.T) {
	store := NewFlashStore(prefixSigner{}, time.Minute, false)

	rr := httptest.NewRecorder()
	store.Queue(rr, httptest.NewRequest(http.MethodPost, "/", nil), New("secret", Success, ""))
	id := strings.TrimPrefix(flashCookie(t, rr).Value, "signed.")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: FlashCookie, Value: id})
	assert.Empty(t, store.Take(httptest.NewRecorder(), req))
}

func TestFlashStore_QueueNothing(t *testing.T) {
	store := NewFlashStore(prefixSigner{}, time.Minute, false)
	rr := httptest.NewRecorder()
	store.Queue(rr, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Empty(t, rr.Result().Cookies())
}
