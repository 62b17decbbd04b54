package toast

import (
	"net/http"
	"sync"
	"time"

	"snapstream/internal/logging"
	"snapstream/internal/models"

	"github.com/oklog/ulid/v2"
	"github.com/patrickmn/go-cache"
)

// FlashCookie names the cookie that points at queued flash toasts.
const FlashCookie = "snapstream_flash"

// Signer protects the flash id against tampering.
type Signer interface {
	Sign(subject string, ttl time.Duration) (string, error)
	Verify(token string) (string, error)
}

// FlashStore keeps toasts across one redirect. The toasts live in memory; the
// browser only holds a signed id.
type FlashStore struct {
	mu     sync.Mutex
	cache  *cache.Cache
	signer Signer
	ttl    time.Duration
	secure bool
}

// NewFlashStore creates a store whose entries expire after ttl.
func NewFlashStore(signer Signer, ttl time.Duration, secureCookie bool) *FlashStore {
	return &FlashStore{
		cache:  cache.New(ttl, 2*ttl),
		signer: signer,
		ttl:    ttl,
		secure: secureCookie,
	}
}

// Queue stores toasts for the next page the browser loads.
func (s *FlashStore) Queue(w http.ResponseWriter, r *http.Request, toasts ...models.Toast) {
	if len(toasts) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.idFromRequest(r)
	if id == "" {
		id = ulid.Make().String()
	}

	var queued []models.Toast
	if v, ok := s.cache.Get(id); ok {
		queued = v.([]models.Toast)
	}
	for _, t := range toasts {
		queued = append(queued, New(t.Message, t.Severity, t.Title))
	}
	s.cache.Set(id, queued, cache.DefaultExpiration)

	token, err := s.signer.Sign(id, s.ttl)
	if err != nil {
		logging.Log.Errorf("flash: failed to sign id: %v", err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Take returns and forgets the toasts queued for this browser.
func (s *FlashStore) Take(w http.ResponseWriter, r *http.Request) []models.Toast {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.idFromRequest(r)
	if id == "" {
		return nil
	}
	v, ok := s.cache.Get(id)
	s.cache.Delete(id)
	http.SetCookie(w, &http.Cookie{Name: FlashCookie, Value: "", Path: "/", MaxAge: -1})
	if !ok {
		return nil
	}
	return v.([]models.Toast)
}

func (s *FlashStore) idFromRequest(r *http.Request) string {
	c, err := r.Cookie(FlashCookie)
	if err != nil || c.Value == "" {
		return ""
	}
	id, err := s.signer.Verify(c.Value)
	if err != nil {
		logging.Log.Debugf("flash: ignoring cookie: %v", err)
		return ""
	}
	return id
}
