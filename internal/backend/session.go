package backend

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// LegacyTokenCookie carries the old bearer token some browsers still hold.
const LegacyTokenCookie = "authToken"

type sessionKey struct{}

// Session holds the backend credentials of one browser for the duration of a
// request. Cookies the backend sets are absorbed so later calls in the same
// request see them, and are queued for relay to the browser.
// A Session is safe for concurrent use by parallel backend calls.
type Session struct {
	mu       sync.Mutex
	cookies  map[string]*http.Cookie
	token    string
	received []*http.Cookie
	relayed  int
}

// NewSession collects the forwarded cookies named in names, plus the legacy
// token cookie, from the browser request.
func NewSession(r *http.Request, names []string) *Session {
	s := &Session{cookies: make(map[string]*http.Cookie)}
	for _, name := range names {
		if c, err := r.Cookie(name); err == nil && c.Value != "" {
			s.cookies[name] = &http.Cookie{Name: c.Name, Value: c.Value}
		}
	}
	if c, err := r.Cookie(LegacyTokenCookie); err == nil {
		s.token = c.Value
	}
	return s
}

// WithSession returns a context carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the session in ctx, or nil.
func SessionFromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}

// apply adds the session's cookies and bearer token to an outgoing request.
func (s *Session) apply(req *http.Request) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.cookies {
		req.AddCookie(c)
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
}

// absorb records the cookies set by a backend response.
func (s *Session) absorb(resp *http.Response) {
	if s == nil {
		return
	}
	set := resp.Cookies()
	if len(set) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for _, c := range set {
		s.received = append(s.received, c)
		expired := c.MaxAge < 0 || (!c.Expires.IsZero() && c.Expires.Before(now)) || c.Value == ""
		if expired {
			delete(s.cookies, c.Name)
			continue
		}
		s.cookies[c.Name] = &http.Cookie{Name: c.Name, Value: c.Value}
	}
}

// Cookie returns the current value of a forwarded cookie.
func (s *Session) Cookie(name string) (string, bool) {
	if s == nil {
		return "", false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cookies[name]
	if !ok {
		return "", false
	}
	return c.Value, true
}

// HasCredentials reports whether any cookie or token will be sent.
func (s *Session) HasCredentials() bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cookies) > 0 || s.token != ""
}

// Relay writes the cookies received since the last call as Set-Cookie
// headers. The backend's Domain is dropped so the cookie binds to this host.
func (s *Session) Relay(w http.ResponseWriter) {
	if s == nil {
		return
	}
	s.mu.Lock()
	pending := s.received[s.relayed:]
	s.relayed = len(s.received)
	s.mu.Unlock()

	for _, c := range pending {
		out := *c
		out.Domain = ""
		if out.Path == "" {
			out.Path = "/"
		}
		http.SetCookie(w, &out)
	}
}
