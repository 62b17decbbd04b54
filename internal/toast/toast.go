// Package toast implements transient user feedback messages.
//
// A Container collects the toasts of one page render. It is created lazily on
// the first Push for a request, so pages without feedback render no container.
// Toasts queued before a redirect survive one navigation through a FlashStore.
package toast

import (
	"context"
	"html/template"
	"sync"
	"time"

	"snapstream/internal/models"
)

// Severities understood by the page.
const (
	Success = "success"
	Error   = "error"
	Warning = "warning"
	Info    = "info"
)

// Default timings. The visible window is followed by the exit animation.
const (
	DefaultVisible = 3500 * time.Millisecond
	DefaultExit    = 300 * time.Millisecond
)

var icons = map[string]template.HTML{
	Success: `<svg width="20" height="20" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round"><path d="M22 11.08V12a10 10 0 1 1-5.93-9.14"></path><polyline points="22 4 12 14.01 9 11.01"></polyline></svg>`,
	Error:   `<svg width="20" height="20" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round"><circle cx="12" cy="12" r="10"></circle><line x1="15" y1="9" x2="9" y2="15"></line><line x1="9" y1="9" x2="15" y2="15"></line></svg>`,
	Warning: `<svg width="20" height="20" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round"><path d="M10.29 3.86L1.82 18a2 2 0 0 0 1.71 3h16.94a2 2 0 0 0 1.71-3L13.71 3.86a2 2 0 0 0-3.42 0z"></path><line x1="12" y1="9" x2="12" y2="13"></line><line x1="12" y1="17" x2="12.01" y2="17"></line></svg>`,
	Info:    `<svg width="20" height="20" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round"><circle cx="12" cy="12" r="10"></circle><line x1="12" y1="16" x2="12" y2="12"></line><line x1="12" y1="8" x2="12.01" y2="8"></line></svg>`,
}

// NormalizeSeverity maps unknown severities to Info.
func NormalizeSeverity(severity string) string {
	if _, ok := icons[severity]; ok {
		return severity
	}
	return Info
}

// Icon returns the inline SVG for a severity, defaulting to the info icon.
func Icon(severity string) template.HTML {
	return icons[NormalizeSeverity(severity)]
}

// New builds a toast with a normalized severity.
func New(message, severity, title string) models.Toast {
	return models.Toast{Message: message, Severity: NormalizeSeverity(severity), Title: title}
}

// Container is the list of toasts shown on one page.
type Container struct {
	mu     sync.Mutex
	toasts []models.Toast
}

// Push appends a toast.
func (c *Container) Push(message, severity, title string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.toasts = append(c.toasts, New(message, severity, title))
}

// Add appends already built toasts.
func (c *Container) Add(toasts ...models.Toast) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range toasts {
		c.toasts = append(c.toasts, New(t.Message, t.Severity, t.Title))
	}
}

// Toasts returns a copy of the queued toasts.
func (c *Container) Toasts() []models.Toast {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Toast(nil), c.toasts...)
}

// Len returns the number of queued toasts.
func (c *Container) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.toasts)
}

type holderKey struct{}

// holder owns the per-request container slot.
type holder struct {
	mu        sync.Mutex
	container *Container
}

// Attach prepares ctx to hold a page container. No container exists yet.
func Attach(ctx context.Context) context.Context {
	return context.WithValue(ctx, holderKey{}, &holder{})
}

// Ensure returns the page container, creating it on first use. Without
// Attach it returns a fresh container that is not shared.
func Ensure(ctx context.Context) *Container {
	h, ok := ctx.Value(holderKey{}).(*holder)
	if !ok {
		return &Container{}
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.container == nil {
		h.container = &Container{}
	}
	return h.container
}

// Current returns the page container, or nil when nothing was pushed.
func Current(ctx context.Context) *Container {
	h, ok := ctx.Value(holderKey{}).(*holder)
	if !ok {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.container
}

// Push adds a toast to the page container of ctx.
func Push(ctx context.Context, message, severity, title string) {
	Ensure(ctx).Push(message, severity, title)
}
