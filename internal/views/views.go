// Package views renders the SnapStream pages and the fragments the page
// script swaps in, using html/template.
//
// Every page shares templates/layout.html and the partials; a page file only
// defines "content" and, optionally, "scripts". Fragments are partials that
// handlers can also render on their own.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/url"
	"path"
	"strings"
	"time"

	"snapstream/internal/config"
	"snapstream/internal/models"
	"snapstream/internal/services"
	"snapstream/internal/services/auth"
	"snapstream/internal/toast"

	"github.com/dustin/go-humanize"
)

//go:embed templates
var templateFS embed.FS

// UI carries the client-side timings and limits. They are rendered as data
// attributes so the page script never hard-codes them.
type UI struct {
	ToastVisibleMS   int64
	ToastExitMS      int64
	AuthRedirectMS   int64
	UploadRedirectMS int64
	LogoutRedirectMS int64
	SkeletonCount    int
	MaxUploadBytes   int64
	MaxUploadLabel   string
}

// UIFromConfig builds the UI settings from the parsed configuration.
func UIFromConfig(cfg *config.Config) UI {
	return UI{
		ToastVisibleMS:   cfg.Timings.ToastVisible.Milliseconds(),
		ToastExitMS:      cfg.Timings.ToastExit.Milliseconds(),
		AuthRedirectMS:   cfg.Timings.AuthRedirect.Milliseconds(),
		UploadRedirectMS: cfg.Timings.UploadRedirect.Milliseconds(),
		LogoutRedirectMS: cfg.Timings.LogoutRedirect.Milliseconds(),
		SkeletonCount:    cfg.UI.SkeletonCount,
		MaxUploadBytes:   cfg.MaxUploadSizeBytes,
		MaxUploadLabel:   services.SizeLimitLabel(cfg.MaxUploadSizeBytes),
	}
}

// Page is the data every page template receives.
type Page struct {
	Title  string
	Active string // nav entry to highlight
	Nav    auth.Nav
	Theme  string
	Toasts []models.Toast
	UI     UI
	Data   interface{}
}

// Page payloads.
type (
	AuthPage struct {
		Form *services.AuthForm
	}
	DashboardPage struct {
		Panels *services.DashboardView // nil renders the skeleton
	}
	UploadPage struct {
		UploadID  string
		Accept    string
		Tags      string
		Preview   *services.Preview
		LastError string
	}
	MediaPage struct {
		Gallery *services.Gallery
	}
	MediaDetailPage struct {
		Detail *models.MediaDetail
		Group  string
		Error  string
	}
	NotificationsPage struct {
		List *services.NotificationsView // nil renders the skeleton
	}
	ProfilePage struct {
		User   *models.User
		Errors services.FieldErrors
	}
	ErrorPage struct {
		Status  int
		Message string
	}
)

// Renderer holds the parsed templates.
type Renderer struct {
	pages     map[string]*template.Template
	fragments *template.Template
	ui        UI
}

// New parses every page and fragment.
func New(ui UI) (*Renderer, error) {
	funcs := templateFuncs()

	fragments, err := template.New("fragments").Funcs(funcs).ParseFS(templateFS, "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse partials: %w", err)
	}

	pageFiles, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	pages := make(map[string]*template.Template, len(pageFiles))
	for _, file := range pageFiles {
		name := strings.TrimSuffix(path.Base(file), ".html")
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html", "templates/partials/*.html", file)
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		pages[name] = t
	}

	return &Renderer{pages: pages, fragments: fragments, ui: ui}, nil
}

// UI returns the settings passed to New.
func (r *Renderer) UI() UI { return r.ui }

// Render writes a full page. The output is buffered so a template error
// never leaves a half-written page.
func (r *Renderer) Render(w io.Writer, page string, p Page) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	p.UI = r.ui
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		return fmt.Errorf("render page %s: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Fragment writes a single partial.
func (r *Renderer) Fragment(w io.Writer, name string, data interface{}) error {
	var buf bytes.Buffer
	if err := r.fragments.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("render fragment %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// FragmentString renders a partial for embedding in a JSON response.
func (r *Renderer) FragmentString(name string, data interface{}) (string, error) {
	var sb strings.Builder
	if err := r.Fragment(&sb, name, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}

var mediaIcons = map[string]template.HTML{
	services.MediaImage: `<svg width="20" height="20" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round"><rect x="3" y="3" width="18" height="18" rx="2" ry="2"></rect><circle cx="8.5" cy="8.5" r="1.5"></circle><polyline points="21 15 16 10 5 21"></polyline></svg>`,
	services.MediaVideo: `<svg width="20" height="20" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round"><polygon points="23 7 16 12 23 17 23 7"></polygon><rect x="1" y="5" width="15" height="14" rx="2" ry="2"></rect></svg>`,
	services.MediaAudio: `<svg width="20" height="20" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round"><path d="M9 18V5l12-2v13"></path><circle cx="6" cy="18" r="3"></circle><circle cx="18" cy="16" r="3"></circle></svg>`,
}

// MediaIcon returns the icon of a media group, defaulting to the image icon.
func MediaIcon(group string) template.HTML {
	if icon, ok := mediaIcons[group]; ok {
		return icon
	}
	return mediaIcons[services.MediaImage]
}

// FormatSizeKB renders a size reported in kilobytes.
func FormatSizeKB(kb float64) string {
	if kb <= 0 {
		return "0 B"
	}
	return humanize.IBytes(uint64(kb * 1024))
}

// RelativeTime renders a backend timestamp as "3 hours ago", or the raw
// value when it cannot be parsed.
func RelativeTime(ts string) string {
	for _, layout := range []string{models.TimeLayout, "2006-01-02 15:04"} {
		if t, err := time.ParseInLocation(layout, ts, time.Local); err == nil {
			return humanize.Time(t)
		}
	}
	return ts
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"toastIcon":   toast.Icon,
		"mediaIcon":   MediaIcon,
		"mediaType":   services.MediaType,
		"groupOf":     services.GroupOf,
		"badge":       services.StatusBadgeClass,
		"sizeKB":      FormatSizeKB,
		"relative":    RelativeTime,
		"upper":       strings.ToUpper,
		"percent":     func(f float64) string { return fmt.Sprintf("%.1f%%", f) },
		"join":        strings.Join,
		"pathEscape":  url.PathEscape,
		"seq":         seq,
		"fieldError":  fieldError,
		"commaNumber": func(n int) string { return humanize.Comma(int64(n)) },
	}
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func fieldError(errs services.FieldErrors, field string) string {
	if errs == nil {
		return ""
	}
	return errs[field]
}
