// filepath: internal/services/upload.go
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"sync"

	"snapstream/internal/backend"
	"snapstream/internal/logging"
	"snapstream/internal/models"
	"snapstream/internal/toast"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/semaphore"
)

// UploadState is the lifecycle of the upload page.
type UploadState string

const (
	UploadEmpty     UploadState = "empty"
	UploadSelected  UploadState = "fileSelected"
	UploadUploading UploadState = "uploading"
	UploadDone      UploadState = "done"
)

// User-facing upload messages.
const (
	MsgInvalidType      = "Invalid file type. Allowed: JPG, PNG, GIF, MP4, MP3, WAV"
	MsgNoSelection      = "Please select a file to upload"
	MsgUploadSucceeded  = "Upload Successful! Redirecting to My Media..."
	MsgUploadMalformed  = "Upload failed (invalid server response)"
	MsgUploadServerDown = "Server error. Please try again."
	MsgUploadFailed     = "Upload failed"
	MsgUploadBusy       = "An upload is already in progress"
)

// AllowedUploadTypes is the MIME allow-list for uploads.
var AllowedUploadTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"video/mp4":  true,
	"audio/mpeg": true,
	"audio/wav":  true,
}

// Selection is a file picked for upload.
type Selection struct {
	Name        string
	Size        int64
	ContentType string
	Body        io.Reader
}

// Extension returns the lower-cased extension of the file name, without dot.
func (s Selection) Extension() string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(s.Name)), ".")
}

// NormalizeContentType returns the lower-cased media type of the type the
// browser declared, without parameters. The file name never decides the
// type: an empty or generic declaration stays outside the allow-list.
func NormalizeContentType(declared string) string {
	mt, _, err := mime.ParseMediaType(declared)
	if err != nil {
		return ""
	}
	return mt
}

// Rejection explains why a pick or submission was refused.
type Rejection struct {
	Reason  error
	Message string
}

func (r *Rejection) Error() string { return r.Message }

func (r *Rejection) Unwrap() error { return r.Reason }

// RejectionMessage returns the user-facing text of a Rejection, or fallback.
func RejectionMessage(err error, fallback string) string {
	var r *Rejection
	if errors.As(err, &r) {
		return r.Message
	}
	return fallback
}

// TooLargeMessage is the rejection text for files above maxBytes.
func TooLargeMessage(maxBytes int64) string {
	return "File too large. Maximum size is " + SizeLimitLabel(maxBytes)
}

// SizeLimitLabel renders a limit the way the page states it, e.g. "100MB".
func SizeLimitLabel(maxBytes int64) string {
	const mb = 1024 * 1024
	if maxBytes > 0 && maxBytes%mb == 0 {
		return fmt.Sprintf("%dMB", maxBytes/mb)
	}
	return humanize.IBytes(uint64(maxBytes))
}

// Preview describes the selected file.
type Preview struct {
	Name     string
	Size     string
	Kind     string // upper-cased major MIME type, e.g. "IMAGE"
	Icon     string // media group used to pick the icon
	MimeType string
}

// UploadService validates picks and bounds concurrent uploads to the backend.
type UploadService struct {
	api      UploadAPI
	maxBytes int64
	sem      *semaphore.Weighted
}

// NewUploadService creates a new UploadService. maxConcurrent bounds how many
// uploads this process streams to the backend at once.
func NewUploadService(api UploadAPI, maxBytes, maxConcurrent int64) *UploadService {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &UploadService{api: api, maxBytes: maxBytes, sem: semaphore.NewWeighted(maxConcurrent)}
}

// MaxBytes returns the configured size limit.
func (s *UploadService) MaxBytes() int64 { return s.maxBytes }

// Validate applies the pick rules: MIME allow-list, then size. A file of
// exactly the limit is accepted.
func (s *UploadService) Validate(contentType string, size int64) error {
	if !AllowedUploadTypes[NormalizeContentType(contentType)] {
		return &Rejection{Reason: ErrUnsupported, Message: MsgInvalidType}
	}
	if size > s.maxBytes {
		return &Rejection{Reason: ErrTooLarge, Message: TooLargeMessage(s.maxBytes)}
	}
	return nil
}

// NewUpload returns an upload controller in the empty state.
func (s *UploadService) NewUpload() *Upload {
	return &Upload{svc: s, state: UploadEmpty}
}

// Upload is the controller of one upload page. It holds at most one selection.
type Upload struct {
	svc *UploadService

	mu        sync.Mutex
	state     UploadState
	selection *Selection
	percent   float64
	lastError string
	redirect  string
}

// State returns the current state.
func (u *Upload) State() UploadState {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state
}

// Percent returns the last reported progress, 0 when hidden.
func (u *Upload) Percent() float64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.percent
}

// LastError is the message of the last failed submission.
func (u *Upload) LastError() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.lastError
}

// Redirect is where the page goes after a successful upload.
func (u *Upload) Redirect() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.redirect
}

// Select validates a pick and replaces the current selection. A rejected
// pick leaves the controller exactly as it was.
func (u *Upload) Select(sel Selection) error {
	sel.ContentType = NormalizeContentType(sel.ContentType)
	if err := u.svc.Validate(sel.ContentType, sel.Size); err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	if u.state == UploadUploading {
		return &Rejection{Reason: ErrInvalidState, Message: MsgUploadBusy}
	}
	u.selection = &sel
	u.state = UploadSelected
	u.lastError = ""
	u.percent = 0
	return nil
}

// Preview describes the selection, or returns false when nothing is selected.
func (u *Upload) Preview() (Preview, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.selection == nil {
		return Preview{}, false
	}
	sel := u.selection
	major := sel.ContentType
	if i := strings.IndexByte(major, '/'); i >= 0 {
		major = major[:i]
	}
	return Preview{
		Name:     sel.Name,
		Size:     humanize.IBytes(uint64(sel.Size)),
		Kind:     strings.ToUpper(major),
		Icon:     GroupOf(sel.Extension()),
		MimeType: sel.ContentType,
	}, true
}

// Submit sends the selection with tags. onProgress receives byte-level
// progress and may be nil. The returned toast is set for every outcome.
func (u *Upload) Submit(ctx context.Context, tags string, onProgress backend.ProgressFunc) (*backend.UploadResult, models.Toast, error) {
	u.mu.Lock()
	switch {
	case u.state == UploadUploading:
		u.mu.Unlock()
		return nil, toast.New(MsgUploadBusy, toast.Warning, ""), ErrInvalidState
	case u.selection == nil:
		u.mu.Unlock()
		return nil, toast.New(MsgNoSelection, toast.Error, ""), ErrNoSelection
	}
	sel := *u.selection
	u.state = UploadUploading
	u.percent = 0
	u.lastError = ""
	u.mu.Unlock()

	if err := u.svc.sem.Acquire(ctx, 1); err != nil {
		return nil, u.fail(fmt.Errorf("%w: %w", backend.ErrNetwork, err)), err
	}
	defer u.svc.sem.Release(1)

	form := backend.UploadForm{
		FileName:    sel.Name,
		ContentType: sel.ContentType,
		Size:        sel.Size,
		File:        sel.Body,
		Fields:      map[string]string{"custom_tags": strings.TrimSpace(tags)},
	}
	res, err := u.svc.api.UploadMedia(ctx, form, func(p backend.Progress) {
		u.mu.Lock()
		u.percent = p.Percent
		u.mu.Unlock()
		if onProgress != nil {
			onProgress(p)
		}
	})
	if err != nil {
		logging.Log.Infof("Upload: '%s' failed: %v", sel.Name, err)
		return nil, u.fail(err), fmt.Errorf("%w: %w", ErrUploadRejected, err)
	}

	u.mu.Lock()
	u.state = UploadDone
	u.percent = 100
	u.redirect = "/media"
	if res != nil && res.Redirect != "" {
		u.redirect = res.Redirect
	}
	u.mu.Unlock()
	if onProgress != nil {
		onProgress(backend.Progress{Sent: sel.Size, Total: sel.Size, Percent: 100})
	}
	return res, toast.New(MsgUploadSucceeded, toast.Success, ""), nil
}

// fail returns the controller to fileSelected with the error recorded and the
// progress hidden.
func (u *Upload) fail(err error) models.Toast {
	msg := UploadFailureMessage(err)
	u.mu.Lock()
	u.state = UploadSelected
	u.percent = 0
	u.lastError = msg
	u.mu.Unlock()
	return toast.New(msg, toast.Error, "")
}

// UploadFailureMessage picks the best available message for a failed upload.
func UploadFailureMessage(err error) string {
	var apiErr *backend.APIError
	switch {
	case errors.As(err, &apiErr):
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return MsgUploadFailed
	case errors.Is(err, backend.ErrMalformedResponse):
		return MsgUploadMalformed
	case backend.IsTransport(err):
		return MsgUploadServerDown
	}
	return MsgUploadFailed
}

// Reset clears the selection and progress.
func (u *Upload) Reset() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.state = UploadEmpty
	u.selection = nil
	u.percent = 0
	u.lastError = ""
	u.redirect = ""
}
