// filepath: internal/api/handlers/upload_handler.go
package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"snapstream/internal/backend"
	"snapstream/internal/logging"
	"snapstream/internal/metrics"
	"snapstream/internal/models"
	"snapstream/internal/progress"
	"snapstream/internal/services"
	"snapstream/internal/toast"
	"snapstream/internal/views"

	"github.com/gorilla/mux"
)

const (
	// uploadFieldLimit bounds the plain form fields sent with a file.
	uploadFieldLimit = 4 << 10
	// multipartSlack covers boundaries and fields on top of the file size.
	multipartSlack = 1 << 20
)

// PreviewResponse describes an accepted pick.
type PreviewResponse struct {
	Name     string `json:"name"`
	Size     string `json:"size"`
	Kind     string `json:"kind"`
	Icon     string `json:"icon"`
	MimeType string `json:"mime_type"`
}

// ValidationResponse is the answer to a pick validation.
type ValidationResponse struct {
	Valid      bool             `json:"valid"`
	Preview    *PreviewResponse `json:"preview,omitempty"`
	Message    string           `json:"message,omitempty"`
	ToastsHTML string           `json:"toasts_html,omitempty"`
}

// acceptList is the value of the file input's accept attribute.
func acceptList() string {
	types := make([]string, 0, len(services.AllowedUploadTypes))
	for t := range services.AllowedUploadTypes {
		types = append(types, t)
	}
	sort.Strings(types)
	return strings.Join(types, ",")
}

// UploadPage renders the upload form with a fresh upload id.
func (h *Handlers) UploadPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "upload", "Upload", "upload", views.UploadPage{
		UploadID: progress.NewUploadID(),
		Accept:   acceptList(),
	})
}

// @Summary Validate a file pick
// @Description Applies the upload rules (type allow-list, then size limit) to a file the user picked, before any bytes are sent.
// @Tags Upload
// @Accept  x-www-form-urlencoded
// @Produce  json
// @Param   name formData string true "File name"
// @Param   type formData string false "MIME type reported by the browser"
// @Param   size formData int true "Size in bytes"
// @Success 200 {object} ValidationResponse "Accepted, with the preview"
// @Failure 422 {object} ValidationResponse "Rejected, with the reason"
// @Router /upload/validate [post]
func (h *Handlers) ValidateUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid form submission")
		return
	}
	size, err := strconv.ParseInt(r.PostForm.Get("size"), 10, 64)
	if err != nil || size < 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid file size")
		return
	}

	u := h.Uploads.NewUpload()
	err = u.Select(services.Selection{
		Name:        r.PostForm.Get("name"),
		Size:        size,
		ContentType: r.PostForm.Get("type"),
	})
	if err != nil {
		msg := services.RejectionMessage(err, services.MsgUploadFailed)
		html, _ := h.fragmentHTML("toasts", []models.Toast{toast.New(msg, toast.Error, "")})
		h.observeUpload(metrics.UploadRejected, 0)
		respondWithJSON(w, http.StatusUnprocessableEntity, ValidationResponse{Message: msg, ToastsHTML: html})
		return
	}

	p, _ := u.Preview()
	respondWithJSON(w, http.StatusOK, ValidationResponse{
		Valid: true,
		Preview: &PreviewResponse{
			Name:     p.Name,
			Size:     p.Size,
			Kind:     p.Kind,
			Icon:     p.Icon,
			MimeType: p.MimeType,
		},
	})
}

// @Summary Upload a file
// @Description Streams the file to the backend. Fields must precede the file part. Progress is published on the websocket of upload_id.
// @Tags Upload
// @Accept  multipart/form-data
// @Produce  json
// @Param   upload_id formData string false "Id from the upload page"
// @Param   custom_tags formData string false "Comma separated tags"
// @Param   size formData int false "Exact file size in bytes"
// @Param   file formData file true "The file"
// @Success 200 {object} FragmentResponse "Toast and redirect to My Media"
// @Failure 413 {object} FragmentResponse "File too large"
// @Failure 422 {object} FragmentResponse "Rejected pick or no file"
// @Router /upload [post]
func (h *Handlers) Upload(w http.ResponseWriter, r *http.Request) {
	maxBytes := h.Uploads.MaxBytes()
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartSlack)

	fields, filePart, err := readUploadFields(r)
	if err != nil {
		logging.Log.Infof("Upload: unreadable multipart body: %v", err)
		h.uploadFailed(w, r, http.StatusBadRequest, fields, toast.New(services.MsgUploadFailed, toast.Error, ""))
		return
	}

	uploadID := fields["upload_id"]
	if !progress.ValidUploadID(uploadID) {
		uploadID = ""
	}

	u := h.Uploads.NewUpload()
	if filePart == nil {
		_, t, err := u.Submit(r.Context(), fields["custom_tags"], nil)
		h.uploadFailed(w, r, statusFor(err), fields, t)
		return
	}

	size := int64(-1)
	if v, err := strconv.ParseInt(fields["size"], 10, 64); err == nil && v >= 0 {
		size = v
	}
	body := &capReader{r: filePart, remaining: maxBytes}
	err = u.Select(services.Selection{
		Name:        filePart.FileName(),
		Size:        size,
		ContentType: filePart.Header.Get("Content-Type"),
		Body:        body,
	})
	if err != nil {
		h.observeUpload(metrics.UploadRejected, 0)
		msg := services.RejectionMessage(err, services.MsgUploadFailed)
		h.uploadFailed(w, r, statusFor(err), fields, toast.New(msg, toast.Error, ""))
		return
	}

	var onProgress backend.ProgressFunc
	if uploadID != "" && h.Progress != nil {
		onProgress = h.Progress.Reporter(uploadID)
	}

	res, t, err := u.Submit(r.Context(), fields["custom_tags"], onProgress)
	if err != nil {
		code := statusFor(err)
		if body.exceeded {
			t = toast.New(services.TooLargeMessage(maxBytes), toast.Error, "")
			code = http.StatusRequestEntityTooLarge
		}
		if uploadID != "" && h.Progress != nil {
			h.Progress.Publish(uploadID, progress.EventFailed, MessageResponse{Message: t.Message})
		}
		h.observeUpload(metrics.UploadFailed, 0)
		h.uploadFailed(w, r, code, fields, t)
		return
	}

	if uploadID != "" && h.Progress != nil {
		h.Progress.Publish(uploadID, progress.EventDone, MessageResponse{Message: t.Message})
	}
	h.observeUpload(metrics.UploadSucceeded, body.read)
	details := map[string]interface{}{"filename": filePart.FileName(), "bytes": body.read}
	if res != nil && res.MediaID != "" {
		details["media_id"] = res.MediaID
	}
	h.audit(r, "media.upload", "Media:"+filePart.FileName(), details)

	h.respondAction(w, r, http.StatusOK, FragmentResponse{
		Toasts:   []models.Toast{t},
		Redirect: u.Redirect(),
		DelayMS:  h.Cfg.Timings.UploadRedirect.Milliseconds(),
	}, u.Redirect())
}

// uploadFailed answers a failed upload. Without the page script the upload
// page is shown again with the error and the typed tags.
func (h *Handlers) uploadFailed(w http.ResponseWriter, r *http.Request, code int, fields map[string]string, t models.Toast) {
	if isFragment(r) {
		h.respondFragment(w, code, FragmentResponse{Toasts: []models.Toast{t}})
		return
	}
	toast.Ensure(r.Context()).Add(t)
	h.render(w, r, code, "upload", "Upload", "upload", views.UploadPage{
		UploadID:  progress.NewUploadID(),
		Accept:    acceptList(),
		Tags:      fields["custom_tags"],
		LastError: t.Message,
	})
}

// readUploadFields reads the plain fields up to the file part, which is
// returned unread. A request without a file part returns a nil part.
func readUploadFields(r *http.Request) (map[string]string, *multipart.Part, error) {
	fields := map[string]string{}
	mr, err := r.MultipartReader()
	if err != nil {
		return fields, nil, err
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return fields, nil, nil
		}
		if err != nil {
			return fields, nil, err
		}
		if part.FormName() == "file" {
			if part.FileName() == "" {
				return fields, nil, nil
			}
			return fields, part, nil
		}
		value, err := io.ReadAll(io.LimitReader(part, uploadFieldLimit))
		if err != nil {
			return fields, nil, err
		}
		fields[part.FormName()] = string(value)
	}
}

// capReader fails once more than remaining bytes are read.
type capReader struct {
	r         io.Reader
	remaining int64
	read      int64
	exceeded  bool
}

func (c *capReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.read += int64(n)
	c.remaining -= int64(n)
	if c.remaining < 0 {
		c.exceeded = true
		return n, services.ErrTooLarge
	}
	return n, err
}

// UploadProgress streams the progress of one upload over a websocket.
func (h *Handlers) UploadProgress(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !progress.ValidUploadID(id) {
		http.NotFound(w, r)
		return
	}
	h.Progress.ServeWs(w, r, id)
}

func (h *Handlers) observeUpload(outcome string, size int64) {
	if h.Metrics != nil {
		h.Metrics.ObserveUpload(outcome, size)
	}
}
