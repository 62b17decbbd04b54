package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"sort"
	"strings"
)

// UploadForm is the multipart payload of an upload: one file part plus plain
// form fields.
type UploadForm struct {
	FieldName   string // defaults to "file"
	FileName    string
	ContentType string
	Size        int64 // -1 when unknown; progress is only reported for known sizes
	File        io.Reader
	Fields      map[string]string
}

// Progress is a byte-level upload progress event.
type Progress struct {
	Sent    int64   `json:"sent"`
	Total   int64   `json:"total"`
	Percent float64 `json:"percent"`
}

// ProgressFunc is called from the transport goroutine as the body is sent.
type ProgressFunc func(Progress)

// Upload sends form as multipart/form-data to endpoint and decodes a
// successful body into out. onProgress may be nil.
func (c *Client) Upload(ctx context.Context, endpoint string, form UploadForm, onProgress ProgressFunc, out interface{}) error {
	prefix, suffix, contentType, err := multipartFrame(form)
	if err != nil {
		return err
	}

	var body io.Reader = io.MultiReader(bytes.NewReader(prefix), form.File, bytes.NewReader(suffix))
	total := int64(-1)
	if form.Size >= 0 {
		total = int64(len(prefix)) + form.Size + int64(len(suffix))
	}
	if onProgress != nil && total > 0 {
		body = &progressReader{r: body, total: total, fn: onProgress}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.apiPrefix+endpoint, body)
	if err != nil {
		return fmt.Errorf("build upload request: %w", err)
	}
	if total >= 0 {
		req.ContentLength = total
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	return c.do(c.uploadHTTP, req, endpoint, out, "Upload failed")
}

// multipartFrame renders everything of the multipart body except the file
// content: the fields and file part header (prefix) and the closing boundary
// (suffix). Knowing both lets the request carry an exact Content-Length.
func multipartFrame(form UploadForm) (prefix, suffix []byte, contentType string, err error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(form.Fields))
	for k := range form.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := mw.WriteField(k, form.Fields[k]); err != nil {
			return nil, nil, "", fmt.Errorf("write field %s: %w", k, err)
		}
	}

	fieldName := form.FieldName
	if fieldName == "" {
		fieldName = "file"
	}
	ct := form.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(fieldName), escapeQuotes(form.FileName)))
	h.Set("Content-Type", ct)
	if _, err := mw.CreatePart(h); err != nil {
		return nil, nil, "", fmt.Errorf("create file part: %w", err)
	}
	prefix = append([]byte(nil), buf.Bytes()...)
	buf.Reset()

	if err := mw.Close(); err != nil {
		return nil, nil, "", fmt.Errorf("close multipart: %w", err)
	}
	suffix = append([]byte(nil), buf.Bytes()...)

	return prefix, suffix, mw.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// progressReader reports every read against a known total.
type progressReader struct {
	r     io.Reader
	sent  int64
	total int64
	fn    ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		p.fn(Progress{
			Sent:    p.sent,
			Total:   p.total,
			Percent: float64(p.sent) * 100 / float64(p.total),
		})
	}
	return n, err
}
