// filepath: internal/services/upload_test.go
package services_test

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"snapstream/internal/backend"
	"snapstream/internal/services"
	"snapstream/internal/services/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const hundredMB = 100 * 1024 * 1024

func newUploadService(api services.UploadAPI) *services.UploadService {
	return services.NewUploadService(api, hundredMB, 2)
}

func TestUploadValidate(t *testing.T) {
	svc := newUploadService(new(mocks.MockBackend))

	tests := []struct {
		name        string
		file        string
		contentType string
		size        int64
		reason      error
		message     string
	}{
		{"jpeg ok", "a.jpg", "image/jpeg", 10, nil, ""},
		{"exactly the limit", "a.mp4", "video/mp4", hundredMB, nil, ""},
		{"one byte over", "a.mp4", "video/mp4", hundredMB + 1, services.ErrTooLarge, "File too large. Maximum size is 100MB"},
		{"pdf", "a.pdf", "application/pdf", 10, services.ErrUnsupported, services.MsgInvalidType},
		{"parameters and case are ignored", "a.wav", "Audio/WAV; codecs=1", 10, nil, ""},
		{"missing type is not guessed from the name", "a.wav", "", 10, services.ErrUnsupported, services.MsgInvalidType},
		{"generic type is not guessed from the name", "a.mp3", "application/octet-stream", 10, services.ErrUnsupported, services.MsgInvalidType},
		{"generic type with image name", "a.jpg", "application/octet-stream", 10, services.ErrUnsupported, services.MsgInvalidType},
		{"malformed type", "a.png", "image/", 10, services.ErrUnsupported, services.MsgInvalidType},
		{"declared type wins over extension", "a.jpg", "text/plain", 10, services.ErrUnsupported, services.MsgInvalidType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Validate(tt.contentType, tt.size)
			if tt.reason == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.reason)
			assert.Equal(t, tt.message, services.RejectionMessage(err, ""))
		})
	}
}

func TestSizeLimitLabel(t *testing.T) {
	assert.Equal(t, "100MB", services.SizeLimitLabel(hundredMB))
	assert.Equal(t, "1.5 KiB", services.SizeLimitLabel(1536))
}

func TestUpload_SelectAndPreview(t *testing.T) {
	u := newUploadService(new(mocks.MockBackend)).NewUpload()
	assert.Equal(t, services.UploadEmpty, u.State())
	_, ok := u.Preview()
	assert.False(t, ok)

	require.NoError(t, u.Select(services.Selection{Name: "photo.png", Size: 2048, ContentType: "image/png", Body: strings.NewReader("x")}))
	p, ok := u.Preview()
	require.True(t, ok)
	assert.Equal(t, "photo.png", p.Name)
	assert.Equal(t, "2.0 KiB", p.Size)
	assert.Equal(t, "IMAGE", p.Kind)
	assert.Equal(t, "image", p.Icon)

	// A rejected pick keeps the previous selection.
	err := u.Select(services.Selection{Name: "doc.pdf", Size: 1, ContentType: "application/pdf"})
	assert.ErrorIs(t, err, services.ErrUnsupported)
	assert.Equal(t, services.UploadSelected, u.State())
	p, _ = u.Preview()
	assert.Equal(t, "photo.png", p.Name)

	u.Reset()
	assert.Equal(t, services.UploadEmpty, u.State())
	assert.Zero(t, u.Percent())
}

func TestUpload_SubmitWithoutSelection(t *testing.T) {
	api := new(mocks.MockBackend)
	u := newUploadService(api).NewUpload()

	_, msg, err := u.Submit(testContext(t), "", nil)
	assert.ErrorIs(t, err, services.ErrNoSelection)
	assert.Equal(t, services.MsgNoSelection, msg.Message)
	api.AssertNotCalled(t, "UploadMedia", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpload_SubmitSuccess(t *testing.T) {
	api := new(mocks.MockBackend)
	api.On("UploadMedia", mock.Anything, "clip.mp4", "holiday, beach").
		Return(&backend.UploadResult{Result: backend.Result{Success: true}, MediaID: "m1"}, nil)
	u := newUploadService(api).NewUpload()
	require.NoError(t, u.Select(services.Selection{Name: "clip.mp4", Size: 5, ContentType: "video/mp4", Body: strings.NewReader("12345")}))

	var mu sync.Mutex
	var last float64
	res, msg, err := u.Submit(testContext(t), " holiday, beach ", func(p backend.Progress) {
		mu.Lock()
		last = p.Percent
		mu.Unlock()
	})
	require.NoError(t, err)
	assert.Equal(t, "m1", res.MediaID)
	assert.Equal(t, services.MsgUploadSucceeded, msg.Message)
	assert.Equal(t, services.UploadDone, u.State())
	assert.Equal(t, float64(100), u.Percent())
	assert.Equal(t, float64(100), last)
	assert.Equal(t, "/media", u.Redirect())
}

func TestUpload_SubmitFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"server message", &backend.APIError{Status: 400, Message: "Quota exceeded"}, "Quota exceeded"},
		{"server without message", &backend.APIError{Status: 500}, services.MsgUploadFailed},
		{"malformed body", backend.ErrMalformedResponse, services.MsgUploadMalformed},
		{"network", backend.ErrNetwork, services.MsgUploadServerDown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := new(mocks.MockBackend)
			api.On("UploadMedia", mock.Anything, "a.gif", "").Return(nil, tt.err)
			u := newUploadService(api).NewUpload()
			require.NoError(t, u.Select(services.Selection{Name: "a.gif", Size: 3, ContentType: "image/gif", Body: strings.NewReader("gif")}))

			_, msg, err := u.Submit(testContext(t), "", nil)
			assert.ErrorIs(t, err, services.ErrUploadRejected)
			assert.True(t, errors.Is(err, tt.err) || errors.As(err, new(*backend.APIError)))
			assert.Equal(t, tt.want, msg.Message)
			assert.Equal(t, services.UploadSelected, u.State())
			assert.Equal(t, tt.want, u.LastError())
			assert.Zero(t, u.Percent())
		})
	}
}
