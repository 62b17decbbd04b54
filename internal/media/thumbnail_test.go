// filepath: internal/media/thumbnail_test.go
package media

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestImage encodes a solid PNG of the given size.
func createTestImage(t *testing.T, width, height int) []byte {
	t.Helper()
	if width <= 0 || height <= 0 {
		t.Fatalf("createTestImage helper: invalid dimensions %dx%d", width, height)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	blue := color.RGBA{0, 0, 255, 255}
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, blue)
		}
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestCreateThumbnail(t *testing.T) {
	testCases := []struct {
		name           string
		origWidth      int
		origHeight     int
		expectedWidth  int
		expectedHeight int
	}{
		{"Landscape (600x400)", 600, 400, 200, 133},
		{"Portrait (400x600)", 400, 600, 133, 200},
		{"Square (500x500)", 500, 500, 200, 200},
		{"Small (100x50) does not scale up", 100, 50, 100, 50},
		{"Small portrait (50x100) does not scale up", 50, 100, 50, 100},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			err := CreateThumbnail(bytes.NewReader(createTestImage(t, tc.origWidth, tc.origHeight)), &out)
			require.NoError(t, err)

			thumb, format, err := image.Decode(&out)
			require.NoError(t, err)
			assert.Equal(t, "jpeg", format, "Thumbnail was not encoded as JPEG")
			assert.Equal(t, tc.expectedWidth, thumb.Bounds().Dx(), "Thumbnail width is incorrect")
			assert.Equal(t, tc.expectedHeight, thumb.Bounds().Dy(), "Thumbnail height is incorrect")
		})
	}
}

func TestCreateThumbnail_InvalidData(t *testing.T) {
	var out bytes.Buffer
	err := CreateThumbnail(bytes.NewBufferString("this is not an image"), &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not decode image for thumbnail")
	assert.Zero(t, out.Len())
}

func TestThumbnailCache(t *testing.T) {
	cache := NewThumbnailCache(time.Minute)
	src := createTestImage(t, 300, 300)
	var fetches int32

	fetch := func(ctx context.Context) (io.ReadCloser, error) {
		atomic.AddInt32(&fetches, 1)
		return io.NopCloser(bytes.NewReader(src)), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := cache.Get(testContext(t), "a.png", fetch)
			assert.NoError(t, err)
			assert.NotEmpty(t, data)
		}()
	}
	wg.Wait()

	_, err := cache.Get(testContext(t), "a.png", fetch)
	require.NoError(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(&fetches), int32(4))
	assert.Equal(t, 1, cache.Len())

	before := atomic.LoadInt32(&fetches)
	_, err = cache.Get(testContext(t), "a.png", fetch)
	require.NoError(t, err)
	assert.Equal(t, before, atomic.LoadInt32(&fetches), "cached thumbnail should not be fetched again")
}

func TestThumbnailCache_FetchError(t *testing.T) {
	cache := NewThumbnailCache(time.Minute)
	boom := errors.New("backend down")

	_, err := cache.Get(testContext(t), "x.jpg", func(ctx context.Context) (io.ReadCloser, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, cache.Len())
}

func TestThumbnailCache_CallerLeavesSharedRender(t *testing.T) {
	cache := NewThumbnailCache(time.Minute)
	src := createTestImage(t, 120, 80)
	started := make(chan struct{})
	release := make(chan struct{})
	var fetchErr error
	var fetches int32

	fetch := func(ctx context.Context) (io.ReadCloser, error) {
		atomic.AddInt32(&fetches, 1)
		close(started)
		<-release
		fetchErr = ctx.Err()
		return io.NopCloser(bytes.NewReader(src)), nil
	}

	first, cancel := context.WithCancel(testContext(t))
	done := make(chan error, 1)
	go func() {
		_, err := cache.Get(first, "u1/m1", fetch)
		done <- err
	}()

	<-started
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	close(release)
	data, err := cache.Get(testContext(t), "u1/m1", fetch)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.NoError(t, fetchErr, "the shared render must outlive the caller that started it")
	assert.Equal(t, int32(1), atomic.LoadInt32(&fetches))
}

func TestThumbnailCache_ForgetAndUnkeyed(t *testing.T) {
	cache := NewThumbnailCache(time.Minute)
	src := createTestImage(t, 50, 50)
	var fetches int32
	fetch := func(ctx context.Context) (io.ReadCloser, error) {
		atomic.AddInt32(&fetches, 1)
		return io.NopCloser(bytes.NewReader(src)), nil
	}

	_, err := cache.Get(testContext(t), "u1/m1", fetch)
	require.NoError(t, err)
	cache.Forget("u1/m1")
	assert.Zero(t, cache.Len())
	_, err = cache.Get(testContext(t), "u1/m1", fetch)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&fetches))

	for i := 0; i < 2; i++ {
		_, err = cache.Get(testContext(t), "", fetch)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(4), atomic.LoadInt32(&fetches), "an empty key is never cached")
	assert.Equal(t, 1, cache.Len())
	cache.Forget("")
}
