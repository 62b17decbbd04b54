// filepath: internal/media/thumbnail.go
package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"time"

	"snapstream/internal/logging"

	"github.com/disintegration/imaging"
	"github.com/patrickmn/go-cache"
	"golang.org/x/image/draw"
	"golang.org/x/sync/singleflight"
)

const (
	// ThumbnailMaxSide is the maximum width or height of a gallery thumbnail.
	// The aspect ratio is kept.
	ThumbnailMaxSide = 200

	// ThumbnailContentType is the type of every thumbnail.
	ThumbnailContentType = "image/jpeg"

	thumbnailQuality = 75

	// renderTimeout bounds one shared fetch and render. The flight is
	// detached from the caller that started it.
	renderTimeout = 30 * time.Second
)

// CreateThumbnail decodes an image, applies its EXIF orientation and writes a
// JPEG that fits within ThumbnailMaxSide. Small images are not scaled up.
func CreateThumbnail(src io.Reader, dst io.Writer) error {
	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("could not decode image for thumbnail: %w", err)
	}

	w, h := fitWithin(img.Bounds().Dx(), img.Bounds().Dy(), ThumbnailMaxSide)
	if w == 0 || h == 0 {
		return fmt.Errorf("cannot create thumbnail for zero-dimension image")
	}

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(out, out.Rect, img, img.Bounds(), draw.Over, nil)

	if err := jpeg.Encode(dst, out, &jpeg.Options{Quality: thumbnailQuality}); err != nil {
		return fmt.Errorf("failed to encode thumbnail to jpeg: %w", err)
	}
	return nil
}

// fitWithin scales w x h down so the longer side is at most limit.
func fitWithin(w, h, limit int) (int, int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	if w >= h {
		if w <= limit {
			return w, h
		}
		return limit, h * limit / w
	}
	if h <= limit {
		return w, h
	}
	return w * limit / h, limit
}

// FetchFunc opens the original image.
type FetchFunc func(ctx context.Context) (io.ReadCloser, error)

// ThumbnailCache keeps rendered thumbnails in memory. Concurrent requests for
// the same key share one fetch and render.
type ThumbnailCache struct {
	items *cache.Cache
	group singleflight.Group
}

// NewThumbnailCache creates a cache whose entries expire after ttl.
func NewThumbnailCache(ttl time.Duration) *ThumbnailCache {
	return &ThumbnailCache{items: cache.New(ttl, 2*ttl)}
}

// Get returns the JPEG thumbnail for key, rendering it from fetch on a miss.
// Callers sharing a render wait on their own ctx; one caller going away does
// not fail the others. An empty key renders without caching or sharing.
func (c *ThumbnailCache) Get(ctx context.Context, key string, fetch FetchFunc) ([]byte, error) {
	if key == "" {
		return render(ctx, fetch)
	}
	if v, ok := c.items.Get(key); ok {
		return v.([]byte), nil
	}

	ch := c.group.DoChan(key, func() (interface{}, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), renderTimeout)
		defer cancel()

		data, err := render(fctx, fetch)
		if err != nil {
			return nil, err
		}
		c.items.SetDefault(key, data)
		logging.Log.Debugf("thumbnail: rendered '%s' (%d bytes)", key, len(data))
		return data, nil
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func render(ctx context.Context, fetch FetchFunc) ([]byte, error) {
	body, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var buf bytes.Buffer
	if err := CreateThumbnail(body, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Forget drops the cached thumbnail for key.
func (c *ThumbnailCache) Forget(key string) {
	if key == "" {
		return
	}
	c.items.Delete(key)
	c.group.Forget(key)
}

// Len returns the number of cached thumbnails.
func (c *ThumbnailCache) Len() int {
	return c.items.ItemCount()
}
