// filepath: internal/services/gallery.go
package services

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"snapstream/internal/backend"
	"snapstream/internal/logging"
	"snapstream/internal/models"
	"snapstream/internal/toast"

	"github.com/oklog/ulid/v2"
	"github.com/patrickmn/go-cache"
)

// Gallery filter and sort values.
const (
	FilterAll   = "all"
	SortLatest  = "latest"
	SortOldest  = "oldest"
	loadFailure = "Failed to load media"
)

// GalleryView holds the three independent UI controls of the gallery.
type GalleryView struct {
	Filter string
	Sort   string
	Search string
}

// Normalize replaces unknown values with the defaults.
func (v GalleryView) Normalize() GalleryView {
	switch v.Filter {
	case MediaImage, MediaVideo, MediaAudio:
	default:
		v.Filter = FilterAll
	}
	if v.Sort != SortOldest {
		v.Sort = SortLatest
	}
	v.Search = strings.TrimSpace(v.Search)
	return v
}

// Project filters, searches and sorts set for view. It is a pure function:
// set is never modified and equal inputs give equal outputs.
func Project(set []models.MediaItem, view GalleryView) []models.MediaItem {
	view = view.Normalize()
	query := strings.ToLower(view.Search)

	out := make([]models.MediaItem, 0, len(set))
	for _, item := range set {
		if view.Filter != FilterAll && GroupOf(item.Type) != view.Filter {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(item.Filename), query) {
			continue
		}
		out = append(out, item)
	}

	oldest := view.Sort == SortOldest
	sort.SliceStable(out, func(i, j int) bool {
		return uploadedLess(out[i], out[j], oldest)
	})
	return out
}

// uploadedLess orders dated items by upload time in the requested direction.
// Items whose timestamp does not parse always sort after the dated ones and
// are ordered among themselves by the raw string.
func uploadedLess(a, b models.MediaItem, oldest bool) bool {
	ta, tb := a.UploadedTime(), b.UploadedTime()
	if ta.IsZero() != tb.IsZero() {
		return tb.IsZero()
	}
	if ta.IsZero() {
		if oldest {
			return a.UploadedAt < b.UploadedAt
		}
		return a.UploadedAt > b.UploadedAt
	}
	if oldest {
		return ta.Before(tb)
	}
	return tb.Before(ta)
}

// GalleryItem is one rendered card.
type GalleryItem struct {
	models.MediaItem
	Group string
}

// OwnerKey names the account user for per-user caches. /api/me may omit the
// numeric id, so the email stands in for it. An empty key means the user
// cannot be told apart from others and nothing is cached for them.
func OwnerKey(user *models.User) string {
	if user == nil {
		return ""
	}
	if user.ID != 0 {
		return "id:" + strconv.Itoa(user.ID)
	}
	if email := strings.ToLower(strings.TrimSpace(user.Email)); email != "" {
		return "email:" + email
	}
	return ""
}

// Gallery is the per-page state: the full fetched set and the current view.
// Token names the snapshot so later projections reuse the set. Snapshots
// are only kept for a non-empty Owner.
type Gallery struct {
	Token     string
	Owner     string
	Items     []models.MediaItem
	View      GalleryView
	LoadError string
}

// Visible returns the cards for the current view.
func (g *Gallery) Visible() []GalleryItem {
	projected := Project(g.Items, g.View)
	out := make([]GalleryItem, 0, len(projected))
	for _, item := range projected {
		out = append(out, GalleryItem{MediaItem: item, Group: GroupOf(item.Type)})
	}
	return out
}

// GalleryService loads and mutates the media gallery.
type GalleryService struct {
	api  MediaAPI
	sets *cache.Cache
}

// NewGalleryService creates a new GalleryService. Fetched sets are kept for
// ttl so changing the view does not hit the backend.
func NewGalleryService(api MediaAPI, ttl time.Duration) *GalleryService {
	return &GalleryService{api: api, sets: cache.New(ttl, 2*ttl)}
}

// Load fetches the full set for owner. A failed fetch is recorded on the
// gallery so the page can show its error panel.
func (s *GalleryService) Load(ctx context.Context, owner string, view GalleryView) *Gallery {
	g := &Gallery{Owner: owner, View: view.Normalize()}
	items, err := s.api.ListMedia(ctx)
	if err != nil {
		logging.Log.Warnf("Gallery: failed to load media: %v", err)
		g.LoadError = loadFailure
		return g
	}
	g.Items = items
	s.remember(g)
	return g
}

// remember stores g as the snapshot of its owner.
func (s *GalleryService) remember(g *Gallery) {
	if g.Owner == "" {
		g.Token = ""
		return
	}
	if g.Token == "" {
		g.Token = ulid.Make().String()
	}
	s.sets.SetDefault(g.Token, *g)
}

// Reproject applies view to the snapshot named token. Unknown, expired or
// foreign snapshots are replaced by a fresh Load.
func (s *GalleryService) Reproject(ctx context.Context, owner, token string, view GalleryView) *Gallery {
	if owner == "" || token == "" {
		return s.Load(ctx, owner, view)
	}
	if v, ok := s.sets.Get(token); ok {
		snap := v.(Gallery)
		if snap.Owner == owner {
			snap.View = view.Normalize()
			return &snap
		}
	}
	return s.Load(ctx, owner, view)
}

// Delete removes id and, on success, refetches the full set instead of
// removing the item locally. On failure g is left untouched and the toast
// carries the backend's message.
func (s *GalleryService) Delete(ctx context.Context, g *Gallery, id string) (models.Toast, error) {
	if err := s.api.DeleteMedia(ctx, id); err != nil {
		logging.Log.Infof("Gallery: delete of '%s' failed: %v", id, err)
		return toast.New(backend.UserMessage(err, "Delete failed"), toast.Error, ""), err
	}

	items, err := s.api.ListMedia(ctx)
	if err != nil {
		logging.Log.Warnf("Gallery: refetch after delete failed: %v", err)
		g.LoadError = loadFailure
		g.Items = nil
		if g.Token != "" {
			s.sets.Delete(g.Token)
		}
	} else {
		g.LoadError = ""
		g.Items = items
		s.remember(g)
	}
	return toast.New("Media deleted successfully", toast.Success, ""), nil
}

// Detail returns one item with its analysis.
func (s *GalleryService) Detail(ctx context.Context, id string) (*models.MediaDetail, error) {
	return s.api.GetMedia(ctx, id)
}
