// filepath: internal/api/handlers/media_handler.go
package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"snapstream/internal/backend"
	"snapstream/internal/logging"
	"snapstream/internal/media"
	"snapstream/internal/models"
	"snapstream/internal/services"
	"snapstream/internal/views"

	"github.com/gorilla/mux"
)

// MsgMediaLoadFailed is shown when a single item cannot be loaded.
const MsgMediaLoadFailed = "Failed to load media"

// viewFrom reads the gallery controls from the query or the posted form.
func viewFrom(values url.Values) services.GalleryView {
	return services.GalleryView{
		Filter: values.Get("filter"),
		Sort:   values.Get("sort"),
		Search: values.Get("search"),
	}.Normalize()
}

// viewQuery encodes v for a /media URL.
func viewQuery(v services.GalleryView) string {
	q := url.Values{}
	if v.Filter != services.FilterAll {
		q.Set("filter", v.Filter)
	}
	if v.Sort != services.SortLatest {
		q.Set("sort", v.Sort)
	}
	if v.Search != "" {
		q.Set("search", v.Search)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// gallery returns the gallery for the request: the snapshot named by the
// token parameter when it is still cached, a fresh fetch otherwise.
func (h *Handlers) gallery(r *http.Request, values url.Values) *services.Gallery {
	view := viewFrom(values)
	if token := values.Get("token"); token != "" {
		return h.Gallery.Reproject(r.Context(), ownerKey(r), token, view)
	}
	return h.Gallery.Load(r.Context(), ownerKey(r), view)
}

// thumbKey names the cached thumbnail of id for the session user. Without a
// known owner it is "" and the thumbnail is rendered uncached.
func thumbKey(r *http.Request, id string) string {
	owner := ownerKey(r)
	if owner == "" {
		return ""
	}
	return owner + "/" + id
}

// MediaPage renders My Media.
func (h *Handlers) MediaPage(w http.ResponseWriter, r *http.Request) {
	g := h.gallery(r, r.URL.Query())
	h.render(w, r, http.StatusOK, "media", "My Media", "media", views.MediaPage{Gallery: g})
}

// @Summary Media grid
// @Description Returns the rendered media grid for a filter, sort order and search. With a token the cached set is reprojected without a backend call.
// @Tags Media
// @Produce  json
// @Param   X-SnapStream-Fragment header string true "Set by the page script"
// @Param   token query string false "Snapshot token from a previous answer"
// @Param   filter query string false "all, image, video or audio"
// @Param   sort query string false "latest or oldest"
// @Param   search query string false "Case-insensitive filename search"
// @Success 200 {object} FragmentResponse
// @Router /media/grid [get]
func (h *Handlers) MediaGrid(w http.ResponseWriter, r *http.Request) {
	if !isFragment(r) {
		view := viewFrom(r.URL.Query())
		http.Redirect(w, r, "/media"+viewQuery(view), http.StatusSeeOther)
		return
	}
	g := h.gallery(r, r.URL.Query())
	html, err := h.fragmentHTML("media_grid", g)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to render media")
		return
	}
	h.respondFragment(w, http.StatusOK, FragmentResponse{HTML: html, Token: g.Token})
}

// MediaDetailPage renders one item with its analysis.
func (h *Handlers) MediaDetailPage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	detail, err := h.Gallery.Detail(r.Context(), id)
	if err != nil {
		logging.Log.Infof("MediaDetailPage: '%s': %v", id, err)
		h.render(w, r, statusFor(err), "media_detail", "Media", "media", views.MediaDetailPage{
			Error: backend.UserMessage(err, MsgMediaLoadFailed),
		})
		return
	}
	h.render(w, r, http.StatusOK, "media_detail", detail.Media.Filename, "media", views.MediaDetailPage{
		Detail: detail,
		Group:  services.GroupOf(detail.Media.Type),
	})
}

// @Summary Delete media
// @Description Deletes one item. On success the whole set is fetched again and the grid re-rendered; on failure the grid is unchanged and the toast carries the backend's message.
// @Tags Media
// @Accept  x-www-form-urlencoded
// @Produce  json
// @Param   X-SnapStream-Fragment header string true "Set by the page script"
// @Param   id path string true "Media id"
// @Param   token formData string false "Snapshot token"
// @Success 200 {object} FragmentResponse
// @Failure 404 {object} FragmentResponse
// @Router /media/{id}/delete [post]
func (h *Handlers) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Invalid form submission")
		return
	}
	id := mux.Vars(r)["id"]
	g := h.gallery(r, r.PostForm)

	t, err := h.Gallery.Delete(r.Context(), g, id)
	code := http.StatusOK
	if err != nil {
		code = statusFor(err)
	} else {
		if h.Thumbs != nil {
			h.Thumbs.Forget(thumbKey(r, id))
		}
		h.audit(r, "media.delete", "Media:"+id, nil)
	}

	res := FragmentResponse{Toasts: []models.Toast{t}, Token: g.Token}
	if isFragment(r) {
		res.HTML, _ = h.fragmentHTML("media_grid", g)
	}
	h.respondAction(w, r, code, res, "/media"+viewQuery(g.View))
}

// Thumbnail serves a JPEG thumbnail of an image item. Thumbnails are cached
// per user so one account never gets another's cached render.
func (h *Handlers) Thumbnail(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	data, err := h.Thumbs.Get(r.Context(), thumbKey(r, id), func(ctx context.Context) (io.ReadCloser, error) {
		detail, err := h.Gallery.Detail(ctx, id)
		if err != nil {
			return nil, err
		}
		if services.GroupOf(detail.Media.Type) != services.MediaImage || detail.Media.StoredName == "" {
			return nil, fmt.Errorf("media '%s' has no image: %w", id, services.ErrUnsupported)
		}
		body, _, err := h.Assets.FetchAsset(ctx, detail.Media.StoredName)
		return body, err
	})
	if err != nil {
		logging.Log.Debugf("Thumbnail: '%s': %v", id, err)
		code := http.StatusNotFound
		if backend.IsTransport(err) && !errors.Is(err, context.Canceled) {
			code = http.StatusBadGateway
		}
		http.Error(w, http.StatusText(code), code)
		return
	}

	w.Header().Set("Content-Type", media.ThumbnailContentType)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	http.ServeContent(w, r, id+".jpg", time.Time{}, bytes.NewReader(data))
}

// Asset proxies an uploaded file from the backend.
func (h *Handlers) Asset(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	body, contentType, err := h.Assets.FetchAsset(r.Context(), name)
	if err != nil {
		logging.Log.Infof("Asset: '%s': %v", name, err)
		code := http.StatusNotFound
		if backend.IsTransport(err) {
			code = http.StatusBadGateway
		}
		http.Error(w, http.StatusText(code), code)
		return
	}
	defer body.Close()

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if _, err := io.Copy(w, body); err != nil {
		logging.Log.Debugf("Asset: copy of '%s' interrupted: %v", name, err)
	}
}
