// filepath: internal/api/handlers/notifications_handler.go
package handlers

import (
	"context"
	"net/http"

	"snapstream/internal/models"
	"snapstream/internal/services"
	"snapstream/internal/views"

	"github.com/gorilla/mux"
)

// NotificationsCookie keys the notification state of one browser.
const NotificationsCookie = "snapstream_notifications"

// notificationKey returns the browser's notification key, issuing one on
// first use.
func (h *Handlers) notificationKey(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(NotificationsCookie); err == nil && c.Value != "" {
		return c.Value
	}
	key := services.NewNotificationSessionKey()
	http.SetCookie(w, &http.Cookie{
		Name:     NotificationsCookie,
		Value:    key,
		Path:     "/",
		MaxAge:   int(h.Cfg.Timings.NotificationTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.Cfg.Cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return key
}

// NotificationsPage renders the notifications shell with skeleton rows.
func (h *Handlers) NotificationsPage(w http.ResponseWriter, r *http.Request) {
	h.notificationKey(w, r)
	h.render(w, r, http.StatusOK, "notifications", "Notifications", "notifications", views.NotificationsPage{})
}

// @Summary Notifications list
// @Description Returns the rendered notification list of this browser.
// @Tags Notifications
// @Produce  json
// @Param   X-SnapStream-Fragment header string true "Set by the page script"
// @Success 200 {object} FragmentResponse
// @Router /notifications/list [get]
func (h *Handlers) NotificationsList(w http.ResponseWriter, r *http.Request) {
	key := h.notificationKey(w, r)
	list, t := h.Notifications.Load(r.Context(), key)

	var toasts []models.Toast
	if t != nil {
		toasts = append(toasts, *t)
	}
	if !isFragment(r) {
		h.Flash.Queue(w, r, toasts...)
		h.render(w, r, http.StatusOK, "notifications", "Notifications", "notifications", views.NotificationsPage{List: list})
		return
	}
	html, err := h.fragmentHTML("notifications_list", list)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to render notifications")
		return
	}
	h.respondFragment(w, http.StatusOK, FragmentResponse{HTML: html, Toasts: toasts})
}

// @Summary Mark a notification as read
// @Tags Notifications
// @Produce  json
// @Param   X-SnapStream-Fragment header string true "Set by the page script"
// @Param   id path string true "Notification id"
// @Success 200 {object} FragmentResponse
// @Failure 404 {object} FragmentResponse
// @Router /notifications/{id}/read [post]
func (h *Handlers) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	h.notificationAction(w, r, func(ctx context.Context, key string) (models.Toast, error) {
		return h.Notifications.MarkRead(ctx, key, id)
	})
}

// @Summary Mark all notifications as read
// @Tags Notifications
// @Produce  json
// @Param   X-SnapStream-Fragment header string true "Set by the page script"
// @Success 200 {object} FragmentResponse
// @Router /notifications/read-all [post]
func (h *Handlers) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	h.notificationAction(w, r, h.Notifications.MarkAllRead)
}

// @Summary Clear all notifications
// @Tags Notifications
// @Produce  json
// @Param   X-SnapStream-Fragment header string true "Set by the page script"
// @Success 200 {object} FragmentResponse
// @Router /notifications/clear-all [post]
func (h *Handlers) ClearNotifications(w http.ResponseWriter, r *http.Request) {
	h.notificationAction(w, r, h.Notifications.ClearAll)
}

// notificationAction runs one mutation and answers with its toast and the
// list as it now stands.
func (h *Handlers) notificationAction(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, key string) (models.Toast, error)) {
	key := h.notificationKey(w, r)
	t, err := action(r.Context(), key)
	code := http.StatusOK
	if err != nil {
		code = statusFor(err)
	}

	res := FragmentResponse{Toasts: []models.Toast{t}}
	if isFragment(r) {
		list, loadToast := h.Notifications.Load(r.Context(), key)
		if loadToast != nil {
			res.Toasts = append(res.Toasts, *loadToast)
		}
		res.HTML, _ = h.fragmentHTML("notifications_list", list)
	}
	h.respondAction(w, r, code, res, "/notifications/list")
}
