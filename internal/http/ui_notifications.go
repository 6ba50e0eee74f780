package httpx

import (
	"net/http"

	"github.com/clientus/portal/internal/core"
	"github.com/clientus/portal/internal/domain/model"
)

const notificationsPageLimit = 50

// Notifications serves the full notifications page for the session account.
func (h *UIHandlers) Notifications(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, "/landing", http.StatusSeeOther)
		return
	}

	builder := NewTemplateData(r, PageMeta{
		Title:       "Clientus - Notificações",
		PageTitle:   "Notificações",
		CurrentPage: PageNotifications,
	})
	builder.With("Notifications", []*model.Notification{}).With("UnreadCount", 0)

	if h.NotifySvc == nil {
		builder.WithError("Não foi possível carregar as notificações.")
		h.renderPortalPage(w, r, builder.Build())
		return
	}

	items, err := h.NotifySvc.ListByAccount(r.Context(), session.UserID, notificationsPageLimit)
	if err != nil {
		h.logger().Error("failed to load notifications page", "error", err)
		builder.WithError("Não foi possível carregar as notificações.")
		h.renderPortalPage(w, r, builder.Build())
		return
	}
	builder.With("Notifications", items)
	if count, err := h.NotifySvc.CountUnread(r.Context(), session.UserID); err == nil {
		builder.With("UnreadCount", count)
	}

	h.renderPortalPage(w, r, builder.Build())
}

// NotificationsFragment serves the notification dropdown panel for HTMX polling.
func (h *UIHandlers) NotificationsFragment(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil || h.NotifySvc == nil {
		h.NotFound(w, r)
		return
	}

	data := basePageData(r, PageMeta{})
	data["Notifications"] = []*model.Notification{}
	data["UnreadCount"] = 0

	items, err := h.NotifySvc.ListByAccount(r.Context(), session.UserID, 10)
	if err != nil {
		h.logger().WarnContext(r.Context(), "failed to load notifications", "error", err)
	} else {
		data["Notifications"] = items
	}
	if count, err := h.NotifySvc.CountUnread(r.Context(), session.UserID); err == nil {
		data["UnreadCount"] = count
	}

	h.renderFragment(w, r, fragmentRenderOptions{
		Template: "notifications-fragment",
		Data:     data,
	})
}

// MarkNotificationRead marks one of the session account's notifications as read.
// POST /notifications/{id}/read.
func (h *UIHandlers) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	id := r.PathValue("id")
	if session == nil || id == "" || h.NotifySvc == nil {
		h.NotFound(w, r)
		return
	}

	// The account scope in MarkRead keeps one user from touching another's rows
	if _, err := h.NotifySvc.MarkRead(r.Context(), core.MarkReadParams{
		ID:        id,
		AccountID: session.UserID,
	}); err != nil {
		h.logger().Error("failed to mark notification read", "notification_id", id, "error", err)
		http.Error(w, "mark read failed", http.StatusInternalServerError)
		return
	}

	h.NotificationsFragment(w, r)
}

// MarkAllNotificationsRead marks every unread notification for the session account.
// POST /notifications/read-all.
func (h *UIHandlers) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil || h.NotifySvc == nil {
		h.NotFound(w, r)
		return
	}

	if _, err := h.NotifySvc.MarkAllRead(r.Context(), session.UserID); err != nil {
		h.logger().Error("failed to mark notifications read", "error", err)
		http.Error(w, "mark read failed", http.StatusInternalServerError)
		return
	}

	h.NotificationsFragment(w, r)
}
