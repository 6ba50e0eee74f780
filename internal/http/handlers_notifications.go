package httpx

import (
	"errors"
	"net/http"

	"github.com/clientus/portal/internal/core"
	"github.com/clientus/portal/internal/service"
)

// NotificationHandlers provides HTTP handlers for the session account's
// notification feed.
type NotificationHandlers struct {
	Svc *service.NotificationService
}

const maxNotificationListLimit = 50

// sessionAccountID extracts the authenticated account, writing a 401 when missing.
func sessionAccountID(w http.ResponseWriter, r *http.Request) (string, bool) {
	session := GetSessionFromContext(r.Context())
	if session == nil || session.IsGuest() {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "unauthorized",
			Err:     errors.New("authentication required"),
		})
		return "", false
	}
	return session.UserID, true
}

// List handles HTTP requests to list the session account's notifications.
func (h *NotificationHandlers) List(w http.ResponseWriter, r *http.Request) {
	accountID, ok := sessionAccountID(w, r)
	if !ok {
		return
	}

	limit, _ := ParseLimitOffset(r, 20, maxNotificationListLimit)

	notifications, err := h.Svc.ListByAccount(r.Context(), accountID, limit)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	unread, err := h.Svc.CountUnread(r.Context(), accountID)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "count_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"notifications": notifications,
		"unread_count":  unread,
	})
}

// MarkRead handles HTTP requests to mark one notification as read.
// The account scope keeps one user from touching another's rows.
func (h *NotificationHandlers) MarkRead(w http.ResponseWriter, r *http.Request) {
	accountID, ok := sessionAccountID(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("notification id is required")},
		)
		return
	}

	marked, err := h.Svc.MarkRead(r.Context(), core.MarkReadParams{
		ID:        id,
		AccountID: accountID,
	})
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "mark_read_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"marked": marked})
}

// MarkAllRead handles HTTP requests to mark every unread notification as read.
func (h *NotificationHandlers) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	accountID, ok := sessionAccountID(w, r)
	if !ok {
		return
	}

	count, err := h.Svc.MarkAllRead(r.Context(), accountID)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "mark_read_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]int{"marked": count})
}
