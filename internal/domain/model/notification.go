//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxNotificationTitleLen   = 255
	maxNotificationMessageLen = 2000
)

// NotificationType is the display severity of a notification.
type NotificationType string

const (
	NotifyInfo    NotificationType = "info"
	NotifySuccess NotificationType = "success"
	NotifyWarning NotificationType = "warning"
	NotifyError   NotificationType = "error"
)

// Valid reports whether the notification type is supported.
func (t NotificationType) Valid() bool {
	switch t {
	case NotifyInfo, NotifySuccess, NotifyWarning, NotifyError:
		return true
	default:
		return false
	}
}

// Notification is an in-portal message for a single account.
type Notification struct {
	ID        string           `json:"id"         db:"id"`
	AccountID string           `json:"account_id" db:"account_id"`
	Title     string           `json:"title"      db:"title"`
	Message   string           `json:"message"    db:"message"`
	Type      NotificationType `json:"type"       db:"type"`
	Read      bool             `json:"read"       db:"read"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}

// CreateNotificationRequest represents parameters to create a Notification.
type CreateNotificationRequest struct {
	AccountID string           `json:"account_id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type,omitempty"`
}

// Validate validates CreateNotificationRequest and normalizes defaults.
func (r *CreateNotificationRequest) Validate() error {
	if strings.TrimSpace(r.AccountID) == "" {
		return errors.New("account_id is required")
	}
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return errors.New("title is required and cannot be empty")
	}
	if utf8.RuneCountInString(title) > maxNotificationTitleLen {
		return errors.New("title cannot exceed 255 characters")
	}
	if utf8.RuneCountInString(r.Message) > maxNotificationMessageLen {
		return errors.New("message cannot exceed 2000 characters")
	}
	if r.Type == "" {
		r.Type = NotifyInfo
	}
	if !r.Type.Valid() {
		return errors.New("invalid type")
	}
	return nil
}
