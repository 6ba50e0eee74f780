package service

import (
	"context"
	"log/slog"

	"github.com/clientus/portal/internal/core"
	"github.com/clientus/portal/internal/domain/model"
)

// UnreadCountCache caches per-account unread counts. Cache failures are
// soft: the service logs them and falls back to the repository.
type UnreadCountCache interface {
	GetUnreadCount(ctx context.Context, accountID string) (int, bool, error)
	SetUnreadCount(ctx context.Context, accountID string, count int) error
	InvalidateUnreadCount(ctx context.Context, accountID string) error
}

// NotificationServiceOptions groups dependencies for NotificationService.
type NotificationServiceOptions struct {
	NotificationRepo core.NotificationRepository
	UnreadCache      UnreadCountCache
	Logger           *slog.Logger
}

// NotificationService exposes the per-account notification feed. Unread
// counts read through an optional cache; every feed write invalidates the
// account's cached count.
type NotificationService struct {
	notes  core.NotificationRepository
	cache  UnreadCountCache
	logger *slog.Logger
}

// NewNotificationService constructs a new NotificationService.
func NewNotificationService(opts NotificationServiceOptions) *NotificationService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationService{
		notes:  opts.NotificationRepo,
		cache:  opts.UnreadCache,
		logger: logger.With("component", "notification_service"),
	}
}

// Create creates a notification for an account.
func (s *NotificationService) Create(ctx context.Context, req *model.CreateNotificationRequest) (*model.Notification, error) {
	note, err := s.notes.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	s.invalidateUnread(ctx, note.AccountID)
	return note, nil
}

// ListByAccount returns an account's notifications, newest first.
func (s *NotificationService) ListByAccount(ctx context.Context, accountID string, limit int) ([]*model.Notification, error) {
	return s.notes.ListByAccount(ctx, accountID, limit)
}

// MarkRead marks one notification as read, scoped to the owning account.
// Returns false when the notification was already read or belongs to
// another account.
func (s *NotificationService) MarkRead(ctx context.Context, params core.MarkReadParams) (bool, error) {
	changed, err := s.notes.MarkRead(ctx, params)
	if err != nil {
		return false, err
	}
	if changed {
		s.invalidateUnread(ctx, params.AccountID)
	}
	return changed, nil
}

// MarkAllRead marks every unread notification for the account as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, accountID string) (int, error) {
	n, err := s.notes.MarkAllRead(ctx, accountID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.invalidateUnread(ctx, accountID)
	}
	return n, nil
}

// CountUnread returns the number of unread notifications for the account,
// served from the cache when it holds a fresh entry.
func (s *NotificationService) CountUnread(ctx context.Context, accountID string) (int, error) {
	if s.cache != nil {
		count, ok, err := s.cache.GetUnreadCount(ctx, accountID)
		if err != nil {
			s.logger.WarnContext(ctx, "unread count cache read failed",
				"account_id", accountID, "err", err)
		} else if ok {
			return count, nil
		}
	}

	count, err := s.notes.CountUnread(ctx, accountID)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		if err := s.cache.SetUnreadCount(ctx, accountID, count); err != nil {
			s.logger.WarnContext(ctx, "unread count cache write failed",
				"account_id", accountID, "err", err)
		}
	}
	return count, nil
}

func (s *NotificationService) invalidateUnread(ctx context.Context, accountID string) {
	if s.cache == nil || accountID == "" {
		return
	}
	if err := s.cache.InvalidateUnreadCount(ctx, accountID); err != nil {
		s.logger.WarnContext(ctx, "unread count cache invalidation failed",
			"account_id", accountID, "err", err)
	}
}
