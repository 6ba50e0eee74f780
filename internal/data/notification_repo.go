package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/clientus/portal/internal/core"
	"github.com/clientus/portal/internal/data/pgxutil"
	"github.com/clientus/portal/internal/domain/model"
)

// NotificationRepo provides database operations for in-portal notifications.
type NotificationRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewNotificationRepo creates a new NotificationRepo with real time provider.
func NewNotificationRepo(db *sql.DB) *NotificationRepo {
	return &NotificationRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewNotificationRepoWithTimeProvider creates a new NotificationRepo with a custom time provider (useful for tests).
func NewNotificationRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *NotificationRepo {
	return &NotificationRepo{DB: db, timeProvider: tp}
}

// Create inserts a new unread notification.
func (r *NotificationRepo) Create(ctx context.Context, req *model.CreateNotificationRequest) (*model.Notification, error) {
	if req == nil {
		return nil, errors.New("create notification request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.Notification
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO notifications (account_id, title, message, type, read, created_at)
			VALUES ($1, $2, $3, $4, FALSE, $5)
			RETURNING `+notificationColumnList,
			req.AccountID,
			strings.TrimSpace(req.Title),
			req.Message,
			req.Type,
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Notification])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return &out, nil
}

// ListByAccount returns an account's notifications, newest first.
func (r *NotificationRepo) ListByAccount(
	ctx context.Context,
	accountID string,
	limit int,
) ([]*model.Notification, error) {
	if limit <= 0 {
		limit = 50
	}

	var rowsOut []model.Notification
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT `+notificationColumnList+`
			FROM notifications
			WHERE account_id = $1
			ORDER BY created_at DESC
			LIMIT $2`, accountID, limit)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Notification])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	res := make([]*model.Notification, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// MarkRead marks one notification as read, scoped to the owning account.
func (r *NotificationRepo) MarkRead(ctx context.Context, params core.MarkReadParams) (bool, error) {
	if params.ID == "" || params.AccountID == "" {
		return false, errors.New("id and account_id are required")
	}

	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `
			UPDATE notifications SET read = TRUE
			WHERE id = $1 AND account_id = $2 AND read = FALSE`,
			params.ID, params.AccountID)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to mark notification read: %w", err)
	}
	return rows > 0, nil
}

// MarkAllRead marks every unread notification for the account as read and
// returns the number affected.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, accountID string) (int, error) {
	if accountID == "" {
		return 0, errors.New("account_id is required")
	}

	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `
			UPDATE notifications SET read = TRUE
			WHERE account_id = $1 AND read = FALSE`, accountID)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to mark all notifications read: %w", err)
	}
	return int(rows), nil
}

// CountUnread returns the number of unread notifications for the account.
func (r *NotificationRepo) CountUnread(ctx context.Context, accountID string) (int, error) {
	var count int
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, `
			SELECT COUNT(*) FROM notifications
			WHERE account_id = $1 AND read = FALSE`, accountID).Scan(&count)
	}); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// --- helpers ---

const notificationColumnList = `id, account_id, title, message, type, read, created_at`
