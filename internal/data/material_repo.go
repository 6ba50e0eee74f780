package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/clientus/portal/internal/core"
	"github.com/clientus/portal/internal/data/database"
	"github.com/clientus/portal/internal/data/pgxutil"
	"github.com/clientus/portal/internal/domain/model"
)

// MaterialRepo provides database operations for creative materials and
// their review comment threads.
type MaterialRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewMaterialRepo creates a new MaterialRepo with real time provider.
func NewMaterialRepo(db *sql.DB) *MaterialRepo {
	return &MaterialRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewMaterialRepoWithTimeProvider creates a new MaterialRepo with a custom time provider (useful for tests).
func NewMaterialRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *MaterialRepo {
	return &MaterialRepo{DB: db, timeProvider: tp}
}

// Create inserts a new material. New materials always start pending review.
func (r *MaterialRepo) Create(ctx context.Context, req *model.CreateMaterialRequest) (*model.Material, error) {
	if req == nil {
		return nil, errors.New("create material request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	createdAt := r.timeProvider.Now().UTC()
	var out model.Material
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO materials (
				client_id, title, description, file_url, file_type, thumbnail_url, scheduled_date, status, approval_status, created_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, 'pending', $9
			) RETURNING `+materialColumnList,
			req.ClientID,
			strings.TrimSpace(req.Title),
			req.Description,
			req.FileURL,
			req.FileType,
			req.ThumbnailURL,
			req.ScheduledDate,
			req.Status,
			createdAt,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Material])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to create material: %w", err)
	}
	return &out, nil
}

// GetByID retrieves a material by ID.
func (r *MaterialRepo) GetByID(ctx context.Context, id string) (*model.Material, error) {
	var material model.Material
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, materialGetByIDQuery, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		material, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Material])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMaterialNotFound
		}
		return nil, fmt.Errorf("failed to get material by ID: %w", err)
	}
	return &material, nil
}

// List retrieves materials with optional filters and pagination.
func (r *MaterialRepo) List(ctx context.Context, opts model.MaterialListOptions) ([]*model.Material, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	queryOpts := []database.ListQueryOption{
		database.WithColumns(materialColumns()...),
		database.WithLimit(limit),
		database.WithOffset(offset),
		database.WithOrderBy("created_at", sortDirDesc),
	}
	if opts.ClientID != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("client_id", database.Equal, *opts.ClientID),
		))
	}
	if opts.Status != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("status", database.Equal, *opts.Status),
		))
	}
	if opts.ApprovalStatus != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("approval_status", database.Equal, *opts.ApprovalStatus),
		))
	}
	query, args := database.BuildListQuery(database.NewListQueryOptions("materials", queryOpts...))

	var rowsOut []model.Material
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Material])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list materials: %w", err)
	}

	res := make([]*model.Material, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// CountPendingApproval counts materials awaiting review, optionally scoped to one client.
func (r *MaterialRepo) CountPendingApproval(ctx context.Context, clientID *string) (int, error) {
	queryOpts := []database.ListQueryOption{
		database.WithCountOnly(),
		database.WithCondition(
			database.WhereCond("approval_status", database.Equal, model.ApprovalPending),
		),
	}
	if clientID != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("client_id", database.Equal, *clientID),
		))
	}
	query, args := database.BuildListQuery(database.NewListQueryOptions("materials", queryOpts...))

	var count int
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, query, args...).Scan(&count)
	}); err != nil {
		return 0, fmt.Errorf("failed to count pending materials: %w", err)
	}
	return count, nil
}

// Update updates fields of a material. Approval transitions go through SetApprovalStatus.
func (r *MaterialRepo) Update(
	ctx context.Context,
	id string,
	req model.UpdateMaterialRequest,
) (*model.Material, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.Material
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		setClause, args := r.buildUpdateClause(req)
		args = append(args, id)
		query := "UPDATE materials SET " + setClause + " WHERE id = $" + strconv.Itoa(len(args)) +
			" RETURNING " + materialColumnList
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		var e error
		out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Material])
		return e
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMaterialNotFound
		}
		return nil, fmt.Errorf("failed to update material: %w", err)
	}
	return &out, nil
}

func (r *MaterialRepo) buildUpdateClause(req model.UpdateMaterialRequest) (string, []any) {
	setParts := make([]string, 0, 8)
	args := make([]any, 0, 9)
	nextIdx := func() int { return len(args) + 1 }

	if req.Title != nil {
		setParts = append(setParts, fmt.Sprintf("title = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Title))
	}
	if req.Description != nil {
		setParts = append(setParts, fmt.Sprintf("description = $%d", nextIdx()))
		args = append(args, *req.Description)
	}
	if req.FileURL != nil {
		setParts = append(setParts, fmt.Sprintf("file_url = $%d", nextIdx()))
		args = append(args, *req.FileURL)
	}
	if req.FileType != nil {
		setParts = append(setParts, fmt.Sprintf("file_type = $%d", nextIdx()))
		args = append(args, *req.FileType)
	}
	if req.ThumbnailURL != nil {
		setParts = append(setParts, fmt.Sprintf("thumbnail_url = $%d", nextIdx()))
		args = append(args, *req.ThumbnailURL)
	}
	if req.ScheduledDate != nil {
		setParts = append(setParts, fmt.Sprintf("scheduled_date = $%d", nextIdx()))
		args = append(args, *req.ScheduledDate)
	}
	if req.Status != nil {
		setParts = append(setParts, fmt.Sprintf("status = $%d", nextIdx()))
		args = append(args, *req.Status)
	}
	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())

	return strings.Join(setParts, ", "), args
}

// SetApprovalStatus records a review decision on a material.
func (r *MaterialRepo) SetApprovalStatus(
	ctx context.Context,
	id string,
	status model.ApprovalStatus,
) (*model.Material, error) {
	if !status.Valid() {
		return nil, errors.New("invalid approval status")
	}

	var out model.Material
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE materials SET approval_status = $1, updated_at = $2
			WHERE id = $3
			RETURNING `+materialColumnList,
			status, r.timeProvider.Now().UTC(), id)
		if err != nil {
			return err
		}
		defer rows.Close()
		var e error
		out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Material])
		return e
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMaterialNotFound
		}
		return nil, fmt.Errorf("failed to set approval status: %w", err)
	}
	return &out, nil
}

// Delete deletes a material by ID. Comments cascade at the schema level.
func (r *MaterialRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM materials WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete material: %w", err)
	}
	return rows > 0, nil
}

// AddComment appends a note to a material's review thread.
func (r *MaterialRepo) AddComment(ctx context.Context, params core.AddCommentParams) (*model.Comment, error) {
	if params.MaterialID == "" {
		return nil, errors.New("material_id is required")
	}
	if strings.TrimSpace(params.Message) == "" {
		return nil, errors.New("message is required")
	}

	var out model.Comment
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO material_comments (material_id, author_id, author_name, message, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, material_id, author_id, author_name, message, created_at`,
			params.MaterialID,
			params.AuthorID,
			params.AuthorName,
			strings.TrimSpace(params.Message),
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Comment])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}
	return &out, nil
}

// ListComments returns a material's comment thread, oldest first.
func (r *MaterialRepo) ListComments(ctx context.Context, materialID string) ([]*model.Comment, error) {
	var rowsOut []model.Comment
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id, material_id, author_id, author_name, message, created_at
			FROM material_comments
			WHERE material_id = $1
			ORDER BY created_at ASC`, materialID)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Comment])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	res := make([]*model.Comment, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// --- helpers ---

const materialColumnList = `id, client_id, title, description, file_url, file_type, thumbnail_url, scheduled_date, status, approval_status, created_at, updated_at`

const materialGetByIDQuery = `
	SELECT ` + materialColumnList + `
	FROM materials
	WHERE id = $1`

func materialColumns() []string {
	return []string{
		"id",
		"client_id",
		"title",
		"description",
		"file_url",
		"file_type",
		"thumbnail_url",
		"scheduled_date",
		"status",
		"approval_status",
		"created_at",
		"updated_at",
	}
}
