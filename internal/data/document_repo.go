package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/clientus/portal/internal/data/database"
	"github.com/clientus/portal/internal/data/pgxutil"
	"github.com/clientus/portal/internal/domain/model"
)

// DocumentRepo provides database operations for the document library.
type DocumentRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewDocumentRepo creates a new DocumentRepo with real time provider.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewDocumentRepoWithTimeProvider creates a new DocumentRepo with a custom time provider (useful for tests).
func NewDocumentRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *DocumentRepo {
	return &DocumentRepo{DB: db, timeProvider: tp}
}

// Create inserts a new document library entry.
func (r *DocumentRepo) Create(ctx context.Context, req *model.CreateDocumentRequest) (*model.Document, error) {
	if req == nil {
		return nil, errors.New("create document request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.Document
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO documents (client_id, name, file_url, file_type, category, size_bytes, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING `+documentColumnList,
			req.ClientID,
			strings.TrimSpace(req.Name),
			strings.TrimSpace(req.FileURL),
			strings.TrimSpace(req.FileType),
			req.Category,
			req.SizeBytes,
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Document])
		return err
	}); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return nil, fmt.Errorf("client %s: %w", req.ClientID, ErrAccountNotFound)
		}
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	return &out, nil
}

// GetByID retrieves a document by ID.
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*model.Document, error) {
	var doc model.Document
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, documentGetByIDQuery, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		doc, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Document])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to get document by ID: %w", err)
	}
	return &doc, nil
}

// List retrieves documents with optional filters and pagination.
func (r *DocumentRepo) List(ctx context.Context, opts model.DocumentListOptions) ([]*model.Document, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	queryOpts := []database.ListQueryOption{
		database.WithColumns(documentColumns()...),
		database.WithLimit(limit),
		database.WithOffset(offset),
		database.WithOrderBy("created_at", sortDirDesc),
	}
	if opts.ClientID != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("client_id", database.Equal, *opts.ClientID),
		))
	}
	if opts.Category != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("category", database.Equal, *opts.Category),
		))
	}
	query, args := database.BuildListQuery(database.NewListQueryOptions("documents", queryOpts...))

	var rowsOut []model.Document
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Document])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	res := make([]*model.Document, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Update updates a document's metadata by ID.
func (r *DocumentRepo) Update(
	ctx context.Context,
	id string,
	req model.UpdateDocumentRequest,
) (*model.Document, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.Document
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		setClause, args := r.buildUpdateClause(req)
		args = append(args, id)
		query := "UPDATE documents SET " + setClause + " WHERE id = $" + strconv.Itoa(len(args)) +
			" RETURNING " + documentColumnList
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		var e error
		out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Document])
		return e
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to update document: %w", err)
	}
	return &out, nil
}

func (r *DocumentRepo) buildUpdateClause(req model.UpdateDocumentRequest) (string, []any) {
	setParts := make([]string, 0, 5)
	args := make([]any, 0, 6)
	nextIdx := func() int { return len(args) + 1 }

	if req.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Name))
	}
	if req.FileURL != nil {
		setParts = append(setParts, fmt.Sprintf("file_url = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.FileURL))
	}
	if req.FileType != nil {
		setParts = append(setParts, fmt.Sprintf("file_type = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.FileType))
	}
	if req.Category != nil {
		setParts = append(setParts, fmt.Sprintf("category = $%d", nextIdx()))
		args = append(args, *req.Category)
	}
	if req.SizeBytes != nil {
		setParts = append(setParts, fmt.Sprintf("size_bytes = $%d", nextIdx()))
		args = append(args, *req.SizeBytes)
	}

	return strings.Join(setParts, ", "), args
}

// Delete deletes a document by ID.
func (r *DocumentRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete document: %w", err)
	}
	return rows > 0, nil
}

// --- helpers ---

const documentColumnList = `id, client_id, name, file_url, file_type, category, size_bytes, created_at`

const documentGetByIDQuery = `
	SELECT ` + documentColumnList + `
	FROM documents
	WHERE id = $1`

func documentColumns() []string {
	return []string{
		"id",
		"client_id",
		"name",
		"file_url",
		"file_type",
		"category",
		"size_bytes",
		"created_at",
	}
}
