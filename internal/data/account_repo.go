package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgerrcode"

	"github.com/clientus/portal/internal/data/database"
	"github.com/clientus/portal/internal/data/pgxutil"
	"github.com/clientus/portal/internal/domain/model"
)

// AccountRepo provides database operations for portal accounts.
type AccountRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewAccountRepo creates a new AccountRepo with real time provider.
func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewAccountRepoWithTimeProvider creates a new AccountRepo with a custom time provider (useful for tests).
func NewAccountRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *AccountRepo {
	return &AccountRepo{DB: db, timeProvider: tp}
}

// Create inserts a new account. Emails are stored lowercased and must be unique.
func (r *AccountRepo) Create(ctx context.Context, req *model.CreateAccountRequest) (*model.Account, error) {
	if req == nil {
		return nil, errors.New("create account request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	visibleMetrics := req.VisibleMetrics
	if visibleMetrics == nil {
		visibleMetrics = []string{}
	}

	createdAt := r.timeProvider.Now().UTC()
	var out model.Account
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO accounts (
				name, email, role, status, contact_person, company, project_type, avatar_url, visible_metrics, created_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
			) RETURNING `+accountColumnList,
			strings.TrimSpace(req.Name),
			strings.ToLower(strings.TrimSpace(req.Email)),
			req.Role,
			req.Status,
			req.ContactPerson,
			req.Company,
			req.ProjectType,
			req.AvatarURL,
			visibleMetrics,
			createdAt,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Account])
		return err
	}); err != nil {
		return nil, r.mapWriteErr(err, false)
	}
	return &out, nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepo) GetByID(ctx context.Context, id string) (*model.Account, error) {
	return r.getByQuery(ctx, accountGetByIDQuery, "failed to get account by ID", id)
}

// GetByEmail retrieves an account by email (case-insensitive).
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	return r.getByQuery(ctx, accountGetByEmailQuery, "failed to get account by email",
		strings.ToLower(strings.TrimSpace(email)))
}

// List retrieves accounts with optional filters and pagination.
func (r *AccountRepo) List(ctx context.Context, opts model.AccountListOptions) ([]*model.Account, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	queryOpts := []database.ListQueryOption{
		database.WithColumns(accountColumns()...),
		database.WithLimit(limit),
		database.WithOffset(offset),
		database.WithOrderBy("created_at", sortDirDesc),
	}
	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("name", database.ILike, "%"+strings.TrimSpace(*opts.Q)+"%"),
		))
	}
	if opts.Status != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("status", database.Equal, *opts.Status),
		))
	}
	if opts.Role != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("role", database.Equal, *opts.Role),
		))
	}
	query, args := database.BuildListQuery(database.NewListQueryOptions("accounts", queryOpts...))

	var rowsOut []model.Account
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Account])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	res := make([]*model.Account, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// CountByStatus returns account counts grouped by status, excluding the admin account.
func (r *AccountRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT status, COUNT(*) FROM accounts WHERE role != 'admin' GROUP BY status`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var status string
			var count int
			if scanErr := rows.Scan(&status, &count); scanErr != nil {
				return scanErr
			}
			counts[status] = count
		}
		return rows.Err()
	}); err != nil {
		return nil, fmt.Errorf("failed to count accounts by status: %w", err)
	}
	return counts, nil
}

// Update updates fields of an account. The role is never touched here.
func (r *AccountRepo) Update(
	ctx context.Context,
	id string,
	req model.UpdateAccountRequest,
) (*model.Account, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.Account
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		setClause, args := r.buildUpdateClause(req)
		args = append(args, id)
		query := "UPDATE accounts SET " + setClause + " WHERE id = $" + strconv.Itoa(len(args)) +
			" RETURNING " + accountColumnList
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		var e error
		out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Account])
		return e
	})
	if err != nil {
		return nil, r.mapWriteErr(err, true)
	}
	return &out, nil
}

func (r *AccountRepo) buildUpdateClause(req model.UpdateAccountRequest) (string, []any) {
	setParts := make([]string, 0, 9)
	args := make([]any, 0, 10)
	nextIdx := func() int { return len(args) + 1 }

	if req.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Name))
	}
	if req.Email != nil {
		setParts = append(setParts, fmt.Sprintf("email = $%d", nextIdx()))
		args = append(args, strings.ToLower(strings.TrimSpace(*req.Email)))
	}
	if req.Status != nil {
		setParts = append(setParts, fmt.Sprintf("status = $%d", nextIdx()))
		args = append(args, *req.Status)
	}
	if req.ContactPerson != nil {
		setParts = append(setParts, fmt.Sprintf("contact_person = $%d", nextIdx()))
		args = append(args, *req.ContactPerson)
	}
	if req.Company != nil {
		setParts = append(setParts, fmt.Sprintf("company = $%d", nextIdx()))
		args = append(args, *req.Company)
	}
	if req.ProjectType != nil {
		setParts = append(setParts, fmt.Sprintf("project_type = $%d", nextIdx()))
		args = append(args, *req.ProjectType)
	}
	if req.AvatarURL != nil {
		setParts = append(setParts, fmt.Sprintf("avatar_url = $%d", nextIdx()))
		args = append(args, *req.AvatarURL)
	}
	if req.VisibleMetrics != nil {
		setParts = append(setParts, fmt.Sprintf("visible_metrics = $%d", nextIdx()))
		args = append(args, req.VisibleMetrics)
	}
	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())

	return strings.Join(setParts, ", "), args
}

// Delete deletes an account by ID.
func (r *AccountRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete account: %w", err)
	}
	return rows > 0, nil
}

// --- helpers ---

const accountColumnList = `id, name, email, role, status, contact_person, company, project_type, avatar_url, visible_metrics, created_at, updated_at`

const (
	accountGetByIDQuery = `
		SELECT ` + accountColumnList + `
		FROM accounts
		WHERE id = $1`

	accountGetByEmailQuery = `
		SELECT ` + accountColumnList + `
		FROM accounts
		WHERE lower(email) = $1`
)

func accountColumns() []string {
	return []string{
		"id",
		"name",
		"email",
		"role",
		"status",
		"contact_person",
		"company",
		"project_type",
		"avatar_url",
		"visible_metrics",
		"created_at",
		"updated_at",
	}
}

func (r *AccountRepo) getByQuery(
	ctx context.Context,
	q string,
	errMsg string,
	args ...any,
) (*model.Account, error) {
	var account model.Account
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		account, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Account])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}
	return &account, nil
}

func (r *AccountRepo) mapWriteErr(err error, includeNotFound bool) error {
	if err == nil {
		return nil
	}
	if includeNotFound && errors.Is(err, pgx.ErrNoRows) {
		return ErrAccountNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrAccountEmailExists
	}
	return err
}
