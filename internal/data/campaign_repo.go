package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/clientus/portal/internal/data/database"
	"github.com/clientus/portal/internal/data/pgxutil"
	"github.com/clientus/portal/internal/domain/model"
)

// CampaignRepo provides database operations for advertising campaigns.
// Metrics live in a JSONB column; derived fields are recomputed before
// every metrics write.
type CampaignRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewCampaignRepo creates a new CampaignRepo with real time provider.
func NewCampaignRepo(db *sql.DB) *CampaignRepo {
	return &CampaignRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewCampaignRepoWithTimeProvider creates a new CampaignRepo with a custom time provider (useful for tests).
func NewCampaignRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *CampaignRepo {
	return &CampaignRepo{DB: db, timeProvider: tp}
}

// Create inserts a new campaign with zeroed metrics.
func (r *CampaignRepo) Create(ctx context.Context, req *model.CreateCampaignRequest) (*model.Campaign, error) {
	if req == nil {
		return nil, errors.New("create campaign request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	createdAt := r.timeProvider.Now().UTC()
	var out model.Campaign
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO campaigns (
				client_id, name, platform, status, budget, start_date, end_date, metrics, created_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9
			) RETURNING `+campaignColumnList,
			req.ClientID,
			strings.TrimSpace(req.Name),
			strings.TrimSpace(req.Platform),
			req.Status,
			req.Budget,
			req.StartDate,
			req.EndDate,
			model.CampaignMetrics{},
			createdAt,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Campaign])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}
	return &out, nil
}

// GetByID retrieves a campaign by ID.
func (r *CampaignRepo) GetByID(ctx context.Context, id string) (*model.Campaign, error) {
	var campaign model.Campaign
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, campaignGetByIDQuery, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		campaign, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Campaign])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCampaignNotFound
		}
		return nil, fmt.Errorf("failed to get campaign by ID: %w", err)
	}
	return &campaign, nil
}

// List retrieves campaigns with optional filters and pagination.
func (r *CampaignRepo) List(ctx context.Context, opts model.CampaignListOptions) ([]*model.Campaign, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	queryOpts := []database.ListQueryOption{
		database.WithColumns(campaignColumns()...),
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
	if opts.Platform != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("platform", database.Equal, *opts.Platform),
		))
	}
	query, args := database.BuildListQuery(database.NewListQueryOptions("campaigns", queryOpts...))

	var rowsOut []model.Campaign
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Campaign])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}

	res := make([]*model.Campaign, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// CountByStatus returns campaign counts grouped by status, optionally scoped to one client.
func (r *CampaignRepo) CountByStatus(ctx context.Context, clientID *string) (map[string]int, error) {
	query := `SELECT status, COUNT(*) FROM campaigns GROUP BY status`
	args := []any{}
	if clientID != nil {
		query = `SELECT status, COUNT(*) FROM campaigns WHERE client_id = $1 GROUP BY status`
		args = append(args, *clientID)
	}

	counts := make(map[string]int)
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
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
		return nil, fmt.Errorf("failed to count campaigns by status: %w", err)
	}
	return counts, nil
}

// Update updates fields of a campaign. Metrics go through UpdateMetrics.
func (r *CampaignRepo) Update(
	ctx context.Context,
	id string,
	req model.UpdateCampaignRequest,
) (*model.Campaign, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.Campaign
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		setClause, args := r.buildUpdateClause(req)
		args = append(args, id)
		query := "UPDATE campaigns SET " + setClause + " WHERE id = $" + strconv.Itoa(len(args)) +
			" RETURNING " + campaignColumnList
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		var e error
		out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Campaign])
		return e
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCampaignNotFound
		}
		return nil, fmt.Errorf("failed to update campaign: %w", err)
	}
	return &out, nil
}

func (r *CampaignRepo) buildUpdateClause(req model.UpdateCampaignRequest) (string, []any) {
	setParts := make([]string, 0, 7)
	args := make([]any, 0, 8)
	nextIdx := func() int { return len(args) + 1 }

	if req.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Name))
	}
	if req.Platform != nil {
		setParts = append(setParts, fmt.Sprintf("platform = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Platform))
	}
	if req.Status != nil {
		setParts = append(setParts, fmt.Sprintf("status = $%d", nextIdx()))
		args = append(args, *req.Status)
	}
	if req.Budget != nil {
		setParts = append(setParts, fmt.Sprintf("budget = $%d", nextIdx()))
		args = append(args, *req.Budget)
	}
	if req.StartDate != nil {
		setParts = append(setParts, fmt.Sprintf("start_date = $%d", nextIdx()))
		args = append(args, *req.StartDate)
	}
	if req.EndDate != nil {
		setParts = append(setParts, fmt.Sprintf("end_date = $%d", nextIdx()))
		args = append(args, *req.EndDate)
	}
	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())

	return strings.Join(setParts, ", "), args
}

// UpdateMetrics replaces a campaign's metrics snapshot. Derived fields are
// recomputed here so stored CTR/CPC/CPM always agree with the counters.
func (r *CampaignRepo) UpdateMetrics(
	ctx context.Context,
	id string,
	metrics model.CampaignMetrics,
) (*model.Campaign, error) {
	metrics.Recompute()

	var out model.Campaign
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE campaigns SET metrics = $1, updated_at = $2
			WHERE id = $3
			RETURNING `+campaignColumnList,
			metrics, r.timeProvider.Now().UTC(), id)
		if err != nil {
			return err
		}
		defer rows.Close()
		var e error
		out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Campaign])
		return e
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCampaignNotFound
		}
		return nil, fmt.Errorf("failed to update campaign metrics: %w", err)
	}
	return &out, nil
}

// Delete deletes a campaign by ID.
func (r *CampaignRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete campaign: %w", err)
	}
	return rows > 0, nil
}

// --- helpers ---

const campaignColumnList = `id, client_id, name, platform, status, budget, start_date, end_date, metrics, created_at, updated_at`

const campaignGetByIDQuery = `
	SELECT ` + campaignColumnList + `
	FROM campaigns
	WHERE id = $1`

func campaignColumns() []string {
	return []string{
		"id",
		"client_id",
		"name",
		"platform",
		"status",
		"budget",
		"start_date",
		"end_date",
		"metrics",
		"created_at",
		"updated_at",
	}
}
