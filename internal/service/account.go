package service

import (
	"context"

	"github.com/clientus/portal/internal/core"
	domainauth "github.com/clientus/portal/internal/domain/auth"
	"github.com/clientus/portal/internal/domain/model"
)

// AccountServiceOptions groups dependencies for AccountService.
type AccountServiceOptions struct {
	AccountRepo   core.AccountRepository
	Notifications core.NotificationRepository
}

// AccountService orchestrates account CRUD. Client accounts get a welcome
// notification on creation; the notification write is best-effort.
type AccountService struct {
	accounts core.AccountRepository
	notes    core.NotificationRepository
}

// NewAccountService constructs a new AccountService.
func NewAccountService(opts AccountServiceOptions) *AccountService {
	return &AccountService{accounts: opts.AccountRepo, notes: opts.Notifications}
}

// Create creates an account and seeds a welcome notification for clients.
func (s *AccountService) Create(ctx context.Context, req *model.CreateAccountRequest) (*model.Account, error) {
	account, err := s.accounts.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	if s.notes != nil && account.Role == domainauth.RoleClient {
		// Welcome note failure must not fail account creation.
		_, _ = s.notes.Create(ctx, &model.CreateNotificationRequest{
			AccountID: account.ID,
			Title:     "Bem-vindo ao portal",
			Message:   "Sua conta foi criada. Acompanhe materiais, campanhas e documentos por aqui.",
			Type:      model.NotifyInfo,
		})
	}
	return account, nil
}

// GetByID retrieves an account by ID.
func (s *AccountService) GetByID(ctx context.Context, id string) (*model.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

// GetByEmail retrieves an account by email.
func (s *AccountService) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	return s.accounts.GetByEmail(ctx, email)
}

// List returns accounts using optional filters.
func (s *AccountService) List(ctx context.Context, opts model.AccountListOptions) ([]*model.Account, error) {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	return s.accounts.List(ctx, opts)
}

// ListClients returns client accounts only, honoring the remaining filters.
func (s *AccountService) ListClients(ctx context.Context, opts model.AccountListOptions) ([]*model.Account, error) {
	role := domainauth.RoleClient
	opts.Role = &role
	return s.List(ctx, opts)
}

// CountByStatus returns client account counts grouped by status.
func (s *AccountService) CountByStatus(ctx context.Context) (map[string]int, error) {
	return s.accounts.CountByStatus(ctx)
}

// Update updates an account.
func (s *AccountService) Update(ctx context.Context, id string, req model.UpdateAccountRequest) (*model.Account, error) {
	return s.accounts.Update(ctx, id, req)
}

// Delete deletes an account.
func (s *AccountService) Delete(ctx context.Context, id string) (bool, error) {
	return s.accounts.Delete(ctx, id)
}
