package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/clientus/portal/internal/core"
	"github.com/clientus/portal/internal/domain/model"
)

// CampaignServiceOptions groups dependencies for CampaignService.
type CampaignServiceOptions struct {
	CampaignRepo  core.CampaignRepository
	AccountRepo   core.AccountRepository
	Notifications core.NotificationRepository
	Logger        *slog.Logger
}

// CampaignService orchestrates campaign CRUD and metrics ingestion from ad
// platform exports. Status changes notify the owning client; notification
// failures are logged, not surfaced.
type CampaignService struct {
	campaigns core.CampaignRepository
	accounts  core.AccountRepository
	notes     core.NotificationRepository
	logger    *slog.Logger
}

// NewCampaignService constructs a new CampaignService.
func NewCampaignService(opts CampaignServiceOptions) *CampaignService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &CampaignService{
		campaigns: opts.CampaignRepo,
		accounts:  opts.AccountRepo,
		notes:     opts.Notifications,
		logger:    logger.With("component", "campaign_service"),
	}
}

// Create creates a campaign.
func (s *CampaignService) Create(ctx context.Context, req *model.CreateCampaignRequest) (*model.Campaign, error) {
	if req != nil && s.accounts != nil {
		if _, err := s.accounts.GetByID(ctx, req.ClientID); err != nil {
			return nil, fmt.Errorf("resolve client: %w", err)
		}
	}
	return s.campaigns.Create(ctx, req)
}

// GetByID retrieves a campaign by ID.
func (s *CampaignService) GetByID(ctx context.Context, id string) (*model.Campaign, error) {
	return s.campaigns.GetByID(ctx, id)
}

// GetForClient retrieves a campaign with metrics filtered to the client
// account's visible_metrics allowlist.
func (s *CampaignService) GetForClient(ctx context.Context, id, clientID string) (*model.Campaign, error) {
	campaign, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if campaign.ClientID != clientID {
		return nil, fmt.Errorf("campaign %s: %w", id, ErrNotOwned)
	}
	return s.applyVisibility(ctx, clientID, campaign)
}

// List returns campaigns using optional filters.
func (s *CampaignService) List(ctx context.Context, opts model.CampaignListOptions) ([]*model.Campaign, error) {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	return s.campaigns.List(ctx, opts)
}

// ListForClient returns one client's campaigns with metrics filtered to the
// account's visible_metrics allowlist.
func (s *CampaignService) ListForClient(ctx context.Context, clientID string, opts model.CampaignListOptions) ([]*model.Campaign, error) {
	opts.ClientID = &clientID
	campaigns, err := s.List(ctx, opts)
	if err != nil {
		return nil, err
	}
	if s.accounts == nil || len(campaigns) == 0 {
		return campaigns, nil
	}
	account, err := s.accounts.GetByID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("resolve client: %w", err)
	}
	for _, c := range campaigns {
		c.Metrics = c.Metrics.Filtered(account.VisibleMetrics)
	}
	return campaigns, nil
}

// CountByStatus returns campaign counts grouped by status, optionally scoped to one client.
func (s *CampaignService) CountByStatus(ctx context.Context, clientID *string) (map[string]int, error) {
	return s.campaigns.CountByStatus(ctx, clientID)
}

// Update updates a campaign. When the update changes the delivery status,
// the owning client is notified of the transition.
func (s *CampaignService) Update(ctx context.Context, id string, req model.UpdateCampaignRequest) (*model.Campaign, error) {
	var previous model.CampaignStatus
	if req.Status != nil {
		current, err := s.campaigns.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		previous = current.Status
	}

	campaign, err := s.campaigns.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}

	if req.Status != nil && campaign.Status != previous {
		s.notify(ctx, campaign.ClientID, statusNotification(campaign))
	}
	return campaign, nil
}

// UpdateMetrics replaces a campaign's raw counters; derived fields are
// recomputed on write.
func (s *CampaignService) UpdateMetrics(ctx context.Context, id string, metrics model.CampaignMetrics) (*model.Campaign, error) {
	return s.campaigns.UpdateMetrics(ctx, id, metrics)
}

// ImportMetrics extracts counters from a raw platform payload and stores
// them on the campaign. The platform name selects the field mapping.
func (s *CampaignService) ImportMetrics(ctx context.Context, id string, req model.ImportMetricsRequest) (*model.Campaign, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	metrics, err := ExtractMetrics(req.Platform, req.Payload)
	if err != nil {
		return nil, fmt.Errorf("extract metrics: %w", err)
	}
	return s.campaigns.UpdateMetrics(ctx, id, metrics)
}

// Delete deletes a campaign.
func (s *CampaignService) Delete(ctx context.Context, id string) (bool, error) {
	return s.campaigns.Delete(ctx, id)
}

func (s *CampaignService) applyVisibility(ctx context.Context, clientID string, campaign *model.Campaign) (*model.Campaign, error) {
	if s.accounts == nil {
		return campaign, nil
	}
	account, err := s.accounts.GetByID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("resolve client: %w", err)
	}
	campaign.Metrics = campaign.Metrics.Filtered(account.VisibleMetrics)
	return campaign, nil
}

func (s *CampaignService) notify(ctx context.Context, accountID string, req *model.CreateNotificationRequest) {
	if s.notes == nil || accountID == "" {
		return
	}
	if _, err := s.notes.Create(ctx, req); err != nil {
		s.logger.WarnContext(ctx, "failed to create notification",
			"account_id", accountID, "err", err)
	}
}

func statusNotification(campaign *model.Campaign) *model.CreateNotificationRequest {
	req := &model.CreateNotificationRequest{AccountID: campaign.ClientID}
	switch campaign.Status {
	case model.CampaignStatusActive:
		req.Title = "Campanha ativada"
		req.Message = fmt.Sprintf("A campanha %q está ativa.", campaign.Name)
		req.Type = model.NotifySuccess
	case model.CampaignStatusPaused:
		req.Title = "Campanha pausada"
		req.Message = fmt.Sprintf("A campanha %q foi pausada.", campaign.Name)
		req.Type = model.NotifyWarning
	case model.CampaignStatusCompleted:
		req.Title = "Campanha concluída"
		req.Message = fmt.Sprintf("A campanha %q foi concluída.", campaign.Name)
		req.Type = model.NotifyInfo
	default:
		req.Title = "Campanha atualizada"
		req.Message = fmt.Sprintf("A campanha %q voltou para rascunho.", campaign.Name)
		req.Type = model.NotifyInfo
	}
	return req
}
