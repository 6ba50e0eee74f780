package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/clientus/portal/internal/core"
	"github.com/clientus/portal/internal/domain/model"
)

// DashboardServiceOptions groups dependencies for DashboardService.
type DashboardServiceOptions struct {
	AccountRepo      core.AccountRepository
	MaterialRepo     core.MaterialRepository
	CampaignRepo     core.CampaignRepository
	NotificationRepo core.NotificationRepository
}

// DashboardService aggregates the numbers behind the client and admin
// dashboards. The independent queries run concurrently.
type DashboardService struct {
	accounts  core.AccountRepository
	materials core.MaterialRepository
	campaigns core.CampaignRepository
	notes     core.NotificationRepository
}

// NewDashboardService constructs a new DashboardService.
func NewDashboardService(opts DashboardServiceOptions) *DashboardService {
	return &DashboardService{
		accounts:  opts.AccountRepo,
		materials: opts.MaterialRepo,
		campaigns: opts.CampaignRepo,
		notes:     opts.NotificationRepo,
	}
}

// ClientDashboard is the summary shown on a client's home page.
type ClientDashboard struct {
	PendingMaterials    int
	CampaignsByStatus   map[string]int
	ActiveCampaigns     int
	UnreadNotifications int
	RecentMaterials     []*model.Material
	Totals              model.CampaignMetrics
}

// ForClient builds the dashboard summary for one client account.
func (s *DashboardService) ForClient(ctx context.Context, clientID string) (*ClientDashboard, error) {
	out := &ClientDashboard{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		count, err := s.materials.CountPendingApproval(gctx, &clientID)
		if err != nil {
			return err
		}
		out.PendingMaterials = count
		return nil
	})
	g.Go(func() error {
		counts, err := s.campaigns.CountByStatus(gctx, &clientID)
		if err != nil {
			return err
		}
		out.CampaignsByStatus = counts
		out.ActiveCampaigns = counts[string(model.CampaignStatusActive)]
		return nil
	})
	g.Go(func() error {
		count, err := s.notes.CountUnread(gctx, clientID)
		if err != nil {
			return err
		}
		out.UnreadNotifications = count
		return nil
	})
	g.Go(func() error {
		materials, err := s.materials.List(gctx, model.MaterialListOptions{
			Limit:    5,
			ClientID: &clientID,
		})
		if err != nil {
			return err
		}
		out.RecentMaterials = materials
		return nil
	})
	g.Go(func() error {
		campaigns, err := s.campaigns.List(gctx, model.CampaignListOptions{
			Limit:    100,
			ClientID: &clientID,
		})
		if err != nil {
			return err
		}
		for _, c := range campaigns {
			out.Totals.Impressions += c.Metrics.Impressions
			out.Totals.Clicks += c.Metrics.Clicks
			out.Totals.Spent += c.Metrics.Spent
			out.Totals.Conversions += c.Metrics.Conversions
		}
		out.Totals.Recompute()
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// AdminDashboard is the agency-wide summary shown to administrators.
type AdminDashboard struct {
	ClientsByStatus   map[string]int
	TotalClients      int
	PendingMaterials  int
	CampaignsByStatus map[string]int
	ActiveCampaigns   int
	RecentMaterials   []*model.Material
}

// ForAdmin builds the agency-wide dashboard summary.
func (s *DashboardService) ForAdmin(ctx context.Context) (*AdminDashboard, error) {
	out := &AdminDashboard{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		counts, err := s.accounts.CountByStatus(gctx)
		if err != nil {
			return err
		}
		out.ClientsByStatus = counts
		for _, n := range counts {
			out.TotalClients += n
		}
		return nil
	})
	g.Go(func() error {
		count, err := s.materials.CountPendingApproval(gctx, nil)
		if err != nil {
			return err
		}
		out.PendingMaterials = count
		return nil
	})
	g.Go(func() error {
		counts, err := s.campaigns.CountByStatus(gctx, nil)
		if err != nil {
			return err
		}
		out.CampaignsByStatus = counts
		out.ActiveCampaigns = counts[string(model.CampaignStatusActive)]
		return nil
	})
	g.Go(func() error {
		materials, err := s.materials.List(gctx, model.MaterialListOptions{Limit: 8})
		if err != nil {
			return err
		}
		out.RecentMaterials = materials
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
