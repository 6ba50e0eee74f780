package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/clientus/portal/internal/domain/model"
	"github.com/clientus/portal/internal/mocks"
)

// newDashboardService creates mock repositories and a service for testing.
func newDashboardService(t *testing.T) (dashboardMocks, *DashboardService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := dashboardMocks{
		accounts:  mocks.NewMockAccountRepository(ctrl),
		materials: mocks.NewMockMaterialRepository(ctrl),
		campaigns: mocks.NewMockCampaignRepository(ctrl),
		notes:     mocks.NewMockNotificationRepository(ctrl),
	}

	service := NewDashboardService(DashboardServiceOptions{
		AccountRepo:      m.accounts,
		MaterialRepo:     m.materials,
		CampaignRepo:     m.campaigns,
		NotificationRepo: m.notes,
	})

	return m, service
}

type dashboardMocks struct {
	accounts  *mocks.MockAccountRepository
	materials *mocks.MockMaterialRepository
	campaigns *mocks.MockCampaignRepository
	notes     *mocks.MockNotificationRepository
}

func TestDashboardService_ForClient_AggregatesAll(t *testing.T) {
	t.Parallel()
	m, service := newDashboardService(t)

	clientID := testAccountID
	recent := []*model.Material{{ID: "m1"}, {ID: "m2"}}

	// The fans run concurrently off a derived context.
	m.materials.EXPECT().
		CountPendingApproval(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, id *string) (int, error) {
			require.NotNil(t, id)
			assert.Equal(t, clientID, *id)
			return 3, nil
		}).
		Times(1)
	m.campaigns.EXPECT().
		CountByStatus(gomock.Any(), gomock.Any()).
		Return(map[string]int{"active": 2, "paused": 1}, nil).
		Times(1)
	m.notes.EXPECT().
		CountUnread(gomock.Any(), clientID).
		Return(5, nil).
		Times(1)
	m.materials.EXPECT().
		List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, opts model.MaterialListOptions) ([]*model.Material, error) {
			assert.Equal(t, 5, opts.Limit)
			require.NotNil(t, opts.ClientID)
			return recent, nil
		}).
		Times(1)
	m.campaigns.EXPECT().
		List(gomock.Any(), gomock.Any()).
		Return([]*model.Campaign{
			{Metrics: model.CampaignMetrics{Impressions: 1000, Clicks: 40, Spent: 100, Conversions: 4}},
			{Metrics: model.CampaignMetrics{Impressions: 3000, Clicks: 60, Spent: 300, Conversions: 6}},
		}, nil).
		Times(1)

	result, err := service.ForClient(context.Background(), clientID)

	require.NoError(t, err)
	assert.Equal(t, 3, result.PendingMaterials)
	assert.Equal(t, 2, result.ActiveCampaigns)
	assert.Equal(t, map[string]int{"active": 2, "paused": 1}, result.CampaignsByStatus)
	assert.Equal(t, 5, result.UnreadNotifications)
	assert.Equal(t, recent, result.RecentMaterials)
	assert.Equal(t, int64(4000), result.Totals.Impressions)
	assert.Equal(t, int64(100), result.Totals.Clicks)
	assert.InDelta(t, 400.0, result.Totals.Spent, 0.001)
	assert.Equal(t, int64(10), result.Totals.Conversions)
	assert.InDelta(t, 2.5, result.Totals.CTR, 0.001)
}

func TestDashboardService_ForClient_ErrorPropagates(t *testing.T) {
	t.Parallel()
	m, service := newDashboardService(t)

	m.materials.EXPECT().
		CountPendingApproval(gomock.Any(), gomock.Any()).
		Return(0, errors.New("query failed")).
		Times(1)
	m.campaigns.EXPECT().
		CountByStatus(gomock.Any(), gomock.Any()).
		Return(map[string]int{}, nil).
		AnyTimes()
	m.notes.EXPECT().
		CountUnread(gomock.Any(), gomock.Any()).
		Return(0, nil).
		AnyTimes()
	m.materials.EXPECT().
		List(gomock.Any(), gomock.Any()).
		Return(nil, nil).
		AnyTimes()
	m.campaigns.EXPECT().
		List(gomock.Any(), gomock.Any()).
		Return(nil, nil).
		AnyTimes()

	result, err := service.ForClient(context.Background(), testAccountID)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "query failed")
}

func TestDashboardService_ForAdmin_AggregatesAll(t *testing.T) {
	t.Parallel()
	m, service := newDashboardService(t)

	recent := []*model.Material{{ID: "m1"}}

	m.accounts.EXPECT().
		CountByStatus(gomock.Any()).
		Return(map[string]int{"active": 7, "pending": 2, "inactive": 1}, nil).
		Times(1)
	m.materials.EXPECT().
		CountPendingApproval(gomock.Any(), gomock.Nil()).
		Return(4, nil).
		Times(1)
	m.campaigns.EXPECT().
		CountByStatus(gomock.Any(), gomock.Nil()).
		Return(map[string]int{"active": 6, "draft": 2}, nil).
		Times(1)
	m.materials.EXPECT().
		List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, opts model.MaterialListOptions) ([]*model.Material, error) {
			assert.Equal(t, 8, opts.Limit)
			assert.Nil(t, opts.ClientID)
			return recent, nil
		}).
		Times(1)

	result, err := service.ForAdmin(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 10, result.TotalClients)
	assert.Equal(t, map[string]int{"active": 7, "pending": 2, "inactive": 1}, result.ClientsByStatus)
	assert.Equal(t, 4, result.PendingMaterials)
	assert.Equal(t, 6, result.ActiveCampaigns)
	assert.Equal(t, recent, result.RecentMaterials)
}

func TestDashboardService_ForAdmin_ErrorPropagates(t *testing.T) {
	t.Parallel()
	m, service := newDashboardService(t)

	m.accounts.EXPECT().
		CountByStatus(gomock.Any()).
		Return(nil, errors.New("accounts query failed")).
		Times(1)
	m.materials.EXPECT().
		CountPendingApproval(gomock.Any(), gomock.Any()).
		Return(0, nil).
		AnyTimes()
	m.campaigns.EXPECT().
		CountByStatus(gomock.Any(), gomock.Any()).
		Return(map[string]int{}, nil).
		AnyTimes()
	m.materials.EXPECT().
		List(gomock.Any(), gomock.Any()).
		Return(nil, nil).
		AnyTimes()

	result, err := service.ForAdmin(context.Background())

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "accounts query failed")
}
