package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCampaignStatus(t *testing.T) {
	status, ok := ParseCampaignStatus("Active")
	assert.True(t, ok)
	assert.Equal(t, CampaignStatusActive, status)

	status, ok = ParseCampaignStatus(" paused ")
	assert.True(t, ok)
	assert.Equal(t, CampaignStatusPaused, status)

	_, ok = ParseCampaignStatus("unknown")
	assert.False(t, ok)
}

func TestCampaignMetrics_Recompute(t *testing.T) {
	m := CampaignMetrics{
		Impressions: 200000,
		Clicks:      4000,
		Spent:       1000,
		Conversions: 50,
	}

	m.Recompute()

	assert.InDelta(t, 2.0, m.CTR, 0.001)
	assert.InDelta(t, 0.25, m.CPC, 0.001)
	assert.InDelta(t, 5.0, m.CPM, 0.001)
}

func TestCampaignMetrics_Recompute_ZeroCountersClearDerived(t *testing.T) {
	m := CampaignMetrics{CTR: 9, CPC: 9, CPM: 9}

	m.Recompute()

	assert.Zero(t, m.CTR)
	assert.Zero(t, m.CPC)
	assert.Zero(t, m.CPM)
}

func TestCampaignMetrics_Recompute_RoundsToTwoDecimals(t *testing.T) {
	m := CampaignMetrics{Impressions: 3, Clicks: 1, Spent: 1}

	m.Recompute()

	assert.Equal(t, 33.33, m.CTR)
	assert.Equal(t, 1.0, m.CPC)
	assert.Equal(t, 333.33, m.CPM)
}

func TestCampaignMetrics_Filtered(t *testing.T) {
	m := CampaignMetrics{
		Impressions: 1000,
		Clicks:      50,
		CTR:         5,
		Spent:       200,
		Conversions: 8,
		CPC:         4,
		CPM:         200,
	}

	out := m.Filtered([]string{MetricImpressions, MetricCTR, MetricCPM})

	assert.Equal(t, int64(1000), out.Impressions)
	assert.InDelta(t, 5.0, out.CTR, 0.001)
	assert.InDelta(t, 200.0, out.CPM, 0.001)
	assert.Zero(t, out.Clicks)
	assert.Zero(t, out.Spent)
	assert.Zero(t, out.Conversions)
	assert.Zero(t, out.CPC)
}

func TestCampaignMetrics_Filtered_EmptyAllowlistHidesEverything(t *testing.T) {
	m := CampaignMetrics{Impressions: 1000, Clicks: 50, Spent: 200}

	out := m.Filtered(nil)

	assert.Equal(t, CampaignMetrics{}, out)
}

func TestCreateCampaignRequest_Validate(t *testing.T) {
	req := CreateCampaignRequest{
		ClientID: "client-1",
		Name:     "Campanha de tráfego",
		Platform: "Meta Ads",
		Budget:   5000,
	}

	err := req.Validate()

	require.NoError(t, err)
	assert.Equal(t, CampaignStatusDraft, req.Status)
}

func TestCreateCampaignRequest_Validate_Errors(t *testing.T) {
	now := time.Now()
	earlier := now.Add(-time.Hour)

	cases := []struct {
		name string
		req  CreateCampaignRequest
		want string
	}{
		{"missing client", CreateCampaignRequest{Name: "x", Platform: "p"}, "client_id is required"},
		{"missing name", CreateCampaignRequest{ClientID: "c", Platform: "p"}, "name is required"},
		{"missing platform", CreateCampaignRequest{ClientID: "c", Name: "x"}, "platform is required"},
		{"negative budget", CreateCampaignRequest{ClientID: "c", Name: "x", Platform: "p", Budget: -1}, "budget cannot be negative"},
		{"bad status", CreateCampaignRequest{ClientID: "c", Name: "x", Platform: "p", Status: "running"}, "invalid status"},
		{"end before start", CreateCampaignRequest{ClientID: "c", Name: "x", Platform: "p", StartDate: &now, EndDate: &earlier}, "end_date cannot be before start_date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestUpdateCampaignRequest_Validate(t *testing.T) {
	empty := UpdateCampaignRequest{}
	err := empty.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one field")

	name := "Campanha"
	ok := UpdateCampaignRequest{Name: &name}
	assert.NoError(t, ok.Validate())

	blank := "   "
	bad := UpdateCampaignRequest{Name: &blank}
	require.Error(t, bad.Validate())
}

func TestImportMetricsRequest_Validate(t *testing.T) {
	ok := ImportMetricsRequest{Platform: "meta_ads", Payload: map[string]any{"impressions": 1}}
	assert.NoError(t, ok.Validate())

	noPlatform := ImportMetricsRequest{Payload: map[string]any{"impressions": 1}}
	require.Error(t, noPlatform.Validate())

	noPayload := ImportMetricsRequest{Platform: "meta_ads"}
	require.Error(t, noPayload.Validate())
}
