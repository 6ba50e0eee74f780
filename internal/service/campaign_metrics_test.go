package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMetrics_GoogleAds_ConvertsMicros(t *testing.T) {
	t.Parallel()
	payload := map[string]any{
		"metrics": map[string]any{
			"impressions": float64(50000),
			"clicks":      float64(1200),
			"cost_micros": float64(2_345_000_000),
			"conversions": float64(37),
		},
	}

	metrics, err := ExtractMetrics("google_ads", payload)

	require.NoError(t, err)
	assert.Equal(t, int64(50000), metrics.Impressions)
	assert.Equal(t, int64(1200), metrics.Clicks)
	assert.InDelta(t, 2345.0, metrics.Spent, 0.001)
	assert.Equal(t, int64(37), metrics.Conversions)
	assert.InDelta(t, 2.4, metrics.CTR, 0.001)
	assert.InDelta(t, 1.95, metrics.CPC, 0.01)
}

func TestExtractMetrics_MetaAds_PurchaseAction(t *testing.T) {
	t.Parallel()
	payload := map[string]any{
		"data": []any{
			map[string]any{
				"impressions": "182400",
				"clicks":      "5310",
				"spend":       "2860.45",
				"actions": []any{
					map[string]any{"action_type": "link_click", "value": "5310"},
					map[string]any{"action_type": "purchase", "value": "212"},
				},
			},
		},
	}

	metrics, err := ExtractMetrics("meta_ads", payload)

	require.NoError(t, err)
	assert.Equal(t, int64(182400), metrics.Impressions)
	assert.Equal(t, int64(5310), metrics.Clicks)
	assert.InDelta(t, 2860.45, metrics.Spent, 0.001)
	assert.Equal(t, int64(212), metrics.Conversions)
}

func TestExtractMetrics_LinkedInAds(t *testing.T) {
	t.Parallel()
	payload := map[string]any{
		"elements": []any{
			map[string]any{
				"impressions":                float64(34000),
				"clicks":                     float64(420),
				"costInLocalCurrency":        "980.50",
				"externalWebsiteConversions": float64(18),
			},
		},
	}

	metrics, err := ExtractMetrics("linkedin_ads", payload)

	require.NoError(t, err)
	assert.Equal(t, int64(34000), metrics.Impressions)
	assert.Equal(t, int64(420), metrics.Clicks)
	assert.InDelta(t, 980.50, metrics.Spent, 0.001)
	assert.Equal(t, int64(18), metrics.Conversions)
}

func TestExtractMetrics_UnknownPlatform_UsesRootFields(t *testing.T) {
	t.Parallel()
	payload := map[string]any{
		"impressions": float64(100),
		"clicks":      float64(10),
		"spent":       float64(25.5),
		"conversions": float64(2),
	}

	metrics, err := ExtractMetrics("tiktok_ads", payload)

	require.NoError(t, err)
	assert.Equal(t, int64(100), metrics.Impressions)
	assert.Equal(t, int64(10), metrics.Clicks)
	assert.InDelta(t, 25.5, metrics.Spent, 0.001)
	assert.Equal(t, int64(2), metrics.Conversions)
}

func TestExtractMetrics_FractionalCountersRound(t *testing.T) {
	t.Parallel()
	payload := map[string]any{
		"impressions": float64(100),
		"clicks":      float64(10),
		"spent":       float64(50),
		"conversions": "12.6",
	}

	metrics, err := ExtractMetrics("tiktok_ads", payload)

	require.NoError(t, err)
	assert.Equal(t, int64(13), metrics.Conversions)

	payload["conversions"] = float64(12.4)
	metrics, err = ExtractMetrics("tiktok_ads", payload)

	require.NoError(t, err)
	assert.Equal(t, int64(12), metrics.Conversions)
}

func TestExtractMetrics_PlatformNameIsNormalized(t *testing.T) {
	t.Parallel()
	payload := map[string]any{
		"metrics": map[string]any{
			"impressions": float64(10),
			"clicks":      float64(1),
			"cost_micros": float64(1_000_000),
			"conversions": float64(0),
		},
	}

	metrics, err := ExtractMetrics("  Google_Ads  ", payload)

	require.NoError(t, err)
	assert.InDelta(t, 1.0, metrics.Spent, 0.001)
}

func TestExtractMetrics_MissingFieldsReadAsZero(t *testing.T) {
	t.Parallel()
	metrics, err := ExtractMetrics("meta_ads", map[string]any{"data": []any{map[string]any{}}})

	require.NoError(t, err)
	assert.Zero(t, metrics.Impressions)
	assert.Zero(t, metrics.Clicks)
	assert.Zero(t, metrics.Spent)
	assert.Zero(t, metrics.Conversions)
	assert.Zero(t, metrics.CTR)
}

func TestExtractMetrics_UnparsableString(t *testing.T) {
	t.Parallel()
	payload := map[string]any{
		"impressions": "not-a-number",
	}

	_, err := ExtractMetrics("other", payload)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "impressions")
	assert.Contains(t, err.Error(), "cannot parse")
}

func TestExtractMetrics_UnexpectedValueType(t *testing.T) {
	t.Parallel()
	payload := map[string]any{
		"impressions": float64(10),
		"clicks":      float64(1),
		"spent":       map[string]any{"amount": 10},
		"conversions": float64(0),
	}

	_, err := ExtractMetrics("other", payload)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "spent")
	assert.Contains(t, err.Error(), "unexpected value type")
}

func TestExtractMetrics_RecomputesDerivedFields(t *testing.T) {
	t.Parallel()
	payload := map[string]any{
		"impressions": float64(200000),
		"clicks":      float64(4000),
		"spent":       float64(1000),
		"conversions": float64(50),
	}

	metrics, err := ExtractMetrics("other", payload)

	require.NoError(t, err)
	assert.InDelta(t, 2.0, metrics.CTR, 0.001)
	assert.InDelta(t, 0.25, metrics.CPC, 0.001)
	assert.InDelta(t, 5.0, metrics.CPM, 0.001)
}
