package service

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/clientus/portal/internal/domain/model"
)

// ErrNotOwned is returned when a client requests a resource belonging to a
// different account.
var ErrNotOwned = errors.New("resource belongs to another account")

// metricPaths maps each portal counter to a JMESPath expression inside a
// platform's export payload. Platforms name their fields differently; the
// mapping keeps ingestion declarative.
type metricPaths struct {
	Impressions string
	Clicks      string
	Spent       string
	Conversions string
}

// platformMappings covers the export shapes of the ad platforms the agency
// runs campaigns on. Unknown platforms fall back to the portal's own field
// names at the payload root.
var platformMappings = map[string]metricPaths{
	"google_ads": {
		Impressions: "metrics.impressions",
		Clicks:      "metrics.clicks",
		Spent:       "metrics.cost_micros",
		Conversions: "metrics.conversions",
	},
	"meta_ads": {
		Impressions: "data[0].impressions",
		Clicks:      "data[0].clicks",
		Spent:       "data[0].spend",
		Conversions: "data[0].actions[?action_type=='purchase'] | [0].value",
	},
	"linkedin_ads": {
		Impressions: "elements[0].impressions",
		Clicks:      "elements[0].clicks",
		Spent:       "elements[0].costInLocalCurrency",
		Conversions: "elements[0].externalWebsiteConversions",
	},
}

var defaultMapping = metricPaths{
	Impressions: "impressions",
	Clicks:      "clicks",
	Spent:       "spent",
	Conversions: "conversions",
}

// ExtractMetrics reads raw counters out of a platform export payload using
// the platform's field mapping and returns a recomputed metrics snapshot.
func ExtractMetrics(platform string, payload map[string]any) (model.CampaignMetrics, error) {
	key := strings.ToLower(strings.TrimSpace(platform))
	mapping, ok := platformMappings[key]
	if !ok {
		mapping = defaultMapping
	}

	var metrics model.CampaignMetrics
	var err error
	if metrics.Impressions, err = searchInt(mapping.Impressions, payload); err != nil {
		return model.CampaignMetrics{}, fmt.Errorf("impressions: %w", err)
	}
	if metrics.Clicks, err = searchInt(mapping.Clicks, payload); err != nil {
		return model.CampaignMetrics{}, fmt.Errorf("clicks: %w", err)
	}
	if metrics.Spent, err = searchFloat(mapping.Spent, payload); err != nil {
		return model.CampaignMetrics{}, fmt.Errorf("spent: %w", err)
	}
	if metrics.Conversions, err = searchInt(mapping.Conversions, payload); err != nil {
		return model.CampaignMetrics{}, fmt.Errorf("conversions: %w", err)
	}

	// Google reports spend in micros.
	if key == "google_ads" {
		metrics.Spent /= 1e6
	}

	metrics.Recompute()
	return metrics, nil
}

// searchFloat evaluates a JMESPath expression and coerces the result to a
// float. Missing fields read as zero; platforms omit counters that are zero.
func searchFloat(path string, payload map[string]any) (float64, error) {
	result, err := jmespath.Search(path, payload)
	if err != nil {
		return 0, fmt.Errorf("evaluate path %q: %w", path, err)
	}
	switch v := result.(type) {
	case nil:
		return 0, nil
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		f, parseErr := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if parseErr != nil {
			return 0, fmt.Errorf("path %q: cannot parse %q as number", path, v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("path %q: unexpected value type %T", path, result)
	}
}

// searchInt reads a counter. Some platforms export fractional counts
// (attributed conversions, for one); those round half away from zero
// instead of truncating.
func searchInt(path string, payload map[string]any) (int64, error) {
	f, err := searchFloat(path, payload)
	if err != nil {
		return 0, err
	}
	return int64(math.Round(f)), nil
}
