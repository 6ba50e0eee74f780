//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

const maxCampaignNameLen = 255

// CampaignStatus describes the delivery state of an advertising campaign.
type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusPaused    CampaignStatus = "paused"
	CampaignStatusCompleted CampaignStatus = "completed"
)

// Valid reports whether the campaign status is supported.
func (s CampaignStatus) Valid() bool {
	switch s {
	case CampaignStatusDraft, CampaignStatusActive, CampaignStatusPaused, CampaignStatusCompleted:
		return true
	default:
		return false
	}
}

// ParseCampaignStatus normalizes a campaign status string and reports whether it is supported.
func ParseCampaignStatus(value string) (CampaignStatus, bool) {
	s := CampaignStatus(strings.ToLower(strings.TrimSpace(value)))
	if s.Valid() {
		return s, true
	}
	return "", false
}

// Metric name constants used in Account.VisibleMetrics allowlists.
const (
	MetricImpressions = "impressions"
	MetricClicks      = "clicks"
	MetricCTR         = "ctr"
	MetricSpent       = "spent"
	MetricConversions = "conversions"
	MetricCPC         = "cpc"
	MetricCPM         = "cpm"
)

// CampaignMetrics is the per-campaign performance snapshot. Impressions,
// clicks, spend, and conversions are raw counters from the ad platform;
// CTR, CPC, and CPM are derived and recomputed on every write.
type CampaignMetrics struct {
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	CTR         float64 `json:"ctr"`
	Spent       float64 `json:"spent"`
	Conversions int64   `json:"conversions"`
	CPC         float64 `json:"cpc"`
	CPM         float64 `json:"cpm"`
}

// Recompute derives CTR, CPC, and CPM from the raw counters.
func (m *CampaignMetrics) Recompute() {
	m.CTR = 0
	m.CPC = 0
	m.CPM = 0
	if m.Impressions > 0 {
		m.CTR = round2(float64(m.Clicks) / float64(m.Impressions) * 100)
		m.CPM = round2(m.Spent / float64(m.Impressions) * 1000)
	}
	if m.Clicks > 0 {
		m.CPC = round2(m.Spent / float64(m.Clicks))
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// Filtered returns a copy of the metrics with only the named metrics
// populated; everything else is zeroed. Used for client views honoring
// the account's visible_metrics allowlist.
func (m CampaignMetrics) Filtered(visible []string) CampaignMetrics {
	allowed := make(map[string]bool, len(visible))
	for _, v := range visible {
		allowed[v] = true
	}
	var out CampaignMetrics
	if allowed[MetricImpressions] {
		out.Impressions = m.Impressions
	}
	if allowed[MetricClicks] {
		out.Clicks = m.Clicks
	}
	if allowed[MetricCTR] {
		out.CTR = m.CTR
	}
	if allowed[MetricSpent] {
		out.Spent = m.Spent
	}
	if allowed[MetricConversions] {
		out.Conversions = m.Conversions
	}
	if allowed[MetricCPC] {
		out.CPC = m.CPC
	}
	if allowed[MetricCPM] {
		out.CPM = m.CPM
	}
	return out
}

// Campaign represents an advertising campaign run for a client.
type Campaign struct {
	ID        string          `json:"id"                   db:"id"`
	ClientID  string          `json:"client_id"            db:"client_id"`
	Name      string          `json:"name"                 db:"name"`
	Platform  string          `json:"platform"             db:"platform"`
	Status    CampaignStatus  `json:"status"               db:"status"`
	Budget    float64         `json:"budget"               db:"budget"`
	StartDate *time.Time      `json:"start_date,omitempty" db:"start_date"`
	EndDate   *time.Time      `json:"end_date,omitempty"   db:"end_date"`
	Metrics   CampaignMetrics `json:"metrics"              db:"metrics"`
	CreatedAt time.Time       `json:"created_at"           db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"           db:"updated_at"`
}

// CampaignListOptions controls paging and filtering for listing campaigns.
type CampaignListOptions struct {
	Limit    int
	Offset   int
	ClientID *string
	Status   *CampaignStatus
	Platform *string
}

// CreateCampaignRequest represents parameters to create a Campaign.
type CreateCampaignRequest struct {
	ClientID  string         `json:"client_id"`
	Name      string         `json:"name"`
	Platform  string         `json:"platform"`
	Status    CampaignStatus `json:"status,omitempty"`
	Budget    float64        `json:"budget"`
	StartDate *time.Time     `json:"start_date,omitempty"`
	EndDate   *time.Time     `json:"end_date,omitempty"`
}

// UpdateCampaignRequest represents parameters to update a Campaign.
type UpdateCampaignRequest struct {
	Name      *string         `json:"name,omitempty"`
	Platform  *string         `json:"platform,omitempty"`
	Status    *CampaignStatus `json:"status,omitempty"`
	Budget    *float64        `json:"budget,omitempty"`
	StartDate *time.Time      `json:"start_date,omitempty"`
	EndDate   *time.Time      `json:"end_date,omitempty"`
}

// Validate validates CreateCampaignRequest and normalizes defaults.
func (r *CreateCampaignRequest) Validate() error {
	if strings.TrimSpace(r.ClientID) == "" {
		return errors.New("client_id is required")
	}
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return errors.New("name is required and cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxCampaignNameLen {
		return errors.New("name cannot exceed 255 characters")
	}
	if strings.TrimSpace(r.Platform) == "" {
		return errors.New("platform is required")
	}
	if r.Budget < 0 {
		return errors.New("budget cannot be negative")
	}
	if r.Status == "" {
		r.Status = CampaignStatusDraft
	}
	if !r.Status.Valid() {
		return errors.New("invalid status")
	}
	if r.StartDate != nil && r.EndDate != nil && r.EndDate.Before(*r.StartDate) {
		return errors.New("end_date cannot be before start_date")
	}
	return nil
}

// HasUpdates reports whether any field is set in UpdateCampaignRequest.
func (r *UpdateCampaignRequest) HasUpdates() bool {
	return r.Name != nil || r.Platform != nil || r.Status != nil ||
		r.Budget != nil || r.StartDate != nil || r.EndDate != nil
}

// Validate validates UpdateCampaignRequest.
func (r *UpdateCampaignRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return errors.New("name cannot be empty")
	}
	if r.Platform != nil && strings.TrimSpace(*r.Platform) == "" {
		return errors.New("platform cannot be empty")
	}
	if r.Budget != nil && *r.Budget < 0 {
		return errors.New("budget cannot be negative")
	}
	if r.Status != nil && !r.Status.Valid() {
		return errors.New("invalid status")
	}
	return nil
}

// ImportMetricsRequest carries a raw vendor payload for metrics extraction.
// Platform selects the field mapping used to read the payload.
type ImportMetricsRequest struct {
	Platform string         `json:"platform"`
	Payload  map[string]any `json:"payload"`
}

// Validate validates ImportMetricsRequest.
func (r *ImportMetricsRequest) Validate() error {
	if strings.TrimSpace(r.Platform) == "" {
		return errors.New("platform is required")
	}
	if len(r.Payload) == 0 {
		return errors.New("payload is required")
	}
	return nil
}
