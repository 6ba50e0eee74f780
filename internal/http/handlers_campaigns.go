package httpx

import (
	"errors"
	"net/http"
	"strings"

	"github.com/clientus/portal/internal/data"
	"github.com/clientus/portal/internal/domain/model"
	"github.com/clientus/portal/internal/service"
)

// CampaignHandlers provides HTTP handlers for campaign operations.
// Write operations are admin-only; reads for client sessions go through the
// visibility-filtered service paths.
type CampaignHandlers struct {
	Svc *service.CampaignService
}

const maxCampaignListLimit = 100

// Create handles HTTP requests to create a new campaign.
func (h *CampaignHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateCampaignRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	campaign, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrAccountNotFound):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "unknown_client", Err: err})
		case isValidationError(err):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "create_failed", Err: err})
		}
		return
	}

	WriteJSON(w, http.StatusCreated, campaign)
}

// List handles HTTP requests to list campaigns. Client sessions only see
// their own campaigns, with metrics filtered to their allowlist.
func (h *CampaignHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, maxCampaignListLimit)

	opts := model.CampaignListOptions{Limit: limit, Offset: offset}
	if raw := r.URL.Query().Get("status"); raw != "" {
		if status, ok := model.ParseCampaignStatus(raw); ok {
			opts.Status = &status
		}
	}
	if platform := strings.TrimSpace(r.URL.Query().Get("platform")); platform != "" {
		opts.Platform = &platform
	}

	var campaigns []*model.Campaign
	var err error
	session := GetSessionFromContext(r.Context())
	if session != nil && !session.IsAdmin() {
		campaigns, err = h.Svc.ListForClient(r.Context(), session.UserID, opts)
	} else {
		if clientID := strings.TrimSpace(r.URL.Query().Get("client_id")); clientID != "" {
			opts.ClientID = &clientID
		}
		campaigns, err = h.Svc.List(r.Context(), opts)
	}
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"campaigns": campaigns,
		"limit":     limit,
		"offset":    offset,
	})
}

// GetByID handles HTTP requests to get a campaign by ID.
func (h *CampaignHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("campaign id is required")},
		)
		return
	}

	var campaign *model.Campaign
	var err error
	session := GetSessionFromContext(r.Context())
	if session != nil && !session.IsAdmin() {
		campaign, err = h.Svc.GetForClient(r.Context(), id, session.UserID)
	} else {
		campaign, err = h.Svc.GetByID(r.Context(), id)
	}
	if err != nil {
		if errors.Is(err, data.ErrCampaignNotFound) || errors.Is(err, service.ErrNotOwned) {
			WriteError(w, ErrorParams{
				Code:    http.StatusNotFound,
				ErrCode: "campaign_not_found",
				Err:     errors.New("campaign not found"),
			})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "get_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, campaign)
}

// Update handles HTTP requests to update a campaign.
func (h *CampaignHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("campaign id is required")},
		)
		return
	}

	var req model.UpdateCampaignRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	campaign, err := h.Svc.Update(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrCampaignNotFound):
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "campaign_not_found", Err: err})
		case isValidationError(err):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "update_failed", Err: err})
		}
		return
	}

	WriteJSON(w, http.StatusOK, campaign)
}

// ImportMetrics handles HTTP requests to ingest a raw vendor metrics payload.
// The platform mapping extracts raw counters and the derived rates are
// recomputed before the snapshot is stored.
func (h *CampaignHandlers) ImportMetrics(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("campaign id is required")},
		)
		return
	}

	var req model.ImportMetricsRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	campaign, err := h.Svc.ImportMetrics(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrCampaignNotFound):
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "campaign_not_found", Err: err})
		case isValidationError(err):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "import_failed", Err: err})
		}
		return
	}

	WriteJSON(w, http.StatusOK, campaign)
}

// Delete handles HTTP requests to delete a campaign.
func (h *CampaignHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("campaign id is required")},
		)
		return
	}

	deleted, err := h.Svc.Delete(r.Context(), id)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "delete_failed", Err: err})
		return
	}

	if !deleted {
		WriteError(
			w,
			ErrorParams{Code: http.StatusNotFound, ErrCode: "campaign_not_found", Err: errors.New("campaign not found")},
		)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
