package httpx

import (
	"context"
	"net/http"

	"github.com/clientus/portal/internal/domain/model"
)

const errMsgUnableLoadCampaigns = "Não foi possível carregar as campanhas."

// Campaigns serves the client campaign performance page. Metrics are
// filtered to the account's visible_metrics allowlist by the service.
func (h *UIHandlers) Campaigns(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, "/landing", http.StatusSeeOther)
		return
	}

	query := r.URL.Query()
	pageNum, pageSize := getPageParams(query)
	clientID := session.UserID

	var statusFilter *model.CampaignStatus
	if raw := query.Get("status"); raw != "" {
		if status, ok := model.ParseCampaignStatus(raw); ok {
			statusFilter = &status
		}
	}

	builder := NewTemplateData(r, PageMeta{
		Title:       "Clientus - Campanhas",
		PageTitle:   "Campanhas",
		CurrentPage: PageCampaigns,
	})
	builder.With("StatusFilter", query.Get("status"))

	if h.CampaignSvc == nil {
		builder.WithError(errMsgUnableLoadCampaigns)
		h.renderPortalPage(w, r, builder.Build())
		return
	}

	items, hasPrev, hasNext, start, end, err := paginate(r.Context(),
		pageOpts{Page: pageNum, PageSize: pageSize},
		func(ctx context.Context, limit, offset int) ([]*model.Campaign, error) {
			return h.CampaignSvc.ListForClient(ctx, clientID, model.CampaignListOptions{
				Limit:  limit,
				Offset: offset,
				Status: statusFilter,
			})
		})
	if err != nil {
		h.logger().Error("failed to load campaigns for UI", "error", err)
		builder.WithError(errMsgUnableLoadCampaigns)
		h.renderPortalPage(w, r, builder.Build())
		return
	}

	builder.With("Campaigns", items).WithPagination(PaginationData{
		Page:       pageNum,
		PageSize:   pageSize,
		HasPrev:    hasPrev,
		HasNext:    hasNext,
		StartIndex: start,
		EndIndex:   end,
		BasePath:   "/campaigns",
	})
	h.renderPortalPage(w, r, builder.Build())
}

// CampaignDetail renders the metrics panel for one campaign.
func (h *UIHandlers) CampaignDetail(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	id := r.PathValue("id")
	if session == nil || id == "" || h.CampaignSvc == nil {
		h.NotFound(w, r)
		return
	}

	var campaign *model.Campaign
	var err error
	if session.IsAdmin() {
		campaign, err = h.CampaignSvc.GetByID(r.Context(), id)
	} else {
		campaign, err = h.CampaignSvc.GetForClient(r.Context(), id, session.UserID)
	}
	if err != nil {
		// ErrNotOwned and not-found both render the same 404
		h.NotFound(w, r)
		return
	}

	data := basePageData(r, PageMeta{
		Title:       "Clientus - " + campaign.Name,
		PageTitle:   campaign.Name,
		CurrentPage: PageCampaigns,
	})
	data["Campaign"] = campaign

	h.renderFragment(w, r, fragmentRenderOptions{
		Template: "campaign-detail-fragment",
		Data:     data,
	})
}
