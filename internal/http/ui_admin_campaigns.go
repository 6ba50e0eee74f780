package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"maps"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/clientus/portal/internal/data"
	"github.com/clientus/portal/internal/domain/model"
	"github.com/clientus/portal/internal/http/validation"
)

const errMsgUnableLoadAdminCampaigns = "Não foi possível carregar as campanhas."

// campaignPlatforms lists the ad platforms offered in the campaign form.
// Free-text platforms still work through the API; the form keeps a fixed set.
var campaignPlatforms = []string{"Meta Ads", "Google Ads", "TikTok Ads", "LinkedIn Ads"}

// AdminCampaigns serves the agency-wide campaign management page.
func (h *UIHandlers) AdminCampaigns(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	pageNum, pageSize := getPageParams(query)

	opts := model.CampaignListOptions{}
	if clientID := strings.TrimSpace(query.Get("client_id")); clientID != "" {
		opts.ClientID = &clientID
	}
	if raw := query.Get("status"); raw != "" {
		if status, ok := model.ParseCampaignStatus(raw); ok {
			opts.Status = &status
		}
	}

	builder := NewTemplateData(r, PageMeta{
		Title:       "Clientus - Gestão de Campanhas",
		PageTitle:   "Gestão de Campanhas",
		CurrentPage: PageAdminCampaigns,
	})
	builder.With("ClientFilter", query.Get("client_id")).
		With("StatusFilter", query.Get("status"))

	if h.CampaignSvc == nil {
		builder.WithError(errMsgUnableLoadAdminCampaigns)
		h.renderPortalPage(w, r, builder.Build())
		return
	}

	items, hasPrev, hasNext, start, end, err := paginate(r.Context(),
		pageOpts{Page: pageNum, PageSize: pageSize},
		func(ctx context.Context, limit, offset int) ([]*model.Campaign, error) {
			listOpts := opts
			listOpts.Limit = limit
			listOpts.Offset = offset
			return h.CampaignSvc.List(ctx, listOpts)
		})
	if err != nil {
		h.logger().Error("failed to load campaigns for admin UI", "error", err)
		builder.WithError(errMsgUnableLoadAdminCampaigns)
		h.renderPortalPage(w, r, builder.Build())
		return
	}

	builder.With("Campaigns", items).
		With("ClientOptions", h.buildClientOptions(r.Context(), query.Get("client_id"))).
		WithPagination(PaginationData{
			Page:       pageNum,
			PageSize:   pageSize,
			HasPrev:    hasPrev,
			HasNext:    hasNext,
			StartIndex: start,
			EndIndex:   end,
			BasePath:   "/admin/campaigns",
		})
	h.renderPortalPage(w, r, builder.Build())
}

// --- Campaign form (create/edit) ---

func campaignFormTitles(mode FormMode) (string, string) {
	if mode == FormModeEdit {
		return "Clientus - Editar Campanha", "Editar Campanha"
	}
	return "Clientus - Nova Campanha", "Nova Campanha"
}

// renderCampaignForm renders the campaign create/edit form with common framing data.
func (h *UIHandlers) renderCampaignForm(w http.ResponseWriter, r *http.Request, formData map[string]any) {
	if formData == nil {
		formData = map[string]any{}
	}
	if _, ok := formData["Errors"]; !ok || formData["Errors"] == nil {
		formData["Errors"] = map[string]string{}
	}

	mode := FormModeCreate
	if m, ok := formData["Mode"].(FormMode); ok && m != "" {
		mode = m
	}
	formData["Mode"] = string(mode)

	title, pageTitle := campaignFormTitles(mode)
	maps.Copy(formData, basePageData(r, PageMeta{
		Title:       title,
		PageTitle:   pageTitle,
		CurrentPage: PageCampaignForm,
	}))
	if mode == FormModeCreate {
		formData["ClientOptions"] = h.buildClientOptions(r.Context(), toString(formData["FormClientID"]))
	}
	formData["PlatformOptions"] = platformOptions(toString(formData["FormPlatform"]))

	h.renderPortalPage(w, r, formData)
}

// platformOptions returns [{Name, Selected}] for the platform select.
func platformOptions(selected string) []map[string]any {
	out := make([]map[string]any, 0, len(campaignPlatforms))
	for _, p := range campaignPlatforms {
		out = append(out, map[string]any{
			"Name":     p,
			"Selected": p == selected,
		})
	}
	return out
}

// CampaignNew renders the create form.
func (h *UIHandlers) CampaignNew(w http.ResponseWriter, r *http.Request) {
	h.renderCampaignForm(w, r, map[string]any{
		"Mode":       FormModeCreate,
		"FormStatus": string(model.CampaignStatusDraft),
	})
}

// CampaignEdit renders the edit form populated from an existing campaign,
// including the metrics import section.
func (h *UIHandlers) CampaignEdit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" || h.CampaignSvc == nil {
		h.NotFound(w, r)
		return
	}
	campaign, err := h.CampaignSvc.GetByID(r.Context(), id)
	if err != nil || campaign == nil {
		h.NotFound(w, r)
		return
	}

	formData := map[string]any{
		"Mode":         FormModeEdit,
		"CampaignID":   campaign.ID,
		"FormClientID": campaign.ClientID,
		"FormName":     campaign.Name,
		"FormPlatform": campaign.Platform,
		"FormStatus":   string(campaign.Status),
		"FormBudget":   strconv.FormatFloat(campaign.Budget, 'f', 2, 64),
		"Metrics":      campaign.Metrics,
	}
	if campaign.StartDate != nil {
		formData["FormStartDate"] = campaign.StartDate.Format("2006-01-02")
	}
	if campaign.EndDate != nil {
		formData["FormEndDate"] = campaign.EndDate.Format("2006-01-02")
	}
	h.renderCampaignForm(w, r, formData)
}

// campaignFormFields holds parsed form data for campaign creation and updates.
type campaignFormFields struct {
	ClientID  string
	Name      string
	Platform  string
	Status    string
	Budget    string
	StartDate string
	EndDate   string
}

func parseCampaignForm(r *http.Request, mode FormMode) (campaignFormFields, map[string]string) {
	errs := map[string]string{}
	if err := r.ParseForm(); err != nil {
		errs["_"] = "Envio de formulário inválido."
	}

	fields := campaignFormFields{
		ClientID:  strings.TrimSpace(r.Form.Get("client_id")),
		Name:      strings.TrimSpace(r.Form.Get("name")),
		Platform:  strings.TrimSpace(r.Form.Get("platform")),
		Status:    strings.TrimSpace(strings.ToLower(r.Form.Get("status"))),
		Budget:    strings.TrimSpace(r.Form.Get("budget")),
		StartDate: strings.TrimSpace(r.Form.Get("start_date")),
		EndDate:   strings.TrimSpace(r.Form.Get("end_date")),
	}
	if fields.Status == "" {
		fields.Status = string(model.CampaignStatusDraft)
	}

	v := validation.New().
		Validate("name", fields.Name, validation.Required("Nome", 255)).
		Validate("platform", fields.Platform, validation.Required("Plataforma", 64)).
		Validate("status", fields.Status, validation.OneOf("Status", []string{
			string(model.CampaignStatusDraft),
			string(model.CampaignStatusActive),
			string(model.CampaignStatusPaused),
			string(model.CampaignStatusCompleted),
		})).
		Validate("budget", fields.Budget, validation.NonNegativeAmount("Orçamento"))
	if mode == FormModeCreate {
		v.Validate("client_id", fields.ClientID, validation.Required("Cliente", 255))
	}

	start, startErr := parseOptionalDate(fields.StartDate)
	if startErr != nil {
		v.Errors()["start_date"] = "Informe uma data válida (AAAA-MM-DD)."
	}
	end, endErr := parseOptionalDate(fields.EndDate)
	if endErr != nil {
		v.Errors()["end_date"] = "Informe uma data válida (AAAA-MM-DD)."
	}
	if start != nil && end != nil && end.Before(*start) {
		v.Errors()["end_date"] = "A data final não pode ser anterior à inicial."
	}

	for k, msg := range v.Errors() {
		errs[k] = msg
	}
	return fields, errs
}

func parseOptionalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	ts, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

// budgetValue parses the form budget accepting the Brazilian decimal comma.
func (f campaignFormFields) budgetValue() float64 {
	if f.Budget == "" {
		return 0
	}
	n, err := strconv.ParseFloat(strings.ReplaceAll(f.Budget, ",", "."), 64)
	if err != nil {
		return 0
	}
	return n
}

func (f campaignFormFields) preservedData() map[string]any {
	return map[string]any{
		"FormClientID":  f.ClientID,
		"FormName":      f.Name,
		"FormPlatform":  f.Platform,
		"FormStatus":    f.Status,
		"FormBudget":    f.Budget,
		"FormStartDate": f.StartDate,
		"FormEndDate":   f.EndDate,
	}
}

// CampaignCreate handles the create form submission.
func (h *UIHandlers) CampaignCreate(w http.ResponseWriter, r *http.Request) {
	if h.CampaignSvc == nil {
		h.NotFound(w, r)
		return
	}

	fields, errs := parseCampaignForm(r, FormModeCreate)
	renderWithErrors := func(generalMsg string) {
		formData := fields.preservedData()
		formData["Mode"] = FormModeCreate
		formData["Errors"] = errs
		formData["Error"] = true
		formData["ErrorMessage"] = generalMsg
		h.renderCampaignForm(w, r, formData)
	}
	if len(errs) > 0 {
		renderWithErrors(errMsgFixBelow)
		return
	}

	req := &model.CreateCampaignRequest{
		ClientID: fields.ClientID,
		Name:     fields.Name,
		Platform: fields.Platform,
		Status:   model.CampaignStatus(fields.Status),
		Budget:   fields.budgetValue(),
	}
	req.StartDate, _ = parseOptionalDate(fields.StartDate)
	req.EndDate, _ = parseOptionalDate(fields.EndDate)

	if _, err := h.CampaignSvc.Create(r.Context(), req); err != nil {
		if errors.Is(err, data.ErrAccountNotFound) {
			errs["client_id"] = "Cliente não encontrado."
			renderWithErrors(errMsgFixBelow)
			return
		}
		h.logger().Error("failed to create campaign", "error", err)
		renderWithErrors("Não foi possível criar a campanha.")
		return
	}

	triggerToast(w, "Campanha criada.", "success")
	HTMX(w).Redirect("/admin/campaigns")
}

// CampaignUpdate handles the edit form submission.
func (h *UIHandlers) CampaignUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" || h.CampaignSvc == nil {
		h.NotFound(w, r)
		return
	}

	fields, errs := parseCampaignForm(r, FormModeEdit)
	renderWithErrors := func(generalMsg string) {
		formData := fields.preservedData()
		formData["Mode"] = FormModeEdit
		formData["CampaignID"] = id
		formData["Errors"] = errs
		formData["Error"] = true
		formData["ErrorMessage"] = generalMsg
		h.renderCampaignForm(w, r, formData)
	}
	if len(errs) > 0 {
		renderWithErrors(errMsgFixBelow)
		return
	}

	status := model.CampaignStatus(fields.Status)
	budget := fields.budgetValue()
	req := model.UpdateCampaignRequest{
		Name:     &fields.Name,
		Platform: &fields.Platform,
		Status:   &status,
		Budget:   &budget,
	}
	req.StartDate, _ = parseOptionalDate(fields.StartDate)
	req.EndDate, _ = parseOptionalDate(fields.EndDate)

	if _, err := h.CampaignSvc.Update(r.Context(), id, req); err != nil {
		if errors.Is(err, data.ErrCampaignNotFound) {
			h.NotFound(w, r)
			return
		}
		h.logger().Error("failed to update campaign", "campaign_id", id, "error", err)
		renderWithErrors("Não foi possível salvar a campanha.")
		return
	}

	triggerToast(w, "Campanha atualizada.", "success")
	HTMX(w).Redirect("/admin/campaigns")
}

// CampaignImportMetrics ingests a pasted vendor payload for a campaign.
// The form carries the platform name and a JSON payload; extraction happens
// in the campaign service via the platform's field mapping.
func (h *UIHandlers) CampaignImportMetrics(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" || h.CampaignSvc == nil {
		h.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		triggerToast(w, "Envio de formulário inválido.", "error")
		http.Redirect(w, r, "/admin/campaigns/"+id+"/edit", http.StatusSeeOther)
		return
	}

	platform := strings.TrimSpace(r.Form.Get("platform"))
	rawPayload := strings.TrimSpace(r.Form.Get("payload"))

	var payload map[string]any
	if rawPayload != "" {
		if err := json.Unmarshal([]byte(rawPayload), &payload); err != nil {
			triggerToast(w, "O payload precisa ser um JSON válido.", "error")
			http.Redirect(w, r, "/admin/campaigns/"+id+"/edit", http.StatusSeeOther)
			return
		}
	}

	_, err := h.CampaignSvc.ImportMetrics(r.Context(), id, model.ImportMetricsRequest{
		Platform: platform,
		Payload:  payload,
	})
	if err != nil {
		if errors.Is(err, data.ErrCampaignNotFound) {
			h.NotFound(w, r)
			return
		}
		if isValidationError(err) {
			triggerToast(w, "Não foi possível importar: "+err.Error(), "error")
		} else {
			h.logger().Error("failed to import campaign metrics", "campaign_id", id, "error", err)
			triggerToast(w, "Não foi possível importar as métricas.", "error")
		}
		http.Redirect(w, r, "/admin/campaigns/"+id+"/edit", http.StatusSeeOther)
		return
	}

	triggerToast(w, "Métricas importadas.", "success")
	if IsHTMX(r) {
		HTMX(w).Redirect("/admin/campaigns/" + id + "/edit")
		return
	}
	http.Redirect(w, r, "/admin/campaigns/"+id+"/edit", http.StatusSeeOther)
}

// AdminCampaignDelete removes a campaign.
func (h *UIHandlers) AdminCampaignDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" || h.CampaignSvc == nil {
		h.NotFound(w, r)
		return
	}

	deleted, err := h.CampaignSvc.Delete(r.Context(), id)
	if err != nil {
		h.logger().Error("failed to delete campaign", "campaign_id", id, "error", err)
		triggerToast(w, "Não foi possível excluir a campanha.", "error")
		http.Error(w, "delete failed", http.StatusInternalServerError)
		return
	}
	if !deleted {
		h.NotFound(w, r)
		return
	}

	triggerToast(w, "Campanha excluída.", "success")
	HTMX(w).Redirect("/admin/campaigns")
}
