package httpx

import (
	"context"
	"errors"
	"maps"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/clientus/portal/internal/data"
	"github.com/clientus/portal/internal/domain/model"
	"github.com/clientus/portal/internal/http/validation"
)

const (
	optionListLimit = 10000

	errMsgUnableLoadAdminMaterials = "Não foi possível carregar os materiais."
)

// AdminMaterials serves the agency-wide material management page.
func (h *UIHandlers) AdminMaterials(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	pageNum, pageSize := getPageParams(query)

	opts := model.MaterialListOptions{}
	if clientID := strings.TrimSpace(query.Get("client_id")); clientID != "" {
		opts.ClientID = &clientID
	}
	if raw := query.Get("approval"); raw != "" {
		if status, ok := model.ParseApprovalStatus(raw); ok {
			opts.ApprovalStatus = &status
		}
	}

	builder := NewTemplateData(r, PageMeta{
		Title:       "Clientus - Gestão de Materiais",
		PageTitle:   "Gestão de Materiais",
		CurrentPage: PageAdminMaterials,
	})
	builder.With("ClientFilter", query.Get("client_id")).
		With("ApprovalFilter", query.Get("approval"))

	if h.MaterialSvc == nil {
		builder.WithError(errMsgUnableLoadAdminMaterials)
		h.renderPortalPage(w, r, builder.Build())
		return
	}

	items, hasPrev, hasNext, start, end, err := paginate(r.Context(),
		pageOpts{Page: pageNum, PageSize: pageSize},
		func(ctx context.Context, limit, offset int) ([]*model.Material, error) {
			listOpts := opts
			listOpts.Limit = limit
			listOpts.Offset = offset
			return h.MaterialSvc.List(ctx, listOpts)
		})
	if err != nil {
		h.logger().Error("failed to load materials for admin UI", "error", err)
		builder.WithError(errMsgUnableLoadAdminMaterials)
		h.renderPortalPage(w, r, builder.Build())
		return
	}

	builder.With("Materials", items).
		With("ClientOptions", h.buildClientOptions(r.Context(), query.Get("client_id"))).
		WithPagination(PaginationData{
			Page:       pageNum,
			PageSize:   pageSize,
			HasPrev:    hasPrev,
			HasNext:    hasNext,
			StartIndex: start,
			EndIndex:   end,
			BasePath:   "/admin/materials",
		})
	h.renderPortalPage(w, r, builder.Build())
}

// buildClientOptions returns [{ID, Name, Selected}] for the client select.
func (h *UIHandlers) buildClientOptions(ctx context.Context, selectedID string) []map[string]any {
	var out []map[string]any
	if h.AccountSvc == nil {
		return out
	}
	list, err := h.AccountSvc.ListClients(ctx, model.AccountListOptions{Limit: optionListLimit})
	if err != nil {
		h.logger().WarnContext(ctx, "failed to load clients for select", "error", err)
		return out
	}
	sort.Slice(list, func(i, j int) bool { return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name) })
	for _, c := range list {
		out = append(out, map[string]any{
			"ID":       c.ID,
			"Name":     c.Name,
			"Selected": c.ID == selectedID,
		})
	}
	return out
}

// --- Material form (create) ---

// renderMaterialForm renders the material upload form with common framing data.
func (h *UIHandlers) renderMaterialForm(w http.ResponseWriter, r *http.Request, formData map[string]any) {
	if formData == nil {
		formData = map[string]any{}
	}
	if _, ok := formData["Errors"]; !ok || formData["Errors"] == nil {
		formData["Errors"] = map[string]string{}
	}
	formData["Mode"] = string(FormModeCreate)

	maps.Copy(formData, basePageData(r, PageMeta{
		Title:       "Clientus - Novo Material",
		PageTitle:   "Novo Material",
		CurrentPage: PageMaterialForm,
	}))
	formData["ClientOptions"] = h.buildClientOptions(r.Context(), toString(formData["FormClientID"]))

	h.renderPortalPage(w, r, formData)
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// MaterialNew renders the upload form.
func (h *UIHandlers) MaterialNew(w http.ResponseWriter, r *http.Request) {
	h.renderMaterialForm(w, r, map[string]any{
		"FormStatus": string(model.MaterialStatusDraft),
	})
}

// materialFormFields holds parsed form data for material creation.
type materialFormFields struct {
	ClientID      string
	Title         string
	Description   string
	FileURL       string
	FileType      string
	ThumbnailURL  string
	ScheduledDate string
	Status        string
}

func parseMaterialForm(r *http.Request) (materialFormFields, map[string]string) {
	errs := map[string]string{}
	if err := r.ParseForm(); err != nil {
		errs["_"] = "Envio de formulário inválido."
	}

	fields := materialFormFields{
		ClientID:      strings.TrimSpace(r.Form.Get("client_id")),
		Title:         strings.TrimSpace(r.Form.Get("title")),
		Description:   strings.TrimSpace(r.Form.Get("description")),
		FileURL:       strings.TrimSpace(r.Form.Get("file_url")),
		FileType:      strings.TrimSpace(r.Form.Get("file_type")),
		ThumbnailURL:  strings.TrimSpace(r.Form.Get("thumbnail_url")),
		ScheduledDate: strings.TrimSpace(r.Form.Get("scheduled_date")),
		Status:        strings.TrimSpace(strings.ToLower(r.Form.Get("status"))),
	}
	if fields.Status == "" {
		fields.Status = string(model.MaterialStatusDraft)
	}

	v := validation.New().
		Validate("client_id", fields.ClientID, validation.Required("Cliente", 255)).
		Validate("title", fields.Title, validation.Required("Título", 255)).
		Validate("description", fields.Description, validation.Optional("Descrição", 2000)).
		Validate("file_type", fields.FileType, validation.Optional("Tipo de arquivo", 64)).
		Validate("status", fields.Status, validation.OneOf("Status", []string{
			string(model.MaterialStatusDraft),
			string(model.MaterialStatusScheduled),
			string(model.MaterialStatusPublished),
			string(model.MaterialStatusArchived),
		}))
	if fields.FileURL != "" {
		v.Validate("file_url", fields.FileURL, validation.HTTPSURL("Arquivo", 2048))
	}
	if fields.ThumbnailURL != "" {
		v.Validate("thumbnail_url", fields.ThumbnailURL, validation.HTTPSURL("Miniatura", 2048))
	}
	if fields.ScheduledDate != "" {
		if _, err := time.Parse("2006-01-02", fields.ScheduledDate); err != nil {
			v.Errors()["scheduled_date"] = "Informe uma data válida (AAAA-MM-DD)."
		}
	}
	for k, msg := range v.Errors() {
		errs[k] = msg
	}
	return fields, errs
}

func (f materialFormFields) preservedData() map[string]any {
	return map[string]any{
		"FormClientID":      f.ClientID,
		"FormTitle":         f.Title,
		"FormDescription":   f.Description,
		"FormFileURL":       f.FileURL,
		"FormFileType":      f.FileType,
		"FormThumbnailURL":  f.ThumbnailURL,
		"FormScheduledDate": f.ScheduledDate,
		"FormStatus":        f.Status,
	}
}

func (f materialFormFields) toCreateRequest() *model.CreateMaterialRequest {
	req := &model.CreateMaterialRequest{
		ClientID:     f.ClientID,
		Title:        f.Title,
		Description:  optionalString(f.Description),
		FileURL:      optionalString(f.FileURL),
		FileType:     optionalString(f.FileType),
		ThumbnailURL: optionalString(f.ThumbnailURL),
		Status:       model.MaterialStatus(f.Status),
	}
	if f.ScheduledDate != "" {
		if ts, err := time.Parse("2006-01-02", f.ScheduledDate); err == nil {
			req.ScheduledDate = &ts
		}
	}
	return req
}

// MaterialCreate handles the upload form submission.
func (h *UIHandlers) MaterialCreate(w http.ResponseWriter, r *http.Request) {
	if h.MaterialSvc == nil {
		h.NotFound(w, r)
		return
	}

	fields, errs := parseMaterialForm(r)
	if len(errs) > 0 {
		formData := fields.preservedData()
		formData["Errors"] = errs
		formData["Error"] = true
		formData["ErrorMessage"] = errMsgFixBelow
		h.renderMaterialForm(w, r, formData)
		return
	}

	if _, err := h.MaterialSvc.Create(r.Context(), fields.toCreateRequest()); err != nil {
		formData := fields.preservedData()
		if errors.Is(err, data.ErrAccountNotFound) {
			errs["client_id"] = "Cliente não encontrado."
			formData["Errors"] = errs
			formData["Error"] = true
			formData["ErrorMessage"] = errMsgFixBelow
		} else {
			h.logger().Error("failed to create material", "error", err)
			formData["Error"] = true
			formData["ErrorMessage"] = "Não foi possível criar o material."
		}
		h.renderMaterialForm(w, r, formData)
		return
	}

	triggerToast(w, "Material enviado para aprovação.", "success")
	HTMX(w).Redirect("/admin/materials")
}

// AdminMaterialDelete removes a material and its comment thread.
func (h *UIHandlers) AdminMaterialDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" || h.MaterialSvc == nil {
		h.NotFound(w, r)
		return
	}

	deleted, err := h.MaterialSvc.Delete(r.Context(), id)
	if err != nil {
		h.logger().Error("failed to delete material", "material_id", id, "error", err)
		triggerToast(w, "Não foi possível excluir o material.", "error")
		http.Error(w, "delete failed", http.StatusInternalServerError)
		return
	}
	if !deleted {
		h.NotFound(w, r)
		return
	}

	triggerToast(w, "Material excluído.", "success")
	HTMX(w).Redirect("/admin/materials")
}
