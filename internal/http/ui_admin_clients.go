package httpx

import (
	"context"
	"errors"
	"maps"
	"net/http"
	"strings"

	"github.com/clientus/portal/internal/data"
	domainauth "github.com/clientus/portal/internal/domain/auth"
	"github.com/clientus/portal/internal/domain/model"
	"github.com/clientus/portal/internal/http/validation"
)

const errMsgUnableLoadClients = "Não foi possível carregar os clientes."

// AdminClients serves the client management page with search and status filtering.
func (h *UIHandlers) AdminClients(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	pageNum, pageSize := getPageParams(query)

	opts := model.AccountListOptions{}
	if q := strings.TrimSpace(query.Get("q")); q != "" {
		opts.Q = &q
	}
	if raw := strings.TrimSpace(query.Get("status")); raw != "" {
		status := domainauth.AccountStatus(raw)
		opts.Status = &status
	}

	builder := NewTemplateData(r, PageMeta{
		Title:       "Clientus - Clientes",
		PageTitle:   "Clientes",
		CurrentPage: PageAdminClients,
	})
	builder.With("Query", query.Get("q")).With("StatusFilter", query.Get("status"))

	if h.AccountSvc == nil {
		builder.WithError(errMsgUnableLoadClients)
		h.renderPortalPage(w, r, builder.Build())
		return
	}

	items, hasPrev, hasNext, start, end, err := paginate(r.Context(),
		pageOpts{Page: pageNum, PageSize: pageSize},
		func(ctx context.Context, limit, offset int) ([]*model.Account, error) {
			listOpts := opts
			listOpts.Limit = limit
			listOpts.Offset = offset
			return h.AccountSvc.ListClients(ctx, listOpts)
		})
	if err != nil {
		h.logger().Error("failed to load clients for UI", "error", err)
		builder.WithError(errMsgUnableLoadClients)
		h.renderPortalPage(w, r, builder.Build())
		return
	}

	builder.With("Clients", items).WithPagination(PaginationData{
		Page:       pageNum,
		PageSize:   pageSize,
		HasPrev:    hasPrev,
		HasNext:    hasNext,
		StartIndex: start,
		EndIndex:   end,
		BasePath:   "/admin/clients",
	})
	h.renderPortalPage(w, r, builder.Build())
}

// --- Client form (create/edit) ---

func clientFormTitles(mode FormMode) (string, string) {
	if mode == FormModeEdit {
		return "Clientus - Editar Cliente", "Editar Cliente"
	}
	return "Clientus - Novo Cliente", "Novo Cliente"
}

// renderClientForm renders the client create/edit form with common framing data.
func (h *UIHandlers) renderClientForm(w http.ResponseWriter, r *http.Request, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["Errors"]; !ok || data["Errors"] == nil {
		data["Errors"] = map[string]string{}
	}

	mode := FormModeCreate
	if m, ok := data["Mode"].(FormMode); ok && m != "" {
		mode = m
	}
	data["Mode"] = string(mode)

	title, pageTitle := clientFormTitles(mode)
	maps.Copy(data, basePageData(r, PageMeta{
		Title:       title,
		PageTitle:   pageTitle,
		CurrentPage: PageClientForm,
	}))
	data["MetricOptions"] = metricOptions(data)

	h.renderPortalPage(w, r, data)
}

// metricOptions returns [{Name, Label, Selected}] for the visible metrics checkboxes.
func metricOptions(data map[string]any) []map[string]any {
	selected := map[string]bool{}
	if vs, ok := data["FormVisibleMetrics"].([]string); ok {
		for _, m := range vs {
			selected[m] = true
		}
	}
	labels := []struct{ Name, Label string }{
		{model.MetricImpressions, "Impressões"},
		{model.MetricClicks, "Cliques"},
		{model.MetricCTR, "CTR"},
		{model.MetricSpent, "Investimento"},
		{model.MetricConversions, "Conversões"},
		{model.MetricCPC, "CPC"},
		{model.MetricCPM, "CPM"},
	}
	out := make([]map[string]any, 0, len(labels))
	for _, l := range labels {
		out = append(out, map[string]any{
			"Name":     l.Name,
			"Label":    l.Label,
			"Selected": selected[l.Name],
		})
	}
	return out
}

// ClientNew renders the create form.
func (h *UIHandlers) ClientNew(w http.ResponseWriter, r *http.Request) {
	h.renderClientForm(w, r, map[string]any{
		"Mode":       FormModeCreate,
		"FormStatus": string(domainauth.StatusPending),
	})
}

// ClientEdit renders the edit form populated from an existing account.
func (h *UIHandlers) ClientEdit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" || h.AccountSvc == nil {
		h.NotFound(w, r)
		return
	}
	account, err := h.AccountSvc.GetByID(r.Context(), id)
	if err != nil || account == nil {
		h.NotFound(w, r)
		return
	}

	data := map[string]any{
		"Mode":               FormModeEdit,
		"ClientID":           account.ID,
		"FormName":           account.Name,
		"FormEmail":          account.Email,
		"FormStatus":         string(account.Status),
		"FormVisibleMetrics": account.VisibleMetrics,
	}
	if account.ContactPerson != nil {
		data["FormContactPerson"] = *account.ContactPerson
	}
	if account.Company != nil {
		data["FormCompany"] = *account.Company
	}
	if account.ProjectType != nil {
		data["FormProjectType"] = *account.ProjectType
	}
	h.renderClientForm(w, r, data)
}

// clientFormFields holds parsed form data for client creation and updates.
type clientFormFields struct {
	Name           string
	Email          string
	Status         string
	ContactPerson  string
	Company        string
	ProjectType    string
	VisibleMetrics []string
}

func parseClientForm(r *http.Request) (clientFormFields, map[string]string) {
	errs := map[string]string{}
	if err := r.ParseForm(); err != nil {
		errs["_"] = "Envio de formulário inválido."
	}

	fields := clientFormFields{
		Name:           strings.TrimSpace(r.Form.Get("name")),
		Email:          strings.TrimSpace(r.Form.Get("email")),
		Status:         strings.TrimSpace(strings.ToLower(r.Form.Get("status"))),
		ContactPerson:  strings.TrimSpace(r.Form.Get("contact_person")),
		Company:        strings.TrimSpace(r.Form.Get("company")),
		ProjectType:    strings.TrimSpace(r.Form.Get("project_type")),
		VisibleMetrics: r.Form["visible_metrics"],
	}
	if fields.Status == "" {
		fields.Status = string(domainauth.StatusPending)
	}

	v := validation.New().
		Validate("name", fields.Name, validation.Required("Nome", 255)).
		Validate("email", fields.Email, validation.Email("E-mail")).
		Validate("status", fields.Status, validation.OneOf("Status", []string{
			string(domainauth.StatusActive),
			string(domainauth.StatusInactive),
			string(domainauth.StatusPending),
		})).
		Validate("contact_person", fields.ContactPerson, validation.Optional("Responsável", 255)).
		Validate("company", fields.Company, validation.Optional("Empresa", 255)).
		Validate("project_type", fields.ProjectType, validation.Optional("Tipo de projeto", 255))
	for k, msg := range v.Errors() {
		errs[k] = msg
	}
	return fields, errs
}

func (f clientFormFields) preservedData() map[string]any {
	return map[string]any{
		"FormName":           f.Name,
		"FormEmail":          f.Email,
		"FormStatus":         f.Status,
		"FormContactPerson":  f.ContactPerson,
		"FormCompany":        f.Company,
		"FormProjectType":    f.ProjectType,
		"FormVisibleMetrics": f.VisibleMetrics,
	}
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// ClientCreate handles the create form submission.
func (h *UIHandlers) ClientCreate(w http.ResponseWriter, r *http.Request) {
	if h.AccountSvc == nil {
		h.NotFound(w, r)
		return
	}

	fields, errs := parseClientForm(r)
	if len(errs) > 0 {
		formData := fields.preservedData()
		formData["Mode"] = FormModeCreate
		formData["Errors"] = errs
		formData["Error"] = true
		formData["ErrorMessage"] = errMsgFixBelow
		h.renderClientForm(w, r, formData)
		return
	}

	_, err := h.AccountSvc.Create(r.Context(), &model.CreateAccountRequest{
		Name:           fields.Name,
		Email:          fields.Email,
		Role:           domainauth.RoleClient,
		Status:         domainauth.AccountStatus(fields.Status),
		ContactPerson:  optionalString(fields.ContactPerson),
		Company:        optionalString(fields.Company),
		ProjectType:    optionalString(fields.ProjectType),
		VisibleMetrics: fields.VisibleMetrics,
	})
	if err != nil {
		formData := fields.preservedData()
		formData["Mode"] = FormModeCreate
		if errors.Is(err, data.ErrAccountEmailExists) {
			errs["email"] = "Já existe uma conta com este e-mail."
			formData["Errors"] = errs
			formData["Error"] = true
			formData["ErrorMessage"] = errMsgFixBelow
		} else {
			h.logger().Error("failed to create client", "error", err)
			formData["Error"] = true
			formData["ErrorMessage"] = "Não foi possível criar o cliente."
		}
		h.renderClientForm(w, r, formData)
		return
	}

	triggerToast(w, "Cliente criado.", "success")
	HTMX(w).Redirect("/admin/clients")
}

// ClientUpdate handles the edit form submission.
func (h *UIHandlers) ClientUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" || h.AccountSvc == nil {
		h.NotFound(w, r)
		return
	}

	fields, errs := parseClientForm(r)
	renderWithErrors := func(generalMsg string) {
		formData := fields.preservedData()
		formData["Mode"] = FormModeEdit
		formData["ClientID"] = id
		formData["Errors"] = errs
		formData["Error"] = true
		formData["ErrorMessage"] = generalMsg
		h.renderClientForm(w, r, formData)
	}
	if len(errs) > 0 {
		renderWithErrors(errMsgFixBelow)
		return
	}

	status := domainauth.AccountStatus(fields.Status)
	_, err := h.AccountSvc.Update(r.Context(), id, model.UpdateAccountRequest{
		Name:           &fields.Name,
		Email:          &fields.Email,
		Status:         &status,
		ContactPerson:  optionalString(fields.ContactPerson),
		Company:        optionalString(fields.Company),
		ProjectType:    optionalString(fields.ProjectType),
		VisibleMetrics: fields.VisibleMetrics,
	})
	if err != nil {
		if errors.Is(err, data.ErrAccountNotFound) {
			h.NotFound(w, r)
			return
		}
		if errors.Is(err, data.ErrAccountEmailExists) {
			errs["email"] = "Já existe uma conta com este e-mail."
			renderWithErrors(errMsgFixBelow)
			return
		}
		h.logger().Error("failed to update client", "client_id", id, "error", err)
		renderWithErrors("Não foi possível salvar o cliente.")
		return
	}

	triggerToast(w, "Cliente atualizado.", "success")
	HTMX(w).Redirect("/admin/clients")
}

// ClientDelete removes a client account and its portal content.
func (h *UIHandlers) ClientDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" || h.AccountSvc == nil {
		h.NotFound(w, r)
		return
	}

	deleted, err := h.AccountSvc.Delete(r.Context(), id)
	if err != nil {
		h.logger().Error("failed to delete client", "client_id", id, "error", err)
		triggerToast(w, "Não foi possível excluir o cliente.", "error")
		http.Error(w, "delete failed", http.StatusInternalServerError)
		return
	}
	if !deleted {
		h.NotFound(w, r)
		return
	}

	triggerToast(w, "Cliente excluído.", "success")
	HTMX(w).Redirect("/admin/clients")
}
