package httpx

import (
	"context"
	"errors"
	"maps"
	"net/http"
	"strconv"
	"strings"

	"github.com/clientus/portal/internal/data"
	"github.com/clientus/portal/internal/domain/model"
	"github.com/clientus/portal/internal/http/validation"
)

const errMsgUnableLoadAdminDocuments = "Não foi possível carregar os documentos."

// AdminDocuments serves the agency-wide document management page.
func (h *UIHandlers) AdminDocuments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	pageNum, pageSize := getPageParams(query)

	opts := model.DocumentListOptions{}
	if clientID := strings.TrimSpace(query.Get("client_id")); clientID != "" {
		opts.ClientID = &clientID
	}
	if raw := query.Get("category"); raw != "" {
		if category, ok := model.ParseDocumentCategory(raw); ok {
			opts.Category = &category
		}
	}

	builder := NewTemplateData(r, PageMeta{
		Title:       "Clientus - Gestão de Documentos",
		PageTitle:   "Gestão de Documentos",
		CurrentPage: PageAdminDocuments,
	})
	builder.With("ClientFilter", query.Get("client_id")).
		With("CategoryFilter", query.Get("category")).
		With("CategoryOptions", documentCategoryOptions(query.Get("category")))

	if h.DocumentSvc == nil {
		builder.WithError(errMsgUnableLoadAdminDocuments)
		h.renderPortalPage(w, r, builder.Build())
		return
	}

	items, hasPrev, hasNext, start, end, err := paginate(r.Context(),
		pageOpts{Page: pageNum, PageSize: pageSize},
		func(ctx context.Context, limit, offset int) ([]*model.Document, error) {
			listOpts := opts
			listOpts.Limit = limit
			listOpts.Offset = offset
			return h.DocumentSvc.List(ctx, listOpts)
		})
	if err != nil {
		h.logger().Error("failed to load documents for admin UI", "error", err)
		builder.WithError(errMsgUnableLoadAdminDocuments)
		h.renderPortalPage(w, r, builder.Build())
		return
	}

	builder.With("Documents", items).
		With("ClientOptions", h.buildClientOptions(r.Context(), query.Get("client_id"))).
		WithPagination(PaginationData{
			Page:       pageNum,
			PageSize:   pageSize,
			HasPrev:    hasPrev,
			HasNext:    hasNext,
			StartIndex: start,
			EndIndex:   end,
			BasePath:   "/admin/documents",
		})
	h.renderPortalPage(w, r, builder.Build())
}

// documentCategoryOptions returns [{Name, Label, Selected}] for the category select.
func documentCategoryOptions(selected string) []map[string]any {
	labels := []struct{ Name, Label string }{
		{string(model.DocCategoryBriefing), "Briefing"},
		{string(model.DocCategoryContract), "Contrato"},
		{string(model.DocCategoryReport), "Relatório"},
		{string(model.DocCategoryGeneral), "Geral"},
	}
	out := make([]map[string]any, 0, len(labels))
	for _, l := range labels {
		out = append(out, map[string]any{
			"Name":     l.Name,
			"Label":    l.Label,
			"Selected": l.Name == selected,
		})
	}
	return out
}

// --- Document form (create/edit) ---

func documentFormTitles(mode FormMode) (string, string) {
	if mode == FormModeEdit {
		return "Clientus - Editar Documento", "Editar Documento"
	}
	return "Clientus - Novo Documento", "Novo Documento"
}

// renderDocumentForm renders the document create/edit form with common framing data.
func (h *UIHandlers) renderDocumentForm(w http.ResponseWriter, r *http.Request, formData map[string]any) {
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

	title, pageTitle := documentFormTitles(mode)
	maps.Copy(formData, basePageData(r, PageMeta{
		Title:       title,
		PageTitle:   pageTitle,
		CurrentPage: PageDocumentForm,
	}))
	if mode == FormModeCreate {
		formData["ClientOptions"] = h.buildClientOptions(r.Context(), toString(formData["FormClientID"]))
	}
	formData["CategoryOptions"] = documentCategoryOptions(toString(formData["FormCategory"]))

	h.renderPortalPage(w, r, formData)
}

// DocumentNew renders the upload form.
func (h *UIHandlers) DocumentNew(w http.ResponseWriter, r *http.Request) {
	h.renderDocumentForm(w, r, map[string]any{
		"Mode":         FormModeCreate,
		"FormCategory": string(model.DocCategoryGeneral),
	})
}

// DocumentEdit renders the edit form populated from an existing library entry.
func (h *UIHandlers) DocumentEdit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" || h.DocumentSvc == nil {
		h.NotFound(w, r)
		return
	}
	doc, err := h.DocumentSvc.GetByID(r.Context(), id)
	if err != nil || doc == nil {
		h.NotFound(w, r)
		return
	}

	h.renderDocumentForm(w, r, map[string]any{
		"Mode":          FormModeEdit,
		"DocumentID":    doc.ID,
		"FormClientID":  doc.ClientID,
		"FormName":      doc.Name,
		"FormFileURL":   doc.FileURL,
		"FormFileType":  doc.FileType,
		"FormCategory":  string(doc.Category),
		"FormSizeBytes": strconv.FormatInt(doc.SizeBytes, 10),
	})
}

// documentFormFields holds parsed form data for document creation and updates.
type documentFormFields struct {
	ClientID  string
	Name      string
	FileURL   string
	FileType  string
	Category  string
	SizeBytes string
}

func parseDocumentForm(r *http.Request, mode FormMode) (documentFormFields, map[string]string) {
	errs := map[string]string{}
	if err := r.ParseForm(); err != nil {
		errs["_"] = "Envio de formulário inválido."
	}

	fields := documentFormFields{
		ClientID:  strings.TrimSpace(r.Form.Get("client_id")),
		Name:      strings.TrimSpace(r.Form.Get("name")),
		FileURL:   strings.TrimSpace(r.Form.Get("file_url")),
		FileType:  strings.TrimSpace(r.Form.Get("file_type")),
		Category:  strings.TrimSpace(strings.ToLower(r.Form.Get("category"))),
		SizeBytes: strings.TrimSpace(r.Form.Get("size_bytes")),
	}
	if fields.Category == "" {
		fields.Category = string(model.DocCategoryGeneral)
	}

	v := validation.New().
		Validate("name", fields.Name, validation.Required("Nome", 255)).
		Validate("file_url", fields.FileURL, validation.HTTPSURL("Arquivo", 2048)).
		Validate("file_type", fields.FileType, validation.Required("Tipo de arquivo", 64)).
		Validate("category", fields.Category, validation.OneOf("Categoria", []string{
			string(model.DocCategoryBriefing),
			string(model.DocCategoryContract),
			string(model.DocCategoryReport),
			string(model.DocCategoryGeneral),
		}))
	if mode == FormModeCreate {
		v.Validate("client_id", fields.ClientID, validation.Required("Cliente", 255))
	}
	if fields.SizeBytes != "" {
		if n, err := strconv.ParseInt(fields.SizeBytes, 10, 64); err != nil || n < 0 {
			v.Errors()["size_bytes"] = "Informe um tamanho em bytes válido."
		}
	}
	for k, msg := range v.Errors() {
		errs[k] = msg
	}
	return fields, errs
}

func (f documentFormFields) preservedData() map[string]any {
	return map[string]any{
		"FormClientID":  f.ClientID,
		"FormName":      f.Name,
		"FormFileURL":   f.FileURL,
		"FormFileType":  f.FileType,
		"FormCategory":  f.Category,
		"FormSizeBytes": f.SizeBytes,
	}
}

func (f documentFormFields) toCreateRequest() *model.CreateDocumentRequest {
	size, _ := strconv.ParseInt(f.SizeBytes, 10, 64)
	return &model.CreateDocumentRequest{
		ClientID:  f.ClientID,
		Name:      f.Name,
		FileURL:   f.FileURL,
		FileType:  f.FileType,
		Category:  model.DocumentCategory(f.Category),
		SizeBytes: size,
	}
}

func (f documentFormFields) toUpdateRequest() model.UpdateDocumentRequest {
	size, _ := strconv.ParseInt(f.SizeBytes, 10, 64)
	category := model.DocumentCategory(f.Category)
	return model.UpdateDocumentRequest{
		Name:      &f.Name,
		FileURL:   &f.FileURL,
		FileType:  &f.FileType,
		Category:  &category,
		SizeBytes: &size,
	}
}

// DocumentCreate handles the upload form submission.
func (h *UIHandlers) DocumentCreate(w http.ResponseWriter, r *http.Request) {
	if h.DocumentSvc == nil {
		h.NotFound(w, r)
		return
	}

	fields, errs := parseDocumentForm(r, FormModeCreate)
	if len(errs) > 0 {
		formData := fields.preservedData()
		formData["Mode"] = FormModeCreate
		formData["Errors"] = errs
		formData["Error"] = true
		formData["ErrorMessage"] = errMsgFixBelow
		h.renderDocumentForm(w, r, formData)
		return
	}

	if _, err := h.DocumentSvc.Create(r.Context(), fields.toCreateRequest()); err != nil {
		formData := fields.preservedData()
		formData["Mode"] = FormModeCreate
		if errors.Is(err, data.ErrAccountNotFound) {
			errs["client_id"] = "Cliente não encontrado."
			formData["Errors"] = errs
			formData["Error"] = true
			formData["ErrorMessage"] = errMsgFixBelow
		} else {
			h.logger().Error("failed to create document", "error", err)
			formData["Error"] = true
			formData["ErrorMessage"] = "Não foi possível criar o documento."
		}
		h.renderDocumentForm(w, r, formData)
		return
	}

	triggerToast(w, "Documento compartilhado.", "success")
	HTMX(w).Redirect("/admin/documents")
}

// DocumentUpdate handles the edit form submission.
func (h *UIHandlers) DocumentUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" || h.DocumentSvc == nil {
		h.NotFound(w, r)
		return
	}

	fields, errs := parseDocumentForm(r, FormModeEdit)
	renderWithErrors := func(generalMsg string) {
		formData := fields.preservedData()
		formData["Mode"] = FormModeEdit
		formData["DocumentID"] = id
		formData["Errors"] = errs
		formData["Error"] = true
		formData["ErrorMessage"] = generalMsg
		h.renderDocumentForm(w, r, formData)
	}
	if len(errs) > 0 {
		renderWithErrors(errMsgFixBelow)
		return
	}

	if _, err := h.DocumentSvc.Update(r.Context(), id, fields.toUpdateRequest()); err != nil {
		if errors.Is(err, data.ErrDocumentNotFound) {
			h.NotFound(w, r)
			return
		}
		h.logger().Error("failed to update document", "document_id", id, "error", err)
		renderWithErrors("Não foi possível salvar o documento.")
		return
	}

	triggerToast(w, "Documento atualizado.", "success")
	HTMX(w).Redirect("/admin/documents")
}

// AdminDocumentDelete removes a library entry.
func (h *UIHandlers) AdminDocumentDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" || h.DocumentSvc == nil {
		h.NotFound(w, r)
		return
	}

	deleted, err := h.DocumentSvc.Delete(r.Context(), id)
	if err != nil {
		h.logger().Error("failed to delete document", "document_id", id, "error", err)
		triggerToast(w, "Não foi possível excluir o documento.", "error")
		http.Error(w, "delete failed", http.StatusInternalServerError)
		return
	}
	if !deleted {
		h.NotFound(w, r)
		return
	}

	triggerToast(w, "Documento excluído.", "success")
	HTMX(w).Redirect("/admin/documents")
}
