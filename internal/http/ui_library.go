package httpx

import (
	"context"
	"net/http"

	"github.com/clientus/portal/internal/domain/model"
)

const errMsgUnableLoadDocuments = "Não foi possível carregar os documentos."

// Library serves the client document library with category filtering.
func (h *UIHandlers) Library(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, "/landing", http.StatusSeeOther)
		return
	}

	query := r.URL.Query()
	pageNum, pageSize := getPageParams(query)
	clientID := session.UserID

	var categoryFilter *model.DocumentCategory
	if raw := query.Get("category"); raw != "" {
		if category, ok := model.ParseDocumentCategory(raw); ok {
			categoryFilter = &category
		}
	}

	builder := NewTemplateData(r, PageMeta{
		Title:       "Clientus - Biblioteca",
		PageTitle:   "Biblioteca",
		CurrentPage: PageLibrary,
	})
	builder.With("CategoryFilter", query.Get("category"))
	builder.With("CategoryOptions", []string{
		string(model.DocCategoryBriefing),
		string(model.DocCategoryContract),
		string(model.DocCategoryReport),
		string(model.DocCategoryGeneral),
	})

	if h.DocumentSvc == nil {
		builder.WithError(errMsgUnableLoadDocuments)
		h.renderPortalPage(w, r, builder.Build())
		return
	}

	items, hasPrev, hasNext, start, end, err := paginate(r.Context(),
		pageOpts{Page: pageNum, PageSize: pageSize},
		func(ctx context.Context, limit, offset int) ([]*model.Document, error) {
			return h.DocumentSvc.List(ctx, model.DocumentListOptions{
				Limit:    limit,
				Offset:   offset,
				ClientID: &clientID,
				Category: categoryFilter,
			})
		})
	if err != nil {
		h.logger().Error("failed to load documents for UI", "error", err)
		builder.WithError(errMsgUnableLoadDocuments)
		h.renderPortalPage(w, r, builder.Build())
		return
	}

	builder.With("Documents", items).WithPagination(PaginationData{
		Page:       pageNum,
		PageSize:   pageSize,
		HasPrev:    hasPrev,
		HasNext:    hasNext,
		StartIndex: start,
		EndIndex:   end,
		BasePath:   "/library",
	})
	h.renderPortalPage(w, r, builder.Build())
}
