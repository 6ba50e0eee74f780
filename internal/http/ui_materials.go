package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/clientus/portal/internal/core"
	"github.com/clientus/portal/internal/domain/model"
	"github.com/clientus/portal/internal/service"
)

const errMsgUnableLoadMaterials = "Não foi possível carregar os materiais."

// Materials serves the client material review page with pagination and
// approval status filtering.
func (h *UIHandlers) Materials(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, "/landing", http.StatusSeeOther)
		return
	}

	query := r.URL.Query()
	pageNum, pageSize := getPageParams(query)
	clientID := session.UserID

	var approvalFilter *model.ApprovalStatus
	if raw := query.Get("approval"); raw != "" {
		if status, ok := model.ParseApprovalStatus(raw); ok {
			approvalFilter = &status
		}
	}

	builder := NewTemplateData(r, PageMeta{
		Title:       "Clientus - Materiais",
		PageTitle:   "Materiais",
		CurrentPage: PageMaterials,
	})
	builder.With("ApprovalFilter", query.Get("approval"))

	if h.MaterialSvc == nil {
		builder.WithError(errMsgUnableLoadMaterials)
		h.renderPortalPage(w, r, builder.Build())
		return
	}

	items, hasPrev, hasNext, start, end, err := paginate(r.Context(),
		pageOpts{Page: pageNum, PageSize: pageSize},
		func(ctx context.Context, limit, offset int) ([]*model.Material, error) {
			return h.MaterialSvc.List(ctx, model.MaterialListOptions{
				Limit:          limit,
				Offset:         offset,
				ClientID:       &clientID,
				ApprovalStatus: approvalFilter,
			})
		})
	if err != nil {
		h.logger().Error("failed to load materials for UI", "error", err)
		builder.WithError(errMsgUnableLoadMaterials)
		h.renderPortalPage(w, r, builder.Build())
		return
	}

	builder.With("Materials", items).WithPagination(PaginationData{
		Page:       pageNum,
		PageSize:   pageSize,
		HasPrev:    hasPrev,
		HasNext:    hasNext,
		StartIndex: start,
		EndIndex:   end,
		BasePath:   "/materials",
	})
	h.renderPortalPage(w, r, builder.Build())
}

// MaterialDetail renders the review panel for one material, including its
// comment thread. Clients can only see their own materials.
func (h *UIHandlers) MaterialDetail(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	id := r.PathValue("id")
	if session == nil || id == "" || h.MaterialSvc == nil {
		h.NotFound(w, r)
		return
	}

	material, err := h.MaterialSvc.GetByID(r.Context(), id)
	if err != nil {
		h.NotFound(w, r)
		return
	}
	if !session.IsAdmin() && material.ClientID != session.UserID {
		h.NotFound(w, r)
		return
	}

	comments, err := h.MaterialSvc.ListComments(r.Context(), id)
	if err != nil {
		h.logger().Warn("failed to load material comments", "material_id", id, "error", err)
		comments = []*model.Comment{}
	}

	data := basePageData(r, PageMeta{
		Title:       "Clientus - " + material.Title,
		PageTitle:   material.Title,
		CurrentPage: PageMaterials,
	})
	data["Material"] = material
	data["Comments"] = comments

	h.renderFragment(w, r, fragmentRenderOptions{
		Template: "material-detail-fragment",
		Data:     data,
	})
}

// ReviewMaterial records an approval decision for a material.
// POST /materials/{id}/approval with form fields decision and comment.
func (h *UIHandlers) ReviewMaterial(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	id := r.PathValue("id")
	if session == nil || id == "" || h.MaterialSvc == nil {
		h.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	current, err := h.MaterialSvc.GetByID(r.Context(), id)
	if err != nil || (!session.IsAdmin() && current.ClientID != session.UserID) {
		h.NotFound(w, r)
		return
	}

	decision, ok := model.ParseApprovalStatus(r.PostFormValue("decision"))
	if !ok || decision == model.ApprovalPending {
		triggerToast(w, "Decisão inválida.", "error")
		http.Error(w, "invalid decision", http.StatusBadRequest)
		return
	}

	var comment *string
	if msg := strings.TrimSpace(r.PostFormValue("comment")); msg != "" {
		comment = &msg
	}

	material, err := h.MaterialSvc.Review(r.Context(), service.ReviewInput{
		MaterialID: id,
		Reviewer: service.ReviewerInfo{
			AccountID: session.UserID,
			Name:      session.Name,
		},
		Request: model.ReviewMaterialRequest{
			Decision: decision,
			Comment:  comment,
		},
	})
	if err != nil {
		h.logger().Error("failed to record material review", "material_id", id, "error", err)
		triggerToast(w, "Não foi possível registrar a decisão.", "error")
		http.Error(w, "review failed", http.StatusInternalServerError)
		return
	}

	triggerToast(w, reviewToastMessage(material.ApprovalStatus), "success")
	if IsHTMX(r) {
		h.MaterialDetail(w, r)
		return
	}
	http.Redirect(w, r, "/materials", http.StatusSeeOther)
}

func reviewToastMessage(status model.ApprovalStatus) string {
	switch status {
	case model.ApprovalApproved:
		return "Material aprovado."
	case model.ApprovalRejected:
		return "Material rejeitado."
	case model.ApprovalRevision:
		return "Ajustes solicitados."
	default:
		return "Decisão registrada."
	}
}

// CommentMaterial appends a comment to a material's review thread.
// POST /materials/{id}/comments with form field message.
func (h *UIHandlers) CommentMaterial(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	id := r.PathValue("id")
	if session == nil || id == "" || h.MaterialSvc == nil {
		h.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	_, err := h.MaterialSvc.AddComment(r.Context(), core.AddCommentParams{
		MaterialID: id,
		AuthorID:   session.UserID,
		AuthorName: session.Name,
		Message:    r.PostFormValue("message"),
	})
	if err != nil {
		h.logger().Error("failed to add material comment", "material_id", id, "error", err)
		triggerToast(w, "Não foi possível enviar o comentário.", "error")
		http.Error(w, "comment failed", http.StatusInternalServerError)
		return
	}

	if IsHTMX(r) {
		h.MaterialDetail(w, r)
		return
	}
	http.Redirect(w, r, "/materials", http.StatusSeeOther)
}
