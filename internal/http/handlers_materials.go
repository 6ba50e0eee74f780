package httpx

import (
	"errors"
	"net/http"
	"strings"

	"github.com/clientus/portal/internal/core"
	"github.com/clientus/portal/internal/data"
	"github.com/clientus/portal/internal/domain/model"
	"github.com/clientus/portal/internal/service"
)

// MaterialHandlers provides HTTP handlers for material operations.
// Creation and deletion are admin-only; review endpoints are scoped to the
// owning client account.
type MaterialHandlers struct {
	Svc *service.MaterialService
}

const maxMaterialListLimit = 100

// Create handles HTTP requests to register a new material.
func (h *MaterialHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateMaterialRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	material, err := h.Svc.Create(r.Context(), &req)
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

	WriteJSON(w, http.StatusCreated, material)
}

// List handles HTTP requests to list materials. Non-admin sessions are
// always scoped to their own account regardless of the client_id param.
func (h *MaterialHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, maxMaterialListLimit)

	opts := model.MaterialListOptions{Limit: limit, Offset: offset}
	if clientID := strings.TrimSpace(r.URL.Query().Get("client_id")); clientID != "" {
		opts.ClientID = &clientID
	}
	if raw := r.URL.Query().Get("approval"); raw != "" {
		if status, ok := model.ParseApprovalStatus(raw); ok {
			opts.ApprovalStatus = &status
		}
	}

	if session := GetSessionFromContext(r.Context()); session != nil && !session.IsAdmin() {
		clientID := session.UserID
		opts.ClientID = &clientID
	}

	materials, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"materials": materials,
		"limit":     limit,
		"offset":    offset,
	})
}

// getScoped fetches a material and enforces client ownership for non-admins.
func (h *MaterialHandlers) getScoped(w http.ResponseWriter, r *http.Request) (*model.Material, bool) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("material id is required")},
		)
		return nil, false
	}

	material, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrMaterialNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "material_not_found", Err: err})
			return nil, false
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "get_failed", Err: err})
		return nil, false
	}

	if session := GetSessionFromContext(r.Context()); session != nil &&
		!session.IsAdmin() && material.ClientID != session.UserID {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "material_not_found",
			Err:     errors.New("material not found"),
		})
		return nil, false
	}

	return material, true
}

// GetByID handles HTTP requests to get a material by ID.
func (h *MaterialHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	material, ok := h.getScoped(w, r)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, material)
}

// Update handles HTTP requests to update a material's content fields.
func (h *MaterialHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("material id is required")},
		)
		return
	}

	var req model.UpdateMaterialRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	material, err := h.Svc.Update(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrMaterialNotFound):
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "material_not_found", Err: err})
		case isValidationError(err):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "update_failed", Err: err})
		}
		return
	}

	WriteJSON(w, http.StatusOK, material)
}

// Review handles HTTP requests to record an approval decision.
func (h *MaterialHandlers) Review(w http.ResponseWriter, r *http.Request) {
	material, ok := h.getScoped(w, r)
	if !ok {
		return
	}

	session := GetSessionFromContext(r.Context())
	if session == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "unauthorized",
			Err:     errors.New("authentication required"),
		})
		return
	}

	var req model.ReviewMaterialRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	reviewed, err := h.Svc.Review(r.Context(), service.ReviewInput{
		MaterialID: material.ID,
		Reviewer: service.ReviewerInfo{
			AccountID: session.UserID,
			Name:      session.Name,
		},
		Request: req,
	})
	if err != nil {
		if isValidationError(err) {
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "review_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, reviewed)
}

// ListComments handles HTTP requests to read a material's comment thread.
func (h *MaterialHandlers) ListComments(w http.ResponseWriter, r *http.Request) {
	material, ok := h.getScoped(w, r)
	if !ok {
		return
	}

	comments, err := h.Svc.ListComments(r.Context(), material.ID)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"comments": comments})
}

// AddComment handles HTTP requests to append a comment to a material.
func (h *MaterialHandlers) AddComment(w http.ResponseWriter, r *http.Request) {
	material, ok := h.getScoped(w, r)
	if !ok {
		return
	}

	session := GetSessionFromContext(r.Context())
	if session == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "unauthorized",
			Err:     errors.New("authentication required"),
		})
		return
	}

	var req model.AddCommentRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	comment, err := h.Svc.AddComment(r.Context(), core.AddCommentParams{
		MaterialID: material.ID,
		AuthorID:   session.UserID,
		AuthorName: session.Name,
		Message:    req.Message,
	})
	if err != nil {
		if isValidationError(err) {
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "comment_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusCreated, comment)
}

// Delete handles HTTP requests to delete a material.
func (h *MaterialHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("material id is required")},
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
			ErrorParams{Code: http.StatusNotFound, ErrCode: "material_not_found", Err: errors.New("material not found")},
		)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
