package httpx

import (
	"errors"
	"net/http"
	"strings"

	"github.com/clientus/portal/internal/data"
	"github.com/clientus/portal/internal/domain/model"
	"github.com/clientus/portal/internal/service"
)

// DocumentHandlers provides HTTP handlers for document library operations.
// Uploads and deletion are admin-only; reads are scoped to the owning client.
type DocumentHandlers struct {
	Svc *service.DocumentService
}

const maxDocumentListLimit = 100

// Create handles HTTP requests to register a new document.
func (h *DocumentHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateDocumentRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	document, err := h.Svc.Create(r.Context(), &req)
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

	WriteJSON(w, http.StatusCreated, document)
}

// List handles HTTP requests to list documents. Non-admin sessions are
// always scoped to their own account.
func (h *DocumentHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, maxDocumentListLimit)

	opts := model.DocumentListOptions{Limit: limit, Offset: offset}
	if clientID := strings.TrimSpace(r.URL.Query().Get("client_id")); clientID != "" {
		opts.ClientID = &clientID
	}
	if raw := r.URL.Query().Get("category"); raw != "" {
		if category, ok := model.ParseDocumentCategory(raw); ok {
			opts.Category = &category
		}
	}

	if session := GetSessionFromContext(r.Context()); session != nil && !session.IsAdmin() {
		clientID := session.UserID
		opts.ClientID = &clientID
	}

	documents, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"documents": documents,
		"limit":     limit,
		"offset":    offset,
	})
}

// GetByID handles HTTP requests to get a document by ID.
func (h *DocumentHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("document id is required")},
		)
		return
	}

	var document *model.Document
	var err error
	session := GetSessionFromContext(r.Context())
	if session != nil && !session.IsAdmin() {
		document, err = h.Svc.GetForClient(r.Context(), id, session.UserID)
	} else {
		document, err = h.Svc.GetByID(r.Context(), id)
	}
	if err != nil {
		if errors.Is(err, data.ErrDocumentNotFound) || errors.Is(err, service.ErrNotOwned) {
			WriteError(w, ErrorParams{
				Code:    http.StatusNotFound,
				ErrCode: "document_not_found",
				Err:     errors.New("document not found"),
			})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "get_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, document)
}

// Update handles HTTP requests to update a document's metadata.
func (h *DocumentHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("document id is required")},
		)
		return
	}

	var req model.UpdateDocumentRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	document, err := h.Svc.Update(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrDocumentNotFound):
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "document_not_found", Err: err})
		case isValidationError(err):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "update_failed", Err: err})
		}
		return
	}

	WriteJSON(w, http.StatusOK, document)
}

// Delete handles HTTP requests to delete a document.
func (h *DocumentHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("document id is required")},
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
			ErrorParams{Code: http.StatusNotFound, ErrCode: "document_not_found", Err: errors.New("document not found")},
		)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
