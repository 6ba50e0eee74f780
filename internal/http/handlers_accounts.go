// Package httpx provides HTTP handlers and utilities for the Clientus portal API.
package httpx

import (
	"errors"
	"net/http"
	"strings"

	"github.com/clientus/portal/internal/data"
	domainauth "github.com/clientus/portal/internal/domain/auth"
	"github.com/clientus/portal/internal/domain/model"
	"github.com/clientus/portal/internal/service"
)

// AccountHandlers provides HTTP handlers for account management.
// All routes behind these handlers are admin-only.
type AccountHandlers struct {
	Svc *service.AccountService
}

const maxAccountListLimit = 100

// Create handles HTTP requests to create a new account.
func (h *AccountHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateAccountRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	account, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrAccountEmailExists):
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "email_conflict", Err: err})
		case isValidationError(err):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "create_failed", Err: err})
		}
		return
	}

	WriteJSON(w, http.StatusCreated, account)
}

// List handles HTTP requests to list accounts with filtering and pagination.
func (h *AccountHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, maxAccountListLimit)

	opts := model.AccountListOptions{Limit: limit, Offset: offset}
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		opts.Q = &q
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status := domainauth.AccountStatus(raw)
		opts.Status = &status
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("role")); raw != "" {
		role := domainauth.Role(raw)
		opts.Role = &role
	}

	accounts, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"accounts": accounts,
		"limit":    limit,
		"offset":   offset,
	})
}

// GetByID handles HTTP requests to get an account by ID.
func (h *AccountHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("account id is required")},
		)
		return
	}

	account, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrAccountNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "account_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "get_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, account)
}

// Update handles HTTP requests to update an account.
func (h *AccountHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("account id is required")},
		)
		return
	}

	var req model.UpdateAccountRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	account, err := h.Svc.Update(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrAccountNotFound):
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "account_not_found", Err: err})
		case errors.Is(err, data.ErrAccountEmailExists):
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "email_conflict", Err: err})
		case isValidationError(err):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "update_failed", Err: err})
		}
		return
	}

	WriteJSON(w, http.StatusOK, account)
}

// Delete handles HTTP requests to delete an account.
func (h *AccountHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("account id is required")},
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
			ErrorParams{Code: http.StatusNotFound, ErrCode: "account_not_found", Err: errors.New("account not found")},
		)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
