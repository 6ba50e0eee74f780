package httpx

import (
	"bytes"
	"errors"
	"net/http"
)

// Landing renders the public landing page. Authenticated users are sent
// straight to their home page instead.
func (h *UIHandlers) Landing(w http.ResponseWriter, r *http.Request) {
	if session := GetSessionFromContext(r.Context()); session != nil && !session.IsGuest() {
		http.Redirect(w, r, RoleHome(session.Role), http.StatusSeeOther)
		return
	}

	data := map[string]any{
		"Title":       "Clientus - Portal do Cliente",
		"CurrentPage": PageLanding,
	}
	h.renderStandalone(w, r, "landing-page", data)
}

// LoginPage renders the login form. The error query parameter selects a
// user-facing message, so failed submissions can redirect back here.
func (h *UIHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	if session := GetSessionFromContext(r.Context()); session != nil && !session.IsGuest() {
		http.Redirect(w, r, RoleHome(session.Role), http.StatusSeeOther)
		return
	}

	data := map[string]any{
		"Title":       "Entrar - Clientus",
		"CurrentPage": PageLogin,
	}
	if csrfToken := GetCSRFToken(r); csrfToken != "" {
		data["CSRFToken"] = csrfToken
	}
	switch r.URL.Query().Get("error") {
	case "invalid_credentials":
		data["Error"] = true
		data["ErrorMessage"] = "E-mail ou senha incorretos."
	case "login_failed":
		data["Error"] = true
		data["ErrorMessage"] = "Não foi possível entrar agora. Tente novamente."
	case "session_expired":
		data["Error"] = true
		data["ErrorMessage"] = "Sua sessão expirou. Entre novamente."
	}
	h.renderStandalone(w, r, "login-page", data)
}

// renderStandalone buffers a self-contained page template to avoid partial
// writes on error.
func (h *UIHandlers) renderStandalone(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	if h.T == nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := h.T.t.ExecuteTemplate(&buf, name, data); err != nil {
		h.logAndRenderTemplateError(w, r, err, name)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger().Error("failed to write standalone page", "template", name, "error", err)
	}
}

// NotFound handles unmatched routes. Browser requests are redirected to the
// home page, which in turn gates on authentication; API requests get JSON.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if IsBrowserRequest(r) {
		if IsHTMX(r) {
			SetHXRedirect(w, "/")
			w.WriteHeader(http.StatusOK)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	WriteError(w, ErrorParams{
		Code:    http.StatusNotFound,
		ErrCode: "not_found",
		Err:     errors.New("not found"),
	})
}
