package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/clientus/portal/internal/service"
)

const errMsgUnableLoadDashboard = "Não foi possível carregar o painel."

// Index serves the home page. Admins are redirected to their own dashboard;
// clients get their account summary.
func (h *UIHandlers) Index(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil || session.IsGuest() {
		http.Redirect(w, r, "/landing", http.StatusSeeOther)
		return
	}
	if session.IsAdmin() {
		http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
		return
	}

	clientID := session.UserID
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Clientus - Painel", PageTitle: "Painel", CurrentPage: PageDashboard},
		Fetch: func(ctx context.Context, data map[string]any) error {
			return h.populateClientDashboard(ctx, clientID, data)
		},
	})
}

func (h *UIHandlers) populateClientDashboard(ctx context.Context, clientID string, data map[string]any) error {
	data["Dashboard"] = &service.ClientDashboard{}
	if h.DashboardSvc == nil {
		data["ErrorMessage"] = errMsgUnableLoadDashboard
		return errors.New("dashboard service is not available")
	}
	dash, err := h.DashboardSvc.ForClient(ctx, clientID)
	if err != nil {
		h.logger().WarnContext(ctx, "failed to load client dashboard", "client_id", clientID, "error", err)
		data["ErrorMessage"] = errMsgUnableLoadDashboard
		return err
	}
	data["Dashboard"] = dash
	data["UnreadCount"] = dash.UnreadNotifications
	return nil
}

// AdminDashboard serves the agency-wide dashboard for admins.
func (h *UIHandlers) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Clientus - Painel da Agência", PageTitle: "Painel da Agência", CurrentPage: PageAdminDashboard},
		Fetch: func(ctx context.Context, data map[string]any) error {
			data["Dashboard"] = &service.AdminDashboard{}
			if h.DashboardSvc == nil {
				data["ErrorMessage"] = errMsgUnableLoadDashboard
				return errors.New("dashboard service is not available")
			}
			dash, err := h.DashboardSvc.ForAdmin(ctx)
			if err != nil {
				h.logger().WarnContext(ctx, "failed to load admin dashboard", "error", err)
				data["ErrorMessage"] = errMsgUnableLoadDashboard
				return err
			}
			data["Dashboard"] = dash
			return nil
		},
	})
}
