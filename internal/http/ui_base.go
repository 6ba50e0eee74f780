package httpx

import (
	"bytes"
	"context"
	"html"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/clientus/portal/internal/core"
	domainauth "github.com/clientus/portal/internal/domain/auth"
	"github.com/clientus/portal/internal/domain/model"
	"github.com/clientus/portal/internal/service"
)

const errMsgFixBelow = "Corrija os erros abaixo."

// AccountsService is a minimal interface for UI needs.
type AccountsService interface {
	Create(ctx context.Context, req *model.CreateAccountRequest) (*model.Account, error)
	GetByID(ctx context.Context, id string) (*model.Account, error)
	List(ctx context.Context, opts model.AccountListOptions) ([]*model.Account, error)
	ListClients(ctx context.Context, opts model.AccountListOptions) ([]*model.Account, error)
	Update(ctx context.Context, id string, req model.UpdateAccountRequest) (*model.Account, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// MaterialsService is a minimal interface for UI needs.
type MaterialsService interface {
	Create(ctx context.Context, req *model.CreateMaterialRequest) (*model.Material, error)
	GetByID(ctx context.Context, id string) (*model.Material, error)
	List(ctx context.Context, opts model.MaterialListOptions) ([]*model.Material, error)
	Update(ctx context.Context, id string, req model.UpdateMaterialRequest) (*model.Material, error)
	Review(ctx context.Context, in service.ReviewInput) (*model.Material, error)
	AddComment(ctx context.Context, params core.AddCommentParams) (*model.Comment, error)
	ListComments(ctx context.Context, materialID string) ([]*model.Comment, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// CampaignsService is a minimal interface for UI needs.
type CampaignsService interface {
	Create(ctx context.Context, req *model.CreateCampaignRequest) (*model.Campaign, error)
	GetByID(ctx context.Context, id string) (*model.Campaign, error)
	GetForClient(ctx context.Context, id, clientID string) (*model.Campaign, error)
	List(ctx context.Context, opts model.CampaignListOptions) ([]*model.Campaign, error)
	ListForClient(ctx context.Context, clientID string, opts model.CampaignListOptions) ([]*model.Campaign, error)
	Update(ctx context.Context, id string, req model.UpdateCampaignRequest) (*model.Campaign, error)
	ImportMetrics(ctx context.Context, id string, req model.ImportMetricsRequest) (*model.Campaign, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// DocumentsService is a minimal interface for UI needs.
type DocumentsService interface {
	Create(ctx context.Context, req *model.CreateDocumentRequest) (*model.Document, error)
	GetByID(ctx context.Context, id string) (*model.Document, error)
	GetForClient(ctx context.Context, id, clientID string) (*model.Document, error)
	List(ctx context.Context, opts model.DocumentListOptions) ([]*model.Document, error)
	Update(ctx context.Context, id string, req model.UpdateDocumentRequest) (*model.Document, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// NotificationsService is a minimal interface for UI needs.
type NotificationsService interface {
	ListByAccount(ctx context.Context, accountID string, limit int) ([]*model.Notification, error)
	MarkRead(ctx context.Context, params core.MarkReadParams) (bool, error)
	MarkAllRead(ctx context.Context, accountID string) (int, error)
	CountUnread(ctx context.Context, accountID string) (int, error)
}

// DashboardReadService exposes the dashboard aggregations needed by the UI.
type DashboardReadService interface {
	ForClient(ctx context.Context, clientID string) (*service.ClientDashboard, error)
	ForAdmin(ctx context.Context) (*service.AdminDashboard, error)
}

// Compile-time interface assertions to ensure concrete services satisfy their UI interfaces.
var (
	_ AccountsService      = (*service.AccountService)(nil)
	_ MaterialsService     = (*service.MaterialService)(nil)
	_ CampaignsService     = (*service.CampaignService)(nil)
	_ DocumentsService     = (*service.DocumentService)(nil)
	_ NotificationsService = (*service.NotificationService)(nil)
	_ DashboardReadService = (*service.DashboardService)(nil)
)

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T            *TemplateRenderer
	AccountSvc   AccountsService
	MaterialSvc  MaterialsService
	CampaignSvc  CampaignsService
	DocumentSvc  DocumentsService
	NotifySvc    NotificationsService
	DashboardSvc DashboardReadService
	IsDev        bool // Development mode flag for enhanced error reporting
	Logger       *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// getPageParams parses pagination params from URL query with sane defaults.
func getPageParams(q url.Values) (int, int) {
	page := 1
	pageSize := 10
	if p := q.Get("page"); p != "" {
		if n, err := strconv.Atoi(p); err == nil && n > 0 {
			page = n
		}
	}
	if s := q.Get("page_size"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 100 {
			pageSize = n
		}
	}
	return page, pageSize
}

// pageOpts represents pagination options for list views.
type pageOpts struct {
	Page     int
	PageSize int
}

// LimitAndOffset returns limit/offset used for pagination fetches,
// always fetching one extra item to detect next-page availability.
func (p pageOpts) LimitAndOffset() (int, int) {
	page := p.Page
	if page <= 0 {
		page = 1
	}
	pageSize := p.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	limit := pageSize + 1
	offset := (page - 1) * pageSize
	return limit, offset
}

// paginate is a generic paginator for limit/offset list endpoints.
func paginate[T any](
	ctx context.Context,
	p pageOpts,
	fetch func(context.Context, int, int) ([]T, error),
) ([]T, bool, bool, int, int, error) {
	limit, offset := p.LimitAndOffset()
	items, err := fetch(ctx, limit, offset)
	if err != nil {
		return nil, false, false, 0, 0, err
	}
	hasPrev := p.Page > 1
	hasNext := len(items) > p.PageSize
	if hasNext {
		items = items[:p.PageSize]
	}
	if len(items) == 0 {
		return items, hasPrev, hasNext, 0, 0, nil
	}
	startIndex := offset + 1
	endIndex := offset + len(items)
	return items, hasPrev, hasNext, startIndex, endIndex, nil
}

// triggerToast sends a standardized HX-Trigger payload for toast notifications.
func triggerToast(w http.ResponseWriter, message, toastType string) {
	if w == nil || strings.TrimSpace(message) == "" {
		return
	}
	HTMX(w).Trigger("showToast", map[string]any{
		"message": message,
		"type":    strings.TrimSpace(toastType),
	})
}

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

// basePageData constructs the common page data map with user context.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	data := map[string]any{
		"Title":           meta.Title,
		"PageTitle":       meta.PageTitle,
		"CurrentPage":     meta.CurrentPage,
		"IsAuthenticated": false,
	}

	if csrfToken := GetCSRFToken(r); csrfToken != "" {
		data["CSRFToken"] = csrfToken
	}

	if session := GetSessionFromContext(r.Context()); session != nil {
		data["IsAuthenticated"] = true
		data["IsAdmin"] = session.Role == domainauth.RoleAdmin
		data["User"] = map[string]any{
			"ID":        session.UserID,
			"Name":      session.Name,
			"Email":     session.Email,
			"Role":      string(session.Role),
			"AvatarURL": session.AvatarURL,
			"Company":   session.Company,
		}
	}

	return data
}

// PageSpec defines metadata and an optional fetch for page-specific data.
type PageSpec struct {
	Meta  PageMeta
	Fetch func(ctx context.Context, data map[string]any) error
}

// Page builds base data, optionally fetches content data, and renders.
func (h *UIHandlers) Page(w http.ResponseWriter, r *http.Request, spec PageSpec) {
	data := basePageData(r, spec.Meta)
	if spec.Fetch != nil {
		if err := spec.Fetch(r.Context(), data); err != nil {
			markPageError(data)
		}
	}
	h.renderPortalPage(w, r, data)
}

// renderPortalPage renders a portal page with HTMX partial support.
func (h *UIHandlers) renderPortalPage(w http.ResponseWriter, r *http.Request, data any) {
	if !WantsPartial(r) {
		if err := h.T.RenderFull(w, r, data); err != nil {
			h.logAndRenderTemplateError(w, r, err, "full page render")
		}
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	// Hint client JS to update nav active state based on current path
	SetHXTrigger(w, "nav:activate", map[string]string{"path": r.URL.Path})

	meta := extractPageMeta(data)

	// Include a <title> element so htmx updates document.title on partial swaps
	safeDocTitle := html.EscapeString(meta.Title)
	if _, err := w.Write([]byte(`<title>` + safeDocTitle + `</title>`)); err != nil {
		h.logger().Error("failed to write partial document title", "error", err)
		return
	}

	// Out-of-band update for the header title
	safeTitle := html.EscapeString(meta.PageTitle)
	if _, err := w.Write([]byte(`<h1 id="header-title" class="header-title" hx-swap-oob="outerHTML">` + safeTitle + `</h1>`)); err != nil {
		h.logger().Error("failed to write partial header title", "error", err)
		return
	}

	if err := h.T.t.ExecuteTemplate(w, ContentTemplateFor(meta.CurrentPage), data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "partial content render")
	}
}

func markPageError(data map[string]any) {
	data["Error"] = true
	if _, ok := data["ErrorMessage"]; ok {
		return
	}
	data["ErrorMessage"] = "Ocorreu um erro inesperado. Tente novamente."
}

func extractPageMeta(data any) PageMeta {
	m, ok := data.(map[string]any)
	if !ok {
		return PageMeta{}
	}
	meta := PageMeta{}
	if v, titleOK := m["Title"].(string); titleOK {
		meta.Title = v
	}
	if v, pageTitleOK := m["PageTitle"].(string); pageTitleOK {
		meta.PageTitle = v
	}
	if v, currentPageOK := m["CurrentPage"].(string); currentPageOK {
		meta.CurrentPage = v
	}
	return meta
}

// fragmentRenderOptions carries the template and data for an HTMX fragment.
type fragmentRenderOptions struct {
	Template string
	Data     map[string]any
}

// renderFragment renders an HTMX fragment with consistent headers and logging.
func (h *UIHandlers) renderFragment(w http.ResponseWriter, r *http.Request, opts fragmentRenderOptions) {
	var buf bytes.Buffer
	if err := h.T.t.ExecuteTemplate(&buf, opts.Template, opts.Data); err != nil {
		h.logger().ErrorContext(r.Context(), "failed to render fragment",
			"template", opts.Template,
			"error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	w.Header().Set("Vary", "HX-Request")
	if _, err := buf.WriteTo(w); err != nil {
		h.logger().ErrorContext(r.Context(), "failed to write fragment",
			"template", opts.Template,
			"error", err)
	}
}

// logAndRenderTemplateError logs template errors and renders them in dev mode.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error, context string) {
	h.logger().Error("template rendering failed",
		"error", err,
		"context", context,
		"path", r.URL.Path,
		"method", r.Method,
	)

	if h.IsDev {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		errHTML := html.EscapeString(err.Error())
		pathHTML := html.EscapeString(r.URL.Path)
		contextHTML := html.EscapeString(context)
		if _, writeErr := w.Write([]byte(`
			<div style="padding: 20px; background: #fee; border: 2px solid #c33; border-radius: 4px; margin: 20px; font-family: monospace;">
				<h2 style="color: #c33; margin-top: 0;">Template Rendering Error</h2>
				<p><strong>Context:</strong> ` + contextHTML + `</p>
				<p><strong>Path:</strong> ` + pathHTML + `</p>
				<pre style="background: #fff; padding: 10px; border: 1px solid #ccc; overflow-x: auto;">` + errHTML + `</pre>
			</div>
		`)); writeErr != nil {
			h.logger().Error("failed to write template error response", "error", writeErr)
		}
		return
	}

	http.Error(w, "internal server error", http.StatusInternalServerError)
}
