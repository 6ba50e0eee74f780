package httpx

import (
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"

	portal "github.com/clientus/portal"
	domainauth "github.com/clientus/portal/internal/domain/auth"
	"github.com/clientus/portal/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Accounts      *service.AccountService
	Materials     *service.MaterialService
	Campaigns     *service.CampaignService
	Documents     *service.DocumentService
	Notifications *service.NotificationService
	Dashboard     *service.DashboardService
	Auth          *service.AuthService
	CookieDomain  string
	// Readiness pingers keyed by dependency name (database, sessions).
	Pingers map[string]Pinger
	IsDev   bool         // Development mode flag for hot reloading, etc.
	Logger  *slog.Logger // Logger for template and HTTP errors (optional)
}

// NewRouter creates and configures a new HTTP router with browser middleware.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	var authHandlers *AuthHandlers
	if services.Auth != nil {
		authHandlers = &AuthHandlers{Svc: services.Auth, CookieDomain: services.CookieDomain, Logger: services.Logger}
	}

	registerAccountRoutes(mux, &AccountHandlers{Svc: services.Accounts}, services.Auth)
	registerMaterialRoutes(mux, &MaterialHandlers{Svc: services.Materials}, services.Auth)
	registerCampaignRoutes(mux, &CampaignHandlers{Svc: services.Campaigns}, services.Auth)
	registerDocumentRoutes(mux, &DocumentHandlers{Svc: services.Documents}, services.Auth)
	registerNotificationRoutes(mux, &NotificationHandlers{Svc: services.Notifications}, services.Auth)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("GET /readyz", readyHandler(services.Logger, services.Pingers))

	if authHandlers != nil {
		registerAuthRoutes(mux, authHandlers, services.CookieDomain)
	}

	// Static assets at /static
	// Dev mode: serve from disk for hot reloading
	// Prod mode: serve from embedded FS
	mux.Handle("GET /static/", staticHandler(services.IsDev))

	// UI routes with template renderer
	uiHandlers := setupUIHandlers(services)
	if uiHandlers != nil {
		cfg := uiRouteConfig{Auth: services.Auth, CookieDomain: services.CookieDomain}
		registerUIRoutes(mux, uiHandlers, cfg)
	}

	// Wrap with NotFound handler and browser detection middleware
	handler := &notFoundHandler{
		mux:        mux,
		uiHandlers: uiHandlers,
	}

	// Apply browser detection middleware
	return BrowserDetection()(handler)
}

// setupUIHandlers creates UI handlers with a template renderer.
// In dev mode (services.IsDev=true), templates are loaded from disk for hot reloading.
// In production mode (services.IsDev=false), templates are loaded from embedded FS.
func setupUIHandlers(services RouterServices) *UIHandlers {
	var templateFS fs.FS
	if services.IsDev {
		templateFS = os.DirFS(TemplatePathFromRoot)
	} else {
		sub, err := fs.Sub(portal.TemplateFS, "frontend/templates")
		if err != nil {
			log.Printf("failed to create sub-filesystem for templates: %v; falling back to disk", err)
			sub = os.DirFS(TemplatePathFromRoot)
		}
		templateFS = sub
	}

	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: templateFS,
		Logger:     services.Logger,
	})
	if err != nil {
		if services.Logger != nil {
			services.Logger.Error("failed to create template renderer", slog.Any("error", err))
		} else {
			log.Printf("ERROR: failed to create template renderer: %v", err)
		}
		return nil
	}

	return &UIHandlers{
		T:            tr,
		AccountSvc:   services.Accounts,
		MaterialSvc:  services.Materials,
		CampaignSvc:  services.Campaigns,
		DocumentSvc:  services.Documents,
		NotifySvc:    services.Notifications,
		DashboardSvc: services.Dashboard,
		IsDev:        services.IsDev,
		Logger:       services.Logger,
	}
}

// staticHandler serves /static/* assets.
// In dev mode (isDev=true), serves from disk for hot reloading.
// In production mode (isDev=false), serves from embedded FS.
func staticHandler(isDev bool) http.Handler {
	if isDev {
		return noCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir("frontend/static"))))
	}

	staticSub, err := fs.Sub(portal.StaticFS, "frontend/static")
	if err != nil {
		log.Printf("failed to create sub-filesystem for static assets: %v", err)
		return noCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir("frontend/static"))))
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(staticSub)))
}

// noCacheHeaders wraps a static file handler so dev assets are never cached.
func noCacheHeaders(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		handler.ServeHTTP(w, r)
	})
}

// notFoundHandler wraps a ServeMux and provides custom 404 handling.
type notFoundHandler struct {
	mux        *http.ServeMux
	uiHandlers *UIHandlers
}

// ServeHTTP implements http.Handler and provides custom 404 handling.
// Static assets bypass the interceptor so the file server can stream
// them directly; everything else streams too, with only a 404 status
// swallowed and replaced post-dispatch.
func (h *notFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/static/") {
		h.mux.ServeHTTP(w, r)
		return
	}

	iw := &notFoundInterceptor{rw: w}
	h.mux.ServeHTTP(iw, r)

	if iw.intercepted {
		if h.uiHandlers != nil {
			h.uiHandlers.NotFound(w, r)
			return
		}
		http.NotFound(w, r)
	}
}

// notFoundInterceptor passes writes straight through to the underlying
// ResponseWriter until a handler commits a 404 status. From that point
// the body is discarded so notFoundHandler can substitute its own
// response.
type notFoundInterceptor struct {
	rw          http.ResponseWriter
	committed   bool
	intercepted bool
}

func (i *notFoundInterceptor) Header() http.Header { return i.rw.Header() }

func (i *notFoundInterceptor) WriteHeader(code int) {
	if i.committed || i.intercepted {
		return
	}
	if code == http.StatusNotFound {
		i.intercepted = true
		// Drop headers the original handler set; the replacement
		// response starts clean.
		header := i.rw.Header()
		for k := range header {
			delete(header, k)
		}
		return
	}
	i.committed = true
	i.rw.WriteHeader(code)
}

func (i *notFoundInterceptor) Write(b []byte) (int, error) {
	if i.intercepted {
		return len(b), nil
	}
	i.committed = true
	return i.rw.Write(b)
}

// Flush forwards streaming flushes so handlers relying on http.Flusher
// keep working through the interceptor.
func (i *notFoundInterceptor) Flush() {
	if i.intercepted {
		return
	}
	if f, ok := i.rw.(http.Flusher); ok {
		f.Flush()
	}
}

// apiWrappers returns nil-safe middleware for API routes: one requiring any
// authenticated session and one requiring the admin role.
func apiWrappers(auth *service.AuthService) (authed, adminOnly func(http.Handler) http.Handler) {
	if auth == nil {
		passthrough := func(h http.Handler) http.Handler { return h }
		return passthrough, passthrough
	}
	return RequireAuth(auth), RequireRole(auth, domainauth.RoleAdmin)
}

// registerAccountRoutes wires the account management API. Only administrators
// manage accounts.
func registerAccountRoutes(mux *http.ServeMux, h *AccountHandlers, auth *service.AuthService) {
	_, adminOnly := apiWrappers(auth)
	mux.Handle("POST /api/accounts", adminOnly(http.HandlerFunc(h.Create)))
	mux.Handle("GET /api/accounts", adminOnly(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/accounts/{id}", adminOnly(http.HandlerFunc(h.GetByID)))
	mux.Handle("PUT /api/accounts/{id}", adminOnly(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/accounts/{id}", adminOnly(http.HandlerFunc(h.Delete)))
}

// registerMaterialRoutes wires the materials API. Reads and review actions are
// available to any authenticated session (handlers scope clients to their own
// rows); management endpoints are admin-only.
func registerMaterialRoutes(mux *http.ServeMux, h *MaterialHandlers, auth *service.AuthService) {
	authed, adminOnly := apiWrappers(auth)
	mux.Handle("POST /api/materials", adminOnly(http.HandlerFunc(h.Create)))
	mux.Handle("GET /api/materials", authed(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/materials/{id}", authed(http.HandlerFunc(h.GetByID)))
	mux.Handle("PUT /api/materials/{id}", adminOnly(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/materials/{id}", adminOnly(http.HandlerFunc(h.Delete)))
	mux.Handle("POST /api/materials/{id}/approval", authed(http.HandlerFunc(h.Review)))
	mux.Handle("GET /api/materials/{id}/comments", authed(http.HandlerFunc(h.ListComments)))
	mux.Handle("POST /api/materials/{id}/comments", authed(http.HandlerFunc(h.AddComment)))
}

// registerCampaignRoutes wires the campaigns API.
func registerCampaignRoutes(mux *http.ServeMux, h *CampaignHandlers, auth *service.AuthService) {
	authed, adminOnly := apiWrappers(auth)
	mux.Handle("POST /api/campaigns", adminOnly(http.HandlerFunc(h.Create)))
	mux.Handle("GET /api/campaigns", authed(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/campaigns/{id}", authed(http.HandlerFunc(h.GetByID)))
	mux.Handle("PUT /api/campaigns/{id}", adminOnly(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/campaigns/{id}", adminOnly(http.HandlerFunc(h.Delete)))
	mux.Handle("POST /api/campaigns/{id}/metrics", adminOnly(http.HandlerFunc(h.ImportMetrics)))
}

// registerDocumentRoutes wires the document library API.
func registerDocumentRoutes(mux *http.ServeMux, h *DocumentHandlers, auth *service.AuthService) {
	authed, adminOnly := apiWrappers(auth)
	mux.Handle("POST /api/documents", adminOnly(http.HandlerFunc(h.Create)))
	mux.Handle("GET /api/documents", authed(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/documents/{id}", authed(http.HandlerFunc(h.GetByID)))
	mux.Handle("PUT /api/documents/{id}", adminOnly(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/documents/{id}", adminOnly(http.HandlerFunc(h.Delete)))
}

// registerNotificationRoutes wires the notifications API. Every route is
// scoped to the calling session's account inside the handlers.
func registerNotificationRoutes(mux *http.ServeMux, h *NotificationHandlers, auth *service.AuthService) {
	authed, _ := apiWrappers(auth)
	mux.Handle("GET /api/notifications", authed(http.HandlerFunc(h.List)))
	mux.Handle("POST /api/notifications/{id}/read", authed(http.HandlerFunc(h.MarkRead)))
	mux.Handle("POST /api/notifications/read-all", authed(http.HandlerFunc(h.MarkAllRead)))
}

// registerAuthRoutes wires the login, logout and session status endpoints.
// The password login form carries a CSRF token, so the POST goes through the
// CSRF middleware.
func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, cookieDomain string) {
	csrf := CSRFProtection(CSRFConfig{CookieDomain: cookieDomain})
	mux.Handle("POST /auth/login", csrf(http.HandlerFunc(h.PasswordLogin)))
	mux.HandleFunc("GET /auth/oidc/login", h.OAuthLogin)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
}

// uiRouteConfig holds configuration for UI route registration.
type uiRouteConfig struct {
	Auth         *service.AuthService
	CookieDomain string
}

// publicWrap applies CSRF protection only, so public pages can seed the CSRF
// cookie for the login form.
func (cfg uiRouteConfig) publicWrap() func(http.Handler) http.Handler {
	return CSRFProtection(CSRFConfig{CookieDomain: cfg.CookieDomain})
}

// authWrap returns a no-op wrapper when auth is nil, otherwise chains CSRF
// protection with the browser authentication requirement.
func (cfg uiRouteConfig) authWrap() func(http.Handler) http.Handler {
	if cfg.Auth == nil {
		return func(h http.Handler) http.Handler { return h }
	}
	csrf := CSRFProtection(CSRFConfig{CookieDomain: cfg.CookieDomain})
	authCheck := RequireAuthBrowser(cfg.Auth)
	return func(h http.Handler) http.Handler {
		return authCheck(csrf(h))
	}
}

// adminWrap returns a no-op wrapper when auth is nil, otherwise chains CSRF
// protection with the admin role requirement.
func (cfg uiRouteConfig) adminWrap() func(http.Handler) http.Handler {
	if cfg.Auth == nil {
		return func(h http.Handler) http.Handler { return h }
	}
	csrf := CSRFProtection(CSRFConfig{CookieDomain: cfg.CookieDomain})
	roleCheck := RequireRoleBrowser(cfg.Auth, domainauth.RoleAdmin)
	return func(h http.Handler) http.Handler {
		return roleCheck(csrf(h))
	}
}

// registerUIRoutes delegates to per-domain UI route registration functions.
func registerUIRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	registerUIPublicRoutes(mux, h, cfg)
	registerUIDashboardRoutes(mux, h, cfg)
	registerUIMaterialRoutes(mux, h, cfg)
	registerUICampaignRoutes(mux, h, cfg)
	registerUILibraryRoutes(mux, h, cfg)
	registerUINotificationRoutes(mux, h, cfg)
	registerUIAdminClientRoutes(mux, h, cfg)
	registerUIAdminMaterialRoutes(mux, h, cfg)
	registerUIAdminCampaignRoutes(mux, h, cfg)
	registerUIAdminDocumentRoutes(mux, h, cfg)
}

// registerUIPublicRoutes wires pages reachable without a session.
func registerUIPublicRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrap := cfg.publicWrap()
	mux.Handle("GET /landing", wrap(http.HandlerFunc(h.Landing)))
	mux.Handle("GET /login", wrap(http.HandlerFunc(h.LoginPage)))
}

// registerUIDashboardRoutes wires the role-aware home page and dashboards.
func registerUIDashboardRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrap := cfg.authWrap()
	wrapAdmin := cfg.adminWrap()
	mux.Handle("GET /{$}", wrap(http.HandlerFunc(h.Index)))
	mux.Handle("GET /dashboard", wrap(http.HandlerFunc(h.Index)))
	mux.Handle("GET /admin", wrapAdmin(http.HandlerFunc(redirectAdminHome)))
	mux.Handle("GET /admin/dashboard", wrapAdmin(http.HandlerFunc(h.AdminDashboard)))
}

func redirectAdminHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
}

func registerUIMaterialRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrap := cfg.authWrap()
	mux.Handle("GET /materials", wrap(http.HandlerFunc(h.Materials)))
	mux.Handle("GET /materials/{id}", wrap(http.HandlerFunc(h.MaterialDetail)))
	mux.Handle("POST /materials/{id}/approval", wrap(http.HandlerFunc(h.ReviewMaterial)))
	mux.Handle("POST /materials/{id}/comments", wrap(http.HandlerFunc(h.CommentMaterial)))
}

func registerUICampaignRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrap := cfg.authWrap()
	mux.Handle("GET /campaigns", wrap(http.HandlerFunc(h.Campaigns)))
	mux.Handle("GET /campaigns/{id}", wrap(http.HandlerFunc(h.CampaignDetail)))
}

func registerUILibraryRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrap := cfg.authWrap()
	mux.Handle("GET /library", wrap(http.HandlerFunc(h.Library)))
}

func registerUINotificationRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrap := cfg.authWrap()
	mux.Handle("GET /notifications", wrap(http.HandlerFunc(h.Notifications)))
	mux.Handle("GET /notifications/fragment", wrap(http.HandlerFunc(h.NotificationsFragment)))
	mux.Handle("POST /notifications/{id}/read", wrap(http.HandlerFunc(h.MarkNotificationRead)))
	mux.Handle("POST /notifications/read-all", wrap(http.HandlerFunc(h.MarkAllNotificationsRead)))
}

// registerUIAdminClientRoutes wires the client management pages (admin-only).
func registerUIAdminClientRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrapAdmin := cfg.adminWrap()
	mux.Handle("GET /admin/clients", wrapAdmin(http.HandlerFunc(h.AdminClients)))
	mux.Handle("GET /admin/clients/new", wrapAdmin(http.HandlerFunc(h.ClientNew)))
	mux.Handle("GET /admin/clients/{id}/edit", wrapAdmin(http.HandlerFunc(h.ClientEdit)))
	mux.Handle("POST /admin/clients", wrapAdmin(http.HandlerFunc(h.ClientCreate)))
	mux.Handle("POST /admin/clients/{id}", wrapAdmin(http.HandlerFunc(h.ClientUpdate)))
	mux.Handle("POST /admin/clients/{id}/delete", wrapAdmin(http.HandlerFunc(h.ClientDelete)))
}

// registerUIAdminMaterialRoutes wires the material submission pages (admin-only).
func registerUIAdminMaterialRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrapAdmin := cfg.adminWrap()
	mux.Handle("GET /admin/materials", wrapAdmin(http.HandlerFunc(h.AdminMaterials)))
	mux.Handle("GET /admin/materials/new", wrapAdmin(http.HandlerFunc(h.MaterialNew)))
	mux.Handle("POST /admin/materials", wrapAdmin(http.HandlerFunc(h.MaterialCreate)))
	mux.Handle("POST /admin/materials/{id}/delete", wrapAdmin(http.HandlerFunc(h.AdminMaterialDelete)))
}

// registerUIAdminCampaignRoutes wires the campaign management pages (admin-only).
func registerUIAdminCampaignRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrapAdmin := cfg.adminWrap()
	mux.Handle("GET /admin/campaigns", wrapAdmin(http.HandlerFunc(h.AdminCampaigns)))
	mux.Handle("GET /admin/campaigns/new", wrapAdmin(http.HandlerFunc(h.CampaignNew)))
	mux.Handle("GET /admin/campaigns/{id}/edit", wrapAdmin(http.HandlerFunc(h.CampaignEdit)))
	mux.Handle("POST /admin/campaigns", wrapAdmin(http.HandlerFunc(h.CampaignCreate)))
	mux.Handle("POST /admin/campaigns/{id}", wrapAdmin(http.HandlerFunc(h.CampaignUpdate)))
	mux.Handle("POST /admin/campaigns/{id}/metrics/import", wrapAdmin(http.HandlerFunc(h.CampaignImportMetrics)))
	mux.Handle("POST /admin/campaigns/{id}/delete", wrapAdmin(http.HandlerFunc(h.AdminCampaignDelete)))
}

// registerUIAdminDocumentRoutes wires the document management pages (admin-only).
func registerUIAdminDocumentRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrapAdmin := cfg.adminWrap()
	mux.Handle("GET /admin/documents", wrapAdmin(http.HandlerFunc(h.AdminDocuments)))
	mux.Handle("GET /admin/documents/new", wrapAdmin(http.HandlerFunc(h.DocumentNew)))
	mux.Handle("GET /admin/documents/{id}/edit", wrapAdmin(http.HandlerFunc(h.DocumentEdit)))
	mux.Handle("POST /admin/documents", wrapAdmin(http.HandlerFunc(h.DocumentCreate)))
	mux.Handle("POST /admin/documents/{id}", wrapAdmin(http.HandlerFunc(h.DocumentUpdate)))
	mux.Handle("POST /admin/documents/{id}/delete", wrapAdmin(http.HandlerFunc(h.AdminDocumentDelete)))
}
