package httpx

// CurrentPage constants define the page identifiers used in templates and navigation.
// These constants ensure consistency across UI handlers and template mapping.
const (
	// Public pages.
	PageLanding = "landing"
	PageLogin   = "login"

	// Client pages.
	PageDashboard     = "dashboard"
	PageMaterials     = "materials"
	PageCampaigns     = "campaigns"
	PageLibrary       = "library"
	PageNotifications = "notifications"

	// Admin pages.
	PageAdminDashboard = "admin-dashboard"
	PageAdminClients   = "admin-clients"
	PageAdminMaterials = "admin-materials"
	PageAdminCampaigns = "admin-campaigns"
	PageAdminDocuments = "admin-documents"
	PageClientForm     = "client-form"
	PageMaterialForm   = "material-form"
	PageCampaignForm   = "campaign-form"
	PageDocumentForm   = "document-form"
)

// Template paths used for loading templates in tests and production.
const (
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
)

// FormMode represents the mode of a form (create or edit).
type FormMode string

const (
	FormModeEdit   FormMode = "edit"
	FormModeCreate FormMode = "create"
)

// Content templates are defined once and reused to avoid per-call allocations.
//
//nolint:gochecknoglobals // static read-only lookup for templates; avoids per-call allocations
var contentTemplates = map[string]string{
	PageLanding:        "landing-content",
	PageLogin:          "login-content",
	PageDashboard:      "dashboard-content",
	PageMaterials:      "materials-content",
	PageCampaigns:      "campaigns-content",
	PageLibrary:        "library-content",
	PageNotifications:  "notifications-content",
	PageAdminDashboard: "admin-dashboard-content",
	PageAdminClients:   "admin-clients-content",
	PageAdminMaterials: "admin-materials-content",
	PageAdminCampaigns: "admin-campaigns-content",
	PageAdminDocuments: "admin-documents-content",
	PageClientForm:     "client-form-content",
	PageMaterialForm:   "material-form-content",
	PageCampaignForm:   "campaign-form-content",
	PageDocumentForm:   "document-form-content",
}

// ContentTemplateFor returns the content template for the given CurrentPage.
// Falls back to dashboard-content for unknown pages.
func ContentTemplateFor(currentPage string) string {
	if name, ok := contentTemplates[currentPage]; ok {
		return name
	}
	return "dashboard-content"
}
