package httpx

// Navigation sections. CurrentPage drives the active nav entry.
const (
	PageDashboard  = "dashboard"
	PageUsers      = "users"
	PageDocuments  = "documents"
	PageCareHomes  = "care-homes"
	PagePlans      = "plans"
	PageCompany    = "company"
	PageResidents  = "residents"
	PageCaregivers = "caregivers"
	PageClinicians = "healthcare-professionals"
	PageCandidates = "interview-candidates"
	PageSignIn     = "signin"
	PageSignedOut  = "signed-out"
)

// View selects the content template a page renders into the layout.
type View string

const (
	ViewDashboard View = "dashboard"
	ViewList      View = "list"
	ViewDetail    View = "detail"
	ViewForm      View = "form"
	ViewSignIn    View = "signin"
	ViewSignedOut View = "signed-out"
	ViewNotFound  View = "not-found"
)

// Asset paths used in tests and dev mode.
const (
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
	StaticPathFromRoot   = "frontend/static"
)

const (
	// StrTrue represents the string "true" for boolean query parameters.
	StrTrue = "true"
	// StrFalse represents the string "false" for boolean query parameters.
	StrFalse = "false"
)

// listRegionID is the element id list pages swap on pagination and filter changes.
const listRegionID = "list-region"

// FormMode represents the mode of a form (create or edit).
type FormMode string

const (
	// FormModeEdit indicates the form is in edit mode.
	FormModeEdit FormMode = "edit"
	// FormModeCreate indicates the form is in create mode.
	FormModeCreate FormMode = "create"
)

//nolint:gochecknoglobals // static read-only lookup for templates
var contentTemplates = map[View]string{
	ViewDashboard: "dashboard-content",
	ViewList:      "list-content",
	ViewDetail:    "detail-content",
	ViewForm:      "form-content",
	ViewSignIn:    "signin-content",
	ViewSignedOut: "signed-out-content",
	ViewNotFound:  "not-found-content",
}

// ContentTemplateFor returns the content template for a view.
// Unknown views fall back to the dashboard.
func ContentTemplateFor(view string) string {
	if name, ok := contentTemplates[View(view)]; ok {
		return name
	}
	return "dashboard-content"
}
