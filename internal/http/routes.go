package httpx

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"regexp"

	carehomeadmin "github.com/carehaven/carehome-admin"
	domainauth "github.com/carehaven/carehome-admin/internal/domain/auth"
	"github.com/carehaven/carehome-admin/internal/domain/model"
	"github.com/carehaven/carehome-admin/internal/pagination"
	"github.com/carehaven/carehome-admin/internal/ports"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Auth       AuthServiceInterface
	Sessions   SessionManager
	Dashboard  DashboardLoader
	Users      ports.UserBackend
	Documents  ports.DocumentBackend
	CareHomes  ports.CareHomeBackend
	Plans      ports.PlanBackend
	Company    ports.CompanyBackend
	Residents  ports.ProfileBackend[model.Resident]
	Caregivers ports.ProfileBackend[model.Caregiver]
	Clinicians ports.ProfileBackend[model.HealthcareProfessional]
	Candidates ports.ProfileBackend[model.InterviewCandidate]
	Bounds     pagination.Bounds
	PageSizes  []int
	Cookies    CookieConfig
	// CallbackURL is the absolute OIDC redirect URL. Empty when SSO is disabled.
	CallbackURL string
	// TemplateFS overrides the template source, mainly for tests.
	TemplateFS fs.FS
	IsDev      bool // Development mode: templates and static files are read from disk
	Logger     *slog.Logger
}

// NewRouter creates the browser router: session loading and CSRF protection
// wrap every route; dashboard and resource pages additionally require sign-in.
func NewRouter(services RouterServices) (http.Handler, error) {
	if services.Auth == nil || services.Sessions == nil {
		return nil, errors.New("router requires auth and session services")
	}
	templateFS, err := templateSource(services)
	if err != nil {
		return nil, err
	}
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: templateFS, Logger: services.Logger})
	if err != nil {
		return nil, err
	}

	ui := &UIHandlers{
		T:          tr,
		Sessions:   services.Sessions,
		Dashboard:  services.Dashboard,
		Users:      services.Users,
		Documents:  services.Documents,
		CareHomes:  services.CareHomes,
		Plans:      services.Plans,
		Company:    services.Company,
		Residents:  services.Residents,
		Caregivers: services.Caregivers,
		Clinicians: services.Clinicians,
		Candidates: services.Candidates,
		Guard:      pagination.NewGuard(),
		Bounds:     services.Bounds,
		PageSizes:  services.PageSizes,
		Cookies:    services.Cookies,
		IsDev:      services.IsDev,
		Logger:     services.Logger,
	}
	authHandlers := &AuthHandlers{
		Svc:         services.Auth,
		UI:          ui,
		CallbackURL: services.CallbackURL,
		Logger:      services.Logger,
	}

	mux := http.NewServeMux()
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("GET /static/", staticHandler(services.IsDev))
	registerAuthRoutes(mux, authHandlers)
	registerUIRoutes(mux, ui)
	mux.Handle("/", http.HandlerFunc(ui.NotFound))

	csrf := CSRFProtection(CSRFConfig{CookieDomain: services.Cookies.Domain, Secure: services.Cookies.Secure})
	return LoadSession(services.Sessions, services.Logger)(csrf(mux)), nil
}

func templateSource(services RouterServices) (fs.FS, error) {
	switch {
	case services.TemplateFS != nil:
		return services.TemplateFS, nil
	case services.IsDev:
		return os.DirFS(TemplatePathFromRoot), nil
	default:
		return fs.Sub(carehomeadmin.TemplateFS, TemplatePathFromRoot)
	}
}

// staticHandler serves /static/* from disk in dev mode and from the embedded FS otherwise.
func staticHandler(isDev bool) http.Handler {
	if isDev {
		return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir(StaticPathFromRoot))))
	}
	staticSub, err := fs.Sub(carehomeadmin.StaticFS, StaticPathFromRoot)
	if err != nil {
		slog.Error("failed to create sub-filesystem for static assets", "error", err)
		return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir(StaticPathFromRoot))))
	}
	return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))
}

// staticWithCacheHeaders wraps a static file handler to add appropriate cache headers.
func staticWithCacheHeaders(handler http.Handler) http.Handler {
	// Matches content-hashed filenames such as app.abc12345.js or styles.def45678.css.
	hashedFilePattern := regexp.MustCompile(`\.[a-f0-9]{8}\.(?:js|css)(?:\.map)?$`)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hashedFilePattern.MatchString(r.URL.Path) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "no-cache")
		}
		handler.ServeHTTP(w, r)
	})
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET /auth/signin", h.SignInPage)
	mux.HandleFunc("POST /auth/signin", h.SignIn)
	mux.HandleFunc("POST /auth/signout", h.SignOut)
	mux.HandleFunc("GET /auth/signed-out", h.SignedOut)
	mux.HandleFunc("GET /auth/login", h.Login)
	mux.HandleFunc("GET /auth/callback", h.Callback)
}

// routeGroup applies a middleware chain to every handler registered through it.
type routeGroup struct {
	mux  *http.ServeMux
	wrap func(http.Handler) http.Handler
}

func newRouteGroup(mux *http.ServeMux, roles ...domainauth.Role) routeGroup {
	auth := RequireAuthBrowser()
	role := RequireRole(roles...)
	return routeGroup{mux: mux, wrap: func(h http.Handler) http.Handler { return auth(role(h)) }}
}

func (g routeGroup) handle(pattern string, h http.HandlerFunc) {
	g.mux.Handle(pattern, g.wrap(h))
}

// registerUIRoutes delegates to per-area registration functions.
func registerUIRoutes(mux *http.ServeMux, h *UIHandlers) {
	anyStaff := newRouteGroup(mux, domainauth.RoleSuperAdmin, domainauth.RoleAdmin)
	companyAdmin := newRouteGroup(mux, domainauth.RoleAdmin)
	superAdmin := newRouteGroup(mux, domainauth.RoleSuperAdmin)

	anyStaff.handle("GET /{$}", h.Index)
	registerPlanRoutes(anyStaff, h)
	registerCareHomeRoutes(superAdmin, h)
	registerUserRoutes(companyAdmin, h)
	registerDocumentRoutes(companyAdmin, h)
	registerCompanyRoutes(companyAdmin, h)
	registerProfileRoutes(companyAdmin, h)
}

func registerPlanRoutes(g routeGroup, h *UIHandlers) {
	g.handle("GET /plans", h.PlansList)
	g.handle("GET /plans/new", h.PlanNew)
	g.handle("POST /plans", h.PlanCreate)
	g.handle("GET /plans/{id}", h.PlanDetail)
	g.handle("GET /plans/{id}/edit", h.PlanEdit)
	g.handle("POST /plans/{id}", h.PlanUpdate)
}

func registerCareHomeRoutes(g routeGroup, h *UIHandlers) {
	g.handle("GET /care-homes", h.CareHomesList)
	g.handle("GET /care-homes/{id}", h.CareHomeDetail)
	g.handle("GET /care-homes/{id}/edit", h.CareHomeEdit)
	g.handle("POST /care-homes/{id}", h.CareHomeUpdate)
}

func registerUserRoutes(g routeGroup, h *UIHandlers) {
	g.handle("GET /users", h.UsersList)
	g.handle("GET /users/new", h.UserNew)
	g.handle("POST /users", h.UserCreate)
	g.handle("GET /users/{id}", h.UserDetail)
	g.handle("GET /users/{id}/edit", h.UserEdit)
	g.handle("POST /users/{id}", h.UserUpdate)
}

func registerDocumentRoutes(g routeGroup, h *UIHandlers) {
	g.handle("GET /documents", h.DocumentsList)
	g.handle("GET /documents/new", h.DocumentNew)
	g.handle("POST /documents", h.DocumentCreate)
	g.handle("GET /documents/{id}", h.DocumentDetail)
	g.handle("GET /documents/{id}/edit", h.DocumentEdit)
	g.handle("POST /documents/{id}", h.DocumentUpdate)
}

func registerCompanyRoutes(g routeGroup, h *UIHandlers) {
	g.handle("GET /company", h.CompanyShow)
	g.handle("GET /company/edit", h.CompanyEdit)
	g.handle("POST /company", h.CompanySave)
}

func registerProfileRoutes(g routeGroup, h *UIHandlers) {
	g.handle("GET /profiles/{kind}", h.ProfilesList)
	g.handle("GET /profiles/{kind}/{id}", h.ProfileDetail)
	g.handle("GET /profiles/{kind}/{id}/edit", h.ProfileEdit)
	g.handle("POST /profiles/{kind}/{id}", h.ProfileUpdate)
}
