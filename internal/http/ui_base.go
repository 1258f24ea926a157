package httpx

import (
	"context"
	"html"
	"log/slog"
	"net/http"
	"time"

	domainauth "github.com/carehaven/carehome-admin/internal/domain/auth"
	"github.com/carehaven/carehome-admin/internal/domain/model"
	apperrors "github.com/carehaven/carehome-admin/internal/errors"
	"github.com/carehaven/carehome-admin/internal/http/ui/viewmodel"
	"github.com/carehaven/carehome-admin/internal/pagination"
	"github.com/carehaven/carehome-admin/internal/ports"
	"github.com/carehaven/carehome-admin/internal/service"
)

// SessionManager is the slice of the session service the UI needs.
type SessionManager interface {
	SessionReader
	Clear(ctx context.Context, id string) error
	CompanyData(ctx context.Context, id string) (*model.CompanyInfo, error)
	FetchCompanyData(ctx context.Context, id string) (*model.CompanyInfo, error)
}

// DashboardLoader loads the dashboard totals for a role.
type DashboardLoader interface {
	Tiles(ctx context.Context, role domainauth.Role) ([]service.Tile, error)
}

// Compile-time interface assertions to ensure concrete services satisfy their UI interfaces.
var (
	_ SessionManager  = (*service.SessionService)(nil)
	_ DashboardLoader = (*service.DashboardService)(nil)
)

// CookieConfig controls attributes of the cookies the UI sets.
type CookieConfig struct {
	Domain string
	Secure bool
}

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T          *TemplateRenderer
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
	Guard      *pagination.Guard
	Bounds     pagination.Bounds
	PageSizes  []int
	Cookies    CookieConfig
	IsDev      bool // Development mode flag for enhanced error reporting
	Logger     *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// planScope picks the plan namespace for the signed-in role.
func planScope(r *http.Request) model.PlanScope {
	if s := GetSessionFromContext(r.Context()); s != nil && s.IsSuperAdmin() {
		return model.PlanScopeSuper
	}
	return model.PlanScopeAdmin
}

// renderPage renders a page with proper HTMX partial support.
func (h *UIHandlers) renderPage(w http.ResponseWriter, r *http.Request, data map[string]any) {
	if !WantsPartial(r) {
		if err := h.T.RenderFull(w, data); err != nil {
			h.logAndRenderTemplateError(w, r, err, "full page render")
		}
		return
	}

	// Partial swaps carry <title> and an out-of-band header so chrome stays in sync.
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	SetHXTrigger(w, "nav:activate", map[string]string{"path": r.URL.Path})

	title, _ := data["Title"].(string)
	pageTitle, _ := data["PageTitle"].(string)
	view, _ := data["View"].(string)
	prefix := `<title>` + html.EscapeString(title) + `</title>` +
		`<h1 id="header-title" class="header-title" hx-swap-oob="outerHTML">` + html.EscapeString(pageTitle) + `</h1>`
	if _, err := w.Write([]byte(prefix)); err != nil {
		h.logger().Error("failed to write partial header", "error", err)
		return
	}
	if err := h.T.RenderNamed(w, ContentTemplateFor(view), data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "partial content render")
	}
}

// renderDetail renders a read-only record page.
func (h *UIHandlers) renderDetail(w http.ResponseWriter, r *http.Request, meta PageMeta, detail viewmodel.Detail) {
	meta.View = ViewDetail
	h.renderPage(w, r, NewTemplateData(r, meta).With("Detail", detail).Build())
}

// redirect navigates the browser to target after a successful mutation.
func (h *UIHandlers) redirect(w http.ResponseWriter, r *http.Request, target string) {
	if IsHTMX(r) {
		HTMX(w).Redirect(target)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// handleUnauthorized forces re-authentication: the session is cleared and the
// browser is sent to the sign-in page with the current location as redirect_uri.
func (h *UIHandlers) handleUnauthorized(w http.ResponseWriter, r *http.Request) {
	if id := sessionIDFrom(r.Context()); id != "" && h.Sessions != nil {
		if err := h.Sessions.Clear(r.Context(), id); err != nil {
			h.logger().WarnContext(r.Context(), "clearing rejected session failed", "error", err)
		}
	}
	clearCookie(w, SessionCookieName, h.Cookies)
	redirectToLogin(w, r)
}

// handleLoadError renders the outcome of a failed single-record load.
func (h *UIHandlers) handleLoadError(w http.ResponseWriter, r *http.Request, meta PageMeta, err error) {
	switch {
	case apperrors.IsUnauthorized(err):
		h.handleUnauthorized(w, r)
	case apperrors.IsNotFound(err):
		h.NotFound(w, r)
	default:
		h.logger().ErrorContext(r.Context(), "record load failed", "path", r.URL.Path, "error", err)
		meta.View = ViewDetail
		b := NewTemplateData(r, meta).WithError(errorMessage(err, "Unable to load this record."))
		if apperrors.Retryable(err) {
			b.With("RetryURL", r.URL.RequestURI())
		}
		h.renderPage(w, r, b.Build())
	}
}

// NotFound renders the not-found page with a 404 status.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	data := NewTemplateData(r, PageMeta{Title: "Not found", PageTitle: "Page not found", View: ViewNotFound}).Build()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	h.renderPage(w, r, data)
}

// logAndRenderTemplateError logs template errors and renders them in dev mode.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error, context string) {
	h.logger().Error("template rendering failed",
		"error", err,
		"context", context,
		"path", r.URL.Path,
		"method", r.Method,
	)
	if !h.IsDev {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	body := `<div class="template-error"><h2>Template Rendering Error</h2>` +
		`<p><strong>Context:</strong> ` + html.EscapeString(context) + `</p>` +
		`<p><strong>Path:</strong> ` + html.EscapeString(r.URL.Path) + `</p>` +
		`<pre>` + html.EscapeString(err.Error()) + `</pre></div>`
	if _, writeErr := w.Write([]byte(body)); writeErr != nil {
		h.logger().Error("failed to write template error response", "error", writeErr)
	}
}

// setCookie writes an HttpOnly, Lax cookie scoped to the whole app.
func setCookie(w http.ResponseWriter, name, value string, maxAge time.Duration, cfg CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   cfg.Domain,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(maxAge.Seconds()),
	})
}

// clearCookie expires a cookie, mirroring the attributes used when it was set.
func clearCookie(w http.ResponseWriter, name string, cfg CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   cfg.Domain,
		HttpOnly: true,
		Secure:   cfg.Secure,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}
