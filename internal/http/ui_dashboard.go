package httpx

import (
	"net/http"

	domainauth "github.com/carehaven/carehome-admin/internal/domain/auth"
	apperrors "github.com/carehaven/carehome-admin/internal/errors"
	"github.com/carehaven/carehome-admin/internal/http/ui/viewmodel"
)

const errMsgTileUnavailable = "Unavailable"

// Index serves the dashboard with one total per collection the role can see.
func (h *UIHandlers) Index(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	role := domainauth.RoleGuest
	if session != nil {
		role = session.Role
	}

	if session != nil && role != domainauth.RoleSuperAdmin && session.CompanyData == nil && h.Sessions != nil {
		// Warm the company cache so the header can show the company name.
		info, err := h.Sessions.CompanyData(r.Context(), session.ID)
		switch {
		case apperrors.IsUnauthorized(err):
			h.handleUnauthorized(w, r)
			return
		case err != nil:
			h.logger().InfoContext(r.Context(), "company data unavailable", "error", err)
		default:
			session.CompanyData = info
		}
	}

	meta := PageMeta{Title: "Dashboard", PageTitle: "Dashboard", CurrentPage: PageDashboard, View: ViewDashboard}
	if h.Dashboard == nil {
		h.renderPage(w, r, NewTemplateData(r, meta).With("Tiles", []viewmodel.Tile{}).Build())
		return
	}

	tiles, err := h.Dashboard.Tiles(r.Context(), role)
	if apperrors.IsUnauthorized(err) {
		h.handleUnauthorized(w, r)
		return
	}
	b := NewTemplateData(r, meta)
	if err != nil {
		b.WithError(errorMessage(err, "Unable to load the dashboard."))
	}

	vm := make([]viewmodel.Tile, 0, len(tiles))
	for _, t := range tiles {
		tile := viewmodel.Tile{Label: t.Label, Href: t.Href, Total: t.Total}
		if t.Err != nil {
			tile.Error = errMsgTileUnavailable
		}
		vm = append(vm, tile)
	}
	h.renderPage(w, r, b.With("Tiles", vm).Build())
}
