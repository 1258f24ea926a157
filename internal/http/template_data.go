package httpx

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	domainauth "github.com/carehaven/carehome-admin/internal/domain/auth"
	"github.com/carehaven/carehome-admin/internal/http/ui/viewmodel"
	"github.com/carehaven/carehome-admin/internal/pagination"
)

const errMsgFixBelow = "Please fix the errors below."

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
	View        View
}

// TemplateDataBuilder provides a fluent API for building template data maps.
type TemplateDataBuilder struct {
	data map[string]any
	r    *http.Request
}

// NewTemplateData creates a new TemplateDataBuilder initialized with basePageData.
func NewTemplateData(r *http.Request, meta PageMeta) *TemplateDataBuilder {
	return &TemplateDataBuilder{data: basePageData(r, meta), r: r}
}

// WithList adds a rendered list.
func (b *TemplateDataBuilder) WithList(list viewmodel.List) *TemplateDataBuilder {
	b.data["List"] = list
	return b
}

// WithError sets a general error message.
func (b *TemplateDataBuilder) WithError(msg string) *TemplateDataBuilder {
	b.data["Error"] = true
	b.data["ErrorMessage"] = msg
	return b
}

// WithFieldErrors adds field-level validation errors.
func (b *TemplateDataBuilder) WithFieldErrors(errs map[string]string) *TemplateDataBuilder {
	if len(errs) > 0 {
		b.data["Errors"] = errs
	}
	return b
}

// With adds a custom field to the template data.
func (b *TemplateDataBuilder) With(key string, value any) *TemplateDataBuilder {
	b.data[key] = value
	return b
}

// Build returns the final template data map.
func (b *TemplateDataBuilder) Build() map[string]any {
	return b.data
}

// buildLayout constructs shared layout metadata from the request/session context.
func buildLayout(r *http.Request, meta PageMeta) viewmodel.Layout {
	layout := viewmodel.Layout{
		Title:       meta.Title,
		PageTitle:   meta.PageTitle,
		CurrentPage: meta.CurrentPage,
		View:        string(meta.View),
		CSRFToken:   GetCSRFToken(r),
	}
	if layout.PageTitle == "" {
		layout.PageTitle = meta.Title
	}

	if session := GetSessionFromContext(r.Context()); session != nil && session.IsAuthenticated() {
		layout.IsAuthenticated = true
		layout.IsSuperAdmin = session.IsSuperAdmin()
		layout.User = &viewmodel.User{Email: session.Email, Role: string(session.Role)}
		if session.CompanyData != nil {
			layout.User.CompanyName = session.CompanyData.Name
		}
		if session.Role == domainauth.RoleSuperAdmin {
			layout.Nav = viewmodel.SuperAdminNav()
		} else {
			layout.Nav = viewmodel.AdminNav()
		}
	}
	return layout
}

// basePageData constructs the common page data map with user context.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	layout := buildLayout(r, meta)
	return map[string]any{
		"Title":           layout.Title,
		"PageTitle":       layout.PageTitle,
		"CurrentPage":     layout.CurrentPage,
		"View":            layout.View,
		"CSRFToken":       layout.CSRFToken,
		"IsAuthenticated": layout.IsAuthenticated,
		"IsSuperAdmin":    layout.IsSuperAdmin,
		"User":            layout.User,
		"Nav":             layout.Nav,
	}
}

// buildPagination converts a response descriptor into pager links.
// rows is the number of items actually rendered on this page.
func buildPagination(basePath string, q url.Values, d pagination.Descriptor, rows int, sizes []int) viewmodel.Pagination {
	start, end := d.Range(rows)
	p := viewmodel.Pagination{
		Page:       d.CurrentPage,
		TotalPages: d.TotalPages,
		PageSize:   d.Limit,
		HasPrev:    d.HasPrev(),
		HasNext:    d.HasNext(),
		StartIndex: start,
		EndIndex:   end,
		TotalCount: d.Total,
		BasePath:   basePath,
		PageSizes:  sizes,
	}
	p.Visible = p.TotalCount > 0 || p.TotalPages > 1 || p.HasPrev || p.HasNext
	if p.HasPrev {
		p.PrevURL = buildPageURL(basePath, q, d.Prev())
	}
	if p.HasNext {
		p.NextURL = buildPageURL(basePath, q, d.Next())
	}
	for _, n := range d.Window() {
		p.Window = append(p.Window, viewmodel.PageLink{Number: n, URL: buildPageURL(basePath, q, d.GoTo(n))})
	}
	for key, vals := range q {
		if key == "page" || key == "limit" || key == "prev_limit" || len(vals) == 0 || strings.TrimSpace(vals[0]) == "" {
			continue
		}
		p.Hidden = append(p.Hidden, viewmodel.Option{Value: vals[0], Label: key})
	}
	return p
}

// buildPageURL returns a URL for page d, preserving filters and dropping transient params.
func buildPageURL(basePath string, q url.Values, d pagination.Descriptor) string {
	qq := make(url.Values, len(q))
	for k, v := range q {
		if strings.HasPrefix(k, "hx-") || strings.HasPrefix(k, "hx_") || k == "prev_limit" {
			continue
		}
		tmp := make([]string, 0, len(v))
		for _, s := range v {
			if strings.TrimSpace(s) != "" {
				tmp = append(tmp, s)
			}
		}
		if len(tmp) > 0 {
			qq[k] = tmp
		}
	}
	qq.Set("page", strconv.Itoa(d.CurrentPage))
	qq.Set("limit", strconv.Itoa(d.Limit))
	return basePath + "?" + qq.Encode()
}
