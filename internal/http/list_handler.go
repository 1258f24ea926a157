package httpx

import (
	"context"
	"net/http"

	apperrors "github.com/carehaven/carehome-admin/internal/errors"
	"github.com/carehaven/carehome-admin/internal/http/ui/viewmodel"
	"github.com/carehaven/carehome-admin/internal/pagination"
)

// ListFetcher loads one page of a collection.
type ListFetcher[T any] func(ctx context.Context, q pagination.Query) (pagination.Page[T], error)

// ListHandlerOpts contains all options needed for the generic list handler.
type ListHandlerOpts[T any] struct {
	// Handler is the UIHandlers instance for rendering (required)
	Handler *UIHandlers
	W       http.ResponseWriter
	R       *http.Request
	// Key names the collection; together with the session id it scopes stale-response detection.
	Key string
	// BasePath is the base URL path for pagination links (e.g., "/users")
	BasePath string
	Meta     PageMeta
	// Filters are the selects shown above the table. Their names are the only
	// query parameters forwarded to the backend besides page and limit.
	Filters []viewmodel.Filter
	Fetch   ListFetcher[T]
	Columns []string
	Row     func(T) viewmodel.Row
	Empty   string
	// NewURL enables the create button.
	NewURL   string
	NewLabel string
	// ErrorMessage is the message to display when data fetching fails
	ErrorMessage string
}

// HandleList renders a paginated collection.
//
// HTMX refreshes of the list region are guarded per session and collection: a
// newer request cancels the older one and the older response is dropped. A
// failed or superseded refresh answers with HX-Reswap: none so the rows already
// on screen stay; failures also raise a toast. A failed full-page load renders
// an error state with a retry link.
func HandleList[T any](opts ListHandlerOpts[T]) {
	h, w, r := opts.Handler, opts.W, opts.R
	if h == nil || opts.Fetch == nil || opts.Row == nil {
		http.Error(w, "Internal configuration error", http.StatusInternalServerError)
		return
	}
	opts.Meta.View = ViewList

	keys := make([]string, 0, len(opts.Filters))
	for _, f := range opts.Filters {
		keys = append(keys, f.Name)
	}
	q := pagination.ParseQuery(r.URL.Query(), h.Bounds, keys...)

	ctx := r.Context()
	var ticket pagination.Ticket
	guarded := IsHTMX(r) && h.Guard != nil
	if guarded {
		ctx, ticket = h.Guard.Begin(ctx, sessionIDFrom(ctx)+":"+opts.Key)
	}
	page, err := opts.Fetch(ctx, q)
	if guarded && !h.Guard.Finish(ticket) {
		h.logger().DebugContext(r.Context(), "discarding superseded list response", "list", opts.Key, "ticket", ticket.ID())
		HTMX(w).KeepContent()
		return
	}

	list := viewmodel.List{
		Table:    viewmodel.Table{Columns: opts.Columns, Empty: opts.Empty},
		Filters:  selectFilters(opts.Filters, q),
		NewURL:   opts.NewURL,
		NewLabel: opts.NewLabel,
	}

	if err != nil {
		if apperrors.IsUnauthorized(err) {
			h.handleUnauthorized(w, r)
			return
		}
		msg := errorMessage(err, opts.ErrorMessage)
		h.logger().WarnContext(r.Context(), "list load failed", "list", opts.Key, "error", err)
		if IsHTMX(r) {
			HTMX(w).Toast(msg, "error").KeepContent()
			return
		}
		list.RetryURL = r.URL.RequestURI()
		list.Pagination = buildPagination(opts.BasePath, q.Values(), q.Descriptor(), 0, h.PageSizes)
		h.renderPage(w, r, NewTemplateData(r, opts.Meta).WithList(list).WithError(msg).Build())
		return
	}

	list.Table.Rows = make([]viewmodel.Row, 0, len(page.Items))
	for _, item := range page.Items {
		list.Table.Rows = append(list.Table.Rows, opts.Row(item))
	}
	list.Pagination = buildPagination(opts.BasePath, q.Values(), page.Descriptor, len(list.Table.Rows), h.PageSizes)
	data := NewTemplateData(r, opts.Meta).WithList(list).Build()

	if IsHTMX(r) && HXTarget(r) == listRegionID {
		SetHXPushURL(w, buildPageURL(opts.BasePath, q.Values(), page.Descriptor))
		if err := h.T.RenderNamed(w, listRegionID, data); err != nil {
			h.logAndRenderTemplateError(w, r, err, "list region render")
		}
		return
	}
	h.renderPage(w, r, data)
}

// selectFilters marks the options matching the active query.
func selectFilters(defs []viewmodel.Filter, q pagination.Query) []viewmodel.Filter {
	out := make([]viewmodel.Filter, len(defs))
	for i, def := range defs {
		active := q.Filters.Get(def.Name)
		f := viewmodel.Filter{Name: def.Name, Label: def.Label, Options: make([]viewmodel.Option, len(def.Options))}
		for j, opt := range def.Options {
			opt.Selected = opt.Value == active
			f.Options[j] = opt
		}
		out[i] = f
	}
	return out
}

// activeFilter is the common yes/no filter on the backend "active" flag.
func activeFilter() viewmodel.Filter {
	return viewmodel.Filter{Name: "active", Label: "Status", Options: []viewmodel.Option{
		{Value: StrTrue, Label: "Active"},
		{Value: StrFalse, Label: "Inactive"},
	}}
}
