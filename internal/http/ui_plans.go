package httpx

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/carehaven/carehome-admin/internal/domain/model"
	"github.com/carehaven/carehome-admin/internal/http/ui/viewmodel"
	"github.com/carehaven/carehome-admin/internal/http/uiutil"
	"github.com/carehaven/carehome-admin/internal/http/validation"
	"github.com/carehaven/carehome-admin/internal/pagination"
)

//nolint:gochecknoglobals // static read-only option list
var billingIntervals = []model.BillingInterval{model.BillingMonthly, model.BillingYearly}

func planFormSpec(mode FormMode, id string) formSpec {
	spec := formSpec{
		Action:    "/plans",
		Submit:    "Create plan",
		CancelURL: "/plans",
		Fields: []fieldDef{
			{Name: "name", Label: "Name", Type: viewmodel.FieldText, Required: true},
			{Name: "description", Label: "Description", Type: viewmodel.FieldTextarea},
			{Name: "price", Label: "Price", Type: viewmodel.FieldNumber, Required: true, Step: "0.01"},
			{Name: "currency", Label: "Currency", Type: viewmodel.FieldText, Help: "Three-letter code. Defaults to USD."},
			{Name: "billing_interval", Label: "Billing interval", Type: viewmodel.FieldSelect, Options: options(billingIntervals)},
			{Name: "max_residents", Label: "Max residents", Type: viewmodel.FieldNumber, Step: "1"},
			{Name: "features", Label: "Features", Type: viewmodel.FieldTextarea, Help: "One feature per line."},
			{Name: "active", Label: "Active", Type: viewmodel.FieldCheckbox},
		},
	}
	if mode == FormModeEdit {
		spec.Action = "/plans/" + url.PathEscape(id)
		spec.Submit = "Save changes"
		spec.CancelURL = spec.Action
	}
	return spec
}

// PlansList serves GET /plans. Super admins see the platform catalogue, company admins their own plans.
func (h *UIHandlers) PlansList(w http.ResponseWriter, r *http.Request) {
	scope := planScope(r)
	HandleList(ListHandlerOpts[model.Plan]{
		Handler:  h,
		W:        w,
		R:        r,
		Key:      "plans",
		BasePath: "/plans",
		Meta:     PageMeta{Title: "Plans", PageTitle: "Plans", CurrentPage: PagePlans},
		Filters:  []viewmodel.Filter{activeFilter()},
		Fetch: func(ctx context.Context, q pagination.Query) (pagination.Page[model.Plan], error) {
			return h.Plans.List(ctx, scope, q)
		},
		Columns: []string{"Name", "Price", "Interval", "Max residents", "Status"},
		Row: func(p model.Plan) viewmodel.Row {
			return viewmodel.Row{ID: p.ID, Href: "/plans/" + url.PathEscape(p.ID), Cells: []viewmodel.Cell{
				{Text: p.Name},
				{Text: uiutil.FormatMoney(p.Price, p.Currency)},
				{Text: uiutil.Humanize(string(p.BillingInterval))},
				{Text: strconv.Itoa(p.MaxResidents)},
				{Text: uiutil.ActiveLabel(p.Active), Badge: strings.ToLower(uiutil.ActiveLabel(p.Active))},
			}}
		},
		Empty:        "No plans yet.",
		NewURL:       "/plans/new",
		NewLabel:     "New plan",
		ErrorMessage: "Unable to load plans.",
	})
}

// PlanDetail serves GET /plans/{id}.
func (h *UIHandlers) PlanDetail(w http.ResponseWriter, r *http.Request) {
	meta := PageMeta{Title: "Plan", PageTitle: "Plan", CurrentPage: PagePlans}
	p, err := h.Plans.Get(r.Context(), planScope(r), r.PathValue("id"))
	if err != nil {
		h.handleLoadError(w, r, meta, err)
		return
	}
	meta.Title, meta.PageTitle = p.Name, p.Name
	h.renderDetail(w, r, meta, viewmodel.Detail{
		BackURL: "/plans",
		EditURL: "/plans/" + url.PathEscape(p.ID) + "/edit",
		Items: []viewmodel.DetailItem{
			{Label: "Name", Value: p.Name},
			{Label: "Description", Value: p.Description},
			{Label: "Price", Value: uiutil.FormatMoney(p.Price, p.Currency)},
			{Label: "Billing interval", Value: uiutil.Humanize(string(p.BillingInterval))},
			{Label: "Max residents", Value: strconv.Itoa(p.MaxResidents)},
			{Label: "Features", Value: strings.Join(p.Features, ", ")},
			{Label: "Status", Value: uiutil.ActiveLabel(p.Active)},
			{Label: "Updated", Value: uiutil.FormatFriendlyDateTime(p.UpdatedAt)},
		},
	})
}

// PlanNew serves GET /plans/new.
func (h *UIHandlers) PlanNew(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, formView{
		Meta: PageMeta{Title: "New plan", PageTitle: "New plan", CurrentPage: PagePlans},
		Spec: planFormSpec(FormModeCreate, ""),
		Mode: FormModeCreate,
		Values: url.Values{
			"currency":         {"USD"},
			"billing_interval": {string(model.BillingMonthly)},
			"active":           {checkboxOn},
		},
	})
}

// PlanCreate serves POST /plans.
func (h *UIHandlers) PlanCreate(w http.ResponseWriter, r *http.Request) {
	scope := planScope(r)
	HandleForm(FormHandlerOpts[model.PlanRequest]{
		Handler: h,
		W:       w,
		R:       r,
		Mode:    FormModeCreate,
		Meta:    PageMeta{Title: "New plan", PageTitle: "New plan", CurrentPage: PagePlans},
		Spec:    planFormSpec(FormModeCreate, ""),
		Parse:   parsePlanForm,
		Submit: func(ctx context.Context, req model.PlanRequest) error {
			_, err := h.Plans.Create(ctx, scope, req)
			return err
		},
		SuccessURL: "/plans",
	})
}

// PlanEdit serves GET /plans/{id}/edit.
func (h *UIHandlers) PlanEdit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	meta := PageMeta{Title: "Edit plan", PageTitle: "Edit plan", CurrentPage: PagePlans}
	p, err := h.Plans.Get(r.Context(), planScope(r), id)
	if err != nil {
		h.handleLoadError(w, r, meta, err)
		return
	}
	h.renderForm(w, r, formView{
		Meta: meta,
		Spec: planFormSpec(FormModeEdit, id),
		Mode: FormModeEdit,
		Values: url.Values{
			"name":             {p.Name},
			"description":      {p.Description},
			"price":            {strconv.FormatFloat(p.Price, 'f', 2, 64)},
			"currency":         {p.Currency},
			"billing_interval": {string(p.BillingInterval)},
			"max_residents":    {strconv.Itoa(p.MaxResidents)},
			"features":         {strings.Join(p.Features, "\n")},
			"active":           {boolValue(p.Active)},
		},
	})
}

// PlanUpdate serves POST /plans/{id}.
func (h *UIHandlers) PlanUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	scope := planScope(r)
	HandleForm(FormHandlerOpts[model.PlanRequest]{
		Handler: h,
		W:       w,
		R:       r,
		Mode:    FormModeEdit,
		Meta:    PageMeta{Title: "Edit plan", PageTitle: "Edit plan", CurrentPage: PagePlans},
		Spec:    planFormSpec(FormModeEdit, id),
		Parse:   parsePlanForm,
		Submit: func(ctx context.Context, req model.PlanRequest) error {
			_, err := h.Plans.Update(ctx, scope, id, req)
			return err
		},
		SuccessURL: "/plans/" + url.PathEscape(id),
	})
}

func parsePlanForm(r *http.Request) (model.PlanRequest, map[string]string) {
	get := func(name string) string { return strings.TrimSpace(r.PostFormValue(name)) }
	fv := validation.New().
		Validate("name", get("name"), validation.Required("Name", 120)).
		Validate("description", get("description"), validation.Optional("Description", 2000)).
		Validate("price", get("price"), validation.Required("Price", 16), validation.FloatRange("Price", 0, 1e9)).
		Validate("max_residents", get("max_residents"), validation.IntRange("Max residents", 0, 100000))
	if c := get("currency"); c != "" && len(c) != 3 {
		fv.Add("currency", "Currency must be a 3-letter code.")
	}
	if bi := get("billing_interval"); bi != "" {
		fv.Validate("billing_interval", bi, validation.OneOf("Billing interval",
			[]string{string(model.BillingMonthly), string(model.BillingYearly)}))
	}

	price, _ := strconv.ParseFloat(get("price"), 64)
	maxResidents, _ := strconv.Atoi(get("max_residents"))
	req := model.PlanRequest{
		Name:            get("name"),
		Description:     get("description"),
		Price:           price,
		Currency:        get("currency"),
		BillingInterval: model.BillingInterval(get("billing_interval")),
		MaxResidents:    maxResidents,
		Features:        splitLines(r.PostFormValue("features")),
		Active:          formBool(r, "active"),
	}
	return req, fv.Errors()
}

// splitLines returns the non-blank trimmed lines of s.
func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
