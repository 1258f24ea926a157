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
)

func careHomeFormSpec(id string) formSpec {
	action := "/care-homes/" + url.PathEscape(id)
	return formSpec{
		Action:    action,
		Multipart: true,
		Submit:    "Save changes",
		CancelURL: action,
		Fields: []fieldDef{
			{Name: "name", Label: "Name", Type: viewmodel.FieldText, Required: true},
			{Name: "address", Label: "Address", Type: viewmodel.FieldTextarea},
			{Name: "latitude", Label: "Latitude", Type: viewmodel.FieldNumber, Step: "any"},
			{Name: "longitude", Label: "Longitude", Type: viewmodel.FieldNumber, Step: "any"},
			{Name: "capacity", Label: "Capacity", Type: viewmodel.FieldNumber, Step: "1"},
			{Name: "time_zone", Label: "Time zone", Type: viewmodel.FieldText, Help: "IANA name, for example Europe/London."},
			{Name: "visiting_hours", Label: "Visiting hours", Type: viewmodel.FieldText},
			{Name: "allows_visitors", Label: "Allows visitors", Type: viewmodel.FieldCheckbox},
			{Name: "emergency_protocol", Label: "Emergency protocol", Type: viewmodel.FieldTextarea},
			{Name: "contact_phone", Label: "Contact phone", Type: viewmodel.FieldText},
			{Name: "contact_email", Label: "Contact email", Type: viewmodel.FieldEmail},
			{Name: "contact_website", Label: "Website", Type: viewmodel.FieldText},
			{Name: "active", Label: "Active", Type: viewmodel.FieldCheckbox},
			{Name: "logo", Label: "Logo", Type: viewmodel.FieldFile, Help: "Leave empty to keep the current logo."},
		},
	}
}

// CareHomesList serves GET /care-homes.
func (h *UIHandlers) CareHomesList(w http.ResponseWriter, r *http.Request) {
	HandleList(ListHandlerOpts[model.CareHome]{
		Handler:  h,
		W:        w,
		R:        r,
		Key:      "care-homes",
		BasePath: "/care-homes",
		Meta:     PageMeta{Title: "Care homes", PageTitle: "Care homes", CurrentPage: PageCareHomes},
		Filters:  []viewmodel.Filter{activeFilter()},
		Fetch:    h.CareHomes.List,
		Columns:  []string{"Name", "Address", "Capacity", "Status"},
		Row: func(c model.CareHome) viewmodel.Row {
			return viewmodel.Row{ID: c.ID, Href: "/care-homes/" + url.PathEscape(c.ID), Cells: []viewmodel.Cell{
				{Text: c.Name},
				{Text: uiutil.TruncateWithEllipsis(c.Address, 60)},
				{Text: strconv.Itoa(c.Settings.Capacity)},
				{Text: uiutil.ActiveLabel(c.Active), Badge: strings.ToLower(uiutil.ActiveLabel(c.Active))},
			}}
		},
		Empty:        "No care homes registered yet.",
		ErrorMessage: "Unable to load care homes.",
	})
}

// CareHomeDetail serves GET /care-homes/{id}.
func (h *UIHandlers) CareHomeDetail(w http.ResponseWriter, r *http.Request) {
	meta := PageMeta{Title: "Care home", PageTitle: "Care home", CurrentPage: PageCareHomes}
	c, err := h.CareHomes.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.handleLoadError(w, r, meta, err)
		return
	}
	meta.Title, meta.PageTitle = c.Name, c.Name
	h.renderDetail(w, r, meta, viewmodel.Detail{
		BackURL: "/care-homes",
		EditURL: "/care-homes/" + url.PathEscape(c.ID) + "/edit",
		Items: []viewmodel.DetailItem{
			{Label: "Name", Value: c.Name},
			{Label: "Address", Value: c.Address},
			{Label: "Coordinates", Value: formatFloat(c.Geolocation.Latitude) + ", " + formatFloat(c.Geolocation.Longitude)},
			{Label: "Capacity", Value: strconv.Itoa(c.Settings.Capacity)},
			{Label: "Time zone", Value: c.Settings.TimeZone},
			{Label: "Visiting hours", Value: c.Settings.VisitingHours},
			{Label: "Allows visitors", Value: uiutil.YesNo(c.Settings.AllowsVisitors)},
			{Label: "Emergency protocol", Value: c.Settings.EmergencyProtocol},
			{Label: "Contact phone", Value: c.ContactInfo.Phone},
			{Label: "Contact email", Value: c.ContactInfo.Email},
			{Label: "Website", Value: c.ContactInfo.Website, Link: c.ContactInfo.Website},
			{Label: "Plan", Value: c.PlanID},
			{Label: "Status", Value: uiutil.ActiveLabel(c.Active)},
			{Label: "Logo", Value: c.Logo, Link: c.Logo},
			{Label: "Updated", Value: uiutil.FormatFriendlyDateTime(c.UpdatedAt)},
		},
	})
}

// CareHomeEdit serves GET /care-homes/{id}/edit.
func (h *UIHandlers) CareHomeEdit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	meta := PageMeta{Title: "Edit care home", PageTitle: "Edit care home", CurrentPage: PageCareHomes}
	c, err := h.CareHomes.Get(r.Context(), id)
	if err != nil {
		h.handleLoadError(w, r, meta, err)
		return
	}
	h.renderForm(w, r, formView{
		Meta: meta,
		Spec: careHomeFormSpec(id),
		Mode: FormModeEdit,
		Values: url.Values{
			"name":               {c.Name},
			"address":            {c.Address},
			"latitude":           {formatFloat(c.Geolocation.Latitude)},
			"longitude":          {formatFloat(c.Geolocation.Longitude)},
			"capacity":           {strconv.Itoa(c.Settings.Capacity)},
			"time_zone":          {c.Settings.TimeZone},
			"visiting_hours":     {c.Settings.VisitingHours},
			"allows_visitors":    {boolValue(c.Settings.AllowsVisitors)},
			"emergency_protocol": {c.Settings.EmergencyProtocol},
			"contact_phone":      {c.ContactInfo.Phone},
			"contact_email":      {c.ContactInfo.Email},
			"contact_website":    {c.ContactInfo.Website},
			"active":             {boolValue(c.Active)},
		},
	})
}

// CareHomeUpdate serves POST /care-homes/{id}.
func (h *UIHandlers) CareHomeUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	HandleForm(FormHandlerOpts[model.UpdateCareHomeRequest]{
		Handler: h,
		W:       w,
		R:       r,
		Mode:    FormModeEdit,
		Meta:    PageMeta{Title: "Edit care home", PageTitle: "Edit care home", CurrentPage: PageCareHomes},
		Spec:    careHomeFormSpec(id),
		Parse:   parseCareHomeForm,
		Submit: func(ctx context.Context, req model.UpdateCareHomeRequest) error {
			_, err := h.CareHomes.Update(ctx, id, req)
			return err
		},
		SuccessURL: "/care-homes/" + url.PathEscape(id),
	})
}

func parseCareHomeForm(r *http.Request) (model.UpdateCareHomeRequest, map[string]string) {
	get := func(name string) string { return strings.TrimSpace(r.PostFormValue(name)) }
	fv := validation.New().
		Validate("name", get("name"), validation.Required("Name", 200)).
		Validate("address", get("address"), validation.Optional("Address", 500)).
		Validate("latitude", get("latitude"), validation.FloatRange("Latitude", -90, 90)).
		Validate("longitude", get("longitude"), validation.FloatRange("Longitude", -180, 180)).
		Validate("capacity", get("capacity"), validation.IntRange("Capacity", 0, 100000)).
		Validate("contact_email", get("contact_email"), validation.Email("Contact email")).
		Validate("contact_website", get("contact_website"), validation.HTTPURL("Website"))

	logo, err := readUpload(r, "logo", true)
	if err != nil {
		fv.Add("logo", "Logo "+err.Error()+".")
	}
	lat, _ := strconv.ParseFloat(get("latitude"), 64)
	lng, _ := strconv.ParseFloat(get("longitude"), 64)
	capacity, _ := strconv.Atoi(get("capacity"))
	return model.UpdateCareHomeRequest{
		Name:        get("name"),
		Address:     get("address"),
		Geolocation: model.Geolocation{Latitude: lat, Longitude: lng},
		Settings: model.CareHomeSettings{
			Capacity:          capacity,
			TimeZone:          get("time_zone"),
			VisitingHours:     get("visiting_hours"),
			AllowsVisitors:    formBool(r, "allows_visitors"),
			EmergencyProtocol: get("emergency_protocol"),
		},
		ContactInfo: model.ContactInfo{
			Phone:   get("contact_phone"),
			Email:   get("contact_email"),
			Website: get("contact_website"),
		},
		Active: formBool(r, "active"),
		Logo:   logo,
	}, fv.Errors()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
