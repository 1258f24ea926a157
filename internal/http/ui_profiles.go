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
	"github.com/carehaven/carehome-admin/internal/ports"
)

// profileField is a form control whose name is the backend field it edits.
type profileField struct {
	fieldDef
	// Lines submits a textarea as a list, one entry per line.
	Lines bool
}

// profileHandlers serves list, detail, and edit pages for one profile collection.
type profileHandlers interface {
	list(h *UIHandlers, w http.ResponseWriter, r *http.Request)
	detail(h *UIHandlers, w http.ResponseWriter, r *http.Request)
	edit(h *UIHandlers, w http.ResponseWriter, r *http.Request)
	update(h *UIHandlers, w http.ResponseWriter, r *http.Request)
}

// profilePages describes one profile collection. Detail rows are derived from the form fields.
type profilePages[T any] struct {
	Backend  ports.ProfileBackend[T]
	Title    string
	Singular string
	Page     string
	Filters  []viewmodel.Filter
	Columns  []string
	Row      func(T) viewmodel.Row
	Fields   []profileField
	ID       func(T) string
	Name     func(T) string
	Values   func(T) url.Values
}

func (p profilePages[T]) basePath() string {
	return "/profiles/" + string(p.Backend.Kind())
}

func (p profilePages[T]) itemPath(id string) string {
	return p.basePath() + "/" + url.PathEscape(id)
}

func (p profilePages[T]) formSpec(id string) formSpec {
	spec := formSpec{
		Action:    p.itemPath(id),
		Submit:    "Save changes",
		CancelURL: p.itemPath(id),
		Fields:    make([]fieldDef, len(p.Fields)),
	}
	for i, f := range p.Fields {
		spec.Fields[i] = f.fieldDef
	}
	return spec
}

func (p profilePages[T]) list(h *UIHandlers, w http.ResponseWriter, r *http.Request) {
	HandleList(ListHandlerOpts[T]{
		Handler:      h,
		W:            w,
		R:            r,
		Key:          string(p.Backend.Kind()),
		BasePath:     p.basePath(),
		Meta:         PageMeta{Title: p.Title, PageTitle: p.Title, CurrentPage: p.Page},
		Filters:      p.Filters,
		Fetch:        p.Backend.List,
		Columns:      p.Columns,
		Row:          p.Row,
		Empty:        "No " + strings.ToLower(p.Title) + " match these filters.",
		ErrorMessage: "Unable to load " + strings.ToLower(p.Title) + ".",
	})
}

func (p profilePages[T]) detail(h *UIHandlers, w http.ResponseWriter, r *http.Request) {
	meta := PageMeta{Title: p.Singular, PageTitle: p.Singular, CurrentPage: p.Page}
	item, err := p.Backend.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.handleLoadError(w, r, meta, err)
		return
	}
	if name := p.Name(item); name != "" {
		meta.Title, meta.PageTitle = name, name
	}
	values := p.Values(item)
	detail := viewmodel.Detail{
		BackURL: p.basePath(),
		EditURL: p.itemPath(p.ID(item)) + "/edit",
		Items:   make([]viewmodel.DetailItem, 0, len(p.Fields)),
	}
	for _, f := range p.Fields {
		detail.Items = append(detail.Items, viewmodel.DetailItem{Label: f.Label, Value: displayValue(f, values.Get(f.Name))})
	}
	h.renderDetail(w, r, meta, detail)
}

func (p profilePages[T]) edit(h *UIHandlers, w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	meta := PageMeta{Title: "Edit " + strings.ToLower(p.Singular), PageTitle: "Edit " + strings.ToLower(p.Singular), CurrentPage: p.Page}
	item, err := p.Backend.Get(r.Context(), id)
	if err != nil {
		h.handleLoadError(w, r, meta, err)
		return
	}
	h.renderForm(w, r, formView{Meta: meta, Spec: p.formSpec(id), Mode: FormModeEdit, Values: p.Values(item)})
}

func (p profilePages[T]) update(h *UIHandlers, w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	HandleForm(FormHandlerOpts[model.ProfileUpdate]{
		Handler: h,
		W:       w,
		R:       r,
		Mode:    FormModeEdit,
		Meta:    PageMeta{Title: "Edit " + strings.ToLower(p.Singular), PageTitle: "Edit " + strings.ToLower(p.Singular), CurrentPage: p.Page},
		Spec:    p.formSpec(id),
		Parse: func(r *http.Request) (model.ProfileUpdate, map[string]string) {
			return parseProfileForm(r, p.Fields)
		},
		Submit: func(ctx context.Context, upd model.ProfileUpdate) error {
			_, err := p.Backend.Update(ctx, id, upd)
			return err
		},
		SuccessURL: p.itemPath(id),
	})
}

// parseProfileForm converts the submitted controls into backend field values.
// Empty dates are sent as null so they can be cleared.
func parseProfileForm(r *http.Request, fields []profileField) (model.ProfileUpdate, map[string]string) {
	fv := validation.New()
	upd := model.ProfileUpdate{}
	for _, f := range fields {
		raw := strings.TrimSpace(r.PostFormValue(f.Name))
		switch {
		case f.Required:
			fv.Validate(f.Name, raw, validation.Required(f.Label, 200))
		case f.Type == viewmodel.FieldText || f.Type == viewmodel.FieldEmail:
			fv.Validate(f.Name, raw, validation.Optional(f.Label, 200))
		}

		switch {
		case f.Type == viewmodel.FieldCheckbox:
			upd[f.Name] = formBool(r, f.Name)
		case f.Type == viewmodel.FieldNumber:
			fv.Validate(f.Name, raw, validation.IntRange(f.Label, 0, 100))
			n, _ := strconv.Atoi(raw)
			upd[f.Name] = n
		case f.Type == viewmodel.FieldDate:
			fv.Validate(f.Name, raw, validation.Date(f.Label))
			if raw == "" {
				upd[f.Name] = nil
			} else {
				upd[f.Name] = raw
			}
		case f.Type == viewmodel.FieldEmail:
			fv.Validate(f.Name, raw, validation.Email(f.Label))
			upd[f.Name] = raw
		case f.Type == viewmodel.FieldSelect:
			allowed := make([]string, len(f.Options))
			for i, opt := range f.Options {
				allowed[i] = opt.Value
			}
			fv.Validate(f.Name, raw, validation.OneOf(f.Label, allowed))
			upd[f.Name] = raw
		case f.Lines:
			upd[f.Name] = splitLines(r.PostFormValue(f.Name))
		default:
			upd[f.Name] = raw
		}
	}
	return upd, fv.Errors()
}

// displayValue renders a stored form value on a detail page.
func displayValue(f profileField, v string) string {
	switch {
	case f.Type == viewmodel.FieldCheckbox:
		return uiutil.YesNo(v == checkboxOn)
	case f.Type == viewmodel.FieldSelect:
		return uiutil.Humanize(v)
	case f.Lines:
		return strings.Join(splitLines(v), ", ")
	}
	return v
}

func activeBadge(active bool) viewmodel.Cell {
	label := uiutil.ActiveLabel(active)
	return viewmodel.Cell{Text: label, Badge: strings.ToLower(label)}
}

//nolint:gochecknoglobals // static read-only option list
var candidateStatuses = []model.CandidateStatus{
	model.CandidatePending,
	model.CandidateScheduled,
	model.CandidateHired,
	model.CandidateRejected,
}

func residentPages(b ports.ProfileBackend[model.Resident]) profilePages[model.Resident] {
	p := profilePages[model.Resident]{
		Backend:  b,
		Title:    "Residents",
		Singular: "Resident",
		Page:     PageResidents,
		Filters:  []viewmodel.Filter{activeFilter()},
		Columns:  []string{"Name", "Room", "Admitted", "Status"},
		Fields: []profileField{
			{fieldDef: fieldDef{Name: "name", Label: "Name", Type: viewmodel.FieldText, Required: true}},
			{fieldDef: fieldDef{Name: "roomNumber", Label: "Room number", Type: viewmodel.FieldText}},
			{fieldDef: fieldDef{Name: "dateOfBirth", Label: "Date of birth", Type: viewmodel.FieldDate}},
			{fieldDef: fieldDef{Name: "admissionDate", Label: "Admission date", Type: viewmodel.FieldDate}},
			{fieldDef: fieldDef{Name: "emergencyContact", Label: "Emergency contact", Type: viewmodel.FieldText}},
			{fieldDef: fieldDef{Name: "medicalNotes", Label: "Medical notes", Type: viewmodel.FieldTextarea}},
			{fieldDef: fieldDef{Name: "active", Label: "Active", Type: viewmodel.FieldCheckbox}},
		},
		ID:   func(v model.Resident) string { return v.ID },
		Name: func(v model.Resident) string { return v.Name },
		Values: func(v model.Resident) url.Values {
			return url.Values{
				"name":             {v.Name},
				"roomNumber":       {v.RoomNumber},
				"dateOfBirth":      {uiutil.FormatDate(v.DateOfBirth)},
				"admissionDate":    {uiutil.FormatDate(v.AdmissionDate)},
				"emergencyContact": {v.EmergencyContact},
				"medicalNotes":     {v.MedicalNotes},
				"active":           {boolValue(v.Active)},
			}
		},
	}
	p.Row = func(v model.Resident) viewmodel.Row {
		return viewmodel.Row{ID: v.ID, Href: p.itemPath(v.ID), Cells: []viewmodel.Cell{
			{Text: v.Name},
			{Text: v.RoomNumber},
			{Text: uiutil.FormatDate(v.AdmissionDate)},
			activeBadge(v.Active),
		}}
	}
	return p
}

func caregiverPages(b ports.ProfileBackend[model.Caregiver]) profilePages[model.Caregiver] {
	p := profilePages[model.Caregiver]{
		Backend:  b,
		Title:    "Caregivers",
		Singular: "Caregiver",
		Page:     PageCaregivers,
		Filters:  []viewmodel.Filter{activeFilter()},
		Columns:  []string{"Name", "Email", "Shift", "Experience", "Status"},
		Fields: []profileField{
			{fieldDef: fieldDef{Name: "name", Label: "Name", Type: viewmodel.FieldText, Required: true}},
			{fieldDef: fieldDef{Name: "email", Label: "Email", Type: viewmodel.FieldEmail}},
			{fieldDef: fieldDef{Name: "qualifications", Label: "Qualifications", Type: viewmodel.FieldTextarea, Help: "One per line."}, Lines: true},
			{fieldDef: fieldDef{Name: "experienceYears", Label: "Years of experience", Type: viewmodel.FieldNumber, Step: "1"}},
			{fieldDef: fieldDef{Name: "shift", Label: "Shift", Type: viewmodel.FieldText}},
			{fieldDef: fieldDef{Name: "active", Label: "Active", Type: viewmodel.FieldCheckbox}},
		},
		ID:   func(v model.Caregiver) string { return v.ID },
		Name: func(v model.Caregiver) string { return v.Name },
		Values: func(v model.Caregiver) url.Values {
			return url.Values{
				"name":            {v.Name},
				"email":           {v.Email},
				"qualifications":  {strings.Join(v.Qualifications, "\n")},
				"experienceYears": {strconv.Itoa(v.ExperienceYears)},
				"shift":           {v.Shift},
				"active":          {boolValue(v.Active)},
			}
		},
	}
	p.Row = func(v model.Caregiver) viewmodel.Row {
		return viewmodel.Row{ID: v.ID, Href: p.itemPath(v.ID), Cells: []viewmodel.Cell{
			{Text: v.Name},
			{Text: v.Email},
			{Text: v.Shift},
			{Text: strconv.Itoa(v.ExperienceYears) + " yrs"},
			activeBadge(v.Active),
		}}
	}
	return p
}

func clinicianPages(b ports.ProfileBackend[model.HealthcareProfessional]) profilePages[model.HealthcareProfessional] {
	p := profilePages[model.HealthcareProfessional]{
		Backend:  b,
		Title:    "Healthcare professionals",
		Singular: "Healthcare professional",
		Page:     PageClinicians,
		Filters:  []viewmodel.Filter{activeFilter()},
		Columns:  []string{"Name", "Specialty", "License", "Status"},
		Fields: []profileField{
			{fieldDef: fieldDef{Name: "name", Label: "Name", Type: viewmodel.FieldText, Required: true}},
			{fieldDef: fieldDef{Name: "email", Label: "Email", Type: viewmodel.FieldEmail}},
			{fieldDef: fieldDef{Name: "specialty", Label: "Specialty", Type: viewmodel.FieldText}},
			{fieldDef: fieldDef{Name: "licenseNumber", Label: "License number", Type: viewmodel.FieldText}},
			{fieldDef: fieldDef{Name: "active", Label: "Active", Type: viewmodel.FieldCheckbox}},
		},
		ID:   func(v model.HealthcareProfessional) string { return v.ID },
		Name: func(v model.HealthcareProfessional) string { return v.Name },
		Values: func(v model.HealthcareProfessional) url.Values {
			return url.Values{
				"name":          {v.Name},
				"email":         {v.Email},
				"specialty":     {v.Specialty},
				"licenseNumber": {v.LicenseNumber},
				"active":        {boolValue(v.Active)},
			}
		},
	}
	p.Row = func(v model.HealthcareProfessional) viewmodel.Row {
		return viewmodel.Row{ID: v.ID, Href: p.itemPath(v.ID), Cells: []viewmodel.Cell{
			{Text: v.Name},
			{Text: v.Specialty},
			{Text: v.LicenseNumber},
			activeBadge(v.Active),
		}}
	}
	return p
}

func candidatePages(b ports.ProfileBackend[model.InterviewCandidate]) profilePages[model.InterviewCandidate] {
	p := profilePages[model.InterviewCandidate]{
		Backend:  b,
		Title:    "Interview candidates",
		Singular: "Interview candidate",
		Page:     PageCandidates,
		Filters:  []viewmodel.Filter{{Name: "status", Label: "Status", Options: options(candidateStatuses)}},
		Columns:  []string{"Name", "Position", "Interview", "Status"},
		Fields: []profileField{
			{fieldDef: fieldDef{Name: "name", Label: "Name", Type: viewmodel.FieldText, Required: true}},
			{fieldDef: fieldDef{Name: "email", Label: "Email", Type: viewmodel.FieldEmail}},
			{fieldDef: fieldDef{Name: "position", Label: "Position", Type: viewmodel.FieldText}},
			{fieldDef: fieldDef{Name: "interviewDate", Label: "Interview date", Type: viewmodel.FieldDate}},
			{fieldDef: fieldDef{Name: "status", Label: "Status", Type: viewmodel.FieldSelect, Required: true, Options: options(candidateStatuses)}},
			{fieldDef: fieldDef{Name: "notes", Label: "Notes", Type: viewmodel.FieldTextarea}},
		},
		ID:   func(v model.InterviewCandidate) string { return v.ID },
		Name: func(v model.InterviewCandidate) string { return v.Name },
		Values: func(v model.InterviewCandidate) url.Values {
			return url.Values{
				"name":          {v.Name},
				"email":         {v.Email},
				"position":      {v.Position},
				"interviewDate": {uiutil.FormatDate(v.InterviewDate)},
				"status":        {string(v.Status)},
				"notes":         {v.Notes},
			}
		},
	}
	p.Row = func(v model.InterviewCandidate) viewmodel.Row {
		return viewmodel.Row{ID: v.ID, Href: p.itemPath(v.ID), Cells: []viewmodel.Cell{
			{Text: v.Name},
			{Text: v.Position},
			{Text: uiutil.FormatDate(v.InterviewDate)},
			{Text: uiutil.Humanize(string(v.Status)), Badge: string(v.Status)},
		}}
	}
	return p
}

// profileCollections returns the configured profile collections keyed by URL segment.
func (h *UIHandlers) profileCollections() map[string]profileHandlers {
	out := make(map[string]profileHandlers, 4)
	if h.Residents != nil {
		out[string(h.Residents.Kind())] = residentPages(h.Residents)
	}
	if h.Caregivers != nil {
		out[string(h.Caregivers.Kind())] = caregiverPages(h.Caregivers)
	}
	if h.Clinicians != nil {
		out[string(h.Clinicians.Kind())] = clinicianPages(h.Clinicians)
	}
	if h.Candidates != nil {
		out[string(h.Candidates.Kind())] = candidatePages(h.Candidates)
	}
	return out
}

// profileRoute resolves {kind} to its pages or answers 404.
func (h *UIHandlers) profileRoute(serve func(profileHandlers, *UIHandlers, http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pages, ok := h.profileCollections()[r.PathValue("kind")]
		if !ok {
			h.NotFound(w, r)
			return
		}
		serve(pages, h, w, r)
	}
}

// ProfilesList serves GET /profiles/{kind}.
func (h *UIHandlers) ProfilesList(w http.ResponseWriter, r *http.Request) {
	h.profileRoute(profileHandlers.list)(w, r)
}

// ProfileDetail serves GET /profiles/{kind}/{id}.
func (h *UIHandlers) ProfileDetail(w http.ResponseWriter, r *http.Request) {
	h.profileRoute(profileHandlers.detail)(w, r)
}

// ProfileEdit serves GET /profiles/{kind}/{id}/edit.
func (h *UIHandlers) ProfileEdit(w http.ResponseWriter, r *http.Request) {
	h.profileRoute(profileHandlers.edit)(w, r)
}

// ProfileUpdate serves POST /profiles/{kind}/{id}.
func (h *UIHandlers) ProfileUpdate(w http.ResponseWriter, r *http.Request) {
	h.profileRoute(profileHandlers.update)(w, r)
}
