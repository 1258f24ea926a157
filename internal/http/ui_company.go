package httpx

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/carehaven/carehome-admin/internal/domain/model"
	apperrors "github.com/carehaven/carehome-admin/internal/errors"
	"github.com/carehaven/carehome-admin/internal/http/ui/viewmodel"
	"github.com/carehaven/carehome-admin/internal/http/uiutil"
	"github.com/carehaven/carehome-admin/internal/http/validation"
)

// companyFormSpec posts to /company for create and edit. The backend keeps one profile per company.
func companyFormSpec(mode FormMode) formSpec {
	submit := "Save company"
	if mode == FormModeCreate {
		submit = "Create company"
	}
	return formSpec{
		Action:    "/company",
		Submit:    submit,
		CancelURL: "/company",
		Fields: []fieldDef{
			{Name: "name", Label: "Company name", Type: viewmodel.FieldText, Required: true},
			{Name: "registration_number", Label: "Registration number", Type: viewmodel.FieldText},
			{Name: "email", Label: "Email", Type: viewmodel.FieldEmail},
			{Name: "phone", Label: "Phone", Type: viewmodel.FieldText},
			{Name: "address", Label: "Address", Type: viewmodel.FieldTextarea},
			{Name: "website", Label: "Website", Type: viewmodel.FieldText},
		},
	}
}

// CompanyShow serves GET /company. A company without a stored profile is sent to the create form.
func (h *UIHandlers) CompanyShow(w http.ResponseWriter, r *http.Request) {
	meta := PageMeta{Title: "Company", PageTitle: "Company", CurrentPage: PageCompany}
	info, err := h.Company.Get(r.Context())
	if apperrors.IsNotFound(err) {
		h.redirect(w, r, "/company/edit")
		return
	}
	if err != nil {
		h.handleLoadError(w, r, meta, err)
		return
	}
	h.renderDetail(w, r, meta, viewmodel.Detail{
		EditURL: "/company/edit",
		Items: []viewmodel.DetailItem{
			{Label: "Company name", Value: info.Name},
			{Label: "Registration number", Value: info.RegistrationNumber},
			{Label: "Email", Value: info.Email},
			{Label: "Phone", Value: info.Phone},
			{Label: "Address", Value: info.Address},
			{Label: "Website", Value: info.Website, Link: info.Website},
			{Label: "Logo", Value: info.Logo, Link: info.Logo},
			{Label: "Updated", Value: uiutil.FormatFriendlyDateTime(info.UpdatedAt)},
		},
	})
}

// CompanyEdit serves GET /company/edit, as a create form when no profile exists yet.
func (h *UIHandlers) CompanyEdit(w http.ResponseWriter, r *http.Request) {
	meta := PageMeta{Title: "Edit company", PageTitle: "Edit company", CurrentPage: PageCompany}
	info, err := h.Company.Get(r.Context())
	switch {
	case apperrors.IsNotFound(err):
		meta.Title, meta.PageTitle = "Create company", "Create company"
		h.renderForm(w, r, formView{Meta: meta, Spec: companyFormSpec(FormModeCreate), Mode: FormModeCreate, Values: url.Values{}})
		return
	case err != nil:
		h.handleLoadError(w, r, meta, err)
		return
	}
	h.renderForm(w, r, formView{
		Meta: meta,
		Spec: companyFormSpec(FormModeEdit),
		Mode: FormModeEdit,
		Values: url.Values{
			"name":                {info.Name},
			"registration_number": {info.RegistrationNumber},
			"email":               {info.Email},
			"phone":               {info.Phone},
			"address":             {info.Address},
			"website":             {info.Website},
		},
	})
}

// CompanySave serves POST /company. It updates the existing profile or creates one.
func (h *UIHandlers) CompanySave(w http.ResponseWriter, r *http.Request) {
	HandleForm(FormHandlerOpts[model.CompanyInfoRequest]{
		Handler: h,
		W:       w,
		R:       r,
		Mode:    FormModeEdit,
		Meta:    PageMeta{Title: "Edit company", PageTitle: "Edit company", CurrentPage: PageCompany},
		Spec:    companyFormSpec(FormModeEdit),
		Parse:   parseCompanyForm,
		Submit: func(ctx context.Context, req model.CompanyInfoRequest) error {
			var id string
			current, err := h.Company.Get(ctx)
			switch {
			case err == nil:
				id = current.ID
			case !apperrors.IsNotFound(err):
				return err
			}
			if _, err = h.Company.Save(ctx, id, req); err != nil {
				return err
			}
			h.refreshCompanyCache(ctx)
			return nil
		},
		SuccessURL: "/company",
	})
}

// refreshCompanyCache reloads the company profile held in the session so the
// header shows the saved name. A failed reload keeps the old cache.
func (h *UIHandlers) refreshCompanyCache(ctx context.Context) {
	id := sessionIDFrom(ctx)
	if id == "" || h.Sessions == nil {
		return
	}
	if _, err := h.Sessions.FetchCompanyData(ctx, id); err != nil {
		h.logger().WarnContext(ctx, "refresh cached company profile failed", "error", err)
	}
}

func parseCompanyForm(r *http.Request) (model.CompanyInfoRequest, map[string]string) {
	get := func(name string) string { return strings.TrimSpace(r.PostFormValue(name)) }
	fv := validation.New().
		Validate("name", get("name"), validation.Required("Company name", 200)).
		Validate("registration_number", get("registration_number"), validation.Optional("Registration number", 64)).
		Validate("email", get("email"), validation.Email("Email")).
		Validate("phone", get("phone"), validation.Optional("Phone", 32)).
		Validate("address", get("address"), validation.Optional("Address", 500)).
		Validate("website", get("website"), validation.HTTPURL("Website"))
	return model.CompanyInfoRequest{
		Name:               get("name"),
		RegistrationNumber: get("registration_number"),
		Email:              get("email"),
		Phone:              get("phone"),
		Address:            get("address"),
		Website:            get("website"),
	}, fv.Errors()
}
