package httpx

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/carehaven/carehome-admin/internal/domain/model"
	"github.com/carehaven/carehome-admin/internal/http/ui/viewmodel"
	"github.com/carehaven/carehome-admin/internal/http/uiutil"
	"github.com/carehaven/carehome-admin/internal/http/validation"
)

func userFormSpec(mode FormMode, id string) formSpec {
	spec := formSpec{
		Action:    "/users",
		Multipart: true,
		Submit:    "Create user",
		CancelURL: "/users",
		Fields: []fieldDef{
			{Name: "name", Label: "Name", Type: viewmodel.FieldText, Required: true},
			{Name: "email", Label: "Email", Type: viewmodel.FieldEmail, Required: true},
			{Name: "phone", Label: "Phone", Type: viewmodel.FieldText},
			{Name: "role", Label: "Role", Type: viewmodel.FieldSelect, Required: true, Options: options(model.UserRoles)},
			{Name: "active", Label: "Active", Type: viewmodel.FieldCheckbox},
		},
	}
	if mode == FormModeCreate {
		spec.Fields = append(spec.Fields,
			fieldDef{Name: "password", Label: "Password", Type: viewmodel.FieldPassword, Required: true, Help: "At least 8 characters."},
			fieldDef{Name: "picture", Label: "Profile picture", Type: viewmodel.FieldFile},
		)
		return spec
	}
	spec.Action = "/users/" + url.PathEscape(id)
	spec.Multipart = false
	spec.Submit = "Save changes"
	spec.CancelURL = spec.Action
	return spec
}

// UsersList serves GET /users.
func (h *UIHandlers) UsersList(w http.ResponseWriter, r *http.Request) {
	HandleList(ListHandlerOpts[model.User]{
		Handler:  h,
		W:        w,
		R:        r,
		Key:      "users",
		BasePath: "/users",
		Meta:     PageMeta{Title: "Users", PageTitle: "Users", CurrentPage: PageUsers},
		Filters: []viewmodel.Filter{
			{Name: "role", Label: "Role", Options: options(model.UserRoles)},
			activeFilter(),
		},
		Fetch:   h.Users.List,
		Columns: []string{"Name", "Email", "Role", "Status", "Created"},
		Row: func(u model.User) viewmodel.Row {
			return viewmodel.Row{ID: u.ID, Href: "/users/" + url.PathEscape(u.ID), Cells: []viewmodel.Cell{
				{Text: u.Name},
				{Text: u.Email},
				{Text: uiutil.Humanize(string(u.Role))},
				{Text: uiutil.ActiveLabel(u.Active), Badge: strings.ToLower(uiutil.ActiveLabel(u.Active))},
				{Text: uiutil.FormatFriendlyDateTime(u.CreatedAt)},
			}}
		},
		Empty:        "No users match these filters.",
		NewURL:       "/users/new",
		NewLabel:     "New user",
		ErrorMessage: "Unable to load users.",
	})
}

// UserDetail serves GET /users/{id}.
func (h *UIHandlers) UserDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	meta := PageMeta{Title: "User", PageTitle: "User", CurrentPage: PageUsers}
	u, err := h.Users.Get(r.Context(), id)
	if err != nil {
		h.handleLoadError(w, r, meta, err)
		return
	}
	meta.Title, meta.PageTitle = u.Name, u.Name
	h.renderDetail(w, r, meta, viewmodel.Detail{
		BackURL: "/users",
		EditURL: "/users/" + url.PathEscape(u.ID) + "/edit",
		Items: []viewmodel.DetailItem{
			{Label: "Name", Value: u.Name},
			{Label: "Email", Value: u.Email},
			{Label: "Phone", Value: u.Phone},
			{Label: "Role", Value: uiutil.Humanize(string(u.Role))},
			{Label: "Status", Value: uiutil.ActiveLabel(u.Active)},
			{Label: "Profile picture", Value: u.ProfilePicture, Link: u.ProfilePicture},
			{Label: "Created", Value: uiutil.FormatFriendlyDateTime(u.CreatedAt)},
			{Label: "Updated", Value: uiutil.FormatFriendlyDateTime(u.UpdatedAt)},
		},
	})
}

// UserNew serves GET /users/new.
func (h *UIHandlers) UserNew(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, formView{
		Meta:   PageMeta{Title: "New user", PageTitle: "New user", CurrentPage: PageUsers},
		Spec:   userFormSpec(FormModeCreate, ""),
		Mode:   FormModeCreate,
		Values: url.Values{"active": {checkboxOn}},
	})
}

// UserCreate serves POST /users.
func (h *UIHandlers) UserCreate(w http.ResponseWriter, r *http.Request) {
	HandleForm(FormHandlerOpts[model.CreateUserRequest]{
		Handler: h,
		W:       w,
		R:       r,
		Mode:    FormModeCreate,
		Meta:    PageMeta{Title: "New user", PageTitle: "New user", CurrentPage: PageUsers},
		Spec:    userFormSpec(FormModeCreate, ""),
		Parse:   parseCreateUserForm,
		Submit: func(ctx context.Context, req model.CreateUserRequest) error {
			_, err := h.Users.Create(ctx, req)
			return err
		},
		SuccessURL: "/users",
	})
}

// UserEdit serves GET /users/{id}/edit.
func (h *UIHandlers) UserEdit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	meta := PageMeta{Title: "Edit user", PageTitle: "Edit user", CurrentPage: PageUsers}
	u, err := h.Users.Get(r.Context(), id)
	if err != nil {
		h.handleLoadError(w, r, meta, err)
		return
	}
	h.renderForm(w, r, formView{
		Meta: meta,
		Spec: userFormSpec(FormModeEdit, id),
		Mode: FormModeEdit,
		Values: url.Values{
			"name":   {u.Name},
			"email":  {u.Email},
			"phone":  {u.Phone},
			"role":   {string(u.Role)},
			"active": {boolValue(u.Active)},
		},
	})
}

// UserUpdate serves POST /users/{id}.
func (h *UIHandlers) UserUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	HandleForm(FormHandlerOpts[model.UpdateUserRequest]{
		Handler: h,
		W:       w,
		R:       r,
		Mode:    FormModeEdit,
		Meta:    PageMeta{Title: "Edit user", PageTitle: "Edit user", CurrentPage: PageUsers},
		Spec:    userFormSpec(FormModeEdit, id),
		Parse:   parseUpdateUserForm,
		Submit: func(ctx context.Context, req model.UpdateUserRequest) error {
			_, err := h.Users.Update(ctx, id, req)
			return err
		},
		SuccessURL: "/users/" + url.PathEscape(id),
	})
}

func validateUserFields(r *http.Request) *validation.FieldValidator {
	roles := make([]string, len(model.UserRoles))
	for i, role := range model.UserRoles {
		roles[i] = string(role)
	}
	return validation.New().
		Validate("name", r.PostFormValue("name"), validation.Required("Name", 120)).
		Validate("email", r.PostFormValue("email"), validation.Required("Email", 254), validation.Email("Email")).
		Validate("phone", r.PostFormValue("phone"), validation.Optional("Phone", 32)).
		Validate("role", r.PostFormValue("role"), validation.Required("Role", 64), validation.OneOf("Role", roles))
}

func parseCreateUserForm(r *http.Request) (model.CreateUserRequest, map[string]string) {
	fv := validateUserFields(r).
		Validate("password", r.PostFormValue("password"), validation.MinLength("Password", 8))
	picture, err := readUpload(r, "picture", true)
	if err != nil {
		fv.Add("picture", "Profile picture "+err.Error()+".")
	}
	role, _ := model.ParseUserRole(r.PostFormValue("role"))
	return model.CreateUserRequest{
		Name:     strings.TrimSpace(r.PostFormValue("name")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
		Phone:    strings.TrimSpace(r.PostFormValue("phone")),
		Role:     role,
		Active:   formBool(r, "active"),
		Picture:  picture,
	}, fv.Errors()
}

func parseUpdateUserForm(r *http.Request) (model.UpdateUserRequest, map[string]string) {
	errs := validateUserFields(r).Errors()
	name := strings.TrimSpace(r.PostFormValue("name"))
	email := strings.TrimSpace(r.PostFormValue("email"))
	phone := strings.TrimSpace(r.PostFormValue("phone"))
	role, _ := model.ParseUserRole(r.PostFormValue("role"))
	active := formBool(r, "active")
	return model.UpdateUserRequest{
		Name:   &name,
		Email:  &email,
		Phone:  &phone,
		Role:   &role,
		Active: &active,
	}, errs
}
