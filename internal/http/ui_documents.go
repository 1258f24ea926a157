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

func documentFormSpec(mode FormMode, id string) formSpec {
	spec := formSpec{
		Action:    "/documents",
		Multipart: true,
		Submit:    "Upload document",
		CancelURL: "/documents",
		Fields: []fieldDef{
			{Name: "title", Label: "Title", Type: viewmodel.FieldText, Required: true},
			{Name: "description", Label: "Description", Type: viewmodel.FieldTextarea},
			{Name: "type", Label: "Type", Type: viewmodel.FieldSelect, Required: true, Options: options(model.DocumentTypes)},
			{Name: "active", Label: "Active", Type: viewmodel.FieldCheckbox},
			{Name: "file", Label: "File", Type: viewmodel.FieldFile, Required: mode == FormModeCreate},
		},
	}
	if mode == FormModeEdit {
		spec.Action = "/documents/" + url.PathEscape(id)
		spec.Submit = "Save changes"
		spec.CancelURL = spec.Action
		spec.Fields[len(spec.Fields)-1].Help = "Leave empty to keep the current file."
	}
	return spec
}

// DocumentsList serves GET /documents.
func (h *UIHandlers) DocumentsList(w http.ResponseWriter, r *http.Request) {
	HandleList(ListHandlerOpts[model.Document]{
		Handler:  h,
		W:        w,
		R:        r,
		Key:      "documents",
		BasePath: "/documents",
		Meta:     PageMeta{Title: "Documents", PageTitle: "Documents", CurrentPage: PageDocuments},
		Filters: []viewmodel.Filter{
			{Name: "type", Label: "Type", Options: options(model.DocumentTypes)},
			activeFilter(),
		},
		Fetch:   h.Documents.List,
		Columns: []string{"Title", "Type", "Status", "Updated"},
		Row: func(d model.Document) viewmodel.Row {
			return viewmodel.Row{ID: d.ID, Href: "/documents/" + url.PathEscape(d.ID), Cells: []viewmodel.Cell{
				{Text: uiutil.TruncateWithEllipsis(d.Title, 60)},
				{Text: uiutil.Humanize(string(d.Type))},
				{Text: uiutil.ActiveLabel(d.Active), Badge: strings.ToLower(uiutil.ActiveLabel(d.Active))},
				{Text: uiutil.FormatFriendlyDateTime(d.UpdatedAt)},
			}}
		},
		Empty:        "No documents match these filters.",
		NewURL:       "/documents/new",
		NewLabel:     "Upload document",
		ErrorMessage: "Unable to load documents.",
	})
}

// DocumentDetail serves GET /documents/{id}.
func (h *UIHandlers) DocumentDetail(w http.ResponseWriter, r *http.Request) {
	meta := PageMeta{Title: "Document", PageTitle: "Document", CurrentPage: PageDocuments}
	d, err := h.Documents.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.handleLoadError(w, r, meta, err)
		return
	}
	meta.Title, meta.PageTitle = d.Title, d.Title
	h.renderDetail(w, r, meta, viewmodel.Detail{
		BackURL: "/documents",
		EditURL: "/documents/" + url.PathEscape(d.ID) + "/edit",
		Items: []viewmodel.DetailItem{
			{Label: "Title", Value: d.Title},
			{Label: "Description", Value: d.Description},
			{Label: "Type", Value: uiutil.Humanize(string(d.Type))},
			{Label: "Status", Value: uiutil.ActiveLabel(d.Active)},
			{Label: "File", Value: d.FileURL, Link: d.FileURL},
			{Label: "Uploaded by", Value: d.UploadedBy},
			{Label: "Created", Value: uiutil.FormatFriendlyDateTime(d.CreatedAt)},
			{Label: "Updated", Value: uiutil.FormatFriendlyDateTime(d.UpdatedAt)},
		},
	})
}

// DocumentNew serves GET /documents/new.
func (h *UIHandlers) DocumentNew(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, formView{
		Meta:   PageMeta{Title: "Upload document", PageTitle: "Upload document", CurrentPage: PageDocuments},
		Spec:   documentFormSpec(FormModeCreate, ""),
		Mode:   FormModeCreate,
		Values: url.Values{"active": {checkboxOn}},
	})
}

// DocumentCreate serves POST /documents.
func (h *UIHandlers) DocumentCreate(w http.ResponseWriter, r *http.Request) {
	HandleForm(FormHandlerOpts[model.DocumentRequest]{
		Handler: h,
		W:       w,
		R:       r,
		Mode:    FormModeCreate,
		Meta:    PageMeta{Title: "Upload document", PageTitle: "Upload document", CurrentPage: PageDocuments},
		Spec:    documentFormSpec(FormModeCreate, ""),
		Parse: func(r *http.Request) (model.DocumentRequest, map[string]string) {
			return parseDocumentForm(r, true)
		},
		Submit: func(ctx context.Context, req model.DocumentRequest) error {
			_, err := h.Documents.Create(ctx, req)
			return err
		},
		SuccessURL: "/documents",
	})
}

// DocumentEdit serves GET /documents/{id}/edit.
func (h *UIHandlers) DocumentEdit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	meta := PageMeta{Title: "Edit document", PageTitle: "Edit document", CurrentPage: PageDocuments}
	d, err := h.Documents.Get(r.Context(), id)
	if err != nil {
		h.handleLoadError(w, r, meta, err)
		return
	}
	h.renderForm(w, r, formView{
		Meta: meta,
		Spec: documentFormSpec(FormModeEdit, id),
		Mode: FormModeEdit,
		Values: url.Values{
			"title":       {d.Title},
			"description": {d.Description},
			"type":        {string(d.Type)},
			"active":      {boolValue(d.Active)},
		},
	})
}

// DocumentUpdate serves POST /documents/{id}.
func (h *UIHandlers) DocumentUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	HandleForm(FormHandlerOpts[model.DocumentRequest]{
		Handler: h,
		W:       w,
		R:       r,
		Mode:    FormModeEdit,
		Meta:    PageMeta{Title: "Edit document", PageTitle: "Edit document", CurrentPage: PageDocuments},
		Spec:    documentFormSpec(FormModeEdit, id),
		Parse: func(r *http.Request) (model.DocumentRequest, map[string]string) {
			return parseDocumentForm(r, false)
		},
		Submit: func(ctx context.Context, req model.DocumentRequest) error {
			_, err := h.Documents.Update(ctx, id, req)
			return err
		},
		SuccessURL: "/documents/" + url.PathEscape(id),
	})
}

func parseDocumentForm(r *http.Request, requireFile bool) (model.DocumentRequest, map[string]string) {
	types := make([]string, len(model.DocumentTypes))
	for i, t := range model.DocumentTypes {
		types[i] = string(t)
	}
	fv := validation.New().
		Validate("title", r.PostFormValue("title"), validation.Required("Title", 200)).
		Validate("description", r.PostFormValue("description"), validation.Optional("Description", 2000)).
		Validate("type", r.PostFormValue("type"), validation.Required("Type", 32), validation.OneOf("Type", types))

	file, err := readUpload(r, "file", false)
	switch {
	case err != nil:
		fv.Add("file", "File "+err.Error()+".")
	case requireFile && file.Empty():
		fv.Add("file", "A file is required.")
	}
	docType, _ := model.ParseDocumentType(r.PostFormValue("type"))
	return model.DocumentRequest{
		Title:       strings.TrimSpace(r.PostFormValue("title")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
		Type:        docType,
		Active:      formBool(r, "active"),
		File:        file,
	}, fv.Errors()
}
