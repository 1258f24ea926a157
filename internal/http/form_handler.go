package httpx

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/carehaven/carehome-admin/internal/domain/model"
	apperrors "github.com/carehaven/carehome-admin/internal/errors"
	"github.com/carehaven/carehome-admin/internal/http/ui/viewmodel"
	"github.com/carehaven/carehome-admin/internal/http/uiutil"
	"github.com/gabriel-vasile/mimetype"
)

// maxUploadBytes caps multipart bodies and single uploaded files.
const maxUploadBytes = 10 << 20

const checkboxOn = "on"

// fieldDef declares one control of a resource form.
type fieldDef struct {
	Name     string
	Label    string
	Type     viewmodel.FieldType
	Required bool
	Step     string
	Help     string
	Options  []viewmodel.Option
}

// formSpec declares a resource form independent of the values it shows.
type formSpec struct {
	Action    string
	Multipart bool
	Fields    []fieldDef
	Submit    string
	CancelURL string
}

// buildForm fills spec with submitted or stored values and per-field errors.
func buildForm(spec formSpec, values url.Values, errs map[string]string) viewmodel.Form {
	form := viewmodel.Form{
		Action:    spec.Action,
		Multipart: spec.Multipart,
		Submit:    spec.Submit,
		CancelURL: spec.CancelURL,
		Fields:    make([]viewmodel.Field, 0, len(spec.Fields)),
	}
	for _, def := range spec.Fields {
		f := viewmodel.Field{
			Name:     def.Name,
			Label:    def.Label,
			Type:     def.Type,
			Required: def.Required,
			Step:     def.Step,
			Help:     def.Help,
			Error:    errs[def.Name],
		}
		value := values.Get(def.Name)
		switch def.Type {
		case viewmodel.FieldCheckbox:
			f.Checked = value == checkboxOn || value == StrTrue
		case viewmodel.FieldPassword, viewmodel.FieldFile:
			// never echoed back
		default:
			f.Value = value
		}
		if len(def.Options) > 0 {
			f.Options = make([]viewmodel.Option, len(def.Options))
			for i, opt := range def.Options {
				opt.Selected = opt.Value == value
				f.Options[i] = opt
			}
		}
		form.Fields = append(form.Fields, f)
	}
	return form
}

// FormHandlerOpts contains all options needed to handle a form submission.
// It uses a single struct parameter to maintain the ≤3 parameters constraint.
type FormHandlerOpts[T any] struct {
	Handler *UIHandlers
	W       http.ResponseWriter
	R       *http.Request
	Mode    FormMode
	Meta    PageMeta
	Spec    formSpec
	// Parse reads the submitted form. Field errors short-circuit Submit.
	Parse func(r *http.Request) (T, map[string]string)
	// Submit performs the backend create or update.
	Submit     func(ctx context.Context, req T) error
	SuccessURL string
}

// HandleForm processes a create or edit submission: parse, validate, submit, redirect.
// Failures re-render the form with the submitted values preserved.
func HandleForm[T any](opts FormHandlerOpts[T]) {
	if opts.Handler == nil || opts.Parse == nil || opts.Submit == nil {
		http.Error(opts.W, "misconfigured form handler", http.StatusInternalServerError)
		return
	}
	if err := parseFormRequest(opts.R); err != nil {
		opts.Handler.renderForm(opts.W, opts.R, formView{
			Meta: opts.Meta, Spec: opts.Spec, Mode: opts.Mode,
			Values: url.Values{}, General: "The submitted form could not be read.",
		})
		return
	}

	req, fieldErrors := opts.Parse(opts.R)
	if len(fieldErrors) > 0 {
		opts.Handler.renderForm(opts.W, opts.R, formView{
			Meta: opts.Meta, Spec: opts.Spec, Mode: opts.Mode,
			Values: opts.R.PostForm, Errors: fieldErrors,
		})
		return
	}

	err := opts.Submit(opts.R.Context(), req)
	switch {
	case err == nil:
		opts.Handler.redirect(opts.W, opts.R, opts.SuccessURL)
	case apperrors.IsUnauthorized(err):
		opts.Handler.handleUnauthorized(opts.W, opts.R)
	default:
		opts.Handler.logger().WarnContext(opts.R.Context(), "form submission failed",
			"path", opts.R.URL.Path, "mode", string(opts.Mode), "error", err)
		if IsHTMX(opts.R) {
			HTMX(opts.W).Toast(errorMessage(err, "Unable to save. Please try again."), "error")
		}
		opts.Handler.renderForm(opts.W, opts.R, formView{
			Meta: opts.Meta, Spec: opts.Spec, Mode: opts.Mode,
			Values:  opts.R.PostForm,
			Errors:  fieldErrorsFrom(err),
			General: errorMessage(err, "Unable to save. Please try again."),
		})
	}
}

// formView groups what renderForm needs.
type formView struct {
	Meta    PageMeta
	Spec    formSpec
	Mode    FormMode
	Values  url.Values
	Errors  map[string]string
	General string
}

// renderForm renders a create or edit form.
func (h *UIHandlers) renderForm(w http.ResponseWriter, r *http.Request, v formView) {
	v.Meta.View = ViewForm
	b := NewTemplateData(r, v.Meta).
		With("Form", buildForm(v.Spec, v.Values, v.Errors)).
		With("Mode", string(v.Mode)).
		WithFieldErrors(v.Errors)
	switch {
	case v.General != "":
		b.WithError(v.General)
	case len(v.Errors) > 0:
		b.WithError(errMsgFixBelow)
	}
	h.renderPage(w, r, b.Build())
}

func parseFormRequest(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(maxUploadBytes)
	}
	return r.ParseForm()
}

// errNotImage is returned by readUpload when an image field receives another file type.
var errNotImage = errors.New("file must be an image")

// readUpload returns the uploaded file for field, or nil when none was chosen.
// imageOnly restricts the detected content type to image/*.
func readUpload(r *http.Request, field string, imageOnly bool) (*model.FileUpload, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxUploadBytes {
		return nil, errors.New("file is larger than 10 MB")
	}
	if len(data) == 0 {
		return nil, nil
	}
	if imageOnly && !strings.HasPrefix(mimetype.Detect(data).String(), "image/") {
		return nil, errNotImage
	}
	return &model.FileUpload{Filename: header.Filename, Data: data}, nil
}

// formBool reads a checkbox value.
func formBool(r *http.Request, name string) bool {
	v := r.PostFormValue(name)
	return v == checkboxOn || v == StrTrue
}

// boolValue renders a flag the way checkboxes submit it.
func boolValue(b bool) string {
	if b {
		return checkboxOn
	}
	return ""
}

func options[T ~string](values []T) []viewmodel.Option {
	out := make([]viewmodel.Option, 0, len(values))
	for _, v := range values {
		out = append(out, viewmodel.Option{Value: string(v), Label: uiutil.Humanize(string(v))})
	}
	return out
}
