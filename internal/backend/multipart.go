package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	apperrors "github.com/carehaven/carehome-admin/internal/errors"
	"github.com/carehaven/carehome-admin/internal/domain/model"
)

// Multipart accumulates form fields and files for create/update calls that carry uploads.
// Errors are deferred to Encode so calls can be chained.
type Multipart struct {
	fields [][2]string
	files  []filePart
	err    error
}

type filePart struct {
	field string
	file  *model.FileUpload
}

// NewMultipart returns an empty form.
func NewMultipart() *Multipart { return &Multipart{} }

// Field adds a text field.
func (m *Multipart) Field(name, value string) *Multipart {
	m.fields = append(m.fields, [2]string{name, value})
	return m
}

// Bool adds a "true"/"false" field.
func (m *Multipart) Bool(name string, v bool) *Multipart {
	return m.Field(name, strconv.FormatBool(v))
}

// Float adds a decimal field.
func (m *Multipart) Float(name string, v float64) *Multipart {
	return m.Field(name, strconv.FormatFloat(v, 'f', -1, 64))
}

// JSON adds a field holding v encoded as JSON.
func (m *Multipart) JSON(name string, v any) *Multipart {
	b, err := json.Marshal(v)
	if err != nil {
		if m.err == nil {
			m.err = apperrors.Wrapf(err, apperrors.ErrCodeInternal, "encode field %s", name)
		}
		return m
	}
	return m.Field(name, string(b))
}

// File adds a file part. Empty uploads are skipped.
func (m *Multipart) File(field string, f *model.FileUpload) *Multipart {
	if f.Empty() {
		return m
	}
	m.files = append(m.files, filePart{field: field, file: f})
	return m
}

// Encode writes the form and returns the body and its Content-Type.
func (m *Multipart) Encode() (*bytes.Buffer, string, error) {
	if m.err != nil {
		return nil, "", m.err
	}
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range m.fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", apperrors.Wrapf(err, apperrors.ErrCodeInternal, "write field %s", f[0])
		}
	}
	for _, p := range m.files {
		part, err := w.CreatePart(fileHeader(p.field, p.file))
		if err != nil {
			return nil, "", apperrors.Wrapf(err, apperrors.ErrCodeInternal, "create part %s", p.field)
		}
		if _, err := part.Write(p.file.Data); err != nil {
			return nil, "", apperrors.Wrapf(err, apperrors.ErrCodeInternal, "write part %s", p.field)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", apperrors.Wrap(err, apperrors.ErrCodeInternal, "close multipart writer")
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func fileHeader(field string, f *model.FileUpload) textproto.MIMEHeader {
	mt := mimetype.Detect(f.Data)
	name := strings.TrimSpace(f.Filename)
	if name == "" {
		name = field + mt.Extension()
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(name)))
	h.Set("Content-Type", mt.String())
	return h
}

// DetectContentType reports the MIME type of an upload, as sent in its part header.
func DetectContentType(data []byte) string {
	return mimetype.Detect(data).String()
}
