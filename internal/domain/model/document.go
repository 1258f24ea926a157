package model

import (
	"errors"
	"strings"
	"time"
)

// DocumentType classifies an uploaded document.
type DocumentType string

const (
	DocumentTypePolicy      DocumentType = "policy"
	DocumentTypeContract    DocumentType = "contract"
	DocumentTypeCertificate DocumentType = "certificate"
	DocumentTypeTraining    DocumentType = "training"
	DocumentTypeOther       DocumentType = "other"
)

// DocumentTypes lists the types offered by filters and forms.
var DocumentTypes = []DocumentType{
	DocumentTypePolicy,
	DocumentTypeContract,
	DocumentTypeCertificate,
	DocumentTypeTraining,
	DocumentTypeOther,
}

// ParseDocumentType normalizes a type string and reports whether it is supported.
func ParseDocumentType(value string) (DocumentType, bool) {
	t := DocumentType(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range DocumentTypes {
		if t == known {
			return t, true
		}
	}
	return "", false
}

// Document is a file record managed by the backend.
type Document struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Type        DocumentType `json:"type"`
	Active      bool         `json:"active"`
	FileURL     string       `json:"fileUrl,omitempty"`
	UploadedBy  string       `json:"uploadedBy,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// DocumentRequest carries create and update fields. On update a nil File keeps the stored file.
type DocumentRequest struct {
	Title       string
	Description string
	Type        DocumentType
	Active      bool
	File        *FileUpload
}

// Validate validates DocumentRequest. requireFile is true on create.
func (r *DocumentRequest) Validate(requireFile bool) error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return errors.New("title is required")
	}
	if _, ok := ParseDocumentType(string(r.Type)); !ok {
		return errors.New("document type is not supported")
	}
	if requireFile && r.File.Empty() {
		return errors.New("a file is required")
	}
	return nil
}
