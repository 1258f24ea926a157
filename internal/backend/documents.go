package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/carehaven/carehome-admin/internal/domain/model"
	"github.com/carehaven/carehome-admin/internal/pagination"
)

const documentsPath = "/admin/documents"

// DocumentClient manages /admin/documents.
type DocumentClient struct {
	c *Client
}

// NewDocumentClient constructs a DocumentClient.
func NewDocumentClient(c *Client) *DocumentClient { return &DocumentClient{c: c} }

// List returns one page of documents. Filters: type, active.
func (d *DocumentClient) List(ctx context.Context, q pagination.Query) (pagination.Page[model.Document], error) {
	return listPage[model.Document](ctx, d.c, documentsPath, q, nil)
}

// Get fetches a single document with GET /admin/documents?id=.
func (d *DocumentClient) Get(ctx context.Context, id string) (model.Document, error) {
	return getJSON[model.Document](ctx, d.c, documentsPath, url.Values{"id": {id}})
}

// Create uploads a new document.
func (d *DocumentClient) Create(ctx context.Context, req model.DocumentRequest) (model.Document, error) {
	return sendMultipart[model.Document](ctx, d.c, http.MethodPost, documentsPath, documentForm(req))
}

// Update replaces document fields; the stored file is kept when req.File is nil.
func (d *DocumentClient) Update(ctx context.Context, id string, req model.DocumentRequest) (model.Document, error) {
	path := documentsPath + "/" + url.PathEscape(id)
	return sendMultipart[model.Document](ctx, d.c, http.MethodPut, path, documentForm(req))
}

func documentForm(req model.DocumentRequest) *Multipart {
	return NewMultipart().
		Field("title", req.Title).
		Field("description", req.Description).
		Field("type", string(req.Type)).
		Bool("active", req.Active).
		File("file", req.File)
}
