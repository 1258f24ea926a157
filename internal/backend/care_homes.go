package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/carehaven/carehome-admin/internal/domain/model"
	"github.com/carehaven/carehome-admin/internal/pagination"
)

const careHomesPath = "/super/care-homes"

// careHomeShape reads the snake_case pagination block this endpoint returns.
var careHomeShape = pagination.MustNormalizer(pagination.Shape{
	CurrentPage: "pagination.current_page || pagination.currentPage",
	TotalPages:  "pagination.total_pages || pagination.totalPages",
})

// CareHomeClient manages /super/care-homes.
type CareHomeClient struct {
	c *Client
}

// NewCareHomeClient constructs a CareHomeClient.
func NewCareHomeClient(c *Client) *CareHomeClient { return &CareHomeClient{c: c} }

// List returns one page of care homes.
func (h *CareHomeClient) List(ctx context.Context, q pagination.Query) (pagination.Page[model.CareHome], error) {
	return listPage[model.CareHome](ctx, h.c, careHomesPath, q, careHomeShape)
}

// Get fetches a single care home with GET /super/care-homes?id=.
func (h *CareHomeClient) Get(ctx context.Context, id string) (model.CareHome, error) {
	return getJSON[model.CareHome](ctx, h.c, careHomesPath, url.Values{"id": {id}})
}

// Update sends a multipart form: flat fields, latitude/longitude, and the nested
// settings and contactInfo objects as JSON-encoded fields.
func (h *CareHomeClient) Update(ctx context.Context, id string, req model.UpdateCareHomeRequest) (model.CareHome, error) {
	form := NewMultipart().
		Field("name", req.Name).
		Field("address", req.Address).
		Float("latitude", req.Geolocation.Latitude).
		Float("longitude", req.Geolocation.Longitude).
		Bool("active", req.Active).
		JSON("settings", req.Settings).
		JSON("contactInfo", req.ContactInfo).
		File("logo", req.Logo)
	path := careHomesPath + "/" + url.PathEscape(id)
	return sendMultipart[model.CareHome](ctx, h.c, http.MethodPut, path, form)
}
