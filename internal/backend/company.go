package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/carehaven/carehome-admin/internal/domain/model"
)

const companyInfoPath = "/admin/company-info"

// CompanyClient manages the single company profile record.
type CompanyClient struct {
	c *Client
}

// NewCompanyClient constructs a CompanyClient.
func NewCompanyClient(c *Client) *CompanyClient { return &CompanyClient{c: c} }

// Get fetches the company profile.
func (cc *CompanyClient) Get(ctx context.Context) (model.CompanyInfo, error) {
	return getJSON[model.CompanyInfo](ctx, cc.c, companyInfoPath, nil)
}

// Save creates the profile when id is empty and updates it otherwise.
func (cc *CompanyClient) Save(ctx context.Context, id string, req model.CompanyInfoRequest) (model.CompanyInfo, error) {
	if id == "" {
		return sendJSON[model.CompanyInfo](ctx, cc.c, http.MethodPost, companyInfoPath, req)
	}
	return sendJSON[model.CompanyInfo](ctx, cc.c, http.MethodPut, companyInfoPath+"/"+url.PathEscape(id), req)
}
