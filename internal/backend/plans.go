package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/carehaven/carehome-admin/internal/domain/model"
	"github.com/carehaven/carehome-admin/internal/pagination"
)

// PlanClient manages subscription plans under /super/plans or /admin/plans.
type PlanClient struct {
	c *Client
}

// NewPlanClient constructs a PlanClient.
func NewPlanClient(c *Client) *PlanClient { return &PlanClient{c: c} }

func plansPath(scope model.PlanScope) string {
	if scope == model.PlanScopeSuper {
		return "/super/plans"
	}
	return "/admin/plans"
}

// List returns one page of plans in scope.
func (p *PlanClient) List(ctx context.Context, scope model.PlanScope, q pagination.Query) (pagination.Page[model.Plan], error) {
	return listPage[model.Plan](ctx, p.c, plansPath(scope), q, nil)
}

// Get fetches a plan by id.
func (p *PlanClient) Get(ctx context.Context, scope model.PlanScope, id string) (model.Plan, error) {
	return getJSON[model.Plan](ctx, p.c, plansPath(scope)+"/"+url.PathEscape(id), nil)
}

// Create posts a new plan.
func (p *PlanClient) Create(ctx context.Context, scope model.PlanScope, req model.PlanRequest) (model.Plan, error) {
	return sendJSON[model.Plan](ctx, p.c, http.MethodPost, plansPath(scope), req)
}

// Update replaces a plan.
func (p *PlanClient) Update(ctx context.Context, scope model.PlanScope, id string, req model.PlanRequest) (model.Plan, error) {
	return sendJSON[model.Plan](ctx, p.c, http.MethodPut, plansPath(scope)+"/"+url.PathEscape(id), req)
}
