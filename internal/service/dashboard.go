package service

import (
	"context"
	"log/slog"

	domainauth "github.com/carehaven/carehome-admin/internal/domain/auth"
	"github.com/carehaven/carehome-admin/internal/domain/model"
	apperrors "github.com/carehaven/carehome-admin/internal/errors"
	obserrors "github.com/carehaven/carehome-admin/internal/observability/errors"
	"github.com/carehaven/carehome-admin/internal/pagination"
	"github.com/carehaven/carehome-admin/internal/ports"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentCounts caps the backend calls one dashboard render issues at once.
const maxConcurrentCounts = 4

// DashboardBackends lists the collections counted on the dashboard. Nil entries are skipped.
type DashboardBackends struct {
	Users      ports.UserBackend
	Documents  ports.DocumentBackend
	CareHomes  ports.CareHomeBackend
	Plans      ports.PlanBackend
	Residents  ports.ProfileBackend[model.Resident]
	Caregivers ports.ProfileBackend[model.Caregiver]
}

// DashboardServiceOptions groups dependencies for DashboardService.
type DashboardServiceOptions struct {
	Backends DashboardBackends // Required: collections to count
	Logger   *slog.Logger      // Optional: structured logger
}

// Tile is one dashboard total. Err is set when that count could not be loaded.
type Tile struct {
	Key   string
	Label string
	Href  string
	Total int
	Err   error
}

// DashboardService loads per-collection totals concurrently.
type DashboardService struct {
	backends DashboardBackends
	logger   *slog.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(opts DashboardServiceOptions) *DashboardService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{backends: opts.Backends, logger: logger.With("component", "dashboard")}
}

type countFunc func(ctx context.Context, q pagination.Query) (int, error)

type tileSpec struct {
	key, label, href string
	count            countFunc
}

func countOf[T any](list func(context.Context, pagination.Query) (pagination.Page[T], error)) countFunc {
	return func(ctx context.Context, q pagination.Query) (int, error) {
		page, err := list(ctx, q)
		if err != nil {
			return 0, err
		}
		return page.Descriptor.Total, nil
	}
}

func (s *DashboardService) specs(role domainauth.Role) []tileSpec {
	b := s.backends
	var out []tileSpec

	scope := model.PlanScopeAdmin
	if role == domainauth.RoleSuperAdmin {
		scope = model.PlanScopeSuper
		if b.CareHomes != nil {
			out = append(out, tileSpec{"care_homes", "Care homes", "/care-homes", countOf(b.CareHomes.List)})
		}
	} else {
		if b.Users != nil {
			out = append(out, tileSpec{"users", "Users", "/users", countOf(b.Users.List)})
		}
		if b.Residents != nil {
			out = append(out, tileSpec{"residents", "Residents", "/profiles/residents", countOf(b.Residents.List)})
		}
		if b.Caregivers != nil {
			out = append(out, tileSpec{"caregivers", "Caregivers", "/profiles/caregivers", countOf(b.Caregivers.List)})
		}
		if b.Documents != nil {
			out = append(out, tileSpec{"documents", "Documents", "/documents", countOf(b.Documents.List)})
		}
	}
	if b.Plans != nil {
		out = append(out, tileSpec{"plans", "Plans", "/plans", countOf(func(ctx context.Context, q pagination.Query) (pagination.Page[model.Plan], error) {
			return b.Plans.List(ctx, scope, q)
		})})
	}
	return out
}

// Tiles returns the totals visible to role, in display order.
// Individual failures are recorded on their tile; an unauthorized response aborts the whole load.
func (s *DashboardService) Tiles(ctx context.Context, role domainauth.Role) ([]Tile, error) {
	specs := s.specs(role)
	tiles := make([]Tile, len(specs))
	q := pagination.Query{Page: 1, Limit: 1}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentCounts)
	for i, spec := range specs {
		tiles[i] = Tile{Key: spec.key, Label: spec.label, Href: spec.href}
		g.Go(func() error {
			total, err := spec.count(gctx, q)
			if apperrors.IsUnauthorized(err) {
				return err
			}
			if err != nil {
				s.logger.WarnContext(ctx, "dashboard count failed",
					slog.String("tile", spec.key),
					slog.String("error_kind", obserrors.Classify(err)),
					slog.Any("error", err),
				)
				tiles[i].Err = err
				return nil
			}
			tiles[i].Total = total
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tiles, nil
}
