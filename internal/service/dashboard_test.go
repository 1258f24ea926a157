package service

import (
	"context"
	"errors"
	"testing"

	domainauth "github.com/carehaven/carehome-admin/internal/domain/auth"
	"github.com/carehaven/carehome-admin/internal/domain/model"
	apperrors "github.com/carehaven/carehome-admin/internal/errors"
	"github.com/carehaven/carehome-admin/internal/mocks"
	"github.com/carehaven/carehome-admin/internal/pagination"
	"github.com/carehaven/carehome-admin/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type stubPlans struct {
	ports.PlanBackend
	scopes []model.PlanScope
	total  int
	err    error
}

func (s *stubPlans) List(_ context.Context, scope model.PlanScope, _ pagination.Query) (pagination.Page[model.Plan], error) {
	s.scopes = append(s.scopes, scope)
	return pagination.Page[model.Plan]{Descriptor: pagination.Descriptor{Total: s.total}}, s.err
}

type stubCareHomes struct {
	ports.CareHomeBackend
	total int
}

func (s stubCareHomes) List(context.Context, pagination.Query) (pagination.Page[model.CareHome], error) {
	return pagination.Page[model.CareHome]{Descriptor: pagination.Descriptor{Total: s.total}}, nil
}

func TestDashboardService_AdminTiles(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserBackend(ctrl)
	users.EXPECT().List(gomock.Any(), pagination.Query{Page: 1, Limit: 1}).
		Return(pagination.Page[model.User]{Descriptor: pagination.Descriptor{Total: 42}}, nil)
	plans := &stubPlans{err: apperrors.Rejected("")}

	svc := NewDashboardService(DashboardServiceOptions{Backends: DashboardBackends{Users: users, Plans: plans}})
	tiles, err := svc.Tiles(context.Background(), domainauth.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, tiles, 2)

	assert.Equal(t, "users", tiles[0].Key)
	assert.Equal(t, 42, tiles[0].Total)
	assert.NoError(t, tiles[0].Err)

	assert.Equal(t, "plans", tiles[1].Key)
	assert.True(t, apperrors.IsRejected(tiles[1].Err))
	assert.Equal(t, []model.PlanScope{model.PlanScopeAdmin}, plans.scopes)
}

func TestDashboardService_SuperAdminTiles(t *testing.T) {
	plans := &stubPlans{total: 3}
	svc := NewDashboardService(DashboardServiceOptions{Backends: DashboardBackends{
		CareHomes: stubCareHomes{total: 7},
		Plans:     plans,
	}})

	tiles, err := svc.Tiles(context.Background(), domainauth.RoleSuperAdmin)
	require.NoError(t, err)
	require.Len(t, tiles, 2)
	assert.Equal(t, "care_homes", tiles[0].Key)
	assert.Equal(t, 7, tiles[0].Total)
	assert.Equal(t, 3, tiles[1].Total)
	assert.Equal(t, []model.PlanScope{model.PlanScopeSuper}, plans.scopes)
}

func TestDashboardService_UnauthorizedAborts(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserBackend(ctrl)
	users.EXPECT().List(gomock.Any(), gomock.Any()).
		Return(pagination.Page[model.User]{}, apperrors.FromStatus(401, ""))

	svc := NewDashboardService(DashboardServiceOptions{Backends: DashboardBackends{
		Users: users,
		Plans: &stubPlans{err: errors.New("ignored")},
	}})

	_, err := svc.Tiles(context.Background(), domainauth.RoleAdmin)
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestDashboardService_NoBackends(t *testing.T) {
	svc := NewDashboardService(DashboardServiceOptions{})
	tiles, err := svc.Tiles(context.Background(), domainauth.RoleAdmin)
	require.NoError(t, err)
	assert.Empty(t, tiles)
}
