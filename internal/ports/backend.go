package ports

import (
	"context"

	"github.com/carehaven/carehome-admin/internal/domain/model"
	"github.com/carehaven/carehome-admin/internal/pagination"
)

// UserBackend manages user accounts.
type UserBackend interface {
	List(ctx context.Context, q pagination.Query) (pagination.Page[model.User], error)
	Get(ctx context.Context, id string) (model.User, error)
	Create(ctx context.Context, req model.CreateUserRequest) (model.User, error)
	Update(ctx context.Context, id string, req model.UpdateUserRequest) (model.User, error)
}

// DocumentBackend manages uploaded documents.
type DocumentBackend interface {
	List(ctx context.Context, q pagination.Query) (pagination.Page[model.Document], error)
	Get(ctx context.Context, id string) (model.Document, error)
	Create(ctx context.Context, req model.DocumentRequest) (model.Document, error)
	Update(ctx context.Context, id string, req model.DocumentRequest) (model.Document, error)
}

// CareHomeBackend manages care homes.
type CareHomeBackend interface {
	List(ctx context.Context, q pagination.Query) (pagination.Page[model.CareHome], error)
	Get(ctx context.Context, id string) (model.CareHome, error)
	Update(ctx context.Context, id string, req model.UpdateCareHomeRequest) (model.CareHome, error)
}

// PlanBackend manages subscription plans in either scope.
type PlanBackend interface {
	List(ctx context.Context, scope model.PlanScope, q pagination.Query) (pagination.Page[model.Plan], error)
	Get(ctx context.Context, scope model.PlanScope, id string) (model.Plan, error)
	Create(ctx context.Context, scope model.PlanScope, req model.PlanRequest) (model.Plan, error)
	Update(ctx context.Context, scope model.PlanScope, id string, req model.PlanRequest) (model.Plan, error)
}

// CompanyBackend manages the company profile.
type CompanyBackend interface {
	Get(ctx context.Context) (model.CompanyInfo, error)
	Save(ctx context.Context, id string, req model.CompanyInfoRequest) (model.CompanyInfo, error)
}

// ProfileBackend manages one role-specific profile collection.
type ProfileBackend[T any] interface {
	Kind() model.ProfileKind
	List(ctx context.Context, q pagination.Query) (pagination.Page[T], error)
	Get(ctx context.Context, id string) (T, error)
	Update(ctx context.Context, id string, upd model.ProfileUpdate) (T, error)
}
