package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/carehaven/carehome-admin/internal/domain/model"
	"github.com/carehaven/carehome-admin/internal/pagination"
)

// ProfileClient manages one role-specific profile collection under /admin/<kind>.
type ProfileClient[T any] struct {
	c    *Client
	kind model.ProfileKind
}

// NewProfileClient constructs a ProfileClient for kind.
func NewProfileClient[T any](c *Client, kind model.ProfileKind) *ProfileClient[T] {
	return &ProfileClient[T]{c: c, kind: kind}
}

// Kind returns the collection this client serves.
func (p *ProfileClient[T]) Kind() model.ProfileKind { return p.kind }

func (p *ProfileClient[T]) path() string { return "/admin/" + string(p.kind) }

// List returns one page of profiles.
func (p *ProfileClient[T]) List(ctx context.Context, q pagination.Query) (pagination.Page[T], error) {
	return listPage[T](ctx, p.c, p.path(), q, nil)
}

// Get fetches the profile with GET /admin/<kind>/{id}.
func (p *ProfileClient[T]) Get(ctx context.Context, id string) (T, error) {
	return getJSON[T](ctx, p.c, p.path()+"/"+url.PathEscape(id), nil)
}

// Update sends the changed fields with PUT /admin/<kind>/{id}.
func (p *ProfileClient[T]) Update(ctx context.Context, id string, upd model.ProfileUpdate) (T, error) {
	return sendJSON[T](ctx, p.c, http.MethodPut, p.path()+"/"+url.PathEscape(id), upd)
}
