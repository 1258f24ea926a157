package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/carehaven/carehome-admin/internal/domain/model"
	"github.com/carehaven/carehome-admin/internal/pagination"
)

const usersPath = "/admin/user"

// UserClient manages /admin/user.
type UserClient struct {
	c *Client
}

// NewUserClient constructs a UserClient.
func NewUserClient(c *Client) *UserClient { return &UserClient{c: c} }

// List returns one page of users. Filters: role, active.
func (u *UserClient) List(ctx context.Context, q pagination.Query) (pagination.Page[model.User], error) {
	return listPage[model.User](ctx, u.c, usersPath, q, nil)
}

// Get fetches a single user with GET /admin/user?id=.
func (u *UserClient) Get(ctx context.Context, id string) (model.User, error) {
	return getJSON[model.User](ctx, u.c, usersPath, url.Values{"id": {id}})
}

// Create posts a new user as multipart so the profile picture can be included.
func (u *UserClient) Create(ctx context.Context, req model.CreateUserRequest) (model.User, error) {
	form := NewMultipart().
		Field("name", req.Name).
		Field("email", req.Email).
		Field("password", req.Password).
		Field("role", string(req.Role)).
		Bool("active", req.Active).
		File("profilePicture", req.Picture)
	if req.Phone != "" {
		form.Field("phone", req.Phone)
	}
	return sendMultipart[model.User](ctx, u.c, http.MethodPost, usersPath, form)
}

// Update sends the changed fields with PUT /admin/user/{id}.
func (u *UserClient) Update(ctx context.Context, id string, req model.UpdateUserRequest) (model.User, error) {
	return sendJSON[model.User](ctx, u.c, http.MethodPut, usersPath+"/"+url.PathEscape(id), req)
}
