package backend

import (
	"context"
	"net/http"

	domainauth "github.com/carehaven/carehome-admin/internal/domain/auth"
)

const (
	loginPath   = "/auth/login"
	sessionPath = "/auth/session"
)

// AuthClient talks to the backend auth endpoints.
type AuthClient struct {
	c *Client
}

// NewAuthClient constructs an AuthClient.
func NewAuthClient(c *Client) *AuthClient { return &AuthClient{c: c} }

// Login exchanges credentials for a token.
func (a *AuthClient) Login(ctx context.Context, creds domainauth.Credentials) (domainauth.Grant, error) {
	return sendJSON[domainauth.Grant](Anonymous(ctx), a.c, http.MethodPost, loginPath, creds)
}

// RefreshTokenHeader identifies the session on unauthenticated session reads.
const RefreshTokenHeader = "X-Refresh-Token"

// Session reads the server-side view of the current session. The request is sent
// without a bearer token; the backend identifies the session by the refresh token
// header (or its own cookie, for clients with a jar).
func (a *AuthClient) Session(ctx context.Context, refreshToken string) (domainauth.Grant, error) {
	req := Request{Method: http.MethodGet, Path: sessionPath}
	if refreshToken != "" {
		req.Header = http.Header{RefreshTokenHeader: {refreshToken}}
	}
	resp, err := a.c.Do(Anonymous(ctx), req)
	if err != nil {
		return domainauth.Grant{}, err
	}
	return decodeData[domainauth.Grant](resp, "GET "+sessionPath)
}

// UpdateSession sends a partial update and returns the full session as stored by the server.
func (a *AuthClient) UpdateSession(ctx context.Context, partial map[string]any) (domainauth.Grant, error) {
	return sendJSON[domainauth.Grant](ctx, a.c, http.MethodPut, sessionPath, partial)
}
