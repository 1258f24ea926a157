package httpx

import (
	"context"

	domainauth "github.com/carehaven/carehome-admin/internal/domain/auth"
)

type sessionKey struct{}

// SetSessionInContext returns a child context that carries the given session.
// If session is nil, the original ctx is returned unchanged.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetSessionFromContext returns the session loaded for this request, or nil.
func GetSessionFromContext(ctx context.Context) *domainauth.Session {
	if s, ok := ctx.Value(sessionKey{}).(*domainauth.Session); ok {
		return s
	}
	return nil
}

// IsSignedIn reports whether the request carries an authenticated session.
func IsSignedIn(ctx context.Context) bool {
	s := GetSessionFromContext(ctx)
	return s != nil && s.IsAuthenticated()
}

// sessionIDFrom returns the id of the loaded session, or "".
func sessionIDFrom(ctx context.Context) string {
	if s := GetSessionFromContext(ctx); s != nil {
		return s.ID
	}
	return ""
}
