package httpx

import (
	"context"
	"testing"

	domainauth "github.com/carehaven/carehome-admin/internal/domain/auth"
	"github.com/stretchr/testify/assert"
)

func TestGetSessionFromContext(t *testing.T) {
	assert.Nil(t, GetSessionFromContext(context.Background()))
	assert.Equal(t, context.Background(), SetSessionInContext(context.Background(), nil))

	sess := &domainauth.Session{ID: "abc", Token: "t", UserID: "u", Role: domainauth.RoleAdmin}
	ctx := SetSessionInContext(context.Background(), sess)
	assert.Same(t, sess, GetSessionFromContext(ctx))
	assert.Equal(t, "abc", sessionIDFrom(ctx))
}

func TestIsSignedIn(t *testing.T) {
	assert.False(t, IsSignedIn(context.Background()))

	anonymous := &domainauth.Session{ID: "a"}
	assert.False(t, IsSignedIn(SetSessionInContext(context.Background(), anonymous)))
	assert.Equal(t, "a", sessionIDFrom(SetSessionInContext(context.Background(), anonymous)))

	signedIn := &domainauth.Session{ID: "b", Token: "t", UserID: "u", Role: domainauth.RoleSuperAdmin}
	assert.True(t, IsSignedIn(SetSessionInContext(context.Background(), signedIn)))
}
