package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/carehaven/carehome-admin/internal/domain/auth"
	"github.com/carehaven/carehome-admin/internal/ports"
)

func TestMockAuthProvider_Begin_Defaults(t *testing.T) {
	provider := NewMockAuthProvider()
	ctx := context.Background()
	input := ports.BeginInput{RedirectURL: "http://localhost:8080/auth/callback"}

	authURL, state, nonce, err := provider.Begin(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "https://mock-idp/auth", authURL)
	assert.Equal(t, "state-1", state)
	assert.Equal(t, "nonce-1", nonce)

	_, state2, nonce2, err := provider.Begin(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "state-2", state2)
	assert.Equal(t, "nonce-2", nonce2)
}

func TestMockAuthProvider_Exchange(t *testing.T) {
	provider := NewMockAuthProvider()
	id, err := provider.Exchange(context.Background(), ports.ExchangeInput{Code: "c"})
	require.NoError(t, err)
	assert.Equal(t, "mock-access-token", id.AccessToken)
	assert.False(t, id.ExpiresAt.IsZero())

	provider.ExchangeFunc = func(context.Context, ports.ExchangeInput) (domainauth.Identity, error) {
		return domainauth.Identity{}, errors.New("denied")
	}
	_, err = provider.Exchange(context.Background(), ports.ExchangeInput{})
	assert.EqualError(t, err, "denied")
}

func TestMemorySessionStore(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	require.Error(t, store.Save(ctx, domainauth.Session{}))
	require.NoError(t, store.Save(ctx, domainauth.Session{ID: "s1", Token: "t"}))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "t", got.Token)
	assert.Equal(t, 1, store.Len())

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)

	store.SaveErr = errors.New("disk full")
	assert.EqualError(t, store.Save(ctx, domainauth.Session{ID: "s2"}), "disk full")
}
