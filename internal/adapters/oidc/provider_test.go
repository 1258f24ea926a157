package oidc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/carehaven/carehome-admin/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func discoveryServer(t *testing.T) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != wellKnownSuffix {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(DiscoveryDocument{
			Issuer:                srv.URL,
			AuthorizationEndpoint: "https://idp.example.com/authorize",
			TokenEndpoint:         srv.URL + "/token",
			UserinfoEndpoint:      srv.URL + "/userinfo",
			JwksURI:               srv.URL + "/jwks",
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestProvider(t *testing.T, issuer string) *Provider {
	t.Helper()
	p, err := NewProvider(context.Background(), ProviderConfig{
		Issuer:       issuer,
		ClientID:     "carehome-admin",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost:8080/auth/callback",
	})
	require.NoError(t, err)
	return p
}

func TestNewProvider_Discovery(t *testing.T) {
	srv := discoveryServer(t)

	p := newTestProvider(t, srv.URL+wellKnownSuffix)
	assert.Equal(t, "https://idp.example.com/authorize", p.oauth.Endpoint.AuthURL)
	assert.Equal(t, srv.URL+"/token", p.oauth.Endpoint.TokenURL)
	assert.Contains(t, p.oauth.Scopes, "openid")
	assert.Contains(t, p.oauth.Scopes, "offline_access")
}

func TestNewProvider_ValidationErrors(t *testing.T) {
	base := ProviderConfig{
		Issuer:       "http://idp.example.com",
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost/callback",
	}
	tests := []struct {
		name   string
		mutate func(*ProviderConfig)
		errMsg string
	}{
		{"missing client ID", func(c *ProviderConfig) { c.ClientID = "" }, "client ID is required"},
		{"missing client secret", func(c *ProviderConfig) { c.ClientSecret = "" }, "client secret is required"},
		{"missing redirect URL", func(c *ProviderConfig) { c.RedirectURL = "" }, "redirect URL is required"},
		{"missing issuer", func(c *ProviderConfig) { c.Issuer = "" }, "issuer is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			_, err := NewProvider(context.Background(), cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestProvider_Begin(t *testing.T) {
	p := newTestProvider(t, discoveryServer(t).URL)

	authURL, state, nonce, err := p.Begin(context.Background(), ports.BeginInput{RedirectURL: "/"})
	require.NoError(t, err)
	assert.Len(t, state, 32)
	assert.Len(t, nonce, 32)

	u, err := url.Parse(authURL)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "carehome-admin", q.Get("client_id"))
	assert.Equal(t, state, q.Get("state"))
	assert.Equal(t, nonce, q.Get("nonce"))
	assert.Equal(t, "offline", q.Get("access_type"))

	_, _, _, err = p.Begin(context.Background(), ports.BeginInput{})
	require.Error(t, err)
}

func TestProvider_Exchange_ValidationErrors(t *testing.T) {
	p := newTestProvider(t, discoveryServer(t).URL)

	tests := []struct {
		name   string
		input  ports.ExchangeInput
		errMsg string
	}{
		{"missing code", ports.ExchangeInput{State: "s", Nonce: "n"}, "authorization code is required"},
		{"missing state", ports.ExchangeInput{Code: "c", Nonce: "n"}, "state is required"},
		{"missing nonce", ports.ExchangeInput{Code: "c", State: "s"}, "nonce is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Exchange(context.Background(), tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestProvider_Exchange_TokenEndpointFailure(t *testing.T) {
	p := newTestProvider(t, discoveryServer(t).URL)

	_, err := p.Exchange(context.Background(), ports.ExchangeInput{Code: "c", State: "s", Nonce: "n"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exchange code for token")
}

func TestIDToken(t *testing.T) {
	raw, err := idToken((&oauth2.Token{}).WithExtra(map[string]any{"id_token": "a.b.c"}))
	require.NoError(t, err)
	assert.Equal(t, "a.b.c", raw)

	_, err = idToken((&oauth2.Token{}).WithExtra(map[string]any{"other": "x"}))
	assert.ErrorContains(t, err, "missing id_token")

	_, err = idToken(nil)
	assert.ErrorContains(t, err, "nil token")
}

func TestIdentityFrom(t *testing.T) {
	exp := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tok := &oauth2.Token{AccessToken: "at", RefreshToken: "rt", Expiry: exp}

	id := identityFrom(claims{
		Subject:           "sub-1",
		PreferredUsername: "ops@carehaven.test",
		Roles:             []string{"carehome-admins"},
	}, tok)

	assert.Equal(t, "sub-1", id.UserID)
	assert.Equal(t, "ops@carehaven.test", id.Email)
	assert.Equal(t, []string{"carehome-admins"}, id.Groups)
	assert.Equal(t, "at", id.AccessToken)
	assert.Equal(t, "rt", id.RefreshToken)
	assert.Equal(t, exp, id.ExpiresAt)

	noExpiry := identityFrom(claims{Subject: "s"}, &oauth2.Token{AccessToken: "at"})
	assert.WithinDuration(t, time.Now().Add(time.Hour), noExpiry.ExpiresAt, time.Minute)
}

func TestMergeClaims(t *testing.T) {
	c := claims{Subject: "s", Email: "keep@example.com"}
	mergeClaims(&c, claims{Email: "other@example.com", Groups: []string{"g"}})
	assert.Equal(t, "keep@example.com", c.Email)
	assert.Equal(t, []string{"g"}, c.Groups)
}

func TestRandomToken(t *testing.T) {
	a, err := randomToken(16)
	require.NoError(t, err)
	b, err := randomToken(16)
	require.NoError(t, err)
	assert.Len(t, a, 16)
	assert.NotEqual(t, a, b)
}
