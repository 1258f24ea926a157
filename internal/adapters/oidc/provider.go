// Package oidc signs operators in through an OpenID Connect identity provider.
// The IdP access token becomes the bearer the dashboard forwards to the backend.
package oidc

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	domainauth "github.com/carehaven/carehome-admin/internal/domain/auth"
	"github.com/carehaven/carehome-admin/internal/ports"
	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

const wellKnownSuffix = "/.well-known/openid-configuration"

// Provider implements ports.AuthProvider with the authorization code flow.
type Provider struct {
	oauth    *oauth2.Config
	verifier *gooidc.IDTokenVerifier
	op       *gooidc.Provider
	client   *http.Client
}

// ProviderConfig holds configuration for the OIDC provider.
type ProviderConfig struct {
	Issuer       string // issuer URL; a trailing discovery path is tolerated
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	HTTPClient   *http.Client // optional
}

// DiscoveryDocument is the subset of the discovery document the provider reads.
type DiscoveryDocument struct {
	Issuer                string `json:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	UserinfoEndpoint      string `json:"userinfo_endpoint"`
	JwksURI               string `json:"jwks_uri"`
}

// NewProvider performs discovery and builds the OAuth2 configuration.
func NewProvider(ctx context.Context, cfg ProviderConfig) (*Provider, error) {
	switch {
	case cfg.ClientID == "":
		return nil, errors.New("client ID is required")
	case cfg.ClientSecret == "":
		return nil, errors.New("client secret is required")
	case cfg.RedirectURL == "":
		return nil, errors.New("redirect URL is required")
	case cfg.Issuer == "":
		return nil, errors.New("issuer is required")
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	ctx = gooidc.ClientContext(ctx, client)

	issuer := strings.TrimSuffix(strings.TrimSuffix(cfg.Issuer, "/"), wellKnownSuffix)
	op, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery: %w", err)
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{gooidc.ScopeOpenID, "profile", "email", gooidc.ScopeOfflineAccess}
	}

	return &Provider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint:     op.Endpoint(),
		},
		verifier: op.Verifier(&gooidc.Config{ClientID: cfg.ClientID}),
		op:       op,
		client:   client,
	}, nil
}

// Begin returns the IdP authorization URL plus the state and nonce the caller must remember.
func (p *Provider) Begin(_ context.Context, in ports.BeginInput) (string, string, string, error) {
	if in.RedirectURL == "" {
		return "", "", "", errors.New("redirect URL is required")
	}
	state, err := randomToken(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomToken(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}
	return p.oauth.AuthCodeURL(state, gooidc.Nonce(nonce), oauth2.AccessTypeOffline), state, nonce, nil
}

// Exchange trades the authorization code for tokens and maps the claims to an Identity.
func (p *Provider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	switch {
	case in.Code == "":
		return domainauth.Identity{}, errors.New("authorization code is required")
	case in.State == "":
		return domainauth.Identity{}, errors.New("state is required")
	case in.Nonce == "":
		return domainauth.Identity{}, errors.New("nonce is required")
	}

	ctx = gooidc.ClientContext(ctx, p.client)
	tok, err := p.oauth.Exchange(ctx, in.Code)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("exchange code for token: %w", err)
	}

	c, err := p.verifiedClaims(ctx, tok, in.Nonce)
	if err != nil {
		return domainauth.Identity{}, err
	}
	if c.Email == "" || len(c.groups()) == 0 {
		p.mergeUserInfo(ctx, tok, &c)
	}

	return identityFrom(c, tok), nil
}

type claims struct {
	Subject           string   `json:"sub"`
	Email             string   `json:"email"`
	PreferredUsername string   `json:"preferred_username"`
	Groups            []string `json:"groups"`
	Roles             []string `json:"roles"`
	Nonce             string   `json:"nonce"`
}

func (c claims) groups() []string {
	if len(c.Groups) > 0 {
		return c.Groups
	}
	return c.Roles
}

func (p *Provider) verifiedClaims(ctx context.Context, tok *oauth2.Token, nonce string) (claims, error) {
	var c claims
	raw, err := idToken(tok)
	if err != nil {
		return c, err
	}
	idt, err := p.verifier.Verify(ctx, raw)
	if err != nil {
		return c, fmt.Errorf("verify id_token: %w", err)
	}
	if err := idt.Claims(&c); err != nil {
		return c, fmt.Errorf("parse id_token claims: %w", err)
	}
	if c.Nonce != nonce {
		return c, errors.New("invalid nonce")
	}
	return c, nil
}

// mergeUserInfo fills gaps from the userinfo endpoint. Failures leave the id_token claims as-is.
func (p *Provider) mergeUserInfo(ctx context.Context, tok *oauth2.Token, c *claims) {
	ui, err := p.op.UserInfo(ctx, oauth2.StaticTokenSource(tok))
	if err != nil {
		return
	}
	var extra claims
	if err := ui.Claims(&extra); err != nil {
		return
	}
	mergeClaims(c, extra)
}

func mergeClaims(dst *claims, src claims) {
	if dst.Email == "" {
		dst.Email = src.Email
	}
	if dst.PreferredUsername == "" {
		dst.PreferredUsername = src.PreferredUsername
	}
	if len(dst.groups()) == 0 {
		dst.Groups = slices.Clone(src.groups())
	}
}

func identityFrom(c claims, tok *oauth2.Token) domainauth.Identity {
	expires := tok.Expiry
	if expires.IsZero() {
		expires = time.Now().Add(time.Hour)
	}
	email := c.Email
	if email == "" && strings.Contains(c.PreferredUsername, "@") {
		email = c.PreferredUsername
	}
	return domainauth.Identity{
		UserID:       c.Subject,
		Email:        email,
		Groups:       c.groups(),
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    expires,
	}
}

func idToken(tok *oauth2.Token) (string, error) {
	if tok == nil {
		return "", errors.New("nil token")
	}
	s, ok := tok.Extra("id_token").(string)
	if !ok || s == "" {
		return "", errors.New("missing id_token in token response")
	}
	return s, nil
}

// randomToken returns a URL-safe string of exactly n characters.
func randomToken(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b)[:n], nil
}
