package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domainauth "github.com/carehaven/carehome-admin/internal/domain/auth"
	apperrors "github.com/carehaven/carehome-admin/internal/errors"
	"github.com/carehaven/carehome-admin/internal/ports"
	"github.com/google/uuid"
)

// AuthServiceOptions groups dependencies for AuthService.
// Backend drives password sign-in; Provider and Roles drive OIDC sign-in. Either may be nil.
// Users resolves the role of a password sign-in whose response carries none.
type AuthServiceOptions struct {
	Backend  ports.AuthBackend
	Users    ports.UserBackend
	Provider ports.AuthProvider
	Roles    ports.RoleMapper
	Sessions *SessionService
}

// AuthService orchestrates sign-in and sign-out on top of the SessionService.
type AuthService struct {
	backend  ports.AuthBackend
	users    ports.UserBackend
	provider ports.AuthProvider
	roles    ports.RoleMapper
	sessions *SessionService
}

var errProviderDisabled = errors.New("single sign-on is not configured")

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	return &AuthService{
		backend:  opts.Backend,
		users:    opts.Users,
		provider: opts.Provider,
		roles:    opts.Roles,
		sessions: opts.Sessions,
	}
}

// Sessions exposes the underlying session service.
func (s *AuthService) Sessions() *SessionService { return s.sessions }

// SSOEnabled reports whether an identity provider is configured.
func (s *AuthService) SSOEnabled() bool { return s.provider != nil }

// SignIn exchanges credentials for a backend grant and stores it under a fresh session id.
// The previous session, if any, is discarded.
func (s *AuthService) SignIn(ctx context.Context, previousID string, creds domainauth.Credentials) (domainauth.Session, error) {
	grant, err := s.authenticate(ctx, creds)
	if err != nil {
		return domainauth.Session{}, err
	}
	return s.establish(ctx, previousID, grant)
}

// SignInAs exchanges credentials and stores the grant under id, replacing whatever
// was stored there. The CLI uses it to keep one session under a named key.
func (s *AuthService) SignInAs(ctx context.Context, id string, creds domainauth.Credentials) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, errors.New("session id is required")
	}
	grant, err := s.authenticate(ctx, creds)
	if err != nil {
		return domainauth.Session{}, err
	}
	return s.persist(ctx, id, grant)
}

func (s *AuthService) authenticate(ctx context.Context, creds domainauth.Credentials) (domainauth.Grant, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" {
		return domainauth.Grant{}, apperrors.ValidationField("email", "email is required")
	}
	if creds.Password == "" {
		return domainauth.Grant{}, apperrors.ValidationField("password", "password is required")
	}

	grant, err := s.backend.Login(ctx, creds)
	if err != nil {
		return domainauth.Grant{}, err
	}
	if grant.Token == "" || grant.UserID == "" {
		return domainauth.Grant{}, apperrors.Unauthorized("sign-in response carried no credentials")
	}
	if grant.Email == "" {
		grant.Email = creds.Email
	}
	return grant, nil
}

// BeginLoginResult contains the result of beginning a login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin initiates an authentication flow and returns the provider auth URL with state and nonce.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if s.provider == nil {
		return nil, errProviderDisabled
	}
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}
	return &BeginLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteLoginInput groups parameters for completing a login flow.
type CompleteLoginInput struct {
	PreviousSessionID string
	Code              string
	State             string
	Nonce             string
}

// CompleteLogin exchanges the authorization code for an identity, maps its role,
// and stores the IdP access token as the session bearer.
func (s *AuthService) CompleteLogin(ctx context.Context, input CompleteLoginInput) (domainauth.Session, error) {
	if s.provider == nil {
		return domainauth.Session{}, errProviderDisabled
	}
	switch {
	case input.Code == "":
		return domainauth.Session{}, errors.New("authorization code is required")
	case input.State == "":
		return domainauth.Session{}, errors.New("state parameter is required")
	case input.Nonce == "":
		return domainauth.Session{}, errors.New("nonce parameter is required")
	}

	identity, err := s.provider.Exchange(ctx, ports.ExchangeInput{
		Code:  input.Code,
		State: input.State,
		Nonce: input.Nonce,
	})
	if err != nil {
		return domainauth.Session{}, fmt.Errorf("exchange authorization code: %w", err)
	}
	if identity.AccessToken == "" || identity.UserID == "" {
		return domainauth.Session{}, apperrors.Unauthorized("identity provider returned no access token")
	}

	role := domainauth.RoleGuest
	if s.roles != nil {
		role = s.roles.Map(identity.Groups)
	}
	return s.establish(ctx, input.PreviousSessionID, domainauth.Grant{
		Token:        identity.AccessToken,
		RefreshToken: identity.RefreshToken,
		UserID:       identity.UserID,
		Email:        identity.Email,
		Role:         string(role),
	})
}

// Logout signs the session out and removes it.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Clear(ctx, sessionID)
}

func (s *AuthService) establish(ctx context.Context, previousID string, grant domainauth.Grant) (domainauth.Session, error) {
	if previousID != "" {
		if err := s.sessions.Clear(ctx, previousID); err != nil {
			return domainauth.Session{}, err
		}
	}
	return s.persist(ctx, NewSessionID(), grant)
}

// persist stores grant under id. A grant without a role is stored first so the
// role lookup can authenticate with the new token; if no dashboard role is found
// the session is cleared again and the sign-in fails.
func (s *AuthService) persist(ctx context.Context, id string, grant domainauth.Grant) (domainauth.Session, error) {
	sess, err := s.sessions.SignIn(ctx, id, grant)
	if err != nil || grant.Role != "" {
		return sess, err
	}

	role, err := s.lookupRole(ContextWithSessionID(ctx, id), grant.UserID)
	if err != nil {
		if cerr := s.sessions.Clear(ctx, id); cerr != nil {
			err = errors.Join(err, cerr)
		}
		return domainauth.Session{}, err
	}
	grant.Role = string(role)
	return s.sessions.SignIn(ctx, id, grant)
}

// lookupRole reads the signed-in user's account with GET /admin/user?id=.
func (s *AuthService) lookupRole(ctx context.Context, userID string) (domainauth.Role, error) {
	if s.users == nil {
		return "", apperrors.Forbidden("sign-in response carried no role")
	}
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("look up role of user %s: %w", userID, err)
	}
	role := domainauth.ParseRole(string(user.Role))
	if role == domainauth.RoleGuest {
		return "", apperrors.Forbidden("This account has no access to the admin dashboard.")
	}
	return role, nil
}

// NewSessionID returns a random, URL-safe session identifier.
func NewSessionID() string {
	return uuid.NewString()
}
