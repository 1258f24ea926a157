package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	domainauth "github.com/carehaven/carehome-admin/internal/domain/auth"
	"github.com/carehaven/carehome-admin/internal/domain/model"
	apperrors "github.com/carehaven/carehome-admin/internal/errors"
	obserrors "github.com/carehaven/carehome-admin/internal/observability/errors"
	"github.com/carehaven/carehome-admin/internal/ports"
)

// DefaultSessionTTL bounds how long a persisted session lives without a new write.
const DefaultSessionTTL = 12 * time.Hour

// ErrAnonymous is returned by operations that need a signed-in user.
var ErrAnonymous = apperrors.Unauthorized("no signed-in user")

type sessionIDKey struct{}

// ContextWithSessionID returns a context carrying the session id used to resolve the bearer token.
func ContextWithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, id)
}

// SessionIDFromContext returns the session id stored by ContextWithSessionID.
func SessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey{}).(string)
	return id
}

// SessionConfig tunes session persistence.
type SessionConfig struct {
	TTL time.Duration    // defaults to DefaultSessionTTL
	Now func() time.Time // defaults to time.Now
}

// SessionServiceOptions groups dependencies for SessionService.
type SessionServiceOptions struct {
	Store   ports.SessionStore   // Required: persisted session records
	Auth    ports.AuthBackend    // Required for FetchAuthData and UpdateAuthData
	Company ports.CompanyBackend // Required for FetchCompanyData
	Config  SessionConfig        // Optional: TTL and clock
	Logger  *slog.Logger         // Optional: structured logger
}

// SessionService is the single writer of persisted sessions.
// Every credential change goes through SetAuthData so token and user id move together.
type SessionService struct {
	store   ports.SessionStore
	auth    ports.AuthBackend
	company ports.CompanyBackend
	ttl     time.Duration
	logger  *slog.Logger
	now     func() time.Time

	mu sync.Mutex
}

// NewSessionService constructs a SessionService.
func NewSessionService(opts SessionServiceOptions) *SessionService {
	if opts.Store == nil {
		panic("SessionStore is required")
	}
	ttl := opts.Config.TTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Config.Now
	if now == nil {
		now = time.Now
	}
	return &SessionService{
		store:   opts.Store,
		auth:    opts.Auth,
		company: opts.Company,
		ttl:     ttl,
		logger:  logger.With("component", "session"),
		now:     now,
	}
}

// Get returns the session for id. A missing or expired record yields an anonymous session.
func (s *SessionService) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, nil
	}
	sess, err := s.store.Get(ctx, id)
	if errors.Is(err, ports.ErrSessionNotFound) {
		return domainauth.Session{ID: id}, nil
	}
	if err != nil {
		return domainauth.Session{ID: id}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "load session")
	}
	return sess, nil
}

// State reports whether id currently holds a bearer token.
func (s *SessionService) State(ctx context.Context, id string) (domainauth.State, error) {
	sess, err := s.Get(ctx, id)
	return sess.State(), err
}

// Token resolves the bearer token for the session id carried by ctx.
// It is read at request time so every outgoing call sees the latest credentials.
func (s *SessionService) Token(ctx context.Context) string {
	id := SessionIDFromContext(ctx)
	if id == "" {
		return ""
	}
	sess, err := s.Get(ctx, id)
	if err != nil {
		s.logFailure(ctx, "resolve token", id, err)
		return ""
	}
	return sess.Token
}

// SetAuthData replaces the credential triple as one unit and persists the result.
// Empty strings sign the session out.
func (s *SessionService) SetAuthData(ctx context.Context, id string, data domainauth.AuthData) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, apperrors.Validation("session id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.Get(ctx, id)
	if err != nil {
		return cur, err
	}
	return s.save(ctx, cur.WithAuthData(data))
}

// SignIn stores a backend grant, including the profile fields it carries.
func (s *SessionService) SignIn(ctx context.Context, id string, g domainauth.Grant) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, apperrors.Validation("session id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.Get(ctx, id)
	if err != nil {
		return cur, err
	}
	return s.save(ctx, applyGrant(cur, g))
}

// Clear signs the session out and removes its persisted record.
func (s *SessionService) Clear(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, id); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "delete session")
	}
	return nil
}

// FetchAuthData reloads the credential fields from the backend session endpoint.
// On failure the stored session is left untouched and the error is logged and returned.
func (s *SessionService) FetchAuthData(ctx context.Context, id string) (domainauth.Session, error) {
	cur, err := s.Get(ctx, id)
	if err != nil {
		return cur, err
	}
	g, err := s.auth.Session(ctx, cur.RefreshToken)
	if err != nil {
		s.logFailure(ctx, "fetch auth data", id, err)
		return cur, err
	}
	return s.replace(ctx, id, g)
}

// UpdateAuthData sends a partial update and replaces local fields with the backend's full response.
// On failure the stored session is left untouched and the error is logged and returned.
func (s *SessionService) UpdateAuthData(ctx context.Context, id string, partial map[string]any) (domainauth.Session, error) {
	cur, err := s.Get(ctx, id)
	if err != nil {
		return cur, err
	}
	if len(partial) == 0 {
		return cur, apperrors.Validation("nothing to update")
	}
	g, err := s.auth.UpdateSession(ContextWithSessionID(ctx, id), partial)
	if err != nil {
		s.logFailure(ctx, "update auth data", id, err)
		return cur, err
	}
	return s.replace(ctx, id, g)
}

// FetchCompanyData loads the operator's company profile and caches it on the session.
// It requires both a token and a user id.
func (s *SessionService) FetchCompanyData(ctx context.Context, id string) (*model.CompanyInfo, error) {
	cur, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !cur.HasIdentity() {
		return nil, ErrAnonymous
	}
	info, err := s.company.Get(ContextWithSessionID(ctx, id))
	if err != nil {
		s.logFailure(ctx, "fetch company data", id, err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	latest, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	// A sign-out while the request was in flight wins.
	if latest.UserID != cur.UserID {
		return &info, nil
	}
	latest.CompanyData = &info
	if _, err := s.save(ctx, latest); err != nil {
		return &info, err
	}
	return &info, nil
}

// CompanyData returns the cached company profile, fetching it on first use.
func (s *SessionService) CompanyData(ctx context.Context, id string) (*model.CompanyInfo, error) {
	cur, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if cur.CompanyData != nil {
		return cur.CompanyData, nil
	}
	return s.FetchCompanyData(ctx, id)
}

func (s *SessionService) replace(ctx context.Context, id string, g domainauth.Grant) (domainauth.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, err := s.Get(ctx, id)
	if err != nil {
		return cur, err
	}
	return s.save(ctx, applyGrant(cur, g))
}

func (s *SessionService) save(ctx context.Context, sess domainauth.Session) (domainauth.Session, error) {
	sess.ExpiresAt = s.now().Add(s.ttl)
	if err := s.store.Save(ctx, sess); err != nil {
		s.logFailure(ctx, "persist session", sess.ID, err)
		return sess, apperrors.Wrap(err, apperrors.ErrCodeInternal, "save session")
	}
	return sess, nil
}

func (s *SessionService) logFailure(ctx context.Context, op, id string, err error) {
	s.logger.WarnContext(ctx, fmt.Sprintf("%s failed", op),
		slog.String("session_id", redactID(id)),
		slog.String("error_kind", obserrors.Classify(err)),
		slog.Any("error", err),
	)
}

func applyGrant(cur domainauth.Session, g domainauth.Grant) domainauth.Session {
	next := cur.WithAuthData(g.AuthData())
	if !next.HasIdentity() {
		return next
	}
	if g.Email != "" {
		next.Email = g.Email
	}
	if g.Role != "" {
		next.Role = domainauth.ParseRole(g.Role)
	}
	if cur.UserID != next.UserID {
		next.CompanyData = nil
	}
	return next
}

// redactID keeps enough of a session id to correlate log lines.
func redactID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8] + "…"
}
