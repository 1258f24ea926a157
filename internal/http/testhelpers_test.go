package httpx

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"

	domainauth "github.com/carehaven/carehome-admin/internal/domain/auth"
	"github.com/carehaven/carehome-admin/internal/domain/model"
	apperrors "github.com/carehaven/carehome-admin/internal/errors"
	"github.com/carehaven/carehome-admin/internal/mocks"
	authmocks "github.com/carehaven/carehome-admin/internal/mocks/auth"
	"github.com/carehaven/carehome-admin/internal/pagination"
	"github.com/carehaven/carehome-admin/internal/ports"
	"github.com/carehaven/carehome-admin/internal/service"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testCSRFToken = "test-csrf-token"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testEnv is a fully wired router over in-memory sessions and stubbed backends.
type testEnv struct {
	handler   http.Handler
	sessions  *service.SessionService
	store     *authmocks.MemorySessionStore
	auth      *mocks.MockAuthBackend
	users     *mocks.MockUserBackend
	company   *stubCompany
	plans     *stubPlans
	residents *stubProfiles[model.Resident]
	dashboard *stubDashboard
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctrl := gomock.NewController(t)
	env := &testEnv{
		store:     authmocks.NewMemorySessionStore(),
		auth:      mocks.NewMockAuthBackend(ctrl),
		users:     mocks.NewMockUserBackend(ctrl),
		company:   &stubCompany{info: &model.CompanyInfo{ID: "c1", Name: "Carehaven Ltd"}},
		plans:     &stubPlans{},
		residents: &stubProfiles[model.Resident]{kind: model.ProfileResidents},
		dashboard: &stubDashboard{},
	}
	env.sessions = service.NewSessionService(service.SessionServiceOptions{
		Store:   env.store,
		Auth:    env.auth,
		Company: env.company,
		Logger:  discardLogger(),
	})
	authSvc := service.NewAuthService(service.AuthServiceOptions{
		Backend:  env.auth,
		Users:    env.users,
		Sessions: env.sessions,
	})

	h, err := NewRouter(RouterServices{
		Auth:       authSvc,
		Sessions:   env.sessions,
		Dashboard:  env.dashboard,
		Users:      env.users,
		Plans:      env.plans,
		Company:    env.company,
		Residents:  env.residents,
		Bounds:     pagination.DefaultBounds(),
		PageSizes:  []int{10, 25, 50},
		TemplateFS: os.DirFS(TemplatePathFromTest),
		Logger:     discardLogger(),
	})
	require.NoError(t, err)
	env.handler = h
	return env
}

// signIn persists an authenticated session for role and returns its cookie.
func (e *testEnv) signIn(t *testing.T, role domainauth.Role) *http.Cookie {
	t.Helper()
	id := "sess-" + string(role)
	_, err := e.sessions.SignIn(context.Background(), id, domainauth.Grant{
		Token:        "tok-" + id,
		RefreshToken: "ref-" + id,
		UserID:       "user-" + id,
		Email:        string(role) + "@carehaven.test",
		Role:         string(role),
	})
	require.NoError(t, err)
	return &http.Cookie{Name: SessionCookieName, Value: id}
}

func (e *testEnv) serve(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return e.serve(httptest.NewRequest(http.MethodGet, path, nil), cookies...)
}

// htmxGet issues a list-region refresh the way the pager links do.
func (e *testEnv) htmxGet(path, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := newHTMXRequest(http.MethodGet, path)
	if target != "" {
		req.Header.Set("Hx-Target", target)
	}
	return e.serve(req, cookies...)
}

func newHTMXRequest(method, path string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Hx-Request", "true")
	return req
}

func httptestRecorder(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

// postForm submits a url-encoded form carrying a valid CSRF token.
func (e *testEnv) postForm(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return e.serve(newFormRequest(path, form), cookies...)
}

func newFormRequest(path string, form url.Values) *http.Request {
	if form == nil {
		form = url.Values{}
	}
	form.Set(DefaultCSRFCookieName, testCSRFToken)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRFToken})
	return req
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

type stubDashboard struct {
	tiles []service.Tile
	err   error
}

func (s *stubDashboard) Tiles(context.Context, domainauth.Role) ([]service.Tile, error) {
	return s.tiles, s.err
}

// stubCompany holds at most one company profile and records every save.
type stubCompany struct {
	mu    sync.Mutex
	info  *model.CompanyInfo
	saves []companySave
	err   error
}

type companySave struct {
	id  string
	req model.CompanyInfoRequest
}

func (s *stubCompany) Get(context.Context) (model.CompanyInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.info == nil {
		return model.CompanyInfo{}, apperrors.NotFound("company info not found")
	}
	return *s.info, nil
}

func (s *stubCompany) Save(_ context.Context, id string, req model.CompanyInfoRequest) (model.CompanyInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return model.CompanyInfo{}, s.err
	}
	s.saves = append(s.saves, companySave{id: id, req: req})
	info := model.CompanyInfo{ID: id, Name: req.Name, Email: req.Email, Website: req.Website}
	if info.ID == "" {
		info.ID = "c-new"
	}
	s.info = &info
	return info, nil
}

// stubPlans records the scope of every call.
type stubPlans struct {
	mu      sync.Mutex
	scopes  []model.PlanScope
	page    pagination.Page[model.Plan]
	plan    model.Plan
	created []model.PlanRequest
	err     error
}

var _ ports.PlanBackend = (*stubPlans)(nil)

func (s *stubPlans) record(scope model.PlanScope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scopes = append(s.scopes, scope)
}

func (s *stubPlans) List(_ context.Context, scope model.PlanScope, _ pagination.Query) (pagination.Page[model.Plan], error) {
	s.record(scope)
	return s.page, s.err
}

func (s *stubPlans) Get(_ context.Context, scope model.PlanScope, _ string) (model.Plan, error) {
	s.record(scope)
	return s.plan, s.err
}

func (s *stubPlans) Create(_ context.Context, scope model.PlanScope, req model.PlanRequest) (model.Plan, error) {
	s.record(scope)
	s.mu.Lock()
	s.created = append(s.created, req)
	s.mu.Unlock()
	return s.plan, s.err
}

func (s *stubPlans) Update(_ context.Context, scope model.PlanScope, _ string, _ model.PlanRequest) (model.Plan, error) {
	s.record(scope)
	return s.plan, s.err
}

// stubProfiles serves a single record and keeps the last update.
type stubProfiles[T any] struct {
	kind    model.ProfileKind
	item    T
	page    pagination.Page[T]
	updates []model.ProfileUpdate
	err     error
}

func (s *stubProfiles[T]) Kind() model.ProfileKind { return s.kind }

func (s *stubProfiles[T]) List(context.Context, pagination.Query) (pagination.Page[T], error) {
	return s.page, s.err
}

func (s *stubProfiles[T]) Get(context.Context, string) (T, error) {
	return s.item, s.err
}

func (s *stubProfiles[T]) Update(_ context.Context, _ string, upd model.ProfileUpdate) (T, error) {
	s.updates = append(s.updates, upd)
	return s.item, s.err
}
