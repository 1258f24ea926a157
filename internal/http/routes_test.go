package httpx

import (
	"net/http"
	"net/url"
	"os"
	"testing"

	domainauth "github.com/carehaven/carehome-admin/internal/domain/auth"
	"github.com/carehaven/carehome-admin/internal/domain/model"
	"github.com/carehaven/carehome-admin/internal/pagination"
	"github.com/carehaven/carehome-admin/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRouter_RequiresServices(t *testing.T) {
	_, err := NewRouter(RouterServices{TemplateFS: os.DirFS(TemplatePathFromTest)})
	assert.Error(t, err)
}

func TestRouter_Healthz(t *testing.T) {
	env := newTestEnv(t)
	rec := env.get("/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, healthResponse, rec.Body.String())
}

func TestRouter_AnonymousIsSentToSignIn(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get("/users?page=2")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/signin?redirect_uri="+url.QueryEscape("/users?page=2"), rec.Header().Get("Location"))
}

func TestRouter_AnonymousHTMXGetsHXRedirect(t *testing.T) {
	env := newTestEnv(t)

	req := newHTMXRequest(http.MethodGet, "/users?page=3")
	req.Header.Set("Hx-Current-Url", "http://admin.carehaven.test/users?role=admin")
	rec := env.serve(req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "/auth/signin?redirect_uri="+url.QueryEscape("/users?role=admin"), rec.Header().Get("Hx-Redirect"))
}

func TestRouter_SignOutEndsAccess(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.signIn(t, domainauth.RoleAdmin)

	rec := env.get("/", cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.postForm("/auth/signout", nil, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/signed-out?redirect_uri=%2F", rec.Header().Get("Location"))
	cleared := cookieNamed(rec, SessionCookieName)
	require.NotNil(t, cleared)
	assert.Negative(t, cleared.MaxAge)
	assert.Equal(t, 0, env.store.Len())

	// The browser may still hold the old cookie; it no longer grants access.
	rec = env.get("/users", cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/signin?redirect_uri=%2Fusers", rec.Header().Get("Location"))
}

func TestRouter_RoleGuards(t *testing.T) {
	env := newTestEnv(t)
	admin := env.signIn(t, domainauth.RoleAdmin)
	super := env.signIn(t, domainauth.RoleSuperAdmin)

	tests := []struct {
		name   string
		path   string
		cookie *http.Cookie
		want   int
	}{
		{"admin cannot manage care homes", "/care-homes", admin, http.StatusForbidden},
		{"super admin cannot manage users", "/users", super, http.StatusForbidden},
		{"super admin cannot edit company", "/company", super, http.StatusForbidden},
		{"super admin cannot browse profiles", "/profiles/residents", super, http.StatusForbidden},
		{"both roles see plans", "/plans", super, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.get(tt.path, tt.cookie)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRouter_PlanScopeFollowsRole(t *testing.T) {
	env := newTestEnv(t)

	env.get("/plans", env.signIn(t, domainauth.RoleSuperAdmin))
	env.get("/plans", env.signIn(t, domainauth.RoleAdmin))

	assert.Equal(t, []model.PlanScope{model.PlanScopeSuper, model.PlanScopeAdmin}, env.plans.scopes)
}

func TestRouter_NotFound(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.signIn(t, domainauth.RoleAdmin)

	rec := env.get("/no-such-page", cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "does not exist")

	rec = env.get("/profiles/pharmacists", cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_UnknownProfileKindWithoutBackend(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.signIn(t, domainauth.RoleAdmin)

	// Caregivers are a known kind but no backend is configured in this router.
	rec := env.get("/profiles/caregivers", cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_PostWithoutCSRFTokenIsRejected(t *testing.T) {
	env := newTestEnv(t)

	req := newFormRequest("/auth/signin", url.Values{"email": {"a@b.co"}, "password": {"pw"}})
	req.Header.Del("Cookie")
	rec := env.serve(req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_DashboardTiles(t *testing.T) {
	env := newTestEnv(t)
	env.dashboard.tiles = []service.Tile{
		{Key: "users", Label: "Users", Href: "/users", Total: 1234},
		{Key: "plans", Label: "Plans", Href: "/plans", Err: assert.AnError},
	}

	rec := env.get("/", env.signIn(t, domainauth.RoleAdmin))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "1,234")
	assert.Contains(t, body, errMsgTileUnavailable)
	assert.Contains(t, body, "Carehaven Ltd", "company name is shown in the header")
}

func TestRouter_PartialNavigationCarriesTitle(t *testing.T) {
	env := newTestEnv(t)
	env.plans.page = pagination.Page[model.Plan]{Descriptor: pagination.Descriptor{CurrentPage: 1, Limit: 10}}

	rec := env.serve(newHTMXRequest(http.MethodGet, "/plans"), env.signIn(t, domainauth.RoleAdmin))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<title>Plans</title>")
	assert.Contains(t, body, `id="header-title"`)
	assert.NotContains(t, body, "<html", "boosted navigation returns only the content")
	assert.Contains(t, rec.Header().Get("Hx-Trigger"), "nav:activate")
}

func TestRouter_StaticAssets(t *testing.T) {
	rec := httptestRecorder(staticWithCacheHeaders(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})), "/static/js/app.0123abcd.js")
	assert.Equal(t, "public, max-age=31536000, immutable", rec.Header().Get("Cache-Control"))

	rec = httptestRecorder(staticWithCacheHeaders(http.NotFoundHandler()), "/static/js/app.js")
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
}
