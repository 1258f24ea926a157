package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/carehaven/carehome-admin/config"
	"github.com/carehaven/carehome-admin/internal/adapters/filestore"
	redisadapter "github.com/carehaven/carehome-admin/internal/adapters/redis"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.AppConfig {
	cfg := &config.AppConfig{
		Auth:    config.AuthConfig{Mode: config.AuthModePassword},
		Backend: config.BackendConfig{BaseURL: "http://backend.test/api", Timeout: time.Second},
		Session: config.SessionConfig{Store: config.SessionStoreMemory, TTL: time.Hour},
		Pagination: config.PaginationConfig{
			DefaultLimit: 10, MinLimit: 1, MaxLimit: 50, PageSizes: []int{10, 25, 50},
		},
		HTTP: config.HTTPConfig{BaseURL: "https://admin.carehaven.test", CompressionEnabled: true, CompressionLevel: 5},
	}
	return cfg
}

func TestBuildSessionStore(t *testing.T) {
	store, err := BuildSessionStore(SessionStoreDeps{Session: config.SessionConfig{Store: config.SessionStoreMemory}, Logger: discardLogger()})
	require.NoError(t, err)
	assert.IsType(t, &filestore.SessionStore{}, store)

	_, err = BuildSessionStore(SessionStoreDeps{Session: config.SessionConfig{Store: config.SessionStoreRedis}})
	assert.ErrorContains(t, err, "requires a redis client")

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	t.Cleanup(func() { _ = client.Close() })
	store, err = BuildSessionStore(SessionStoreDeps{Session: config.SessionConfig{Store: config.SessionStoreRedis, KeyPrefix: "s:"}, RedisClient: client})
	require.NoError(t, err)
	assert.IsType(t, &redisadapter.SessionStore{}, store)

	_, err = BuildSessionStore(SessionStoreDeps{Session: config.SessionConfig{Store: "etcd"}})
	assert.Error(t, err)
}

func TestBuildBackends_RejectsBadBaseURL(t *testing.T) {
	_, err := BuildBackends(BackendDeps{Config: config.BackendConfig{BaseURL: "://nope"}})
	assert.Error(t, err)
}

func TestInitializeServices(t *testing.T) {
	cfg := testConfig()
	svc, err := InitializeServices(context.Background(), ServiceDeps{Config: cfg, Logger: discardLogger()})
	require.NoError(t, err)

	assert.NotNil(t, svc.Sessions)
	assert.NotNil(t, svc.Auth)
	assert.NotNil(t, svc.Dashboard)
	assert.NotNil(t, svc.Backends.InterviewCandidates)
	assert.False(t, svc.Auth.SSOEnabled())

	rs := routerServices(cfg, svc, discardLogger())
	assert.True(t, rs.Cookies.Secure)
	assert.Empty(t, rs.CallbackURL, "no callback without single sign-on")
	assert.Equal(t, 10, rs.Bounds.Default)
	assert.Equal(t, []int{10, 25, 50}, rs.PageSizes)
}

func TestBuildHTTPHandler(t *testing.T) {
	cfg := testConfig()
	svc, err := InitializeServices(context.Background(), ServiceDeps{Config: cfg, Logger: discardLogger()})
	require.NoError(t, err)

	h, err := buildHTTPHandler(httpHandlerConfig{
		Logger:   discardLogger(),
		Services: routerServices(cfg, svc, discardLogger()),
		HTTP:     cfg.HTTP,
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code, "resource pages require sign-in")
}

func TestBuildHTTPHandler_RequiresServices(t *testing.T) {
	_, err := buildHTTPHandler(httpHandlerConfig{Logger: discardLogger()})
	assert.Error(t, err)
}

func TestStartHTTPServer_NilConfig(t *testing.T) {
	srv, err := StartHTTPServer(nil)
	assert.Nil(t, srv)
	assert.Error(t, err)
}

func TestShutdownHTTPServer(t *testing.T) {
	assert.NoError(t, ShutdownHTTPServer(ShutdownConfig{}))

	srv := &http.Server{Addr: "127.0.0.1:0", ReadHeaderTimeout: time.Second}
	assert.NoError(t, ShutdownHTTPServer(ShutdownConfig{Server: srv, Timeout: time.Second, Logger: discardLogger()}))
}
