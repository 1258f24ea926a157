package config

import (
	"log/slog"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, vars map[string]string) (AppConfig, error) {
	t.Helper()
	var cfg AppConfig
	err := env.ParseWithOptions(&cfg, env.Options{Environment: vars})
	if err == nil {
		cfg.Sanitize()
	}
	return cfg, err
}

func TestAppConfig_Defaults(t *testing.T) {
	cfg, err := parse(t, map[string]string{"CLI_DIR": "/tmp/carehome"})
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "http://localhost:9091/api", cfg.Backend.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, AuthModePassword, cfg.Auth.Mode)
	assert.Equal(t, SessionStoreRedis, cfg.Session.Store)
	assert.Equal(t, 12*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "session:", cfg.Session.KeyPrefix)
	assert.Equal(t, 10, cfg.Pagination.DefaultLimit)
	assert.Equal(t, 1, cfg.Pagination.MinLimit)
	assert.Equal(t, 50, cfg.Pagination.MaxLimit)
	assert.Equal(t, []int{10, 25, 50}, cfg.Pagination.PageSizes)
	assert.Equal(t, slog.LevelInfo, cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "/tmp/carehome", cfg.CLI.Dir)
	assert.Equal(t, DefaultCLISessionKey, cfg.CLI.SessionKey)
	assert.Equal(t, []string{"openid", "profile", "email", "offline_access"}, cfg.Auth.OIDC.Scopes)
	assert.False(t, cfg.HTTP.SecureCookies())
	require.NoError(t, cfg.Validate())
}

func TestAppConfig_Overrides(t *testing.T) {
	cfg, err := parse(t, map[string]string{
		"BACKEND_BASE_URL":         "https://api.carehaven.test/api/",
		"BACKEND_TIMEOUT":          "5s",
		"SESSION_STORE":            "Memory",
		"PAGINATION_DEFAULT_LIMIT": "500",
		"PAGINATION_MAX_LIMIT":     "25",
		"LOG_LEVEL":                "debug",
		"LOG_FORMAT":               "TEXT",
		"LOG_FILE":                 " /var/log/carehome.log ",
		"APP_BASE_URL":             "https://admin.carehaven.test/",
		"HTTP_COMPRESSION_LEVEL":   "12",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://api.carehaven.test/api", cfg.Backend.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, SessionStoreMemory, cfg.Session.Store)
	assert.Equal(t, 25, cfg.Pagination.DefaultLimit, "default is clamped into bounds")
	assert.Equal(t, []int{10, 25}, cfg.Pagination.PageSizes, "sizes above the maximum are dropped")
	assert.Equal(t, slog.LevelDebug, cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "/var/log/carehome.log", cfg.Log.File)
	assert.Equal(t, 9, cfg.HTTP.CompressionLevel)
	assert.True(t, cfg.HTTP.SecureCookies())
}

func TestAppConfig_InvalidEnums(t *testing.T) {
	_, err := parse(t, map[string]string{"AUTH_MODE": "saml"})
	assert.ErrorContains(t, err, "invalid AuthMode")

	_, err = parse(t, map[string]string{"SESSION_STORE": "etcd"})
	assert.ErrorContains(t, err, "invalid SessionStoreKind")
}

func TestAuthConfig_Validate(t *testing.T) {
	cfg, err := parse(t, map[string]string{"AUTH_MODE": "oidc", "OIDC_CLIENT_ID": "dash"})
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OIDC_ISSUER")
	assert.Contains(t, err.Error(), "OIDC_CLIENT_SECRET")
	assert.NotContains(t, err.Error(), "OIDC_CLIENT_ID")

	cfg.Auth.OIDC.Issuer = "https://idp.example.com"
	cfg.Auth.OIDC.ClientSecret = "s"
	assert.NoError(t, cfg.Validate())
}

func TestBackendConfig_Validate(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"http://localhost:9091/api", false},
		{"https://api.example.com", false},
		{"localhost:9091", true},
		{"ftp://files.example.com", true},
		{"/api", true},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			b := BackendConfig{BaseURL: tt.url}
			if tt.wantErr {
				assert.Error(t, b.Validate())
			} else {
				assert.NoError(t, b.Validate())
			}
		})
	}
}

func TestPaginationConfig_Bounds(t *testing.T) {
	p := PaginationConfig{DefaultLimit: 0, MinLimit: 0, MaxLimit: 0}
	p.Sanitize()
	assert.Equal(t, 1, p.MinLimit)
	assert.Equal(t, 1, p.MaxLimit)
	assert.Equal(t, 1, p.DefaultLimit)
	assert.Equal(t, []int{1}, p.PageSizes)
}

func TestDetectDevMode(t *testing.T) {
	t.Setenv("NODE_ENV", "development")
	cfg, err := parse(t, map[string]string{})
	require.NoError(t, err)
	assert.True(t, cfg.IsDev)
}
