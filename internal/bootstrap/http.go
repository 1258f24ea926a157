package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/carehaven/carehome-admin/config"
	httpx "github.com/carehaven/carehome-admin/internal/http"
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// StartHTTPServer creates and starts the HTTP server.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) (*http.Server, error) {
	if cfg == nil {
		return nil, errors.New("http server config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	handler, err := buildHTTPHandler(httpHandlerConfig{
		Logger:   logger,
		Services: routerServices(appCfg, cfg.Services, logger),
		HTTP:     appCfg.HTTP,
	})
	if err != nil {
		return nil, fmt.Errorf("build router: %w", err)
	}

	return startServer(logger, handler, appCfg.HTTP.Addr), nil
}

// routerServices maps the service container onto the router's dependencies.
func routerServices(cfg *config.AppConfig, svc ServiceContainer, logger *slog.Logger) httpx.RouterServices {
	var callbackURL string
	if cfg.Auth.Mode == config.AuthModeOIDC {
		callbackURL = cfg.Auth.OIDC.RedirectURL
	}

	b := svc.Backends
	rs := httpx.RouterServices{
		Dashboard:  svc.Dashboard,
		Users:      b.Users,
		Documents:  b.Documents,
		CareHomes:  b.CareHomes,
		Plans:      b.Plans,
		Company:    b.Company,
		Residents:  b.Residents,
		Caregivers: b.Caregivers,
		Clinicians: b.HealthcareProfessionals,
		Candidates: b.InterviewCandidates,
		Bounds:     svc.Pagination.Bounds(),
		PageSizes:  svc.Pagination.PageSizes,
		Cookies: httpx.CookieConfig{
			Domain: cfg.HTTP.CookieDomain,
			Secure: cfg.HTTP.SecureCookies(),
		},
		CallbackURL: callbackURL,
		IsDev:       cfg.IsDev,
		Logger:      logger,
	}
	// Typed nil pointers would defeat the router's nil checks.
	if svc.Auth != nil {
		rs.Auth = svc.Auth
	}
	if svc.Sessions != nil {
		rs.Sessions = svc.Sessions
	}
	return rs
}

type httpHandlerConfig struct {
	Logger   *slog.Logger
	Services httpx.RouterServices
	HTTP     config.HTTPConfig
}

func buildHTTPHandler(cfg httpHandlerConfig) (http.Handler, error) {
	router, err := httpx.NewRouter(cfg.Services)
	if err != nil {
		return nil, err
	}

	// Order: Recover -> Logging -> Compression -> Router
	h := router
	if cfg.HTTP.CompressionEnabled {
		cfg.Logger.Info("HTTP compression enabled", "level", cfg.HTTP.CompressionLevel)
		h = httpx.Compression(httpx.CompressionConfig{Level: cfg.HTTP.CompressionLevel})(h)
	}

	h = httpx.Logging(cfg.Logger)(h)
	h = httpx.Recover(cfg.Logger)(h)

	return h, nil
}

func startServer(logger *slog.Logger, handler http.Handler, addr string) *http.Server {
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
		}
	}()

	return server
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Context context.Context
	Server  *http.Server
	Timeout time.Duration
	Logger  *slog.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server, letting in-flight
// backend calls finish within the timeout.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}
	if cfg.Logger != nil {
		cfg.Logger.Info("shutting down HTTP server")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	parent := cfg.Context
	if parent == nil {
		parent = context.Background()
	}
	shutdownCtx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("HTTP server stopped")
	}
	return nil
}
