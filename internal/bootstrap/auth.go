package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/carehaven/carehome-admin/config"
	"github.com/carehaven/carehome-admin/internal/adapters/authroles"
	"github.com/carehaven/carehome-admin/internal/adapters/oidc"
	"github.com/carehaven/carehome-admin/internal/ports"
	"github.com/carehaven/carehome-admin/internal/service"
)

// AuthConfig contains configuration for auth service.
type AuthConfig struct {
	Auth     config.AuthConfig
	Backend  ports.AuthBackend
	Users    ports.UserBackend
	Sessions *service.SessionService
	Logger   *slog.Logger
}

// BuildAuthService creates an auth service for the configured auth mode.
// Password sign-in is always available; oidc mode additionally requires a reachable issuer.
func BuildAuthService(ctx context.Context, cfg AuthConfig) (*service.AuthService, error) {
	if cfg.Sessions == nil {
		return nil, fmt.Errorf("auth service requires a session service")
	}

	opts := service.AuthServiceOptions{
		Backend:  cfg.Backend,
		Users:    cfg.Users,
		Sessions: cfg.Sessions,
		Roles: authroles.StaticRoleMapper{
			SuperAdminGroup: cfg.Auth.SuperAdminGroup,
			AdminGroup:      cfg.Auth.AdminGroup,
		},
	}

	if cfg.Auth.Mode == config.AuthModeOIDC {
		prov, err := oidc.NewProvider(ctx, oidc.ProviderConfig{
			Issuer:       cfg.Auth.OIDC.Issuer,
			ClientID:     cfg.Auth.OIDC.ClientID,
			ClientSecret: cfg.Auth.OIDC.ClientSecret,
			RedirectURL:  cfg.Auth.OIDC.RedirectURL,
			Scopes:       cfg.Auth.OIDC.Scopes,
		})
		if err != nil {
			return nil, fmt.Errorf("create OIDC provider: %w", err)
		}
		opts.Provider = prov
		if cfg.Logger != nil {
			cfg.Logger.Info("single sign-on enabled", "issuer", cfg.Auth.OIDC.Issuer)
		}
	}

	return service.NewAuthService(opts), nil
}
