package config

import (
	"errors"
	"fmt"
	"strings"
)

// AuthMode represents how operators sign in.
type AuthMode string

const (
	// AuthModePassword posts email and password to the backend login endpoint.
	AuthModePassword AuthMode = "password"
	// AuthModeOIDC signs in through an OpenID Connect provider.
	AuthModeOIDC AuthMode = "oidc"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "password", "oidc":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: password, oidc)", v)
	}
}

// OIDCConfig contains OpenID Connect configuration.
type OIDCConfig struct {
	Issuer       string   `env:"ISSUER"`
	ClientID     string   `env:"CLIENT_ID"`
	ClientSecret string   `env:"CLIENT_SECRET"`
	RedirectURL  string   `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/callback"`
	Scopes       []string `env:"SCOPES"        envDefault:"openid profile email offline_access" envSeparator:" "`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which sign-in flow the dashboard offers.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"password"`

	// OIDC configuration (used when Mode=oidc).
	OIDC OIDCConfig `envPrefix:"OIDC_"`

	// SuperAdminGroup is the IdP group granted the super admin role.
	SuperAdminGroup string `env:"AUTH_SUPER_ADMIN_GROUP" envDefault:"carehome-super-admins"`

	// AdminGroup is the IdP group granted the company admin role.
	AdminGroup string `env:"AUTH_ADMIN_GROUP" envDefault:"carehome-admins"`
}

// Validate checks that the selected mode is fully configured.
func (a *AuthConfig) Validate() error {
	if a.Mode != AuthModeOIDC {
		return nil
	}
	var missing []string
	if a.OIDC.Issuer == "" {
		missing = append(missing, "OIDC_ISSUER")
	}
	if a.OIDC.ClientID == "" {
		missing = append(missing, "OIDC_CLIENT_ID")
	}
	if a.OIDC.ClientSecret == "" {
		missing = append(missing, "OIDC_CLIENT_SECRET")
	}
	if len(missing) > 0 {
		return errors.New("AUTH_MODE=oidc requires " + strings.Join(missing, ", "))
	}
	return nil
}
