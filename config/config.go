package config

import (
	"fmt"
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: sign-in mode and role mapping
//   - backend.go: REST backend location and pagination bounds
//   - http.go: HTTP server configuration
//   - session.go: session persistence (Redis or in-process)
//   - logging.go: log level, format, and optional rotating file
//   - cli.go: operator CLI session file
type AppConfig struct {
	// IsDev controls development mode behavior (template reloading, insecure cookies).
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Authentication configuration
	Auth AuthConfig

	// REST backend configuration
	Backend    BackendConfig    `envPrefix:"BACKEND_"`
	Pagination PaginationConfig `envPrefix:"PAGINATION_"`

	// Session persistence
	Session SessionConfig `envPrefix:"SESSION_"`
	Redis   RedisConfig   `envPrefix:"REDIS_"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Logging configuration
	Log LogConfig `envPrefix:"LOG_"`

	// Operator CLI configuration
	CLI CLIConfig `envPrefix:"CLI_"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.Backend.Sanitize()
	c.Pagination.Sanitize()
	c.Session.Sanitize()
	c.Log.Sanitize()
	c.CLI.Sanitize()

	c.detectDevMode()
}

// Validate reports configuration that cannot start the server.
func (c *AppConfig) Validate() error {
	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Backend.Validate(); err != nil {
		return fmt.Errorf("backend: %w", err)
	}
	return nil
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}
