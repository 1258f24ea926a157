package config

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultCLISessionKey is the name the operator CLI persists its session under.
const DefaultCLISessionKey = "auth-storage"

// CLIConfig controls where the operator CLI keeps its session.
type CLIConfig struct {
	// Dir holds one JSON file per session key. Defaults to the user config dir.
	Dir string `env:"DIR"`

	// SessionKey names the persisted session record.
	SessionKey string `env:"SESSION_KEY" envDefault:"auth-storage"`
}

// Sanitize fills in the default directory and key.
func (c *CLIConfig) Sanitize() {
	c.Dir = strings.TrimSpace(c.Dir)
	if c.Dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			base = os.TempDir()
		}
		c.Dir = filepath.Join(base, "carehome-admin")
	}
	if c.SessionKey = strings.TrimSpace(c.SessionKey); c.SessionKey == "" {
		c.SessionKey = DefaultCLISessionKey
	}
}
