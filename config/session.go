package config

import (
	"fmt"
	"strings"
	"time"
)

// SessionStoreKind selects where browser sessions are persisted.
type SessionStoreKind string

const (
	// SessionStoreRedis shares sessions across replicas through Redis.
	SessionStoreRedis SessionStoreKind = "redis"
	// SessionStoreMemory keeps sessions in process; they are lost on restart.
	SessionStoreMemory SessionStoreKind = "memory"
)

// UnmarshalText implements encoding.TextUnmarshaler for SessionStoreKind.
func (k *SessionStoreKind) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "redis", "memory":
		*k = SessionStoreKind(v)
		return nil
	default:
		return fmt.Errorf("invalid SessionStoreKind: %q (valid options: redis, memory)", v)
	}
}

// SessionConfig controls session persistence.
type SessionConfig struct {
	Store     SessionStoreKind `env:"STORE"      envDefault:"redis"`
	TTL       time.Duration    `env:"TTL"        envDefault:"12h"`
	KeyPrefix string           `env:"KEY_PREFIX" envDefault:"session:"`
}

// Sanitize restores defaults for empty or non-positive values.
func (s *SessionConfig) Sanitize() {
	if s.TTL <= 0 {
		s.TTL = 12 * time.Hour
	}
	if s.KeyPrefix == "" {
		s.KeyPrefix = "session:"
	}
	if s.Store == "" {
		s.Store = SessionStoreRedis
	}
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	DB                 int      `env:"DB"                   envDefault:"0"`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
}
