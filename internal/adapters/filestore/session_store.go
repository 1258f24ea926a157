// Package filestore persists sessions as JSON files, one file per key.
// The CLI uses it to keep its sign-in across invocations.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"

	domainauth "github.com/carehaven/carehome-admin/internal/domain/auth"
	"github.com/carehaven/carehome-admin/internal/ports"
)

// SessionStore writes <dir>/<id>.json. Writes go to a temp file and are renamed into place.
type SessionStore struct {
	fs  afero.Fs
	dir string
	mu  sync.RWMutex
}

// NewSessionStore creates the directory if needed.
func NewSessionStore(fs afero.Fs, dir string) (*SessionStore, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if err := fs.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &SessionStore{fs: fs, dir: dir}, nil
}

func (s *SessionStore) path(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("invalid session key %q", id)
	}
	return filepath.Join(s.dir, id+".json"), nil
}

func (s *SessionStore) Save(_ context.Context, sess domainauth.Session) error {
	p, err := s.path(sess.ID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := p + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := s.fs.Rename(tmp, p); err != nil {
		return fmt.Errorf("commit session: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	p, err := s.path(id)
	if err != nil {
		return domainauth.Session{}, ports.ErrSessionNotFound
	}

	s.mu.RLock()
	data, err := afero.ReadFile(s.fs, p)
	s.mu.RUnlock()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domainauth.Session{}, ports.ErrSessionNotFound
		}
		return domainauth.Session{}, fmt.Errorf("read session: %w", err)
	}

	var sess domainauth.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return domainauth.Session{}, fmt.Errorf("unmarshal session: %w", err)
	}
	if !sess.ExpiresAt.IsZero() && time.Now().After(sess.ExpiresAt) {
		return domainauth.Session{}, ports.ErrSessionNotFound
	}
	return sess, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	p, err := s.path(id)
	if err != nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fs.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
