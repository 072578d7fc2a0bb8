// Package client talks to the repair order REST API on behalf of a signed-in
// user and keeps that user's session on disk.
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"repairorder/internal/entity"
)

// DefaultAPIBaseURL is used when no override is stored.
const DefaultAPIBaseURL = "http://localhost:8000/api"

// Session is what the client remembers between invocations.
type Session struct {
	Token      string              `json:"token,omitempty"`
	User       *entity.UserSummary `json:"user,omitempty"`
	APIBaseURL string              `json:"api_base_url,omitempty"`
}

// LoggedIn reports whether a token is held.
func (s *Session) LoggedIn() bool {
	return s != nil && s.Token != ""
}

// CanEdit mirrors the server rule: only admins update or delete orders.
func (s *Session) CanEdit() bool {
	return s != nil && s.User != nil && s.User.Role == entity.UserRoleAdmin
}

// BaseURL returns the stored override or DefaultAPIBaseURL.
func (s *Session) BaseURL() string {
	if s != nil {
		if base := strings.TrimRight(strings.TrimSpace(s.APIBaseURL), "/"); base != "" {
			return base
		}
	}
	return DefaultAPIBaseURL
}

// SessionStore persists a Session as a JSON file.
type SessionStore struct {
	path string
}

func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path}
}

// DefaultSessionPath is <user config dir>/repairctl/session.json.
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "repairctl", "session.json"), nil
}

// Path returns the backing file.
func (s *SessionStore) Path() string {
	return s.path
}

// Load returns the stored session, or an empty one when nothing is stored.
func (s *SessionStore) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return &Session{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

// Save writes session with owner-only permissions.
func (s *SessionStore) Save(session *Session) error {
	if session == nil {
		return errors.New("session is nil")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Clear drops the token and user but keeps the API base URL override.
func (s *SessionStore) Clear() error {
	session, err := s.Load()
	if err != nil {
		session = &Session{}
	}
	if session.APIBaseURL == "" {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove session: %w", err)
		}
		return nil
	}
	return s.Save(&Session{APIBaseURL: session.APIBaseURL})
}
