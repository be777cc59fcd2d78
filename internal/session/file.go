package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/minhnghia2k3/lumigram/internal/domain"
	pkgerrors "github.com/minhnghia2k3/lumigram/pkg/errors"
	"github.com/minhnghia2k3/lumigram/pkg/logger"
)

const sessionFile = "session.json"

type sessionData struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user,omitempty"`
}

// FileStore persists the credential to a JSON file under the state
// directory. Every read loads the file again; nothing is cached between
// calls.
type FileStore struct {
	mu   sync.Mutex
	path string
	log  logger.Logger
}

func NewFileStore(stateDir string, log logger.Logger) (*FileStore, error) {
	if err := os.MkdirAll(stateDir, 0o700); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to create state directory")
	}
	return &FileStore{
		path: filepath.Join(stateDir, sessionFile),
		log:  log,
	}, nil
}

func (s *FileStore) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return "", err
	}
	if data.Token == "" || time.Now().After(data.ExpiresAt) {
		return "", pkgerrors.ErrNotAuthenticated
	}
	return data.Token, nil
}

func (s *FileStore) Set(token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	data.Token = token
	data.ExpiresAt = time.Now().Add(ttl)
	return s.save(data)
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return pkgerrors.Wrap(err, "failed to clear session")
	}
	return nil
}

func (s *FileStore) Authenticated() bool {
	_, err := s.Token()
	return err == nil
}

func (s *FileStore) CurrentUser() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil
	}
	return data.User
}

func (s *FileStore) SetCurrentUser(user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	data.User = user
	return s.save(data)
}

func (s *FileStore) load() (*sessionData, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return &sessionData{}, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to read session file")
	}
	data := &sessionData{}
	if err := json.Unmarshal(raw, data); err != nil {
		// A corrupt session file is treated as logged out.
		s.log.Warn("Session file is corrupt, discarding it", "path", s.path, "error", err)
		return &sessionData{}, nil
	}
	return data, nil
}

func (s *FileStore) save(data *sessionData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to encode session")
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return pkgerrors.Wrap(err, "failed to write session file")
	}
	return nil
}

var _ Store = (*FileStore)(nil)
