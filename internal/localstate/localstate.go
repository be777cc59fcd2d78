package localstate

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	pkgerrors "github.com/minhnghia2k3/lumigram/pkg/errors"
)

// Kind names one durable boolean map. Each kind is persisted under its own
// key so likes, saves, favorites and follows never share storage.
type Kind string

const (
	LikedPosts    Kind = "likedPosts"
	SavedPosts    Kind = "savedPosts"
	FavoritePosts Kind = "favoritePosts"
	FollowData    Kind = "followData"
)

const darkModeKey = "darkMode"

// Store is the durable local key-value storage surviving restarts, the
// process analog of the browser's localStorage. All writers read-modify-write
// the full map under one lock so concurrent writers of the same kind never
// clobber each other.
type Store struct {
	mu   sync.Mutex
	path string
}

type fileShape struct {
	Maps     map[Kind]map[string]bool `json:"maps"`
	DarkMode bool                     `json:"darkMode"`
}

func New(stateDir string) (*Store, error) {
	if err := os.MkdirAll(stateDir, 0o700); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to create state directory")
	}
	return &Store{path: filepath.Join(stateDir, "localstate.json")}, nil
}

// GetBool reads one flag from the named map. Unknown ids default to false.
func (s *Store) GetBool(kind Kind, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.load()
	return data.Maps[kind][id]
}

// SetBool merges one flag into the named map and persists the result.
func (s *Store) SetBool(kind Kind, id string, value bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.load()
	if data.Maps[kind] == nil {
		data.Maps[kind] = make(map[string]bool)
	}
	data.Maps[kind][id] = value
	return s.save(data)
}

// GetMap returns a copy of the whole named map.
func (s *Store) GetMap(kind Kind) map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.load()
	out := make(map[string]bool, len(data.Maps[kind]))
	for id, v := range data.Maps[kind] {
		out[id] = v
	}
	return out
}

// ClearKind drops the whole named map.
func (s *Store) ClearKind(kind Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.load()
	delete(data.Maps, kind)
	return s.save(data)
}

func (s *Store) DarkMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load().DarkMode
}

func (s *Store) SetDarkMode(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.load()
	data.DarkMode = on
	return s.save(data)
}

func (s *Store) load() *fileShape {
	data := &fileShape{Maps: make(map[Kind]map[string]bool)}
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return data
	}
	if err != nil {
		return data
	}
	// Corrupt state starts over empty, same as a cleared browser storage.
	_ = json.Unmarshal(raw, data)
	if data.Maps == nil {
		data.Maps = make(map[Kind]map[string]bool)
	}
	return data
}

func (s *Store) save(data *fileShape) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to encode local state")
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return pkgerrors.Wrap(err, "failed to write local state")
	}
	return nil
}
