package localstate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoolRoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	assert.False(t, s.GetBool(LikedPosts, "p1"), "unknown ids default to false")

	require.NoError(t, s.SetBool(LikedPosts, "p1", true))
	assert.True(t, s.GetBool(LikedPosts, "p1"))

	require.NoError(t, s.SetBool(LikedPosts, "p1", false))
	assert.False(t, s.GetBool(LikedPosts, "p1"))
}

func TestKindsAreIsolated(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.SetBool(LikedPosts, "p1", true))
	require.NoError(t, s.SetBool(SavedPosts, "p2", true))

	assert.False(t, s.GetBool(SavedPosts, "p1"))
	assert.False(t, s.GetBool(FavoritePosts, "p1"))

	require.NoError(t, s.ClearKind(LikedPosts))
	assert.False(t, s.GetBool(LikedPosts, "p1"))
	assert.True(t, s.GetBool(SavedPosts, "p2"), "clearing one kind leaves the others")
}

func TestGetMapReturnsCopy(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.SetBool(SavedPosts, "p1", true))

	m := s.GetMap(SavedPosts)
	assert.Equal(t, map[string]bool{"p1": true}, m)

	m["p2"] = true
	assert.False(t, s.GetBool(SavedPosts, "p2"), "mutating the copy does not write through")
}

func TestStateSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, s.SetBool(FavoritePosts, "p1", true))
	require.NoError(t, s.SetDarkMode(true))

	reopened, err := New(dir)
	require.NoError(t, err)
	assert.True(t, reopened.GetBool(FavoritePosts, "p1"))
	assert.True(t, reopened.DarkMode())
}

func TestWritersMergeAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	a, err := New(dir)
	require.NoError(t, err)
	b, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, a.SetBool(LikedPosts, "p1", true))
	require.NoError(t, b.SetBool(LikedPosts, "p2", true))

	// Each write re-reads the file, so the second does not clobber the first.
	assert.True(t, a.GetBool(LikedPosts, "p1"))
	assert.True(t, a.GetBool(LikedPosts, "p2"))
}

func TestCorruptFileStartsOver(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "localstate.json"), []byte("garbage"), 0o600))

	s, err := New(dir)
	require.NoError(t, err)
	assert.False(t, s.GetBool(LikedPosts, "p1"))
	require.NoError(t, s.SetBool(LikedPosts, "p1", true))
	assert.True(t, s.GetBool(LikedPosts, "p1"))
}
