package stories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhnghia2k3/lumigram/internal/api/apitest"
	"github.com/minhnghia2k3/lumigram/internal/domain"
	"github.com/minhnghia2k3/lumigram/internal/session"
	pkgerrors "github.com/minhnghia2k3/lumigram/pkg/errors"
	"github.com/minhnghia2k3/lumigram/pkg/logger"
)

func at(h int) time.Time {
	return time.Date(2026, 3, 14, h, 0, 0, 0, time.UTC)
}

func TestGroupOrdersUsersByLatestStory(t *testing.T) {
	stories := []domain.Story{
		{ID: "s1", Username: "alice", ProfileImage: "/a.jpg", CreatedAt: at(8)},
		{ID: "s2", Username: "bob", ProfileImage: "/b.jpg", CreatedAt: at(9)},
		{ID: "s3", Username: "alice", CreatedAt: at(11)},
		{ID: "s4", Username: "carol", CreatedAt: at(10)},
	}

	grouped := Group(stories)
	require.Len(t, grouped, 3)

	// alice's second story is the newest overall, so she leads.
	assert.Equal(t, "alice", grouped[0].Username)
	assert.Equal(t, at(11), grouped[0].LatestTime)
	assert.Equal(t, "carol", grouped[1].Username)
	assert.Equal(t, "bob", grouped[2].Username)

	// Within a user, arrival order is preserved.
	require.Len(t, grouped[0].Stories, 2)
	assert.Equal(t, "s1", grouped[0].Stories[0].ID)
	assert.Equal(t, "s3", grouped[0].Stories[1].ID)
	assert.Equal(t, "/a.jpg", grouped[0].ProfileImage)
}

func TestGroupEmpty(t *testing.T) {
	assert.Empty(t, Group(nil))
}

func newStoryService(t *testing.T, client *apitest.Client, loggedIn bool) *Service {
	t.Helper()
	log := logger.New(logger.Opts{Env: "test"})
	sess, err := session.NewFileStore(t.TempDir(), log)
	require.NoError(t, err)
	if loggedIn {
		require.NoError(t, sess.Set("test-token", session.DefaultTTL))
	}
	return New(client, sess, log)
}

func TestFetchUnauthenticated(t *testing.T) {
	client := &apitest.Client{}
	s := newStoryService(t, client, false)

	grouped, err := s.Fetch(context.Background())
	assert.ErrorIs(t, err, pkgerrors.ErrNotAuthenticated)
	assert.Nil(t, grouped)
	assert.Zero(t, client.TotalCalls())
}

func TestFetchCachesGrouping(t *testing.T) {
	client := &apitest.Client{
		StoryListFn: func(ctx context.Context) ([]domain.Story, error) {
			return []domain.Story{
				{ID: "s1", Username: "alice", CreatedAt: at(8)},
				{ID: "s2", Username: "bob", CreatedAt: at(9)},
			}, nil
		},
	}
	s := newStoryService(t, client, true)

	grouped, err := s.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, grouped, 2)
	assert.Equal(t, "bob", grouped[0].Username)

	cached := s.Grouped()
	assert.Equal(t, grouped, cached)
}

func TestFetchErrorKeepsCache(t *testing.T) {
	var fail bool
	client := &apitest.Client{
		StoryListFn: func(ctx context.Context) ([]domain.Story, error) {
			if fail {
				return nil, errors.New("backend down")
			}
			return []domain.Story{{ID: "s1", Username: "alice", CreatedAt: at(8)}}, nil
		},
	}
	s := newStoryService(t, client, true)

	_, err := s.Fetch(context.Background())
	require.NoError(t, err)

	fail = true
	_, err = s.Fetch(context.Background())
	require.Error(t, err)
	assert.Len(t, s.Grouped(), 1, "failed fetch leaves the previous grouping")
}
