package feed

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhnghia2k3/lumigram/internal/api/apitest"
	"github.com/minhnghia2k3/lumigram/internal/domain"
	"github.com/minhnghia2k3/lumigram/internal/localstate"
	"github.com/minhnghia2k3/lumigram/internal/session"
	"github.com/minhnghia2k3/lumigram/internal/toggle"
	pkgerrors "github.com/minhnghia2k3/lumigram/pkg/errors"
	"github.com/minhnghia2k3/lumigram/pkg/logger"
)

func makePage(start, n int) []domain.Post {
	page := make([]domain.Post, 0, n)
	for i := 0; i < n; i++ {
		page = append(page, domain.Post{ID: fmt.Sprintf("post-%d", start+i)})
	}
	return page
}

func newController(t *testing.T, client *apitest.Client, loggedIn bool) *Controller {
	t.Helper()
	log := logger.New(logger.Opts{Env: "test"})
	sess, err := session.NewFileStore(t.TempDir(), log)
	require.NoError(t, err)
	if loggedIn {
		require.NoError(t, sess.Set("test-token", session.DefaultTTL))
	}
	state, err := localstate.New(t.TempDir())
	require.NoError(t, err)

	c, err := New(Opts{
		Client:   client,
		Session:  sess,
		Likes:    toggle.NewLikes(client, sess, state, log),
		Logger:   log,
		PageSize: 10,
	})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestFetchPagePagination(t *testing.T) {
	client := &apitest.Client{
		PostsFn: func(ctx context.Context, skip, limit int) ([]domain.Post, error) {
			// 14 posts in total: a full first page, then a short one.
			switch skip {
			case 0:
				return makePage(0, 10), nil
			case 10:
				return makePage(10, 4), nil
			default:
				return nil, nil
			}
		},
	}
	c := newController(t, client, true)

	require.NoError(t, c.FetchPage(context.Background(), false))
	assert.Len(t, c.Posts(), 10)
	assert.True(t, c.HasMore())

	require.NoError(t, c.FetchPage(context.Background(), false))
	assert.Len(t, c.Posts(), 14)
	assert.False(t, c.HasMore(), "a short page exhausts the collection")

	// Exhausted means MaybeFetchMore goes quiet.
	before := client.Calls("Posts")
	c.MaybeFetchMore(context.Background())
	assert.Equal(t, before, client.Calls("Posts"))
}

func TestFetchPageUnauthenticated(t *testing.T) {
	client := &apitest.Client{}
	c := newController(t, client, false)

	err := c.FetchPage(context.Background(), false)
	assert.ErrorIs(t, err, pkgerrors.ErrNotAuthenticated)
	assert.Zero(t, client.TotalCalls())
}

func TestFetchPageResetReplacesList(t *testing.T) {
	var replacedPage atomic.Bool
	client := &apitest.Client{
		PostsFn: func(ctx context.Context, skip, limit int) ([]domain.Post, error) {
			if replacedPage.Load() {
				return makePage(100, 10), nil
			}
			return makePage(0, 10), nil
		},
	}
	c := newController(t, client, true)

	require.NoError(t, c.FetchPage(context.Background(), false))
	require.Len(t, c.Posts(), 10)

	replacedPage.Store(true)
	require.NoError(t, c.FetchPage(context.Background(), true))
	posts := c.Posts()
	require.Len(t, posts, 10)
	assert.Equal(t, "post-100", posts[0].ID, "reset replaces rather than appends")
}

func TestFetchPageDeduplicatesOverlap(t *testing.T) {
	client := &apitest.Client{
		PostsFn: func(ctx context.Context, skip, limit int) ([]domain.Post, error) {
			if skip == 0 {
				return makePage(0, 10), nil
			}
			// Overlapping window, as happens when a new post shifts offsets.
			return makePage(5, 10), nil
		},
	}
	c := newController(t, client, true)

	require.NoError(t, c.FetchPage(context.Background(), false))
	require.NoError(t, c.FetchPage(context.Background(), false))
	assert.Len(t, c.Posts(), 15, "overlapping ids appear once")
}

func TestFetchPageFailureLeavesCursor(t *testing.T) {
	var fail atomic.Bool
	client := &apitest.Client{
		PostsFn: func(ctx context.Context, skip, limit int) ([]domain.Post, error) {
			if fail.Load() {
				return nil, errors.New("backend down")
			}
			return makePage(skip, 10), nil
		},
	}
	c := newController(t, client, true)

	require.NoError(t, c.FetchPage(context.Background(), false))
	fail.Store(true)
	require.Error(t, c.FetchPage(context.Background(), false))
	assert.Len(t, c.Posts(), 10)
	assert.True(t, c.HasMore())

	// The retry resumes from the same offset.
	fail.Store(false)
	require.NoError(t, c.FetchPage(context.Background(), false))
	posts := c.Posts()
	require.Len(t, posts, 20)
	assert.Equal(t, "post-10", posts[10].ID)
}

func TestFetchPageNoConcurrentFetch(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	client := &apitest.Client{
		PostsFn: func(ctx context.Context, skip, limit int) ([]domain.Post, error) {
			close(started)
			<-release
			return makePage(0, 10), nil
		},
	}
	c := newController(t, client, true)

	done := make(chan error, 1)
	go func() { done <- c.FetchPage(context.Background(), false) }()
	<-started

	assert.True(t, c.Loading())
	require.NoError(t, c.FetchPage(context.Background(), false), "overlapping fetch is a no-op")
	assert.Equal(t, 1, client.Calls("Posts"))

	close(release)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("fetch never settled")
	}
}

func TestSetUserScopesAndResets(t *testing.T) {
	client := &apitest.Client{
		PostsFn: func(ctx context.Context, skip, limit int) ([]domain.Post, error) {
			return makePage(0, 10), nil
		},
		UserPostsFn: func(ctx context.Context, username string, skip, limit int) ([]domain.Post, error) {
			return makePage(200, 3), nil
		},
	}
	c := newController(t, client, true)

	require.NoError(t, c.FetchPage(context.Background(), false))
	require.False(t, c.Loading())

	c.SetUser("alice")
	require.NoError(t, c.FetchPage(context.Background(), false))
	posts := c.Posts()
	require.Len(t, posts, 3)
	assert.Equal(t, "post-200", posts[0].ID)
	assert.False(t, c.HasMore())
	assert.Equal(t, 1, client.Calls("UserPosts"))

	// Setting the same username again must not reset anything.
	c.SetUser("alice")
	assert.False(t, c.HasMore())
}

func TestLikeRecordsReconcileIntoEngine(t *testing.T) {
	client := &apitest.Client{
		PostsFn: func(ctx context.Context, skip, limit int) ([]domain.Post, error) {
			if skip == 0 {
				return []domain.Post{{ID: "p1"}}, nil
			}
			return nil, nil
		},
		PostLikesFn: func(ctx context.Context, postID string) ([]domain.LikeRecord, error) {
			return []domain.LikeRecord{
				{UserID: "1", Username: "tester"},
				{UserID: "2", Username: "other"},
			}, nil
		},
	}
	log := logger.New(logger.Opts{Env: "test"})
	sess, err := session.NewFileStore(t.TempDir(), log)
	require.NoError(t, err)
	require.NoError(t, sess.Set("test-token", session.DefaultTTL))
	require.NoError(t, sess.SetCurrentUser(&domain.User{ID: 1, Username: "tester"}))
	state, err := localstate.New(t.TempDir())
	require.NoError(t, err)
	likes := toggle.NewLikes(client, sess, state, log)

	c, err := New(Opts{Client: client, Session: sess, Likes: likes, Logger: log, PageSize: 10})
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.FetchPage(context.Background(), false))

	require.Eventually(t, func() bool {
		return len(c.LikeRecords("p1")) == 2
	}, 2*time.Second, 10*time.Millisecond)
	assert.True(t, likes.IsToggled("p1"), "membership derived from the record list")
	assert.Equal(t, 2, likes.Count("p1"))
}

func TestWatchNearEnd(t *testing.T) {
	client := &apitest.Client{
		PostsFn: func(ctx context.Context, skip, limit int) ([]domain.Post, error) {
			return makePage(skip, 10), nil
		},
	}
	c := newController(t, client, true)

	signals := make(chan struct{})
	stop := c.WatchNearEnd(context.Background(), signals)
	defer stop()

	signals <- struct{}{}
	require.Eventually(t, func() bool {
		return client.Calls("Posts") == 1
	}, 2*time.Second, 10*time.Millisecond)

	stop()
	stop() // idempotent

	// Signals after stop are no longer consumed into fetches.
	select {
	case signals <- struct{}{}:
	case <-time.After(100 * time.Millisecond):
	}
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, client.Calls("Posts"))
}
