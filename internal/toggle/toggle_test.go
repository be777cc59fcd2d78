package toggle

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhnghia2k3/lumigram/internal/localstate"
	"github.com/minhnghia2k3/lumigram/internal/session"
	pkgerrors "github.com/minhnghia2k3/lumigram/pkg/errors"
	"github.com/minhnghia2k3/lumigram/pkg/logger"
)

func newTestStores(t *testing.T, loggedIn bool) (session.Store, *localstate.Store) {
	t.Helper()
	log := logger.New(logger.Opts{Env: "test"})
	sess, err := session.NewFileStore(t.TempDir(), log)
	require.NoError(t, err)
	if loggedIn {
		require.NoError(t, sess.Set("test-token", session.DefaultTTL))
	}
	state, err := localstate.New(t.TempDir())
	require.NoError(t, err)
	return sess, state
}

func TestToggleRoundTripRestoresState(t *testing.T) {
	sess, state := newTestStores(t, true)
	var calls int32
	e := NewEngine(localstate.SavedPosts, true, sess, state, logger.New(logger.Opts{Env: "test"}), RemoteOps{
		Add: func(ctx context.Context, id string) error {
			atomic.AddInt32(&calls, 1)
			return nil
		},
		Remove: func(ctx context.Context, id string) error {
			atomic.AddInt32(&calls, 1)
			return nil
		},
	})

	on, err := e.Toggle(context.Background(), "p1")
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, e.IsToggled("p1"))
	assert.True(t, state.GetBool(localstate.SavedPosts, "p1"))

	off, err := e.Toggle(context.Background(), "p1")
	require.NoError(t, err)
	assert.False(t, off)
	assert.False(t, e.IsToggled("p1"))
	assert.False(t, state.GetBool(localstate.SavedPosts, "p1"))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestToggleUnauthenticatedPerformsNoRequests(t *testing.T) {
	sess, state := newTestStores(t, false)
	var calls int32
	e := NewEngine(localstate.LikedPosts, true, sess, state, logger.New(logger.Opts{Env: "test"}), RemoteOps{
		Add: func(ctx context.Context, id string) error {
			atomic.AddInt32(&calls, 1)
			return nil
		},
	})

	on, err := e.Toggle(context.Background(), "p1")
	assert.ErrorIs(t, err, pkgerrors.ErrNotAuthenticated)
	assert.False(t, on)
	assert.False(t, e.IsToggled("p1"))
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
	assert.False(t, state.GetBool(localstate.LikedPosts, "p1"))
}

func TestToggleFailureRevertsFlagAndDurableMap(t *testing.T) {
	sess, state := newTestStores(t, true)
	require.NoError(t, state.SetBool(localstate.FavoritePosts, "p1", true))

	e := NewEngine(localstate.FavoritePosts, true, sess, state, logger.New(logger.Opts{Env: "test"}), RemoteOps{
		Add: func(ctx context.Context, id string) error { return errors.New("boom") },
		Remove: func(ctx context.Context, id string) error {
			return errors.New("boom")
		},
	})
	require.True(t, e.IsToggled("p1"), "seeded from durable map")

	got, err := e.Toggle(context.Background(), "p1")
	require.Error(t, err)
	assert.True(t, got, "returns the pre-toggle value")
	assert.True(t, e.IsToggled("p1"))
	assert.True(t, state.GetBool(localstate.FavoritePosts, "p1"), "durable map restored")
}

func TestFailedToggleRestoresDurableMapBeforeAdmittingRetry(t *testing.T) {
	sess, state := newTestStores(t, true)

	var calls int32
	e := NewEngine(localstate.SavedPosts, true, sess, state, logger.New(logger.Opts{Env: "test"}), RemoteOps{
		Add: func(ctx context.Context, id string) error {
			if atomic.AddInt32(&calls, 1) == 1 {
				return errors.New("boom")
			}
			return nil
		},
		Remove: func(ctx context.Context, id string) error { return nil },
	})

	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		_, _ = e.Toggle(context.Background(), "p1")
	}()

	// Retry as soon as the failed toggle releases the in-flight guard. By
	// then its revert must already be in the durable map, so the retry's
	// persisted value is never overwritten afterwards.
	require.Eventually(t, func() bool {
		on, err := e.Toggle(context.Background(), "p1")
		return err == nil && on && atomic.LoadInt32(&calls) >= 2
	}, 2*time.Second, time.Millisecond)
	<-firstDone

	assert.True(t, e.IsToggled("p1"))
	assert.True(t, state.GetBool(localstate.SavedPosts, "p1"), "retry's persisted value survives the earlier revert")
}

func TestToggleUsesRemoveForActiveFlag(t *testing.T) {
	sess, state := newTestStores(t, true)
	require.NoError(t, state.SetBool(localstate.SavedPosts, "p1", true))

	var added, removed int32
	e := NewEngine(localstate.SavedPosts, true, sess, state, logger.New(logger.Opts{Env: "test"}), RemoteOps{
		Add:    func(ctx context.Context, id string) error { atomic.AddInt32(&added, 1); return nil },
		Remove: func(ctx context.Context, id string) error { atomic.AddInt32(&removed, 1); return nil },
	})

	_, err := e.Toggle(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, int32(0), atomic.LoadInt32(&added))
	assert.Equal(t, int32(1), atomic.LoadInt32(&removed))
}

func TestToggleInFlightIsNoOp(t *testing.T) {
	sess, state := newTestStores(t, true)

	release := make(chan struct{})
	started := make(chan struct{})
	var startedOnce sync.Once
	var calls int32
	e := NewEngine(localstate.LikedPosts, true, sess, state, logger.New(logger.Opts{Env: "test"}), RemoteOps{
		Add: func(ctx context.Context, id string) error {
			atomic.AddInt32(&calls, 1)
			startedOnce.Do(func() { close(started) })
			<-release
			return nil
		},
	})

	done := make(chan bool, 1)
	go func() {
		on, _ := e.Toggle(context.Background(), "p1")
		done <- on
	}()
	<-started

	// Second call while the first is in flight must not issue a request.
	cur, err := e.Toggle(context.Background(), "p1")
	require.NoError(t, err)
	assert.True(t, cur, "reports the optimistic value")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	close(release)
	select {
	case on := <-done:
		assert.True(t, on)
	case <-time.After(2 * time.Second):
		t.Fatal("first toggle never settled")
	}

	// Settled now, the next toggle goes through.
	off, err := e.Toggle(context.Background(), "p1")
	require.NoError(t, err)
	assert.False(t, off)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestToggleReconcileOverridesOptimisticValue(t *testing.T) {
	sess, state := newTestStores(t, true)
	e := NewEngine(localstate.LikedPosts, true, sess, state, logger.New(logger.Opts{Env: "test"}), RemoteOps{
		Add: func(ctx context.Context, id string) error { return nil },
		Reconcile: func(ctx context.Context, id string) (bool, int, error) {
			return true, 42, nil
		},
	})

	on, err := e.Toggle(context.Background(), "p1")
	require.NoError(t, err)
	assert.True(t, on)
	assert.Equal(t, 42, e.Count("p1"))
	assert.True(t, state.GetBool(localstate.LikedPosts, "p1"))
}

func TestToggleReconcileFailureKeepsOptimisticValue(t *testing.T) {
	sess, state := newTestStores(t, true)
	e := NewEngine(localstate.LikedPosts, true, sess, state, logger.New(logger.Opts{Env: "test"}), RemoteOps{
		Add: func(ctx context.Context, id string) error { return nil },
		Reconcile: func(ctx context.Context, id string) (bool, int, error) {
			return false, 0, errors.New("fetch failed")
		},
	})

	on, err := e.Toggle(context.Background(), "p1")
	require.NoError(t, err)
	assert.True(t, on, "optimistic value stands when reconciliation fails")
}

func TestCloseSuppressesLateResults(t *testing.T) {
	sess, state := newTestStores(t, true)

	release := make(chan struct{})
	started := make(chan struct{})
	e := NewEngine(localstate.LikedPosts, true, sess, state, logger.New(logger.Opts{Env: "test"}), RemoteOps{
		Add: func(ctx context.Context, id string) error {
			close(started)
			<-release
			return errors.New("late failure")
		},
	})

	errc := make(chan error, 1)
	go func() {
		_, err := e.Toggle(context.Background(), "p1")
		errc <- err
	}()
	<-started
	e.Close()
	close(release)

	select {
	case err := <-errc:
		require.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("toggle never settled")
	}

	// The optimistic flip is not reverted once closed; the engine is inert.
	got, err := e.Toggle(context.Background(), "p1")
	require.NoError(t, err)
	assert.True(t, got)
}

func TestResetKeepsDurableMap(t *testing.T) {
	sess, state := newTestStores(t, true)
	e := NewEngine(localstate.SavedPosts, true, sess, state, logger.New(logger.Opts{Env: "test"}), RemoteOps{
		Add:    func(ctx context.Context, id string) error { return nil },
		Remove: func(ctx context.Context, id string) error { return nil },
	})

	_, err := e.Toggle(context.Background(), "p1")
	require.NoError(t, err)
	e.Apply("p1", true, 7)

	e.Reset()
	assert.False(t, e.IsToggled("p1"))
	assert.Equal(t, 0, e.Count("p1"))
	assert.True(t, state.GetBool(localstate.SavedPosts, "p1"), "durable map survives a reset")
}

func TestSessionOnlyEngineNeverPersists(t *testing.T) {
	sess, state := newTestStores(t, true)
	e := NewEngine(localstate.FollowData, false, sess, state, logger.New(logger.Opts{Env: "test"}), RemoteOps{
		Add:    func(ctx context.Context, id string) error { return nil },
		Remove: func(ctx context.Context, id string) error { return nil },
	})

	on, err := e.Toggle(context.Background(), "42")
	require.NoError(t, err)
	assert.True(t, on)
	assert.False(t, state.GetBool(localstate.FollowData, "42"))
	assert.Empty(t, state.GetMap(localstate.FollowData))
}
