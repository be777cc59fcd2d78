package feed

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/minhnghia2k3/lumigram/internal/api"
	"github.com/minhnghia2k3/lumigram/internal/domain"
	"github.com/minhnghia2k3/lumigram/internal/session"
	"github.com/minhnghia2k3/lumigram/internal/toggle"
	pkgerrors "github.com/minhnghia2k3/lumigram/pkg/errors"
	"github.com/minhnghia2k3/lumigram/pkg/logger"
	"github.com/panjf2000/ants/v2"
)

const likeFetchWorkers = 5

// Controller pages through a posts collection with an offset cursor. An
// empty username means the global feed; setting one scopes it to that
// profile's grid. Entries are never duplicated, and a page shorter than the
// requested size marks the collection exhausted until the next reset.
type Controller struct {
	client  api.Client
	session session.Store
	likes   *toggle.Likes
	log     logger.Logger
	pool    *ants.Pool
	limit   int

	inFlight atomic.Bool

	mu          sync.Mutex
	username    string
	posts       []domain.Post
	seen        map[string]struct{}
	skip        int
	hasMore     bool
	likeRecords map[string][]domain.LikeRecord
}

type Opts struct {
	Client   api.Client
	Session  session.Store
	Likes    *toggle.Likes
	Logger   logger.Logger
	PageSize int
}

func New(opts Opts) (*Controller, error) {
	pool, err := ants.NewPool(likeFetchWorkers, ants.WithPreAlloc(true))
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to create like-fetch pool")
	}
	return &Controller{
		client:      opts.Client,
		session:     opts.Session,
		likes:       opts.Likes,
		log:         opts.Logger,
		pool:        pool,
		limit:       opts.PageSize,
		hasMore:     true,
		seen:        make(map[string]struct{}),
		likeRecords: make(map[string][]domain.LikeRecord),
	}, nil
}

// FetchPage loads one page. With reset the cursor is forced to zero and the
// result replaces the list; otherwise the result is appended and the cursor
// advances by the page size. A call while another fetch is in flight is a
// no-op. On failure the cursor is left untouched so a retry resumes from the
// same point.
func (c *Controller) FetchPage(ctx context.Context, reset bool) error {
	if !c.session.Authenticated() {
		c.log.Warn("Feed fetch refused, no access token")
		return pkgerrors.ErrNotAuthenticated
	}

	if !c.inFlight.CompareAndSwap(false, true) {
		return nil
	}
	defer c.inFlight.Store(false)

	c.mu.Lock()
	username := c.username
	skip := c.skip
	if reset {
		skip = 0
	}
	c.mu.Unlock()

	var (
		page []domain.Post
		err  error
	)
	if username == "" {
		page, err = c.client.Posts(ctx, skip, c.limit)
	} else {
		page, err = c.client.UserPosts(ctx, username, skip, c.limit)
	}
	if err != nil {
		c.log.Error("Failed to fetch posts page", "skip", skip, "limit", c.limit, "error", err)
		return err
	}

	c.mu.Lock()
	if reset {
		c.posts = nil
		c.seen = make(map[string]struct{})
	}
	fresh := make([]domain.Post, 0, len(page))
	for _, post := range page {
		if _, ok := c.seen[post.ID]; ok {
			continue
		}
		c.seen[post.ID] = struct{}{}
		c.posts = append(c.posts, post)
		fresh = append(fresh, post)
	}
	c.hasMore = len(page) == c.limit
	c.skip = skip + c.limit
	c.mu.Unlock()

	// Every new post gets its like-record set fetched independently;
	// failures are logged, never surfaced to the list.
	for _, post := range fresh {
		postID := post.ID
		if err := c.pool.Submit(func() {
			c.fetchLikeRecords(ctx, postID)
		}); err != nil {
			c.log.Error("Failed to submit like fetch", "post_id", postID, "error", err)
		}
	}

	return nil
}

func (c *Controller) fetchLikeRecords(ctx context.Context, postID string) {
	records, err := c.client.PostLikes(ctx, postID)
	if err != nil {
		c.log.Error("Failed to fetch like records", "post_id", postID, "error", err)
		return
	}

	c.mu.Lock()
	c.likeRecords[postID] = records
	c.mu.Unlock()

	liked := false
	if me := c.session.CurrentUser(); me != nil {
		myID := strconv.FormatInt(me.ID, 10)
		for _, rec := range records {
			if rec.UserID == myID {
				liked = true
				break
			}
		}
	}
	c.likes.Apply(postID, liked, len(records))
}

// SetUser scopes the controller to one profile's posts. Changing the viewed
// username resets the cursor and the exhausted flag.
func (c *Controller) SetUser(username string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.username == username {
		return
	}
	c.username = username
	c.posts = nil
	c.seen = make(map[string]struct{})
	c.skip = 0
	c.hasMore = true
}

// MaybeFetchMore is the scroll-trigger analog: it starts a fetch only when
// the controller is idle and more pages are believed to exist.
func (c *Controller) MaybeFetchMore(ctx context.Context) {
	if c.inFlight.Load() || !c.HasMore() {
		return
	}
	if err := c.FetchPage(ctx, false); err != nil && !pkgerrors.IsNotAuthenticated(err) {
		c.log.Error("Failed to fetch more posts", "error", err)
	}
}

// WatchNearEnd consumes near-end signals (the scroll listener analog) until
// ctx is done or the returned stop function runs. Teardown is guaranteed;
// stop is idempotent.
func (c *Controller) WatchNearEnd(ctx context.Context, signals <-chan struct{}) (stop func()) {
	done := make(chan struct{})
	var once sync.Once
	stop = func() { once.Do(func() { close(done) }) }

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case _, ok := <-signals:
				if !ok {
					return
				}
				c.MaybeFetchMore(ctx)
			}
		}
	}()

	return stop
}

func (c *Controller) Posts() []domain.Post {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Post, len(c.posts))
	copy(out, c.posts)
	return out
}

func (c *Controller) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasMore
}

func (c *Controller) Loading() bool {
	return c.inFlight.Load()
}

// LikeRecords returns the last fetched like-record list for a post.
func (c *Controller) LikeRecords(postID string) []domain.LikeRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	records := c.likeRecords[postID]
	out := make([]domain.LikeRecord, len(records))
	copy(out, records)
	return out
}

// Close releases the like-fetch worker pool.
func (c *Controller) Close() {
	c.pool.Release()
}
