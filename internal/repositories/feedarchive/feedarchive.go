package feedarchive

import (
	"context"
	"errors"
	"time"

	"github.com/minhnghia2k3/lumigram/internal/domain"
)

// SeenPost is one feed entry the sync daemon has already processed.
type SeenPost struct {
	ID       int       `json:"id"`
	PostID   string    `json:"post_id"`
	Username string    `json:"username"`
	Caption  string    `json:"caption"`
	SeenAt   time.Time `json:"seen_at"`
}

var ErrNotFound = errors.New("seen post not found")

// Repository records which feed posts have been handled so a refresh cycle
// never reprocesses them.
type Repository interface {
	Exists(ctx context.Context, postID string) (bool, error)
	Mark(ctx context.Context, post domain.Post) error
	GetByUsername(ctx context.Context, username string) ([]*SeenPost, error)
	CleanupOldRecords(ctx context.Context, olderThan time.Duration) (int64, error)
}
