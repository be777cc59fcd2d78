package storyarchive

import (
	"context"
	"errors"
	"time"

	"github.com/minhnghia2k3/lumigram/internal/domain"
)

// SeenStory is one story item the sync daemon has already processed.
type SeenStory struct {
	ID       int       `json:"id"`
	StoryID  string    `json:"story_id"`
	Username string    `json:"username"`
	SeenAt   time.Time `json:"seen_at"`
}

var ErrNotFound = errors.New("seen story not found")

// Repository deduplicates story items across refresh cycles.
type Repository interface {
	Exists(ctx context.Context, storyID string) (bool, error)
	Mark(ctx context.Context, story domain.Story) error
	GetByUsername(ctx context.Context, username string) ([]*SeenStory, error)
	CleanupOldRecords(ctx context.Context, olderThan time.Duration) (int64, error)
}
