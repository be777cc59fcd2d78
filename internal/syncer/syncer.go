package syncer

import (
	"context"
)

// Client runs the background refresh cycles of the sync daemon.
type Client interface {
	SyncFeedOnce(ctx context.Context) error
	SyncStoriesOnce(ctx context.Context) error
	ScheduleFeedSync(ctx context.Context) error
	ScheduleStorySync(ctx context.Context) error
	ScheduleArchiveCleanup(ctx context.Context) error
}
