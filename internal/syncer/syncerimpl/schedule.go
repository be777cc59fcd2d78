package syncerimpl

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// ScheduleFeedSync runs SyncFeedOnce on a randomized interval so refresh
// cycles do not hit the backend in lockstep.
func (s *SyncerImpl) ScheduleFeedSync(ctx context.Context) error {
	minutes := time.Duration(s.Config.Sync.FeedMinutes) * time.Minute
	return s.schedule(ctx, "feed sync",
		gocron.DurationRandomJob(minutes, minutes+5*time.Minute),
		func(taskCtx context.Context) {
			if err := s.SyncFeedOnce(taskCtx); err != nil {
				s.Logger.Error("Feed sync failed", "error", err)
			}
		},
	)
}

// ScheduleStorySync runs SyncStoriesOnce on its own randomized interval.
func (s *SyncerImpl) ScheduleStorySync(ctx context.Context) error {
	minutes := time.Duration(s.Config.Sync.StoryMinutes) * time.Minute
	return s.schedule(ctx, "story sync",
		gocron.DurationRandomJob(minutes, minutes+5*time.Minute),
		func(taskCtx context.Context) {
			if err := s.SyncStoriesOnce(taskCtx); err != nil {
				s.Logger.Error("Story sync failed", "error", err)
			}
		},
	)
}

// ScheduleArchiveCleanup drops archive records older than the retention
// window every day at 3:00 AM.
func (s *SyncerImpl) ScheduleArchiveCleanup(ctx context.Context) error {
	return s.schedule(ctx, "archive cleanup",
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0))),
		func(taskCtx context.Context) {
			posts, err := s.FeedArchive.CleanupOldRecords(taskCtx, archiveRetention)
			if err != nil {
				s.Logger.Error("Failed to clean up seen posts", "error", err)
			}
			storiesDeleted, err := s.StoryArchive.CleanupOldRecords(taskCtx, archiveRetention)
			if err != nil {
				s.Logger.Error("Failed to clean up seen stories", "error", err)
			}
			s.Logger.Info("Archive cleanup completed",
				"posts_deleted", posts, "stories_deleted", storiesDeleted)
		},
	)
}

func (s *SyncerImpl) schedule(ctx context.Context, name string, definition gocron.JobDefinition, task func(context.Context)) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create %s scheduler: %w", name, err)
	}

	_, err = scheduler.NewJob(
		definition,
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				s.Logger.Info("Context cancelled, skipping job", "job", name)
				return
			}
			taskCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
			defer cancel()
			task(taskCtx)
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", name, err)
	}

	scheduler.Start()

	go func() {
		<-ctx.Done()
		s.Logger.Info("Stopping scheduler", "job", name)
		if err := scheduler.Shutdown(); err != nil {
			s.Logger.Error("Failed to shut down scheduler", "job", name, "error", err)
		}
	}()

	return nil
}
