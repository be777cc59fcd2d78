package syncerimpl

import (
	"context"
	"fmt"
	"time"

	"github.com/minhnghia2k3/lumigram/internal/feed"
	"github.com/minhnghia2k3/lumigram/internal/ratelimit"
	"github.com/minhnghia2k3/lumigram/internal/repositories/feedarchive"
	"github.com/minhnghia2k3/lumigram/internal/repositories/storyarchive"
	"github.com/minhnghia2k3/lumigram/internal/stories"
	"github.com/minhnghia2k3/lumigram/internal/syncer"
	"github.com/minhnghia2k3/lumigram/pkg/config"
	"github.com/minhnghia2k3/lumigram/pkg/formatter"
	"github.com/minhnghia2k3/lumigram/pkg/logger"
	"go.uber.org/fx"
)

const archiveRetention = 5 * 24 * time.Hour

type Opts struct {
	fx.In

	Feed         *feed.Controller
	Stories      *stories.Service
	FeedArchive  feedarchive.Repository
	StoryArchive storyarchive.Repository
	Limiter      ratelimit.Limiter
	Logger       logger.Logger
	Config       *config.Config
}

type SyncerImpl struct {
	Feed         *feed.Controller
	Stories      *stories.Service
	FeedArchive  feedarchive.Repository
	StoryArchive storyarchive.Repository
	Limiter      ratelimit.Limiter
	Logger       logger.Logger
	Config       *config.Config
}

func New(opts Opts) *SyncerImpl {
	return &SyncerImpl{
		Feed:         opts.Feed,
		Stories:      opts.Stories,
		FeedArchive:  opts.FeedArchive,
		StoryArchive: opts.StoryArchive,
		Limiter:      opts.Limiter,
		Logger:       opts.Logger,
		Config:       opts.Config,
	}
}

var _ syncer.Client = (*SyncerImpl)(nil)

// SyncFeedOnce refreshes the first page of the feed and archives every post
// not seen before.
func (s *SyncerImpl) SyncFeedOnce(ctx context.Context) error {
	if !s.Limiter.Allow("feed") {
		s.Logger.Warn("Feed sync skipped by rate limiter")
		return nil
	}

	if err := s.Feed.FetchPage(ctx, true); err != nil {
		return fmt.Errorf("failed to refresh feed: %w", err)
	}

	for _, post := range s.Feed.Posts() {
		seen, err := s.FeedArchive.Exists(ctx, post.ID)
		if err != nil {
			s.Logger.Error("Failed to check seen post", "post_id", post.ID, "error", err)
			continue
		}
		if seen {
			continue
		}
		if err := s.FeedArchive.Mark(ctx, post); err != nil {
			s.Logger.Error("Failed to archive post", "post_id", post.ID, "error", err)
			continue
		}
		s.Logger.Info("New post archived",
			"post_id", post.ID,
			"username", post.Username,
			"posted", formatter.TimeAgo(post.CreatedAt, time.Now()),
		)
	}
	return nil
}

// SyncStoriesOnce fetches and groups the story list and archives every story
// item not seen before.
func (s *SyncerImpl) SyncStoriesOnce(ctx context.Context) error {
	if !s.Limiter.Allow("story") {
		s.Logger.Warn("Story sync skipped by rate limiter")
		return nil
	}

	grouped, err := s.Stories.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh stories: %w", err)
	}

	for _, group := range grouped {
		for _, story := range group.Stories {
			seen, err := s.StoryArchive.Exists(ctx, story.ID)
			if err != nil {
				s.Logger.Error("Failed to check seen story", "story_id", story.ID, "error", err)
				continue
			}
			if seen {
				continue
			}
			if err := s.StoryArchive.Mark(ctx, story); err != nil {
				s.Logger.Error("Failed to archive story", "story_id", story.ID, "error", err)
				continue
			}
			s.Logger.Info("New story archived",
				"story_id", story.ID,
				"username", story.Username,
				"posted", formatter.TimeAgo(story.CreatedAt, time.Now()),
			)
		}
	}
	return nil
}
