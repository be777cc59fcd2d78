package stories

import (
	"context"
	"sort"
	"sync"

	"github.com/minhnghia2k3/lumigram/internal/api"
	"github.com/minhnghia2k3/lumigram/internal/domain"
	"github.com/minhnghia2k3/lumigram/internal/session"
	pkgerrors "github.com/minhnghia2k3/lumigram/pkg/errors"
	"github.com/minhnghia2k3/lumigram/pkg/logger"
)

// Service fetches the flat story list and groups it per user. The grouping
// is rebuilt in full on every fetch; there is no incremental merge.
type Service struct {
	client  api.Client
	session session.Store
	log     logger.Logger

	mu      sync.Mutex
	grouped []domain.UserStories
}

func New(client api.Client, sess session.Store, log logger.Logger) *Service {
	return &Service{
		client:  client,
		session: sess,
		log:     log,
	}
}

// Fetch loads the story list and returns it grouped by user, most recently
// posting user first. The result is also cached for Grouped.
func (s *Service) Fetch(ctx context.Context) ([]domain.UserStories, error) {
	if !s.session.Authenticated() {
		s.log.Warn("Story fetch refused, no access token")
		return nil, pkgerrors.ErrNotAuthenticated
	}

	stories, err := s.client.StoryList(ctx)
	if err != nil {
		s.log.Error("Failed to fetch stories", "error", err)
		return nil, err
	}

	grouped := Group(stories)

	s.mu.Lock()
	s.grouped = grouped
	s.mu.Unlock()

	return grouped, nil
}

// Grouped returns the last fetched grouping.
func (s *Service) Grouped() []domain.UserStories {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.UserStories, len(s.grouped))
	copy(out, s.grouped)
	return out
}

// Group aggregates flat stories per username, keeping each user's items in
// arrival order and tracking the most recent posting time. Users are ordered
// newest first.
func Group(stories []domain.Story) []domain.UserStories {
	byUser := make(map[string]*domain.UserStories)
	order := make([]string, 0)

	for _, story := range stories {
		group, ok := byUser[story.Username]
		if !ok {
			group = &domain.UserStories{
				Username:     story.Username,
				ProfileImage: story.ProfileImage,
				LatestTime:   story.CreatedAt,
			}
			byUser[story.Username] = group
			order = append(order, story.Username)
		}
		if story.CreatedAt.After(group.LatestTime) {
			group.LatestTime = story.CreatedAt
		}
		group.Stories = append(group.Stories, story)
	}

	out := make([]domain.UserStories, 0, len(order))
	for _, username := range order {
		out = append(out, *byUser[username])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LatestTime.After(out[j].LatestTime)
	})
	return out
}
