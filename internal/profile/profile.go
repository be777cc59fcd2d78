package profile

import (
	"context"

	"github.com/minhnghia2k3/lumigram/internal/api"
	"github.com/minhnghia2k3/lumigram/internal/domain"
	"github.com/minhnghia2k3/lumigram/internal/session"
	pkgerrors "github.com/minhnghia2k3/lumigram/pkg/errors"
	"github.com/minhnghia2k3/lumigram/pkg/logger"
)

// Service covers the profile page's reads: follower/following counts, user
// search and the notification feed. Failed reads leave prior state with the
// caller untouched; this service holds no cache of its own.
type Service struct {
	client  api.Client
	session session.Store
	log     logger.Logger
}

func New(client api.Client, sess session.Store, log logger.Logger) *Service {
	return &Service{
		client:  client,
		session: sess,
		log:     log,
	}
}

// FollowCounts derives the counters from the followers/following list
// lengths.
func (s *Service) FollowCounts(ctx context.Context) (domain.FollowCounts, error) {
	var counts domain.FollowCounts
	if !s.session.Authenticated() {
		return counts, pkgerrors.ErrNotAuthenticated
	}

	followers, err := s.client.Followers(ctx)
	if err != nil {
		s.log.Error("Failed to fetch followers", "error", err)
		return counts, err
	}
	following, err := s.client.Following(ctx)
	if err != nil {
		s.log.Error("Failed to fetch following", "error", err)
		return counts, err
	}

	counts.Followers = len(followers)
	counts.Following = len(following)
	return counts, nil
}

// SearchUsers looks up usernames matching query.
func (s *Service) SearchUsers(ctx context.Context, query string) ([]domain.User, error) {
	if query == "" {
		return nil, nil
	}
	return s.client.SearchUsers(ctx, query)
}

// Notifications fetches the notification feed.
func (s *Service) Notifications(ctx context.Context) ([]domain.Notification, error) {
	return s.client.Notifications(ctx)
}
