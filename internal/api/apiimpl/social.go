package apiimpl

import (
	"context"
	"net/http"
	"net/url"

	"github.com/minhnghia2k3/lumigram/internal/domain"
)

func (c *ApiImpl) Follow(ctx context.Context, userID string) error {
	query := url.Values{"user_id": {userID}}
	return c.do(ctx, http.MethodPost, "/follow/", query, nil, nil, true)
}

func (c *ApiImpl) Unfollow(ctx context.Context, userID string) error {
	query := url.Values{"user_id": {userID}}
	return c.do(ctx, http.MethodDelete, "/unfollow/", query, nil, nil, true)
}

func (c *ApiImpl) Followers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.get(ctx, "/followers/", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *ApiImpl) Following(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.get(ctx, "/following/", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *ApiImpl) SearchUsers(ctx context.Context, query string) ([]domain.User, error) {
	q := url.Values{"query": {query}}
	var users []domain.User
	if err := c.get(ctx, "/search-user/", q, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *ApiImpl) StoryList(ctx context.Context) ([]domain.Story, error) {
	var stories []domain.Story
	if err := c.get(ctx, "/story-list/", nil, &stories); err != nil {
		return nil, err
	}
	return stories, nil
}

func (c *ApiImpl) Notifications(ctx context.Context) ([]domain.Notification, error) {
	var items []domain.Notification
	if err := c.get(ctx, "/notification/", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}
