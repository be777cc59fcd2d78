package apiimpl

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/minhnghia2k3/lumigram/internal/domain"
)

func (c *ApiImpl) Posts(ctx context.Context, skip, limit int) ([]domain.Post, error) {
	query := url.Values{
		"skip":  {strconv.Itoa(skip)},
		"limit": {strconv.Itoa(limit)},
	}
	var posts []domain.Post
	if err := c.get(ctx, "/posts/", query, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *ApiImpl) UserPosts(ctx context.Context, username string, skip, limit int) ([]domain.Post, error) {
	query := url.Values{
		"username": {username},
		"skip":     {strconv.Itoa(skip)},
		"limit":    {strconv.Itoa(limit)},
	}
	var posts []domain.Post
	if err := c.get(ctx, "/posts/", query, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *ApiImpl) PostLikes(ctx context.Context, postID string) ([]domain.LikeRecord, error) {
	query := url.Values{"post_id": {postID}}
	var likes []domain.LikeRecord
	if err := c.get(ctx, "/post/like/", query, &likes); err != nil {
		return nil, err
	}
	return likes, nil
}

// ToggleLike flips the like server-side; the same call both likes and
// unlikes.
func (c *ApiImpl) ToggleLike(ctx context.Context, postID string) error {
	query := url.Values{"post_id": {postID}}
	return c.do(ctx, http.MethodPost, "/post/like/", query, nil, nil, true)
}

func (c *ApiImpl) AddComment(ctx context.Context, postID, text string) (string, error) {
	body := map[string]string{"content": text}
	var resp struct {
		ID string `json:"id"`
	}
	err := c.do(ctx, http.MethodPost, "/post/"+postID+"/comment/", nil, body, &resp, true)
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (c *ApiImpl) AddSave(ctx context.Context, postID string) error {
	query := url.Values{"post_id": {postID}}
	return c.do(ctx, http.MethodPost, "/saves/", query, nil, nil, true)
}

func (c *ApiImpl) RemoveSave(ctx context.Context, postID string) error {
	query := url.Values{"post_id": {postID}}
	return c.do(ctx, http.MethodDelete, "/saves/", query, nil, nil, true)
}

func (c *ApiImpl) AddFavorite(ctx context.Context, postID string) error {
	return c.do(ctx, http.MethodPost, "/post/"+postID+"/favorite/", nil, nil, nil, true)
}

func (c *ApiImpl) RemoveFavorite(ctx context.Context, postID string) error {
	return c.do(ctx, http.MethodDelete, "/post/"+postID+"/favorite/", nil, nil, nil, true)
}
