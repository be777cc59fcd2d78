// Package apitest provides a configurable in-memory api.Client for tests.
// Unset behaviors return zero values; every call is counted so tests can
// assert how many requests an operation issued.
package apitest

import (
	"context"
	"sync"

	"github.com/minhnghia2k3/lumigram/internal/api"
	"github.com/minhnghia2k3/lumigram/internal/domain"
)

type Client struct {
	LoginFn               func(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error)
	SignupFn              func(ctx context.Context, req domain.SignupRequest) (*domain.AuthResponse, error)
	MeFn                  func(ctx context.Context) (*domain.User, error)
	CreatePersonalInfoFn  func(ctx context.Context, info domain.PersonalInfo) error
	UsernameSuggestionsFn func(ctx context.Context, baseName string) ([]string, error)
	ForgotPasswordFn      func(ctx context.Context, email string) error
	ResetPasswordFn       func(ctx context.Context, newPassword string) error
	PostsFn               func(ctx context.Context, skip, limit int) ([]domain.Post, error)
	UserPostsFn           func(ctx context.Context, username string, skip, limit int) ([]domain.Post, error)
	PostLikesFn           func(ctx context.Context, postID string) ([]domain.LikeRecord, error)
	ToggleLikeFn          func(ctx context.Context, postID string) error
	AddCommentFn          func(ctx context.Context, postID, text string) (string, error)
	AddSaveFn             func(ctx context.Context, postID string) error
	RemoveSaveFn          func(ctx context.Context, postID string) error
	AddFavoriteFn         func(ctx context.Context, postID string) error
	RemoveFavoriteFn      func(ctx context.Context, postID string) error
	FollowFn              func(ctx context.Context, userID string) error
	UnfollowFn            func(ctx context.Context, userID string) error
	FollowersFn           func(ctx context.Context) ([]domain.User, error)
	FollowingFn           func(ctx context.Context) ([]domain.User, error)
	SearchUsersFn         func(ctx context.Context, query string) ([]domain.User, error)
	StoryListFn           func(ctx context.Context) ([]domain.Story, error)
	NotificationsFn       func(ctx context.Context) ([]domain.Notification, error)

	mu     sync.Mutex
	calls  map[string]int
	logout api.ForcedLogoutFunc
}

var _ api.Client = (*Client)(nil)

func (c *Client) record(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.calls == nil {
		c.calls = make(map[string]int)
	}
	c.calls[name]++
}

// Calls returns how many times the named method ran.
func (c *Client) Calls(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[name]
}

// TotalCalls returns the number of calls across every method.
func (c *Client) TotalCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, n := range c.calls {
		total += n
	}
	return total
}

func (c *Client) OnForcedLogout(fn api.ForcedLogoutFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logout = fn
}

// ForceLogout runs the registered forced-logout handler.
func (c *Client) ForceLogout() {
	c.mu.Lock()
	fn := c.logout
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (c *Client) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	c.record("Login")
	if c.LoginFn != nil {
		return c.LoginFn(ctx, req)
	}
	return &domain.AuthResponse{Token: "test-token"}, nil
}

func (c *Client) Signup(ctx context.Context, req domain.SignupRequest) (*domain.AuthResponse, error) {
	c.record("Signup")
	if c.SignupFn != nil {
		return c.SignupFn(ctx, req)
	}
	return &domain.AuthResponse{Token: "test-token"}, nil
}

func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	c.record("Me")
	if c.MeFn != nil {
		return c.MeFn(ctx)
	}
	return &domain.User{ID: 1, Username: "tester"}, nil
}

func (c *Client) CreatePersonalInfo(ctx context.Context, info domain.PersonalInfo) error {
	c.record("CreatePersonalInfo")
	if c.CreatePersonalInfoFn != nil {
		return c.CreatePersonalInfoFn(ctx, info)
	}
	return nil
}

func (c *Client) UsernameSuggestions(ctx context.Context, baseName string) ([]string, error) {
	c.record("UsernameSuggestions")
	if c.UsernameSuggestionsFn != nil {
		return c.UsernameSuggestionsFn(ctx, baseName)
	}
	return nil, nil
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	c.record("ForgotPassword")
	if c.ForgotPasswordFn != nil {
		return c.ForgotPasswordFn(ctx, email)
	}
	return nil
}

func (c *Client) ResetPassword(ctx context.Context, newPassword string) error {
	c.record("ResetPassword")
	if c.ResetPasswordFn != nil {
		return c.ResetPasswordFn(ctx, newPassword)
	}
	return nil
}

func (c *Client) Posts(ctx context.Context, skip, limit int) ([]domain.Post, error) {
	c.record("Posts")
	if c.PostsFn != nil {
		return c.PostsFn(ctx, skip, limit)
	}
	return nil, nil
}

func (c *Client) UserPosts(ctx context.Context, username string, skip, limit int) ([]domain.Post, error) {
	c.record("UserPosts")
	if c.UserPostsFn != nil {
		return c.UserPostsFn(ctx, username, skip, limit)
	}
	return nil, nil
}

func (c *Client) PostLikes(ctx context.Context, postID string) ([]domain.LikeRecord, error) {
	c.record("PostLikes")
	if c.PostLikesFn != nil {
		return c.PostLikesFn(ctx, postID)
	}
	return nil, nil
}

func (c *Client) ToggleLike(ctx context.Context, postID string) error {
	c.record("ToggleLike")
	if c.ToggleLikeFn != nil {
		return c.ToggleLikeFn(ctx, postID)
	}
	return nil
}

func (c *Client) AddComment(ctx context.Context, postID, text string) (string, error) {
	c.record("AddComment")
	if c.AddCommentFn != nil {
		return c.AddCommentFn(ctx, postID, text)
	}
	return "", nil
}

func (c *Client) AddSave(ctx context.Context, postID string) error {
	c.record("AddSave")
	if c.AddSaveFn != nil {
		return c.AddSaveFn(ctx, postID)
	}
	return nil
}

func (c *Client) RemoveSave(ctx context.Context, postID string) error {
	c.record("RemoveSave")
	if c.RemoveSaveFn != nil {
		return c.RemoveSaveFn(ctx, postID)
	}
	return nil
}

func (c *Client) AddFavorite(ctx context.Context, postID string) error {
	c.record("AddFavorite")
	if c.AddFavoriteFn != nil {
		return c.AddFavoriteFn(ctx, postID)
	}
	return nil
}

func (c *Client) RemoveFavorite(ctx context.Context, postID string) error {
	c.record("RemoveFavorite")
	if c.RemoveFavoriteFn != nil {
		return c.RemoveFavoriteFn(ctx, postID)
	}
	return nil
}

func (c *Client) Follow(ctx context.Context, userID string) error {
	c.record("Follow")
	if c.FollowFn != nil {
		return c.FollowFn(ctx, userID)
	}
	return nil
}

func (c *Client) Unfollow(ctx context.Context, userID string) error {
	c.record("Unfollow")
	if c.UnfollowFn != nil {
		return c.UnfollowFn(ctx, userID)
	}
	return nil
}

func (c *Client) Followers(ctx context.Context) ([]domain.User, error) {
	c.record("Followers")
	if c.FollowersFn != nil {
		return c.FollowersFn(ctx)
	}
	return nil, nil
}

func (c *Client) Following(ctx context.Context) ([]domain.User, error) {
	c.record("Following")
	if c.FollowingFn != nil {
		return c.FollowingFn(ctx)
	}
	return nil, nil
}

func (c *Client) SearchUsers(ctx context.Context, query string) ([]domain.User, error) {
	c.record("SearchUsers")
	if c.SearchUsersFn != nil {
		return c.SearchUsersFn(ctx, query)
	}
	return nil, nil
}

func (c *Client) StoryList(ctx context.Context) ([]domain.Story, error) {
	c.record("StoryList")
	if c.StoryListFn != nil {
		return c.StoryListFn(ctx)
	}
	return nil, nil
}

func (c *Client) Notifications(ctx context.Context) ([]domain.Notification, error) {
	c.record("Notifications")
	if c.NotificationsFn != nil {
		return c.NotificationsFn(ctx)
	}
	return nil, nil
}
