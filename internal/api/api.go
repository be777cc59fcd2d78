package api

import (
	"context"

	"github.com/minhnghia2k3/lumigram/internal/domain"
)

// ForcedLogoutFunc is invoked when the server rejects the credential on any
// call. The session is already purged when it runs; the consumer's job is the
// redirect-to-login analog (stopping work, surfacing the state).
type ForcedLogoutFunc func()

// Client is the typed surface over the Lumigram REST backend. Every
// authenticated call reads the credential store at call time and
// short-circuits locally with errors.ErrNotAuthenticated when no credential
// is present.
type Client interface {
	// Auth and account.
	Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error)
	Signup(ctx context.Context, req domain.SignupRequest) (*domain.AuthResponse, error)
	Me(ctx context.Context) (*domain.User, error)
	CreatePersonalInfo(ctx context.Context, info domain.PersonalInfo) error
	UsernameSuggestions(ctx context.Context, baseName string) ([]string, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, newPassword string) error

	// Posts and reactions.
	Posts(ctx context.Context, skip, limit int) ([]domain.Post, error)
	UserPosts(ctx context.Context, username string, skip, limit int) ([]domain.Post, error)
	PostLikes(ctx context.Context, postID string) ([]domain.LikeRecord, error)
	ToggleLike(ctx context.Context, postID string) error
	AddComment(ctx context.Context, postID, text string) (string, error)
	AddSave(ctx context.Context, postID string) error
	RemoveSave(ctx context.Context, postID string) error
	AddFavorite(ctx context.Context, postID string) error
	RemoveFavorite(ctx context.Context, postID string) error

	// Social graph.
	Follow(ctx context.Context, userID string) error
	Unfollow(ctx context.Context, userID string) error
	Followers(ctx context.Context) ([]domain.User, error)
	Following(ctx context.Context) ([]domain.User, error)
	SearchUsers(ctx context.Context, query string) ([]domain.User, error)

	// Stories and notifications.
	StoryList(ctx context.Context) ([]domain.Story, error)
	Notifications(ctx context.Context) ([]domain.Notification, error)

	// OnForcedLogout registers the handler run after a 401 purges the
	// session. Only one handler is kept.
	OnForcedLogout(fn ForcedLogoutFunc)
}
