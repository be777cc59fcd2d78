package toggle

import (
	"context"
	"strconv"

	"github.com/minhnghia2k3/lumigram/internal/api"
	"github.com/minhnghia2k3/lumigram/internal/localstate"
	"github.com/minhnghia2k3/lumigram/internal/session"
	"github.com/minhnghia2k3/lumigram/pkg/logger"
)

// Likes is the like toggle. The like endpoint flips in both directions, so
// there is no separate Remove call, and every successful mutation is followed
// by a reconciliation fetch of the like-record list.
type Likes struct{ *Engine }

// Saves is the save toggle, persisted under its own durable key.
type Saves struct{ *Engine }

// Favorites is the favorite toggle, persisted under its own durable key.
type Favorites struct{ *Engine }

// Follows is the follow toggle. It lives only in memory for the session.
type Follows struct{ *Engine }

func NewLikes(client api.Client, sess session.Store, state *localstate.Store, log logger.Logger) *Likes {
	return &Likes{NewEngine(localstate.LikedPosts, true, sess, state, log, RemoteOps{
		Add: client.ToggleLike,
		Reconcile: func(ctx context.Context, postID string) (bool, int, error) {
			records, err := client.PostLikes(ctx, postID)
			if err != nil {
				return false, 0, err
			}
			liked := false
			if me := sess.CurrentUser(); me != nil {
				myID := strconv.FormatInt(me.ID, 10)
				for _, rec := range records {
					if rec.UserID == myID {
						liked = true
						break
					}
				}
			}
			return liked, len(records), nil
		},
	})}
}

func NewSaves(client api.Client, sess session.Store, state *localstate.Store, log logger.Logger) *Saves {
	return &Saves{NewEngine(localstate.SavedPosts, true, sess, state, log, RemoteOps{
		Add:    client.AddSave,
		Remove: client.RemoveSave,
	})}
}

func NewFavorites(client api.Client, sess session.Store, state *localstate.Store, log logger.Logger) *Favorites {
	return &Favorites{NewEngine(localstate.FavoritePosts, true, sess, state, log, RemoteOps{
		Add:    client.AddFavorite,
		Remove: client.RemoveFavorite,
	})}
}

func NewFollows(client api.Client, sess session.Store, state *localstate.Store, log logger.Logger) *Follows {
	return &Follows{NewEngine(localstate.FollowData, false, sess, state, log, RemoteOps{
		Add:    client.Follow,
		Remove: client.Unfollow,
	})}
}
