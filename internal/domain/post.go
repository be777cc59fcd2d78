package domain

import "time"

// Post is a feed entry mirrored from the server. It is never mutated in
// place except for the counters touched by optimistic actions.
type Post struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	ImageURL       string    `json:"image_url"`
	Caption        string    `json:"caption"`
	Location       string    `json:"location"`
	PostType       string    `json:"post_type"`
	CreatedBy      string    `json:"created_by"`
	ProfilePicture string    `json:"user_profile_picture"`
	CreatedAt      time.Time `json:"created_at"`
	Likes          int       `json:"likes"`
	Saves          int       `json:"saves"`
	Comments       []Comment `json:"comments"`
}

// Comment belongs to a post. Comments are appended client-side before the
// server confirms them and are never edited or deleted in this client.
type Comment struct {
	ID             string    `json:"id"`
	PostID         string    `json:"post_id,omitempty"`
	Username       string    `json:"username"`
	ProfilePicture string    `json:"user_profile_picture"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"created_at"`
}

// LikeRecord is one (post, user) like pair with a snapshot of the liking
// user's display identity. The like-record list for a post is the source of
// truth for both the count and is-liked-by-current-user.
type LikeRecord struct {
	UserID         string `json:"user_id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profile_picture"`
}

// Notification is one entry of the notification feed.
type Notification struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Actor     string    `json:"actor"`
	PostID    string    `json:"post_id,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
