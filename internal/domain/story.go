package domain

import "time"

// Story is one ephemeral item as the server returns it, flat and unsorted.
type Story struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	ProfileImage string    `json:"profileImage"`
	Image        string    `json:"image"`
	Caption      string    `json:"caption"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserStories groups one user's stories together with the display identity
// and the most recent posting time. This is a client-side aggregation, not a
// server entity; it is rebuilt in full on every fetch.
type UserStories struct {
	Username     string
	ProfileImage string
	LatestTime   time.Time
	Stories      []Story
}
