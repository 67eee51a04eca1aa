package domain

import "time"

// Channel represents one watchable Telegram channel as cached locally.
// Title may be stale relative to the platform; CachedAt records the last
// refresh from the external source.
type Channel struct {
	ID       int64     `json:"id"`
	Username string    `json:"username,omitempty"`
	Title    string    `json:"title"`
	CachedAt time.Time `json:"cached_at"`
}
