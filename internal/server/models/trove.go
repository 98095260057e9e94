package models

import "time"

// Trove is one revision of a user's stored payload. Writes append rows;
// the latest row per user is the current one.
type Trove struct {
	ID        int64
	Text      string
	UserID    int64
	CreatedAt time.Time
}
