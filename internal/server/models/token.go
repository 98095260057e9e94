package models

import "time"

// APIToken is the stored record of an issued bearer token. The revoked flag
// is monotonic: it flips false to true exactly once and never back.
type APIToken struct {
	ID        int64
	Token     string
	UserID    int64
	Revoked   bool
	CreatedAt time.Time
}
