package models

import "time"

type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Verified     bool
	Subscribed   bool
	Admin        bool
	CreatedAt    time.Time
}

// PublicUser is the client-facing projection of User. The password hash
// never leaves the server.
type PublicUser struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt,
	}
}
