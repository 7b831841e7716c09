package domain

import "time"

type ID string

// User is an account holder. Email is unique case-insensitively; callers
// normalize it to lower case before storage and lookup.
type User struct {
	ID           ID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Summary is the client-visible projection of a User.
type Summary struct {
	ID        ID
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u User) Summary() Summary {
	return Summary{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
