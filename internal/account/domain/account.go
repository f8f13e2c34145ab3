package domain

import "time"

type ID string

const DefaultRole = "user"

// Account is a login identity. PasswordHash is always a bcrypt hash.
type Account struct {
	ID           ID
	Username     string
	Name         string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Public is the part of an account that is safe to return to clients.
type Public struct {
	ID       ID     `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

func (a Account) Public() Public {
	return Public{ID: a.ID, Username: a.Username, Name: a.Name}
}
