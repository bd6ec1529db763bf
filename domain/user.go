// Package domain contains core concepts of the messaging system.
// Entities carry their own invariants and mutate only through their
// own operations. No storage, network, or UI logic should be added here.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an account holder. Username is unique process-wide; the
// repository enforces uniqueness at commit time.
type User struct {
	ID           uuid.UUID
	Username     string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// NewUser builds a user with a fresh identity. The password must already
// be hashed; plain passwords never reach the domain.
func NewUser(username, name, passwordHash string) User {
	return User{
		ID:           uuid.New(),
		Username:     username,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
}

// Rename updates the display name. The username itself is immutable.
func (u *User) Rename(name string) {
	u.Name = name
}
