package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	UserTypeAdmin = "admin"
	UserTypeUser  = "user"
)

// User is a registered account. Passwords are stored as bcrypt hashes
// and never leave the repository layer.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Nickname     string
	Type         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u User) IsAdmin() bool {
	return u.Type == UserTypeAdmin
}
