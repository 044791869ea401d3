package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID
	CreatedAt      time.Time
	Name           string
	Username       string
	Email          string
	HashedPassword string
	EmailVerified  *time.Time // nil until the verification link is followed
	ActiveStatus   bool
	DelStatus      bool
}

func (u *User) IsVerified() bool {
	return u.EmailVerified != nil
}
