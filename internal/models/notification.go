package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationSent   = "S"
	NotificationFailed = "F"
)

type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Subject   string
	Message   string
	Status    string
	Read      bool
	CreatedAt time.Time
}
