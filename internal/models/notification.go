package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification types
const (
	NotificationStatusChanged = "waste_status_changed"
	NotificationPostRemoved   = "waste_post_removed"
)

// Notification is an in-app message addressed to a single user
type Notification struct {
	ID        uuid.UUID      `json:"id" db:"id"`
	UserID    uuid.UUID      `json:"user_id" db:"user_id"`
	Type      string         `json:"type" db:"type"`
	Title     string         `json:"title" db:"title"`
	Message   *string        `json:"message" db:"message"`
	Data      map[string]any `json:"data,omitempty" db:"data"`
	Read      bool           `json:"read" db:"read"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}

// NotificationFilter narrows a notification listing
type NotificationFilter struct {
	UnreadOnly bool
	Limit      int
	Offset     int
}
