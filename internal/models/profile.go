package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Profile is the application-side record kept for every auth user
type Profile struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Name      string    `json:"name" db:"name"`
	Role      string    `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
