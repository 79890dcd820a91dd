package models

import (
	"time"

	"github.com/google/uuid"
)

// Waste post moderation statuses
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCollected  = "collected"
)

// ValidStatus reports whether s is a known waste post status
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCollected:
		return true
	}
	return false
}

// WastePost represents a user-submitted report of observed waste
type WastePost struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	UserEmail   string    `json:"user_email" db:"user_email"`
	UserName    string    `json:"user_name" db:"user_name"`
	Type        string    `json:"type" db:"type"`
	Title       string    `json:"title" db:"title"`
	Location    string    `json:"location" db:"location"`
	Description string    `json:"description" db:"description"`
	Latitude    *float64  `json:"latitude" db:"latitude"`
	Longitude   *float64  `json:"longitude" db:"longitude"`
	ImageURL    *string   `json:"image_url" db:"image_url"`
	ImagePath   *string   `json:"-" db:"image_path"` // object key inside the bucket
	Status      string    `json:"status" db:"status"`
	ItemName    *string   `json:"item_name" db:"item_name"`
	BinType     *string   `json:"bin_type" db:"bin_type"`
	Recyclable  *bool     `json:"recyclable" db:"recyclable"`
	Tips        []string  `json:"tips" db:"tips"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// WastePostFilter narrows a waste post listing
type WastePostFilter struct {
	UserID *uuid.UUID
	Status string
	Type   string
	Limit  int
	Offset int
}

// WasteStats aggregates waste posts for the admin dashboard
type WasteStats struct {
	Total      int            `json:"total"`
	Pending    int            `json:"pending"`
	InProgress int            `json:"in_progress"`
	Collected  int            `json:"collected"`
	ByType     map[string]int `json:"by_type"`
}
