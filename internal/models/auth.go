package models

import "github.com/google/uuid"

// AuthUser is the caller identified by a verified platform access token
type AuthUser struct {
	ID           uuid.UUID
	Email        string
	Name         string
	MetadataRole string // user_metadata.role, editable by the user; never trusted for access
	AppRole      string // app_metadata.role, set only with the service role key
	AccessToken  string
}

// DisplayName returns the user's name or "Anonymous"
func (u AuthUser) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return "Anonymous"
}
