// Package access decides who may see the admin surface and which screen a session lands on.
package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"GREENPATH_BACK-END/internal/models"
	"GREENPATH_BACK-END/internal/repository"
)

// RoleLookup reads the role stored on a user's profile
type RoleLookup interface {
	GetRole(ctx context.Context, userID uuid.UUID) (string, error)
}

// Resolver checks the admin role.
// app_metadata.role wins; otherwise profiles.role is consulted. user_metadata is ignored.
type Resolver struct {
	roles RoleLookup
}

// NewResolver creates a Resolver backed by the profile store
func NewResolver(roles RoleLookup) *Resolver {
	return &Resolver{roles: roles}
}

// IsAdmin reports whether user holds the admin role. A missing profile is not an error.
func (r *Resolver) IsAdmin(ctx context.Context, user models.AuthUser) (bool, error) {
	if user.AppRole == models.RoleAdmin {
		return true, nil
	}
	if r.roles == nil || user.ID == uuid.Nil {
		return false, nil
	}

	role, err := r.roles.GetRole(ctx, user.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup role for %s: %w", user.ID, err)
	}
	return role == models.RoleAdmin, nil
}
