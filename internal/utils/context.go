package utils

import (
	"context"

	"github.com/google/uuid"

	"GREENPATH_BACK-END/internal/models"
)

type contextKey string

const authUserKey contextKey = "auth_user"

// WithAuthUser stores the verified caller in ctx
func WithAuthUser(ctx context.Context, u models.AuthUser) context.Context {
	return context.WithValue(ctx, authUserKey, u)
}

// GetAuthUser returns the verified caller, if any
func GetAuthUser(ctx context.Context) (models.AuthUser, bool) {
	u, ok := ctx.Value(authUserKey).(models.AuthUser)
	return u, ok
}

// GetUserIDFromContext returns the verified caller's id
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	u, ok := GetAuthUser(ctx)
	if !ok || u.ID == uuid.Nil {
		return uuid.Nil, false
	}
	return u.ID, true
}
