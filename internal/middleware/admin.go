package middleware

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"GREENPATH_BACK-END/internal/models"
	"GREENPATH_BACK-END/internal/utils"
)

// AdminResolver decides whether a verified caller holds the admin role
type AdminResolver interface {
	IsAdmin(ctx context.Context, user models.AuthUser) (bool, error)
}

// RequireAdmin must run inside AuthMiddleware
func RequireAdmin(next http.HandlerFunc, resolver AdminResolver, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := utils.GetAuthUser(r.Context())
		if !ok {
			utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "User not authenticated")
			return
		}

		isAdmin, err := resolver.IsAdmin(r.Context(), user)
		if err != nil {
			log.Error("admin role lookup failed", zap.String("user_id", user.ID.String()), zap.Error(err))
			utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to verify role", "")
			return
		}
		if !isAdmin {
			utils.WriteErrorResponse(w, http.StatusForbidden, "Forbidden: Admins only", "")
			return
		}
		next.ServeHTTP(w, r)
	}
}
