package handlers

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"GREENPATH_BACK-END/internal/access"
	"GREENPATH_BACK-END/internal/dto"
	"GREENPATH_BACK-END/internal/models"
	"GREENPATH_BACK-END/internal/repository"
	"GREENPATH_BACK-END/internal/utils"
)

// SessionHandler tells the browser which screen to render for the current caller
type SessionHandler struct {
	admins AdminResolver
	log    *zap.Logger
}

// NewSessionHandler creates a SessionHandler
func NewSessionHandler(admins AdminResolver, log *zap.Logger) *SessionHandler {
	return &SessionHandler{admins: admins, log: log}
}

// GetSession godoc
// @Summary      Current session
// @Description  Works with or without a token. Unauthenticated callers land on the landing screen.
// @Description  With screen and event set, next_screen is the screen the app moves to.
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Param        screen  query     string  false  "Current screen"  Enums(landing, auth, dashboard, admin_dashboard)
// @Param        event   query     string  false  "Navigation event"  Enums(get_started, back, authenticated, signed_out)
// @Success      200  {object}  dto.SessionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/session [get]
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	var (
		current access.Screen
		event   access.Event
	)
	q := r.URL.Query()
	transition := q.Get("screen") != "" || q.Get("event") != ""
	if transition {
		var okScreen, okEvent bool
		current, okScreen = access.ParseScreen(q.Get("screen"))
		event, okEvent = access.ParseEvent(q.Get("event"))
		if !okScreen || !okEvent {
			utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid screen or event", "")
			return
		}
	}

	resp := dto.SessionResponse{}
	user, ok := utils.GetAuthUser(r.Context())
	if ok {
		isAdmin, err := h.admins.IsAdmin(r.Context(), user)
		if err != nil {
			h.log.Error("admin role lookup failed", zap.String("user_id", user.ID.String()), zap.Error(err))
			utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to verify role", "")
			return
		}
		role := models.RoleUser
		if isAdmin {
			role = models.RoleAdmin
		}
		resp.Authenticated = true
		resp.IsAdmin = isAdmin
		resp.User = &dto.UserResponse{
			ID:    user.ID.String(),
			Email: user.Email,
			Name:  user.DisplayName(),
			Role:  role,
		}
	}
	resp.Screen = string(access.ScreenFor(resp.Authenticated, resp.IsAdmin))
	if transition {
		resp.NextScreen = string(access.Next(current, event, resp.IsAdmin))
	}
	utils.WriteJSONResponse(w, http.StatusOK, resp)
}

// ProfileHandler serves the caller's own profile
type ProfileHandler struct {
	profiles ProfileStore
	log      *zap.Logger
}

// NewProfileHandler creates a ProfileHandler
func NewProfileHandler(profiles ProfileStore, log *zap.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, log: log}
}

// GetProfile godoc
// @Summary      Get my profile
// @Description  Returns the caller's profile, creating it from the token on first access
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.ProfileResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/profile [get]
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := authUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	p, err := h.profiles.Get(ctx, user.ID)
	if errors.Is(err, repository.ErrNotFound) {
		p, err = h.profiles.Upsert(ctx, user.ID, user.Email, user.Name)
	}
	if err != nil {
		h.log.Error("failed to load profile", zap.String("user_id", user.ID.String()), zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", "Failed to load profile")
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, toProfileResponse(p))
}

// UpdateProfile godoc
// @Summary      Update my profile
// @Description  Changes the display name. The role cannot be changed here.
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      dto.UpdateProfileRequest  true  "Profile payload"
// @Success      200      {object}  dto.ProfileResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      401      {object}  dto.ErrorResponse
// @Failure      500      {object}  dto.ErrorResponse
// @Router       /api/profile [put]
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := authUser(w, r)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	p, err := h.profiles.UpdateName(ctx, user.ID, req.Name)
	if errors.Is(err, repository.ErrNotFound) {
		p, err = h.profiles.Upsert(ctx, user.ID, user.Email, req.Name)
	}
	if err != nil {
		h.log.Error("failed to update profile", zap.String("user_id", user.ID.String()), zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", "Failed to update profile")
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, toProfileResponse(p))
}
