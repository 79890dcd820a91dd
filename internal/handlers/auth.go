package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"GREENPATH_BACK-END/internal/config"
	"GREENPATH_BACK-END/internal/dto"
	"GREENPATH_BACK-END/internal/models"
	"GREENPATH_BACK-END/internal/supabase"
	"GREENPATH_BACK-END/internal/utils"
)

// AuthHandler handles authentication-related HTTP requests.
// Credentials are checked by the auth provider; this handler only relays and keeps profiles in sync.
type AuthHandler struct {
	auth     AuthProvider
	profiles ProfileStore
	admins   AdminResolver
	app      config.AppConfig
	log      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(auth AuthProvider, profiles ProfileStore, admins AdminResolver, app config.AppConfig, log *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, profiles: profiles, admins: admins, app: app, log: log}
}

// Signup handles account creation
// @Summary Register a new user
// @Description Create a confirmed account with email, password and display name
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.SignupRequest true "User registration data"
// @Success 201 {object} dto.SignupResponse "User created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or rejected by the auth provider"
// @Failure 502 {object} dto.ErrorResponse "Auth provider unavailable"
// @Router /api/auth/signup [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if req.Email == "" || req.Password == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Email and password are required", "")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	user, err := h.auth.SignUp(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		h.writeProviderError(w, "signup", err)
		return
	}
	h.log.Info("user created", zap.String("user_id", user.ID))

	h.syncProfile(ctx, user)
	utils.WriteJSONResponse(w, http.StatusCreated, dto.SignupResponse{
		Success: true,
		User:    toUserResponse(*user, models.RoleUser),
	})
}

// Login handles password login
// @Summary Login user
// @Description Authenticate with email and password and receive a session
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.AuthResponse "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 502 {object} dto.ErrorResponse "Auth provider unavailable"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	session, err := h.auth.SignIn(ctx, strings.TrimSpace(req.Email), req.Password)
	if errors.Is(err, supabase.ErrInvalidCredentials) {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid credentials", "Email or password is incorrect")
		return
	}
	if err != nil {
		h.writeProviderError(w, "login", err)
		return
	}

	h.writeSession(ctx, w, session)
}

// Refresh exchanges a refresh token for a new session
// @Summary Refresh session
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.RefreshRequest true "Refresh token"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshRequest
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	session, err := h.auth.Refresh(ctx, req.RefreshToken)
	if errors.Is(err, supabase.ErrInvalidCredentials) {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid refresh token", "Please sign in again")
		return
	}
	if err != nil {
		h.writeProviderError(w, "refresh", err)
		return
	}

	h.writeSession(ctx, w, session)
}

// Logout revokes the caller's session
// @Summary Logout
// @Tags authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := authUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.auth.SignOut(ctx, user.AccessToken); err != nil {
		h.writeProviderError(w, "logout", err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.MessageResponse{Success: true, Message: "Signed out"})
}

// ForgotPassword asks the auth provider to email a recovery link
// @Summary Request password reset
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.ForgotPasswordRequest true "Account email"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ForgotPasswordRequest
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		return
	}

	redirect := h.app.PasswordResetRedirect
	if redirect == "" && h.app.FrontendURL != "" {
		redirect = h.app.FrontendURL + "/reset-password"
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.auth.Recover(ctx, strings.TrimSpace(req.Email), redirect); err != nil {
		h.writeProviderError(w, "recover", err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.MessageResponse{
		Success: true,
		Message: "If the email is registered, a reset link has been sent",
	})
}

// writeSession keeps the profile in sync and returns session, user and admin flag
func (h *AuthHandler) writeSession(ctx context.Context, w http.ResponseWriter, session *supabase.Session) {
	h.syncProfile(ctx, &session.User)

	role := models.RoleUser
	isAdmin := false
	if id, err := uuid.Parse(session.User.ID); err == nil {
		isAdmin, err = h.admins.IsAdmin(ctx, models.AuthUser{
			ID:           id,
			Email:        session.User.Email,
			MetadataRole: session.User.MetadataString("role"),
			AppRole:      session.User.AppMetadataString("role"),
		})
		if err != nil {
			h.log.Warn("admin role lookup failed at login", zap.String("user_id", session.User.ID), zap.Error(err))
		}
	}
	if isAdmin {
		role = models.RoleAdmin
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.AuthResponse{
		Session: toSessionTokens(session),
		User:    toUserResponse(session.User, role),
		IsAdmin: isAdmin,
	})
}

// syncProfile creates the profile row on first sight. Failures are logged only.
func (h *AuthHandler) syncProfile(ctx context.Context, user *supabase.User) {
	id, err := uuid.Parse(user.ID)
	if err != nil {
		h.log.Warn("auth user has non-uuid id", zap.String("user_id", user.ID))
		return
	}
	if _, err := h.profiles.Upsert(ctx, id, user.Email, user.MetadataString("name")); err != nil {
		h.log.Warn("failed to sync profile", zap.String("user_id", user.ID), zap.Error(err))
	}
}

// writeProviderError maps auth provider failures: client errors keep their message, the rest are 502
func (h *AuthHandler) writeProviderError(w http.ResponseWriter, op string, err error) {
	var apiErr *supabase.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
		h.log.Info("auth provider rejected request", zap.String("op", op), zap.Int("status", apiErr.Status), zap.String("message", apiErr.Message))
		utils.WriteErrorResponse(w, http.StatusBadRequest, apiErr.Message, "")
		return
	}
	h.log.Error("auth provider request failed", zap.String("op", op), zap.Error(err))
	utils.WriteErrorResponse(w, http.StatusBadGateway, "Authentication service unavailable", err.Error())
}
