package handlers

import (
	"context"
	"crypto/subtle"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleOAuth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"GREENPATH_BACK-END/internal/config"
	"GREENPATH_BACK-END/internal/dto"
	"GREENPATH_BACK-END/internal/utils"
)

const oauthStateCookie = "greenpath_oauth_state"

// GoogleAuthHandler handles Google OAuth authentication.
// The Google id token is traded for a platform session, so Google users share the password users' token format.
type GoogleAuthHandler struct {
	oauth2Config *oauth2.Config
	auth         AuthProvider
	profiles     ProfileStore
	frontendURL  string
	log          *zap.Logger
}

// NewGoogleAuthHandler creates a new GoogleAuthHandler instance
func NewGoogleAuthHandler(cfg config.GoogleOAuthConfig, frontendURL string, auth AuthProvider, profiles ProfileStore, log *zap.Logger) *GoogleAuthHandler {
	oauth2Config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	if frontendURL == "" {
		frontendURL = config.DefaultFrontendURL
	}

	return &GoogleAuthHandler{
		oauth2Config: oauth2Config,
		auth:         auth,
		profiles:     profiles,
		frontendURL:  frontendURL,
		log:          log,
	}
}

// GoogleLogin initiates Google OAuth login
// @Summary Google OAuth login
// @Description Initiate Google OAuth login flow
// @Tags authentication
// @Produce json
// @Success 200 {object} dto.GoogleLoginResponse "Google OAuth URL"
// @Failure 503 {object} dto.ErrorResponse "Google sign-in not configured"
// @Router /api/auth/google/login [get]
func (h *GoogleAuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.oauth2Config.ClientID == "" {
		utils.WriteErrorResponse(w, http.StatusServiceUnavailable, "Google sign-in is not configured", "")
		return
	}

	// Generate state parameter for CSRF protection
	state := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/api/auth/google",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	utils.WriteJSONResponse(w, http.StatusOK, dto.GoogleLoginResponse{
		AuthURL: h.oauth2Config.AuthCodeURL(state, oauth2.AccessTypeOffline),
		State:   state,
	})
}

// GoogleCallback handles Google OAuth callback
// @Summary Google OAuth callback
// @Description Exchange the authorization code, sign in to the platform and redirect to the frontend
// @Tags authentication
// @Param code query string true "Authorization code from Google"
// @Param state query string false "State parameter for CSRF protection"
// @Success 302 "Redirect to the frontend with the session in the URL fragment"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Invalid authorization code"
// @Failure 502 {object} dto.ErrorResponse "Auth provider rejected the Google token"
// @Router /api/auth/google/callback [get]
func (h *GoogleAuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Missing authorization code", "Authorization code is required")
		return
	}
	state := r.URL.Query().Get("state")
	c, err := r.Cookie(oauthStateCookie)
	if err != nil || c.Value == "" || state == "" || subtle.ConstantTimeCompare([]byte(c.Value), []byte(state)) != 1 {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid state", "OAuth state does not match")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*requestTimeout)
	defer cancel()

	// Exchange authorization code for token
	token, err := h.oauth2Config.Exchange(ctx, code)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid authorization code", err.Error())
		return
	}
	idToken, _ := token.Extra("id_token").(string)
	if idToken == "" {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid authorization code", "Google did not return an id token")
		return
	}

	session, err := h.auth.SignInWithIDToken(ctx, "google", idToken)
	if err != nil {
		h.log.Error("google sign-in rejected by auth provider", zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusBadGateway, "Failed to sign in with Google", err.Error())
		return
	}

	name := session.User.MetadataString("name")
	if name == "" {
		name = session.User.MetadataString("full_name")
	}
	if name == "" {
		if info, err := h.getGoogleUserInfo(ctx, token); err == nil {
			name = info.Name
		} else {
			h.log.Warn("failed to get google user info", zap.Error(err))
		}
	}
	if id, err := uuid.Parse(session.User.ID); err == nil {
		if _, err := h.profiles.Upsert(ctx, id, session.User.Email, name); err != nil {
			h.log.Warn("failed to sync profile", zap.String("user_id", session.User.ID), zap.Error(err))
		}
	}

	http.SetCookie(w, &http.Cookie{Name: oauthStateCookie, Path: "/api/auth/google", MaxAge: -1})
	http.Redirect(w, r, h.redirectURL(session.AccessToken, session.RefreshToken, session.ExpiresIn), http.StatusFound)
}

// redirectURL puts the session in the fragment so it never reaches server logs
func (h *GoogleAuthHandler) redirectURL(accessToken, refreshToken string, expiresIn int) string {
	v := url.Values{}
	v.Set("access_token", accessToken)
	v.Set("refresh_token", refreshToken)
	v.Set("expires_in", strconv.Itoa(expiresIn))
	v.Set("provider", "google")
	return h.frontendURL + "/auth/callback#" + v.Encode()
}

// getGoogleUserInfo fetches user information from Google
func (h *GoogleAuthHandler) getGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*dto.GoogleUserInfo, error) {
	service, err := googleOAuth2.NewService(ctx, option.WithTokenSource(oauth2.StaticTokenSource(token)))
	if err != nil {
		return nil, err
	}

	userInfo, err := service.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	return &dto.GoogleUserInfo{
		Email: userInfo.Email,
		Name:  userInfo.Name,
	}, nil
}
