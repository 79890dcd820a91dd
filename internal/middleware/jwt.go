package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"GREENPATH_BACK-END/internal/config"
	"GREENPATH_BACK-END/internal/models"
	"GREENPATH_BACK-END/internal/utils"
)

// SupabaseClaims represents the claims in a platform access token
type SupabaseClaims struct {
	Email        string         `json:"email"`
	Role         string         `json:"role"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	AppMetadata  map[string]any `json:"app_metadata,omitempty"`
	jwt.RegisteredClaims
}

func (c *SupabaseClaims) metadataString(key string) string {
	if v, ok := c.UserMetadata[key].(string); ok {
		return v
	}
	return ""
}

func (c *SupabaseClaims) appMetadataString(key string) string {
	if v, ok := c.AppMetadata[key].(string); ok {
		return v
	}
	return ""
}

// TokenVerifier checks access tokens issued by the auth provider
type TokenVerifier struct {
	secret   []byte
	audience string
}

// NewTokenVerifier creates a verifier using the project's JWT secret
func NewTokenVerifier(cfg config.SupabaseConfig) *TokenVerifier {
	return &TokenVerifier{secret: []byte(cfg.JWTSecret), audience: cfg.JWTAudience}
}

// ValidateToken validates a token and returns its claims
func (v *TokenVerifier) ValidateToken(tokenString string) (*SupabaseClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	token, err := jwt.ParseWithClaims(tokenString, &SupabaseClaims{}, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*SupabaseClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenMalformed
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, errors.Join(jwt.ErrTokenInvalidClaims, err)
	}
	return claims, nil
}

// authenticate extracts and verifies the bearer token. ok is false when no header was sent.
func (v *TokenVerifier) authenticate(r *http.Request) (user models.AuthUser, present bool, msg string) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return user, false, "Authorization header required"
	}

	// Extract token from "Bearer <token>"
	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || !strings.EqualFold(tokenParts[0], "Bearer") || tokenParts[1] == "" {
		return user, true, "Invalid authorization header format"
	}

	claims, err := v.ValidateToken(tokenParts[1])
	if err != nil {
		return user, true, "Invalid token"
	}

	id, _ := uuid.Parse(claims.Subject)
	return models.AuthUser{
		ID:           id,
		Email:        claims.Email,
		Name:         claims.metadataString("name"),
		MetadataRole: claims.metadataString("role"),
		AppRole:      claims.appMetadataString("role"),
		AccessToken:  tokenParts[1],
	}, true, ""
}

// AuthMiddleware validates access tokens in the Authorization header
func AuthMiddleware(next http.HandlerFunc, v *TokenVerifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _, msg := v.authenticate(r)
		if msg != "" {
			utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", msg)
			return
		}
		next.ServeHTTP(w, r.WithContext(utils.WithAuthUser(r.Context(), user)))
	}
}

// OptionalAuth attaches the caller when a valid token is sent and lets every request through
func OptionalAuth(next http.HandlerFunc, v *TokenVerifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if user, _, msg := v.authenticate(r); msg == "" {
			r = r.WithContext(utils.WithAuthUser(r.Context(), user))
		}
		next.ServeHTTP(w, r)
	}
}
