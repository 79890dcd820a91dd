// Package testutil signs access tokens shaped like the ones the auth provider issues.
package testutil

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token describes the claims of a signed access token
type Token struct {
	UserID       uuid.UUID
	Email        string
	Name         string
	MetadataRole string // user_metadata.role
	AppRole      string // app_metadata.role
	TTL          time.Duration
}

// Sign returns tok signed with HS256. A zero TTL means one hour.
func Sign(secret, audience string, tok Token) (string, error) {
	if tok.UserID == uuid.Nil {
		tok.UserID = uuid.New()
	}
	if tok.TTL == 0 {
		tok.TTL = time.Hour
	}
	now := time.Now()

	userMeta := map[string]any{"name": tok.Name}
	if tok.MetadataRole != "" {
		userMeta["role"] = tok.MetadataRole
	}
	appMeta := map[string]any{"provider": "email"}
	if tok.AppRole != "" {
		appMeta["role"] = tok.AppRole
	}

	claims := jwt.MapClaims{
		"sub":           tok.UserID.String(),
		"email":         tok.Email,
		"role":          "authenticated",
		"user_metadata": userMeta,
		"app_metadata":  appMeta,
		"iat":           now.Unix(),
		"exp":           now.Add(tok.TTL).Unix(),
	}
	if audience != "" {
		claims["aud"] = audience
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
