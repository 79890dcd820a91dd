package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gotrue "github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
)

// ErrInvalidCredentials is returned when the password or refresh grant is rejected
var ErrInvalidCredentials = errors.New("invalid login credentials")

// User is the auth user as returned by GoTrue
type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	Role         string         `json:"role"`
	UserMetadata map[string]any `json:"user_metadata"`
	AppMetadata  map[string]any `json:"app_metadata"`
	CreatedAt    time.Time      `json:"created_at"`
}

// MetadataString returns a string value from user_metadata
func (u User) MetadataString(key string) string {
	if v, ok := u.UserMetadata[key].(string); ok {
		return v
	}
	return ""
}

// AppMetadataString returns a string value from app_metadata
func (u User) AppMetadataString(key string) string {
	if v, ok := u.AppMetadata[key].(string); ok {
		return v
	}
	return ""
}

// Session is an issued access/refresh token pair
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// AuthClient wraps the auth endpoints
type AuthClient struct {
	c      *Client
	public gotrue.Client
	admin  gotrue.Client
}

// NewAuthClient creates an AuthClient
func NewAuthClient(c *Client) *AuthClient {
	endpoint := c.baseURL + "/auth/v1"
	httpClient := http.Client{Timeout: c.http.Timeout}
	return &AuthClient{
		c:      c,
		public: gotrue.New("", c.anonKey).WithCustomGoTrueURL(endpoint).WithClient(httpClient),
		admin: gotrue.New("", c.serviceKey).WithCustomGoTrueURL(endpoint).WithClient(httpClient).
			WithToken(c.serviceKey),
	}
}

// SignUp creates a confirmed user with the service role key.
// Email confirmation is skipped because no mail server is wired to the auth provider.
func (a *AuthClient) SignUp(ctx context.Context, email, password, name string) (*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := a.admin.AdminCreateUser(types.AdminCreateUserRequest{
		Email:        email,
		Password:     &password,
		EmailConfirm: true,
		UserMetadata: map[string]any{"name": name},
	})
	if err != nil {
		return nil, fromGoTrue(err)
	}
	user := userFromGoTrue(res.User)
	return &user, nil
}

// SignIn performs a password grant
func (a *AuthClient) SignIn(ctx context.Context, email, password string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := a.public.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, credentialsError(err)
	}
	return sessionFromGoTrue(res.Session), nil
}

// Refresh exchanges a refresh token for a new session
func (a *AuthClient) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := a.public.RefreshToken(refreshToken)
	if err != nil {
		return nil, credentialsError(err)
	}
	return sessionFromGoTrue(res.Session), nil
}

// SignInWithIDToken exchanges an OpenID Connect id token (e.g. Google) for a session.
// gotrue-go only knows the password, refresh_token and pkce grants, so this one is sent directly.
func (a *AuthClient) SignInWithIDToken(ctx context.Context, provider, idToken string) (*Session, error) {
	var session Session
	err := a.c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/token?grant_type=id_token",
		apiKey: a.c.anonKey,
		body:   map[string]any{"provider": provider, "id_token": idToken},
	}, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// SignOut revokes the session behind accessToken
func (a *AuthClient) SignOut(ctx context.Context, accessToken string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := a.public.WithToken(accessToken).Logout(); err != nil {
		return fromGoTrue(err)
	}
	return nil
}

// Recover sends a password recovery email.
// types.RecoverRequest has no redirect_to, so the call is made directly.
func (a *AuthClient) Recover(ctx context.Context, email, redirectTo string) error {
	path := "/auth/v1/recover"
	if redirectTo != "" {
		path += "?redirect_to=" + url.QueryEscape(redirectTo)
	}
	return a.c.do(ctx, request{
		method: http.MethodPost,
		path:   path,
		apiKey: a.c.anonKey,
		body:   map[string]any{"email": email},
	}, nil)
}

// fromGoTrue turns gotrue-go's "response status code N: body" errors into an APIError
func fromGoTrue(err error) error {
	var status int
	msg := err.Error()
	if _, scanErr := fmt.Sscanf(msg, "response status code %d", &status); scanErr != nil {
		return fmt.Errorf("supabase auth: %w", err)
	}
	_, body, _ := strings.Cut(msg, ": ")
	return parseAPIError(status, []byte(body))
}

func credentialsError(err error) error {
	if errors.Is(err, types.ErrInvalidTokenRequest) {
		return errors.Join(ErrInvalidCredentials, err)
	}
	err = fromGoTrue(err)
	var apiErr *APIError
	if errors.As(err, &apiErr) && (apiErr.Status == http.StatusBadRequest || apiErr.Status == http.StatusUnauthorized) {
		return errors.Join(ErrInvalidCredentials, err)
	}
	return err
}

func userFromGoTrue(u types.User) User {
	return User{
		ID:           u.ID.String(),
		Email:        u.Email,
		Role:         u.Role,
		UserMetadata: u.UserMetadata,
		AppMetadata:  u.AppMetadata,
		CreatedAt:    u.CreatedAt,
	}
}

func sessionFromGoTrue(s types.Session) *Session {
	return &Session{
		AccessToken:  s.AccessToken,
		TokenType:    s.TokenType,
		ExpiresIn:    s.ExpiresIn,
		ExpiresAt:    s.ExpiresAt,
		RefreshToken: s.RefreshToken,
		User:         userFromGoTrue(s.User),
	}
}
