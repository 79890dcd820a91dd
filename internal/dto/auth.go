package dto

// SignupRequest represents the request payload for account creation
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"max=100"`
}

// LoginRequest represents the request payload for password login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest exchanges a refresh token for a new session
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ForgotPasswordRequest asks the auth provider to send a recovery email
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// UserResponse represents user data in API responses
type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// SessionTokens carries the platform session issued at login
type SessionTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at,omitempty"`
}

// SignupResponse is returned after the account is created
type SignupResponse struct {
	Success bool         `json:"success"`
	User    UserResponse `json:"user"`
}

// AuthResponse represents the response after successful authentication
type AuthResponse struct {
	Session SessionTokens `json:"session"`
	User    UserResponse  `json:"user"`
	IsAdmin bool          `json:"is_admin"`
}

// MessageResponse is a plain acknowledgement
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
