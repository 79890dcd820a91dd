package dto

// SessionResponse tells the browser who is signed in and which screen to render
type SessionResponse struct {
	Authenticated bool          `json:"authenticated"`
	User          *UserResponse `json:"user,omitempty"`
	IsAdmin       bool          `json:"is_admin"`
	Screen        string        `json:"screen"`
	NextScreen    string        `json:"next_screen,omitempty"`
}

// ProfileResponse is the caller's profile record
type ProfileResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// UpdateProfileRequest holds the fields a user may change on their profile
type UpdateProfileRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}
