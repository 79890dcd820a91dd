package dto

// GoogleLoginResponse carries the consent URL; the same state is also set as a cookie
type GoogleLoginResponse struct {
	AuthURL string `json:"auth_url"`
	State   string `json:"state"`
}

// GoogleUserInfo is the subset of the Google profile used to name new accounts
type GoogleUserInfo struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}
