package dto

// TokenResponse is the session payload returned by login, signup, and
// invitation acceptance. Refresh tokens travel in request bodies, never
// headers.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
}

// SignupResponse is returned by tenant bootstrap.
type SignupResponse struct {
	Tenant TenantDTO `json:"tenant"`
	User   UserDTO   `json:"user"`
	TokenResponse
}

// LoginResponse is returned by login and invitation acceptance.
type LoginResponse struct {
	User UserDTO `json:"user"`
	TokenResponse
}
