package models

// LoginRequest defines the structure for login requests
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest defines the structure for registration requests
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// GoogleAuthRequest carries either a Google access token or an authorization code
type GoogleAuthRequest struct {
	AccessToken string `json:"accessToken"`
	Code        string `json:"code"`
}

// AuthResponse is returned by every successful sign-in
type AuthResponse struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
	Picture string `json:"picture,omitempty"`
	Token   string `json:"token"`
}
