package dto

import "time"

// SignupRequest registers a new company together with its first ADMIN.
type SignupRequest struct {
	CompanyName string `json:"companyName" binding:"required,max=255"`
	Currency    string `json:"currency" binding:"required,len=3"`
	FirstName   string `json:"firstName" binding:"required,max=100"`
	LastName    string `json:"lastName" binding:"required,max=100"`
	Email       string `json:"email" binding:"required,email,max=255"`
	Password    string `json:"password" binding:"required,min=6,max=72"`
}

// LoginRequest represents the request body for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// GoogleLoginRequest carries a Google ID token obtained by the client.
type GoogleLoginRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

// AuthResponse is returned by signup and every login flavour.
type AuthResponse struct {
	User      UserResponse     `json:"user"`
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expiresAt"`
	Company   *CompanyResponse `json:"company,omitempty"`
}
