package dto

import "time"

// LoginRequest payload.
type LoginRequest struct {
	Password string `json:"password" form:"password"`
}

// TokenResponse payload.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}
