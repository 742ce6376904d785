package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// Token types distinguish session tokens from single-purpose ones
const (
	TokenTypeAccess        = "access"
	TokenTypePasswordReset = "password_reset"
)

// TokenClaims is the claim set carried by a signed token
type TokenClaims struct {
	Type   string `json:"type"`
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Role   Role   `json:"role"`
	jwt.RegisteredClaims
}
