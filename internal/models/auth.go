package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse returns the issued token and user info.
type LoginResponse struct {
	TokenType   string    `json:"token_type"`
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	User        UserInfo  `json:"user"`
	IssuedAt    time.Time `json:"issued_at"`
}

// SignupRequest registers a new identity. Any roles supplied by the client
// are ignored; self-service signup always yields a STUDENT account and
// elevated roles require a separate admin-only grant.
type SignupRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FullName  string `json:"full_name" validate:"required,min=2,max=50"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	Phone     string `json:"phone" validate:"omitempty,max=20"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// UserInfo describes an identity in responses.
type UserInfo struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name"`
	Roles     []UserRole `json:"roles"`
	Phone     string     `json:"phone,omitempty"`
	DiscordID string     `json:"discord_id,omitempty"`
}

// JWTClaims represents the JWT payload for access tokens. Roles are a
// snapshot taken at issuance; changes after issuance surface only on
// re-login.
type JWTClaims struct {
	UserID   string     `json:"user_id"`
	Email    string     `json:"email"`
	FullName string     `json:"full_name"`
	Roles    []UserRole `json:"roles"`
	jwt.RegisteredClaims
}

// HasRole reports whether the claims carry the given role.
func (c *JWTClaims) HasRole(role UserRole) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// DiscordIDUpdateRequest updates the chat handle on an identity.
type DiscordIDUpdateRequest struct {
	DiscordID string `json:"discord_id" validate:"required,max=100"`
}

// RoleUpdateRequest replaces the role set of an identity.
type RoleUpdateRequest struct {
	Roles []UserRole `json:"roles" validate:"required,min=1"`
}
