package models

import (
	"time"

	"github.com/lib/pq"
)

// UserRole represents the available roles for the access control system.
type UserRole string

const (
	RoleAdmin    UserRole = "ADMIN"
	RoleTeacher  UserRole = "TEACHER"
	RoleGuardian UserRole = "GUARDIAN"
	RoleStudent  UserRole = "STUDENT"
)

// ValidRole reports whether the given name is a known role.
func ValidRole(name UserRole) bool {
	switch name {
	case RoleAdmin, RoleTeacher, RoleGuardian, RoleStudent:
		return true
	}
	return false
}

// User represents an identity stored in the users table. Email doubles as the
// login name and is unique across all identities. A user always holds at
// least one role.
type User struct {
	ID           string         `db:"id" json:"id"`
	Email        string         `db:"email" json:"email"`
	PasswordHash string         `db:"password_hash" json:"-"`
	FullName     string         `db:"full_name" json:"full_name"`
	Roles        pq.StringArray `db:"roles" json:"roles"`
	Phone        string         `db:"phone" json:"phone,omitempty"`
	DiscordID    string         `db:"discord_id" json:"discord_id,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(role UserRole) bool {
	for _, r := range u.Roles {
		if UserRole(r) == role {
			return true
		}
	}
	return false
}

// RoleNames converts the stored role strings into typed role names.
func (u *User) RoleNames() []UserRole {
	roles := make([]UserRole, len(u.Roles))
	for i, r := range u.Roles {
		roles[i] = UserRole(r)
	}
	return roles
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
