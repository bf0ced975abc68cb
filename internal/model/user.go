// Package model defines domain entities for the application.
package model

import (
	"strconv"
	"time"
)

// User is an account allowed to log in. Users are created by seeding.
type User struct {
	ID              int64      `json:"id"`
	Email           string     `json:"email"`
	PasswordHash    string     `json:"-"` // Never serialize
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Subject returns the user id as the decimal string carried in token claims.
func (u *User) Subject() string {
	return strconv.FormatInt(u.ID, 10)
}

// ParseSubject converts a token subject back to a user id.
func ParseSubject(sub string) (int64, bool) {
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// AuthContext is the authenticated caller attached to a request.
type AuthContext struct {
	User      *User
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// UserID returns the authenticated user's id, or 0.
func (a *AuthContext) UserID() int64 {
	if a == nil || a.User == nil {
		return 0
	}
	return a.User.ID
}
