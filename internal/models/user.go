package models

import "time"

// User represents a registered account. PasswordHash never leaves the
// server: the json:"-" tag keeps it out of every response body.
type User struct {
	ID           int       `json:"id,omitempty"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserRegisterRequest carries the registration payload. No binding tags:
// the user service validates the fields in a fixed order so each failure
// gets its own message.
type UserRegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserLoginRequest carries sign-in credentials.
type UserLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type UserResetPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

// PasswordResetToken is a single-use, expiring token emailed to a user
// who requested a password reset.
type PasswordResetToken struct {
	ID        uint       `json:"id"`
	UserID    uint       `json:"user_id"`
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at"`
	CreatedAt time.Time  `json:"created_at"`
}

// JWTClaims is the subset of token claims the rest of the app cares about.
type JWTClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
}
