package domain

import (
	"errors"
	"time"
)

const (
	RoleStudent = "student"
	RoleClub    = "club"
	RoleAdmin   = "admin"
)

var ErrInvalidCredentials = errors.New("incorrect email or password")
var ErrEmailNotVerified = errors.New("email not verified")
var ErrEmailTaken = errors.New("email already in use")
var ErrUserNotFound = errors.New("user not found")
var ErrInvalidOTP = errors.New("invalid or expired otp")
var ErrInvalidResetToken = errors.New("reset token is invalid or expired")
var ErrWrongPassword = errors.New("wrong current password")
var ErrEmailDelivery = errors.New("failed to send email")
var ErrNotAuthenticated = errors.New("not logged in")
var ErrStaleToken = errors.New("password was changed, login again")
var ErrForbidden = errors.New("you do not have permission to perform this action")
var ErrTooManyRequests = errors.New("too many requests, try again later")
var ErrInvalidRole = errors.New("invalid role")

// User models an account in the system. Credential and recovery fields are
// never serialized to clients.
type User struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Email                string    `json:"email"`
	Role                 string    `json:"role"`
	Avatar               string    `json:"avatar,omitempty"`
	IsVerified           bool      `json:"is_verified"`
	Active               bool      `json:"-"`
	PasswordHash         string    `json:"-"`
	PasswordChangedAt    time.Time `json:"-"`
	OTP                  string    `json:"-"`
	OTPExpires           time.Time `json:"-"`
	PasswordResetToken   string    `json:"-"`
	PasswordResetExpires time.Time `json:"-"`
	CreatedAt            time.Time `json:"created_at"`
}

// ChangedPasswordAfter reports whether the password changed strictly after t.
// Tokens issued before a password change must be rejected by the guard.
func (u *User) ChangedPasswordAfter(t time.Time) bool {
	return !u.PasswordChangedAt.IsZero() && u.PasswordChangedAt.After(t)
}

// SignupRole reports whether role may be chosen at signup. Admin accounts are
// provisioned out of band.
func SignupRole(role string) bool {
	return role == RoleStudent || role == RoleClub
}
