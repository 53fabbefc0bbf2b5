package ports

import (
	"context"

	"github.com/campusunify/campus-api/internal/core/domain"
)

// SignupInput carries validated signup fields. Password confirmation is
// enforced at the schema layer before the service is reached.
type SignupInput struct {
	Name     string
	Email    string
	Role     string
	Password string
}

// AuthService orchestrates the account lifecycle:
// signup → otp verify → login, plus forgot/reset/update password, the OAuth
// bridge and soft deletion.
type AuthService interface {
	// Signup creates an unverified account and mails a one-time code. A
	// verified account on the same email fails with ErrEmailTaken; an
	// unverified one is replaced and the OTP flow restarts.
	Signup(ctx context.Context, in SignupInput) (*domain.User, error)
	// VerifyEmail flips the account to verified when the code matches and has
	// not expired, and issues a session token.
	VerifyEmail(ctx context.Context, email, otp string) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) (string, *domain.User, error)
	UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) (string, *domain.User, error)
	// OAuth finds or creates an account from an external identity assertion.
	// created reports whether a new account was synthesized.
	OAuth(ctx context.Context, email, name, photo string) (token string, user *domain.User, created bool, err error)
	Deactivate(ctx context.Context, userID string) error
}
