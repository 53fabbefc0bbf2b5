package ports

import (
	"context"
	"time"

	"github.com/campusunify/campus-api/internal/core/domain"
)

// UserRepository defines persistence for user accounts. All lookups exclude
// soft-deleted (active=false) accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByEmailAndOTP matches email + otp with otp_expires > now, relying on
	// the store's per-document atomicity instead of a read-then-check.
	FindByEmailAndOTP(ctx context.Context, email, otp string, now time.Time) (*domain.User, error)
	// FindByResetToken matches the sha256 hex of a reset token with an
	// unexpired window.
	FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	// Delete hard-deletes a record. Used only for the signup compensations:
	// rollback after a failed OTP mail and replacing a stale unverified account.
	Delete(ctx context.Context, id string) error
	// Deactivate soft-deletes by flipping active=false.
	Deactivate(ctx context.Context, id string) error
}
