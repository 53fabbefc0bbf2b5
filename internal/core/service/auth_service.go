package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusunify/campus-api/internal/core/domain"
	"github.com/campusunify/campus-api/internal/core/ports"
)

const (
	otpTTL   = 10 * time.Minute
	resetTTL = 10 * time.Minute
)

// AuthService implements the account lifecycle: signup with OTP verification,
// login, password recovery and the OAuth bridge.
type AuthService struct {
	users       ports.UserRepository
	tokens      ports.TokenService
	mailer      ports.Mailer
	throttle    ports.MailThrottle
	frontendURL string
	log         zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	tokens ports.TokenService,
	mailer ports.Mailer,
	throttle ports.MailThrottle,
	frontendURL string,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:       users,
		tokens:      tokens,
		mailer:      mailer,
		throttle:    throttle,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		log:         log,
	}
}

// Signup creates an unverified account and mails a 6-digit OTP. A verified
// account already holding the email fails with ErrEmailTaken; an unverified
// one is replaced so the OTP flow restarts cleanly. When the OTP mail cannot
// be delivered the freshly created account is rolled back.
func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	if !domain.SignupRole(in.Role) {
		return nil, domain.ErrInvalidRole
	}
	email := normalizeEmail(in.Email)

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if existing != nil && existing.IsVerified {
		return nil, domain.ErrEmailTaken
	}

	if err := s.checkThrottle(ctx, email); err != nil {
		return nil, err
	}

	// The stale record goes away only once a new OTP mail may actually be
	// sent; a throttled re-signup must leave the pending account intact.
	if existing != nil {
		if err := s.users.Delete(ctx, existing.ID); err != nil {
			return nil, fmt.Errorf("replace unverified account: %w", err)
		}
		s.log.Info().Str("email", email).Msg("unverified account replaced, otp flow restarted")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	otp, err := generateOTP()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user := &domain.User{
		Name:         in.Name,
		Email:        email,
		Role:         in.Role,
		PasswordHash: string(hash),
		Active:       true,
		OTP:          otp,
		OTPExpires:   now.Add(otpTTL),
		CreatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	msg := ports.MailMessage{
		To:      email,
		Subject: "Email Verification for CampusUnify",
		Body: fmt.Sprintf(
			"Welcome to CampusUnify!\n\nYour verification code is: %s\nThis code expires in 10 minutes.\n", otp),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		// Compensate: the account must not survive without a delivered OTP.
		if delErr := s.users.Delete(ctx, created.ID); delErr != nil {
			s.log.Error().Err(delErr).Str("user_id", created.ID).Msg("failed to roll back user after mail failure")
		}
		s.log.Error().Err(err).Str("email", email).Msg("otp mail delivery failed")
		return nil, domain.ErrEmailDelivery
	}

	s.log.Info().Str("email", email).Str("role", in.Role).Msg("user signed up, otp sent")
	return created, nil
}

// VerifyEmail matches the OTP within its validity window, marks the account
// verified, clears the OTP fields and issues a session token. A replayed OTP
// fails because the fields are already cleared.
func (s *AuthService) VerifyEmail(ctx context.Context, email, otp string) (string, *domain.User, error) {
	user, err := s.users.FindByEmailAndOTP(ctx, normalizeEmail(email), otp, time.Now().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidOTP
		}
		return "", nil, err
	}

	user.IsVerified = true
	user.OTP = ""
	user.OTPExpires = time.Time{}
	if err := s.users.Update(ctx, user); err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("email verified")
	return token, user, nil
}

// Login checks the password and issues a session token. Unknown email and
// wrong password fail identically so accounts cannot be enumerated.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	if !user.IsVerified {
		return "", nil, domain.ErrEmailNotVerified
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// ForgotPassword stores the hash of a fresh reset token and mails the
// plaintext as a link. On delivery failure the reset fields are cleared so the
// account is left in its prior state.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	if err := s.checkThrottle(ctx, email); err != nil {
		return err
	}

	plain, hash, err := generateResetToken()
	if err != nil {
		return err
	}

	user.PasswordResetToken = hash
	user.PasswordResetExpires = time.Now().UTC().Add(resetTTL)
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	msg := ports.MailMessage{
		To:      email,
		Subject: "Password Reset Token",
		Body: fmt.Sprintf(
			"Hi %s,\n\nA password reset was requested for your account. Open the link below to choose a new password:\n\n%s/reset-password/%s\n\nThe link expires in 10 minutes. If you did not request a reset, no action is required.\n",
			user.Name, s.frontendURL, plain),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		user.PasswordResetToken = ""
		user.PasswordResetExpires = time.Time{}
		if upErr := s.users.Update(ctx, user); upErr != nil {
			s.log.Error().Err(upErr).Str("user_id", user.ID).Msg("failed to clear reset token after mail failure")
		}
		s.log.Error().Err(err).Str("email", email).Msg("reset mail delivery failed")
		return domain.ErrEmailDelivery
	}

	s.log.Info().Str("user_id", user.ID).Msg("password reset token sent")
	return nil
}

// ResetPassword consumes a reset token: only the sha256 of the plaintext is
// ever stored, so the lookup hashes the supplied token first.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) (string, *domain.User, error) {
	user, err := s.users.FindByResetToken(ctx, hashToken(token), time.Now().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidResetToken
		}
		return "", nil, err
	}

	if err := s.setPassword(ctx, user, newPassword); err != nil {
		return "", nil, err
	}

	sessionToken, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("password reset")
	return sessionToken, user, nil
}

// UpdatePassword changes the password of an authenticated user and re-issues
// the session token; tokens issued before the change fail the freshness check.
func (s *AuthService) UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) (string, *domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return "", nil, domain.ErrWrongPassword
	}

	if err := s.setPassword(ctx, user, newPassword); err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("password updated")
	return token, user, nil
}

// OAuth finds or creates an account from an external identity assertion.
// Verification is deliberately not checked on the lookup path: the identity
// provider has already proven control of the email, and bridge-created
// accounts are persisted pre-verified for the same reason.
func (s *AuthService) OAuth(ctx context.Context, email, name, photo string) (string, *domain.User, bool, error) {
	email = normalizeEmail(email)
	user, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		token, issueErr := s.tokens.Issue(user.ID)
		if issueErr != nil {
			return "", nil, false, issueErr
		}
		return token, user, false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return "", nil, false, err
	}

	// The generated password is never communicated: the user keeps
	// authenticating through the identity provider.
	secret, err := randomHex(16)
	if err != nil {
		return "", nil, false, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, false, err
	}
	suffix, err := randomHex(2)
	if err != nil {
		return "", nil, false, err
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Name:         strings.ToLower(strings.ReplaceAll(name, " ", "")) + suffix,
		Email:        email,
		Role:         domain.RoleStudent,
		Avatar:       photo,
		PasswordHash: string(hash),
		IsVerified:   true,
		Active:       true,
		CreatedAt:    now,
	})
	if err != nil {
		return "", nil, false, err
	}

	token, err := s.tokens.Issue(created.ID)
	if err != nil {
		return "", nil, false, err
	}

	s.log.Info().Str("user_id", created.ID).Msg("account created via oauth bridge")
	return token, created, true, nil
}

// Deactivate soft-deletes the account.
func (s *AuthService) Deactivate(ctx context.Context, userID string) error {
	return s.users.Deactivate(ctx, userID)
}

func (s *AuthService) setPassword(ctx context.Context, user *domain.User, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	// Backdated one second so a token minted in the same second as the change
	// still fails the freshness check.
	user.PasswordChangedAt = time.Now().UTC().Add(-time.Second)
	user.PasswordResetToken = ""
	user.PasswordResetExpires = time.Time{}
	return s.users.Update(ctx, user)
}

// checkThrottle consults the outbound-mail throttle. A throttle backend error
// is logged and ignored so mail keeps flowing when Redis is down.
func (s *AuthService) checkThrottle(ctx context.Context, email string) error {
	if s.throttle == nil {
		return nil
	}
	ok, err := s.throttle.Allow(ctx, email)
	if err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("mail throttle check failed, sending anyway")
		return nil
	}
	if !ok {
		return domain.ErrTooManyRequests
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// generateOTP returns a 6-digit numeric code.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// generateResetToken returns the plaintext token for the client and the sha256
// hex digest for storage.
func generateResetToken() (plain, hash string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	plain = hex.EncodeToString(b)
	return plain, hashToken(plain), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("random hex: %w", err)
	}
	return hex.EncodeToString(b), nil
}
