package ports

import "time"

// TokenClaims is the verified content of a session token.
type TokenClaims struct {
	UserID   string
	IssuedAt time.Time
}

// TokenService issues and verifies signed, time-limited session tokens.
// Tokens are stateless: they are invalidated only by expiry or by the guard's
// password-freshness check.
type TokenService interface {
	Issue(userID string) (string, error)
	Verify(token string) (TokenClaims, error)
}
