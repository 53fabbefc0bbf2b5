package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/campusunify/campus-api/internal/core/domain"
	"github.com/campusunify/campus-api/internal/core/ports"
)

// TokenService issues and verifies HS256 session tokens carrying the subject
// id and issue time.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

func (s *TokenService) Issue(userID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":  userID,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify parses and validates a token. Any failure (signature, malformation,
// expiry, missing claims) collapses to ErrNotAuthenticated.
func (s *TokenService) Verify(token string) (ports.TokenClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !tkn.Valid {
		return ports.TokenClaims{}, domain.ErrNotAuthenticated
	}

	userID, _ := claims["id"].(string)
	iat, err := claims.GetIssuedAt()
	if userID == "" || err != nil || iat == nil {
		return ports.TokenClaims{}, domain.ErrNotAuthenticated
	}

	return ports.TokenClaims{UserID: userID, IssuedAt: iat.Time}, nil
}
