package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/campusunify/campus-api/internal/core/domain"
	"github.com/campusunify/campus-api/internal/core/ports"
)

// UserKey is the echo context key holding the resolved *domain.User.
const UserKey = "user"

// SessionCookie is the cookie carrying the session token.
const SessionCookie = "jwt"

// Guard resolves the caller's identity from the session cookie (or a bearer
// header) and exposes enforcing and non-enforcing middleware around one shared
// resolution path.
type Guard struct {
	tokens ports.TokenService
	users  ports.UserRepository
}

func NewGuard(tokens ports.TokenService, users ports.UserRepository) *Guard {
	return &Guard{tokens: tokens, users: users}
}

// Protect rejects the request unless a fresh, valid identity resolves.
func (g *Guard) Protect() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := g.resolve(c)
			if err != nil {
				return err
			}
			c.Set(UserKey, user)
			return next(c)
		}
	}
}

// OptionalAuth attaches an identity when one resolves and proceeds silently
// otherwise. Never use it where enforcement is required.
func (g *Guard) OptionalAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if user, err := g.resolve(c); err == nil {
				c.Set(UserKey, user)
			}
			return next(c)
		}
	}
}

// resolve extracts the token, verifies it, loads the subject and applies the
// password-freshness check.
func (g *Guard) resolve(c echo.Context) (*domain.User, error) {
	token := extractToken(c)
	if token == "" {
		return nil, domain.ErrNotAuthenticated
	}

	claims, err := g.tokens.Verify(token)
	if err != nil {
		return nil, domain.ErrNotAuthenticated
	}

	user, err := g.users.FindByID(c.Request().Context(), claims.UserID)
	if err != nil {
		return nil, domain.ErrNotAuthenticated
	}

	if user.ChangedPasswordAfter(claims.IssuedAt) {
		return nil, domain.ErrStaleToken
	}
	return user, nil
}

func extractToken(c echo.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie.Value != "" && cookie.Value != "null" {
		return cookie.Value
	}

	header := c.Request().Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}

// CurrentUser returns the identity attached by Protect or OptionalAuth.
func CurrentUser(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(UserKey).(*domain.User)
	return user, ok
}
