package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/campusunify/campus-api/internal/core/domain"
	"github.com/campusunify/campus-api/internal/core/ports"
)

type stubTokens struct {
	claims map[string]ports.TokenClaims
}

func (s *stubTokens) Issue(userID string) (string, error) {
	return "token-" + userID, nil
}

func (s *stubTokens) Verify(token string) (ports.TokenClaims, error) {
	claims, ok := s.claims[token]
	if !ok {
		return ports.TokenClaims{}, domain.ErrNotAuthenticated
	}
	return claims, nil
}

type stubUsers struct {
	users map[string]*domain.User
}

func (s *stubUsers) Create(_ context.Context, u *domain.User) (*domain.User, error) { return u, nil }
func (s *stubUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}
func (s *stubUsers) FindByEmail(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}
func (s *stubUsers) FindByEmailAndOTP(context.Context, string, string, time.Time) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}
func (s *stubUsers) FindByResetToken(context.Context, string, time.Time) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}
func (s *stubUsers) Update(context.Context, *domain.User) error { return nil }
func (s *stubUsers) Delete(context.Context, string) error       { return nil }
func (s *stubUsers) Deactivate(context.Context, string) error   { return nil }

func newTestGuard() (*Guard, *stubUsers, *stubTokens) {
	users := &stubUsers{users: map[string]*domain.User{
		"user_1": {ID: "user_1", Role: domain.RoleStudent},
	}}
	tokens := &stubTokens{claims: map[string]ports.TokenClaims{
		"good-token": {UserID: "user_1", IssuedAt: time.Now()},
	}}
	return NewGuard(tokens, users), users, tokens
}

func runProtected(t *testing.T, guard *Guard, req *http.Request) (echo.Context, error, bool) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := guard.Protect()(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	return c, handler(c), called
}

func TestGuard_Protect_CookieToken(t *testing.T) {
	guard, _, _ := newTestGuard()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "good-token"})

	c, err, called := runProtected(t, guard, req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	user, ok := CurrentUser(c)
	if !ok || user.ID != "user_1" {
		t.Fatalf("identity not attached: %+v", user)
	}
}

func TestGuard_Protect_BearerFallback(t *testing.T) {
	guard, _, _ := newTestGuard()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")

	_, err, called := runProtected(t, guard, req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestGuard_Protect_MissingToken(t *testing.T) {
	guard, _, _ := newTestGuard()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, err, called := runProtected(t, guard, req); err != domain.ErrNotAuthenticated || called {
		t.Fatalf("expected ErrNotAuthenticated, got err=%v called=%v", err, called)
	}
}

func TestGuard_Protect_NullCookieIgnored(t *testing.T) {
	// Logged-out clients send the literal string "null".
	guard, _, _ := newTestGuard()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "null"})

	if _, err, _ := runProtected(t, guard, req); err != domain.ErrNotAuthenticated {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestGuard_Protect_InvalidToken(t *testing.T) {
	guard, _, _ := newTestGuard()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "bad-token"})

	if _, err, _ := runProtected(t, guard, req); err != domain.ErrNotAuthenticated {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestGuard_Protect_UnknownSubject(t *testing.T) {
	guard, users, _ := newTestGuard()
	delete(users.users, "user_1")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "good-token"})

	if _, err, _ := runProtected(t, guard, req); err != domain.ErrNotAuthenticated {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestGuard_Protect_StaleToken(t *testing.T) {
	guard, users, tokens := newTestGuard()
	// Token minted before the password change must be rejected.
	tokens.claims["good-token"] = ports.TokenClaims{UserID: "user_1", IssuedAt: time.Now().Add(-time.Hour)}
	users.users["user_1"].PasswordChangedAt = time.Now().Add(-time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "good-token"})

	if _, err, called := runProtected(t, guard, req); err != domain.ErrStaleToken || called {
		t.Fatalf("expected ErrStaleToken, got err=%v called=%v", err, called)
	}
}

func TestGuard_OptionalAuth(t *testing.T) {
	guard, _, _ := newTestGuard()
	e := echo.New()

	// With a valid token the identity is attached.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "good-token"})
	c := e.NewContext(req, httptest.NewRecorder())

	handler := guard.OptionalAuth()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if _, ok := CurrentUser(c); !ok {
		t.Fatalf("identity not attached for valid token")
	}

	// Without a token the request still proceeds, anonymously.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	c = e.NewContext(req, httptest.NewRecorder())
	if err := handler(c); err != nil {
		t.Fatalf("anonymous request must proceed: %v", err)
	}
	if _, ok := CurrentUser(c); ok {
		t.Fatalf("unexpected identity on anonymous request")
	}
}
