package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/campusunify/campus-api/internal/api/middleware"
	"github.com/campusunify/campus-api/internal/core/domain"
	"github.com/campusunify/campus-api/internal/core/ports"
)

// stubAuthService returns canned results so handler behaviour can be tested
// in isolation from the real flow.
type stubAuthService struct {
	user    *domain.User
	token   string
	created bool
	err     error

	lastSignup ports.SignupInput
}

func (s *stubAuthService) Signup(_ context.Context, in ports.SignupInput) (*domain.User, error) {
	s.lastSignup = in
	return s.user, s.err
}

func (s *stubAuthService) VerifyEmail(context.Context, string, string) (string, *domain.User, error) {
	return s.token, s.user, s.err
}

func (s *stubAuthService) Login(context.Context, string, string) (string, *domain.User, error) {
	return s.token, s.user, s.err
}

func (s *stubAuthService) ForgotPassword(context.Context, string) error { return s.err }

func (s *stubAuthService) ResetPassword(context.Context, string, string) (string, *domain.User, error) {
	return s.token, s.user, s.err
}

func (s *stubAuthService) UpdatePassword(context.Context, string, string, string) (string, *domain.User, error) {
	return s.token, s.user, s.err
}

func (s *stubAuthService) OAuth(context.Context, string, string, string) (string, *domain.User, bool, error) {
	return s.token, s.user, s.created, s.err
}

func (s *stubAuthService) Deactivate(context.Context, string) error { return s.err }

func newAuthContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == middleware.SessionCookie {
			return cookie
		}
	}
	return nil
}

func TestAuthHandler_Signup(t *testing.T) {
	svc := &stubAuthService{user: &domain.User{ID: "u1", Role: domain.RoleStudent}}
	h := NewAuthHandler(svc, time.Hour, false)

	c, rec := newAuthContext(t, http.MethodPost, "/api/v1/users/signup",
		`{"name":"Alice","email":"alice@example.com","role":"student","password":"pass1234","password_confirm":"pass1234"}`)

	if err := h.Signup(c); err != nil {
		t.Fatalf("signup handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if svc.lastSignup.Email != "alice@example.com" || svc.lastSignup.Role != "student" {
		t.Fatalf("unexpected signup input: %+v", svc.lastSignup)
	}
	if !strings.Contains(rec.Body.String(), `"status":"success"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	if sessionCookie(rec) != nil {
		t.Fatalf("signup must not open a session")
	}
}

func TestAuthHandler_Signup_PasswordMismatch(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, time.Hour, false)

	c, _ := newAuthContext(t, http.MethodPost, "/api/v1/users/signup",
		`{"name":"Alice","email":"alice@example.com","role":"student","password":"pass1234","password_confirm":"different"}`)

	err := h.Signup(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 validation error, got %v", err)
	}
}

func TestAuthHandler_Signup_RoleRestricted(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, time.Hour, false)

	c, _ := newAuthContext(t, http.MethodPost, "/api/v1/users/signup",
		`{"name":"Eve","email":"eve@example.com","role":"admin","password":"pass1234","password_confirm":"pass1234"}`)

	err := h.Signup(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("admin signup must fail schema validation, got %v", err)
	}
}

func TestAuthHandler_Login_SetsSessionCookie(t *testing.T) {
	svc := &stubAuthService{token: "session-token", user: &domain.User{ID: "u1", Email: "a@example.com"}}
	h := NewAuthHandler(svc, time.Hour, true)

	c, rec := newAuthContext(t, http.MethodPost, "/api/v1/users/login",
		`{"email":"a@example.com","password":"pass1234"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("login handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatalf("session cookie not set")
	}
	if cookie.Value != "session-token" {
		t.Fatalf("unexpected cookie value: %s", cookie.Value)
	}
	if !cookie.HttpOnly || !cookie.Secure {
		t.Fatalf("cookie must be http-only and secure: %+v", cookie)
	}
	if !cookie.Expires.After(time.Now()) {
		t.Fatalf("cookie already expired: %v", cookie.Expires)
	}
}

func TestAuthHandler_Login_FailurePassesThrough(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{err: domain.ErrInvalidCredentials}, time.Hour, false)

	c, rec := newAuthContext(t, http.MethodPost, "/api/v1/users/login",
		`{"email":"a@example.com","password":"wrong"}`)

	if err := h.Login(c); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if sessionCookie(rec) != nil {
		t.Fatalf("no cookie on failed login")
	}
}

func TestAuthHandler_Logout_ExpiresCookie(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, time.Hour, false)

	c, rec := newAuthContext(t, http.MethodGet, "/api/v1/users/logout", "")

	if err := h.Logout(c); err != nil {
		t.Fatalf("logout handler error: %v", err)
	}

	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatalf("logout must rewrite the session cookie")
	}
	if cookie.Value != "" {
		t.Fatalf("expected cleared cookie, got %q", cookie.Value)
	}
	if cookie.Expires.After(time.Now()) {
		t.Fatalf("cookie must be expired: %v", cookie.Expires)
	}
}

func TestAuthHandler_OAuth_NewAccountGets201(t *testing.T) {
	svc := &stubAuthService{token: "t", user: &domain.User{ID: "u1"}, created: true}
	h := NewAuthHandler(svc, time.Hour, false)

	c, rec := newAuthContext(t, http.MethodPost, "/api/v1/users/oauth",
		`{"email":"new@example.com","name":"New User"}`)

	if err := h.OAuth(c); err != nil {
		t.Fatalf("oauth handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 for a new account, got %d", rec.Code)
	}

	svc.created = false
	c, rec = newAuthContext(t, http.MethodPost, "/api/v1/users/oauth",
		`{"email":"new@example.com","name":"New User"}`)
	if err := h.OAuth(c); err != nil {
		t.Fatalf("oauth handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for an existing account, got %d", rec.Code)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	user := &domain.User{ID: "u1", Email: "me@example.com"}
	h := NewAuthHandler(&stubAuthService{}, time.Hour, false)

	c, rec := newAuthContext(t, http.MethodGet, "/api/v1/users/me", "")
	c.Set(middleware.UserKey, user)

	if err := h.Me(c); err != nil {
		t.Fatalf("me handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "me@example.com") {
		t.Fatalf("profile missing from body: %s", rec.Body.String())
	}
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, time.Hour, false)

	c, _ := newAuthContext(t, http.MethodGet, "/api/v1/users/me", "")

	if err := h.Me(c); err != domain.ErrNotAuthenticated {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestAuthHandler_DeleteMe(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, time.Hour, false)

	c, rec := newAuthContext(t, http.MethodDelete, "/api/v1/users/deleteMe", "")
	c.Set(middleware.UserKey, &domain.User{ID: "u1"})

	if err := h.DeleteMe(c); err != nil {
		t.Fatalf("delete handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}
