package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/campusunify/campus-api/internal/core/domain"
)

func runRestricted(t *testing.T, user *domain.User, roles ...string) (error, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	if user != nil {
		c.Set(UserKey, user)
	}

	called := false
	handler := RestrictTo(roles...)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	return handler(c), called
}

func TestRestrictTo_AllowedRole(t *testing.T) {
	err, called := runRestricted(t, &domain.User{ID: "u1", Role: domain.RoleClub}, domain.RoleClub)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestRestrictTo_MultipleRoles(t *testing.T) {
	err, called := runRestricted(t, &domain.User{ID: "u1", Role: domain.RoleAdmin}, domain.RoleClub, domain.RoleAdmin)
	if err != nil || !called {
		t.Fatalf("admin should pass a club|admin restriction: err=%v called=%v", err, called)
	}
}

func TestRestrictTo_ForbiddenRole(t *testing.T) {
	err, called := runRestricted(t, &domain.User{ID: "u1", Role: domain.RoleStudent}, domain.RoleClub)
	if err != domain.ErrForbidden || called {
		t.Fatalf("expected ErrForbidden, got err=%v called=%v", err, called)
	}
}

func TestRestrictTo_NoIdentity(t *testing.T) {
	err, called := runRestricted(t, nil, domain.RoleClub)
	if err != domain.ErrNotAuthenticated || called {
		t.Fatalf("expected ErrNotAuthenticated, got err=%v called=%v", err, called)
	}
}
