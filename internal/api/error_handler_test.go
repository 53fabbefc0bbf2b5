package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/campusunify/campus-api/internal/core/domain"
)

func render(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)
	return rec
}

func TestHTTPErrorHandler_DomainMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrInvalidOTP, http.StatusBadRequest},
		{domain.ErrInvalidResetToken, http.StatusBadRequest},
		{domain.ErrInvalidRole, http.StatusBadRequest},
		{domain.ErrNotAuthenticated, http.StatusUnauthorized},
		{domain.ErrStaleToken, http.StatusUnauthorized},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrEmailNotVerified, http.StatusUnauthorized},
		{domain.ErrWrongPassword, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrPastDate, http.StatusForbidden},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrEventNotFound, http.StatusNotFound},
		{domain.ErrEventDayNotFound, http.StatusNotFound},
		{domain.ErrOrderNotFound, http.StatusNotFound},
		{domain.ErrEmailTaken, http.StatusConflict},
		{domain.ErrCartDuplicate, http.StatusConflict},
		{domain.ErrEmptyCart, http.StatusUnprocessableEntity},
		{domain.ErrPaymentVerification, http.StatusUnprocessableEntity},
		{domain.ErrTooManyRequests, http.StatusTooManyRequests},
		{domain.ErrEmailDelivery, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		rec := render(t, tc.err)
		if rec.Code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), tc.err.Error()) {
			t.Fatalf("%v: message missing from body: %s", tc.err, rec.Body.String())
		}
	}
}

func TestHTTPErrorHandler_StatusField(t *testing.T) {
	rec := render(t, domain.ErrEventNotFound)
	if !strings.Contains(rec.Body.String(), `"status":"fail"`) {
		t.Fatalf("4xx must carry status fail: %s", rec.Body.String())
	}

	rec = render(t, domain.ErrEmailDelivery)
	if !strings.Contains(rec.Body.String(), `"status":"error"`) {
		t.Fatalf("5xx must carry status error: %s", rec.Body.String())
	}
}

func TestHTTPErrorHandler_UnknownErrorHidden(t *testing.T) {
	rec := render(t, errors.New("pq: connection refused"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "connection refused") {
		t.Fatalf("internal details leaked: %s", rec.Body.String())
	}
}

func TestHTTPErrorHandler_EchoErrorPassthrough(t *testing.T) {
	rec := render(t, echo.NewHTTPError(http.StatusBadRequest, "invalid payload"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid payload") {
		t.Fatalf("message missing: %s", rec.Body.String())
	}
}
