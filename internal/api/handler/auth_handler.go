package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/campusunify/campus-api/internal/api/metrics"
	"github.com/campusunify/campus-api/internal/api/middleware"
	"github.com/campusunify/campus-api/internal/core/domain"
	"github.com/campusunify/campus-api/internal/core/ports"
)

// AuthHandler exposes the account lifecycle over HTTP. The session token
// travels in the HTTP-only "jwt" cookie.
type AuthHandler struct {
	service      ports.AuthService
	cookieTTL    time.Duration
	secureCookie bool
}

func NewAuthHandler(service ports.AuthService, cookieTTL time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{service: service, cookieTTL: cookieTTL, secureCookie: secureCookie}
}

// Signup creates an unverified account and mails a verification code.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Signup details"
// @Success      201   {object}  envelope
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/v1/users/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.Signup(c.Request().Context(), ports.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	metrics.SignupsTotal.WithLabelValues(user.Role).Inc()
	return respond(c, http.StatusCreated, map[string]string{
		"message": "account created, please verify your email",
	})
}

// VerifyEmail confirms the OTP and opens the session.
//
// @Summary      Verify email with OTP
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyEmailRequest  true  "Email and OTP"
// @Success      200   {object}  envelope
// @Failure      400   {object}  errorResponse
// @Router       /api/v1/users/verify [post]
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	var req verifyEmailRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, user, err := h.service.VerifyEmail(c.Request().Context(), req.Email, req.OTP)
	if err != nil {
		metrics.OTPVerificationsTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.OTPVerificationsTotal.WithLabelValues("success").Inc()
	return h.sendToken(c, http.StatusOK, token, user)
}

// Login authenticates with email and password.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  envelope
// @Failure      401   {object}  errorResponse
// @Router       /api/v1/users/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, user, err := h.service.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return h.sendToken(c, http.StatusOK, token, user)
}

// Logout clears the session cookie. Idempotent.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  envelope
// @Router       /api/v1/users/logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.setCookie(c, "", -time.Hour)
	return respond(c, http.StatusOK, nil)
}

// ForgotPassword mails a password-reset link.
//
// @Summary      Request a password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  envelope
// @Failure      404   {object}  errorResponse
// @Router       /api/v1/users/forgotPassword [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.service.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return respond(c, http.StatusOK, map[string]string{"message": "token sent to email"})
}

// ResetPassword consumes the emailed token and sets a new password.
//
// @Summary      Reset password with token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token  path      string                true  "Reset token"
// @Param        body   body      resetPasswordRequest  true  "New password"
// @Success      200    {object}  envelope
// @Failure      400    {object}  errorResponse
// @Router       /api/v1/users/resetPassword/{token} [patch]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, user, err := h.service.ResetPassword(c.Request().Context(), c.Param("token"), req.Password)
	if err != nil {
		return err
	}
	return h.sendToken(c, http.StatusOK, token, user)
}

// UpdatePassword changes the password of the logged-in user.
//
// @Summary      Update own password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      updatePasswordRequest  true  "Current and new password"
// @Success      200   {object}  envelope
// @Failure      401   {object}  errorResponse
// @Router       /api/v1/users/updateMyPassword [patch]
func (h *AuthHandler) UpdatePassword(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	var req updatePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, updated, err := h.service.UpdatePassword(c.Request().Context(), user.ID, req.PasswordCurrent, req.Password)
	if err != nil {
		return err
	}
	return h.sendToken(c, http.StatusOK, token, updated)
}

// OAuth bridges an external identity assertion to a local session.
//
// @Summary      Login or register via OAuth assertion
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      oauthRequest  true  "External identity"
// @Success      200   {object}  envelope
// @Success      201   {object}  envelope
// @Router       /api/v1/users/oauth [post]
func (h *AuthHandler) OAuth(c echo.Context) error {
	var req oauthRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, user, created, err := h.service.OAuth(c.Request().Context(), req.Email, req.Name, req.Photo)
	if err != nil {
		return err
	}

	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	return h.sendToken(c, code, token, user)
}

// Me returns the authenticated user.
//
// @Summary      Get own profile
// @Tags         auth
// @Produce      json
// @Success      200  {object}  envelope
// @Router       /api/v1/users/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user)
}

// DeleteMe soft-deletes the authenticated account.
//
// @Summary      Deactivate own account
// @Tags         auth
// @Success      204
// @Router       /api/v1/users/deleteMe [delete]
func (h *AuthHandler) DeleteMe(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	if err := h.service.Deactivate(c.Request().Context(), user.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// sendToken sets the session cookie and renders the user envelope.
func (h *AuthHandler) sendToken(c echo.Context, code int, token string, user *domain.User) error {
	h.setCookie(c, token, h.cookieTTL)
	return respond(c, code, user)
}

func (h *AuthHandler) setCookie(c echo.Context, token string, ttl time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteNoneMode,
	})
}

// bindAndValidate decodes the JSON body and runs schema validation, mapping
// both failure modes to a 400.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// requireUser extracts the identity attached by the Protect middleware.
func requireUser(c echo.Context) (*domain.User, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}
	return user, nil
}
