package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"clubhub/internal/model"
	"clubhub/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents a successful login.
type LoginResponse struct {
	Token string        `json:"token"`
	User  model.Summary `json:"user"`
}

// EmailCodeRequest asks for a verification code to be mailed.
type EmailCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyCodeRequest carries the code back for verification.
type VerifyCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6"`
}

// Login godoc
// @Summary Login with username and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, LoginResponse{
		Token: token,
		User:  user.Summarize(),
	})
}

// Me godoc
// @Summary Current member summary
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Summary
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	// the auth gate already resolved and vetted the account
	return c.JSON(http.StatusOK, CurrentUser(c).Summarize())
}

// Signup godoc
// @Summary Self-signup (disabled)
// @Tags auth
// @Produce json
// @Failure 403 {object} errors.ErrorResponse
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	// accounts are created by an admin only
	return echo.NewHTTPError(http.StatusForbidden, "Signup disabled. Contact admin for an account.")
}

// RequestEmailCode godoc
// @Summary Mail a signup verification code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body EmailCodeRequest true "Email"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /auth/request-email-code [post]
func (h *AuthHandler) RequestEmailCode(c echo.Context) error {
	var req EmailCodeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.RequestEmailCode(c.Request().Context(), req.Email); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "verification code sent"})
}

// VerifyEmailCode godoc
// @Summary Verify a mailed signup code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body VerifyCodeRequest true "Email and code"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Router /auth/verify-email-code [post]
func (h *AuthHandler) VerifyEmailCode(c echo.Context) error {
	var req VerifyCodeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.VerifyEmailCode(c.Request().Context(), req.Email, req.Code); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "email verified"})
}
