package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"clubhub/internal/service"
)

// UserHandler handles member administration endpoints.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// CreateUserRequest is the multipart form for creating a member. The avatar
// file rides alongside under the "avatar" field.
type CreateUserRequest struct {
	Name        string `form:"name" validate:"required"`
	Username    string `form:"username" validate:"required"`
	Email       string `form:"email" validate:"omitempty,email"`
	Password    string `form:"password" validate:"required,min=6"`
	Role        string `form:"role" validate:"omitempty,oneof=admin member"`
	FixedAmount string `form:"fixedAmount"`
}

// UpdateUserRequest carries partial member updates.
type UpdateUserRequest struct {
	Name        *string  `json:"name"`
	Username    *string  `json:"username"`
	Email       *string  `json:"email" validate:"omitempty,email"`
	Role        *string  `json:"role" validate:"omitempty,oneof=admin member"`
	FixedAmount *float64 `json:"fixedAmount" validate:"omitempty,gte=0"`
}

// BlockRequest toggles the blocked flag.
type BlockRequest struct {
	Blocked bool `json:"blocked"`
}

// PasswordRequest resets a member's password.
type PasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

// List godoc
// @Summary List members
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.User
// @Failure 403 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.svc.List(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, users)
}

// Create godoc
// @Summary Create a member
// @Tags users
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param name formData string true "Full name"
// @Param username formData string true "Unique username"
// @Param email formData string false "Email"
// @Param password formData string true "Password (min 6 chars)"
// @Param role formData string false "admin or member"
// @Param fixedAmount formData string false "Monthly due amount"
// @Param avatar formData file false "Avatar image"
// @Success 201 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	fixed := decimal.Zero
	if req.FixedAmount != "" {
		var err error
		fixed, err = decimal.NewFromString(req.FixedAmount)
		if err != nil || fixed.IsNegative() {
			return echo.NewHTTPError(http.StatusBadRequest, "fixedAmount must be a non-negative number")
		}
	}

	avatar, err := c.FormFile("avatar")
	if err != nil {
		avatar = nil // no file attached
	}

	user, err := h.svc.Create(c.Request().Context(), service.CreateUserInput{
		Name:        req.Name,
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		Role:        req.Role,
		FixedAmount: fixed,
		Avatar:      avatar,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"id": user.ID.String()})
}

// Update godoc
// @Summary Update a member
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body UpdateUserRequest true "Fields to change"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /users/{id} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	in := service.UpdateUserInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Role:     req.Role,
	}
	if req.FixedAmount != nil {
		fixed := decimal.NewFromFloat(*req.FixedAmount)
		in.FixedAmount = &fixed
	}

	user, err := h.svc.Update(c.Request().Context(), id, in)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// Block godoc
// @Summary Block or unblock a member
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body BlockRequest true "Blocked flag"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id}/block [patch]
func (h *UserHandler) Block(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req BlockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, err := h.svc.SetBlocked(c.Request().Context(), CurrentUser(c).ID, id, req.Blocked)
	if err != nil {
		return toHTTPError(err)
	}

	message := "User unblocked"
	if req.Blocked {
		message = "User blocked"
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": message,
		"user":    user,
	})
}

// Password godoc
// @Summary Reset a member's password
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body PasswordRequest true "New password"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id}/password [patch]
func (h *UserHandler) Password(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req PasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "password must be at least 6 characters")
	}

	if err := h.svc.SetPassword(c.Request().Context(), id, req.Password); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Password updated"})
}

// Delete godoc
// @Summary Delete a member
// @Tags users
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
