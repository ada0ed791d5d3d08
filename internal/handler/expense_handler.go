package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"clubhub/internal/service"
)

// ExpenseHandler handles club expense endpoints.
type ExpenseHandler struct {
	svc service.ExpenseService
}

// NewExpenseHandler creates a new expense handler.
func NewExpenseHandler(svc service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{svc: svc}
}

// CreateExpenseRequest is the multipart form for a new expense. The proof
// file rides alongside under the "proof" field.
type CreateExpenseRequest struct {
	Type   string `form:"type" validate:"required"`
	Amount string `form:"amount" validate:"required"`
	Date   string `form:"date" validate:"required"`
	Note   string `form:"note"`
}

// UpdateExpenseRequest carries partial expense updates.
type UpdateExpenseRequest struct {
	Type   *string  `json:"type"`
	Amount *float64 `json:"amount"`
	Date   *string  `json:"date"`
	Note   *string  `json:"note"`
}

// parseDate accepts the two date shapes the dashboard sends.
func parseDate(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// Latest godoc
// @Summary Most recent expenses
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Expense
// @Failure 401 {object} errors.ErrorResponse
// @Router /expenses/latest [get]
func (h *ExpenseHandler) Latest(c echo.Context) error {
	expenses, err := h.svc.Latest(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, expenses)
}

// Total godoc
// @Summary Aggregate expense total and count
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.TotalSummary
// @Failure 401 {object} errors.ErrorResponse
// @Router /expenses/total [get]
func (h *ExpenseHandler) Total(c echo.Context) error {
	summary, err := h.svc.Total(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, summary)
}

// Create godoc
// @Summary Record an expense
// @Tags expenses
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param type formData string true "Category"
// @Param amount formData string true "Amount"
// @Param date formData string true "Date (YYYY-MM-DD or RFC 3339)"
// @Param note formData string false "Note"
// @Param proof formData file false "Proof (image or PDF)"
// @Success 201 {object} model.Expense
// @Failure 400 {object} errors.ErrorResponse
// @Router /expenses [post]
func (h *ExpenseHandler) Create(c echo.Context) error {
	var req CreateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "amount must be a positive number")
	}
	date, ok := parseDate(req.Date)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be a valid date")
	}

	proof, err := c.FormFile("proof")
	if err != nil {
		proof = nil // no file attached
	}

	expense, err := h.svc.Create(c.Request().Context(), service.ExpenseInput{
		Type:   req.Type,
		Amount: amount,
		Date:   date,
		Note:   req.Note,
		Proof:  proof,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, expense)
}

// Update godoc
// @Summary Update an expense
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Expense ID"
// @Param request body UpdateExpenseRequest true "Fields to change"
// @Success 200 {object} model.Expense
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /expenses/{id} [patch]
func (h *ExpenseHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req UpdateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	in := service.UpdateExpenseInput{
		Type: req.Type,
		Note: req.Note,
	}
	if req.Amount != nil {
		amount := decimal.NewFromFloat(*req.Amount)
		in.Amount = &amount
	}
	if req.Date != nil {
		date, ok := parseDate(*req.Date)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "date must be a valid date")
		}
		in.Date = &date
	}

	expense, err := h.svc.Update(c.Request().Context(), id, in)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, expense)
}

// Delete godoc
// @Summary Delete an expense
// @Tags expenses
// @Security BearerAuth
// @Param id path string true "Expense ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Router /expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
