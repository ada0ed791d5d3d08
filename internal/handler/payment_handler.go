package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"clubhub/internal/model"
	"clubhub/internal/service"
)

// PaymentHandler handles dues payment endpoints.
type PaymentHandler struct {
	svc service.PaymentService
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(svc service.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

// MarkRequest transitions a payment's status, optionally correcting the
// amount alongside.
type MarkRequest struct {
	Status string   `json:"status" validate:"required,oneof=pending completed"`
	Amount *float64 `json:"amount"`
}

// Mine godoc
// @Summary Own payment history
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Payment
// @Failure 401 {object} errors.ErrorResponse
// @Router /payments/me [get]
func (h *PaymentHandler) Mine(c echo.Context) error {
	payments, err := h.svc.ListByUser(c.Request().Context(), CurrentUser(c).ID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, payments)
}

// MyDues godoc
// @Summary Own dues summary for the current year
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.DuesSummary
// @Failure 401 {object} errors.ErrorResponse
// @Router /payments/me/dues [get]
func (h *PaymentHandler) MyDues(c echo.Context) error {
	summary, err := h.svc.Dues(c.Request().Context(), CurrentUser(c).ID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, summary)
}

// Submit godoc
// @Summary Submit a month's payment
// @Description Upserts the (user, month) record: status resets to pending and a new proof replaces the old one.
// @Tags payments
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param month formData string true "Month token YYYY-MM"
// @Param amount formData string false "Amount override"
// @Param proof formData file false "Proof of payment (image or PDF)"
// @Success 201 {object} model.Payment
// @Failure 400 {object} errors.ErrorResponse
// @Router /payments/submit [post]
func (h *PaymentHandler) Submit(c echo.Context) error {
	month := c.FormValue("month")

	var amount *decimal.Decimal
	if raw := c.FormValue("amount"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "amount must be a number")
		}
		amount = &parsed
	}

	proof, err := c.FormFile("proof")
	if err != nil {
		proof = nil // no file attached
	}

	payment, err := h.svc.Submit(c.Request().Context(), CurrentUser(c).ID, month, amount, proof)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, payment)
}

// List godoc
// @Summary List all payments
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending or completed"
// @Success 200 {array} model.Payment
// @Failure 403 {object} errors.ErrorResponse
// @Router /payments [get]
func (h *PaymentHandler) List(c echo.Context) error {
	status := model.PaymentStatus(c.QueryParam("status"))
	payments, err := h.svc.List(c.Request().Context(), status)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, payments)
}

// ByUser godoc
// @Summary Payments of a specific member
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {array} model.Payment
// @Failure 400 {object} errors.ErrorResponse
// @Router /payments/user/{id} [get]
func (h *PaymentHandler) ByUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	payments, err := h.svc.ListByUser(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, payments)
}

// UserDues godoc
// @Summary Dues summary of a specific member
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} service.DuesSummary
// @Failure 404 {object} errors.ErrorResponse
// @Router /payments/user/{id}/dues [get]
func (h *PaymentHandler) UserDues(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	summary, err := h.svc.Dues(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, summary)
}

// Unpaid godoc
// @Summary Members without a completed payment for a month
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param month query string true "Month token YYYY-MM"
// @Success 200 {object} service.UnpaidResult
// @Failure 400 {object} errors.ErrorResponse
// @Router /payments/unpaid [get]
func (h *PaymentHandler) Unpaid(c echo.Context) error {
	result, err := h.svc.Unpaid(c.Request().Context(), c.QueryParam("month"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, result)
}

// Mark godoc
// @Summary Transition a payment's status
// @Description completed is terminal; changing it back to pending is rejected.
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Param request body MarkRequest true "Status and optional amount"
// @Success 200 {object} model.Payment
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /payments/{id}/mark [patch]
func (h *PaymentHandler) Mark(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req MarkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, `status must be "pending" or "completed"`)
	}

	var amount *decimal.Decimal
	if req.Amount != nil {
		parsed := decimal.NewFromFloat(*req.Amount)
		amount = &parsed
	}

	payment, err := h.svc.Mark(c.Request().Context(), id, model.PaymentStatus(req.Status), amount)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, payment)
}

// Total godoc
// @Summary Aggregate payment total and count
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending or completed"
// @Success 200 {object} service.TotalSummary
// @Failure 401 {object} errors.ErrorResponse
// @Router /payments/total [get]
func (h *PaymentHandler) Total(c echo.Context) error {
	status := model.PaymentStatus(c.QueryParam("status"))
	summary, err := h.svc.Total(c.Request().Context(), status)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, summary)
}
