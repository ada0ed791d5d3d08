package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"clubhub/internal/service"
)

// ReportHandler exposes derived aggregates.
type ReportHandler struct {
	svc service.ReportService
}

// NewReportHandler creates a new report handler.
func NewReportHandler(svc service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// Balance godoc
// @Summary Club balance
// @Description Completed payment income minus all expenses, computed fresh on each read.
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.BalanceSummary
// @Failure 401 {object} errors.ErrorResponse
// @Router /reports/balance [get]
func (h *ReportHandler) Balance(c echo.Context) error {
	summary, err := h.svc.Balance(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, summary)
}
