package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/awesome-restaurant/restaurant-api/internal/core/ports"
)

type StatsHandler struct {
	reports ports.ReportingService
}

func NewStatsHandler(reports ports.ReportingService) *StatsHandler {
	return &StatsHandler{reports: reports}
}

// Summary returns revenue and store counts.
//
// @Summary      Admin summary statistics
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.SummaryStats
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /admin-stats [get]
func (h *StatsHandler) Summary(c echo.Context) error {
	stats, err := h.reports.SummaryStats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// Orders returns sold items grouped by menu category, in no particular order.
//
// @Summary      Order statistics by category
// @Tags         stats
// @Produce      json
// @Success      200  {array}  domain.CategoryStat
// @Router       /order-stats [get]
func (h *StatsHandler) Orders(c echo.Context) error {
	breakdown, err := h.reports.CategoryBreakdown(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, breakdown)
}
