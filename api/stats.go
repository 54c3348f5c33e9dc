package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/glucolog/insights/stats"
)

// GetPeriodStats computes period statistics over the readings in the
// requested window. Nothing is persisted.
func (h *Handler) GetPeriodStats(ec echo.Context) error {
	ctx := ec.Request().Context()

	start, err := requiredTimeQuery(ec, "start")
	if err != nil {
		return err
	}
	end, err := requiredTimeQuery(ec, "end")
	if err != nil {
		return err
	}

	window, err := h.readings.InWindow(ctx, start, end)
	if err != nil {
		return err
	}

	return ec.JSON(http.StatusOK, stats.ComputePeriodStats(window))
}
