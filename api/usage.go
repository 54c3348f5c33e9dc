package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const defaultReportWindow = 30 * 24 * time.Hour

// GetUsageReport aggregates the usage rows in the requested window. The
// window defaults to the last thirty days.
func (h *Handler) GetUsageReport(ec echo.Context) error {
	ctx := ec.Request().Context()

	start, err := optionalTimeQuery(ec, "start")
	if err != nil {
		return err
	}
	end, err := optionalTimeQuery(ec, "end")
	if err != nil {
		return err
	}

	if end == nil {
		now := time.Now()
		end = &now
	}
	if start == nil {
		from := end.Add(-defaultReportWindow)
		start = &from
	}

	report, err := h.usage.Report(ctx, *start, *end)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, report)
}

func (h *Handler) GetPricing(ec echo.Context) error {
	return ec.JSON(http.StatusOK, h.pricing.Models())
}
