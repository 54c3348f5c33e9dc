package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type HealthCheck struct {
	ready bool
}

func NewHealthCheck() *HealthCheck {
	return &HealthCheck{}
}

func (h *HealthCheck) SetReady(ready bool) {
	h.ready = ready
}

// Readiness probe. Reports failure until the database responded to a ping.
func (h *HealthCheck) Ready(ec echo.Context) error {
	if !h.ready {
		return ec.NoContent(http.StatusServiceUnavailable)
	}

	return ec.NoContent(http.StatusOK)
}
