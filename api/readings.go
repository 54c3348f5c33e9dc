package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/glucolog/insights/errors"
	"github.com/glucolog/insights/readings"
)

type CreateReadingsResponse struct {
	Created int `json:"created"`
}

// CreateReadings accepts a single reading object or an array of readings.
// Bulk inserts skip readings whose timestamp is already stored and report
// the number actually created.
func (h *Handler) CreateReadings(ec echo.Context) error {
	ctx := ec.Request().Context()

	body, err := io.ReadAll(ec.Request().Body)
	if err != nil {
		return err
	}

	if trimmed := bytes.TrimLeft(body, " \t\r\n"); len(trimmed) > 0 && trimmed[0] == '[' {
		var dtos []readings.Reading
		if err := json.Unmarshal(body, &dtos); err != nil {
			return fmt.Errorf("%w: %s", errors.BadRequest, err)
		}

		created, err := h.readings.CreateMany(ctx, dtos)
		if err != nil {
			return err
		}
		return ec.JSON(http.StatusOK, CreateReadingsResponse{Created: created})
	}

	dto := readings.Reading{}
	if err := json.Unmarshal(body, &dto); err != nil {
		return fmt.Errorf("%w: %s", errors.BadRequest, err)
	}

	created, err := h.readings.Create(ctx, dto)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, created)
}

func (h *Handler) ListReadings(ec echo.Context) error {
	ctx := ec.Request().Context()
	page, err := pagination(ec)
	if err != nil {
		return err
	}

	filter := readings.Filter{}
	if filter.From, err = optionalTimeQuery(ec, "start"); err != nil {
		return err
	}
	if filter.To, err = optionalTimeQuery(ec, "end"); err != nil {
		return err
	}

	list, err := h.readings.List(ctx, &filter, page)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, list)
}
