package api

import (
	"fmt"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"github.com/glucolog/insights/analysis"
	"github.com/glucolog/insights/errors"
	"github.com/glucolog/insights/events"
	"github.com/glucolog/insights/readings"
	"github.com/glucolog/insights/settings"
	"github.com/glucolog/insights/store"
	"github.com/glucolog/insights/usage"
)

type Handler struct {
	analysis analysis.Service
	events   events.Service
	readings readings.Repository
	settings settings.Service
	usage    usage.Service
	pricing  usage.PriceTable
}

type Params struct {
	fx.In

	Analysis analysis.Service
	Events   events.Service
	Readings readings.Repository
	Settings settings.Service
	Usage    usage.Service
	Pricing  usage.PriceTable
}

func NewHandler(p Params) *Handler {
	return &Handler{
		analysis: p.Analysis,
		events:   p.Events,
		readings: p.Readings,
		settings: p.Settings,
		usage:    p.Usage,
		pricing:  p.Pricing,
	}
}

func pagination(ec echo.Context) (store.Pagination, error) {
	page := store.DefaultPagination()
	if offset := ec.QueryParam("offset"); offset != "" {
		parsed, err := parseQueryInt("offset", offset)
		if err != nil {
			return page, err
		}
		page.Offset = parsed
	}
	if limit := ec.QueryParam("limit"); limit != "" {
		parsed, err := parseQueryInt("limit", limit)
		if err != nil {
			return page, err
		}
		page.Limit = parsed
	}
	return page, nil
}

func parseQueryInt(name, value string) (int, error) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", errors.BadRequest, name)
	}
	return parsed, nil
}

func optionalTimeQuery(ec echo.Context, name string) (*time.Time, error) {
	value := ec.QueryParam(name)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an RFC3339 timestamp", errors.BadRequest, name)
	}
	return &parsed, nil
}

func requiredTimeQuery(ec echo.Context, name string) (time.Time, error) {
	parsed, err := optionalTimeQuery(ec, name)
	if err != nil {
		return time.Time{}, err
	}
	if parsed == nil {
		return time.Time{}, fmt.Errorf("%w: %s is required", errors.BadRequest, name)
	}
	return *parsed, nil
}
