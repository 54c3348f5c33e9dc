package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/glucolog/insights/analysis"
	"github.com/glucolog/insights/events"
)

type AnalysisRequest struct {
	Reason string  `json:"reason"`
	Model  *string `json:"model,omitempty"`
}

type AnalysisResponse struct {
	Outcome        analysis.Outcome `json:"outcome"`
	Analysis       *string          `json:"analysis,omitempty"`
	Classification *string          `json:"classification,omitempty"`
}

type RefreshStatsResponse struct {
	Updated int `json:"updated"`
}

func NewAnalysisResponse(result analysis.Result) AnalysisResponse {
	response := AnalysisResponse{
		Outcome:        result.Outcome,
		Classification: result.Classification,
	}
	if result.Outcome == analysis.OutcomeAnalyzed {
		response.Analysis = &result.Text
	}
	return response
}

func (h *Handler) CreateEvent(ec echo.Context) error {
	ctx := ec.Request().Context()
	dto := events.Event{}
	if err := ec.Bind(&dto); err != nil {
		return err
	}

	event, err := h.events.Create(ctx, dto)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, event)
}

func (h *Handler) ListEvents(ec echo.Context) error {
	ctx := ec.Request().Context()
	page, err := pagination(ec)
	if err != nil {
		return err
	}

	filter := events.Filter{}
	if typ := ec.QueryParam("type"); typ != "" {
		eventType := events.Type(typ)
		filter.Type = &eventType
	}
	if processed := ec.QueryParam("processed"); processed != "" {
		value := processed == "true"
		filter.Processed = &value
	}
	if filter.From, err = optionalTimeQuery(ec, "start"); err != nil {
		return err
	}
	if filter.To, err = optionalTimeQuery(ec, "end"); err != nil {
		return err
	}

	list, err := h.events.List(ctx, &filter, page)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, list)
}

func (h *Handler) GetEvent(ec echo.Context) error {
	ctx := ec.Request().Context()
	event, err := h.events.Get(ctx, ec.Param("id"))
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, event)
}

func (h *Handler) UpdateEvent(ec echo.Context) error {
	ctx := ec.Request().Context()
	dto := events.Update{}
	if err := ec.Bind(&dto); err != nil {
		return err
	}

	event, err := h.events.Update(ctx, ec.Param("id"), dto)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, event)
}

func (h *Handler) AnalyzeEvent(ec echo.Context) error {
	ctx := ec.Request().Context()
	dto := AnalysisRequest{}
	if err := ec.Bind(&dto); err != nil {
		return err
	}

	model := ""
	if dto.Model != nil {
		model = *dto.Model
	}

	result, err := h.analysis.AnalyzeEvent(ctx, ec.Param("id"), dto.Reason, model)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, NewAnalysisResponse(result))
}

func (h *Handler) RefreshEventStats(ec echo.Context) error {
	ctx := ec.Request().Context()
	event, err := h.events.RefreshStats(ctx, ec.Param("id"))
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, event)
}

func (h *Handler) RefreshAllEventStats(ec echo.Context) error {
	ctx := ec.Request().Context()
	updated, err := h.events.RefreshAllStats(ctx)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, RefreshStatsResponse{Updated: updated})
}

func (h *Handler) ListEventHistory(ec echo.Context) error {
	ctx := ec.Request().Context()
	page, err := pagination(ec)
	if err != nil {
		return err
	}

	records, err := h.events.History(ctx, ec.Param("id"), page)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, records)
}
