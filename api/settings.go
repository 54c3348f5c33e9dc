package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/glucolog/insights/settings"
)

// AnalysisSettingsDto never carries the stored API key. Callers see whether
// analysis is configured and the key's last characters for recognition.
type AnalysisSettingsDto struct {
	Configured  bool       `json:"configured"`
	APIKeyHint  string     `json:"apiKeyHint,omitempty"`
	Model       string     `json:"model"`
	MaxTokens   int        `json:"maxTokens"`
	TimeZone    string     `json:"timeZone"`
	TargetLow   float64    `json:"targetLow"`
	TargetHigh  float64    `json:"targetHigh"`
	UpdatedTime *time.Time `json:"updatedTime,omitempty"`
}

// UpdateAnalysisSettingsDto fields are optional; omitted fields keep their
// stored value. Setting apiKey to an empty string deconfigures analysis.
type UpdateAnalysisSettingsDto struct {
	APIKey     *string  `json:"apiKey,omitempty"`
	Model      *string  `json:"model,omitempty"`
	MaxTokens  *int     `json:"maxTokens,omitempty"`
	TimeZone   *string  `json:"timeZone,omitempty"`
	TargetLow  *float64 `json:"targetLow,omitempty"`
	TargetHigh *float64 `json:"targetHigh,omitempty"`
}

func NewAnalysisSettingsDto(s *settings.AnalysisSettings) AnalysisSettingsDto {
	return AnalysisSettingsDto{
		Configured:  s.IsConfigured(),
		APIKeyHint:  maskKey(s.APIKey),
		Model:       s.Model,
		MaxTokens:   s.MaxTokens,
		TimeZone:    s.TimeZone,
		TargetLow:   s.TargetLow,
		TargetHigh:  s.TargetHigh,
		UpdatedTime: s.UpdatedTime,
	}
}

func maskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return "****" + key[len(key)-4:]
}

func (h *Handler) GetAnalysisSettings(ec echo.Context) error {
	ctx := ec.Request().Context()
	current, err := h.settings.Current(ctx)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, NewAnalysisSettingsDto(current))
}

func (h *Handler) UpdateAnalysisSettings(ec echo.Context) error {
	ctx := ec.Request().Context()
	dto := UpdateAnalysisSettingsDto{}
	if err := ec.Bind(&dto); err != nil {
		return err
	}

	updated, err := h.settings.Update(ctx, settings.Update{
		APIKey:     dto.APIKey,
		Model:      dto.Model,
		MaxTokens:  dto.MaxTokens,
		TimeZone:   dto.TimeZone,
		TargetLow:  dto.TargetLow,
		TargetHigh: dto.TargetHigh,
	})
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, NewAnalysisSettingsDto(updated))
}
