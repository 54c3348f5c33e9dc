package settings

import (
	"context"
	"fmt"
	"time"

	"github.com/glucolog/insights/errors"
)

var (
	ErrInvalidModel     = fmt.Errorf("%w: model is required", errors.BadRequest)
	ErrInvalidMaxTokens = fmt.Errorf("%w: max tokens must be between 1 and 32768", errors.BadRequest)
	ErrInvalidTimeZone  = fmt.Errorf("%w: time zone is not recognized", errors.BadRequest)
	ErrInvalidTargets   = fmt.Errorf("%w: target range is invalid", errors.BadRequest)
)

const (
	DefaultModel     = "gpt-4o-mini"
	DefaultMaxTokens = 1000
	DefaultTimeZone  = "UTC"

	// Default display targets, mg/dL. Statistics use the fixed clinical
	// band regardless of these.
	DefaultTargetLow  = 70.0
	DefaultTargetHigh = 180.0

	maxTokensLimit = 32768
)

// AnalysisSettings is the configuration snapshot consumed by the analysis
// pipeline. A snapshot is read fresh on every invocation and is never cached.
type AnalysisSettings struct {
	APIKey      string     `bson:"apiKey"`
	Model       string     `bson:"model"`
	MaxTokens   int        `bson:"maxTokens"`
	TimeZone    string     `bson:"timeZone"`
	TargetLow   float64    `bson:"targetLow"`
	TargetHigh  float64    `bson:"targetHigh"`
	UpdatedTime *time.Time `bson:"updatedTime,omitempty"`
}

// IsConfigured reports whether analysis can run at all. Without an API key
// the pipeline short-circuits before any AI call is made.
func (s AnalysisSettings) IsConfigured() bool {
	return s.APIKey != ""
}

func (s AnalysisSettings) Location() (*time.Location, error) {
	if s.TimeZone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(s.TimeZone)
}

// Update carries the mutable settings. A nil field leaves the stored value
// unchanged, except for APIKey which is replaced when non-nil (an empty
// string deconfigures analysis).
type Update struct {
	APIKey     *string
	Model      *string
	MaxTokens  *int
	TimeZone   *string
	TargetLow  *float64
	TargetHigh *float64
}

func Default() AnalysisSettings {
	return AnalysisSettings{
		Model:      DefaultModel,
		MaxTokens:  DefaultMaxTokens,
		TimeZone:   DefaultTimeZone,
		TargetLow:  DefaultTargetLow,
		TargetHigh: DefaultTargetHigh,
	}
}

//go:generate mockgen --build_flags=--mod=mod -source=./settings.go -destination=./test/mock_settings.go -package test

type Service interface {
	Current(ctx context.Context) (*AnalysisSettings, error)
	Update(ctx context.Context, update Update) (*AnalysisSettings, error)
}

type Repository interface {
	Get(ctx context.Context) (*AnalysisSettings, error)
	Upsert(ctx context.Context, snapshot AnalysisSettings) (*AnalysisSettings, error)
}
