package analysis

import (
	"context"
	"fmt"

	"github.com/glucolog/insights/errors"
)

// ErrUpstream marks an AI call that reached the service but was rejected.
// The token spend has already been logged by the time it is returned.
var ErrUpstream = fmt.Errorf("%w: ai completion failed", errors.BadGateway)

// Outcome distinguishes the ways an analysis run can finish without
// producing an error. "No analysis produced" is a normal result here, never
// an error: an unconfigured system or an empty model response are expected
// states the caller must be able to tell apart from a failure.
type Outcome string

const (
	// OutcomeAnalyzed means content was produced, persisted and notified.
	OutcomeAnalyzed Outcome = "analyzed"
	// OutcomeNotConfigured means no API key is set; nothing was called,
	// logged or modified.
	OutcomeNotConfigured Outcome = "not_configured"
	// OutcomeEmpty means the AI returned no usable content; the usage log
	// still records the attempt.
	OutcomeEmpty Outcome = "empty"
)

type Result struct {
	Outcome        Outcome
	Text           string
	Classification *string
}

//go:generate mockgen --build_flags=--mod=mod -source=./analysis.go -destination=./test/mock_analysis.go -package test

type Service interface {
	// AnalyzeEvent runs one event through the full analysis pipeline.
	// Concurrent calls for the same event id share a single execution and
	// receive the same result. The model override, when non-empty, takes
	// precedence over the configured model for this run only.
	AnalyzeEvent(ctx context.Context, eventId, reason, modelOverride string) (Result, error)
}
