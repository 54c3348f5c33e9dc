package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/glucolog/insights/aiclient"
	"github.com/glucolog/insights/events"
	"github.com/glucolog/insights/notifications"
	"github.com/glucolog/insights/readings"
	"github.com/glucolog/insights/settings"
	"github.com/glucolog/insights/stats"
	"github.com/glucolog/insights/usage"
)

type service struct {
	events   events.Service
	readings readings.Repository
	usage    usage.Repository
	settings settings.Service
	client   aiclient.Client
	notifier notifications.Notifier
	logger   *zap.SugaredLogger

	inflight singleflight.Group
}

var _ Service = &service{}

func NewService(eventsService events.Service, readingsRepo readings.Repository, usageRepo usage.Repository, settingsService settings.Service, client aiclient.Client, notifier notifications.Notifier, logger *zap.SugaredLogger) (Service, error) {
	return &service{
		events:   eventsService,
		readings: readingsRepo,
		usage:    usageRepo,
		settings: settingsService,
		client:   client,
		notifier: notifier,
		logger:   logger,
	}, nil
}

func (s *service) AnalyzeEvent(ctx context.Context, eventId, reason, modelOverride string) (Result, error) {
	// Overlapping requests for the same event, e.g. a scheduled run racing
	// a manual reprocess, share one execution and one usage row.
	result, err, _ := s.inflight.Do(eventId, func() (interface{}, error) {
		return s.analyze(ctx, eventId, reason, modelOverride)
	})
	if err != nil {
		return Result{}, err
	}
	return result.(Result), nil
}

func (s *service) analyze(ctx context.Context, eventId, reason, modelOverride string) (Result, error) {
	snapshot, err := s.settings.Current(ctx)
	if err != nil {
		return Result{}, err
	}
	if !snapshot.IsConfigured() {
		return Result{Outcome: OutcomeNotConfigured}, nil
	}

	event, err := s.events.Get(ctx, eventId)
	if err != nil {
		return Result{}, err
	}

	window, err := s.readings.InWindow(ctx, event.PeriodStart, event.PeriodEnd)
	if err != nil {
		return Result{}, err
	}
	eventStats := stats.ComputeEventStats(window, event.EventTime)

	model := snapshot.Model
	if modelOverride != "" {
		model = modelOverride
	}
	systemPrompt, userPrompt := buildPrompts(event, eventStats)

	runId := uuid.NewString()
	completion, err := s.client.Complete(ctx, aiclient.Request{
		APIKey:       snapshot.APIKey,
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt,
		Model:        model,
		MaxTokens:    snapshot.MaxTokens,
	})
	if err != nil {
		// The request never produced a structured result, so there is no
		// spend to account for.
		return Result{}, fmt.Errorf("error requesting analysis: %w", err)
	}

	// One usage row per structured outcome, before the result is inspected,
	// so spend is accounted for even when nothing usable came back.
	if err := s.appendUsage(ctx, runId, event, model, completion); err != nil {
		return Result{}, err
	}

	if !completion.Success {
		message := ""
		if completion.ErrorMessage != nil {
			message = *completion.ErrorMessage
		}
		return Result{}, fmt.Errorf("%w: status %d: %s", ErrUpstream, completion.HttpStatus, message)
	}

	if strings.TrimSpace(completion.Content) == "" {
		s.notify(ctx, notifications.TopicUsageUpdated, 1)
		return Result{Outcome: OutcomeEmpty}, nil
	}

	cleaned, classification := ParseClassificationTag(completion.Content)

	if _, err := s.events.ApplyAnalysis(ctx, eventId, events.AnalysisUpdate{
		Stats:          eventStats.WithFallback(event.Stats),
		Analysis:       cleaned,
		Classification: classification,
		Reason:         reason,
		RunId:          runId,
		ProcessedTime:  time.Now(),
	}); err != nil {
		return Result{}, err
	}

	s.notify(ctx, notifications.TopicEventsUpdated, 1)
	s.notify(ctx, notifications.TopicUsageUpdated, 1)

	s.logger.Infow("event analyzed",
		"eventId", eventId,
		"runId", runId,
		"reason", reason,
		"classification", classification,
	)

	return Result{
		Outcome:        OutcomeAnalyzed,
		Text:           cleaned,
		Classification: classification,
	}, nil
}

func (s *service) appendUsage(ctx context.Context, runId string, event *events.Event, requestedModel string, completion *aiclient.Completion) error {
	model := completion.Model
	if model == "" {
		model = requestedModel
	}

	record := usage.Record{
		RunId:        runId,
		EventId:      event.Id,
		Model:        model,
		InputTokens:  completion.InputTokens,
		OutputTokens: completion.OutputTokens,
		TotalTokens:  completion.TotalTokens,
		Success:      completion.Success,
		HttpStatus:   completion.HttpStatus,
		FinishReason: completion.FinishReason,
		DurationMs:   completion.Duration.Milliseconds(),
		CreatedTime:  time.Now(),
	}
	if _, err := s.usage.Append(ctx, record); err != nil {
		return fmt.Errorf("error recording usage: %w", err)
	}
	return nil
}

func (s *service) notify(ctx context.Context, topic notifications.Topic, count int) {
	if err := s.notifier.Notify(ctx, topic, count); err != nil {
		s.logger.Warnw("unable to send notification", "topic", topic, "error", err)
	}
}
