package events

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/glucolog/insights/notifications"
	"github.com/glucolog/insights/readings"
	"github.com/glucolog/insights/stats"
	"github.com/glucolog/insights/store"
)

const refreshBatchSize = 100

type service struct {
	dbClient *mongo.Client
	repo     Repository
	history  HistoryRepository
	readings readings.Repository
	notifier notifications.Notifier
	logger   *zap.SugaredLogger
}

var _ Service = &service{}

func NewService(dbClient *mongo.Client, repo Repository, history HistoryRepository, readingsRepo readings.Repository, notifier notifications.Notifier, logger *zap.SugaredLogger) (Service, error) {
	return &service{
		dbClient: dbClient,
		repo:     repo,
		history:  history,
		readings: readingsRepo,
		notifier: notifier,
		logger:   logger,
	}, nil
}

func (s *service) Create(ctx context.Context, event Event) (*Event, error) {
	if err := event.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, event)
}

func (s *service) Get(ctx context.Context, id string) (*Event, error) {
	return s.repo.Get(ctx, id)
}

func (s *service) List(ctx context.Context, filter *Filter, pagination store.Pagination) ([]*Event, error) {
	return s.repo.List(ctx, filter, pagination)
}

func (s *service) Update(ctx context.Context, id string, update Update) (*Event, error) {
	event := Event{
		Type:        update.Type,
		EventTime:   update.EventTime,
		PeriodStart: update.PeriodStart,
		PeriodEnd:   update.PeriodEnd,
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, update)
}

// ApplyAnalysis persists the outcome of one analysis run. The event update
// and the history append happen in a single transaction so a reader never
// observes one without the other.
func (s *service) ApplyAnalysis(ctx context.Context, id string, update AnalysisUpdate) (*Event, error) {
	return store.WithTransaction(ctx, s.dbClient, func(sessionCtx mongo.SessionContext) (*Event, error) {
		updated, err := s.repo.ApplyAnalysis(sessionCtx, id, update)
		if err != nil {
			return nil, err
		}

		record := HistoryRecord{
			EventId:        *updated.Id,
			RunId:          update.RunId,
			Analysis:       update.Analysis,
			Classification: update.Classification,
			Reason:         update.Reason,
			PeriodStart:    updated.PeriodStart,
			PeriodEnd:      updated.PeriodEnd,
			Stats:          update.Stats,
			CreatedTime:    update.ProcessedTime,
		}
		if _, err := s.history.Append(sessionCtx, record); err != nil {
			return nil, err
		}

		return updated, nil
	})
}

// RefreshStats recomputes the event statistics from the readings currently
// in the observation window. The event is only written, and observers only
// notified, when a stat moved by more than the tolerance.
func (s *service) RefreshStats(ctx context.Context, id string) (*Event, error) {
	event, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	refreshed, changed, err := s.refresh(ctx, event)
	if err != nil {
		return nil, err
	}
	if changed {
		s.notify(ctx, notifications.TopicEventsUpdated, 1)
	}
	return refreshed, nil
}

func (s *service) RefreshAllStats(ctx context.Context) (int, error) {
	changed := 0
	page := store.DefaultPagination().WithLimit(refreshBatchSize)
	for {
		events, err := s.repo.List(ctx, &Filter{}, page)
		if err != nil {
			return changed, err
		}

		for _, event := range events {
			if _, wasChanged, err := s.refresh(ctx, event); err != nil {
				return changed, err
			} else if wasChanged {
				changed++
			}
		}

		if len(events) < page.Limit {
			break
		}
		page = page.WithOffset(page.Offset + page.Limit)
	}

	if changed > 0 {
		s.notify(ctx, notifications.TopicEventsUpdated, changed)
	}
	return changed, nil
}

func (s *service) History(ctx context.Context, id string, pagination store.Pagination) ([]*HistoryRecord, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.history.ListByEvent(ctx, id, pagination)
}

func (s *service) refresh(ctx context.Context, event *Event) (*Event, bool, error) {
	window, err := s.readings.InWindow(ctx, event.PeriodStart, event.PeriodEnd)
	if err != nil {
		return nil, false, err
	}

	fresh := stats.ComputeEventStats(window, event.EventTime).WithFallback(event.Stats)
	if fresh.ApproxEqual(event.Stats) {
		return event, false, nil
	}

	updated, err := s.repo.UpdateStats(ctx, event.Id.Hex(), fresh)
	if err != nil {
		return nil, false, err
	}
	return updated, true, nil
}

func (s *service) notify(ctx context.Context, topic notifications.Topic, count int) {
	if err := s.notifier.Notify(ctx, topic, count); err != nil {
		s.logger.Warnw("unable to send notification", "topic", topic, "error", err)
	}
}
