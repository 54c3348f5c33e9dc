package settings

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type service struct {
	repo   Repository
	logger *zap.SugaredLogger
}

var _ Service = &service{}

func NewService(repo Repository, logger *zap.SugaredLogger) (Service, error) {
	return &service{
		repo:   repo,
		logger: logger,
	}, nil
}

// Current returns a fresh snapshot on every call. An empty store yields the
// default, unconfigured settings rather than an error.
func (s *service) Current(ctx context.Context) (*AnalysisSettings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		defaults := Default()
		return &defaults, nil
	}
	return settings, nil
}

func (s *service) Update(ctx context.Context, update Update) (*AnalysisSettings, error) {
	current, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}

	next := *current
	if update.APIKey != nil {
		next.APIKey = *update.APIKey
	}
	if update.Model != nil {
		next.Model = *update.Model
	}
	if update.MaxTokens != nil {
		next.MaxTokens = *update.MaxTokens
	}
	if update.TimeZone != nil {
		next.TimeZone = *update.TimeZone
	}
	if update.TargetLow != nil {
		next.TargetLow = *update.TargetLow
	}
	if update.TargetHigh != nil {
		next.TargetHigh = *update.TargetHigh
	}

	if err := validate(next); err != nil {
		return nil, err
	}

	now := time.Now()
	next.UpdatedTime = &now

	updated, err := s.repo.Upsert(ctx, next)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("analysis settings updated",
		"configured", updated.IsConfigured(),
		"model", updated.Model,
	)
	return updated, nil
}

func validate(settings AnalysisSettings) error {
	if settings.Model == "" {
		return ErrInvalidModel
	}
	if settings.MaxTokens < 1 || settings.MaxTokens > maxTokensLimit {
		return ErrInvalidMaxTokens
	}
	if _, err := settings.Location(); err != nil {
		return ErrInvalidTimeZone
	}
	if settings.TargetLow >= settings.TargetHigh {
		return ErrInvalidTargets
	}
	return nil
}
