package events

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/glucolog/insights/errors"
	"github.com/glucolog/insights/stats"
	"github.com/glucolog/insights/store"
)

var (
	ErrNotFound      = fmt.Errorf("event %w", errors.NotFound)
	ErrInvalidPeriod = fmt.Errorf("%w: event period must contain the event time", errors.BadRequest)
	ErrInvalidType   = fmt.Errorf("%w: unknown event type", errors.BadRequest)
)

type Type string

const (
	TypeMeal     Type = "meal"
	TypeActivity Type = "activity"
	TypeNote     Type = "note"
)

// Event is a discrete occurrence with a reference instant and a surrounding
// observation window. The analysis pipeline owns the stats and AI fields;
// the period bounds are never changed by it.
type Event struct {
	Id          *primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Type        Type                `json:"type" bson:"type"`
	Description string              `json:"description" bson:"description"`
	EventTime   time.Time           `json:"eventTime" bson:"eventTime"`
	PeriodStart time.Time           `json:"periodStart" bson:"periodStart"`
	PeriodEnd   time.Time           `json:"periodEnd" bson:"periodEnd"`

	Stats stats.EventStats `json:"stats" bson:"stats"`

	AIAnalysis       *string    `json:"aiAnalysis,omitempty" bson:"aiAnalysis,omitempty"`
	AIClassification *string    `json:"aiClassification,omitempty" bson:"aiClassification,omitempty"`
	Processed        bool       `json:"processed" bson:"processed"`
	ProcessedTime    *time.Time `json:"processedTime,omitempty" bson:"processedTime,omitempty"`

	CreatedTime time.Time `json:"createdTime" bson:"createdTime"`
	UpdatedTime time.Time `json:"updatedTime" bson:"updatedTime"`
}

func (e Event) Validate() error {
	switch e.Type {
	case TypeMeal, TypeActivity, TypeNote:
	default:
		return ErrInvalidType
	}
	if e.EventTime.Before(e.PeriodStart) || e.EventTime.After(e.PeriodEnd) {
		return ErrInvalidPeriod
	}
	return nil
}

type Filter struct {
	Type      *Type
	From      *time.Time
	To        *time.Time
	Processed *bool
}

// Update carries the caller-editable fields. Stats and AI fields are owned
// by the analysis pipeline and cannot be set through it.
type Update struct {
	Type        Type      `json:"type"`
	Description string    `json:"description"`
	EventTime   time.Time `json:"eventTime"`
	PeriodStart time.Time `json:"periodStart"`
	PeriodEnd   time.Time `json:"periodEnd"`
}

// AnalysisUpdate is the outcome of one successful analysis run, applied to
// the event together with a history append in a single transaction.
type AnalysisUpdate struct {
	Stats          stats.EventStats
	Analysis       string
	Classification *string
	Reason         string
	RunId          string
	ProcessedTime  time.Time
}

//go:generate mockgen --build_flags=--mod=mod -source=./events.go -destination=./test/mock_events.go -package test -aux_files=github.com/glucolog/insights/events=history.go

type Service interface {
	Create(ctx context.Context, event Event) (*Event, error)
	Get(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, filter *Filter, pagination store.Pagination) ([]*Event, error)
	Update(ctx context.Context, id string, update Update) (*Event, error)
	ApplyAnalysis(ctx context.Context, id string, update AnalysisUpdate) (*Event, error)
	RefreshStats(ctx context.Context, id string) (*Event, error)
	RefreshAllStats(ctx context.Context) (int, error)
	History(ctx context.Context, id string, pagination store.Pagination) ([]*HistoryRecord, error)
}

type Repository interface {
	Create(ctx context.Context, event Event) (*Event, error)
	Get(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, filter *Filter, pagination store.Pagination) ([]*Event, error)
	Update(ctx context.Context, id string, update Update) (*Event, error)
	UpdateStats(ctx context.Context, id string, eventStats stats.EventStats) (*Event, error)
	ApplyAnalysis(ctx context.Context, id string, update AnalysisUpdate) (*Event, error)
}
