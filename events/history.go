package events

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/glucolog/insights/stats"
	"github.com/glucolog/insights/store"
)

// HistoryRecord is one analysis run that produced content. Records are
// append-only: they capture what the analysis said and the stats snapshot
// it saw, and are never updated afterwards.
type HistoryRecord struct {
	Id             *primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	EventId        primitive.ObjectID  `json:"eventId" bson:"eventId"`
	RunId          string              `json:"runId" bson:"runId"`
	Analysis       string              `json:"analysis" bson:"analysis"`
	Classification *string             `json:"classification,omitempty" bson:"classification,omitempty"`
	Reason         string              `json:"reason" bson:"reason"`
	PeriodStart    time.Time           `json:"periodStart" bson:"periodStart"`
	PeriodEnd      time.Time           `json:"periodEnd" bson:"periodEnd"`
	Stats          stats.EventStats    `json:"stats" bson:"stats"`
	CreatedTime    time.Time           `json:"createdTime" bson:"createdTime"`
}

//go:generate mockgen --build_flags=--mod=mod -source=./history.go -destination=./test/mock_history.go -package test

type HistoryRepository interface {
	Append(ctx context.Context, record HistoryRecord) (*HistoryRecord, error)
	ListByEvent(ctx context.Context, eventId string, pagination store.Pagination) ([]*HistoryRecord, error)
	ListRecent(ctx context.Context, pagination store.Pagination) ([]*HistoryRecord, error)
}
