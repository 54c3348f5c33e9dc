package notifications

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const CollectionName = "notifications"

// Topic identifies the kind of change observers are interested in.
type Topic string

const (
	TopicEventsUpdated Topic = "events-updated"
	TopicUsageUpdated  Topic = "usage-updated"
)

// Notification is one pending fan-out message. Records are drained by a
// separate dispatcher; this service only appends them in order.
type Notification struct {
	Id          *primitive.ObjectID `bson:"_id,omitempty"`
	Topic       Topic               `bson:"topic"`
	Count       int                 `bson:"count"`
	CreatedTime time.Time           `bson:"createdTime"`
}

//go:generate mockgen --build_flags=--mod=mod -source=./notifications.go -destination=./test/mock_notifications.go -package test

type Notifier interface {
	Notify(ctx context.Context, topic Topic, count int) error
}
