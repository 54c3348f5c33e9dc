package notifications

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type repository struct {
	collection *mongo.Collection
	logger     *zap.SugaredLogger
}

func NewNotifier(db *mongo.Database, logger *zap.SugaredLogger, lifecycle fx.Lifecycle) (Notifier, error) {
	repo := &repository{
		collection: db.Collection(CollectionName),
		logger:     logger,
	}

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return repo.Initialize(ctx)
		},
	})

	return repo, nil
}

// The dispatcher drains notifications oldest-first, optionally per topic.
func (r *repository) Initialize(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "createdTime", Value: 1}},
			Options: options.Index().SetName("CreatedTime"),
		},
		{
			Keys:    bson.D{{Key: "topic", Value: 1}, {Key: "createdTime", Value: 1}},
			Options: options.Index().SetName("TopicCreatedTime"),
		},
	})
	return err
}

func (r *repository) Notify(ctx context.Context, topic Topic, count int) error {
	notification := Notification{
		Topic:       topic,
		Count:       count,
		CreatedTime: time.Now(),
	}
	if _, err := r.collection.InsertOne(ctx, notification); err != nil {
		return fmt.Errorf("error inserting notification: %w", err)
	}

	r.logger.Debugw("notification enqueued", "topic", topic, "count", count)
	return nil
}
