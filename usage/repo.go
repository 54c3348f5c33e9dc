package usage

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/glucolog/insights/store"
)

const CollectionName = "usage_logs"

func NewRepository(db *mongo.Database, logger *zap.SugaredLogger, lifecycle fx.Lifecycle) (Repository, error) {
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

type repository struct {
	collection *mongo.Collection
	logger     *zap.SugaredLogger
}

func (r *repository) Initialize(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "createdTime", Value: 1}},
			Options: options.Index().SetName("CreatedTime"),
		},
		{
			Keys: bson.D{
				{Key: "eventId", Value: 1},
				{Key: "createdTime", Value: -1},
			},
			Options: options.Index().SetName("EventUsage"),
		},
	})
	return err
}

func (r *repository) Append(ctx context.Context, record Record) (*Record, error) {
	res, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("error inserting usage record: %w", err)
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		record.Id = &id
	}
	return &record, nil
}

func (r *repository) List(ctx context.Context, filter *Filter, pagination store.Pagination) ([]*Record, error) {
	opts := options.Find().
		SetLimit(int64(pagination.Limit)).
		SetSkip(int64(pagination.Offset)).
		SetSort(bson.D{{Key: "createdTime", Value: 1}, {Key: "_id", Value: 1}})

	selector := bson.M{}
	if filter.EventId != nil {
		eventId, err := primitive.ObjectIDFromHex(*filter.EventId)
		if err != nil {
			return nil, fmt.Errorf("invalid event id: %w", err)
		}
		selector["eventId"] = eventId
	}
	window := bson.M{}
	if filter.From != nil {
		window["$gte"] = *filter.From
	}
	if filter.To != nil {
		window["$lte"] = *filter.To
	}
	if len(window) > 0 {
		selector["createdTime"] = window
	}

	cursor, err := r.collection.Find(ctx, selector, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing usage records: %w", err)
	}

	var records []*Record
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("error decoding usage records: %w", err)
	}
	return records, nil
}
