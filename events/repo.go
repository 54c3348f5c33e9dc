package events

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"

	"github.com/glucolog/insights/stats"
	"github.com/glucolog/insights/store"
)

const CollectionName = "events"

func NewRepository(db *mongo.Database, lifecycle fx.Lifecycle) (Repository, error) {
	repo := &repository{
		collection: db.Collection(CollectionName),
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
}

func (r *repository) Initialize(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "eventTime", Value: -1}},
			Options: options.Index().SetName("EventTime"),
		},
		{
			Keys: bson.D{
				{Key: "type", Value: 1},
				{Key: "eventTime", Value: -1},
			},
			Options: options.Index().SetName("EventTypeTime"),
		},
		{
			Keys:    bson.D{{Key: "processed", Value: 1}},
			Options: options.Index().SetName("EventProcessed"),
		},
	})
	return err
}

func (r *repository) Create(ctx context.Context, event Event) (*Event, error) {
	now := time.Now()
	event.CreatedTime = now
	event.UpdatedTime = now

	res, err := r.collection.InsertOne(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("error creating event: %w", err)
	}

	id, _ := res.InsertedID.(primitive.ObjectID)
	return r.Get(ctx, id.Hex())
}

func (r *repository) Get(ctx context.Context, id string) (*Event, error) {
	selector, err := idSelector(id)
	if err != nil {
		return nil, err
	}

	event := &Event{}
	err = r.collection.FindOne(ctx, selector).Decode(event)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error fetching event: %w", err)
	}

	return event, nil
}

func (r *repository) List(ctx context.Context, filter *Filter, pagination store.Pagination) ([]*Event, error) {
	opts := options.Find().
		SetLimit(int64(pagination.Limit)).
		SetSkip(int64(pagination.Offset)).
		SetSort(bson.D{{Key: "eventTime", Value: -1}})

	selector := bson.M{}
	if filter.Type != nil {
		selector["type"] = *filter.Type
	}
	if filter.Processed != nil {
		selector["processed"] = *filter.Processed
	}
	window := bson.M{}
	if filter.From != nil {
		window["$gte"] = *filter.From
	}
	if filter.To != nil {
		window["$lte"] = *filter.To
	}
	if len(window) > 0 {
		selector["eventTime"] = window
	}

	cursor, err := r.collection.Find(ctx, selector, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing events: %w", err)
	}

	var events []*Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("error decoding events list: %w", err)
	}
	return events, nil
}

func (r *repository) Update(ctx context.Context, id string, update Update) (*Event, error) {
	selector, err := idSelector(id)
	if err != nil {
		return nil, err
	}

	change := bson.M{
		"$set": bson.M{
			"type":        update.Type,
			"description": update.Description,
			"eventTime":   update.EventTime,
			"periodStart": update.PeriodStart,
			"periodEnd":   update.PeriodEnd,
			"updatedTime": time.Now(),
		},
	}
	if err := r.collection.FindOneAndUpdate(ctx, selector, change).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error updating event: %w", err)
	}

	return r.Get(ctx, id)
}

func (r *repository) UpdateStats(ctx context.Context, id string, eventStats stats.EventStats) (*Event, error) {
	selector, err := idSelector(id)
	if err != nil {
		return nil, err
	}

	change := bson.M{
		"$set": bson.M{
			"stats":       eventStats,
			"updatedTime": time.Now(),
		},
	}
	if err := r.collection.FindOneAndUpdate(ctx, selector, change).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error updating event stats: %w", err)
	}

	return r.Get(ctx, id)
}

func (r *repository) ApplyAnalysis(ctx context.Context, id string, update AnalysisUpdate) (*Event, error) {
	selector, err := idSelector(id)
	if err != nil {
		return nil, err
	}

	change := bson.M{
		"$set": bson.M{
			"stats":            update.Stats,
			"aiAnalysis":       update.Analysis,
			"aiClassification": update.Classification,
			"processed":        true,
			"processedTime":    update.ProcessedTime,
			"updatedTime":      time.Now(),
		},
	}
	if err := r.collection.FindOneAndUpdate(ctx, selector, change).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error applying analysis to event: %w", err)
	}

	return r.Get(ctx, id)
}

func idSelector(id string) (bson.M, error) {
	objId, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return bson.M{"_id": objId}, nil
}
