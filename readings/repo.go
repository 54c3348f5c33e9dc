package readings

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/glucolog/insights/store"
)

const CollectionName = "readings"

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
			Keys: bson.D{{Key: "time", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("UniqueReadingTime"),
		},
	})
	return err
}

func (r *repository) Create(ctx context.Context, reading Reading) (*Reading, error) {
	res, err := r.collection.InsertOne(ctx, reading)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("error inserting reading: %w", err)
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		reading.Id = &id
	}
	return &reading, nil
}

func (r *repository) CreateMany(ctx context.Context, readings []Reading) (int, error) {
	if len(readings) == 0 {
		return 0, nil
	}

	documents := make([]interface{}, 0, len(readings))
	for _, reading := range readings {
		documents = append(documents, reading)
	}

	// Unordered inserts so duplicate timestamps are skipped without
	// aborting the rest of the batch
	opts := options.InsertMany().SetOrdered(false)
	res, err := r.collection.InsertMany(ctx, documents, opts)
	if err != nil {
		if res == nil || !mongo.IsDuplicateKeyError(err) {
			return 0, fmt.Errorf("error inserting readings: %w", err)
		}
	}
	return len(res.InsertedIDs), nil
}

func (r *repository) InWindow(ctx context.Context, start, end time.Time) ([]Reading, error) {
	selector := bson.M{
		"time": bson.M{
			"$gte": start,
			"$lte": end,
		},
	}

	cursor, err := r.collection.Find(ctx, selector)
	if err != nil {
		return nil, fmt.Errorf("error listing readings in window: %w", err)
	}

	var result []Reading
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("error decoding readings: %w", err)
	}
	return result, nil
}

func (r *repository) List(ctx context.Context, filter *Filter, pagination store.Pagination) ([]*Reading, error) {
	opts := options.Find().
		SetLimit(int64(pagination.Limit)).
		SetSkip(int64(pagination.Offset)).
		SetSort(bson.D{{Key: "time", Value: -1}})

	selector := bson.M{}
	timeRange := bson.M{}
	if filter.From != nil {
		timeRange["$gte"] = *filter.From
	}
	if filter.To != nil {
		timeRange["$lte"] = *filter.To
	}
	if len(timeRange) > 0 {
		selector["time"] = timeRange
	}

	cursor, err := r.collection.Find(ctx, selector, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing readings: %w", err)
	}

	var result []*Reading
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("error decoding readings list: %w", err)
	}
	return result, nil
}
