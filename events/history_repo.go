package events

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/glucolog/insights/store"
)

// historyRecordType names the kind of record archived in the history
// collection. Collection and index names are derived from it.
const historyRecordType = "analysis"

var HistoryCollectionName = fmt.Sprintf("event_%s_history", historyRecordType)

func NewHistoryRepository(db *mongo.Database, lifecycle fx.Lifecycle) (HistoryRepository, error) {
	repo := &historyRepository{
		collection: db.Collection(HistoryCollectionName),
	}

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return repo.Initialize(ctx)
		},
	})

	return repo, nil
}

type historyRepository struct {
	collection *mongo.Collection
}

func (r *historyRepository) Initialize(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "eventId", Value: 1},
				{Key: "createdTime", Value: -1},
			},
			Options: options.Index().SetName(fmt.Sprintf("Event%sHistory", cases.Title(language.English).String(historyRecordType))),
		},
		{
			Keys:    bson.D{{Key: "createdTime", Value: -1}},
			Options: options.Index().SetName("HistoryCreatedTime"),
		},
	})
	return err
}

func (r *historyRepository) Append(ctx context.Context, record HistoryRecord) (*HistoryRecord, error) {
	res, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("error inserting history record: %w", err)
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		record.Id = &id
	}
	return &record, nil
}

func (r *historyRepository) ListByEvent(ctx context.Context, eventId string, pagination store.Pagination) ([]*HistoryRecord, error) {
	objId, err := primitive.ObjectIDFromHex(eventId)
	if err != nil {
		return nil, ErrNotFound
	}
	return r.list(ctx, bson.M{"eventId": objId}, pagination)
}

func (r *historyRepository) ListRecent(ctx context.Context, pagination store.Pagination) ([]*HistoryRecord, error) {
	return r.list(ctx, bson.M{}, pagination)
}

func (r *historyRepository) list(ctx context.Context, selector bson.M, pagination store.Pagination) ([]*HistoryRecord, error) {
	opts := options.Find().
		SetLimit(int64(pagination.Limit)).
		SetSkip(int64(pagination.Offset)).
		SetSort(bson.D{{Key: "createdTime", Value: -1}})

	cursor, err := r.collection.Find(ctx, selector, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing history records: %w", err)
	}

	var records []*HistoryRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("error decoding history records: %w", err)
	}
	return records, nil
}
