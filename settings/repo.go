package settings

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "analysis_settings"

// The settings collection holds at most one document.
const singletonKey = "analysis"

type document struct {
	Id       string           `bson:"_id"`
	Settings AnalysisSettings `bson:"settings"`
}

func NewRepository(db *mongo.Database) (Repository, error) {
	return &repository{
		collection: db.Collection(CollectionName),
	}, nil
}

type repository struct {
	collection *mongo.Collection
}

func (r *repository) Get(ctx context.Context) (*AnalysisSettings, error) {
	doc := &document{}
	err := r.collection.FindOne(ctx, bson.M{"_id": singletonKey}).Decode(doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("error fetching analysis settings: %w", err)
	}

	return &doc.Settings, nil
}

func (r *repository) Upsert(ctx context.Context, settings AnalysisSettings) (*AnalysisSettings, error) {
	selector := bson.M{"_id": singletonKey}
	update := bson.M{
		"$set": bson.M{
			"settings": settings,
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, selector, update, opts); err != nil {
		return nil, fmt.Errorf("error updating analysis settings: %w", err)
	}

	return r.Get(ctx)
}
