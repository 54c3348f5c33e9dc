package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// WithTransaction runs fn in a multi-document transaction with majority
// writes and snapshot reads.
func WithTransaction[T any](ctx context.Context, client *mongo.Client, fn func(sessionCtx mongo.SessionContext) (T, error)) (T, error) {
	var zero T

	session, err := client.StartSession()
	if err != nil {
		return zero, fmt.Errorf("unable to start session: %w", err)
	}
	defer session.EndSession(ctx)

	opts := options.Transaction().
		SetWriteConcern(writeconcern.Majority()).
		SetReadConcern(readconcern.Snapshot())
	result, err := session.WithTransaction(ctx, func(sessionCtx mongo.SessionContext) (interface{}, error) {
		return fn(sessionCtx)
	}, opts)
	if err != nil {
		return zero, err
	}

	return result.(T), nil
}
