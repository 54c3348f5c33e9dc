package readings

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/glucolog/insights/errors"
	"github.com/glucolog/insights/store"
)

var ErrDuplicate = fmt.Errorf("%w: a reading with the same timestamp already exists", errors.Duplicate)

// Reading is a single glucose measurement in mg/dL.
type Reading struct {
	Id    *primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Value float64             `json:"value" bson:"value"`
	Time  time.Time           `json:"time" bson:"time"`
}

type Filter struct {
	From *time.Time
	To   *time.Time
}

//go:generate mockgen --build_flags=--mod=mod -source=./readings.go -destination=./test/mock_readings.go -package test

type Repository interface {
	Create(ctx context.Context, reading Reading) (*Reading, error)
	CreateMany(ctx context.Context, readings []Reading) (int, error)
	InWindow(ctx context.Context, start, end time.Time) ([]Reading, error)
	List(ctx context.Context, filter *Filter, pagination store.Pagination) ([]*Reading, error)
}
