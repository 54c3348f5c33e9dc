package usage

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/glucolog/insights/store"
)

// Record captures one AI call attempt. A row is appended for every call
// that produced a structured result, successful or not, so token spend is
// accounted for even when the analysis yielded nothing usable. Costs are
// never stored; they are recomputed from the price table on read so price
// corrections apply retroactively.
type Record struct {
	Id           *primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	RunId        string              `json:"runId" bson:"runId"`
	EventId      *primitive.ObjectID `json:"eventId,omitempty" bson:"eventId,omitempty"`
	Model        string              `json:"model" bson:"model"`
	InputTokens  int64               `json:"inputTokens" bson:"inputTokens"`
	OutputTokens int64               `json:"outputTokens" bson:"outputTokens"`
	TotalTokens  int64               `json:"totalTokens" bson:"totalTokens"`
	Success      bool                `json:"success" bson:"success"`
	HttpStatus   int                 `json:"httpStatus" bson:"httpStatus"`
	FinishReason *string             `json:"finishReason,omitempty" bson:"finishReason,omitempty"`
	DurationMs   int64               `json:"durationMs" bson:"durationMs"`
	CreatedTime  time.Time           `json:"createdTime" bson:"createdTime"`
}

type Filter struct {
	EventId *string
	From    *time.Time
	To      *time.Time
}

//go:generate mockgen --build_flags=--mod=mod -source=./usage.go -destination=./test/mock_usage.go -package test

type Repository interface {
	Append(ctx context.Context, record Record) (*Record, error)
	List(ctx context.Context, filter *Filter, pagination store.Pagination) ([]*Record, error)
}
