package test

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/glucolog/insights/pointer"
	"github.com/glucolog/insights/test"
	"github.com/glucolog/insights/usage"
)

var models = []string{"gpt-4o-mini", "gpt-4o", "gpt-4.1-mini", "gpt-5-mini"}

func RandomRecord() usage.Record {
	eventId := primitive.NewObjectID()
	input := int64(test.Faker.IntBetween(200, 2000))
	output := int64(test.Faker.IntBetween(50, 800))
	return usage.Record{
		RunId:        test.Faker.UUID().V4(),
		EventId:      &eventId,
		Model:        test.Faker.RandomStringElement(models),
		InputTokens:  input,
		OutputTokens: output,
		TotalTokens:  input + output,
		Success:      true,
		HttpStatus:   200,
		FinishReason: pointer.FromAny("stop"),
		DurationMs:   int64(test.Faker.IntBetween(300, 5000)),
		CreatedTime:  time.Now().UTC().Truncate(time.Millisecond),
	}
}
