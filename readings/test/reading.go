package test

import (
	"time"

	"github.com/glucolog/insights/readings"
	"github.com/glucolog/insights/test"
)

func RandomReading() readings.Reading {
	return readings.Reading{
		Value: float64(test.Faker.IntBetween(40, 400)),
		Time:  test.Faker.Time().Time(time.Now()).UTC().Truncate(time.Millisecond),
	}
}

// RandomSeries returns count readings spaced five minutes apart starting at
// start, with values in the usual sensor range.
func RandomSeries(start time.Time, count int) []readings.Reading {
	result := make([]readings.Reading, 0, count)
	for i := 0; i < count; i++ {
		result = append(result, readings.Reading{
			Value: float64(test.Faker.IntBetween(40, 400)),
			Time:  start.Add(time.Duration(i) * 5 * time.Minute).UTC().Truncate(time.Millisecond),
		})
	}
	return result
}
