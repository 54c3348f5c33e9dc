package test

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/glucolog/insights/events"
	"github.com/glucolog/insights/pointer"
	"github.com/glucolog/insights/stats"
	"github.com/glucolog/insights/test"
)

var eventTypes = []string{
	string(events.TypeMeal),
	string(events.TypeActivity),
	string(events.TypeNote),
}

var classifications = []string{"green", "yellow", "red"}

func RandomEvent() events.Event {
	eventTime := test.Faker.Time().Time(time.Now()).UTC().Truncate(time.Millisecond)
	return events.Event{
		Type:        events.Type(test.Faker.RandomStringElement(eventTypes)),
		Description: test.Faker.Lorem().Sentence(6),
		EventTime:   eventTime,
		PeriodStart: eventTime.Add(-30 * time.Minute),
		PeriodEnd:   eventTime.Add(2 * time.Hour),
		Stats:       RandomEventStats(),
	}
}

func RandomEventUpdate() events.Update {
	event := RandomEvent()
	return events.Update{
		Type:        event.Type,
		Description: event.Description,
		EventTime:   event.EventTime,
		PeriodStart: event.PeriodStart,
		PeriodEnd:   event.PeriodEnd,
	}
}

func RandomAnalysisUpdate() events.AnalysisUpdate {
	classification := test.Faker.RandomStringElement(classifications)
	return events.AnalysisUpdate{
		Stats:          RandomEventStats(),
		Analysis:       test.Faker.Lorem().Sentence(10),
		Classification: &classification,
		Reason:         test.Faker.RandomStringElement([]string{"manual", "scheduled", "reprocess"}),
		RunId:          test.Faker.UUID().V4(),
		ProcessedTime:  time.Now().UTC().Truncate(time.Millisecond),
	}
}

func RandomHistoryRecord(eventId primitive.ObjectID) events.HistoryRecord {
	update := RandomAnalysisUpdate()
	event := RandomEvent()
	return events.HistoryRecord{
		EventId:        eventId,
		RunId:          update.RunId,
		Analysis:       update.Analysis,
		Classification: update.Classification,
		Reason:         update.Reason,
		PeriodStart:    event.PeriodStart,
		PeriodEnd:      event.PeriodEnd,
		Stats:          update.Stats,
		CreatedTime:    update.ProcessedTime,
	}
}

func RandomEventStats() stats.EventStats {
	minValue := float64(test.Faker.IntBetween(60, 90))
	maxValue := float64(test.Faker.IntBetween(150, 250))
	peakTime := test.Faker.Time().Time(time.Now()).UTC().Truncate(time.Millisecond)
	return stats.EventStats{
		GlucoseAtEvent: pointer.FromAny(float64(test.Faker.IntBetween(90, 140))),
		Min:            pointer.FromAny(minValue),
		Max:            pointer.FromAny(maxValue),
		Avg:            pointer.FromAny(stats.Round1((minValue + maxValue) / 2)),
		Spike:          pointer.FromAny(float64(test.Faker.IntBetween(5, 60))),
		PeakTime:       &peakTime,
		ReadingCount:   test.Faker.IntBetween(1, 50),
	}
}
