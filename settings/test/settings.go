package test

import (
	"time"

	"github.com/glucolog/insights/settings"
	"github.com/glucolog/insights/test"
)

func RandomSettings() settings.AnalysisSettings {
	updated := time.Now().UTC().Truncate(time.Millisecond)
	return settings.AnalysisSettings{
		APIKey:      "sk-" + test.Faker.UUID().V4(),
		Model:       test.Faker.RandomStringElement([]string{"gpt-4o-mini", "gpt-4o", "gpt-4.1"}),
		MaxTokens:   test.Faker.IntBetween(100, 4000),
		TimeZone:    test.Faker.RandomStringElement([]string{"UTC", "America/New_York", "Europe/Sofia"}),
		TargetLow:   float64(test.Faker.IntBetween(65, 80)),
		TargetHigh:  float64(test.Faker.IntBetween(160, 200)),
		UpdatedTime: &updated,
	}
}
