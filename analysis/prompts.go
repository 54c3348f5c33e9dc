package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/glucolog/insights/events"
	"github.com/glucolog/insights/stats"
)

const systemPrompt = `You are a glucose analysis assistant for a person with diabetes. ` +
	`You are given one logged event and the glucose statistics computed around it. ` +
	`Assess how well glucose was controlled in response to the event and suggest one concrete improvement. ` +
	`Start your response with a classification tag of the exact form [CLASSIFICATION: green], [CLASSIFICATION: yellow] or [CLASSIFICATION: red] on the first line: ` +
	`green when glucose stayed well controlled, yellow when the response was borderline, red when it was poor. ` +
	`After the tag, write a short analysis in plain language. Do not repeat the raw numbers back as a list.`

func buildPrompts(event *events.Event, eventStats stats.EventStats) (string, string) {
	var b strings.Builder

	fmt.Fprintf(&b, "Event type: %s\n", event.Type)
	if event.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", event.Description)
	}
	fmt.Fprintf(&b, "Event time: %s\n", event.EventTime.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Observation window: %s to %s\n",
		event.PeriodStart.UTC().Format(time.RFC3339),
		event.PeriodEnd.UTC().Format(time.RFC3339))

	b.WriteString("\nGlucose statistics (mg/dL):\n")
	fmt.Fprintf(&b, "Readings in window: %d\n", eventStats.ReadingCount)
	writeStat(&b, "Glucose at event", eventStats.GlucoseAtEvent)
	writeStat(&b, "Minimum", eventStats.Min)
	writeStat(&b, "Maximum", eventStats.Max)
	writeStat(&b, "Average", eventStats.Avg)
	writeStat(&b, "Spike after event", eventStats.Spike)
	if eventStats.PeakTime != nil {
		fmt.Fprintf(&b, "Peak time: %s\n", eventStats.PeakTime.UTC().Format(time.RFC3339))
	}

	return systemPrompt, b.String()
}

func writeStat(b *strings.Builder, label string, value *float64) {
	if value == nil {
		fmt.Fprintf(b, "%s: not available\n", label)
		return
	}
	fmt.Fprintf(b, "%s: %.1f\n", label, *value)
}
