package test

import (
	"time"

	"github.com/glucolog/insights/aiclient"
	"github.com/glucolog/insights/pointer"
	"github.com/glucolog/insights/test"
)

// RandomCompletion returns a successful completion with the given content.
func RandomCompletion(content string) *aiclient.Completion {
	input := int64(test.Faker.IntBetween(200, 2000))
	output := int64(test.Faker.IntBetween(50, 800))
	return &aiclient.Completion{
		Content:      content,
		Model:        "gpt-4o-mini",
		InputTokens:  input,
		OutputTokens: output,
		TotalTokens:  input + output,
		FinishReason: pointer.FromAny("stop"),
		HttpStatus:   200,
		Success:      true,
		Duration:     time.Duration(test.Faker.IntBetween(300, 5000)) * time.Millisecond,
	}
}

// FailedCompletion returns a structured failure with the given status code.
func FailedCompletion(status int, message string) *aiclient.Completion {
	return &aiclient.Completion{
		Model:        "gpt-4o-mini",
		HttpStatus:   status,
		Success:      false,
		Duration:     time.Duration(test.Faker.IntBetween(100, 2000)) * time.Millisecond,
		ErrorMessage: pointer.FromAny(message),
	}
}
