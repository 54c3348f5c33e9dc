package aiclient

import (
	"context"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Request is one completion call. The API key travels with the request
// because it is part of the per-invocation settings snapshot, not of the
// client construction.
type Request struct {
	APIKey       string
	SystemPrompt string
	UserPrompt   string
	Model        string
	MaxTokens    int
}

// Completion is the structured outcome of a call that reached the AI
// service. Failed calls that still produced an HTTP response are reported
// here with Success=false rather than as an error, so the caller can
// account for them; transport-level failures surface as errors instead.
type Completion struct {
	Content      string
	Model        string
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
	FinishReason *string
	HttpStatus   int
	Success      bool
	Duration     time.Duration
	ErrorMessage *string
}

//go:generate mockgen --build_flags=--mod=mod -source=./aiclient.go -destination=./test/mock_aiclient.go -package test

type Client interface {
	Complete(ctx context.Context, request Request) (*Completion, error)
}

type Config struct {
	BaseURL        string        `envconfig:"GLUCOLOG_AI_BASE_URL"`
	RequestTimeout time.Duration `envconfig:"GLUCOLOG_AI_REQUEST_TIMEOUT" default:"90s"`
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
