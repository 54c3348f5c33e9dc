package aiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
	"go.uber.org/zap"

	"github.com/glucolog/insights/pointer"
)

type openAIClient struct {
	config *Config
	logger *zap.SugaredLogger
}

var _ Client = &openAIClient{}

func NewClient(config *Config, logger *zap.SugaredLogger) (Client, error) {
	return &openAIClient{
		config: config,
		logger: logger,
	}, nil
}

func (c *openAIClient) Complete(ctx context.Context, request Request) (*Completion, error) {
	// Retry policy is owned by callers; the SDK's default retries are
	// disabled so one invocation is exactly one attempt.
	opts := []option.RequestOption{
		option.WithAPIKey(request.APIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(c.config.RequestTimeout),
	}
	if c.config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(c.config.BaseURL, "/")))
	}
	client := openai.NewClient(opts...)

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(request.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(request.SystemPrompt),
			openai.UserMessage(request.UserPrompt),
		},
	}
	if request.MaxTokens > 0 {
		params.MaxTokens = param.NewOpt(int64(request.MaxTokens))
	}

	start := time.Now()
	resp, err := client.Chat.Completions.New(ctx, params)
	duration := time.Since(start)

	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			c.logger.Warnw("ai completion rejected",
				"model", request.Model,
				"status", apiErr.StatusCode,
			)
			return &Completion{
				Model:        request.Model,
				HttpStatus:   apiErr.StatusCode,
				Success:      false,
				Duration:     duration,
				ErrorMessage: pointer.FromAny(apiErr.Message),
			}, nil
		}
		return nil, fmt.Errorf("error calling ai completion: %w", err)
	}

	completion := &Completion{
		Model:        resp.Model,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		TotalTokens:  resp.Usage.TotalTokens,
		HttpStatus:   http.StatusOK,
		Success:      true,
		Duration:     duration,
	}
	if len(resp.Choices) > 0 {
		choice := resp.Choices[0]
		completion.Content = choice.Message.Content
		if choice.FinishReason != "" {
			completion.FinishReason = pointer.FromAny(choice.FinishReason)
		}
	}
	return completion, nil
}
