// Package oracle provides a bounded-timeout LLM client for text and vision
// judgments. Callers treat responses as untrusted content: parse with
// formatting.Parse and apply a safe fallback on any failure.
package oracle

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sashabaranov/go-openai"
)

// System defines the contract for LLM completion calls.
// Every call is bounded by the configured timeout; callers never block
// indefinitely on a slow provider.
type System interface {
	// Complete sends a text prompt and returns the raw response content.
	Complete(ctx context.Context, system, prompt string) (string, error)
	// CompleteVision sends a prompt with image attachments to the vision
	// model and returns the raw response content.
	CompleteVision(ctx context.Context, system, prompt string, imageURLs []string) (string, error)
}

type client struct {
	api         *openai.Client
	model       string
	visionModel string
	timeout     time.Duration
	temperature float32
	logger      *slog.Logger
}

// New creates an oracle system from the given configuration.
func New(cfg *Config, logger *slog.Logger) System {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}

	return &client{
		api:         openai.NewClientWithConfig(apiCfg),
		model:       cfg.Model,
		visionModel: cfg.VisionModel,
		timeout:     cfg.TimeoutDuration(),
		temperature: cfg.Temperature,
		logger:      logger.With("system", "oracle"),
	}
}

func (c *client) Complete(ctx context.Context, system, prompt string) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: system},
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	}

	return c.send(ctx, c.model, messages)
}

func (c *client) CompleteVision(ctx context.Context, system, prompt string, imageURLs []string) (string, error) {
	parts := make([]openai.ChatMessagePart, 0, len(imageURLs)+1)
	parts = append(parts, openai.ChatMessagePart{
		Type: openai.ChatMessagePartTypeText,
		Text: prompt,
	})

	for _, url := range imageURLs {
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL:    url,
				Detail: openai.ImageURLDetailAuto,
			},
		})
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: system},
		{Role: openai.ChatMessageRoleUser, MultiContent: parts},
	}

	return c.send(ctx, c.visionModel, messages)
}

func (c *client) send(ctx context.Context, model string, messages []openai.ChatCompletionMessage) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: c.temperature,
	})
	if err != nil {
		c.logger.Warn("completion failed", "model", model, "error", err)
		return "", fmt.Errorf("oracle completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	c.logger.Debug(
		"completion",
		"model", model,
		"duration", time.Since(start),
		"finish_reason", resp.Choices[0].FinishReason,
	)

	return resp.Choices[0].Message.Content, nil
}
