// Package llm wraps the OpenAI-compatible chat API used to generate and
// refine exam papers. The defaults point at Gemini's OpenAI-compatible
// endpoint, but any compatible server works via the base-URL flag.
package llm

import (
	"context"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultBaseURL is Gemini's OpenAI-compatible endpoint.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"
	// DefaultModel is the generation model used when none is configured.
	DefaultModel = "gemini-3-pro-preview"

	// Generation runs cooler than refinement: exam papers need to follow
	// the format contract, refinements need variation.
	generateTemperature = 0.4
	refineTemperature   = 0.65
)

// Client wraps an OpenAI-compatible API client.
type Client struct {
	api   *openai.Client
	model string
}

// New creates a new LLM client.
func New(baseURL, apiKey, modelName string) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if modelName == "" {
		modelName = DefaultModel
	}
	return &Client{
		api:   openai.NewClientWithConfig(config),
		model: modelName,
	}
}

// Generate produces a raw exam paper from the system instruction and the
// assembled generation prompt. The response text is returned verbatim;
// splitting and projection happen downstream.
func (c *Client) Generate(ctx context.Context, systemInstruction, userPrompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: generateTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("LLM API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("LLM returned no choices")
	}

	raw := resp.Choices[0].Message.Content
	slog.Debug("LLM generation response", "chars", len(raw))
	return raw, nil
}

// Refine sends a refinement prompt built around a previous result. No
// system instruction: the refinement prompt is self-contained.
func (c *Client) Refine(ctx context.Context, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: refineTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("LLM refinement API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("LLM returned no choices for refinement")
	}
	return resp.Choices[0].Message.Content, nil
}

// Ping verifies the endpoint and credentials by listing models.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.api.ListModels(ctx); err != nil {
		return fmt.Errorf("LLM endpoint check: %w", err)
	}
	return nil
}
