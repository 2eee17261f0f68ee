package generator

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"codeberg.org/snonux/theni/internal/lang"
)

// OpenAI suggests pairs with the chat completions API.
type OpenAI struct {
	client      *openai.Client
	model       string
	language    lang.Language
	temperature float32
}

// NewOpenAI creates an OpenAI generator.
func NewOpenAI(cfg Config) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}

	return &OpenAI{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       model,
		language:    cfg.Language,
		temperature: cfg.Temperature,
	}, nil
}

// Suggest implements Generator.
func (g *OpenAI) Suggest(ctx context.Context, candidates []string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: SystemPrompt(g.language),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildPrompt(candidates, g.language),
			},
		},
		MaxTokens:   200,
		Temperature: g.temperature,
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no suggestion returned")
	}

	return resp.Choices[0].Message.Content, nil
}

// Name implements Generator.
func (g *OpenAI) Name() string {
	return "openai/" + g.model
}
