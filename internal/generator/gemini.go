package generator

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"codeberg.org/snonux/theni/internal/lang"
)

// Gemini suggests pairs with the Gemini API.
type Gemini struct {
	client      *genai.Client
	model       string
	language    lang.Language
	temperature float32
}

// NewGemini creates a Gemini generator.
func NewGemini(ctx context.Context, cfg Config) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	return &Gemini{
		client:      client,
		model:       model,
		language:    cfg.Language,
		temperature: cfg.Temperature,
	}, nil
}

// Suggest implements Generator.
func (g *Gemini) Suggest(ctx context.Context, candidates []string) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemPrompt(g.language), genai.RoleUser),
		Temperature:       genai.Ptr(g.temperature),
		MaxOutputTokens:   200,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(BuildPrompt(candidates, g.language)), config)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no suggestion returned")
	}
	return text, nil
}

// Name implements Generator.
func (g *Gemini) Name() string {
	return "gemini/" + g.model
}
