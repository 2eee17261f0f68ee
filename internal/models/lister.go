package models

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// ErrNoAPIKey is returned when no OpenAI key is configured.
var ErrNoAPIKey = errors.New("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure audio.openai_key in .theni.yaml")

// Lister handles listing available OpenAI models
type Lister struct {
	apiKey string
	client *openai.Client
}

// NewLister creates a new model lister
func NewLister(apiKey string) *Lister {
	return NewListerWithBaseURL(apiKey, "")
}

// NewListerWithBaseURL talks to an OpenAI-compatible endpoint at baseURL.
func NewListerWithBaseURL(apiKey, baseURL string) *Lister {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Lister{apiKey: apiKey, client: openai.NewClientWithConfig(cfg)}
}

// Catalog is the categorized model list.
type Catalog struct {
	Speech []string
	Chat   []string
}

// Fetch retrieves and categorizes the models.
func (l *Lister) Fetch(ctx context.Context) (Catalog, error) {
	if l.apiKey == "" {
		return Catalog{}, ErrNoAPIKey
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to list models: %w", err)
	}

	var c Catalog
	for _, m := range models.Models {
		switch id := m.ID; {
		case strings.Contains(id, "tts"):
			c.Speech = append(c.Speech, id)
		case strings.Contains(id, "gpt") || strings.Contains(id, "chat"):
			if !strings.Contains(id, "audio") && !strings.Contains(id, "realtime") {
				c.Chat = append(c.Chat, id)
			}
		}
	}
	sort.Strings(c.Speech)
	sort.Strings(c.Chat)
	return c, nil
}

// ListAvailableModels prints the categorized models to w.
func (l *Lister) ListAvailableModels(ctx context.Context, w io.Writer) error {
	c, err := l.Fetch(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Available OpenAI Models:")
	printSection(w, "Text-to-Speech Models (audio.openai_model):", c.Speech)
	printSection(w, "Chat Models (generator.model):", c.Chat)
	return nil
}

func printSection(w io.Writer, title string, models []string) {
	fmt.Fprintf(w, "\n%s\n", title)
	if len(models) == 0 {
		fmt.Fprintln(w, "  none found")
		return
	}
	for _, m := range models {
		fmt.Fprintf(w, "  %s\n", m)
	}
}
