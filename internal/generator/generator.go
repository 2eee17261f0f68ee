package generator

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"codeberg.org/snonux/theni/internal/lang"
)

// Generator suggests a pair of words from candidates and a sentence using
// both. The reply is returned unparsed.
type Generator interface {
	Suggest(ctx context.Context, candidates []string) (string, error)
	Name() string
}

// Default models per provider.
const (
	DefaultOpenAIModel = "gpt-4o-mini"
	DefaultGeminiModel = "gemini-2.0-flash"
)

// Config selects and configures a generator.
type Config struct {
	Provider    string // "openai" or "gemini"
	Model       string
	APIKey      string
	BaseURL     string
	Language    lang.Language
	Temperature float32

	// Breaker settings; zero values use the defaults below
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

// DefaultConfig returns the OpenAI configuration for a language.
func DefaultConfig(l lang.Language) Config {
	return Config{
		Provider:        "openai",
		Language:        l,
		Temperature:     0.8,
		BreakerFailures: 5,
		BreakerTimeout:  30 * time.Second,
	}
}

// New creates the configured generator wrapped in a circuit breaker.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Breaker, error) {
	var (
		g   Generator
		err error
	)

	switch cfg.Provider {
	case "openai", "":
		g, err = NewOpenAI(cfg)
	case "gemini":
		g, err = NewGemini(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown generator provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	return NewBreaker(g, cfg, logger), nil
}
