package audio

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"codeberg.org/snonux/theni/internal/lang"
)

// Provider defines the interface for text-to-speech providers
type Provider interface {
	// Synthesize turns text into a playable audio payload
	Synthesize(ctx context.Context, text string) ([]byte, error)

	// Name returns the provider name
	Name() string

	// IsAvailable checks if the provider is properly configured and available
	IsAvailable() error
}

// Config holds common configuration for audio providers
type Config struct {
	Provider string // "openai", "espeak" or "auto" (openai falling back to espeak)
	Language lang.Language

	CacheDir    string
	EnableCache bool

	// OpenAI-specific settings
	OpenAIKey         string
	OpenAIModel       string  // "tts-1", "tts-1-hd", or "gpt-4o-mini-tts"
	OpenAIVoice       string  // "alloy", "ash", "ballad", "coral", "echo", "fable", "onyx", "nova", "sage", "shimmer", "verse"
	OpenAISpeed       float64 // 0.25 to 4.0
	OpenAIInstruction string  // Voice instructions for gpt-4o-mini-tts model

	ESpeak *ESpeakConfig
}

// DefaultProviderConfig returns default configuration for the given language
func DefaultProviderConfig(l lang.Language) *Config {
	return &Config{
		Provider:    "auto",
		Language:    l,
		CacheDir:    "./.audio_cache",
		EnableCache: true,
		OpenAIModel: "gpt-4o-mini-tts",
		OpenAIVoice: "alloy",
		OpenAISpeed: 1.0,
		OpenAIInstruction: fmt.Sprintf("You are speaking %s. Pronounce the text with authentic %s phonetics. "+
			"Speak slowly and clearly for young language learners.", l.Name, l.Name),
		ESpeak: DefaultConfig(l),
	}
}

// NewProvider creates the appropriate audio provider based on configuration
func NewProvider(config *Config, logger *zap.Logger) (Provider, error) {
	if config == nil {
		config = DefaultProviderConfig(lang.Default())
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	switch config.Provider {
	case "openai":
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return NewOpenAIProvider(config)

	case "espeak":
		return NewESpeakProvider(config.ESpeak, config.Language)

	case "auto", "":
		espeak, espeakErr := NewESpeakProvider(config.ESpeak, config.Language)
		if config.OpenAIKey == "" {
			if espeakErr != nil {
				return nil, fmt.Errorf("no audio provider available: OpenAI API key missing and %w", espeakErr)
			}
			return espeak, nil
		}
		primary, err := NewOpenAIProvider(config)
		if err != nil {
			return nil, err
		}
		if espeakErr != nil {
			logger.Debug("espeak-ng fallback unavailable", zap.Error(espeakErr))
			return primary, nil
		}
		return NewProviderWithFallback(primary, espeak, logger), nil

	default:
		return nil, fmt.Errorf("unknown audio provider: %s", config.Provider)
	}
}

// ProviderWithFallback wraps a primary provider with a fallback option
type ProviderWithFallback struct {
	primary  Provider
	fallback Provider
	logger   *zap.Logger
}

// NewProviderWithFallback creates a provider that falls back to secondary if primary fails
func NewProviderWithFallback(primary, fallback Provider, logger *zap.Logger) Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProviderWithFallback{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// Synthesize tries primary provider first, falls back to secondary on error
func (p *ProviderWithFallback) Synthesize(ctx context.Context, text string) ([]byte, error) {
	data, err := p.primary.Synthesize(ctx, text)
	if err == nil {
		return data, nil
	}

	p.logger.Warn("primary audio provider failed, falling back",
		zap.String("primary", p.primary.Name()),
		zap.String("fallback", p.fallback.Name()),
		zap.Error(err),
	)
	return p.fallback.Synthesize(ctx, text)
}

// Name returns the provider name
func (p *ProviderWithFallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", p.primary.Name(), p.fallback.Name())
}

// IsAvailable checks if at least one provider is available
func (p *ProviderWithFallback) IsAvailable() error {
	primaryErr := p.primary.IsAvailable()
	if primaryErr == nil {
		return nil
	}

	fallbackErr := p.fallback.IsAvailable()
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("both providers unavailable: primary=%v, fallback=%v",
		primaryErr, fallbackErr)
}
