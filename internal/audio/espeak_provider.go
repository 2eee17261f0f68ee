package audio

import (
	"context"

	"codeberg.org/snonux/theni/internal/lang"
)

// ESpeakProvider implements Provider interface for espeak-ng
type ESpeakProvider struct {
	espeak   *ESpeak
	language lang.Language
}

// NewESpeakProvider creates a new espeak-ng provider
func NewESpeakProvider(config *ESpeakConfig, l lang.Language) (Provider, error) {
	if config == nil {
		config = DefaultConfig(l)
	}
	espeak, err := New(config)
	if err != nil {
		return nil, err
	}

	return &ESpeakProvider{
		espeak:   espeak,
		language: l,
	}, nil
}

// Synthesize generates WAV audio using espeak-ng
func (p *ESpeakProvider) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if err := ValidateText(text, p.language); err != nil {
		return nil, err
	}
	return p.espeak.Synthesize(ctx, text)
}

// Name returns the provider name
func (p *ESpeakProvider) Name() string {
	return "espeak-ng"
}

// IsAvailable checks if espeak-ng is installed
func (p *ESpeakProvider) IsAvailable() error {
	return checkESpeakInstalled()
}
