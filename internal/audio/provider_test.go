package audio

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"codeberg.org/snonux/theni/internal/lang"
)

// mockProvider implements Provider interface for testing
type mockProvider struct {
	name         string
	data         []byte
	generateErr  error
	availableErr error
	calls        int
}

func (m *mockProvider) Synthesize(ctx context.Context, text string) ([]byte, error) {
	m.calls++
	if m.generateErr != nil {
		return nil, m.generateErr
	}
	return m.data, nil
}

func (m *mockProvider) Name() string {
	return m.name
}

func (m *mockProvider) IsAvailable() error {
	return m.availableErr
}

func TestDefaultProviderConfig(t *testing.T) {
	config := DefaultProviderConfig(lang.Default())

	if config.Provider != "auto" {
		t.Errorf("Expected provider 'auto', got '%s'", config.Provider)
	}

	if config.OpenAIModel != "gpt-4o-mini-tts" {
		t.Errorf("Expected OpenAI model 'gpt-4o-mini-tts', got '%s'", config.OpenAIModel)
	}

	if config.OpenAIVoice != "alloy" {
		t.Errorf("Expected OpenAI voice 'alloy', got '%s'", config.OpenAIVoice)
	}

	if !strings.Contains(config.OpenAIInstruction, "Tamil") {
		t.Errorf("Expected instruction to mention Tamil, got %q", config.OpenAIInstruction)
	}

	if config.ESpeak == nil || config.ESpeak.Voice != "ta" {
		t.Errorf("Expected espeak voice 'ta', got %+v", config.ESpeak)
	}
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
		errMsg  string
	}{
		{
			name: "openai provider without key",
			config: &Config{
				Provider: "openai",
			},
			wantErr: true,
			errMsg:  "OpenAI API key is required",
		},
		{
			name: "unknown provider",
			config: &Config{
				Provider: "unknown",
			},
			wantErr: true,
			errMsg:  "unknown audio provider: unknown",
		},
		{
			name: "openai provider with key",
			config: &Config{
				Provider:  "openai",
				OpenAIKey: "test-key",
				Language:  lang.Default(),
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(tt.config, zap.NewNop())
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewProvider() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err.Error() != tt.errMsg {
				t.Errorf("NewProvider() error = %v, want %v", err.Error(), tt.errMsg)
			}
			if !tt.wantErr && provider == nil {
				t.Error("NewProvider() returned nil provider")
			}
		})
	}
}

func TestNewProviderAutoWithKey(t *testing.T) {
	config := DefaultProviderConfig(lang.Default())
	config.OpenAIKey = "test-key"
	config.CacheDir = t.TempDir()

	provider, err := NewProvider(config, nil)
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	// espeak-ng may or may not be installed; openai is always the primary
	if !strings.HasPrefix(provider.Name(), "openai") {
		t.Errorf("Name() = %q, want openai primary", provider.Name())
	}
}

func TestProviderWithFallback(t *testing.T) {
	ctx := context.Background()

	t.Run("primary succeeds", func(t *testing.T) {
		primary := &mockProvider{name: "primary", data: []byte("a")}
		fallback := &mockProvider{name: "fallback", data: []byte("b")}

		p := NewProviderWithFallback(primary, fallback, zap.NewNop())
		data, err := p.Synthesize(ctx, "காது")
		if err != nil {
			t.Fatalf("Synthesize() error = %v", err)
		}
		if string(data) != "a" {
			t.Errorf("Synthesize() = %q, want primary data", data)
		}
		if fallback.calls != 0 {
			t.Errorf("fallback called %d times, want 0", fallback.calls)
		}
	})

	t.Run("primary fails", func(t *testing.T) {
		primary := &mockProvider{name: "primary", generateErr: errors.New("boom")}
		fallback := &mockProvider{name: "fallback", data: []byte("b")}

		p := NewProviderWithFallback(primary, fallback, nil)
		data, err := p.Synthesize(ctx, "காது")
		if err != nil {
			t.Fatalf("Synthesize() error = %v", err)
		}
		if string(data) != "b" {
			t.Errorf("Synthesize() = %q, want fallback data", data)
		}
		if primary.calls != 1 || fallback.calls != 1 {
			t.Errorf("calls = %d/%d, want 1/1", primary.calls, fallback.calls)
		}
	})

	t.Run("both fail", func(t *testing.T) {
		primary := &mockProvider{name: "primary", generateErr: errors.New("boom")}
		fallback := &mockProvider{name: "fallback", generateErr: errors.New("bang")}

		p := NewProviderWithFallback(primary, fallback, nil)
		if _, err := p.Synthesize(ctx, "காது"); err == nil {
			t.Error("Synthesize() expected error")
		}
	})
}

func TestProviderWithFallbackName(t *testing.T) {
	p := NewProviderWithFallback(&mockProvider{name: "openai"}, &mockProvider{name: "espeak-ng"}, nil)
	if got := p.Name(); got != "openai (fallback: espeak-ng)" {
		t.Errorf("Name() = %q", got)
	}
}

func TestProviderWithFallbackIsAvailable(t *testing.T) {
	tests := []struct {
		name        string
		primaryErr  error
		fallbackErr error
		wantErr     bool
	}{
		{"both available", nil, nil, false},
		{"only primary", nil, errors.New("x"), false},
		{"only fallback", errors.New("x"), nil, false},
		{"neither", errors.New("x"), errors.New("y"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProviderWithFallback(
				&mockProvider{name: "a", availableErr: tt.primaryErr},
				&mockProvider{name: "b", availableErr: tt.fallbackErr},
				nil,
			)
			if err := p.IsAvailable(); (err != nil) != tt.wantErr {
				t.Errorf("IsAvailable() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
