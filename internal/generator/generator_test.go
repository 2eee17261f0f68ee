package generator

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"codeberg.org/snonux/theni/internal/lang"
)

func TestNew(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		cfg      Config
		wantName string
		wantErr  string
	}{
		{
			name:     "openai default model",
			cfg:      Config{Provider: "openai", APIKey: "k"},
			wantName: "openai/gpt-4o-mini",
		},
		{
			name:     "empty provider means openai",
			cfg:      Config{APIKey: "k", Model: "gpt-4o"},
			wantName: "openai/gpt-4o",
		},
		{
			name:     "gemini",
			cfg:      Config{Provider: "gemini", APIKey: "k"},
			wantName: "gemini/gemini-2.0-flash",
		},
		{
			name:    "openai without key",
			cfg:     Config{Provider: "openai"},
			wantErr: "OpenAI API key is required",
		},
		{
			name:    "gemini without key",
			cfg:     Config{Provider: "gemini"},
			wantErr: "Gemini API key is required",
		},
		{
			name:    "unknown",
			cfg:     Config{Provider: "llama", APIKey: "k"},
			wantErr: "unknown generator provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(ctx, tt.cfg, zap.NewNop())
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, g.Name())
			assert.False(t, g.Open())
		})
	}
}

func TestOpenAISuggest(t *testing.T) {
	var gotPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		require.Len(t, req.Messages, 2)
		gotPrompt = req.Messages[1].Content

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"ear | nose | காதும் மூக்கும்."},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	g, err := NewOpenAI(Config{APIKey: "k", BaseURL: server.URL + "/v1", Language: lang.Default()})
	require.NoError(t, err)

	raw, err := g.Suggest(context.Background(), []string{"ear", "nose"})
	require.NoError(t, err)
	assert.Equal(t, "ear | nose | காதும் மூக்கும்.", raw)
	assert.Contains(t, gotPrompt, "ear, nose")
}

func TestOpenAISuggestNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[]}`))
	}))
	defer server.Close()

	g, err := NewOpenAI(Config{APIKey: "k", BaseURL: server.URL + "/v1"})
	require.NoError(t, err)

	_, err = g.Suggest(context.Background(), []string{"ear"})
	assert.EqualError(t, err, "no suggestion returned")
}

func TestGeminiSuggest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "models/gemini-2.0-flash:generateContent"), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"hand | leg | கை கால்."}]}}]}`))
	}))
	defer server.Close()

	g, err := NewGemini(context.Background(), Config{APIKey: "k", BaseURL: server.URL, Language: lang.Default()})
	require.NoError(t, err)

	raw, err := g.Suggest(context.Background(), []string{"hand", "leg"})
	require.NoError(t, err)
	assert.Equal(t, "hand | leg | கை கால்.", raw)
}

func TestOpenAISuggestIntegration(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: OPENAI_API_KEY not set")
	}

	g, err := NewOpenAI(Config{APIKey: apiKey, Language: lang.Default(), Temperature: 0.8})
	require.NoError(t, err)

	raw, err := g.Suggest(context.Background(), []string{"ear", "nose", "eye", "hand"})
	require.NoError(t, err)

	s, err := Parse(raw)
	if err != nil {
		t.Logf("model reply did not parse (this is allowed): %q", raw)
		return
	}
	t.Logf("suggestion: %+v", s)
}
