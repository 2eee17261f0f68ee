package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"codeberg.org/snonux/theni/internal/app"
	"codeberg.org/snonux/theni/internal/image"
	"codeberg.org/snonux/theni/internal/lang"
	"codeberg.org/snonux/theni/internal/session"
)

// BuildConfig resolves the application configuration. Values come from
// flags, then THENI_* environment variables, then the config file.
func BuildConfig(flags *Flags) (app.Config, error) {
	l, err := lang.Lookup(viper.GetString("language"))
	if err != nil {
		return app.Config{}, err
	}
	cfg := app.DefaultConfig(l)

	cfg.Addr = viper.GetString("server.addr")
	cfg.Passphrase = viper.GetString("auth.passphrase")

	cfg.Vocab.VocabFile = viper.GetString("vocab.file")
	cols, err := vocabColumns()
	if err != nil {
		return app.Config{}, err
	}
	if len(cols) > 0 {
		cfg.Vocab.Columns = cols
	}
	cfg.Vocab.ImageDir = viper.GetString("images.dir")

	mode, err := session.ParseMode(viper.GetString("session.mode"))
	if err != nil {
		return app.Config{}, err
	}
	cfg.Session.Mode = mode
	cfg.Session.Pairs = viper.GetInt("session.pairs")
	cfg.Session.SampleSize = viper.GetInt("session.sample_size")
	cfg.Session.RemoveConsumed = viper.GetBool("session.remove_consumed")
	cfg.Session.Tick = viper.GetDuration("session.tick")
	cfg.Session.Preview = viper.GetDuration("session.preview")
	cfg.Session.Present = viper.GetDuration("session.present")
	cfg.Session.MaxAttempts = viper.GetInt("session.max_attempts")
	cfg.Session.GeneratorTimeout = viper.GetDuration("session.generator_timeout")

	if cfg.Session.Tick <= 0 {
		return app.Config{}, fmt.Errorf("session tick must be positive, got %s", cfg.Session.Tick)
	}
	if cfg.Session.Pairs < 1 {
		return app.Config{}, fmt.Errorf("session pairs must be at least 1, got %d", cfg.Session.Pairs)
	}
	if cfg.Session.MaxAttempts < 1 {
		return app.Config{}, fmt.Errorf("max attempts must be at least 1, got %d", cfg.Session.MaxAttempts)
	}

	cfg.Generator.Provider = viper.GetString("generator.provider")
	cfg.Generator.Model = viper.GetString("generator.model")
	switch cfg.Generator.Provider {
	case "openai", "":
		cfg.Generator.APIKey = GetOpenAIKey()
	case "gemini":
		cfg.Generator.APIKey = GetGeminiKey()
	default:
		return app.Config{}, fmt.Errorf("unknown generator %q (use openai or gemini)", cfg.Generator.Provider)
	}

	cfg.AudioEnabled = viper.GetBool("audio.enabled") && !flags.NoAudio
	cfg.Audio.OpenAIKey = GetOpenAIKey()
	cfg.Audio.OpenAIModel = viper.GetString("audio.openai_model")
	cfg.Audio.OpenAIVoice = viper.GetString("audio.openai_voice")
	cfg.Audio.CacheDir = viper.GetString("audio.cache_dir")

	if flags.DeckName != "" {
		cfg.DeckName = flags.DeckName
	}
	cfg.OpenMojiURL = flags.OpenMojiURL
	if cfg.OpenMojiURL == "" {
		cfg.OpenMojiURL = image.DefaultOpenMojiURL
	}

	return cfg, nil
}

// vocabColumns reads vocab.columns. Flags and YAML lists arrive as a slice,
// THENI_VOCAB_COLUMNS and scalar YAML values as a string like "1,6".
func vocabColumns() ([]int, error) {
	if cols := viper.GetIntSlice("vocab.columns"); len(cols) > 0 {
		return cols, nil
	}
	raw := strings.Trim(strings.TrimSpace(viper.GetString("vocab.columns")), "[]")
	if raw == "" {
		return nil, nil
	}

	var cols []int
	for _, part := range strings.Split(raw, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid vocab.columns %q: want comma-separated column numbers", raw)
		}
		cols = append(cols, n)
	}
	return cols, nil
}

// NewLogger returns a development logger with debug on, production otherwise.
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
