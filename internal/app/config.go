package app

import (
	"errors"

	"codeberg.org/snonux/theni/internal/audio"
	"codeberg.org/snonux/theni/internal/generator"
	"codeberg.org/snonux/theni/internal/lang"
	"codeberg.org/snonux/theni/internal/session"
	"codeberg.org/snonux/theni/internal/vocab"
)

var (
	// ErrMissingPassphrase is returned by Serve without an access passphrase.
	ErrMissingPassphrase = errors.New("no access passphrase configured; set THENI_PASSPHRASE or auth.passphrase")
	// ErrMissingCredential is returned when on-demand is the default mode
	// but the selected generator has no API key.
	ErrMissingCredential = errors.New("on-demand mode needs an API key for the sentence generator")
)

// Config is everything the application needs, already resolved from flags,
// environment and config file.
type Config struct {
	Addr       string
	Passphrase string
	Language   lang.Language

	Vocab   vocab.Options
	Session session.Config

	Generator generator.Config

	AudioEnabled bool
	Audio        audio.Config

	DeckName    string
	OpenMojiURL string
}

// DefaultConfig returns the defaults for language l.
func DefaultConfig(l lang.Language) Config {
	return Config{
		Addr:     ":8501",
		Language: l,
		Vocab: vocab.Options{
			VocabFile: "TT2026-Word-List-Theni-1_2_3_4_Extracted.xlsx",
			Columns:   vocab.DefaultColumns,
			ImageDir:  "images",
		},
		Session:      session.DefaultConfig(),
		Generator:    generator.DefaultConfig(l),
		AudioEnabled: true,
		Audio:        *audio.DefaultProviderConfig(l),
		DeckName:     "Theni " + l.Name + " Words",
	}
}
