package cli

import "time"

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile    string
	Debug      bool
	ListModels bool
	Language   string

	// Server flags
	Addr string

	// Vocabulary flags
	VocabFile string
	Columns   []int
	ImageDir  string

	// Session flags
	Mode           string
	Pairs          int
	SampleSize     int
	RemoveConsumed bool
	Tick           time.Duration
	Preview        time.Duration
	Present        time.Duration
	MaxAttempts    int

	// Generator flags
	Generator      string
	GeneratorModel string

	// Audio flags
	NoAudio       bool
	OpenAIModel   string
	OpenAIVoice   string
	AudioCacheDir string

	// Export flags
	Output   string
	CSV      bool
	DeckName string

	// fetch-images
	Overwrite   bool
	OpenMojiURL string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Language:       "tamil",
		Addr:           ":8501",
		VocabFile:      "TT2026-Word-List-Theni-1_2_3_4_Extracted.xlsx",
		Columns:        []int{1, 6},
		ImageDir:       "images",
		Mode:           "pregenerated",
		Pairs:          20,
		SampleSize:     30,
		RemoveConsumed: true,
		Tick:           time.Second,
		Preview:        15 * time.Second,
		Present:        5 * time.Second,
		MaxAttempts:    10,
		Generator:      "openai",
		OpenAIModel:    "gpt-4o-mini-tts",
		OpenAIVoice:    "alloy",
		AudioCacheDir:  "./.audio_cache",
	}
}
