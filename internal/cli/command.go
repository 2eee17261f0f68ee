package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"codeberg.org/snonux/theni/internal"
	"codeberg.org/snonux/theni/internal/lang"
)

// CreateRootCommand creates and configures the root cobra command together
// with its subcommands. The root command serves when run without one.
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "theni",
		Short: "Word-picture pair practice server",
		Long: `theni serves a browser practice session for spelling-bee vocabulary.

It pairs words that have a picture in the images directory, shows each
pair for a countdown and then reveals a sentence using both words, read
aloud when a speech provider is available.

Examples:
  theni                           # Serve the practice UI (default)
  theni check                     # Show which words have pictures
  theni fetch-images              # Download the built-in OpenMoji icons
  theni export --csv -o deck.csv  # Export an Anki deck`,
		Args:          cobra.NoArgs,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.ListModels {
				return runListModels(cmd)
			}
			return runServe(cmd, flags)
		},
	}

	setupFlags(rootCmd, flags)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the practice UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, flags)
		},
	}

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Reconcile vocabulary and pictures and print the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, flags)
		},
	}

	fetchCmd := &cobra.Command{
		Use:   "fetch-images [word...]",
		Short: "Download OpenMoji pictures into the images directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetchImages(cmd, flags, args)
		},
	}
	fetchCmd.Flags().BoolVar(&flags.Overwrite, "overwrite", false, "Replace pictures that already exist")
	fetchCmd.Flags().StringVar(&flags.OpenMojiURL, "openmoji-url", "", "Base URL of the OpenMoji icon set")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export an Anki deck of every word with a picture",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, flags)
		},
	}
	exportCmd.Flags().StringVarP(&flags.Output, "output", "o", "", "Output file (default theni.apkg, or theni.csv with --csv)")
	exportCmd.Flags().BoolVar(&flags.CSV, "csv", false, "Write CSV instead of an APKG package")
	exportCmd.Flags().StringVar(&flags.DeckName, "deck-name", "", "Deck name for APKG export")

	rootCmd.AddCommand(serveCmd, checkCmd, fetchCmd, exportCmd)
	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.theni.yaml)")
	pf.BoolVar(&flags.Debug, "debug", false, "Enable development logging")
	pf.StringVar(&flags.Language, "language", flags.Language, "Language: "+strings.Join(lang.Names(), ", "))
	pf.StringVar(&flags.VocabFile, "vocab", flags.VocabFile, "Vocabulary file (.xlsx, .csv or one word per line)")
	pf.IntSliceVar(&flags.Columns, "columns", flags.Columns, "Zero-based spreadsheet columns holding words")
	pf.StringVar(&flags.ImageDir, "images", flags.ImageDir, "Directory of word pictures")

	// Server flags
	pf.StringVar(&flags.Addr, "addr", flags.Addr, "HTTP listen address")
	pf.BoolVar(&flags.ListModels, "list-models", false, "List available OpenAI models for the current API key")

	// Session flags
	pf.StringVar(&flags.Mode, "mode", flags.Mode, "Default session mode: pregenerated or ondemand")
	pf.IntVar(&flags.Pairs, "pairs", flags.Pairs, "Pairs per pre-generated session")
	pf.IntVar(&flags.SampleSize, "sample-size", flags.SampleSize, "Candidate words offered to the generator per request")
	pf.BoolVar(&flags.RemoveConsumed, "remove-consumed", flags.RemoveConsumed, "Remove accepted words from the on-demand pool")
	pf.DurationVar(&flags.Tick, "tick", flags.Tick, "Countdown tick")
	pf.DurationVar(&flags.Preview, "preview", flags.Preview, "Time a pair is shown before its sentence")
	pf.DurationVar(&flags.Present, "present", flags.Present, "Time the sentence is shown")
	pf.IntVar(&flags.MaxAttempts, "max-attempts", flags.MaxAttempts, "Consecutive generator failures before an on-demand session fails")

	// Generator flags
	pf.StringVar(&flags.Generator, "generator", flags.Generator, "Sentence generator: openai or gemini")
	pf.StringVar(&flags.GeneratorModel, "generator-model", "", "Generator model (default: provider default)")

	// Audio flags
	pf.BoolVar(&flags.NoAudio, "no-audio", false, "Disable sentence audio")
	pf.StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI TTS model: tts-1, tts-1-hd, gpt-4o-mini-tts")
	pf.StringVar(&flags.OpenAIVoice, "openai-voice", flags.OpenAIVoice, "OpenAI voice: alloy, ash, ballad, coral, echo, fable, onyx, nova, sage, shimmer, verse")
	pf.StringVar(&flags.AudioCacheDir, "audio-cache", flags.AudioCacheDir, "Audio cache directory")

	// Bind flags to viper
	bindFlagsToViper(pf)
}

func bindFlagsToViper(pf *pflag.FlagSet) {
	viper.BindPFlag("language", pf.Lookup("language"))
	viper.BindPFlag("server.addr", pf.Lookup("addr"))
	viper.BindPFlag("vocab.file", pf.Lookup("vocab"))
	viper.BindPFlag("vocab.columns", pf.Lookup("columns"))
	viper.BindPFlag("images.dir", pf.Lookup("images"))
	viper.BindPFlag("session.mode", pf.Lookup("mode"))
	viper.BindPFlag("session.pairs", pf.Lookup("pairs"))
	viper.BindPFlag("session.sample_size", pf.Lookup("sample-size"))
	viper.BindPFlag("session.remove_consumed", pf.Lookup("remove-consumed"))
	viper.BindPFlag("session.tick", pf.Lookup("tick"))
	viper.BindPFlag("session.preview", pf.Lookup("preview"))
	viper.BindPFlag("session.present", pf.Lookup("present"))
	viper.BindPFlag("session.max_attempts", pf.Lookup("max-attempts"))
	viper.BindPFlag("generator.provider", pf.Lookup("generator"))
	viper.BindPFlag("generator.model", pf.Lookup("generator-model"))
	viper.BindPFlag("audio.openai_model", pf.Lookup("openai-model"))
	viper.BindPFlag("audio.openai_voice", pf.Lookup("openai-voice"))
	viper.BindPFlag("audio.cache_dir", pf.Lookup("audio-cache"))

	viper.SetDefault("audio.enabled", true)
	viper.SetDefault("session.generator_timeout", "10s")
	viper.BindEnv("auth.passphrase", "THENI_PASSPHRASE", "THENI_AUTH_PASSPHRASE")
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	// a missing .env is normal
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".theni" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".theni")
	}

	// Environment variables
	viper.SetEnvPrefix("THENI")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("audio.openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	for _, env := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		if key := os.Getenv(env); key != "" {
			return key
		}
	}
	return viper.GetString("generator.gemini_key")
}
