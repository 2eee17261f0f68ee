package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"codeberg.org/snonux/theni/internal/app"
	"codeberg.org/snonux/theni/internal/models"
)

func newApp(flags *Flags) (*app.App, *zap.Logger, error) {
	cfg, err := BuildConfig(flags)
	if err != nil {
		return nil, nil, err
	}
	logger, err := NewLogger(flags.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return app.New(cfg, logger), logger, nil
}

func runServe(cmd *cobra.Command, flags *Flags) error {
	a, logger, err := newApp(flags)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return a.Serve(ctx)
}

func runCheck(cmd *cobra.Command, flags *Flags) error {
	a, _, err := newApp(flags)
	if err != nil {
		return err
	}
	return a.Check(cmd.Context(), cmd.OutOrStdout())
}

func runFetchImages(cmd *cobra.Command, flags *Flags, words []string) error {
	a, _, err := newApp(flags)
	if err != nil {
		return err
	}
	return a.FetchImages(cmd.Context(), words, flags.Overwrite, cmd.OutOrStdout())
}

func runExport(cmd *cobra.Command, flags *Flags) error {
	a, _, err := newApp(flags)
	if err != nil {
		return err
	}
	return a.Export(cmd.Context(), app.ExportOptions{Output: flags.Output, CSV: flags.CSV}, cmd.OutOrStdout())
}

func runListModels(cmd *cobra.Command) error {
	return models.NewLister(GetOpenAIKey()).ListAvailableModels(cmd.Context(), cmd.OutOrStdout())
}
