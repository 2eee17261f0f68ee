package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"codeberg.org/snonux/theni/internal/anki"
	"codeberg.org/snonux/theni/internal/image"
	"codeberg.org/snonux/theni/internal/session"
)

// Check reloads the vocabulary and pictures and prints what the reconciler
// found.
func (a *App) Check(ctx context.Context, w io.Writer) error {
	lib, err := a.loader.Reload(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Vocabulary source: %s\n", a.cfg.Vocab.VocabFile)
	fmt.Fprintf(w, "Image directory:   %s\n", lib.Dir())
	fmt.Fprintf(w, "Pictures found:    %d\n", len(lib.Images()))
	fmt.Fprintf(w, "Valid words:       %d\n", lib.Len())

	if words := lib.Words(); len(words) > 0 {
		fmt.Fprintf(w, "\n%s\n", strings.Join(words, ", "))
	}
	if missing := lib.Missing(); len(missing) > 0 {
		fmt.Fprintf(w, "\nWords without a picture (%d):\n  %s\n", len(missing), strings.Join(missing, ", "))
	}
	for _, warning := range lib.Warnings() {
		fmt.Fprintf(w, "\nWarning: %s\n", warning)
	}

	need := session.MinWords(session.ModePregenerated, a.cfg.Session.Pairs)
	if lib.Len() < need {
		fmt.Fprintf(w, "\nA full practice needs at least %d words with pictures; add more pictures or vocabulary.\n", need)
	}
	return nil
}

// ExportOptions selects the export format.
type ExportOptions struct {
	Output string
	CSV    bool
}

// Export writes an Anki deck of every valid word.
func (a *App) Export(ctx context.Context, opts ExportOptions, w io.Writer) error {
	lib, err := a.Library(ctx)
	if err != nil {
		return err
	}
	cards := anki.CardsFromLibrary(lib)
	if len(cards) == 0 {
		return fmt.Errorf("no words with pictures to export")
	}

	if opts.CSV {
		if opts.Output == "" {
			opts.Output = "theni.csv"
		}
		f, err := os.Create(opts.Output)
		if err != nil {
			return fmt.Errorf("failed to create CSV file: %w", err)
		}
		if err := anki.WriteCSV(f, cards, true); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	} else {
		if opts.Output == "" {
			opts.Output = "theni.apkg"
		}
		if err := anki.NewAPKG(a.cfg.DeckName, cards).Write(opts.Output); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "Exported %d cards to %s\n", len(cards), opts.Output)
	return nil
}

// FetchImages downloads OpenMoji pictures into the image directory.
func (a *App) FetchImages(ctx context.Context, words []string, overwrite bool, w io.Writer) error {
	opts := image.DefaultDownloadOptions()
	opts.OutputDir = a.cfg.Vocab.ImageDir
	opts.OverwriteExisting = overwrite

	d := image.NewDownloader(image.NewOpenMoji(a.cfg.OpenMojiURL), opts, a.logger.Named("images"))
	results, err := d.DownloadAll(ctx, words)
	if err != nil {
		return err
	}

	var failed int
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
			fmt.Fprintf(w, "✗ %s: %v\n", r.Word, r.Err)
		case r.Skipped:
			fmt.Fprintf(w, "- %s: already present\n", r.Word)
		default:
			fmt.Fprintf(w, "✓ %s -> %s\n", r.Word, r.Path)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d pictures failed to download", failed, len(results))
	}
	return nil
}
