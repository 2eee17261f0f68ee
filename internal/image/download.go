// Package image downloads pictures for vocabulary words into the image
// directory the practice server reads.
package image

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"codeberg.org/snonux/theni/internal"
)

var (
	// ErrNoPicture means the source has no picture for the word.
	ErrNoPicture = errors.New("no picture known for word")
	// ErrExists is returned when the target file exists and overwriting is off.
	ErrExists = errors.New("file already exists")
	// ErrTooLarge is returned when a download exceeds MaxSizeBytes.
	ErrTooLarge = errors.New("image exceeds maximum size")
)

// DownloadError describes a failed download of one word's picture.
type DownloadError struct {
	Word   string
	Status int
	Err    error
}

func (e *DownloadError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("download %q: status %d", e.Word, e.Status)
	}
	return fmt.Sprintf("download %q: %v", e.Word, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// DownloadOptions configures image download behavior
type DownloadOptions struct {
	OutputDir         string
	OverwriteExisting bool
	MaxSizeBytes      int64 // 0 = no limit
}

// DefaultDownloadOptions returns the defaults: ./images, keep existing files,
// 1MB limit.
func DefaultDownloadOptions() *DownloadOptions {
	return &DownloadOptions{
		OutputDir:    "images",
		MaxSizeBytes: 1 << 20,
	}
}

// Downloader stores pictures from a Source as <word>.png.
type Downloader struct {
	source  Source
	options *DownloadOptions
	logger  *zap.Logger
}

// NewDownloader creates a new image downloader
func NewDownloader(source Source, options *DownloadOptions, logger *zap.Logger) *Downloader {
	if options == nil {
		options = DefaultDownloadOptions()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Downloader{source: source, options: options, logger: logger}
}

// Result is the outcome for one word.
type Result struct {
	Word    string
	Path    string
	Skipped bool
	Err     error
}

// DownloadAll fetches every word, or every word the source knows when words
// is empty. Failures are reported per word and do not stop the others.
func (d *Downloader) DownloadAll(ctx context.Context, words []string) ([]Result, error) {
	if len(words) == 0 {
		words = d.source.Words()
	}
	if err := os.MkdirAll(d.options.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	results := make([]Result, 0, len(words))
	for _, w := range words {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		path, err := d.Download(ctx, w)
		r := Result{Word: w, Path: path, Err: err}
		if errors.Is(err, ErrExists) {
			r.Err, r.Skipped = nil, true
		}
		if r.Err != nil {
			d.logger.Warn("image download failed", zap.String("word", w), zap.Error(r.Err))
		}
		results = append(results, r)
	}
	return results, nil
}

// Download stores the picture for word and returns its path.
func (d *Downloader) Download(ctx context.Context, word string) (string, error) {
	name := internal.SanitizeFilename(strings.ToLower(word))
	if name == "" {
		return "", &DownloadError{Word: word, Err: ErrNoPicture}
	}
	outputPath := filepath.Join(d.options.OutputDir, name+".png")

	if !d.options.OverwriteExisting {
		if _, err := os.Stat(outputPath); err == nil {
			return outputPath, ErrExists
		}
	}

	reader, err := d.source.Fetch(ctx, word)
	if err != nil {
		return "", err
	}
	defer reader.Close()

	// write next to the target so a failed download never leaves a partial
	// picture behind under the word's name
	tmp, err := os.CreateTemp(d.options.OutputDir, "."+name+"-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := copyLimited(tmp, reader, d.options.MaxSizeBytes); err != nil {
		tmp.Close()
		return "", &DownloadError{Word: word, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp.Name(), outputPath); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	d.logger.Debug("image stored", zap.String("word", word), zap.String("path", outputPath))
	return outputPath, nil
}

func copyLimited(dst io.Writer, src io.Reader, limit int64) error {
	if limit <= 0 {
		_, err := io.Copy(dst, src)
		return err
	}
	written, err := io.Copy(dst, io.LimitReader(src, limit+1))
	if err != nil {
		return err
	}
	if written > limit {
		return fmt.Errorf("%w of %d bytes", ErrTooLarge, limit)
	}
	return nil
}
