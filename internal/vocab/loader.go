package vocab

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Options configures Load.
type Options struct {
	VocabFile string
	Columns   []int
	ImageDir  string
	Logger    *zap.Logger
}

// Load reads the vocabulary and image directory and reconciles them. A
// vocabulary source that cannot be read, or that yields no words, is
// replaced by FallbackWords and a warning is recorded.
func Load(ctx context.Context, opts Options) (*Library, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	files, err := ListImages(opts.ImageDir)
	if err != nil {
		return nil, err
	}

	var warnings []string
	words, err := readVocabulary(opts)
	switch {
	case err != nil:
		warnings = append(warnings, fmt.Sprintf("vocabulary source unusable (%v); using built-in word list", err))
		words = FallbackWords()
	case len(words) == 0:
		warnings = append(warnings, fmt.Sprintf("vocabulary source %s contains no words; using built-in word list", opts.VocabFile))
		words = FallbackWords()
	}

	for _, w := range warnings {
		logger.Warn("vocabulary degraded", zap.String("reason", w))
	}

	lib := Reconcile(words, files)
	lib.dir = opts.ImageDir
	lib.warnings = warnings

	logger.Info("vocabulary loaded",
		zap.Int("vocabulary", len(words)),
		zap.Int("images", len(lib.images)),
		zap.Int("valid", lib.Len()),
		zap.Int("missing_images", len(lib.missing)),
	)

	return lib, nil
}

func readVocabulary(opts Options) ([]string, error) {
	if opts.VocabFile == "" {
		return nil, fmt.Errorf("no vocabulary file configured")
	}
	return ReadWords(opts.VocabFile, opts.Columns)
}

// Loader memoizes the first successful Load for the lifetime of the process.
// Failed loads are not cached so a fixed configuration can be retried.
type Loader struct {
	opts Options

	mu  sync.Mutex
	lib *Library
}

// NewLoader creates a loader for the given options.
func NewLoader(opts Options) *Loader {
	return &Loader{opts: opts}
}

// Library returns the memoized library, loading it on first use.
func (l *Loader) Library(ctx context.Context) (*Library, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.lib != nil {
		return l.lib, nil
	}
	lib, err := Load(ctx, l.opts)
	if err != nil {
		return nil, err
	}
	l.lib = lib
	return lib, nil
}

// Reload discards the memoized library and loads again.
func (l *Loader) Reload(ctx context.Context) (*Library, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	lib, err := Load(ctx, l.opts)
	if err != nil {
		return nil, err
	}
	l.lib = lib
	return lib, nil
}
