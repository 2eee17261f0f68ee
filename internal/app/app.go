package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"codeberg.org/snonux/theni/internal"
	"codeberg.org/snonux/theni/internal/audio"
	"codeberg.org/snonux/theni/internal/auth"
	"codeberg.org/snonux/theni/internal/generator"
	"codeberg.org/snonux/theni/internal/health"
	"codeberg.org/snonux/theni/internal/observe"
	"codeberg.org/snonux/theni/internal/server"
	"codeberg.org/snonux/theni/internal/session"
	"codeberg.org/snonux/theni/internal/vocab"
)

// App holds the configuration and the memoized vocabulary.
type App struct {
	cfg    Config
	logger *zap.Logger
	loader *vocab.Loader
}

// New creates an application. A nil logger discards logs.
func New(cfg Config, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.Vocab.Logger = logger
	return &App{
		cfg:    cfg,
		logger: logger,
		loader: vocab.NewLoader(cfg.Vocab),
	}
}

// Library returns the reconciled vocabulary, loading it once.
func (a *App) Library(ctx context.Context) (*vocab.Library, error) {
	return a.loader.Library(ctx)
}

// Serve runs the practice server until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	if a.cfg.Passphrase == "" {
		return ErrMissingPassphrase
	}
	gate, err := auth.New(a.cfg.Passphrase)
	if err != nil {
		return err
	}

	lib, err := a.Library(ctx)
	if err != nil {
		return err
	}

	gen, err := a.newGenerator(ctx)
	if err != nil {
		return err
	}

	metricsProvider, err := observe.InitProvider(ctx, observe.ProviderConfig{ServiceVersion: internal.Version})
	if err != nil {
		return fmt.Errorf("failed to initialise metrics: %w", err)
	}
	defer func() {
		if err := metricsProvider.Shutdown(context.WithoutCancel(ctx)); err != nil {
			a.logger.Warn("metrics shutdown failed", zap.Error(err))
		}
	}()
	metrics, err := observe.NewMetrics(metricsProvider.MeterProvider)
	if err != nil {
		return fmt.Errorf("failed to create metrics: %w", err)
	}

	opts := []session.Option{
		session.WithLogger(a.logger.Named("session")),
		session.WithMetrics(metrics),
	}
	if gen != nil {
		opts = append(opts, session.WithGenerator(gen))
	}
	if speech := a.newAudio(); speech != nil {
		opts = append(opts, session.WithAudio(speech))
	}

	seq := session.NewSequencer(lib, a.cfg.Session, opts...)
	driver := session.NewDriver(seq, a.cfg.Session.Tick, a.logger.Named("driver"))

	probes := health.New(readinessChecks(lib, driver, gen, a.cfg.Session.Mode)...)

	srv := server.New(driver, lib, gate,
		server.WithLogger(a.logger.Named("http")),
		server.WithMetrics(metrics, metricsProvider.Handler()),
		server.WithHealth(probes),
	)

	a.logger.Info("starting theni",
		zap.String("version", internal.Version),
		zap.String("addr", a.cfg.Addr),
		zap.String("language", a.cfg.Language.Name),
		zap.Int("valid_words", lib.Len()),
		zap.Stringer("default_mode", a.cfg.Session.Mode),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return driver.Run(gctx) })
	g.Go(func() error { return srv.Run(gctx, a.cfg.Addr) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// newGenerator builds the sentence generator when a key is available. It is
// only an error to have none when on-demand is the default mode.
func (a *App) newGenerator(ctx context.Context) (*generator.Breaker, error) {
	cfg := a.cfg.Generator
	cfg.Language = a.cfg.Language

	if cfg.APIKey == "" {
		if a.cfg.Session.Mode == session.ModeOnDemand {
			return nil, fmt.Errorf("%w (provider %s)", ErrMissingCredential, providerName(cfg.Provider))
		}
		a.logger.Info("no generator API key, on-demand mode disabled", zap.String("provider", providerName(cfg.Provider)))
		return nil, nil
	}

	gen, err := generator.New(ctx, cfg, a.logger.Named("generator"))
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}
	return gen, nil
}

// newAudio returns nil when audio is off or no provider can be built.
func (a *App) newAudio() audio.Provider {
	if !a.cfg.AudioEnabled {
		return nil
	}
	cfg := a.cfg.Audio
	cfg.Language = a.cfg.Language

	p, err := audio.NewProvider(&cfg, a.logger.Named("audio"))
	if err != nil {
		a.logger.Warn("audio disabled", zap.Error(err))
		return nil
	}
	return p
}

func providerName(p string) string {
	if p == "" {
		return "openai"
	}
	return p
}
