package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"codeberg.org/snonux/theni/internal/audio"
	"codeberg.org/snonux/theni/internal/generator"
	"codeberg.org/snonux/theni/internal/observe"
	"codeberg.org/snonux/theni/internal/vocab"
)

// Sequencer owns the state of the single practice session. It is not safe
// for concurrent use; a Driver serializes access to it.
type Sequencer struct {
	lib     *vocab.Library
	gen     generator.Generator
	speech  audio.Provider
	cfg     Config
	rules   Rules
	rng     *rand.Rand
	logger  *zap.Logger
	metrics *observe.Metrics

	state        State
	audioData    []byte
	audioVersion int
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithGenerator enables on-demand mode.
func WithGenerator(g generator.Generator) Option {
	return func(s *Sequencer) { s.gen = g }
}

// WithAudio enables speech for presented sentences.
func WithAudio(p audio.Provider) Option {
	return func(s *Sequencer) { s.speech = p }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Sequencer) { s.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *observe.Metrics) Option {
	return func(s *Sequencer) { s.metrics = m }
}

// WithRand sets the random source, for reproducible tests.
func WithRand(r *rand.Rand) Option {
	return func(s *Sequencer) { s.rng = r }
}

// NewSequencer creates an idle sequencer over lib.
func NewSequencer(lib *vocab.Library, cfg Config, opts ...Option) *Sequencer {
	s := &Sequencer{
		lib:    lib,
		cfg:    cfg,
		rules:  cfg.Rules(),
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	if s.rng == nil {
		s.rng = newRand()
	}
	return s
}

// Start begins a session in the given mode.
func (s *Sequencer) Start(ctx context.Context, mode Mode) error {
	if s.state.Active() {
		return ErrSessionActive
	}

	need := MinWords(mode, s.cfg.Pairs)
	if have := s.lib.Len(); have < need {
		return fmt.Errorf("%w: found %d, need at least %d for %s mode; add more pictures or vocabulary",
			ErrTooFewWords, have, need, mode)
	}

	s.clearAudio()

	switch mode {
	case ModePregenerated:
		s.state = NewPregenerated(BuildPairs(s.lib.Words(), s.cfg.Pairs, s.rng), s.rules)
	case ModeOnDemand:
		if s.gen == nil {
			return ErrNoGenerator
		}
		s.state = NewOnDemand(s.lib.Words(), s.cfg.RemoveConsumed)
	default:
		return fmt.Errorf("unknown session mode %d", int(mode))
	}

	s.metrics.RecordSessionStarted(ctx, mode.String())
	s.logger.Info("session started",
		zap.Stringer("mode", mode),
		zap.Int("words", s.lib.Len()),
		zap.Int("pairs", len(s.state.Pairs)),
	)
	if s.state.Phase == PhasePreview {
		s.metrics.RecordPairPresented(ctx, mode.String())
	}

	s.fetchIfDue(ctx)
	return nil
}

// Tick advances the session by one tick. Awaiting sessions whose backoff has
// elapsed ask the generator for the next pair.
func (s *Sequencer) Tick(ctx context.Context) {
	if !s.state.Active() || s.state.Paused {
		return
	}
	if s.state.Phase == PhaseAwaiting && s.state.Countdown == 0 {
		s.fetchIfDue(ctx)
		return
	}
	s.apply(ctx, Event{Kind: Tick})
	s.fetchIfDue(ctx)
}

// Pause freezes the countdown.
func (s *Sequencer) Pause(ctx context.Context) {
	s.apply(ctx, Event{Kind: Pause})
}

// Resume continues from the frozen countdown.
func (s *Sequencer) Resume(ctx context.Context) {
	s.apply(ctx, Event{Kind: Resume})
}

// Stop discards the session.
func (s *Sequencer) Stop(ctx context.Context) {
	s.apply(ctx, Event{Kind: Stop})
}

// Skip ends the current pair immediately.
func (s *Sequencer) Skip(ctx context.Context) {
	s.apply(ctx, Event{Kind: Skip})
	s.fetchIfDue(ctx)
}

// State returns a copy of the current state.
func (s *Sequencer) State() State {
	st := s.state
	st.Pairs = append([]Pair(nil), s.state.Pairs...)
	st.Pool = append([]string(nil), s.state.Pool...)
	return st
}

// Audio returns the speech for the current pair and a version number that
// changes whenever the audio does. data is nil when there is none.
func (s *Sequencer) Audio() (data []byte, version int) {
	return s.audioData, s.audioVersion
}

// Library returns the word library the sequencer draws from.
func (s *Sequencer) Library() *vocab.Library {
	return s.lib
}

// Generator returns the configured generator or nil.
func (s *Sequencer) Generator() generator.Generator {
	return s.gen
}

// apply runs one event through Reduce and records what changed.
func (s *Sequencer) apply(ctx context.Context, e Event) {
	prev := s.state
	next := Reduce(prev, e, s.rules)
	s.state = next

	if prev.Active() && !next.Active() {
		s.clearAudio()
		s.metrics.RecordSessionEnded(ctx, next.Mode.String(), next.Outcome.String())
		fields := []zap.Field{
			zap.Stringer("mode", next.Mode),
			zap.Stringer("outcome", next.Outcome),
			zap.Int("presented", next.Presented),
		}
		if next.Outcome == OutcomeFailed {
			s.logger.Warn("session ended", append(fields, zap.String("reason", next.Reason))...)
		} else {
			s.logger.Info("session ended", fields...)
		}
		return
	}

	if next.Phase == PhasePreview && next.Presented != prev.Presented {
		s.metrics.RecordPairPresented(ctx, next.Mode.String())
		s.logger.Debug("pair presented",
			zap.String("first", next.Current.First),
			zap.String("second", next.Current.Second),
			zap.Int("number", next.Presented),
		)
	}
}

// fetchIfDue asks the generator for a pair when the session is awaiting one
// and its backoff has elapsed.
func (s *Sequencer) fetchIfDue(ctx context.Context) {
	st := s.state
	if st.Phase != PhaseAwaiting || st.Countdown != 0 || st.Paused {
		return
	}

	pair, err := s.request(ctx)
	if err != nil {
		var rej *Rejection
		reason := "error"
		if errors.As(err, &rej) {
			reason = rej.Reason.String()
		}
		s.logger.Debug("pair rejected",
			zap.String("reason", reason),
			zap.Int("failures", st.Failures+1),
			zap.Error(err),
		)
		s.apply(ctx, Event{Kind: PairRejected})
		return
	}

	s.synthesize(ctx, pair.Sentence)
	s.apply(ctx, Event{Kind: PairAccepted, Pair: pair})
}

func (s *Sequencer) request(ctx context.Context) (Pair, error) {
	candidates := SampleWords(s.state.Pool, s.cfg.SampleSize, s.rng)

	var pool map[string]bool
	if s.state.RemoveConsumed {
		pool = make(map[string]bool, len(s.state.Pool))
		for _, w := range s.state.Pool {
			pool[w] = true
		}
	}

	cctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	raw, err := s.gen.Suggest(cctx, candidates)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		s.metrics.RecordGeneratorRequest(ctx, s.gen.Name(), "error", elapsed)
		return Pair{}, &Rejection{Reason: ReasonUnavailable, Err: err}
	}

	pair, err := Validate(raw, s.lib, pool)
	if err != nil {
		s.metrics.RecordGeneratorRequest(ctx, s.gen.Name(), "rejected", elapsed)
		return Pair{}, err
	}
	s.metrics.RecordGeneratorRequest(ctx, s.gen.Name(), "accepted", elapsed)
	return pair, nil
}

// synthesize fetches speech for the sentence. Failures only cost the audio.
func (s *Sequencer) synthesize(ctx context.Context, text string) {
	s.clearAudio()
	if s.speech == nil || text == "" {
		return
	}

	cctx, cancel := s.withTimeout(ctx)
	defer cancel()

	data, err := s.speech.Synthesize(cctx, text)
	if err != nil {
		s.metrics.RecordAudioFailure(ctx, s.speech.Name())
		s.logger.Warn("audio synthesis failed, presenting without audio",
			zap.String("provider", s.speech.Name()),
			zap.Error(err),
		)
		return
	}
	s.audioData = data
	s.audioVersion++
}

func (s *Sequencer) clearAudio() {
	if s.audioData != nil {
		s.audioData = nil
		s.audioVersion++
	}
}

func (s *Sequencer) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.GeneratorTimeout > 0 {
		return context.WithTimeout(ctx, s.cfg.GeneratorTimeout)
	}
	return context.WithCancel(ctx)
}
