package session

import (
	"errors"
	"time"
)

var (
	// ErrTooFewWords is returned by Start when the library is too small for
	// the requested mode.
	ErrTooFewWords = errors.New("not enough words with pictures")
	// ErrSessionActive is returned by Start while a session is running.
	ErrSessionActive = errors.New("a session is already running")
	// ErrNoGenerator is returned when on-demand mode has no generator.
	ErrNoGenerator = errors.New("on-demand mode needs a sentence generator")
)

// Config holds the session settings.
type Config struct {
	Mode             Mode
	Pairs            int
	SampleSize       int
	RemoveConsumed   bool
	Tick             time.Duration
	Preview          time.Duration
	Present          time.Duration
	MaxAttempts      int
	MaxBackoff       time.Duration
	GeneratorTimeout time.Duration
}

// DefaultConfig returns the standard 20-pair, 15s/5s session.
func DefaultConfig() Config {
	return Config{
		Mode:             ModePregenerated,
		Pairs:            20,
		SampleSize:       30,
		RemoveConsumed:   true,
		Tick:             time.Second,
		Preview:          15 * time.Second,
		Present:          5 * time.Second,
		MaxAttempts:      10,
		MaxBackoff:       8 * time.Second,
		GeneratorTimeout: 10 * time.Second,
	}
}

// Rules converts the durations to tick counts.
func (c Config) Rules() Rules {
	r := Rules{
		PreviewTicks: TicksFor(c.Preview, c.Tick),
		PresentTicks: TicksFor(c.Present, c.Tick),
		MaxAttempts:  c.MaxAttempts,
	}
	if c.MaxBackoff > 0 {
		r.MaxBackoffTicks = TicksFor(c.MaxBackoff, c.Tick)
	}
	return r
}
