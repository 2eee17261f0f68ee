package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// ErrDriverStopped is returned by commands issued after Run has returned.
var ErrDriverStopped = errors.New("session driver stopped")

type command struct {
	fn         func(ctx context.Context, s *Sequencer) error
	resetTimer bool
	reply      chan error
}

// Driver is the single execution context of a Sequencer. One goroutine,
// Run, owns the sequencer; ticks and commands are handled strictly one at a
// time, so a command issued between two ticks takes effect before the
// second one.
type Driver struct {
	seq    *Sequencer
	tick   time.Duration
	logger *zap.Logger

	cmds    chan command
	done    chan struct{}
	running atomic.Bool

	mu   sync.Mutex
	subs map[chan Snapshot]struct{}
}

// NewDriver creates a driver ticking seq every tick.
func NewDriver(seq *Sequencer, tick time.Duration, logger *zap.Logger) *Driver {
	if tick <= 0 {
		tick = time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{
		seq:    seq,
		tick:   tick,
		logger: logger,
		cmds:   make(chan command),
		done:   make(chan struct{}),
		subs:   make(map[chan Snapshot]struct{}),
	}
}

// Run drives the sequencer until ctx is cancelled.
func (d *Driver) Run(ctx context.Context) error {
	d.running.Store(true)
	defer close(d.done)
	defer d.running.Store(false)

	ticker := time.NewTicker(d.tick)
	defer ticker.Stop()

	d.logger.Debug("session driver running", zap.Duration("tick", d.tick))

	for {
		select {
		case <-ctx.Done():
			d.seq.Stop(context.WithoutCancel(ctx))
			return nil

		case <-ticker.C:
			d.seq.Tick(ctx)
			d.broadcast(d.seq.Snapshot())

		case c := <-d.cmds:
			err := c.fn(ctx, d.seq)
			c.reply <- err
			// a fresh phase gets its full first tick
			if c.resetTimer && err == nil {
				ticker.Reset(d.tick)
			}
			d.broadcast(d.seq.Snapshot())
		}
	}
}

// Running reports whether Run is active. It never waits on the driver
// goroutine, so it stays responsive during a slow generator call.
func (d *Driver) Running() bool {
	return d.running.Load()
}

// Do runs fn inside the driver goroutine and waits for it.
func (d *Driver) Do(ctx context.Context, fn func(ctx context.Context, s *Sequencer) error) error {
	return d.do(ctx, command{fn: fn})
}

func (d *Driver) do(ctx context.Context, c command) error {
	c.reply = make(chan error, 1)
	select {
	case d.cmds <- c:
	case <-ctx.Done():
		return ctx.Err()
	case <-d.done:
		return ErrDriverStopped
	}

	select {
	case err := <-c.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Start begins a session.
func (d *Driver) Start(ctx context.Context, mode Mode) error {
	return d.do(ctx, command{
		fn: func(ctx context.Context, s *Sequencer) error {
			return s.Start(ctx, mode)
		},
		resetTimer: true,
	})
}

// Pause freezes the session.
func (d *Driver) Pause(ctx context.Context) error {
	return d.Do(ctx, func(ctx context.Context, s *Sequencer) error {
		s.Pause(ctx)
		return nil
	})
}

// Resume continues the session.
func (d *Driver) Resume(ctx context.Context) error {
	return d.do(ctx, command{
		fn: func(ctx context.Context, s *Sequencer) error {
			s.Resume(ctx)
			return nil
		},
		resetTimer: true,
	})
}

// Stop ends the session.
func (d *Driver) Stop(ctx context.Context) error {
	return d.Do(ctx, func(ctx context.Context, s *Sequencer) error {
		s.Stop(ctx)
		return nil
	})
}

// Skip moves on to the next pair.
func (d *Driver) Skip(ctx context.Context) error {
	return d.do(ctx, command{
		fn: func(ctx context.Context, s *Sequencer) error {
			s.Skip(ctx)
			return nil
		},
		resetTimer: true,
	})
}

// Snapshot returns the current view of the session.
func (d *Driver) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := d.Do(ctx, func(_ context.Context, s *Sequencer) error {
		snap = s.Snapshot()
		return nil
	})
	return snap, err
}

// Audio returns the current pair's audio and its version.
func (d *Driver) Audio(ctx context.Context) ([]byte, int, error) {
	var (
		data    []byte
		version int
	)
	err := d.Do(ctx, func(_ context.Context, s *Sequencer) error {
		data, version = s.Audio()
		return nil
	})
	return data, version, err
}

// Subscribe returns a channel receiving a snapshot after every tick and
// command. Slow subscribers only ever see the latest snapshot. Call the
// returned function to unsubscribe.
func (d *Driver) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	d.mu.Lock()
	d.subs[ch] = struct{}{}
	d.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.subs, ch)
			d.mu.Unlock()
		})
	}
}

func (d *Driver) broadcast(snap Snapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for ch := range d.subs {
		select {
		case ch <- snap:
		default:
			// replace the stale snapshot
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}
