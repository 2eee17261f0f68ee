package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func startDriver(t *testing.T, seq *Sequencer, tick time.Duration) (*Driver, context.CancelFunc, <-chan error) {
	t.Helper()
	d := NewDriver(seq, tick, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- d.Run(ctx) }()
	t.Cleanup(cancel)
	return d, cancel, errc
}

func waitFor(t *testing.T, ch <-chan Snapshot, cond func(Snapshot) bool) Snapshot {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case snap := <-ch:
			if cond(snap) {
				return snap
			}
		case <-timeout:
			t.Fatal("timed out waiting for snapshot")
			return Snapshot{}
		}
	}
}

func fastConfig() Config {
	cfg := DefaultConfig()
	cfg.Pairs = 2
	cfg.Tick = 5 * time.Millisecond
	cfg.Preview = 10 * time.Millisecond
	cfg.Present = 5 * time.Millisecond
	return cfg
}

func TestDriverRunsSessionToCompletion(t *testing.T) {
	cfg := fastConfig()
	seq := NewSequencer(syntheticLibrary(t, 4), cfg, seeded())
	d, _, _ := startDriver(t, seq, cfg.Tick)

	ch, unsubscribe := d.Subscribe()
	defer unsubscribe()

	require.NoError(t, d.Start(context.Background(), ModePregenerated))
	snap := waitFor(t, ch, func(s Snapshot) bool { return !s.Active })
	assert.Equal(t, "completed", snap.Outcome)
	assert.Equal(t, 2, snap.Index)
}

func TestDriverCommands(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pairs = 2
	seq := NewSequencer(syntheticLibrary(t, 4), cfg, seeded())
	d, _, _ := startDriver(t, seq, time.Hour)
	ctx := context.Background()

	require.NoError(t, d.Start(ctx, ModePregenerated))
	assert.ErrorIs(t, d.Start(ctx, ModePregenerated), ErrSessionActive)

	require.NoError(t, d.Pause(ctx))
	snap, err := d.Snapshot(ctx)
	require.NoError(t, err)
	assert.True(t, snap.Paused)
	assert.Equal(t, 15, snap.Countdown)

	require.NoError(t, d.Resume(ctx))
	require.NoError(t, d.Skip(ctx))
	snap, err = d.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Index)
	assert.False(t, snap.Paused)

	require.NoError(t, d.Stop(ctx))
	snap, err = d.Snapshot(ctx)
	require.NoError(t, err)
	assert.False(t, snap.Active)
	assert.Equal(t, "stopped", snap.Outcome)

	data, _, err := d.Audio(ctx)
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestDriverStopsWithContext(t *testing.T) {
	seq := NewSequencer(syntheticLibrary(t, 40), DefaultConfig(), seeded())
	d, cancel, errc := startDriver(t, seq, time.Hour)

	require.NoError(t, d.Start(context.Background(), ModePregenerated))
	cancel()

	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}

	assert.Equal(t, OutcomeStopped, seq.State().Outcome)
	assert.ErrorIs(t, d.Stop(context.Background()), ErrDriverStopped)
}

func TestSubscribeKeepsLatest(t *testing.T) {
	seq := NewSequencer(syntheticLibrary(t, 40), DefaultConfig(), seeded())
	d := NewDriver(seq, time.Hour, nil)

	ch, unsubscribe := d.Subscribe()
	d.broadcast(Snapshot{Countdown: 3})
	d.broadcast(Snapshot{Countdown: 2})
	d.broadcast(Snapshot{Countdown: 1})

	snap := <-ch
	assert.Equal(t, 1, snap.Countdown)

	unsubscribe()
	unsubscribe()
	d.broadcast(Snapshot{Countdown: 0})
	select {
	case <-ch:
		t.Fatal("unsubscribed channel received a snapshot")
	default:
	}
}

func TestDriverRunning(t *testing.T) {
	seq := NewSequencer(syntheticLibrary(t, 4), fastConfig(), seeded())
	d := NewDriver(seq, time.Hour, zap.NewNop())
	assert.False(t, d.Running())

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- d.Run(ctx) }()

	require.Eventually(t, d.Running, 5*time.Second, time.Millisecond)

	cancel()
	require.NoError(t, <-errc)
	assert.False(t, d.Running())
}
