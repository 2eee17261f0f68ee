package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRules = Rules{PreviewTicks: 8, PresentTicks: 4, MaxAttempts: 3, MaxBackoffTicks: 4}

func twoPairs() []Pair {
	return []Pair{{First: "ear", Second: "nose"}, {First: "hand", Second: "leg"}}
}

func TestPreviewCountdownObservations(t *testing.T) {
	s := NewPregenerated(twoPairs(), testRules)

	var seen []int
	for s.Phase == PhasePreview {
		seen = append(seen, s.Countdown)
		s = Reduce(s, Event{Kind: Tick}, testRules)
	}

	assert.Equal(t, []int{8, 7, 6, 5, 4, 3, 2, 1}, seen)
	assert.Equal(t, PhasePresent, s.Phase)
	assert.Equal(t, 4, s.Countdown)
}

func TestPregeneratedWalk(t *testing.T) {
	r := Rules{PreviewTicks: 1, PresentTicks: 1}
	s := NewPregenerated(twoPairs(), r)
	require.Equal(t, PhasePreview, s.Phase)
	assert.Equal(t, "ear", s.Current.First)
	assert.Equal(t, 1, s.Presented)

	s = Reduce(s, Event{Kind: Tick}, r)
	assert.Equal(t, PhasePresent, s.Phase)

	s = Reduce(s, Event{Kind: Tick}, r)
	assert.Equal(t, PhasePreview, s.Phase)
	assert.Equal(t, 1, s.Index)
	assert.Equal(t, "hand", s.Current.First)
	assert.Equal(t, 2, s.Presented)

	s = Reduce(s, Event{Kind: Tick}, r)
	s = Reduce(s, Event{Kind: Tick}, r)
	assert.False(t, s.Active())
	assert.Equal(t, OutcomeCompleted, s.Outcome)
	assert.Nil(t, s.Pairs)
	assert.Equal(t, 2, s.Presented)
}

func TestPauseFreezesCountdown(t *testing.T) {
	s := NewPregenerated(twoPairs(), testRules)
	s = Reduce(s, Event{Kind: Tick}, testRules)
	s = Reduce(s, Event{Kind: Tick}, testRules)
	require.Equal(t, 6, s.Countdown)

	s = Reduce(s, Event{Kind: Pause}, testRules)
	for i := 0; i < 20; i++ {
		s = Reduce(s, Event{Kind: Tick}, testRules)
	}
	assert.True(t, s.Paused)
	assert.Equal(t, PhasePreview, s.Phase)
	assert.Equal(t, 6, s.Countdown)

	s = Reduce(s, Event{Kind: Resume}, testRules)
	assert.False(t, s.Paused)
	assert.Equal(t, PhasePreview, s.Phase)
	assert.Equal(t, 6, s.Countdown)

	s = Reduce(s, Event{Kind: Tick}, testRules)
	assert.Equal(t, 5, s.Countdown)
}

func TestStopDiscardsState(t *testing.T) {
	for _, phase := range []string{"preview", "present", "paused", "awaiting"} {
		t.Run(phase, func(t *testing.T) {
			var s State
			switch phase {
			case "awaiting":
				s = NewOnDemand([]string{"ear", "nose"}, true)
			default:
				s = NewPregenerated(twoPairs(), Rules{PreviewTicks: 1, PresentTicks: 3})
				if phase == "present" {
					s = Reduce(s, Event{Kind: Tick}, testRules)
				}
				if phase == "paused" {
					s = Reduce(s, Event{Kind: Pause}, testRules)
				}
			}

			s = Reduce(s, Event{Kind: Stop}, testRules)
			assert.False(t, s.Active())
			assert.Equal(t, OutcomeStopped, s.Outcome)
			assert.False(t, s.HasCurrent)
			assert.Nil(t, s.Pairs)
			assert.Nil(t, s.Pool)
			assert.False(t, s.Paused)
		})
	}
}

func TestIdleIgnoresEvents(t *testing.T) {
	idle := State{Outcome: OutcomeCompleted}
	for _, k := range []Kind{Tick, Pause, Resume, Stop, Skip, PairAccepted, PairRejected} {
		got := Reduce(idle, Event{Kind: k, Pair: Pair{First: "a", Second: "b"}}, testRules)
		assert.Equal(t, idle, got, k.String())
	}
}

func TestSkip(t *testing.T) {
	s := NewPregenerated(twoPairs(), testRules)
	s = Reduce(s, Event{Kind: Skip}, testRules)
	assert.Equal(t, PhasePreview, s.Phase)
	assert.Equal(t, "hand", s.Current.First)
	assert.Equal(t, 8, s.Countdown)

	s = Reduce(s, Event{Kind: Skip}, testRules)
	assert.Equal(t, OutcomeCompleted, s.Outcome)

	// nothing to skip while a pair is being requested
	a := NewOnDemand([]string{"ear", "nose"}, false)
	assert.Equal(t, a, Reduce(a, Event{Kind: Skip}, testRules))
}

func TestOnDemandAcceptAndAdvance(t *testing.T) {
	r := Rules{PreviewTicks: 1, PresentTicks: 1, MaxAttempts: 3}
	s := NewOnDemand([]string{"ear", "nose", "hand", "leg"}, true)
	require.Equal(t, PhaseAwaiting, s.Phase)
	assert.False(t, s.HasCurrent)

	s = Reduce(s, Event{Kind: PairAccepted, Pair: Pair{First: "ear", Second: "nose", Sentence: "x"}}, r)
	assert.Equal(t, PhasePreview, s.Phase)
	assert.Equal(t, []string{"hand", "leg"}, s.Pool)
	assert.Equal(t, 1, s.Presented)

	s = Reduce(s, Event{Kind: Tick}, r)
	s = Reduce(s, Event{Kind: Tick}, r)
	assert.Equal(t, PhaseAwaiting, s.Phase)
	assert.Equal(t, 0, s.Countdown)
	assert.Equal(t, "ear", s.Current.First, "displayed pair is kept while awaiting")

	s = Reduce(s, Event{Kind: PairAccepted, Pair: Pair{First: "hand", Second: "leg", Sentence: "y"}}, r)
	assert.Empty(t, s.Pool)

	s = Reduce(s, Event{Kind: Tick}, r)
	s = Reduce(s, Event{Kind: Tick}, r)
	assert.False(t, s.Active())
	assert.Equal(t, OutcomeCompleted, s.Outcome)
}

func TestOnDemandKeepsPoolWithoutRemoval(t *testing.T) {
	r := Rules{PreviewTicks: 1, PresentTicks: 1}
	s := NewOnDemand([]string{"ear", "nose"}, false)

	for i := 0; i < 5; i++ {
		s = Reduce(s, Event{Kind: PairAccepted, Pair: Pair{First: "ear", Second: "nose", Sentence: "x"}}, r)
		s = Reduce(s, Event{Kind: Tick}, r)
		s = Reduce(s, Event{Kind: Tick}, r)
		require.Equal(t, PhaseAwaiting, s.Phase)
	}
	assert.Len(t, s.Pool, 2)
	assert.Equal(t, 5, s.Presented)
}

func TestRejectBackoffAndCap(t *testing.T) {
	r := Rules{PreviewTicks: 1, PresentTicks: 1, MaxAttempts: 4, MaxBackoffTicks: 2}
	s := NewOnDemand([]string{"ear", "nose"}, true)

	s = Reduce(s, Event{Kind: PairRejected}, r)
	assert.Equal(t, 1, s.Failures)
	assert.Equal(t, 1, s.Countdown)

	s = Reduce(s, Event{Kind: Tick}, r)
	assert.Equal(t, 0, s.Countdown)
	assert.Equal(t, PhaseAwaiting, s.Phase)

	s = Reduce(s, Event{Kind: PairRejected}, r)
	assert.Equal(t, 2, s.Countdown)
	s = Reduce(s, Event{Kind: PairRejected}, r)
	assert.Equal(t, 2, s.Countdown, "backoff is capped")

	s = Reduce(s, Event{Kind: PairRejected}, r)
	assert.False(t, s.Active())
	assert.Equal(t, OutcomeFailed, s.Outcome)
	assert.Equal(t, ReasonNoValidPair, s.Reason)
}

func TestAcceptResetsFailures(t *testing.T) {
	r := Rules{PreviewTicks: 1, PresentTicks: 1, MaxAttempts: 3}
	s := NewOnDemand([]string{"ear", "nose", "hand"}, false)

	s = Reduce(s, Event{Kind: PairRejected}, r)
	s = Reduce(s, Event{Kind: PairRejected}, r)
	require.Equal(t, 2, s.Failures)

	s = Reduce(s, Event{Kind: PairAccepted, Pair: Pair{First: "ear", Second: "nose", Sentence: "x"}}, r)
	assert.Equal(t, 0, s.Failures)
}

func TestAcceptIgnoredOutsideAwaiting(t *testing.T) {
	s := NewPregenerated(twoPairs(), testRules)
	got := Reduce(s, Event{Kind: PairAccepted, Pair: Pair{First: "x", Second: "y"}}, testRules)
	assert.Equal(t, s, got)
	got = Reduce(s, Event{Kind: PairRejected}, testRules)
	assert.Equal(t, s, got)
}

func TestBackoff(t *testing.T) {
	tests := []struct {
		failures, max, want int
	}{
		{0, 8, 0},
		{1, 8, 1},
		{2, 8, 2},
		{3, 8, 4},
		{4, 8, 8},
		{5, 8, 8},
		{5, 0, 16},
		{100, 0, 1 << 30},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Backoff(tt.failures, tt.max), "Backoff(%d, %d)", tt.failures, tt.max)
	}
}

func TestNewPregeneratedEmpty(t *testing.T) {
	s := NewPregenerated(nil, testRules)
	assert.False(t, s.Active())
	assert.Equal(t, OutcomeCompleted, s.Outcome)
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "pregenerated", ModePregenerated.String())
	assert.Equal(t, "ondemand", ModeOnDemand.String())
	assert.Equal(t, "awaiting", PhaseAwaiting.String())
	assert.Equal(t, "failed", OutcomeFailed.String())
	assert.Equal(t, "pair_rejected", PairRejected.String())

	m, err := ParseMode("On-Demand")
	require.NoError(t, err)
	assert.Equal(t, ModeOnDemand, m)
	_, err = ParseMode("random")
	assert.Error(t, err)
}
