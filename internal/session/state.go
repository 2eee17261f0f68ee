package session

import (
	"fmt"
	"strings"
)

// Mode selects how pairs are produced.
type Mode int

const (
	// ModePregenerated draws all pairs up front; no sentences are generated.
	ModePregenerated Mode = iota
	// ModeOnDemand asks the generator for one pair and sentence at a time.
	ModeOnDemand
)

func (m Mode) String() string {
	switch m {
	case ModePregenerated:
		return "pregenerated"
	case ModeOnDemand:
		return "ondemand"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts "pregenerated" or "ondemand" (also "on-demand").
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pregenerated", "pre-generated", "":
		return ModePregenerated, nil
	case "ondemand", "on-demand":
		return ModeOnDemand, nil
	default:
		return 0, fmt.Errorf("unknown session mode %q", s)
	}
}

// Phase is the sub-state of an active session.
type Phase int

const (
	PhaseIdle Phase = iota
	// PhasePreview shows the two pictures and words.
	PhasePreview
	// PhasePresent adds the sentence and audio.
	PhasePresent
	// PhaseAwaiting waits for the generator to produce a valid pair.
	PhaseAwaiting
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePreview:
		return "preview"
	case PhasePresent:
		return "present"
	case PhaseAwaiting:
		return "awaiting"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Outcome records how the last session ended.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeCompleted
	OutcomeStopped
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeCompleted:
		return "completed"
	case OutcomeStopped:
		return "stopped"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// ReasonNoValidPair is shown when the generator keeps failing.
const ReasonNoValidPair = "could not find a valid pair"

// Placeholder is the presentation text of pre-generated pairs.
const Placeholder = "Practice these words together."

// Pair is two valid words and an optional sentence using both.
type Pair struct {
	First    string
	Second   string
	Sentence string
}

// Rules are the tick-based timing and retry limits of a session.
type Rules struct {
	PreviewTicks    int
	PresentTicks    int
	MaxAttempts     int
	MaxBackoffTicks int
}

// State is the complete state of one session. The zero value is idle.
type State struct {
	Mode      Mode
	Phase     Phase
	Paused    bool
	Countdown int

	// Pre-generated sessions walk Pairs; Index points at the current pair.
	Pairs []Pair
	Index int

	Current    Pair
	HasCurrent bool
	// Presented counts pairs that have entered the preview phase.
	Presented int

	// On-demand sessions draw from Pool.
	Pool           []string
	RemoveConsumed bool
	Failures       int

	Outcome Outcome
	Reason  string
}

// Active reports whether a session is running.
func (s State) Active() bool {
	return s.Phase != PhaseIdle
}

// NewPregenerated starts a session over pairs. An empty list completes at once.
func NewPregenerated(pairs []Pair, r Rules) State {
	if len(pairs) == 0 {
		return State{Mode: ModePregenerated, Outcome: OutcomeCompleted}
	}
	return State{
		Mode:       ModePregenerated,
		Phase:      PhasePreview,
		Countdown:  r.PreviewTicks,
		Pairs:      pairs,
		Current:    pairs[0],
		HasCurrent: true,
		Presented:  1,
	}
}

// NewOnDemand starts a session that awaits its first pair from the generator.
func NewOnDemand(pool []string, removeConsumed bool) State {
	p := make([]string, len(pool))
	copy(p, pool)
	return State{
		Mode:           ModeOnDemand,
		Phase:          PhaseAwaiting,
		Pool:           p,
		RemoveConsumed: removeConsumed,
	}
}
