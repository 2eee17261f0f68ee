package session

// Kind identifies an event.
type Kind int

const (
	Tick Kind = iota
	Pause
	Resume
	Stop
	Skip
	PairAccepted
	PairRejected
)

func (k Kind) String() string {
	switch k {
	case Tick:
		return "tick"
	case Pause:
		return "pause"
	case Resume:
		return "resume"
	case Stop:
		return "stop"
	case Skip:
		return "skip"
	case PairAccepted:
		return "pair_accepted"
	case PairRejected:
		return "pair_rejected"
	default:
		return "unknown"
	}
}

// Event drives Reduce. Pair is set for PairAccepted.
type Event struct {
	Kind Kind
	Pair Pair
}

// Reduce returns the state that follows s after e. It has no side effects
// and never modifies s's slices in place.
func Reduce(s State, e Event, r Rules) State {
	if !s.Active() {
		return s
	}

	switch e.Kind {
	case Stop:
		return State{Mode: s.Mode, Outcome: OutcomeStopped, Presented: s.Presented}

	case Pause:
		s.Paused = true
		return s

	case Resume:
		s.Paused = false
		return s

	case Tick:
		if s.Paused {
			return s
		}
		return tick(s, r)

	case Skip:
		if s.Phase == PhasePreview || s.Phase == PhasePresent {
			return advance(s, r)
		}
		return s

	case PairAccepted:
		if s.Phase != PhaseAwaiting {
			return s
		}
		return accept(s, e.Pair, r)

	case PairRejected:
		if s.Phase != PhaseAwaiting {
			return s
		}
		return reject(s, r)
	}

	return s
}

func tick(s State, r Rules) State {
	switch s.Phase {
	case PhasePreview:
		if s.Countdown > 1 {
			s.Countdown--
			return s
		}
		s.Phase = PhasePresent
		s.Countdown = max(r.PresentTicks, 1)
		return s

	case PhasePresent:
		if s.Countdown > 1 {
			s.Countdown--
			return s
		}
		return advance(s, r)

	case PhaseAwaiting:
		if s.Countdown > 0 {
			s.Countdown--
		}
		return s
	}
	return s
}

// advance moves past the current pair.
func advance(s State, r Rules) State {
	if s.Mode == ModePregenerated {
		next := s.Index + 1
		if next >= len(s.Pairs) {
			return State{Mode: s.Mode, Outcome: OutcomeCompleted, Presented: s.Presented}
		}
		s.Index = next
		s.Current = s.Pairs[next]
		s.HasCurrent = true
		s.Presented++
		s.Phase = PhasePreview
		s.Countdown = max(r.PreviewTicks, 1)
		return s
	}

	if s.RemoveConsumed && len(s.Pool) < 2 {
		return State{Mode: s.Mode, Outcome: OutcomeCompleted, Presented: s.Presented}
	}
	s.Phase = PhaseAwaiting
	s.Countdown = 0
	return s
}

func accept(s State, p Pair, r Rules) State {
	if s.RemoveConsumed {
		pool := make([]string, 0, len(s.Pool))
		for _, w := range s.Pool {
			if w != p.First && w != p.Second {
				pool = append(pool, w)
			}
		}
		s.Pool = pool
	}
	s.Current = p
	s.HasCurrent = true
	s.Presented++
	s.Failures = 0
	s.Phase = PhasePreview
	s.Countdown = max(r.PreviewTicks, 1)
	return s
}

func reject(s State, r Rules) State {
	s.Failures++
	if r.MaxAttempts > 0 && s.Failures >= r.MaxAttempts {
		return State{
			Mode:      s.Mode,
			Outcome:   OutcomeFailed,
			Reason:    ReasonNoValidPair,
			Presented: s.Presented,
		}
	}
	s.Countdown = Backoff(s.Failures, r.MaxBackoffTicks)
	return s
}

// Backoff returns the ticks to wait after the given number of consecutive
// failures: 1, 2, 4 and so on, capped at maxTicks when maxTicks > 0.
func Backoff(failures, maxTicks int) int {
	if failures < 1 {
		return 0
	}
	shift := failures - 1
	if shift > 30 {
		shift = 30
	}
	n := 1 << shift
	if maxTicks > 0 && n > maxTicks {
		return maxTicks
	}
	return n
}
