package session

import (
	"net/url"
)

// Snapshot is the JSON view of the session sent to the browser.
type Snapshot struct {
	Mode         string         `json:"mode"`
	Phase        string         `json:"phase"`
	Active       bool           `json:"active"`
	Paused       bool           `json:"paused"`
	Countdown    int            `json:"countdown"`
	TickMillis   int64          `json:"tickMillis"`
	Index        int            `json:"index"`
	Total        int            `json:"total"`
	Pair         *PairView      `json:"pair,omitempty"`
	Outcome      string         `json:"outcome"`
	Reason       string         `json:"reason,omitempty"`
	ValidWords   int            `json:"validWords"`
	MinWords     map[string]int `json:"minWords"`
	Warnings     []string       `json:"warnings,omitempty"`
	DefaultMode  string         `json:"defaultMode"`
	Generator    string         `json:"generator,omitempty"`
	AudioVersion int            `json:"audioVersion"`
}

// PairView is a pair as displayed. Sentence is empty during the preview.
type PairView struct {
	First       string `json:"first"`
	Second      string `json:"second"`
	FirstImage  string `json:"firstImage"`
	SecondImage string `json:"secondImage"`
	Sentence    string `json:"sentence,omitempty"`
	HasAudio    bool   `json:"hasAudio"`
}

// ImageURL is the route serving a word's picture.
func ImageURL(word string) string {
	return "/images/" + url.PathEscape(word)
}

// Snapshot describes the current state for display.
func (s *Sequencer) Snapshot() Snapshot {
	st := s.state
	snap := Snapshot{
		Mode:       st.Mode.String(),
		Phase:      st.Phase.String(),
		Active:     st.Active(),
		Paused:     st.Paused,
		Countdown:  st.Countdown,
		TickMillis: s.cfg.Tick.Milliseconds(),
		Index:      st.Presented,
		Outcome:    st.Outcome.String(),
		Reason:     st.Reason,
		ValidWords: s.lib.Len(),
		MinWords: map[string]int{
			ModePregenerated.String(): MinWords(ModePregenerated, s.cfg.Pairs),
			ModeOnDemand.String():     MinWords(ModeOnDemand, s.cfg.Pairs),
		},
		Warnings:     s.lib.Warnings(),
		DefaultMode:  s.cfg.Mode.String(),
		AudioVersion: s.audioVersion,
	}
	if s.gen != nil {
		snap.Generator = s.gen.Name()
	}
	if st.Mode == ModePregenerated {
		snap.Total = len(st.Pairs)
	}

	if st.Active() && st.HasCurrent {
		view := &PairView{
			First:       st.Current.First,
			Second:      st.Current.Second,
			FirstImage:  ImageURL(st.Current.First),
			SecondImage: ImageURL(st.Current.Second),
		}
		// awaiting keeps the previous pair on screen as it was presented
		if st.Phase == PhasePresent || st.Phase == PhaseAwaiting {
			view.Sentence = st.Current.Sentence
			if view.Sentence == "" {
				view.Sentence = Placeholder
			}
			view.HasAudio = s.audioData != nil
		}
		snap.Pair = view
	}

	return snap
}
