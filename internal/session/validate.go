package session

import (
	"fmt"
	"strings"

	"codeberg.org/snonux/theni/internal/generator"
	"codeberg.org/snonux/theni/internal/vocab"
)

// Reason classifies why a generator reply was not used.
type Reason int

const (
	ReasonUnavailable Reason = iota + 1
	ReasonMalformed
	ReasonUnknownWord
	ReasonDuplicateWord
	ReasonConsumed
	ReasonMissingImage
	ReasonEmptySentence
)

func (r Reason) String() string {
	switch r {
	case ReasonUnavailable:
		return "unavailable"
	case ReasonMalformed:
		return "malformed"
	case ReasonUnknownWord:
		return "unknown_word"
	case ReasonDuplicateWord:
		return "duplicate_word"
	case ReasonConsumed:
		return "consumed"
	case ReasonMissingImage:
		return "missing_image"
	case ReasonEmptySentence:
		return "empty_sentence"
	default:
		return fmt.Sprintf("Reason(%d)", int(r))
	}
}

// Rejection is returned when a generator reply cannot be shown.
type Rejection struct {
	Reason Reason
	Detail string
	Err    error
}

func (r *Rejection) Error() string {
	msg := "pair rejected: " + r.Reason.String()
	if r.Detail != "" {
		msg += ": " + r.Detail
	}
	if r.Err != nil {
		msg += ": " + r.Err.Error()
	}
	return msg
}

func (r *Rejection) Unwrap() error {
	return r.Err
}

// Catalog is what Validate needs to know about the picture library.
type Catalog interface {
	Contains(word string) bool
	HasImageFile(word string) bool
}

// Validate parses a raw generator reply and checks it against the catalog.
// When pool is non-nil both words must also still be in it.
func Validate(raw string, catalog Catalog, pool map[string]bool) (Pair, error) {
	s, err := generator.Parse(raw)
	if err != nil {
		return Pair{}, &Rejection{Reason: ReasonMalformed, Err: err}
	}

	first, second := vocab.Normalize(s.First), vocab.Normalize(s.Second)
	for _, w := range []string{first, second} {
		if !catalog.Contains(w) {
			return Pair{}, &Rejection{Reason: ReasonUnknownWord, Detail: fmt.Sprintf("%q", w)}
		}
	}
	if first == second {
		return Pair{}, &Rejection{Reason: ReasonDuplicateWord, Detail: fmt.Sprintf("%q", first)}
	}
	if pool != nil {
		for _, w := range []string{first, second} {
			if !pool[w] {
				return Pair{}, &Rejection{Reason: ReasonConsumed, Detail: fmt.Sprintf("%q", w)}
			}
		}
	}
	for _, w := range []string{first, second} {
		if !catalog.HasImageFile(w) {
			return Pair{}, &Rejection{Reason: ReasonMissingImage, Detail: fmt.Sprintf("%q", w)}
		}
	}
	if strings.TrimSpace(s.Sentence) == "" {
		return Pair{}, &Rejection{Reason: ReasonEmptySentence}
	}

	return Pair{First: first, Second: second, Sentence: s.Sentence}, nil
}
