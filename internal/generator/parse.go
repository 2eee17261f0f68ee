package generator

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed marks a reply that is not "word1 | word2 | sentence".
var ErrMalformed = errors.New("malformed suggestion")

// Suggestion is a parsed generator reply. Fields are trimmed but otherwise
// unvalidated.
type Suggestion struct {
	First    string
	Second   string
	Sentence string
}

// Parse strictly splits a reply into its three fields. Surrounding code
// fences and quotes are tolerated; anything else that does not yield
// exactly three fields is rejected.
func Parse(raw string) (Suggestion, error) {
	text := stripDecoration(raw)
	if text == "" {
		return Suggestion{}, fmt.Errorf("%w: empty reply", ErrMalformed)
	}

	fields := strings.Split(text, "|")
	if len(fields) != 3 {
		return Suggestion{}, fmt.Errorf("%w: want 3 fields, got %d", ErrMalformed, len(fields))
	}

	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	if strings.ContainsAny(fields[0], "\r\n") || strings.ContainsAny(fields[1], "\r\n") {
		return Suggestion{}, fmt.Errorf("%w: word fields span lines", ErrMalformed)
	}

	return Suggestion{
		First:    fields[0],
		Second:   fields[1],
		Sentence: strings.Join(strings.Fields(fields[2]), " "),
	}, nil
}

func stripDecoration(raw string) string {
	text := strings.TrimSpace(raw)

	if strings.HasPrefix(text, "```") {
		// drop the opening fence line, which may carry a language tag
		if _, rest, ok := strings.Cut(text, "\n"); ok {
			text = rest
		} else {
			text = strings.TrimPrefix(text, "```")
		}
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		text = strings.TrimSpace(text)
	}

	for _, q := range []string{"\"", "'", "`"} {
		if len(text) >= 2 && strings.HasPrefix(text, q) && strings.HasSuffix(text, q) {
			text = strings.TrimSpace(text[1 : len(text)-1])
		}
	}

	return text
}
