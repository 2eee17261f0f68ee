// Package anki exports the valid words as an Anki deck: the picture on the
// front of each card, the word on the back.
package anki

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"

	"codeberg.org/snonux/theni/internal/vocab"
)

// Card is one exported word.
type Card struct {
	Word      string
	ImageFile string // path on disk
}

// CardsFromLibrary returns a card for every valid word, sorted by word.
func CardsFromLibrary(lib *vocab.Library) []Card {
	words := lib.Words()
	cards := make([]Card, 0, len(words))
	for _, w := range words {
		path, _ := lib.ImagePath(w)
		cards = append(cards, Card{Word: w, ImageFile: path})
	}
	return cards
}

// WriteCSV writes an Anki import file with a Picture and a Word column. The
// picture files must be copied into Anki's collection.media folder
// separately.
func WriteCSV(w io.Writer, cards []Card, headers bool) error {
	writer := csv.NewWriter(w)

	if headers {
		if err := writer.Write([]string{"Picture", "Word"}); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for _, c := range cards {
		if err := writer.Write([]string{imageField(filepath.Base(c.ImageFile)), c.Word}); err != nil {
			return fmt.Errorf("failed to write card: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func imageField(name string) string {
	if name == "" || name == "." {
		return ""
	}
	return fmt.Sprintf(`<img src="%s">`, name)
}
