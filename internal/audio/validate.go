package audio

import (
	"fmt"
	"net/http"
	"strings"

	"codeberg.org/snonux/theni/internal/lang"
)

// ValidateText checks that text is non-empty and written in the language's script
func ValidateText(text string, l lang.Language) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text cannot be empty")
	}

	if !l.InScript(text) {
		return fmt.Errorf("text must contain %s characters", l.Name)
	}

	return nil
}

// ContentType sniffs the MIME type of an audio payload. Bare MP3 frames are
// not recognised by the standard sniffer, so unknown data is served as MP3.
func ContentType(data []byte) string {
	ct := http.DetectContentType(data)
	if strings.HasPrefix(ct, "audio/") {
		return ct
	}
	return "audio/mpeg"
}
