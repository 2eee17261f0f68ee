package internal

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
	"unicode"
)

// GenerateNoteID creates a stable-per-run identifier for an exported word.
// Format: epochMillis_md5(word)[:8]
func GenerateNoteID(word string, now time.Time) string {
	hash := md5.Sum([]byte(word))
	return fmt.Sprintf("%d_%s", now.UnixMilli(), hex.EncodeToString(hash[:])[:8])
}

// SanitizeFilename creates a safe filename from a string. Letters of any
// script survive so Tamil words stay readable on disk.
func SanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.Is(unicode.Mn, r), unicode.Is(unicode.Mc, r):
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
