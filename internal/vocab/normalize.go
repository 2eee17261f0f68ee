package vocab

import (
	"path/filepath"
	"strings"
)

// Extensions accepted as pictures, compared case-insensitively.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// Normalize trims surrounding whitespace and lower-cases a word.
func Normalize(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// IsImageFile reports whether name carries an allowed picture extension.
func IsImageFile(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// ImageKey returns the normalized basename of an image file, or "" when the
// file is not an allowed picture.
func ImageKey(name string) string {
	if !IsImageFile(name) {
		return ""
	}
	base := filepath.Base(name)
	return Normalize(strings.TrimSuffix(base, filepath.Ext(base)))
}
