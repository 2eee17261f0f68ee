package vocab

import (
	"os"
	"path/filepath"
	"sort"
)

// Library is the result of reconciling a vocabulary with an image folder.
// It is immutable once built.
type Library struct {
	dir      string
	words    []string
	valid    map[string]string
	images   map[string]string
	missing  []string
	warnings []string
}

// Reconcile intersects the normalized vocabulary with the normalized image
// basenames. When two files normalize to the same key, the lexicographically
// smallest file name is kept.
func Reconcile(vocabulary []string, imageFiles []string) *Library {
	files := make([]string, len(imageFiles))
	copy(files, imageFiles)
	sort.Strings(files)

	images := make(map[string]string, len(files))
	for _, f := range files {
		key := ImageKey(f)
		if key == "" {
			continue
		}
		if _, seen := images[key]; !seen {
			images[key] = f
		}
	}

	valid := make(map[string]string)
	seenMissing := make(map[string]bool)
	var missing []string
	for _, v := range vocabulary {
		w := Normalize(v)
		if w == "" {
			continue
		}
		if f, ok := images[w]; ok {
			valid[w] = f
			continue
		}
		if !seenMissing[w] {
			seenMissing[w] = true
			missing = append(missing, w)
		}
	}

	words := make([]string, 0, len(valid))
	for w := range valid {
		words = append(words, w)
	}
	sort.Strings(words)
	sort.Strings(missing)

	return &Library{
		words:   words,
		valid:   valid,
		images:  images,
		missing: missing,
	}
}

// Words returns the valid words in sorted order. The slice is a copy.
func (l *Library) Words() []string {
	out := make([]string, len(l.words))
	copy(out, l.words)
	return out
}

// Len returns the number of valid words.
func (l *Library) Len() int {
	return len(l.words)
}

// Contains reports whether word, after normalization, is a valid word.
func (l *Library) Contains(word string) bool {
	_, ok := l.valid[Normalize(word)]
	return ok
}

// ImageFile returns the file name on disk for a valid word.
func (l *Library) ImageFile(word string) (string, bool) {
	f, ok := l.valid[Normalize(word)]
	return f, ok
}

// ImagePath joins the image directory with the word's file name.
func (l *Library) ImagePath(word string) (string, bool) {
	f, ok := l.ImageFile(word)
	if !ok {
		return "", false
	}
	return filepath.Join(l.dir, f), true
}

// HasImageFile re-checks that the word's picture is still a regular file on
// disk. Pictures can vanish after the library was built.
func (l *Library) HasImageFile(word string) bool {
	p, ok := l.ImagePath(word)
	if !ok {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}

// Mapping returns a copy of the word to file name map for valid words.
func (l *Library) Mapping() map[string]string {
	out := make(map[string]string, len(l.valid))
	for k, v := range l.valid {
		out[k] = v
	}
	return out
}

// Images returns a copy of every image record found, including pictures
// without a vocabulary entry.
func (l *Library) Images() map[string]string {
	out := make(map[string]string, len(l.images))
	for k, v := range l.images {
		out[k] = v
	}
	return out
}

// Missing lists vocabulary words that have no picture.
func (l *Library) Missing() []string {
	out := make([]string, len(l.missing))
	copy(out, l.missing)
	return out
}

// Warnings lists data-quality problems found while loading.
func (l *Library) Warnings() []string {
	out := make([]string, len(l.warnings))
	copy(out, l.warnings)
	return out
}

// Dir returns the image directory the library was built from.
func (l *Library) Dir() string {
	return l.dir
}
