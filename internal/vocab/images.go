package vocab

import (
	"errors"
	"fmt"
	"os"
)

// ErrImageDirMissing is returned when the images folder is absent or not a
// directory. No session can run without it.
var ErrImageDirMissing = errors.New("image directory not found")

// ListImages returns the names of the regular files in dir. Filtering by
// extension happens in Reconcile.
func ListImages(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrImageDirMissing, dir)
		}
		return nil, fmt.Errorf("failed to stat image directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrImageDirMissing, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read image directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}
