package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// PNGHeader is enough of a PNG file for content sniffing.
var PNGHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

// CreateTestFile creates a test file with content
func CreateTestFile(t *testing.T, path string, content []byte) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create directory for test file: %v", err)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", path, err)
	}
}

// CreateImageDir creates a temporary images folder holding the given file
// names, each with a small PNG header as content.
func CreateImageDir(t *testing.T, names ...string) string {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "images")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create image directory: %v", err)
	}
	for _, name := range names {
		CreateTestFile(t, filepath.Join(dir, name), PNGHeader)
	}
	return dir
}

// WriteWordList writes a plain word list (one entry per line) into dir and
// returns its path.
func WriteWordList(t *testing.T, dir string, lines ...string) string {
	t.Helper()

	path := filepath.Join(dir, "words.txt")
	CreateTestFile(t, path, []byte(strings.Join(lines, "\n")+"\n"))
	return path
}

// Words returns n distinct synthetic words with matching image file names.
func Words(n int) (words []string, files []string) {
	for i := 0; i < n; i++ {
		w := "word" + strings.Repeat("x", i/26) + string(rune('a'+i%26))
		words = append(words, w)
		files = append(files, w+".png")
	}
	return words, files
}

// AssertFileExists checks if a file exists
func AssertFileExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Expected file to exist: %s", path)
	}
}

// AssertFileNotExists checks if a file does not exist
func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); err == nil {
		t.Errorf("Expected file to not exist: %s", path)
	}
}

// AssertFileContains checks if a file contains a substring
func AssertFileContains(t *testing.T, path string, substring string) {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}

	if !strings.Contains(string(content), substring) {
		t.Errorf("File %s does not contain expected substring: %q", path, substring)
	}
}

// CaptureOutput captures stdout during test execution
func CaptureOutput(t *testing.T, f func()) string {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	os.Stdout = w

	done := make(chan []byte)
	go func() {
		var buf []byte
		chunk := make([]byte, 4096)
		for {
			n, err := r.Read(chunk)
			buf = append(buf, chunk[:n]...)
			if err != nil {
				break
			}
		}
		done <- buf
	}()

	f()

	_ = w.Close()
	os.Stdout = old
	return string(<-done)
}
