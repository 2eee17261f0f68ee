package image

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codeberg.org/snonux/theni/internal/testutil"
	"codeberg.org/snonux/theni/internal/vocab"
)

func iconServer(t *testing.T, body []byte) (*httptest.Server, *[]string) {
	t.Helper()
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/1F443.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv, &paths
}

func TestOpenMojiCodepoints(t *testing.T) {
	o := NewOpenMoji("")

	tests := map[string]string{
		"ear":  "1F442",
		"Nose": "1F443",
		"head": "1F466",
		"eye":  "1F441",
		"hand": "270B",
		"leg":  "1F9B5",
		"body": "1F9CD",
	}
	for word, want := range tests {
		got, ok := o.Codepoint(word)
		if !ok || got != want {
			t.Errorf("Codepoint(%q) = %q, %v; want %q", word, got, ok, want)
		}
	}
	if _, ok := o.Codepoint("mouth"); ok {
		t.Error("Codepoint(mouth) should not be mapped")
	}
	if got := len(o.Words()); got != 7 {
		t.Errorf("Words() has %d entries, want 7", got)
	}
}

func TestDownloadAll(t *testing.T) {
	srv, paths := iconServer(t, testutil.PNGHeader)
	dir := filepath.Join(t.TempDir(), "images")

	d := NewDownloader(NewOpenMoji(srv.URL), &DownloadOptions{OutputDir: dir, MaxSizeBytes: 1024}, nil)
	results, err := d.DownloadAll(context.Background(), []string{"ear", "nose", "mouth"})
	if err != nil {
		t.Fatalf("DownloadAll() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}

	if results[0].Err != nil {
		t.Errorf("ear: unexpected error %v", results[0].Err)
	}
	testutil.AssertFileExists(t, filepath.Join(dir, "ear.png"))

	var dlErr *DownloadError
	if !errors.As(results[1].Err, &dlErr) || dlErr.Status != http.StatusNotFound {
		t.Errorf("nose: error = %v, want DownloadError with status 404", results[1].Err)
	}
	testutil.AssertFileNotExists(t, filepath.Join(dir, "nose.png"))

	if !errors.Is(results[2].Err, ErrNoPicture) {
		t.Errorf("mouth: error = %v, want ErrNoPicture", results[2].Err)
	}

	if strings.Join(*paths, ",") != "/1F442.png,/1F443.png" {
		t.Errorf("requested paths = %v", *paths)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("image dir holds %d entries, want only ear.png", len(entries))
	}
}

func TestDownloadAllDefaultsToEveryWord(t *testing.T) {
	srv, _ := iconServer(t, testutil.PNGHeader)
	dir := t.TempDir()

	d := NewDownloader(NewOpenMoji(srv.URL), &DownloadOptions{OutputDir: dir}, nil)
	results, err := d.DownloadAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("DownloadAll() error = %v", err)
	}
	if len(results) != 7 {
		t.Errorf("got %d results, want 7", len(results))
	}
}

func TestDownloadKeepsExisting(t *testing.T) {
	srv, paths := iconServer(t, testutil.PNGHeader)
	dir := t.TempDir()
	existing := filepath.Join(dir, "ear.png")
	testutil.CreateTestFile(t, existing, []byte("mine"))

	d := NewDownloader(NewOpenMoji(srv.URL), &DownloadOptions{OutputDir: dir}, nil)
	results, err := d.DownloadAll(context.Background(), []string{"ear"})
	if err != nil {
		t.Fatalf("DownloadAll() error = %v", err)
	}
	if !results[0].Skipped || results[0].Err != nil {
		t.Errorf("result = %+v, want skipped", results[0])
	}
	if len(*paths) != 0 {
		t.Errorf("existing picture was downloaded again")
	}
	testutil.AssertFileContains(t, existing, "mine")

	d.options.OverwriteExisting = true
	if _, err := d.Download(context.Background(), "ear"); err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	data, _ := os.ReadFile(existing)
	if !bytes.Equal(data, testutil.PNGHeader) {
		t.Error("picture was not overwritten")
	}
}

func TestDownloadSizeLimit(t *testing.T) {
	srv, _ := iconServer(t, bytes.Repeat([]byte{1}, 2048))
	dir := t.TempDir()

	d := NewDownloader(NewOpenMoji(srv.URL), &DownloadOptions{OutputDir: dir, MaxSizeBytes: 1024}, nil)
	_, err := d.Download(context.Background(), "ear")
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("Download() error = %v, want ErrTooLarge", err)
	}
	testutil.AssertFileNotExists(t, filepath.Join(dir, "ear.png"))

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("temporary file left behind: %v", entries)
	}
}

func TestOpenMojiWordsInFallbackVocabulary(t *testing.T) {
	fallback := make(map[string]bool)
	for _, w := range vocab.FallbackWords() {
		fallback[w] = true
	}
	for _, w := range NewOpenMoji("").Words() {
		if !fallback[w] {
			t.Errorf("downloadable word %q missing from the fallback vocabulary", w)
		}
	}
}
