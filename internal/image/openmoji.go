package image

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"
)

const (
	// DefaultOpenMojiURL serves the 64x64 colour OpenMoji icons.
	DefaultOpenMojiURL = "https://raw.githubusercontent.com/hfg-gmuend/openmoji/master/color/64x64/"
	openMojiTimeout    = 15 * time.Second
)

// defaultCodepoints maps the built-in body-part words to their icons.
var defaultCodepoints = map[string]string{
	"ear":  "1F442",
	"nose": "1F443",
	"head": "1F466",
	"eye":  "1F441",
	"hand": "270B",
	"leg":  "1F9B5",
	"body": "1F9CD",
}

// Source fetches the picture for a word.
type Source interface {
	Fetch(ctx context.Context, word string) (io.ReadCloser, error)
	// Words lists every word the source has a picture for.
	Words() []string
	Name() string
}

// OpenMoji downloads icons from the OpenMoji repository.
type OpenMoji struct {
	baseURL    string
	codepoints map[string]string
	httpClient *http.Client
}

// NewOpenMoji creates a client for baseURL; empty means DefaultOpenMojiURL.
func NewOpenMoji(baseURL string) *OpenMoji {
	if baseURL == "" {
		baseURL = DefaultOpenMojiURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	cp := make(map[string]string, len(defaultCodepoints))
	for k, v := range defaultCodepoints {
		cp[k] = v
	}
	return &OpenMoji{
		baseURL:    baseURL,
		codepoints: cp,
		httpClient: &http.Client{Timeout: openMojiTimeout},
	}
}

// Codepoint returns the icon id for word.
func (o *OpenMoji) Codepoint(word string) (string, bool) {
	cp, ok := o.codepoints[strings.ToLower(strings.TrimSpace(word))]
	return cp, ok
}

// Words returns the mapped words in sorted order.
func (o *OpenMoji) Words() []string {
	words := make([]string, 0, len(o.codepoints))
	for w := range o.codepoints {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// Fetch downloads the icon for word. The caller closes the reader.
func (o *OpenMoji) Fetch(ctx context.Context, word string) (io.ReadCloser, error) {
	cp, ok := o.Codepoint(word)
	if !ok {
		return nil, &DownloadError{Word: word, Err: ErrNoPicture}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+cp+".png", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, &DownloadError{Word: word, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &DownloadError{Word: word, Status: resp.StatusCode}
	}
	return resp.Body, nil
}

// Name returns "openmoji".
func (o *OpenMoji) Name() string {
	return "openmoji"
}
