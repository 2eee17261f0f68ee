package testutil

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrScripted is returned by fakes configured to fail.
var ErrScripted = errors.New("scripted failure")

// FakeGenerator returns scripted raw suggestions in order. Once the script
// is exhausted the last entry repeats. A nil script entry with Err set makes
// that call fail.
type FakeGenerator struct {
	Responses []FakeResponse
	// Delay holds every call back, or until ctx is done.
	Delay time.Duration

	mu         sync.Mutex
	calls      int
	candidates [][]string
}

// FakeResponse is one scripted generator answer.
type FakeResponse struct {
	Raw string
	Err error
}

// NewFakeGenerator scripts successful raw responses.
func NewFakeGenerator(raw ...string) *FakeGenerator {
	g := &FakeGenerator{}
	for _, r := range raw {
		g.Responses = append(g.Responses, FakeResponse{Raw: r})
	}
	return g
}

// FailingGenerator fails every call.
func FailingGenerator() *FakeGenerator {
	return &FakeGenerator{Responses: []FakeResponse{{Err: ErrScripted}}}
}

// Suggest implements the generator contract.
func (g *FakeGenerator) Suggest(ctx context.Context, candidates []string) (string, error) {
	g.mu.Lock()
	cp := make([]string, len(candidates))
	copy(cp, candidates)
	g.candidates = append(g.candidates, cp)
	g.calls++
	idx, delay := g.calls-1, g.Delay
	g.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(g.Responses) == 0 {
		return "", ErrScripted
	}
	if idx >= len(g.Responses) {
		idx = len(g.Responses) - 1
	}
	r := g.Responses[idx]
	return r.Raw, r.Err
}

// Name returns "fake".
func (g *FakeGenerator) Name() string {
	return "fake"
}

// Calls returns how many times Suggest was called.
func (g *FakeGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// Candidates returns the candidate list passed to the n-th call (zero-based).
func (g *FakeGenerator) Candidates(n int) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if n < 0 || n >= len(g.candidates) {
		return nil
	}
	return g.candidates[n]
}

// FakeAudioProvider returns fixed audio bytes or a fixed error.
type FakeAudioProvider struct {
	Data      []byte
	Err       error
	Available bool

	mu    sync.Mutex
	texts []string
}

// NewFakeAudioProvider returns an available provider producing data.
func NewFakeAudioProvider(data []byte) *FakeAudioProvider {
	return &FakeAudioProvider{Data: data, Available: true}
}

// Synthesize records text and returns the configured result.
func (p *FakeAudioProvider) Synthesize(ctx context.Context, text string) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.texts = append(p.texts, text)
	if p.Err != nil {
		return nil, p.Err
	}
	return p.Data, nil
}

// Name returns "fake".
func (p *FakeAudioProvider) Name() string {
	return "fake"
}

// IsAvailable reports the configured availability.
func (p *FakeAudioProvider) IsAvailable() error {
	if !p.Available {
		return ErrScripted
	}
	return nil
}

// Texts returns everything passed to Synthesize.
func (p *FakeAudioProvider) Texts() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.texts))
	copy(out, p.texts)
	return out
}

// MP3Data is a minimal MP3 frame header.
func MP3Data() []byte {
	return []byte{0xFF, 0xFB, 0x90, 0x00, 0x00, 0x00, 0x00, 0x00}
}
