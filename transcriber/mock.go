package transcriber

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Mock returns a fixed text (or error) for every call and records what it
// was asked to transcribe.
type Mock struct {
	text  string
	err   error
	delay time.Duration

	mu       sync.Mutex
	calls    int
	lastLang string
	lastLen  int
}

func NewMock(text string, err error) *Mock {
	return &Mock{text: text, err: err}
}

// WithDelay makes Transcribe block for d, or until ctx is done.
func (m *Mock) WithDelay(d time.Duration) *Mock {
	m.delay = d
	return m
}

func (m *Mock) Name() string { return "mock" }

func (m *Mock) Transcribe(ctx context.Context, samples []float32, lang string) (Result, error) {
	m.mu.Lock()
	m.calls++
	m.lastLang = lang
	m.lastLen = len(samples)
	m.mu.Unlock()

	start := time.Now()
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
	}
	if m.err != nil {
		return Result{}, fmt.Errorf("mock transcriber error: %w", m.err)
	}
	return Result{
		Text:     m.text,
		Segments: []Segment{{Text: m.text, End: time.Duration(len(samples)) * time.Second / 16000}},
		Duration: time.Since(start),
	}, nil
}

func (m *Mock) Close() error { return nil }

func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *Mock) LastLanguage() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastLang
}

func (m *Mock) LastSamples() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastLen
}
