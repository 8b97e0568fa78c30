package main

import (
	"fmt"
	"io"
	"sync"

	"tale/log"
	"tale/session"
)

// logSink mirrors state changes and statuses into the diagnostics log so
// every front end leaves the same trail.
type logSink struct{}

func (logSink) StateChanged(s session.State) { log.Info("state: " + s.String()) }

func (logSink) Status(s session.Status, detail string) {
	if s == session.StatusFailed {
		log.Error(s.Format("en", detail))
	}
}

func (logSink) AudioLevel(float64)    {}
func (logSink) RecordingTick(float64) {}
func (logSink) LogChanged(string)     {}

func (logSink) NoVoiceWarning(on bool) {
	if on {
		log.Info("no_voice_warning")
	}
}

// consoleSink prints one line per state change and status. It backs the
// headless and test front ends.
type consoleSink struct {
	mu     sync.Mutex
	w      io.Writer
	locale string
}

func newConsoleSink(w io.Writer, locale string) *consoleSink {
	return &consoleSink{w: w, locale: locale}
}

func (c *consoleSink) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, format, args...)
}

func (c *consoleSink) StateChanged(s session.State) { c.printf("state: %s\n", s) }

func (c *consoleSink) Status(s session.Status, detail string) {
	c.printf("status: %s\n", s.Format(c.locale, detail))
}

func (c *consoleSink) AudioLevel(float64)    {}
func (c *consoleSink) RecordingTick(float64) {}
func (c *consoleSink) LogChanged(string)     {}

func (c *consoleSink) NoVoiceWarning(on bool) {
	if on {
		c.printf("warning: no voice detected\n")
	}
}
