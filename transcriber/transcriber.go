// Package transcriber turns a buffer of 16 kHz mono samples into text using a
// local speech-to-text engine.
package transcriber

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tale/config"
)

var ErrUnavailable = errors.New("engine not available in this build")

type Segment struct {
	Text  string
	Start time.Duration
	End   time.Duration
}

type Result struct {
	Text     string
	Segments []Segment
	Duration time.Duration // time spent in the engine
}

// Transcriber is a speech-to-text engine. Implementations must honor ctx
// cancellation and be safe for use from one goroutine at a time.
type Transcriber interface {
	Name() string
	Transcribe(ctx context.Context, samples []float32, lang string) (Result, error)
	Close() error
}

// New builds the engine selected by cfg.Mode.
func New(cfg config.EngineConfig) (Transcriber, error) {
	switch cfg.Mode {
	case config.EngineWhisper:
		return NewWhisper(cfg.ModelPath, cfg.Threads)
	case config.EngineExec:
		return NewExec(cfg.Command, cfg.ModelPath)
	case config.EngineMock:
		return NewMock(cfg.MockText, nil), nil
	}
	return nil, fmt.Errorf("unknown engine mode %q", cfg.Mode)
}
