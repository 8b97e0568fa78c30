//go:build whisper

package transcriber

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	whisper "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
)

// Whisper runs whisper.cpp in-process. The model is loaded once; every call
// gets a fresh context.
type Whisper struct {
	mu      sync.Mutex
	model   whisper.Model
	threads int
}

func NewWhisper(modelPath string, threads int) (Transcriber, error) {
	model, err := whisper.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load whisper model %s: %w", modelPath, err)
	}
	return &Whisper{model: model, threads: threads}, nil
}

func (w *Whisper) Name() string { return "whisper" }

func (w *Whisper) Transcribe(ctx context.Context, samples []float32, lang string) (Result, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.model == nil {
		return Result{}, errors.New("whisper model closed")
	}
	wctx, err := w.model.NewContext()
	if err != nil {
		return Result{}, fmt.Errorf("whisper context: %w", err)
	}

	wctx.SetTranslate(false)
	if w.threads > 0 {
		wctx.SetThreads(uint(w.threads))
	}
	if lang == "" {
		lang = "auto"
	}
	if err := wctx.SetLanguage(lang); err != nil {
		return Result{}, fmt.Errorf("whisper language %q: %w", lang, err)
	}

	start := time.Now()
	// The encoder-begin callback aborts the run once ctx is cancelled.
	keepGoing := func() bool { return ctx.Err() == nil }
	if err := wctx.Process(samples, keepGoing, nil, nil); err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return Result{}, fmt.Errorf("whisper process: %w", err)
	}
	if ctx.Err() != nil {
		return Result{}, ctx.Err()
	}

	var res Result
	var text strings.Builder
	for {
		seg, err := wctx.NextSegment()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Result{}, fmt.Errorf("whisper segment: %w", err)
		}
		text.WriteString(seg.Text)
		res.Segments = append(res.Segments, Segment{Text: seg.Text, Start: seg.Start, End: seg.End})
	}
	res.Text = strings.TrimSpace(text.String())
	res.Duration = time.Since(start)
	return res, nil
}

func (w *Whisper) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.model == nil {
		return nil
	}
	err := w.model.Close()
	w.model = nil
	return err
}
