package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tale/beep"
	"tale/config"
	"tale/session"
)

func TestEffectsTranscript(t *testing.T) {
	beep.Disable()
	cfg := config.Default()
	cfg.Archive.Dir = t.TempDir()
	cfg.AutoPaste = true
	fx := newEffects(cfg)

	pasted := 0
	fx.paste = func() error { pasted++; return nil }

	fx.hooks().OnTranscript(session.Transcript{
		ID:        "0b8f7a4e-7f55-4d1f-9a57-3f3c1e0e2a10",
		Text:      "hei",
		Samples:   make([]float32, 1600),
		Audio:     100 * time.Millisecond,
		StartedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Copied:    true,
	})

	if fx.count() != 1 {
		t.Errorf("count = %d, want 1", fx.count())
	}
	if pasted != 1 {
		t.Errorf("paste called %d times, want 1", pasted)
	}
	entries, err := os.ReadDir(cfg.Archive.Dir)
	if err != nil {
		t.Fatal(err)
	}
	var flacs, txts int
	for _, e := range entries {
		switch filepath.Ext(e.Name()) {
		case ".flac":
			flacs++
		case ".txt":
			txts++
			data, _ := os.ReadFile(filepath.Join(cfg.Archive.Dir, e.Name()))
			if !strings.Contains(string(data), "hei") {
				t.Errorf("archived text = %q", data)
			}
		}
	}
	if flacs != 1 || txts != 1 {
		t.Errorf("archive has %d flac and %d txt files, want 1 each", flacs, txts)
	}
}

func TestEffectsNoPasteByDefault(t *testing.T) {
	beep.Disable()
	fx := newEffects(config.Default())
	fx.paste = func() error {
		t.Error("paste called with autopaste off")
		return nil
	}
	fx.hooks().OnTranscript(session.Transcript{ID: "x", Text: "hei"})
	if fx.archive != nil {
		t.Error("archive should be off without a directory")
	}
}

func TestEffectsPasteFailureIsNotFatal(t *testing.T) {
	beep.Disable()
	cfg := config.Default()
	cfg.AutoPaste = true
	fx := newEffects(cfg)
	fx.paste = func() error { return errors.New("no display") }
	fx.hooks().OnTranscript(session.Transcript{ID: "x", Text: "hei", Copied: true})
	if fx.count() != 1 {
		t.Errorf("count = %d", fx.count())
	}
}

func TestEffectsNoPasteWhenClipboardFailed(t *testing.T) {
	beep.Disable()
	cfg := config.Default()
	cfg.AutoPaste = true
	fx := newEffects(cfg)
	fx.paste = func() error {
		t.Error("pasted stale clipboard contents")
		return nil
	}
	fx.hooks().OnTranscript(session.Transcript{ID: "x", Text: "hei", Copied: false})
	if fx.count() != 1 {
		t.Errorf("count = %d, want 1", fx.count())
	}
}

func TestEffectsOtherHooks(t *testing.T) {
	beep.Disable()
	h := newEffects(config.Default()).hooks()
	// None of these may panic with logging and notifications off.
	h.OnStart("id")
	h.OnStop("id", time.Second)
	h.OnNoAudio("id", false)
	h.OnNoAudio("id", true)
	h.OnError("id", errors.New("boom"))
	h.OnSilence(session.SilenceWarn)
	h.OnSilence(session.SilenceAutoStop)
}
