package main

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tale/audio"
	"tale/beep"
	"tale/config"
	"tale/transcriber"
)

func writeToneWAV(t *testing.T, seconds float64) string {
	t.Helper()
	n := int(seconds * audio.SampleRate)
	samples := make([]float32, n)
	for i := range samples {
		samples[i] = float32(0.3 * math.Sin(2*math.Pi*440*float64(i)/audio.SampleRate))
	}
	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := audio.WriteWAV(f, samples, audio.SampleRate); err != nil {
		t.Fatal(err)
	}
	return path
}

func runScript(t *testing.T, cfg config.Config, engine transcriber.Transcriber, wav, script string) string {
	t.Helper()
	beep.Disable()
	var out strings.Builder
	if code := runTestMode(cfg, engine, wav, strings.NewReader(script), &out); code != 0 {
		t.Fatalf("exit code %d, output:\n%s", code, out.String())
	}
	return out.String()
}

func TestTestModeTranscribes(t *testing.T) {
	wav := writeToneWAV(t, 0.3)
	cfg := config.Default()
	engine := transcriber.NewMock("hei verden", nil)

	out := runScript(t, cfg, engine, wav, cmds("START", "WAIT_AUDIO_DONE", "STOP", "WAIT", "CLIPBOARD", "PRINT", "QUIT"))

	for _, want := range []string{
		"state: recording",
		"status: 🎤 Lytter...",
		"status: ⏳ Transkriberer...",
		"transcript: hei verden",
		"status: ✅ Kopiert til clipboard",
		"clipboard: hei verden",
		"log: hei verden",
		"state: idle",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if engine.LastLanguage() != "no" {
		t.Errorf("language = %q, want no", engine.LastLanguage())
	}
	if engine.LastSamples() < int(0.3*audio.SampleRate) {
		t.Errorf("engine got %d samples, want the whole file", engine.LastSamples())
	}
}

func TestTestModeAppendsAndClears(t *testing.T) {
	wav := writeToneWAV(t, 0.2)
	cfg := config.Default()
	cfg.UILanguage = "en"
	engine := transcriber.NewMock("one", nil)

	out := runScript(t, cfg, engine, wav, cmds(
		"START", "WAIT_AUDIO_DONE", "STOP", "WAIT",
		"LANG en",
		"START", "SLEEP 100", "STOP", "WAIT",
		"PRINT",
		"CLEAR",
		"COPYALL",
		"QUIT",
	))

	if strings.Count(out, "log: one") != 2 {
		t.Errorf("want two log lines:\n%s", out)
	}
	if !strings.Contains(out, "status: Nothing to copy") {
		t.Errorf("COPYALL after CLEAR should have nothing to copy:\n%s", out)
	}
	if engine.LastLanguage() != "en" {
		t.Errorf("language = %q, want en", engine.LastLanguage())
	}
}

func TestTestModeNoAudio(t *testing.T) {
	wav := writeToneWAV(t, 1)
	cfg := config.Default()
	cfg.UILanguage = "en"
	engine := transcriber.NewMock("unused", nil)

	out := runScript(t, cfg, engine, wav, cmds("START", "STOP", "WAIT", "CLIPBOARD", "QUIT"))

	if !strings.Contains(out, "status: ❌ No audio") {
		t.Errorf("want no-audio status:\n%s", out)
	}
	if !strings.Contains(out, "clipboard: \n") {
		t.Errorf("clipboard should be untouched:\n%s", out)
	}
	if engine.Calls() != 0 {
		t.Errorf("engine called %d times", engine.Calls())
	}
}

func TestTestModeHotkeyTap(t *testing.T) {
	wav := writeToneWAV(t, 0.2)
	cfg := config.Default()
	engine := transcriber.NewMock("tap", nil)

	out := runScript(t, cfg, engine, wav, cmds("KEYDOWN", "KEYUP", "WAIT_AUDIO_DONE", "KEYDOWN", "KEYUP", "WAIT", "QUIT"))

	if !strings.Contains(out, "transcript: tap") {
		t.Errorf("tap-to-toggle should produce a transcript:\n%s", out)
	}
}

func TestTestModeBadWAV(t *testing.T) {
	var out strings.Builder
	code := runTestMode(config.Default(), transcriber.NewMock("", nil), filepath.Join(t.TempDir(), "missing.wav"), strings.NewReader(""), &out)
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}

func cmds(parts ...string) string {
	return strings.Join(parts, "\n") + "\n"
}

func TestTestModeHotkeyTapAfterExternalStop(t *testing.T) {
	wav := writeToneWAV(t, 0.3)
	engine := transcriber.NewMock("hei", nil)

	out := runScript(t, config.Default(), engine, wav, cmds(
		"KEYDOWN", "KEYUP", "SLEEP 100", "STOP", "WAIT",
		"KEYDOWN", "KEYUP", "SLEEP 100", "STOP", "WAIT",
		"QUIT",
	))
	if n := strings.Count(out, "state: recording"); n != 2 {
		t.Errorf("recorded %d times, want 2 (tap after STOP must start again):\n%s", n, out)
	}
}
