package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Language != "no" {
		t.Fatalf("expected default language no, got %q", cfg.Language)
	}
	if cfg.Engine.Mode != EngineWhisper {
		t.Fatalf("expected whisper engine, got %q", cfg.Engine.Mode)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
language: en
ui_language: en
engine:
  mode: exec
  command: whisper-cli -m /models/base.bin
autopaste: true
archive:
  dir: /tmp/tale
silence:
  warn_after: 5s
  threshold: 0.02
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Language != "en" || cfg.UILanguage != "en" {
		t.Fatalf("expected en/en, got %q/%q", cfg.Language, cfg.UILanguage)
	}
	if cfg.Engine.Mode != EngineExec || cfg.Engine.Command != "whisper-cli -m /models/base.bin" {
		t.Fatalf("unexpected engine config: %+v", cfg.Engine)
	}
	if !cfg.AutoPaste {
		t.Fatal("expected autopaste true")
	}
	if !cfg.Beep {
		t.Fatal("expected beep to keep its default")
	}
	if cfg.Archive.Dir != "/tmp/tale" {
		t.Fatalf("expected archive dir, got %q", cfg.Archive.Dir)
	}
	if cfg.Silence.WarnAfter != 5*time.Second || cfg.Silence.Threshold != 0.02 {
		t.Fatalf("unexpected silence config: %+v", cfg.Silence)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte("engine: [oops"), 0644)
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TALE_LANGUAGE", "en")
	t.Setenv("TALE_ENGINE_MODE", "mock")
	t.Setenv("TALE_ENGINE_MOCK_TEXT", "hei")
	t.Setenv("TALE_ENGINE_THREADS", "8")
	t.Setenv("TALE_AUTOPASTE", "true")
	t.Setenv("TALE_BEEP", "false")
	t.Setenv("TALE_SILENCE_WARN_AFTER", "3s")
	t.Setenv("TALE_SILENCE_THRESHOLD", "0.05")
	t.Setenv("TALE_ARCHIVE_DIR", "./archive")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Language != "en" {
		t.Fatalf("expected language override")
	}
	if cfg.Engine.Mode != EngineMock || cfg.Engine.MockText != "hei" {
		t.Fatalf("expected engine override, got %+v", cfg.Engine)
	}
	if cfg.Engine.Threads != 8 {
		t.Fatalf("expected threads 8, got %d", cfg.Engine.Threads)
	}
	if !cfg.AutoPaste || cfg.Beep {
		t.Fatalf("expected bool overrides")
	}
	if cfg.Silence.WarnAfter != 3*time.Second || cfg.Silence.Threshold != 0.05 {
		t.Fatalf("expected silence overrides, got %+v", cfg.Silence)
	}
	if cfg.Archive.Dir != "./archive" {
		t.Fatalf("expected archive override")
	}
}

func TestEnvOverrideIgnoresGarbage(t *testing.T) {
	t.Setenv("TALE_ENGINE_THREADS", "many")
	t.Setenv("TALE_BEEP", "perhaps")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Engine.Threads != 4 || !cfg.Beep {
		t.Fatalf("garbage env values should be ignored, got %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	for _, tt := range []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown engine", func(c *Config) { c.Engine.Mode = "cloud" }},
		{"exec without command", func(c *Config) { c.Engine.Mode = EngineExec; c.Engine.Command = " " }},
		{"whisper without model", func(c *Config) { c.Engine.ModelPath = "" }},
		{"negative threads", func(c *Config) { c.Engine.Threads = -1 }},
		{"ui language", func(c *Config) { c.UILanguage = "de" }},
		{"threshold", func(c *Config) { c.Silence.Threshold = 1.5 }},
	} {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := Validate(cfg); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	if err := Validate(Default()); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadIgnoresRemovedSampleRate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "audio:\n  device: USB Mic\n  sample_rate: 44100\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TALE_AUDIO_SAMPLE_RATE", "8000")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("old config with sample_rate should still load: %v", err)
	}
	if cfg.Audio.Device != "USB Mic" {
		t.Errorf("Audio.Device = %q", cfg.Audio.Device)
	}
}
