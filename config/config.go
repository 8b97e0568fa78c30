// Package config loads settings from an optional YAML file, applies TALE_*
// environment overrides and validates the result.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EngineWhisper = "whisper"
	EngineExec    = "exec"
	EngineMock    = "mock"
)

type EngineConfig struct {
	Mode      string `yaml:"mode"` // whisper, exec, mock
	ModelPath string `yaml:"model_path"`
	Command   string `yaml:"command"`
	Threads   int    `yaml:"threads"`
	MockText  string `yaml:"mock_text"`
}

type AudioConfig struct {
	Device string `yaml:"device"`
}

type ArchiveConfig struct {
	Dir string `yaml:"dir"`
}

type SilenceConfig struct {
	WarnAfter time.Duration `yaml:"warn_after"`
	Threshold float64       `yaml:"threshold"`
	AutoStop  time.Duration `yaml:"auto_stop"` // 0 disables
}

type Config struct {
	Language   string        `yaml:"language"`
	UILanguage string        `yaml:"ui_language"`
	Engine     EngineConfig  `yaml:"engine"`
	Audio      AudioConfig   `yaml:"audio"`
	Archive    ArchiveConfig `yaml:"archive"`
	Silence    SilenceConfig `yaml:"silence"`
	AutoPaste  bool          `yaml:"autopaste"`
	Notify     bool          `yaml:"notify"`
	Beep       bool          `yaml:"beep"`
	Hotkey     bool          `yaml:"hotkey"`
}

func Default() Config {
	return Config{
		Language:   "no",
		UILanguage: "nb",
		Engine: EngineConfig{
			Mode:      EngineWhisper,
			ModelPath: defaultModelPath(),
			Threads:   4,
		},
		Silence: SilenceConfig{
			WarnAfter: 8 * time.Second,
			Threshold: 0.01,
		},
		Beep:   true,
		Hotkey: true,
	}
}

func defaultModelPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "ggml-base.bin"
	}
	return filepath.Join(dir, "tale", "models", "ggml-base.bin")
}

// DefaultPath is where Load looks when no -config flag is given.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "tale", "config.yaml")
}

// Load reads path (if non-empty), applies environment overrides and validates.
// A missing file at the default location is not an error; callers pass ""
// to skip the file entirely.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config file: %w", err)
			}
		case os.IsNotExist(err) && path == DefaultPath():
		case os.IsNotExist(err):
			return cfg, fmt.Errorf("config file not found: %w", err)
		default:
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.Language, "TALE_LANGUAGE")
	overrideString(&cfg.UILanguage, "TALE_UI_LANGUAGE")
	overrideString(&cfg.Engine.Mode, "TALE_ENGINE_MODE")
	overrideString(&cfg.Engine.ModelPath, "TALE_ENGINE_MODEL_PATH")
	overrideString(&cfg.Engine.Command, "TALE_ENGINE_COMMAND")
	overrideInt(&cfg.Engine.Threads, "TALE_ENGINE_THREADS")
	overrideString(&cfg.Engine.MockText, "TALE_ENGINE_MOCK_TEXT")
	overrideString(&cfg.Audio.Device, "TALE_AUDIO_DEVICE")
	overrideString(&cfg.Archive.Dir, "TALE_ARCHIVE_DIR")
	overrideDuration(&cfg.Silence.WarnAfter, "TALE_SILENCE_WARN_AFTER")
	overrideFloat(&cfg.Silence.Threshold, "TALE_SILENCE_THRESHOLD")
	overrideDuration(&cfg.Silence.AutoStop, "TALE_SILENCE_AUTO_STOP")
	overrideBool(&cfg.AutoPaste, "TALE_AUTOPASTE")
	overrideBool(&cfg.Notify, "TALE_NOTIFY")
	overrideBool(&cfg.Beep, "TALE_BEEP")
	overrideBool(&cfg.Hotkey, "TALE_HOTKEY")
}

func overrideString(target *string, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok && strings.TrimSpace(value) != "" {
		*target = value
	}
}

func overrideInt(target *int, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			*target = parsed
		}
	}
}

func overrideBool(target *bool, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			*target = parsed
		}
	}
}

func overrideFloat(target *float64, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			*target = parsed
		}
	}
}

func overrideDuration(target *time.Duration, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := time.ParseDuration(value); err == nil {
			*target = parsed
		}
	}
}

func Validate(cfg Config) error {
	switch cfg.Engine.Mode {
	case EngineWhisper:
		if cfg.Engine.ModelPath == "" {
			return errors.New("engine.model_path must be set when mode=whisper")
		}
	case EngineExec:
		if strings.TrimSpace(cfg.Engine.Command) == "" {
			return errors.New("engine.command must be set when mode=exec")
		}
	case EngineMock:
	default:
		return fmt.Errorf("engine.mode must be one of whisper|exec|mock, got %q", cfg.Engine.Mode)
	}
	if cfg.Engine.Threads < 0 {
		return errors.New("engine.threads must be >= 0")
	}
	switch cfg.UILanguage {
	case "en", "nb":
	default:
		return fmt.Errorf("ui_language must be en or nb, got %q", cfg.UILanguage)
	}
	if cfg.Silence.WarnAfter < 0 {
		return errors.New("silence.warn_after must be >= 0")
	}
	if cfg.Silence.AutoStop != 0 && cfg.Silence.AutoStop < cfg.Silence.WarnAfter {
		return errors.New("silence.auto_stop must be 0 or >= silence.warn_after")
	}
	if cfg.Silence.Threshold < 0 || cfg.Silence.Threshold >= 1 {
		return errors.New("silence.threshold must be in [0, 1)")
	}
	return nil
}
