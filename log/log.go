// Package log writes the process diagnostics log and the transcript log.
// Calls made before Init are dropped.
package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	diagnosticsName = "diagnostics_log.txt"
	transcriptsName = "transcribe_log.txt"
	stampLayout     = "2006-01-02 15:04:05"
)

// files is the open state between Init and Close.
type files struct {
	diag        *os.File
	transcripts *os.File
	logger      zerolog.Logger
	pid         int
}

var (
	mu   sync.Mutex
	open *files
	dir  string
)

// Transcription describes one finished session for the diagnostics log.
type Transcription struct {
	Session      string
	Engine       string
	Language     string
	AudioS       float64
	TranscribeMs float64
	Chars        int
	Archived     string
}

// ResolveDir picks the log directory: -logpath flag, then TALE_LOG_PATH,
// then the OS default.
func ResolveDir(flagPath string) (string, error) {
	for _, p := range []string{flagPath, os.Getenv("TALE_LOG_PATH")} {
		if p != "" {
			return filepath.Abs(p)
		}
	}
	return defaultDir()
}

func SetDir(d string) { dir = d }

func Dir() string { return dir }

// EnsureDir creates the log directory if needed.
func EnsureDir() error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	return nil
}

func appendFile(name string) (*os.File, error) {
	return os.OpenFile(filepath.Join(dir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
}

// Init opens both log files in the configured directory.
func Init() error {
	mu.Lock()
	defer mu.Unlock()

	if err := EnsureDir(); err != nil {
		return err
	}
	diag, err := appendFile(diagnosticsName)
	if err != nil {
		return err
	}
	transcripts, err := appendFile(transcriptsName)
	if err != nil {
		diag.Close()
		return err
	}

	f := &files{diag: diag, transcripts: transcripts, pid: os.Getpid()}
	w := zerolog.ConsoleWriter{Out: diag, TimeFormat: stampLayout, NoColor: true}
	f.logger = zerolog.New(w).With().Timestamp().Int("pid", f.pid).Logger()
	open = f
	return nil
}

// Close flushes and closes the log files. Safe to call more than once.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if open == nil {
		return
	}
	open.diag.Close()
	open.transcripts.Close()
	open = nil
}

// event returns nil before Init; zerolog treats a nil event as disabled.
func event(level zerolog.Level) *zerolog.Event {
	mu.Lock()
	f := open
	mu.Unlock()
	if f == nil {
		return nil
	}
	return f.logger.WithLevel(level)
}

func Info(msg string)  { event(zerolog.InfoLevel).Msg(msg) }
func Warn(msg string)  { event(zerolog.WarnLevel).Msg(msg) }
func Error(msg string) { event(zerolog.ErrorLevel).Msg(msg) }

func Infof(format string, args ...any)  { event(zerolog.InfoLevel).Msgf(format, args...) }
func Warnf(format string, args ...any)  { event(zerolog.WarnLevel).Msgf(format, args...) }
func Errorf(format string, args ...any) { event(zerolog.ErrorLevel).Msgf(format, args...) }

// SessionError logs err against a recording session.
func SessionError(session string, err error) {
	event(zerolog.ErrorLevel).Str("session", session).Err(err).Msg("session_error")
}

func TranscriptionMetrics(t Transcription) {
	ev := event(zerolog.InfoLevel).
		Str("session", t.Session).
		Str("engine", t.Engine).
		Str("language", t.Language).
		Float64("audio_s", t.AudioS).
		Float64("transcribe_ms", t.TranscribeMs).
		Int("chars", t.Chars)
	if t.Archived != "" {
		ev = ev.Str("archived", t.Archived)
	}
	ev.Msg("transcription")
}

// TranscriptionText appends one line to the transcript log:
// "2006-01-02 15:04:05\t[pid]\ttext".
func TranscriptionText(text string) {
	mu.Lock()
	defer mu.Unlock()
	if open == nil {
		return
	}
	fmt.Fprintf(open.transcripts, "%s\t[%d]\t%s\n", time.Now().Format(stampLayout), open.pid, text)
}

func SessionStart(engine, device, language string) {
	event(zerolog.InfoLevel).
		Str("engine", engine).
		Str("device", device).
		Str("language", language).
		Msg("session_start")
}

func SessionEnd(count int) {
	event(zerolog.InfoLevel).Int("count", count).Msg("session_end")
}
