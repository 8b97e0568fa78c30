package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-shellwords"

	"tale/audio"
)

// Exec runs an external command line per transcription. The audio is passed
// as a 16-bit WAV file. Placeholders {audio}, {lang} and {model} in the
// command are substituted; without an {audio} placeholder the flags
// --audio, --model and --language are appended instead.
//
// The command prints either a JSON object with a "text" field or the plain
// transcript on stdout.
type Exec struct {
	cmd   []string
	model string
	mu    sync.Mutex
}

type execResult struct {
	Text string `json:"text"`
}

func NewExec(command, modelPath string) (Transcriber, error) {
	parser := shellwords.NewParser()
	parser.ParseEnv = true
	args, err := parser.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse engine command: %w", err)
	}
	if len(args) == 0 {
		return nil, errors.New("engine command is empty")
	}
	return &Exec{cmd: args, model: modelPath}, nil
}

func (e *Exec) Name() string { return "exec:" + e.cmd[0] }

func (e *Exec) Transcribe(ctx context.Context, samples []float32, lang string) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	path, err := writeTempWAV(samples)
	if err != nil {
		return Result{}, err
	}
	defer os.Remove(path)

	args := e.buildArgs(path, lang)
	command := exec.CommandContext(ctx, args[0], args[1:]...)
	var stdout, stderr bytes.Buffer
	command.Stdout = &stdout
	command.Stderr = &stderr

	start := time.Now()
	if err := command.Run(); err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return Result{}, fmt.Errorf("engine command failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return Result{Text: parseOutput(stdout.Bytes()), Duration: time.Since(start)}, nil
}

// writeTempWAV writes samples to a new temp file and closes it, so the
// engine process can open it on platforms with exclusive file locks.
func writeTempWAV(samples []float32) (string, error) {
	file, err := os.CreateTemp("", "tale_*.wav")
	if err != nil {
		return "", fmt.Errorf("temp file: %w", err)
	}
	if err := audio.WriteWAV(file, samples, audio.SampleRate); err != nil {
		file.Close()
		os.Remove(file.Name())
		return "", err
	}
	if err := file.Close(); err != nil {
		os.Remove(file.Name())
		return "", fmt.Errorf("temp file: %w", err)
	}
	return file.Name(), nil
}

func (e *Exec) buildArgs(audioPath, lang string) []string {
	templated := false
	for _, a := range e.cmd {
		if strings.Contains(a, "{audio}") {
			templated = true
			break
		}
	}
	if templated {
		r := strings.NewReplacer("{audio}", audioPath, "{lang}", langOrAuto(lang), "{model}", e.model)
		out := make([]string, len(e.cmd))
		for i, a := range e.cmd {
			out[i] = r.Replace(a)
		}
		return out
	}

	out := append([]string{}, e.cmd...)
	out = append(out, "--audio", audioPath)
	if e.model != "" {
		out = append(out, "--model", e.model)
	}
	if lang != "" {
		out = append(out, "--language", lang)
	}
	return out
}

func langOrAuto(lang string) string {
	if lang == "" {
		return "auto"
	}
	return lang
}

func parseOutput(out []byte) string {
	trimmed := bytes.TrimSpace(out)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var resp execResult
		if err := json.Unmarshal(trimmed, &resp); err == nil {
			return strings.TrimSpace(resp.Text)
		}
	}
	return strings.TrimSpace(string(trimmed))
}

func (e *Exec) Close() error { return nil }
