// Package archive keeps a copy of each dictated session on disk: the audio
// as FLAC and the transcript as text, side by side.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"tale/encoder"
)

const timeLayout = "20060102-150405"

type Writer struct {
	dir string
}

// New returns a Writer for dir, creating it if needed.
func New(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}
	return &Writer{dir: dir}, nil
}

func (w *Writer) Dir() string { return w.dir }

// Save writes <dir>/<timestamp>-<id>.flac and .txt and returns the FLAC
// path. An empty or malformed id is replaced with a fresh one.
func (w *Writer) Save(id string, at time.Time, samples []float32, text string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	base := filepath.Join(w.dir, at.Format(timeLayout)+"-"+id)

	data, err := encoder.EncodeFlac(samples)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", id, err)
	}
	flacPath := base + ".flac"
	if err := writeFile(flacPath, data); err != nil {
		return "", err
	}
	if err := writeFile(base+".txt", []byte(text+"\n")); err != nil {
		return "", err
	}
	return flacPath, nil
}

// writeFile replaces path atomically through a temp file in the same directory.
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tale-*")
	if err != nil {
		return fmt.Errorf("archive temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
