package archive

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "archive")
	w, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	id := uuid.NewString()
	at := time.Date(2025, 3, 14, 9, 26, 53, 0, time.Local)

	path, err := w.Save(id, at, make([]float32, 5000), "hei verden")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	wantBase := "20250314-092653-" + id
	if filepath.Base(path) != wantBase+".flac" {
		t.Fatalf("path = %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil || string(data[:4]) != "fLaC" {
		t.Fatalf("flac file: %v", err)
	}
	txt, err := os.ReadFile(filepath.Join(dir, wantBase+".txt"))
	if err != nil || string(txt) != "hei verden\n" {
		t.Fatalf("txt = %q, %v", txt, err)
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".tale-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
	if len(entries) != 2 {
		t.Errorf("archive has %d entries, want 2", len(entries))
	}
}

func TestSaveReplacesBadID(t *testing.T) {
	w, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path, err := w.Save("../escape", time.Now(), nil, "")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Dir(path) != w.Dir() || strings.Contains(path, "escape") {
		t.Fatalf("id not sanitized: %s", path)
	}
}
