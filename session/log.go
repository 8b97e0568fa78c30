package session

import (
	"strings"
	"sync"
)

// Log is the text shown in the transcript view. Modified reports whether
// the user has edited it since the last programmatic write.
type Log struct {
	mu       sync.Mutex
	text     string
	modified bool
}

// Append adds text at the end, on a new line when the log already holds
// non-blank text. It returns the full log.
func (l *Log) Append(text string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if strings.TrimSpace(l.text) != "" {
		l.text += "\n" + text
	} else {
		l.text += text
	}
	l.modified = false
	return l.text
}

// SetText replaces the log with a user edit.
func (l *Log) SetText(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if text == l.text {
		return
	}
	l.text = text
	l.modified = true
}

func (l *Log) Clear() {
	l.mu.Lock()
	l.text = ""
	l.modified = false
	l.mu.Unlock()
}

func (l *Log) Text() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.text
}

func (l *Log) Modified() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.modified
}
