// Package notify shows desktop notifications.
package notify

import (
	"sync"

	"github.com/gen2brain/beeep"
)

const appName = "Tale"

var texts = map[string]map[string]string{
	"nb": {
		"done":  "Kopiert til clipboard",
		"empty": "Ingen tale oppdaget",
		"error": "Feil",
	},
	"en": {
		"done":  "Copied to clipboard",
		"empty": "No speech detected",
		"error": "Error",
	},
}

// Notifier sends notifications when enabled. The zero value is disabled.
type Notifier struct {
	mu      sync.Mutex
	enabled bool
	locale  string
	send    func(title, message string) error
}

func New(enabled bool, locale string) *Notifier {
	return &Notifier{
		enabled: enabled,
		locale:  locale,
		send: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
	}
}

func (n *Notifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	n.enabled = enabled
	n.mu.Unlock()
}

// Success shows the transcript, shortened.
func (n *Notifier) Success(text string) {
	n.notify("done", truncate(text, 100))
}

func (n *Notifier) Empty() {
	n.notify("empty", "")
}

func (n *Notifier) Error(msg string) {
	n.notify("error", msg)
}

func (n *Notifier) notify(key, message string) {
	n.mu.Lock()
	enabled, send := n.enabled, n.send
	m, ok := texts[n.locale]
	n.mu.Unlock()
	if !enabled || send == nil {
		return
	}
	if !ok {
		m = texts["en"]
	}
	// Notification failures are not worth surfacing.
	_ = send(appName+": "+m[key], message)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
