//go:build gui

package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// logEntry is the editable transcript. Copying goes through the controller
// so the status line reports it.
type logEntry struct {
	widget.Entry
	ctrl Controller
}

func newLogEntry(ctrl Controller) *logEntry {
	e := &logEntry{ctrl: ctrl}
	e.MultiLine = true
	e.ExtendBaseWidget(e)
	return e
}

func (e *logEntry) TypedShortcut(s fyne.Shortcut) {
	if _, ok := s.(*fyne.ShortcutCopy); ok {
		sel := e.SelectedText()
		go e.ctrl.CopyText(sel)
		return
	}
	e.Entry.TypedShortcut(s)
}

func formatSeconds(s float64) string {
	m := int(s) / 60
	return fmt.Sprintf("%d:%04.1f", m, s-float64(m*60))
}
