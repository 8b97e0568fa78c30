//go:build gui

// Package gui is the fyne desktop window: controls, language picker, level
// meter and the editable transcript.
package gui

import (
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"tale/session"
	"tale/transcriber"
)

const appTitle = "Tale"

// Controller is what the window drives.
type Controller interface {
	Toggle()
	Start() bool
	Stop() bool
	Clear()
	CopyAll()
	CopyText(text string)
	EditLog(text string)
	Language() string
	SetLanguage(code string)
	Log() *session.Log
}

var labels = map[string]map[string]string{
	"nb": {"start": "Start", "stop": "Stopp", "clear": "Tøm", "copy": "Kopier alt", "lang": "Språk:", "toggle": "Start/stopp opptak", "show": "Vis vindu", "placeholder": "Transkribert tekst kommer her..."},
	"en": {"start": "Start", "stop": "Stop", "clear": "Clear", "copy": "Copy All", "lang": "Language:", "toggle": "Start/stop recording", "show": "Show window", "placeholder": "Transcribed text appears here..."},
}

type App struct {
	fyneApp fyne.App
	window  fyne.Window
	ctrl    Controller
	locale  string

	status   *widget.Label
	meter    *LevelMeter
	elapsed  *widget.Label
	startBtn *widget.Button
	stopBtn  *widget.Button
	clearBtn *widget.Button
	copyBtn  *widget.Button
	langSel  *widget.Select
	text     *logEntry

	mu       sync.Mutex
	modified bool
	setting  bool // true while the controller's text is being written
}

func NewApp(locale string) *App {
	if _, ok := labels[locale]; !ok {
		locale = "en"
	}
	return &App{locale: locale}
}

func (a *App) label(key string) string { return labels[a.locale][key] }

// Run builds the window and runs the event loop on the calling goroutine
// until the window is closed. onReady runs in its own goroutine once the
// app has started.
func (a *App) Run(ctrl Controller, onReady func()) error {
	a.ctrl = ctrl
	a.fyneApp = app.NewWithID("io.tale.gui")
	a.fyneApp.Settings().SetTheme(newTheme())
	a.window = a.fyneApp.NewWindow(appTitle)
	a.window.Resize(fyne.NewSize(520, 600))
	a.window.SetIcon(theme.MediaRecordIcon())

	a.build()
	a.setupTray()
	a.setupKeys()
	a.applyState(session.Idle)

	a.fyneApp.Lifecycle().SetOnStarted(func() {
		if onReady != nil {
			go onReady()
		}
	})
	a.window.ShowAndRun()
	return nil
}

func (a *App) Quit() {
	if a.fyneApp != nil {
		fyne.Do(a.fyneApp.Quit)
	}
}

func (a *App) build() {
	a.startBtn = widget.NewButtonWithIcon(a.label("start"), theme.MediaRecordIcon(), func() { go a.ctrl.Start() })
	a.startBtn.Importance = widget.HighImportance
	a.stopBtn = widget.NewButtonWithIcon(a.label("stop"), theme.MediaStopIcon(), func() { go a.ctrl.Stop() })
	a.clearBtn = widget.NewButtonWithIcon(a.label("clear"), theme.DeleteIcon(), func() { go a.ctrl.Clear() })
	a.copyBtn = widget.NewButtonWithIcon(a.label("copy"), theme.ContentCopyIcon(), func() { go a.ctrl.CopyAll() })

	a.langSel = widget.NewSelect(transcriber.LanguageLabels(), func(label string) {
		if l, ok := transcriber.LanguageByLabel(label); ok {
			a.ctrl.SetLanguage(l.Code)
		}
	})
	if l, ok := transcriber.LookupLanguage(a.ctrl.Language()); ok {
		a.langSel.SetSelected(l.Label)
	}

	a.text = newLogEntry(a.ctrl)
	a.text.SetPlaceHolder(a.label("placeholder"))
	a.text.Wrapping = fyne.TextWrapWord
	a.text.OnChanged = a.onEdit

	a.status = widget.NewLabel(session.StatusReady.Message(a.locale))
	a.status.Alignment = fyne.TextAlignCenter
	a.meter = NewLevelMeter()
	a.elapsed = widget.NewLabel("")

	buttons := container.NewHBox(a.startBtn, a.stopBtn, widget.NewSeparator(), a.clearBtn, a.copyBtn)
	lang := container.NewBorder(nil, nil, widget.NewLabel(a.label("lang")), nil, a.langSel)
	top := container.NewVBox(buttons, lang)
	bottom := container.NewVBox(
		widget.NewSeparator(),
		container.NewBorder(nil, nil, nil, a.elapsed, a.meter),
		a.status,
	)
	a.window.SetContent(container.NewBorder(top, bottom, nil, nil, a.text))
}

func (a *App) setupTray() {
	desk, ok := a.fyneApp.(desktop.App)
	if !ok {
		return
	}
	menu := fyne.NewMenu(appTitle,
		fyne.NewMenuItem(a.label("toggle"), func() { go a.ctrl.Toggle() }),
		fyne.NewMenuItem(a.label("show"), func() { a.window.Show() }),
	)
	desk.SetSystemTrayMenu(menu)
	desk.SetSystemTrayIcon(theme.MediaRecordIcon())
}

// setupKeys handles keys the focused widget did not consume: space toggles
// recording, Delete clears the log and the copy shortcut copies the
// selection.
func (a *App) setupKeys() {
	c := a.window.Canvas()
	c.SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeySpace:
			go a.ctrl.Toggle()
		case fyne.KeyDelete:
			go a.ctrl.Clear()
		}
	})
	c.AddShortcut(&fyne.ShortcutCopy{}, func(fyne.Shortcut) {
		sel := a.text.SelectedText()
		go a.ctrl.CopyText(sel)
	})
}

func (a *App) onEdit(text string) {
	a.mu.Lock()
	setting := a.setting
	a.mu.Unlock()
	if setting {
		return
	}
	a.ctrl.EditLog(text)
	a.setModified(a.ctrl.Log().Modified())
}

func (a *App) setModified(m bool) {
	a.mu.Lock()
	changed := a.modified != m
	a.modified = m
	a.mu.Unlock()
	if !changed {
		return
	}
	title := appTitle
	if m {
		title += " *"
	}
	a.window.SetTitle(title)
}

func (a *App) applyState(s session.State) {
	switch s {
	case session.Idle:
		a.startBtn.Enable()
		a.stopBtn.Disable()
		a.langSel.Enable()
	case session.Recording:
		a.startBtn.Disable()
		a.stopBtn.Enable()
		a.langSel.Disable()
	case session.Transcribing:
		a.startBtn.Disable()
		a.stopBtn.Disable()
		a.langSel.Disable()
	}
	a.meter.SetRecording(s == session.Recording)
	a.meter.Refresh()
	if s != session.Recording {
		a.elapsed.SetText("")
	}
}

// setText replaces the view with the controller's log and scrolls to the
// end.
func (a *App) setText(text string) {
	a.mu.Lock()
	a.setting = true
	a.mu.Unlock()
	a.text.SetText(text)
	a.mu.Lock()
	a.setting = false
	a.mu.Unlock()

	lines := strings.Split(text, "\n")
	a.text.CursorRow = len(lines) - 1
	a.text.CursorColumn = len([]rune(lines[len(lines)-1]))
	a.text.Refresh()
	a.setModified(false)
}

// Sink implementation. Calls arrive on controller goroutines and are moved
// onto the UI goroutine.

func (a *App) StateChanged(s session.State) {
	fyne.Do(func() { a.applyState(s) })
}

func (a *App) Status(s session.Status, detail string) {
	msg := s.Format(a.locale, detail)
	fyne.Do(func() { a.status.SetText(msg) })
}

func (a *App) AudioLevel(level float64) {
	a.meter.SetLevel(level)
	fyne.Do(a.meter.Refresh)
}

func (a *App) RecordingTick(seconds float64) {
	fyne.Do(func() { a.elapsed.SetText(formatSeconds(seconds)) })
}

func (a *App) LogChanged(text string) {
	fyne.Do(func() { a.setText(text) })
}

func (a *App) NoVoiceWarning(on bool) {
	a.meter.SetNoVoice(on)
	fyne.Do(a.meter.Refresh)
}
