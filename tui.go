package main

import (
	"context"
	"fmt"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tale/audio"
	"tale/hotkey"
	"tale/log"
	"tale/session"
	"tale/shutdown"
	"tale/transcriber"
)

// TUI message types
type stateMsg struct{ State session.State }
type statusMsg struct {
	Status session.Status
	Detail string
}
type audioLevelMsg struct{ Level float64 }
type recordingTickMsg struct{ Seconds float64 }
type logChangedMsg struct{ Text string }
type noVoiceMsg struct{ On bool }

// tuiSink forwards controller events into the Bubble Tea program. Events
// sent before the program is attached are dropped.
type tuiSink struct {
	mu sync.Mutex
	p  *tea.Program
}

func (s *tuiSink) attach(p *tea.Program) {
	s.mu.Lock()
	s.p = p
	s.mu.Unlock()
}

func (s *tuiSink) send(msg tea.Msg) {
	s.mu.Lock()
	p := s.p
	s.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

func (s *tuiSink) StateChanged(st session.State) { s.send(stateMsg{st}) }
func (s *tuiSink) Status(st session.Status, detail string) {
	s.send(statusMsg{Status: st, Detail: detail})
}
func (s *tuiSink) AudioLevel(level float64)      { s.send(audioLevelMsg{level}) }
func (s *tuiSink) RecordingTick(seconds float64) { s.send(recordingTickMsg{seconds}) }
func (s *tuiSink) LogChanged(text string)        { s.send(logChangedMsg{text}) }
func (s *tuiSink) NoVoiceWarning(on bool)        { s.send(noVoiceMsg{on}) }

// controller is the part of the session controller the TUI drives.
type controller interface {
	Toggle()
	Clear()
	CopyAll()
	CopyText(text string)
	LastTranscript() string
	Language() string
	SetLanguage(code string)
}

type tuiModel struct {
	ctrl          controller
	locale        string
	engine        string
	device        string
	state         session.State
	status        session.Status
	detail        string
	level         float64
	seconds       float64
	noVoice       bool
	text          string
	lang          string
	width, height int
}

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	recStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	busyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	textStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	helpKey     = lipgloss.NewStyle().Foreground(lipgloss.Color("239")).Bold(true)
	helpText    = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	levelFull   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	levelEmpty  = lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
	logBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)
)

func newTUIModel(ctrl controller, locale, engine, device string) tuiModel {
	return tuiModel{
		ctrl:   ctrl,
		locale: locale,
		engine: engine,
		device: device,
		status: session.StatusReady,
		lang:   ctrl.Language(),
	}
}

func (m tuiModel) Init() tea.Cmd { return nil }

// ctrlCmd turns a controller call into a command so it never blocks the
// event loop, which the controller's own events are sent through.
func ctrlCmd(fn func()) tea.Cmd {
	return func() tea.Msg {
		fn()
		return nil
	}
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case " ", "enter":
			return m, ctrlCmd(m.ctrl.Toggle)
		case "tab", "l":
			next := transcriber.NextLanguage(m.lang)
			m.lang = next.Code
			return m, ctrlCmd(func() { m.ctrl.SetLanguage(next.Code) })
		case "c":
			return m, ctrlCmd(m.ctrl.CopyAll)
		case "y":
			return m, ctrlCmd(func() { m.ctrl.CopyText(m.ctrl.LastTranscript()) })
		case "x", "delete":
			return m, ctrlCmd(m.ctrl.Clear)
		}

	case stateMsg:
		m.state = msg.State
		if m.state == session.Recording {
			m.seconds = 0
			m.level = 0
		} else {
			m.level = 0
			m.noVoice = false
		}

	case statusMsg:
		m.status = msg.Status
		m.detail = msg.Detail

	case audioLevelMsg:
		if m.state == session.Recording {
			m.level = m.level*0.6 + msg.Level*0.4
		}

	case recordingTickMsg:
		m.seconds = msg.Seconds

	case logChangedMsg:
		m.text = msg.Text

	case noVoiceMsg:
		m.noVoice = msg.On
	}
	return m, nil
}

func (m tuiModel) statusLine() string {
	msg := m.status.Format(m.locale, m.detail)
	switch m.status {
	case session.StatusListening:
		return recStyle.Render(fmt.Sprintf("● %s %.1fs", msg, m.seconds))
	case session.StatusTranscribing:
		return busyStyle.Render(msg)
	case session.StatusCopied, session.StatusCopiedAll:
		return okStyle.Render(msg)
	case session.StatusNoAudio, session.StatusNoSpeech, session.StatusFailed:
		return errStyle.Render(msg)
	}
	return dimStyle.Render("○ " + msg)
}

// levelBar renders an RMS level in [0, 1] on a scale where normal speech
// reaches roughly two thirds.
func levelBar(level float64, width int) string {
	n := int(level * 8 * float64(width))
	n = max(0, min(n, width))
	return levelFull.Render(strings.Repeat("█", n)) + levelEmpty.Render(strings.Repeat("░", width-n))
}

func (m tuiModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	lang := m.lang
	if l, ok := transcriber.LookupLanguage(m.lang); ok {
		lang = l.Label
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("tale") + dimStyle.Render(" "+version) + "\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("[%s | %s | %s]", m.engine, m.device, lang)) + "\n\n")
	b.WriteString(m.statusLine() + "\n")
	if m.state == session.Recording {
		b.WriteString(levelBar(m.level, 30) + "\n")
		if m.noVoice {
			b.WriteString(warnStyle.Render("⚠ no voice detected") + "\n")
		}
	} else {
		b.WriteString("\n")
	}
	b.WriteString("\n")

	header := strings.Count(b.String(), "\n")
	help := m.helpLine()
	boxWidth := max(m.width-2, 20)
	// Border and help line take four rows.
	rows := max(m.height-header-4, 3)

	lines := wrapText(m.text, boxWidth-4)
	if strings.TrimSpace(m.text) == "" {
		lines = []string{dimStyle.Render("No transcriptions yet")}
	} else {
		// Newest text stays in view.
		if len(lines) > rows {
			lines = lines[len(lines)-rows:]
		}
		for i := range lines {
			lines[i] = textStyle.Render(lines[i])
		}
	}
	for len(lines) < rows {
		lines = append(lines, "")
	}
	b.WriteString(logBoxStyle.Width(boxWidth).Render(strings.Join(lines, "\n")) + "\n")
	b.WriteString(help)
	return b.String()
}

func (m tuiModel) helpLine() string {
	keys := []struct{ key, what string }{
		{"space", "record"},
		{"tab", "language"},
		{"c", "copy all"},
		{"y", "copy last"},
		{"x", "clear"},
		{"q", "quit"},
	}
	parts := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		parts = append(parts, helpKey.Render(k.key)+helpText.Render(" "+k.what))
	}
	parts = append(parts, helpKey.Render(hotkey.Combo)+helpText.Render(" anywhere"))
	return strings.Join(parts, helpText.Render("  "))
}

// wrapText breaks text into lines of at most width runes, at spaces where
// possible. Existing line breaks are kept.
func wrapText(text string, width int) []string {
	if width <= 0 {
		width = 1
	}
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		r := []rune(para)
		if len(r) == 0 {
			lines = append(lines, "")
			continue
		}
		for len(r) > width {
			splitAt := width
			for i := width; i > 0; i-- {
				if r[i] == ' ' {
					splitAt = i
					break
				}
			}
			lines = append(lines, string(r[:splitAt]))
			r = []rune(strings.TrimLeft(string(r[splitAt:]), " "))
		}
		if len(r) > 0 {
			lines = append(lines, string(r))
		}
	}
	return lines
}

func (a *app) runTUI() {
	sink := &tuiSink{}
	a.newController(sink)

	device := a.capture.DeviceName()
	if audio.IsBluetooth(device) {
		device += " (BT!)"
	}
	p := tea.NewProgram(newTUIModel(a.ctrl, a.cfg.UILanguage, a.engine.Name(), device), tea.WithAltScreen())
	sink.attach(p)

	ctx, stop := shutdown.Context(context.Background())
	defer stop()
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	go a.runHotkey(ctx)

	if _, err := p.Run(); err != nil {
		log.Errorf("TUI error: %v", err)
	}
	sink.attach(nil)
	stop()
	a.shutdown()
}
