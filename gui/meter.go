//go:build gui

package gui

import (
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

const (
	meterSegments = 24
	meterGain     = 8.0 // RMS of normal speech sits around 0.05-0.1
)

var (
	segOff     = color.RGBA{48, 48, 48, 255}
	segNoVoice = color.RGBA{110, 60, 0, 255}
	segLow     = color.RGBA{0, 200, 80, 255}
	segMid     = color.RGBA{255, 200, 0, 255}
	segHigh    = color.RGBA{230, 40, 40, 255}
)

// LevelMeter shows the input level as a row of segments while recording.
type LevelMeter struct {
	widget.BaseWidget
	mu        sync.Mutex
	level     float64
	recording bool
	noVoice   bool
}

func NewLevelMeter() *LevelMeter {
	m := &LevelMeter{}
	m.ExtendBaseWidget(m)
	return m
}

func (m *LevelMeter) SetRecording(r bool) {
	m.mu.Lock()
	m.recording = r
	if !r {
		m.level = 0
		m.noVoice = false
	}
	m.mu.Unlock()
}

// SetLevel smooths l into the displayed level: fast attack, slow release.
func (m *LevelMeter) SetLevel(l float64) {
	m.mu.Lock()
	if m.recording {
		if l > m.level {
			m.level = m.level*0.2 + l*0.8
		} else {
			m.level = m.level*0.7 + l*0.3
		}
	}
	m.mu.Unlock()
}

func (m *LevelMeter) SetNoVoice(v bool) {
	m.mu.Lock()
	m.noVoice = v
	m.mu.Unlock()
}

func (m *LevelMeter) MinSize() fyne.Size {
	return fyne.NewSize(meterSegments*10, 12)
}

func (m *LevelMeter) CreateRenderer() fyne.WidgetRenderer {
	r := &meterRenderer{meter: m}
	r.segs = make([]*canvas.Rectangle, meterSegments)
	for i := range r.segs {
		r.segs[i] = canvas.NewRectangle(segOff)
		r.segs[i].CornerRadius = 2
	}
	return r
}

type meterRenderer struct {
	meter *LevelMeter
	segs  []*canvas.Rectangle
}

func (r *meterRenderer) Layout(size fyne.Size) {
	const gap = 2
	w := (size.Width - gap*float32(meterSegments-1)) / float32(meterSegments)
	for i, s := range r.segs {
		s.Move(fyne.NewPos(float32(i)*(w+gap), 0))
		s.Resize(fyne.NewSize(w, size.Height))
	}
}

func (r *meterRenderer) MinSize() fyne.Size { return r.meter.MinSize() }

func (r *meterRenderer) Refresh() {
	r.meter.mu.Lock()
	level, recording, noVoice := r.meter.level, r.meter.recording, r.meter.noVoice
	r.meter.mu.Unlock()

	lit := 0
	if recording {
		lit = min(int(level*meterGain*meterSegments), meterSegments)
	}
	for i, s := range r.segs {
		s.FillColor = segmentColor(i, lit, noVoice)
		s.Refresh()
	}
}

func segmentColor(i, lit int, noVoice bool) color.Color {
	switch {
	case i >= lit && noVoice:
		return segNoVoice
	case i >= lit:
		return segOff
	case i < meterSegments*2/3:
		return segLow
	case i < meterSegments*5/6:
		return segMid
	}
	return segHigh
}

func (r *meterRenderer) Objects() []fyne.CanvasObject {
	objs := make([]fyne.CanvasObject, len(r.segs))
	for i, s := range r.segs {
		objs[i] = s
	}
	return objs
}

func (r *meterRenderer) Destroy() {}
