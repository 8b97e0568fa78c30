package hotkey

import (
	"sync/atomic"
	"time"
)

// Hybrid turns one key combination into two behaviors: a short tap toggles
// recording on until the next press, a long hold records until release.
// Start fires on every initial press; StopChan fires when recording should
// end in either mode.
type Hybrid struct {
	startCh   chan struct{}
	stopCh    chan struct{}
	toggle    atomic.Bool
	quit      chan struct{}
	recording func() bool
}

// NewHybrid builds a Hybrid on top of hk. Presses held longer than longPress
// count as hold-to-talk. recording reports whether a recording is still
// running; a press after a tap only stops when it returns true, so a
// recording ended elsewhere (a button, auto-stop) does not swallow the
// next tap. A nil recording trusts the key sequence alone.
func NewHybrid(hk Hotkey, longPress time.Duration, recording func() bool) *Hybrid {
	if recording == nil {
		recording = func() bool { return true }
	}
	h := &Hybrid{
		startCh:   make(chan struct{}, 1),
		stopCh:    make(chan struct{}, 1),
		quit:      make(chan struct{}),
		recording: recording,
	}
	go h.run(hk, longPress)
	return h
}

func (h *Hybrid) Start() <-chan struct{} { return h.startCh }

func (h *Hybrid) StopChan() <-chan struct{} { return h.stopCh }

// IsToggle reports whether the current recording was started with a tap.
func (h *Hybrid) IsToggle() bool { return h.toggle.Load() }

// Close stops the state machine.
func (h *Hybrid) Close() { close(h.quit) }

func (h *Hybrid) wait(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	case <-h.quit:
		return false
	}
}

func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

func (h *Hybrid) run(hk Hotkey, longPress time.Duration) {
	tapped := false
	for {
		if !h.wait(hk.Keydown()) {
			return
		}
		if tapped && h.recording() {
			// The press after a tap stops on its release.
			if !h.wait(hk.Keyup()) {
				return
			}
			signal(h.stopCh)
			tapped = false
			continue
		}

		// Start right away; the hold length only decides how it stops.
		tapped = false
		h.toggle.Store(false)
		signal(h.startCh)
		timer := time.NewTimer(longPress)
		select {
		case <-timer.C:
			if !h.wait(hk.Keyup()) {
				return
			}
			signal(h.stopCh)
		case <-hk.Keyup():
			timer.Stop()
			h.toggle.Store(true)
			tapped = true
		case <-h.quit:
			timer.Stop()
			return
		}
	}
}
