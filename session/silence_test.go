package session

import (
	"testing"
	"time"
)

func warnOnlyMonitor() *silenceMonitor {
	return newSilenceMonitor(8*time.Second, 0)
}

func autoStopMonitor() *silenceMonitor {
	return newSilenceMonitor(8*time.Second, 30*time.Second)
}

func feedN(m *silenceMonitor, speech bool, n int) SilenceEvent {
	var last SilenceEvent
	for i := 0; i < n; i++ {
		last = m.Tick(speech)
	}
	return last
}

func TestSilenceWarnAfter8s(t *testing.T) {
	m := warnOnlyMonitor()
	for i := 0; i < 79; i++ {
		if ev := m.Tick(false); ev != SilenceNone {
			t.Fatalf("unexpected event at tick %d: %d", i, ev)
		}
	}
	if ev := m.Tick(false); ev != SilenceWarn {
		t.Fatalf("expected SilenceWarn at tick 80, got %d", ev)
	}
}

func TestSilenceWarnClearsOnSpeech(t *testing.T) {
	m := warnOnlyMonitor()
	feedN(m, false, 80)

	for i := 0; i < 80; i++ {
		if m.Tick(true) == SilenceWarnClear {
			return
		}
	}
	t.Fatal("expected SilenceWarnClear after speech")
}

func TestNoWarnDuringSpeech(t *testing.T) {
	m := warnOnlyMonitor()
	for i := 0; i < 200; i++ {
		if ev := m.Tick(true); ev == SilenceWarn {
			t.Fatalf("unexpected warn during speech at tick %d", i)
		}
	}
}

func TestSilenceRepeat(t *testing.T) {
	m := warnOnlyMonitor()
	feedN(m, false, 80)
	for i := 0; i < 100; i++ {
		if m.Tick(false) == SilenceRepeat {
			return
		}
	}
	t.Fatal("expected SilenceRepeat while warning persists")
}

func TestWarnOnlyOnce(t *testing.T) {
	m := warnOnlyMonitor()
	warns := 0
	for i := 0; i < 300; i++ {
		if m.Tick(false) == SilenceWarn {
			warns++
		}
	}
	if warns != 1 {
		t.Fatalf("expected exactly 1 SilenceWarn, got %d", warns)
	}
}

func TestNoAutoStopWhenDisabled(t *testing.T) {
	m := warnOnlyMonitor()
	for i := 0; i < 400; i++ {
		if ev := m.Tick(false); ev == SilenceAutoStop {
			t.Fatalf("unexpected auto-stop at tick %d", i)
		}
	}
}

func TestAutoStop(t *testing.T) {
	m := autoStopMonitor()
	for i := 0; i < 400; i++ {
		ev := m.Tick(false)
		if ev == SilenceAutoStop {
			if i < 299 {
				t.Fatalf("auto-stop too early at tick %d", i)
			}
			return
		}
		if i >= 300 && ev == SilenceRepeat {
			t.Fatalf("SilenceRepeat fired at tick %d instead of SilenceAutoStop", i)
		}
	}
	t.Fatal("expected SilenceAutoStop within 400 ticks")
}

func TestAutoStopPreventedBySpeech(t *testing.T) {
	m := autoStopMonitor()
	for i := 0; i < 500; i++ {
		speech := i%10 < 7
		if ev := m.Tick(speech); ev == SilenceAutoStop {
			t.Fatalf("unexpected auto-stop with speech at tick %d", i)
		}
	}
}

func TestWarnStaysDuringNoise(t *testing.T) {
	m := warnOnlyMonitor()
	feedN(m, false, 80)

	// Sparse loud frames (< 25%) should not clear the warning.
	for i := 0; i < 80; i++ {
		speech := i%10 == 0
		if m.Tick(speech) == SilenceWarnClear {
			t.Fatalf("warning cleared at tick %d with 10%% speech", i)
		}
	}
}

func TestShortWarnAfter(t *testing.T) {
	m := newSilenceMonitor(10*time.Millisecond, 0)
	if ev := m.Tick(false); ev != SilenceWarn {
		t.Fatalf("expected immediate warn with sub-tick warnAfter, got %d", ev)
	}
}
