package hotkey

import (
	"sync/atomic"
	"testing"
	"time"
)

const longPress = 60 * time.Millisecond

// step is one scripted hotkey action followed by an expected outcome.
type step struct {
	down     bool          // press, otherwise release
	hold     time.Duration // sleep before the action
	want     string        // "start", "stop" or "" for no event
	isToggle *bool         // checked after the event settles
}

func ptr(b bool) *bool { return &b }

func expect(t *testing.T, hy *Hybrid, want string) {
	t.Helper()
	timeout := time.After(time.Second)
	quiet := time.After(40 * time.Millisecond)
	for {
		select {
		case <-hy.Start():
			if want != "start" {
				t.Fatalf("unexpected start, want %q", want)
			}
			return
		case <-hy.StopChan():
			if want != "stop" {
				t.Fatalf("unexpected stop, want %q", want)
			}
			return
		case <-quiet:
			if want == "" {
				return
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s", want)
		}
	}
}

func TestHybrid(t *testing.T) {
	tests := []struct {
		name  string
		steps []step
	}{
		{"hold to talk", []step{
			{down: true, want: "start"},
			{hold: longPress + 20*time.Millisecond, want: "stop", isToggle: ptr(false)},
		}},
		{"tap toggles", []step{
			{down: true, want: "start"},
			{want: "", isToggle: ptr(true)},
			{down: true, want: ""},
			{want: "stop"},
		}},
		{"hold then tap then hold", []step{
			{down: true, want: "start"},
			{hold: longPress + 20*time.Millisecond, want: "stop"},
			{down: true, want: "start"},
			{want: ""},
			{down: true, want: ""},
			{want: "stop"},
			{down: true, want: "start"},
			{hold: longPress + 20*time.Millisecond, want: "stop"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fk := NewFake()
			hy := NewHybrid(fk, longPress, nil)
			defer hy.Close()
			for i, s := range tt.steps {
				time.Sleep(s.hold)
				if s.down {
					fk.SimKeydown()
				} else {
					fk.SimKeyup()
				}
				expect(t, hy, s.want)
				if s.isToggle != nil && hy.IsToggle() != *s.isToggle {
					t.Errorf("step %d: IsToggle = %v, want %v", i, hy.IsToggle(), *s.isToggle)
				}
			}
		})
	}
}

func TestHybridTapAfterRecordingEndedElsewhere(t *testing.T) {
	fk := NewFake()
	var recording atomic.Bool
	hy := NewHybrid(fk, longPress, recording.Load)
	defer hy.Close()

	fk.SimKeydown()
	expect(t, hy, "start")
	recording.Store(true)
	fk.SimKeyup()
	expect(t, hy, "")

	// Stopped by a button or auto-stop: the next tap starts again.
	recording.Store(false)
	fk.SimKeydown()
	expect(t, hy, "start")
	recording.Store(true)
	fk.SimKeyup()
	expect(t, hy, "")
	if !hy.IsToggle() {
		t.Error("second tap should be a toggle recording")
	}

	fk.SimKeydown()
	fk.SimKeyup()
	expect(t, hy, "stop")
}

func TestHybridClose(t *testing.T) {
	fk := NewFake()
	hy := NewHybrid(fk, longPress, nil)
	hy.Close()
	time.Sleep(10 * time.Millisecond)
	fk.SimKeydown()
	expect(t, hy, "")
}

func TestFakeRegister(t *testing.T) {
	fk := NewFake()
	if err := fk.Register(); err != nil {
		t.Fatal(err)
	}
	if !fk.Registered() {
		t.Fatal("expected registered")
	}
	fk.Unregister()
	if fk.Registered() {
		t.Fatal("expected unregistered")
	}
}
