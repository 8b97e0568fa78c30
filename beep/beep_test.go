package beep

import "testing"

func TestGenerateTick(t *testing.T) {
	s := generateTick(1000, 0.1, 0.5, 40)
	if len(s) != sampleRate/10 {
		t.Fatalf("len = %d, want %d", len(s), sampleRate/10)
	}
	var peak int16
	for _, v := range s {
		if v > peak {
			peak = v
		}
	}
	if peak < 10000 || peak > 16384 {
		t.Errorf("peak %d outside expected range for volume 0.5", peak)
	}
	// Envelope decays: the tail is quieter than the head.
	head, tail := maxAbs(s[:len(s)/10]), maxAbs(s[len(s)*9/10:])
	if tail >= head {
		t.Errorf("no decay: head %d tail %d", head, tail)
	}
}

func TestGenerateDoubleBeep(t *testing.T) {
	single := generateTick(errorFreq, 0.08, errorVolume, errorDecay)
	double := generateDoubleBeep(errorFreq, 0.08, 0.05, errorVolume, errorDecay)
	gap := int(sampleRate * 0.05)
	if len(double) != 2*len(single)+gap {
		t.Fatalf("len = %d, want %d", len(double), 2*len(single)+gap)
	}
	for i := len(single); i < len(single)+gap; i++ {
		if double[i] != 0 {
			t.Fatalf("gap not silent at %d", i)
		}
	}
}

func TestDisable(t *testing.T) {
	Disable()
	defer Enable()
	if !Disabled() {
		t.Fatal("expected disabled")
	}
	// Must return without touching the audio device.
	PlayStart()
	PlayEnd()
	PlayError()
}

func maxAbs(s []int16) int16 {
	var m int16
	for _, v := range s {
		if v < 0 {
			v = -v
		}
		m = max(m, v)
	}
	return m
}
