package session

import (
	"sync"
	"time"

	"tale/audio"
)

const (
	voiceFrameMs      = 20
	voiceFrameSamples = audio.SampleRate * voiceFrameMs / 1000 // 320 samples
	voiceDebounce     = 3                                      // consecutive loud frames to confirm voice
	speechTickRatio   = 0.10                                   // share of loud frames for a tick to count as speech
)

// voiceDetector classifies 20 ms frames as voice when their RMS reaches the
// threshold. It is fed from the capture callback and polled from the tick
// loop.
type voiceDetector struct {
	threshold float64

	mu            sync.Mutex
	buf           []float32
	voiceDetected bool
	lastVoiceTime time.Time
	speechRun     int
	totalFrames   int
	speechFrames  int
	tickTotal     int
	tickSpeech    int
	peak          float64
}

func newVoiceDetector(threshold float64) *voiceDetector {
	return &voiceDetector{threshold: threshold}
}

func (d *voiceDetector) Process(samples []float32) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.buf = append(d.buf, samples...)
	for len(d.buf) >= voiceFrameSamples {
		frame := d.buf[:voiceFrameSamples]
		rms := audio.RMS(frame)
		d.buf = d.buf[voiceFrameSamples:]

		if rms > d.peak {
			d.peak = rms
		}
		d.totalFrames++
		if rms >= d.threshold {
			d.speechFrames++
			d.speechRun++
			if d.voiceDetected {
				d.lastVoiceTime = time.Now()
			} else if d.speechRun >= voiceDebounce {
				d.voiceDetected = true
				d.lastVoiceTime = time.Now()
			}
		} else {
			d.speechRun = 0
		}
	}
}

func (d *voiceDetector) VoiceDetected() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.voiceDetected
}

func (d *voiceDetector) LastVoiceTime() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastVoiceTime
}

// HasSpeechTick reports whether enough frames since the previous call were
// loud, and returns the peak frame level seen in that span.
func (d *voiceDetector) HasSpeechTick() (bool, float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t := d.totalFrames - d.tickTotal
	s := d.speechFrames - d.tickSpeech
	d.tickTotal, d.tickSpeech = d.totalFrames, d.speechFrames
	peak := d.peak
	d.peak = 0
	if t == 0 {
		return false, peak
	}
	return float64(s)/float64(t) >= speechTickRatio, peak
}

func (d *voiceDetector) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.buf = d.buf[:0]
	d.voiceDetected = false
	d.lastVoiceTime = time.Time{}
	d.speechRun = 0
	d.totalFrames, d.speechFrames = 0, 0
	d.tickTotal, d.tickSpeech = 0, 0
	d.peak = 0
}
