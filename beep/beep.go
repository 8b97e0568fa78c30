// Package beep plays the short cues for recording start, stop and warnings.
package beep

import (
	"math"
	"sync/atomic"
)

var disabled atomic.Bool

func Disable()       { disabled.Store(true) }
func Enable()        { disabled.Store(false) }
func Disabled() bool { return disabled.Load() }

const (
	sampleRate = 44100

	// Start beep: high pitch, short
	startFreq   = 1200
	startVolume = 0.5
	startDecay  = 60

	// End beep: medium pitch, slightly longer
	endFreq   = 900
	endVolume = 0.5
	endDecay  = 40

	// Error beep: low pitch double-beep
	errorFreq   = 350
	errorVolume = 0.6
	errorDecay  = 30
)

var (
	startSamples = generateTick(startFreq, tickTail, startVolume, startDecay)
	endSamples   = generateTick(endFreq, tickTail, endVolume, endDecay)
	errorSamples = generateDoubleBeep(errorFreq, 0.08, 0.05, errorVolume, errorDecay)
)

// generateTick returns a decaying sine as mono samples.
func generateTick(freq, duration, volume, decay float64) []int16 {
	n := int(sampleRate * duration)
	samples := make([]int16, n)
	for i := range samples {
		t := float64(i) / sampleRate
		envelope := math.Exp(-t * decay)
		samples[i] = int16(math.Sin(2*math.Pi*freq*t) * 32767 * volume * envelope)
	}
	return samples
}

func generateDoubleBeep(freq, beepDur, gapDur, volume, decay float64) []int16 {
	beep := generateTick(freq, beepDur, volume, decay)
	gap := make([]int16, int(sampleRate*gapDur))
	result := make([]int16, 0, len(beep)*2+len(gap))
	result = append(result, beep...)
	result = append(result, gap...)
	result = append(result, beep...)
	return result
}

func PlayStart() {
	if !Disabled() {
		play(startSamples)
	}
}

func PlayEnd() {
	if !Disabled() {
		play(endSamples)
	}
}

func PlayError() {
	if !Disabled() {
		play(errorSamples)
	}
}
