// Package encoder compresses session audio for the archive.
package encoder

const (
	SampleRate    = 16000
	Channels      = 1
	BitsPerSample = 16
	BlockSize     = 4096
)

// PCM16 converts float samples in [-1, 1] to 16-bit integers, clipping
// anything outside that range.
func PCM16(samples []float32) []int16 {
	out := make([]int16, len(samples))
	for i, s := range samples {
		s = min(max(s, -1), 1)
		out[i] = int16(s * 32767)
	}
	return out
}
