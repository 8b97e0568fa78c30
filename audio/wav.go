package audio

import (
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// LoadWAV decodes a PCM WAV file into mono float32 samples in [-1, 1].
// Multi-channel files are averaged down to one channel.
func LoadWAV(path string) ([]float32, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("%s: not a valid WAV file", path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("decoding %s: %w", path, err)
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := 1.0 / float32(int64(1)<<(bitDepth-1))
	channels := max(buf.Format.NumChannels, 1)

	samples := make([]float32, len(buf.Data)/channels)
	for i := range samples {
		var sum int
		for j := 0; j < channels; j++ {
			sum += buf.Data[i*channels+j]
		}
		samples[i] = float32(sum) / float32(channels) * scale
	}
	return samples, int(dec.SampleRate), nil
}

// WriteWAV encodes mono float32 samples as 16-bit PCM WAV. Samples outside
// [-1, 1] are clipped.
func WriteWAV(w io.WriteSeeker, samples []float32, rate int) error {
	data := make([]int, len(samples))
	for i, s := range samples {
		s = min(max(s, -1), 1)
		data[i] = int(s * 32767)
	}
	enc := wav.NewEncoder(w, rate, 16, 1, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close wav encoder: %w", err)
	}
	return nil
}
