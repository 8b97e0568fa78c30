package encoder

import (
	"bytes"
	"io"
	"math"
	"testing"

	"github.com/mewkiz/flac"
)

func sine(n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(0.5 * math.Sin(2*math.Pi*440*float64(i)/SampleRate))
	}
	return out
}

func decodeAll(t *testing.T, data []byte) []int32 {
	t.Helper()
	stream, err := flac.New(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("flac.New: %v", err)
	}
	defer stream.Close()
	if stream.Info.SampleRate != SampleRate || stream.Info.NChannels != Channels {
		t.Fatalf("stream info = %+v", stream.Info)
	}
	var out []int32
	for {
		f, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ParseNext: %v", err)
		}
		out = append(out, f.Subframes[0].Samples...)
	}
	return out
}

func TestFlacRoundTrip(t *testing.T) {
	in := sine(BlockSize*2 + BlockSize/3)
	data, err := EncodeFlac(in)
	if err != nil {
		t.Fatalf("EncodeFlac: %v", err)
	}
	if len(data) < 4 || string(data[:4]) != "fLaC" {
		t.Fatal("output does not start with FLAC magic")
	}

	got := decodeAll(t, data)
	want := PCM16(in)
	if len(got) != len(want) {
		t.Fatalf("decoded %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != int32(want[i]) {
			t.Fatalf("sample %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestFlacIncrementalWrites(t *testing.T) {
	enc, err := NewFlac()
	if err != nil {
		t.Fatalf("NewFlac: %v", err)
	}
	in := sine(BlockSize + 100)
	for i := 0; i < len(in); i += 1000 {
		if err := enc.Write(in[i:min(i+1000, len(in))]); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if enc.TotalFrames() != BlockSize {
		t.Errorf("TotalFrames before Close = %d, want %d", enc.TotalFrames(), BlockSize)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if enc.TotalFrames() != uint64(len(in)) {
		t.Errorf("TotalFrames = %d, want %d", enc.TotalFrames(), len(in))
	}
	if err := enc.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if err := enc.Write(in); err == nil {
		t.Error("Write after Close should fail")
	}
}

func TestFlacEncoderEmpty(t *testing.T) {
	enc, err := NewFlac()
	if err != nil {
		t.Fatalf("NewFlac: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close on empty encoder: %v", err)
	}
	if enc.TotalFrames() != 0 {
		t.Errorf("TotalFrames = %d, want 0", enc.TotalFrames())
	}
	if len(enc.Bytes()) == 0 {
		t.Error("expected non-empty FLAC output (at least header)")
	}
}

func TestPCM16Clips(t *testing.T) {
	got := PCM16([]float32{-2, -1, 0, 0.5, 1, 3})
	want := []int16{-32767, -32767, 0, 16383, 32767, 32767}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("PCM16[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}
