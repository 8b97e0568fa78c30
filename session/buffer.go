package session

import (
	"sync"
	"time"
)

// Buffer holds the chunks delivered by the capture callback for the current
// recording, in arrival order.
type Buffer struct {
	mu     sync.Mutex
	chunks [][]float32
	n      int
}

// Append stores a copy of chunk. Capture backends reuse their buffers
// between callbacks.
func (b *Buffer) Append(chunk []float32) {
	if len(chunk) == 0 {
		return
	}
	c := make([]float32, len(chunk))
	copy(c, chunk)
	b.mu.Lock()
	b.chunks = append(b.chunks, c)
	b.n += len(c)
	b.mu.Unlock()
}

func (b *Buffer) Reset() {
	b.mu.Lock()
	b.chunks = nil
	b.n = 0
	b.mu.Unlock()
}

// Len returns the number of buffered samples.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.n
}

func (b *Buffer) Chunks() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.chunks)
}

// Concat joins all chunks into one slice. Sample order is preserved.
func (b *Buffer) Concat() []float32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]float32, 0, b.n)
	for _, c := range b.chunks {
		out = append(out, c...)
	}
	return out
}

func (b *Buffer) Duration(sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(b.Len()) * time.Second / time.Duration(sampleRate)
}
