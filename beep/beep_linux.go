//go:build linux

package beep

import (
	"sync"

	"github.com/jfreymuth/pulse"
	"github.com/jfreymuth/pulse/proto"
)

// Pulse starts playback only once its prebuffer is full, so ticks are
// padded to 200ms to keep the audible start from being swallowed.
const tickTail = 0.2

var (
	initOnce sync.Once
	queue    = make(chan []int16, 4)
)

// Init connects to the sound server and starts the playback worker.
// Cues beyond the queue depth, or played while the server is unreachable,
// are dropped.
func Init() {
	initOnce.Do(func() {
		c, err := pulse.NewClient(pulse.ClientApplicationName("tale"))
		if err != nil {
			return
		}
		go worker(c, queue)
	})
}

func play(samples []int16) {
	select {
	case queue <- samples:
	default:
	}
}

// worker plays cues one at a time so a stop tick never overlaps the
// start tick of a quick tap.
func worker(c *pulse.Client, q <-chan []int16) {
	for samples := range q {
		playOnce(c, samples)
	}
}

func playOnce(c *pulse.Client, samples []int16) {
	if len(samples) == 0 {
		return
	}
	pos := 0
	src := pulse.Int16Reader(func(buf []int16) (int, error) {
		if pos >= len(samples) {
			return 0, pulse.EndOfData
		}
		n := copy(buf, samples[pos:])
		pos += n
		return n, nil
	})
	stream, err := c.NewPlayback(src,
		pulse.PlaybackMono,
		pulse.PlaybackSampleRate(sampleRate),
		pulse.PlaybackLatency(0.1),
		pulse.PlaybackRawOption(func(p *proto.CreatePlaybackStream) {
			p.ChannelVolumes = proto.ChannelVolumes{uint32(proto.VolumeNorm)}
		}),
	)
	if err != nil {
		return
	}
	defer stream.Close()
	stream.Start()
	stream.Drain()
	stream.Stop()
}
