//go:build linux

package audio

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/jfreymuth/pulse"
	"github.com/jfreymuth/pulse/proto"
)

// pulseLatency is the requested fragment length in seconds. Short
// fragments keep the level meter and the silence detector responsive.
const pulseLatency = 0.05

type pulseContext struct {
	client *pulse.Client
}

// NewContext connects to the PulseAudio (or PipeWire-pulse) server.
func NewContext() (Context, error) {
	c, err := pulse.NewClient(pulse.ClientApplicationName("tale"))
	if err != nil {
		return nil, fmt.Errorf("connect to pulse: %w", err)
	}
	return &pulseContext{client: c}, nil
}

func (p *pulseContext) Devices() ([]DeviceInfo, error) {
	sources, err := p.client.ListSources()
	if err != nil {
		return nil, fmt.Errorf("list pulse sources: %w", err)
	}
	devices := make([]DeviceInfo, 0, len(sources))
	for _, s := range sources {
		devices = append(devices, DeviceInfo{ID: s.ID(), Name: s.Name()})
	}
	return devices, nil
}

func (p *pulseContext) NewCapture(device *DeviceInfo, cfg CaptureConfig) (CaptureDevice, error) {
	if cfg.Channels != 1 {
		return nil, fmt.Errorf("pulse capture is mono only, got %d channels", cfg.Channels)
	}
	c := &pulseCapture{client: p.client, cfg: cfg, name: "system default"}
	if device != nil {
		src, err := p.client.SourceByID(device.ID)
		if err != nil {
			return nil, fmt.Errorf("pulse source %q: %w", device.Name, err)
		}
		c.source = src
		c.name = device.Name
	}
	return c, nil
}

func (p *pulseContext) Close() { p.client.Close() }

type pulseCapture struct {
	client *pulse.Client
	source *pulse.Source
	cfg    CaptureConfig
	name   string
	cb     atomic.Pointer[DataCallback]

	mu     sync.Mutex
	stream *pulse.RecordStream
}

func (c *pulseCapture) deliver(buf []float32) (int, error) {
	if cb := c.cb.Load(); cb != nil && len(buf) > 0 {
		(*cb)(buf)
	}
	return len(buf), nil
}

// Start opens a record stream at unity gain. Calling Start on a running
// capture is a no-op.
func (c *pulseCapture) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stream != nil {
		return nil
	}

	opts := []pulse.RecordOption{
		pulse.RecordMono,
		pulse.RecordSampleRate(int(c.cfg.SampleRate)),
		pulse.RecordLatency(pulseLatency),
		pulse.RecordRawOption(func(r *proto.CreateRecordStream) {
			r.ChannelVolumes = proto.ChannelVolumes{uint32(proto.VolumeNorm)}
		}),
	}
	if c.source != nil {
		opts = append(opts, pulse.RecordSource(c.source))
	}

	stream, err := c.client.NewRecord(pulse.Float32Writer(c.deliver), opts...)
	if err != nil {
		return fmt.Errorf("open pulse record stream: %w", err)
	}
	stream.Start()
	c.stream = stream
	return nil
}

func (c *pulseCapture) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stream == nil {
		return
	}
	c.stream.Stop()
	c.stream.Close()
	c.stream = nil
}

func (c *pulseCapture) Close() { c.Stop() }

func (c *pulseCapture) SetCallback(cb DataCallback) { c.cb.Store(&cb) }

func (c *pulseCapture) ClearCallback() { c.cb.Store(nil) }

func (c *pulseCapture) DeviceName() string { return c.name }
