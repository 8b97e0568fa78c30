package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"tale/audio"
	"tale/transcriber"
)

// Clipboard is where finished transcripts go.
type Clipboard interface {
	Copy(text string) error
}

// Transcript describes one finished session.
type Transcript struct {
	ID         string
	Text       string
	Language   string
	Engine     string
	Samples    []float32
	Audio      time.Duration
	Transcribe time.Duration
	StartedAt  time.Time
	// Copied is false when the clipboard write failed. The text is in the
	// log, but the clipboard still holds whatever was there before.
	Copied bool
}

// Hooks are optional callbacks for side effects outside the UI (beeps,
// notifications, archive, logs). They run on the controller's goroutines.
type Hooks struct {
	OnStart      func(id string)
	OnStop       func(id string, audio time.Duration)
	OnTranscript func(t Transcript)
	OnNoAudio    func(id string, noSpeech bool)
	OnError      func(id string, err error)
	OnSilence    func(ev SilenceEvent)
}

type Config struct {
	Capture     audio.CaptureDevice
	Transcriber transcriber.Transcriber
	Clipboard   Clipboard
	Sink        Sink
	Hooks       Hooks
	Language    string

	SilenceWarnAfter time.Duration // 0 disables the no-voice warning
	SilenceThreshold float64
	SilenceAutoStop  time.Duration // 0 disables
}

// Controller owns the session state. All transitions go through it; at most
// one task (a recording or a transcription) runs at a time.
type Controller struct {
	capture audio.CaptureDevice
	engine  transcriber.Transcriber
	clip    Clipboard
	sink    Sink
	hooks   Hooks

	warnAfter time.Duration
	autoStop  time.Duration

	buf   Buffer
	log   Log
	voice *voiceDetector

	op        sync.Mutex // serializes Start, Stop and Close
	mu        sync.Mutex
	state     State
	lang      string
	sessionID string
	startedAt time.Time
	last      string
	cancel    context.CancelFunc
	done      chan struct{}
	closed    bool
}

func NewController(cfg Config) *Controller {
	sink := cfg.Sink
	if sink == nil {
		sink = nopSink{}
	}
	return &Controller{
		capture:   cfg.Capture,
		engine:    cfg.Transcriber,
		clip:      cfg.Clipboard,
		sink:      sink,
		hooks:     cfg.Hooks,
		warnAfter: cfg.SilenceWarnAfter,
		autoStop:  cfg.SilenceAutoStop,
		voice:     newVoiceDetector(cfg.SilenceThreshold),
		lang:      cfg.Language,
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Language() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lang
}

// SetLanguage selects the language for the next transcription. A running
// transcription keeps the language it started with.
func (c *Controller) SetLanguage(code string) {
	c.mu.Lock()
	c.lang = code
	c.mu.Unlock()
}

// Log exposes the transcript log for rendering.
func (c *Controller) Log() *Log { return &c.log }

func (c *Controller) LastTranscript() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// Start begins recording. It is a no-op unless the controller is Idle.
func (c *Controller) Start() bool {
	c.op.Lock()
	defer c.op.Unlock()

	c.mu.Lock()
	if c.state != Idle || c.closed {
		c.mu.Unlock()
		return false
	}
	c.buf.Reset()
	c.voice.Reset()
	c.sessionID = uuid.NewString()
	c.startedAt = time.Now()
	// State flips before the stream starts so the first callback is kept.
	c.state = Recording
	id := c.sessionID
	c.mu.Unlock()

	c.capture.SetCallback(c.onAudio)
	if err := c.capture.Start(); err != nil {
		c.capture.ClearCallback()
		c.mu.Lock()
		c.state = Idle
		c.mu.Unlock()
		c.fail(id, fmt.Errorf("start capture: %w", err))
		c.sink.StateChanged(Idle)
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	c.mu.Lock()
	c.cancel, c.done = cancel, done
	c.mu.Unlock()

	c.sink.StateChanged(Recording)
	c.sink.Status(StatusListening, "")
	c.sink.NoVoiceWarning(false)
	if c.hooks.OnStart != nil {
		c.hooks.OnStart(id)
	}
	go c.monitor(ctx, done)
	return true
}

// Stop ends the recording and starts transcribing in the background. It is
// a no-op unless the controller is Recording.
func (c *Controller) Stop() bool {
	c.op.Lock()
	defer c.op.Unlock()

	c.mu.Lock()
	if c.state != Recording {
		c.mu.Unlock()
		return false
	}
	c.state = Transcribing
	c.cancel()
	recDone := c.done
	id := c.sessionID
	c.mu.Unlock()

	<-recDone
	c.capture.Stop()
	c.capture.ClearCallback()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	c.mu.Lock()
	c.cancel, c.done = cancel, done
	j := job{id: id, lang: c.lang, startedAt: c.startedAt}
	c.mu.Unlock()

	c.sink.StateChanged(Transcribing)
	c.sink.Status(StatusTranscribing, "")
	c.sink.NoVoiceWarning(false)
	if c.hooks.OnStop != nil {
		c.hooks.OnStop(id, c.buf.Duration(audio.SampleRate))
	}
	go c.transcribe(ctx, j, done)
	return true
}

// Toggle starts when Idle and stops when Recording. It does nothing while a
// transcription is running.
func (c *Controller) Toggle() {
	switch c.State() {
	case Idle:
		c.Start()
	case Recording:
		c.Stop()
	}
}

// Wait blocks until the controller is Idle again. While Recording it waits
// for the recording to be stopped and transcribed.
func (c *Controller) Wait() {
	for {
		c.mu.Lock()
		done := c.done
		state := c.state
		c.mu.Unlock()
		if state == Idle || done == nil {
			return
		}
		<-done
		c.mu.Lock()
		state = c.state
		same := c.done == done
		c.mu.Unlock()
		if state == Idle {
			return
		}
		if same {
			// Stop is between the recording and the transcription task.
			time.Sleep(time.Millisecond)
		}
	}
}

// Close cancels any running task and stops capture. The controller cannot
// be started again afterwards.
func (c *Controller) Close() {
	c.op.Lock()
	c.mu.Lock()
	c.closed = true
	cancel := c.cancel
	recording := c.state == Recording
	done := c.done
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if recording {
		<-done
		c.capture.Stop()
		c.capture.ClearCallback()
		c.mu.Lock()
		c.state = Idle
		c.cancel = nil
		c.mu.Unlock()
		c.sink.StateChanged(Idle)
	}
	c.op.Unlock()
	c.Wait()
}

// Clear empties the transcript log.
func (c *Controller) Clear() {
	c.log.Clear()
	c.sink.LogChanged("")
	c.sink.Status(StatusCleared, "")
}

// CopyAll copies the whole log to the clipboard.
func (c *Controller) CopyAll() {
	c.copyText(c.log.Text(), StatusCopiedAll)
}

// CopyText copies a selection from the transcript view.
func (c *Controller) CopyText(text string) {
	c.copyText(text, StatusCopied)
}

func (c *Controller) copyText(text string, ok Status) {
	if strings.TrimSpace(text) == "" {
		c.sink.Status(StatusNothingToCopy, "")
		return
	}
	if err := c.clip.Copy(text); err != nil {
		c.fail("", fmt.Errorf("clipboard: %w", err))
		return
	}
	c.sink.Status(ok, "")
}

// EditLog records a user edit of the transcript view.
func (c *Controller) EditLog(text string) {
	c.log.SetText(text)
}

type job struct {
	id        string
	lang      string
	startedAt time.Time
}

func (c *Controller) onAudio(samples []float32) {
	c.mu.Lock()
	recording := c.state == Recording
	c.mu.Unlock()
	if !recording {
		return
	}
	c.buf.Append(samples)
	c.voice.Process(samples)
}

// monitor reports level and duration while recording and runs the silence
// monitor.
func (c *Controller) monitor(ctx context.Context, done chan struct{}) {
	defer close(done)

	var mon *silenceMonitor
	if c.warnAfter > 0 {
		mon = newSilenceMonitor(c.warnAfter, c.autoStop)
	}
	start := time.Now()
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.sink.RecordingTick(time.Since(start).Seconds())
			speech, level := c.voice.HasSpeechTick()
			c.sink.AudioLevel(level)
			if mon == nil {
				continue
			}
			ev := mon.Tick(speech)
			switch ev {
			case SilenceWarn, SilenceRepeat:
				c.sink.NoVoiceWarning(true)
			case SilenceWarnClear:
				c.sink.NoVoiceWarning(false)
			}
			if ev != SilenceNone && c.hooks.OnSilence != nil {
				c.hooks.OnSilence(ev)
			}
			if ev == SilenceAutoStop {
				// Stop waits for this goroutine; hand it off.
				go c.Stop()
				return
			}
		}
	}
}

func (c *Controller) transcribe(ctx context.Context, j job, done chan struct{}) {
	defer close(done)
	defer c.finish(done)

	samples := c.buf.Concat()
	if len(samples) == 0 {
		c.sink.Status(StatusNoAudio, "")
		if c.hooks.OnNoAudio != nil {
			c.hooks.OnNoAudio(j.id, false)
		}
		return
	}

	start := time.Now()
	res, err := c.engine.Transcribe(ctx, samples, j.lang)
	elapsed := time.Since(start)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			c.sink.Status(StatusReady, "")
			return
		}
		c.fail(j.id, err)
		return
	}

	text := strings.TrimSpace(res.Text)
	if text == "" {
		c.sink.Status(StatusNoSpeech, "")
		if c.hooks.OnNoAudio != nil {
			c.hooks.OnNoAudio(j.id, true)
		}
		return
	}

	copyErr := c.clip.Copy(text)
	full := c.log.Append(text)
	c.mu.Lock()
	c.last = text
	c.mu.Unlock()
	c.sink.LogChanged(full)

	if copyErr != nil {
		c.fail(j.id, fmt.Errorf("clipboard: %w", copyErr))
	} else {
		c.sink.Status(StatusCopied, "")
	}

	if c.hooks.OnTranscript != nil {
		c.hooks.OnTranscript(Transcript{
			ID:         j.id,
			Text:       text,
			Language:   j.lang,
			Engine:     c.engine.Name(),
			Samples:    samples,
			Audio:      time.Duration(len(samples)) * time.Second / audio.SampleRate,
			Transcribe: elapsed,
			StartedAt:  j.startedAt,
			Copied:     copyErr == nil,
		})
	}
}

// finish returns to Idle unless another task has already taken over.
func (c *Controller) finish(done chan struct{}) {
	c.mu.Lock()
	if c.done != done {
		c.mu.Unlock()
		return
	}
	c.state = Idle
	c.cancel = nil
	c.mu.Unlock()
	c.sink.StateChanged(Idle)
}

func (c *Controller) fail(id string, err error) {
	c.sink.Status(StatusFailed, err.Error())
	if c.hooks.OnError != nil {
		c.hooks.OnError(id, err)
	}
}
