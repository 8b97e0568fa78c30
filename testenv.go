package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"tale/audio"
	"tale/config"
	"tale/hotkey"
	"tale/log"
	"tale/session"
	"tale/transcriber"
)

// memClipboard keeps the last copied text in memory so test runs never touch
// the desktop clipboard.
type memClipboard struct {
	mu   sync.Mutex
	text string
}

func (m *memClipboard) Copy(text string) error {
	m.mu.Lock()
	m.text = text
	m.mu.Unlock()
	return nil
}

func (m *memClipboard) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

// runTestMode replays wavPath as the microphone and drives the controller
// from line commands on in:
//
//	START, STOP, TOGGLE      controller operations
//	KEYDOWN, KEYUP           simulated hotkey (tap toggles, hold records)
//	WAIT                     block until the controller is idle
//	WAIT_AUDIO_DONE          block until the whole file has been captured
//	SLEEP <ms>
//	LANG <code>              select transcription language
//	CLEAR, COPYALL, CLIPBOARD, PRINT
//	QUIT
func runTestMode(cfg config.Config, engine transcriber.Transcriber, wavPath string, in io.Reader, out io.Writer) int {
	defer log.Close()
	defer engine.Close()

	fakeCtx, err := audio.NewFakeContext(wavPath, true)
	if err != nil {
		fmt.Fprintf(out, "Error loading WAV: %v\n", err)
		return 1
	}
	capture, err := fakeCtx.NewCapture(nil, audio.DefaultCaptureConfig())
	if err != nil {
		fmt.Fprintf(out, "Error creating capture: %v\n", err)
		return 1
	}
	defer capture.Close()
	fakeCapture := capture.(*audio.FakeCapture)

	cfg.AutoPaste = false
	cfg.Notify = false
	fx := newEffects(cfg)
	sink := newConsoleSink(out, cfg.UILanguage)
	hooks := fx.hooks()
	onTranscript := hooks.OnTranscript
	hooks.OnTranscript = func(t session.Transcript) {
		onTranscript(t)
		sink.printf("transcript: %s\n", t.Text)
	}

	clip := &memClipboard{}
	ctrl := session.NewController(session.Config{
		Capture:          capture,
		Transcriber:      engine,
		Clipboard:        clip,
		Sink:             session.Sinks{sink, logSink{}},
		Hooks:            hooks,
		Language:         cfg.Language,
		SilenceWarnAfter: cfg.Silence.WarnAfter,
		SilenceThreshold: cfg.Silence.Threshold,
		SilenceAutoStop:  cfg.Silence.AutoStop,
	})
	log.SessionStart(engine.Name(), capture.DeviceName(), cfg.Language)

	hk := hotkey.NewFake()
	ctx, cancel := context.WithCancel(context.Background())
	hotkeyDone := make(chan struct{})
	go func() {
		defer close(hotkeyDone)
		driveHotkey(ctx, ctrl, hk, 350*time.Millisecond)
	}()
	defer func() {
		cancel()
		<-hotkeyDone
		ctrl.Close()
		log.SessionEnd(fx.count())
	}()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		cmd, arg, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		switch cmd {
		case "":
		case "START":
			ctrl.Start()
		case "STOP":
			ctrl.Stop()
		case "TOGGLE":
			ctrl.Toggle()
		case "KEYDOWN":
			hk.SimKeydown()
		case "KEYUP":
			hk.SimKeyup()
		case "WAIT":
			// Hotkey events reach the controller asynchronously.
			time.Sleep(20 * time.Millisecond)
			ctrl.Wait()
		case "WAIT_AUDIO_DONE":
			<-fakeCapture.AudioDone()
		case "SLEEP":
			if ms, err := strconv.Atoi(arg); err == nil {
				time.Sleep(time.Duration(ms) * time.Millisecond)
			}
		case "LANG":
			ctrl.SetLanguage(arg)
		case "CLEAR":
			ctrl.Clear()
		case "COPYALL":
			ctrl.CopyAll()
		case "CLIPBOARD":
			sink.printf("clipboard: %s\n", clip.Text())
		case "PRINT":
			for _, line := range strings.Split(ctrl.Log().Text(), "\n") {
				sink.printf("log: %s\n", line)
			}
		case "QUIT":
			return 0
		default:
			sink.printf("unknown command: %s\n", cmd)
		}
	}
	return 0
}
