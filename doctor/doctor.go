// Package doctor runs interactive checks of everything a dictation session
// depends on: the engine, the global hotkey, the microphone and the
// clipboard.
package doctor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"tale/audio"
	"tale/clipboard"
	"tale/config"
	"tale/hotkey"
	"tale/transcriber"
)

// Deps are the collaborators the checks use. Zero fields get the real
// implementations.
type Deps struct {
	In        io.Reader
	Out       io.Writer
	Engine    func(config.EngineConfig) (transcriber.Transcriber, error)
	Hotkey    func() hotkey.Hotkey
	Audio     func() (audio.Context, error)
	Copy      func(string) error
	Read      func() (string, error)
	Paste     func() error
	RecordFor time.Duration
	Wait      time.Duration // hotkey and clipboard timeouts
}

type doctor struct {
	cfg    config.Config
	d      Deps
	in     *bufio.Reader
	engine transcriber.Transcriber
}

// Run executes the checks and returns an exit code (0=all pass, 1=any fail).
func Run(cfg config.Config) int {
	saveTerminal()
	setupInterruptHandler()
	defer resetTerminal()
	return RunWith(cfg, Deps{})
}

func RunWith(cfg config.Config, d Deps) int {
	if d.In == nil {
		d.In = os.Stdin
	}
	if d.Out == nil {
		d.Out = os.Stdout
	}
	if d.Engine == nil {
		d.Engine = transcriber.New
	}
	if d.Hotkey == nil {
		d.Hotkey = hotkey.New
	}
	if d.Audio == nil {
		d.Audio = audio.NewContext
	}
	if d.Copy == nil {
		d.Copy = clipboard.Copy
	}
	if d.Read == nil {
		d.Read = clipboard.Read
	}
	if d.Paste == nil {
		d.Paste = clipboard.Paste
	}
	if d.RecordFor == 0 {
		d.RecordFor = 3 * time.Second
	}
	if d.Wait == 0 {
		d.Wait = 10 * time.Second
	}

	doc := &doctor{cfg: cfg, d: d, in: bufio.NewReader(d.In)}
	defer func() {
		if doc.engine != nil {
			doc.engine.Close()
		}
	}()

	doc.printf("tale doctor - interactive system diagnostics\n")
	doc.printf("============================================\n")

	checks := []func() bool{doc.checkEngine, doc.checkMicAndTranscription, doc.checkClipboard}
	if cfg.Hotkey {
		checks = append([]func() bool{doc.checkHotkey}, checks...)
	}

	allPass := true
	for i, check := range checks {
		doc.printf("\n[%d/%d] ", i+1, len(checks))
		if !check() {
			allPass = false
			break
		}
	}

	doc.printf("\n")
	if allPass {
		doc.printf("All checks passed!\n")
		return 0
	}
	doc.printf("Some checks failed. See details above.\n")
	return 1
}

func (doc *doctor) printf(format string, args ...any) {
	fmt.Fprintf(doc.d.Out, format, args...)
}

func (doc *doctor) ask(prompt string) string {
	doc.printf("%s", prompt)
	line, _ := doc.in.ReadString('\n')
	return strings.TrimSpace(line)
}

func (doc *doctor) confirm(prompt string) bool {
	a := strings.ToLower(doc.ask(prompt + " [y/n]: "))
	return a == "y" || a == "yes" || a == "j" || a == "ja"
}

func (doc *doctor) checkHotkey() bool {
	doc.printf("Hotkey detection\n")
	doc.printf("Press %s...\n", hotkey.Combo)

	hk := doc.d.Hotkey()
	if err := hk.Register(); err != nil {
		doc.printf("  FAIL: could not register hotkey: %v\n", err)
		return false
	}
	defer hk.Unregister()

	select {
	case <-hk.Keydown():
		doc.printf("  PASS: hotkey detected\n")
		// Wait for keyup so the release does not leak into the next step.
		select {
		case <-hk.Keyup():
		case <-time.After(5 * time.Second):
		}
		resetTerminal()
		return true
	case <-time.After(doc.d.Wait):
		doc.printf("  FAIL: timeout waiting for hotkey\n")
		return false
	}
}

func (doc *doctor) checkEngine() bool {
	doc.printf("Speech engine (%s)\n", doc.cfg.Engine.Mode)

	eng, err := doc.d.Engine(doc.cfg.Engine)
	if err != nil {
		doc.printf("  FAIL: %v\n", err)
		return false
	}
	doc.engine = eng

	start := time.Now()
	_, err = eng.Transcribe(context.Background(), make([]float32, audio.SampleRate), doc.cfg.Language)
	if err != nil {
		doc.printf("  FAIL: engine could not process one second of silence: %v\n", err)
		return false
	}
	doc.printf("  PASS: %s ready (1s of audio in %s)\n", eng.Name(), time.Since(start).Round(time.Millisecond))
	return true
}

func (doc *doctor) checkMicAndTranscription() bool {
	doc.printf("Microphone and transcription\n")

	actx, err := doc.d.Audio()
	if err != nil {
		doc.printf("  FAIL: cannot connect to audio: %v\n", err)
		return false
	}
	defer actx.Close()

	device, ok := doc.pickDevice(actx)
	if !ok {
		return false
	}

	doc.ask(fmt.Sprintf("Press Enter and speak for %s...", doc.d.RecordFor))
	samples, err := doc.record(actx, device)
	if err != nil {
		doc.printf("  FAIL: recording error: %v\n", err)
		return false
	}
	if len(samples) == 0 {
		doc.printf("  FAIL: no audio captured\n")
		return false
	}

	level := audio.RMS(samples)
	doc.printf("  Recorded %.1fs, level %.3f, transcribing...\n", float64(len(samples))/audio.SampleRate, level)
	if level < doc.cfg.Silence.Threshold {
		doc.printf("  Warning: input is below the voice threshold (%.3f); check the mic gain\n", doc.cfg.Silence.Threshold)
	}

	res, err := doc.engine.Transcribe(context.Background(), samples, doc.cfg.Language)
	if err != nil {
		doc.printf("  FAIL: transcription error: %v\n", err)
		return false
	}
	text := strings.TrimSpace(res.Text)
	if text == "" {
		text = "(no speech detected)"
	}
	doc.printf("\n  Transcribed text: %s\n\n", text)

	if doc.confirm("Is this correct?") {
		doc.printf("  PASS: transcription verified by user\n")
		return true
	}
	doc.printf("  FAIL: transcription not confirmed\n")
	return false
}

func (doc *doctor) pickDevice(actx audio.Context) (*audio.DeviceInfo, bool) {
	if doc.cfg.Audio.Device != "" {
		dev, err := audio.FindDevice(actx, doc.cfg.Audio.Device)
		if err == nil && dev != nil {
			doc.printf("Using configured device: %s\n", dev.Name)
			return dev, true
		}
		doc.printf("  Configured device %q not found\n", doc.cfg.Audio.Device)
	}

	devices, err := actx.Devices()
	if err != nil {
		doc.printf("  FAIL: cannot list devices: %v\n", err)
		return nil, false
	}
	if len(devices) == 0 {
		doc.printf("  FAIL: no capture devices found\n")
		return nil, false
	}
	if len(devices) == 1 {
		doc.printf("Using device: %s\n", devices[0].Name)
		return &devices[0], true
	}

	doc.printf("\nSelect input device:\n")
	for i, d := range devices {
		doc.printf("  %d. %s\n", i+1, d.Name)
	}
	choice := doc.ask(fmt.Sprintf("Choice [1-%d]: ", len(devices)))
	idx := 0
	if choice != "" {
		fmt.Sscanf(choice, "%d", &idx)
		idx--
	}
	if idx < 0 || idx >= len(devices) {
		doc.printf("  FAIL: invalid choice\n")
		return nil, false
	}
	doc.printf("Selected: %s\n", devices[idx].Name)
	return &devices[idx], true
}

func (doc *doctor) record(actx audio.Context, device *audio.DeviceInfo) ([]float32, error) {
	capture, err := actx.NewCapture(device, audio.DefaultCaptureConfig())
	if err != nil {
		return nil, err
	}
	defer capture.Close()

	samples := make(chan []float32, 256)
	capture.SetCallback(func(data []float32) {
		c := make([]float32, len(data))
		copy(c, data)
		select {
		case samples <- c:
		default:
		}
	})
	if err := capture.Start(); err != nil {
		return nil, err
	}

	doc.printf("  Recording")
	want := int(doc.d.RecordFor.Seconds() * audio.SampleRate)
	var out []float32
	deadline := time.After(doc.d.RecordFor + 2*time.Second)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
loop:
	for len(out) < want {
		select {
		case c := <-samples:
			out = append(out, c...)
		case <-ticker.C:
			doc.printf(".")
		case <-deadline:
			break loop
		}
	}
	capture.Stop()
	capture.ClearCallback()
	doc.printf(" done\n")
	return out[:min(len(out), want)], nil
}

func (doc *doctor) checkClipboard() bool {
	doc.printf("Clipboard\n")

	testStr := fmt.Sprintf("tale-doctor-%d", time.Now().UnixNano())

	type cbResult struct {
		readback string
		err      error
		phase    string
	}
	ch := make(chan cbResult, 1)
	go func() {
		if err := doc.d.Copy(testStr); err != nil {
			ch <- cbResult{err: err, phase: "write"}
			return
		}
		got, err := doc.d.Read()
		if err != nil {
			ch <- cbResult{err: err, phase: "read"}
			return
		}
		ch <- cbResult{readback: got}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			doc.printf("  FAIL: clipboard %s failed: %v\n", res.phase, res.err)
			return false
		}
		if res.readback != testStr {
			doc.printf("  FAIL: clipboard mismatch: wrote %q, got %q\n", testStr, res.readback)
			return false
		}
		doc.printf("  PASS: clipboard write/read verified\n")
	case <-time.After(doc.d.Wait):
		doc.printf("  FAIL: clipboard timed out (is xclip, xsel or wl-clipboard installed?)\n")
		return false
	}

	if !doc.cfg.AutoPaste {
		return true
	}

	doc.printf("Auto-paste: focus a text editor window...\n")
	for i := 3; i > 0; i-- {
		doc.printf("  %d...\n", i)
		time.Sleep(time.Second)
	}
	if err := doc.d.Copy("tale-doctor-paste"); err != nil {
		doc.printf("  FAIL: clipboard copy failed: %v\n", err)
		return false
	}
	if err := doc.d.Paste(); err != nil {
		doc.printf("  FAIL: paste failed: %v\n", err)
		return false
	}
	resetTerminal()
	if doc.confirm("Did the text \"tale-doctor-paste\" appear?") {
		doc.printf("  PASS: paste verified by user\n")
		return true
	}
	doc.printf("  FAIL: paste not confirmed\n")
	return false
}
