package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"tale/audio"
	"tale/beep"
	"tale/clipboard"
	"tale/config"
	"tale/doctor"
	"tale/hotkey"
	"tale/log"
	"tale/session"
	"tale/shutdown"
	"tale/transcriber"
)

var version = "dev"

type options struct {
	configPath string
	setup      bool
	gui        bool
	tui        bool
	test       bool
	testWAV    string
	doctor     bool
	longPress  time.Duration
}

// app is everything a running front end needs.
type app struct {
	cfg     config.Config
	opts    options
	audio   audio.Context
	capture audio.CaptureDevice
	engine  transcriber.Transcriber
	ctrl    *session.Controller
	fx      *effects
}

func parseFlags(args []string) (config.Config, options, error) {
	fs := flag.NewFlagSet("tale", flag.ContinueOnError)
	var o options
	fs.StringVar(&o.configPath, "config", config.DefaultPath(), "Path to YAML config file")
	langFlag := fs.String("lang", "", "Transcription language code (e.g. no, en). Empty = auto-detect")
	uiLangFlag := fs.String("ui-lang", "", "UI language: nb or en")
	engineFlag := fs.String("engine", "", "Speech engine: whisper, exec or mock")
	modelFlag := fs.String("model", "", "Path to the whisper.cpp ggml model")
	commandFlag := fs.String("command", "", "Command line for the exec engine")
	deviceFlag := fs.String("device", "", "Use named microphone device")
	archiveFlag := fs.String("archive", "", "Directory to archive each session as FLAC + text")
	logPathFlag := fs.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	autoPasteFlag := fs.Bool("autopaste", false, "Auto-paste to focused window after transcription")
	notifyFlag := fs.Bool("notify", false, "Show a desktop notification after each transcription")
	beepFlag := fs.Bool("beep", true, "Play start/stop tones")
	hotkeyFlag := fs.Bool("hotkey", true, "Register the global "+hotkey.Combo+" hotkey")
	versionFlag := fs.Bool("version", false, "Print version and exit")
	fs.BoolVar(&o.setup, "setup", false, "Select microphone device (otherwise uses system default)")
	fs.BoolVar(&o.gui, "gui", false, "Run the desktop window instead of the terminal UI")
	fs.BoolVar(&o.tui, "tui", true, "Run with terminal UI")
	fs.BoolVar(&o.test, "test", false, "Test mode (headless, stdin-driven): tale -test <wav-file>")
	fs.BoolVar(&o.doctor, "doctor", false, "Run system diagnostics and exit")
	fs.DurationVar(&o.longPress, "longpress", 350*time.Millisecond, "Hold longer than this to record only while the hotkey is down")
	if err := fs.Parse(args); err != nil {
		return config.Config{}, o, err
	}

	if *versionFlag {
		fmt.Printf("tale %s\n", version)
		os.Exit(0)
	}

	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		return config.Config{}, o, fmt.Errorf("failed to resolve log directory: %w", err)
	}
	log.SetDir(logPath)

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return cfg, o, err
	}

	// Flags given on the command line win over the file and the environment.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "lang":
			cfg.Language = *langFlag
		case "ui-lang":
			cfg.UILanguage = *uiLangFlag
		case "engine":
			cfg.Engine.Mode = *engineFlag
		case "model":
			cfg.Engine.ModelPath = *modelFlag
		case "command":
			cfg.Engine.Command = *commandFlag
		case "device":
			cfg.Audio.Device = *deviceFlag
		case "archive":
			cfg.Archive.Dir = *archiveFlag
		case "autopaste":
			cfg.AutoPaste = *autoPasteFlag
		case "notify":
			cfg.Notify = *notifyFlag
		case "beep":
			cfg.Beep = *beepFlag
		case "hotkey":
			cfg.Hotkey = *hotkeyFlag
		}
	})
	if err := config.Validate(cfg); err != nil {
		return cfg, o, err
	}
	if _, ok := transcriber.LookupLanguage(cfg.Language); !ok {
		return cfg, o, fmt.Errorf("language %q is not supported (use one of %s)", cfg.Language, languageCodes())
	}
	if o.test && fs.NArg() == 0 {
		return cfg, o, fmt.Errorf("usage: tale -test <wav-file>")
	}
	o.testWAV = fs.Arg(0)
	return cfg, o, nil
}

func languageCodes() string {
	codes := make([]string, 0, len(transcriber.Languages))
	for _, l := range transcriber.Languages {
		if l.Code == "" {
			codes = append(codes, `""`)
			continue
		}
		codes = append(codes, l.Code)
	}
	return strings.Join(codes, ", ")
}

// wantsGUI reports whether the windowed interface was requested. It is
// checked before flag parsing because the GUI must own the main thread.
func wantsGUI(args []string) bool {
	for _, a := range args {
		if a == "-gui" || a == "--gui" || a == "-gui=true" || a == "--gui=true" {
			return true
		}
	}
	return false
}

func initCrashLog() {
	if err := log.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
		return
	}
	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
	debug.SetCrashOutput(crashFile, debug.CrashOptions{})
}

// setup parses flags and builds the capture device, engine and controller.
// Modes that finish on their own (-doctor, -test) exit here.
func setup() *app {
	cfg, opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	initCrashLog()

	if opts.doctor {
		os.Exit(doctor.Run(cfg))
	}

	if !cfg.Beep || opts.test {
		beep.Disable()
	}

	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}

	engine, err := transcriber.New(cfg.Engine)
	if err != nil {
		log.Errorf("engine init error: %v", err)
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if opts.test {
		os.Exit(runTestMode(cfg, engine, opts.testWAV, os.Stdin, os.Stdout))
	}

	if cfg.AutoPaste {
		if err := clipboard.Init(); err != nil {
			fmt.Printf("Warning: paste init failed: %v\n", err)
		}
	}

	ctx, err := audio.NewContext()
	if err != nil {
		log.Errorf("audio context init error: %v", err)
		fmt.Printf("Error initializing audio context: %v\n", err)
		os.Exit(1)
	}

	device, err := pickDevice(ctx, cfg.Audio.Device, opts.setup)
	if err != nil {
		log.Warnf("device selection failed: %v", err)
		fmt.Printf("Warning: device selection failed: %v\n", err)
		fmt.Println("Falling back to default device")
	}

	capture, err := ctx.NewCapture(device, audio.DefaultCaptureConfig())
	if err != nil {
		log.Errorf("capture device init error: %v", err)
		fmt.Printf("Error initializing capture device: %v\n", err)
		os.Exit(1)
	}
	if device != nil && audio.IsBluetooth(device.Name) {
		log.Warn("bluetooth_input: " + device.Name)
	}

	log.SessionStart(engine.Name(), capture.DeviceName(), cfg.Language)
	go beep.Init()

	return &app{
		cfg:     cfg,
		opts:    opts,
		audio:   ctx,
		capture: capture,
		engine:  engine,
		fx:      newEffects(cfg),
	}
}

func pickDevice(ctx audio.Context, name string, interactive bool) (*audio.DeviceInfo, error) {
	if name != "" {
		dev, err := audio.FindDevice(ctx, name)
		if err != nil {
			return nil, err
		}
		if dev == nil {
			return nil, fmt.Errorf("device not found: %s", name)
		}
		return dev, nil
	}
	if interactive {
		return audio.SelectDevice(ctx)
	}
	return nil, nil
}

// newController wires the controller to sink and the side effects.
func (a *app) newController(sink session.Sink) {
	a.ctrl = session.NewController(session.Config{
		Capture:          a.capture,
		Transcriber:      a.engine,
		Clipboard:        clipboard.System{},
		Sink:             session.Sinks{sink, logSink{}},
		Hooks:            a.fx.hooks(),
		Language:         a.cfg.Language,
		SilenceWarnAfter: a.cfg.Silence.WarnAfter,
		SilenceThreshold: a.cfg.Silence.Threshold,
		SilenceAutoStop:  a.cfg.Silence.AutoStop,
	})
}

// runHotkey drives the controller from the global hotkey until ctx ends.
// A hotkey that cannot be registered is reported and otherwise ignored.
func (a *app) runHotkey(ctx context.Context) {
	if !a.cfg.Hotkey {
		return
	}
	hk := hotkey.New()
	if err := hk.Register(); err != nil {
		log.Errorf("hotkey register error: %v", err)
		return
	}
	defer hk.Unregister()
	driveHotkey(ctx, a.ctrl, hk, a.opts.longPress)
}

// driveHotkey maps hotkey taps and holds onto the controller until ctx ends.
func driveHotkey(ctx context.Context, ctrl *session.Controller, hk hotkey.Hotkey, longPress time.Duration) {
	hy := hotkey.NewHybrid(hk, longPress, func() bool { return ctrl.State() == session.Recording })
	defer hy.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case <-hy.Start():
			log.Info("hotkey_start")
			ctrl.Start()
		case <-hy.StopChan():
			log.Info("hotkey_stop")
			ctrl.Stop()
		}
	}
}

// shutdown stops any session and releases the devices.
func (a *app) shutdown() {
	if a.ctrl != nil {
		a.ctrl.Close()
	}
	log.SessionEnd(a.fx.count())
	a.capture.Close()
	a.audio.Close()
	if err := a.engine.Close(); err != nil {
		log.Warnf("engine close: %v", err)
	}
	log.Close()
}

func run() {
	a := setup()
	if a.opts.tui {
		a.runTUI()
	} else {
		a.runHeadless()
	}
}

// runHeadless prints status lines to stdout and records via the hotkey only.
func (a *app) runHeadless() {
	a.newController(newConsoleSink(os.Stdout, a.cfg.UILanguage))
	ctx, stop := shutdown.Context(context.Background())
	defer stop()
	fmt.Printf("tale %s: press %s to record, Ctrl+C to quit\n", version, hotkey.Combo)
	a.runHotkey(ctx)
	<-ctx.Done()
	a.shutdown()
}
