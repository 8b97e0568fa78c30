package main

import (
	"sync/atomic"
	"time"

	"tale/archive"
	"tale/beep"
	"tale/clipboard"
	"tale/config"
	"tale/log"
	"tale/notify"
	"tale/session"
)

// pasteDelay gives the clipboard owner time to publish before Ctrl+V.
const pasteDelay = 50 * time.Millisecond

// effects are the side effects of a session outside the UI: tones,
// notifications, the archive and the logs.
type effects struct {
	autoPaste bool
	notifier  *notify.Notifier
	archive   *archive.Writer
	paste     func() error
	done      atomic.Int64
}

func newEffects(cfg config.Config) *effects {
	fx := &effects{
		autoPaste: cfg.AutoPaste,
		notifier:  notify.New(cfg.Notify, cfg.UILanguage),
		paste:     clipboard.Paste,
	}
	if cfg.Archive.Dir != "" {
		w, err := archive.New(cfg.Archive.Dir)
		if err != nil {
			log.Warnf("archive disabled: %v", err)
		} else {
			fx.archive = w
		}
	}
	return fx
}

func (fx *effects) count() int { return int(fx.done.Load()) }

func (fx *effects) hooks() session.Hooks {
	return session.Hooks{
		OnStart: func(id string) {
			log.Info("recording_start " + id)
			go beep.PlayStart()
		},
		OnStop: func(id string, d time.Duration) {
			log.Infof("recording_stop %s %.1fs", id, d.Seconds())
			go beep.PlayEnd()
		},
		OnTranscript: fx.transcript,
		OnNoAudio: func(id string, noSpeech bool) {
			if noSpeech {
				log.Info("no_speech " + id)
			} else {
				log.Info("no_audio " + id)
			}
			fx.notifier.Empty()
		},
		OnError: func(id string, err error) {
			log.SessionError(id, err)
			fx.notifier.Error(err.Error())
			go beep.PlayError()
		},
		OnSilence: func(ev session.SilenceEvent) {
			log.Info("silence_" + ev.String())
			if ev == session.SilenceWarn || ev == session.SilenceRepeat {
				go beep.PlayError()
			}
		},
	}
}

func (fx *effects) transcript(t session.Transcript) {
	fx.done.Add(1)

	var archived string
	if fx.archive != nil {
		path, err := fx.archive.Save(t.ID, t.StartedAt, t.Samples, t.Text)
		if err != nil {
			log.SessionError(t.ID, err)
		} else {
			archived = path
		}
	}

	log.TranscriptionMetrics(log.Transcription{
		Session:      t.ID,
		Engine:       t.Engine,
		Language:     t.Language,
		AudioS:       t.Audio.Seconds(),
		TranscribeMs: float64(t.Transcribe.Microseconds()) / 1000,
		Chars:        len([]rune(t.Text)),
		Archived:     archived,
	})
	log.TranscriptionText(t.Text)
	if !t.Copied {
		// OnError already reported the clipboard failure; pasting now would
		// insert the previous clipboard contents.
		return
	}
	fx.notifier.Success(t.Text)

	if fx.autoPaste && fx.paste != nil {
		time.Sleep(pasteDelay)
		if err := fx.paste(); err != nil {
			log.Warnf("paste failed: %v", err)
		}
	}
}
