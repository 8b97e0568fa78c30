package session

// Status is the one-line message shown under the controls.
type Status int

const (
	StatusReady Status = iota
	StatusListening
	StatusTranscribing
	StatusCopied
	StatusNoAudio
	StatusNoSpeech
	StatusFailed
	StatusCleared
	StatusCopiedAll
	StatusNothingToCopy
)

var messages = map[string]map[Status]string{
	"nb": {
		StatusReady:         "Klar",
		StatusListening:     "🎤 Lytter...",
		StatusTranscribing:  "⏳ Transkriberer...",
		StatusCopied:        "✅ Kopiert til clipboard",
		StatusNoAudio:       "❌ Ingen lyd",
		StatusNoSpeech:      "❌ Ingen tale oppdaget",
		StatusFailed:        "❌ Feil",
		StatusCleared:       "Klar",
		StatusCopiedAll:     "📋 All tekst kopiert",
		StatusNothingToCopy: "Ingenting å kopiere",
	},
	"en": {
		StatusReady:         "Ready",
		StatusListening:     "🎤 Listening...",
		StatusTranscribing:  "⏳ Transcribing...",
		StatusCopied:        "✅ Copied to clipboard",
		StatusNoAudio:       "❌ No audio",
		StatusNoSpeech:      "❌ No speech detected",
		StatusFailed:        "❌ Error",
		StatusCleared:       "Ready",
		StatusCopiedAll:     "📋 Copied all text",
		StatusNothingToCopy: "Nothing to copy",
	},
}

// Message returns the text for s in locale ("nb" or "en"). Unknown locales
// fall back to English.
func (s Status) Message(locale string) string {
	m, ok := messages[locale]
	if !ok {
		m = messages["en"]
	}
	return m[s]
}

// Format appends detail, if any, to the localized message.
func (s Status) Format(locale, detail string) string {
	msg := s.Message(locale)
	if detail == "" {
		return msg
	}
	return msg + ": " + detail
}
