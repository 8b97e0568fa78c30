package session

import "testing"

func TestStatusMessages(t *testing.T) {
	for _, tt := range []struct {
		s      Status
		locale string
		want   string
	}{
		{StatusReady, "nb", "Klar"},
		{StatusListening, "nb", "🎤 Lytter..."},
		{StatusTranscribing, "nb", "⏳ Transkriberer..."},
		{StatusNoAudio, "nb", "❌ Ingen lyd"},
		{StatusCopied, "nb", "✅ Kopiert til clipboard"},
		{StatusCopied, "en", "✅ Copied to clipboard"},
		{StatusNoAudio, "de", "❌ No audio"},
	} {
		if got := tt.s.Message(tt.locale); got != tt.want {
			t.Errorf("%d/%s = %q, want %q", tt.s, tt.locale, got, tt.want)
		}
	}
}

func TestStatusCoverage(t *testing.T) {
	for locale, m := range messages {
		for s := StatusReady; s <= StatusNothingToCopy; s++ {
			if m[s] == "" {
				t.Errorf("locale %s has no message for status %d", locale, s)
			}
		}
	}
}

func TestStatusFormat(t *testing.T) {
	if got := StatusFailed.Format("en", "engine exploded"); got != "❌ Error: engine exploded" {
		t.Errorf("Format = %q", got)
	}
	if got := StatusReady.Format("nb", ""); got != "Klar" {
		t.Errorf("Format = %q", got)
	}
}

func TestStateString(t *testing.T) {
	if Idle.String() != "idle" || Recording.String() != "recording" || Transcribing.String() != "transcribing" {
		t.Fatal("unexpected state names")
	}
	if State(42).String() != "unknown" {
		t.Fatal("unexpected name for invalid state")
	}
}
