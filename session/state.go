// Package session owns one dictation session at a time: the recording
// buffer, the transcript log and the Idle → Recording → Transcribing → Idle
// state machine that drives every UI.
package session

type State int

const (
	Idle State = iota
	Recording
	Transcribing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	case Transcribing:
		return "transcribing"
	}
	return "unknown"
}
