package session

// Sink receives everything a UI needs to render a session. Calls arrive from
// the controller's goroutines; implementations must not block and must not
// call back into the Controller synchronously.
type Sink interface {
	StateChanged(s State)
	Status(s Status, detail string)
	AudioLevel(level float64)
	RecordingTick(seconds float64)
	LogChanged(text string)
	NoVoiceWarning(on bool)
}

type nopSink struct{}

func (nopSink) StateChanged(State)    {}
func (nopSink) Status(Status, string) {}
func (nopSink) AudioLevel(float64)    {}
func (nopSink) RecordingTick(float64) {}
func (nopSink) LogChanged(string)     {}
func (nopSink) NoVoiceWarning(bool)   {}

// Sinks fans events out to several sinks.
type Sinks []Sink

func (m Sinks) StateChanged(s State) {
	for _, k := range m {
		k.StateChanged(s)
	}
}

func (m Sinks) Status(s Status, detail string) {
	for _, k := range m {
		k.Status(s, detail)
	}
}

func (m Sinks) AudioLevel(level float64) {
	for _, k := range m {
		k.AudioLevel(level)
	}
}

func (m Sinks) RecordingTick(seconds float64) {
	for _, k := range m {
		k.RecordingTick(seconds)
	}
}

func (m Sinks) LogChanged(text string) {
	for _, k := range m {
		k.LogChanged(text)
	}
}

func (m Sinks) NoVoiceWarning(on bool) {
	for _, k := range m {
		k.NoVoiceWarning(on)
	}
}
