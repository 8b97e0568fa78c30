//go:build !whisper

package transcriber

import "fmt"

// NewWhisper needs cgo and libwhisper; build with -tags whisper.
func NewWhisper(modelPath string, threads int) (Transcriber, error) {
	return nil, fmt.Errorf("whisper (%s): %w; rebuild with -tags whisper or use engine.mode=exec", modelPath, ErrUnavailable)
}
