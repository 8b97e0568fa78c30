// Package clipboard wraps the OS clipboard and the paste keystroke.
package clipboard

import cb "github.com/atotto/clipboard"

func Read() (string, error) {
	return cb.ReadAll()
}

func Copy(text string) error {
	return cb.WriteAll(text)
}

// Available reports whether a clipboard backend (xclip, xsel, wl-copy,
// pbcopy or the Windows API) can be used.
func Available() bool {
	return !cb.Unsupported
}

// System is the OS clipboard as a value.
type System struct{}

func (System) Copy(text string) error { return Copy(text) }
