//go:build !darwin

package clipboard

import (
	"runtime"

	"github.com/micmonay/keybd_event"
)

const pasteShortcut = "Ctrl+V"

var needsSettle = runtime.GOOS == "linux"

func setPasteModifier(kb *keybd_event.KeyBonding) {
	kb.HasCTRL(true)
}
