//go:build darwin

package clipboard

import "github.com/micmonay/keybd_event"

const (
	needsSettle   = false
	pasteShortcut = "Cmd+V"
)

func setPasteModifier(kb *keybd_event.KeyBonding) {
	kb.HasSuper(true)
}
