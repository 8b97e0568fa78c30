//go:build !linux

package main

import (
	"os"
	"runtime"

	"golang.design/x/hotkey/mainthread"
)

// The hotkey backends on macOS and Windows must run on the main thread.
func init() { runtime.LockOSThread() }

func main() {
	if wantsGUI(os.Args[1:]) {
		// fyne takes the main thread for its own event loop.
		initGUI()
		return
	}
	mainthread.Init(run)
}
