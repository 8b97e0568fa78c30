package doctor

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"tale/shutdown"
)

// saved is the stdin terminal state captured when the checks start.
var saved *term.State

func saveTerminal() {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return
	}
	if st, err := term.GetState(int(os.Stdin.Fd())); err == nil {
		saved = st
	}
}

// resetTerminal puts stdin back into the mode it had at startup. Hotkey
// and paste checks can leave it in raw mode or with stray echo settings.
func resetTerminal() {
	if saved != nil {
		term.Restore(int(os.Stdin.Fd()), saved)
	}
}

func setupInterruptHandler() {
	ch := make(chan os.Signal, 1)
	shutdown.Notify(ch)
	go func() {
		<-ch
		resetTerminal()
		fmt.Fprintln(os.Stderr, "\nInterrupted")
		os.Exit(1)
	}()
}
