//go:build gui

package main

import (
	"context"

	"tale/gui"
	"tale/shutdown"
)

// initGUI runs the window on the main thread. The audio context is created
// in setup before fyne starts, which macOS Core Audio requires.
func initGUI() {
	a := setup()
	w := gui.NewApp(a.cfg.UILanguage)
	a.newController(w)

	ctx, stop := shutdown.Context(context.Background())
	defer stop()
	go func() {
		<-ctx.Done()
		w.Quit()
	}()

	if err := w.Run(a.ctrl, func() { a.runHotkey(ctx) }); err != nil {
		a.shutdown()
		panic(err)
	}
	stop()
	a.shutdown()
}
