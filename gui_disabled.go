//go:build !gui

package main

import (
	"fmt"
	"os"
)

func initGUI() {
	fmt.Fprintln(os.Stderr, "tale: this binary was built without GUI support; rebuild with -tags gui")
	os.Exit(2)
}
