//go:build !windows

package shutdown

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"
)

func TestNotify(t *testing.T) {
	ch := make(chan os.Signal, 1)
	Notify(ch)
	defer Stop(ch)

	syscall.Kill(os.Getpid(), syscall.SIGTERM)
	select {
	case sig := <-ch:
		if sig != syscall.SIGTERM {
			t.Fatalf("got %v", sig)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("signal not delivered")
	}
}

func TestContext(t *testing.T) {
	ctx, cancel := Context(context.Background())
	defer cancel()

	syscall.Kill(os.Getpid(), syscall.SIGINT)
	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context not cancelled by SIGINT")
	}
}
