//go:build !windows

package container

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// monitorTTYSize resizes once and again on every SIGWINCH until stopped.
func (c *Client) monitorTTYSize(ctx context.Context, id string, out any) func() {
	c.resizeTTY(ctx, id, out)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGWINCH)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-sigCh:
				c.resizeTTY(ctx, id, out)
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(sigCh)
		close(done)
	}
}
