// Command vtdlog commits to secret scalars behind time-lock puzzles, and recovers them.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/paymo-xmr/vtdlog/internal/cli"
)

func main() {
	// An interrupted solve leaves the commitment file untouched.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.NewRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
