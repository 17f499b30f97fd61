// Command cyclingstats produces the descriptive tables, hypothesis tests and
// figures for a file of cycling race results.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "cyclingstats: %v\n", err)
		stop()
		os.Exit(1)
	}
}
