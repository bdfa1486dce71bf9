package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/xkilldash9x/stencil-cli/cmd"
	"github.com/xkilldash9x/stencil-cli/internal/observability"
)

const panicLogFile = "panic.log"

func main() {
	os.Exit(run())
}

func run() int {
	defer handlePanic()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cmd.Execute(ctx)
	observability.Sync()

	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "interrupted")
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// handlePanic writes a crash report next to the binary before exiting, so
// failures in non-interactive runs leave something to debug from.
func handlePanic() {
	r := recover()
	if r == nil {
		return
	}

	report := fmt.Sprintf("panic at %s: %v\n\n%s\n",
		time.Now().Format(time.RFC3339), r, debug.Stack())

	if err := os.WriteFile(panicLogFile, []byte(report), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", panicLogFile, err)
	}
	fmt.Fprintf(os.Stderr, "stencil crashed: %v (details in %s)\n", r, panicLogFile)
	os.Exit(2)
}
