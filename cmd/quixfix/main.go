// File: cmd/quixfix/main.go
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/xkilldash9x/quixfix/cmd"
	"github.com/xkilldash9x/quixfix/internal/observability"
)

func main() {
	// Listen for interrupt signals so a long batch run can stop cleanly
	// between programs.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cmd.Execute(ctx)
	observability.Sync()

	if err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(0)
		}
		os.Exit(1)
	}
}
