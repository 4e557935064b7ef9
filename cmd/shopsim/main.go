// cmd/shopsim/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"shopsim/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, store.ErrUnavailable) {
			fmt.Fprintln(os.Stderr, "Check that the database is running and the schema has been provisioned.")
		}
		os.Exit(1)
	}
}
