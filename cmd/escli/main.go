package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	client "github.com/hsn0918/escli-client"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, client.Describe(err))
		os.Exit(1)
	}
}
