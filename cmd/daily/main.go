package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"daily/internal/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := commands.New().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "daily: %v\n", err)
		stop()
		os.Exit(1)
	}
}
