package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/askdb/askdb/internal/cli/askdb"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	code := askdb.Run(ctx, os.Args[1:], askdb.Options{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})
	os.Exit(code)
}
