// Command hrctl is the terminal client of the FFI HR backend.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/ffi-hr/portal/internal/cli"
	"github.com/ffi-hr/portal/pkg/logger"
)

func main() {
	level := os.Getenv("HRCTL_LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	log := logger.Init(logger.Options{Level: level, Pretty: true, Output: os.Stderr})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.Run(ctx, cli.Options{Log: log}, os.Args[1:])
	stop()
	os.Exit(code)
}
