package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	clientapi "github.com/iudanet/tasktrack/internal/client/api"
	"github.com/iudanet/tasktrack/internal/client/cli"
	"github.com/iudanet/tasktrack/internal/client/iocli"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Ctrl+C останавливает timer watch и прерывает запросы
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	c := cli.New(iocli.NewStdio(), cli.BuildInfo{
		Version:   Version,
		BuildDate: BuildDate,
		GitCommit: GitCommit,
	})

	err := c.Execute(ctx, os.Args[1:])
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", clientapi.ErrorMessage(err))
		os.Exit(1)
	}
}
