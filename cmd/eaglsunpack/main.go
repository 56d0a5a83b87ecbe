package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/eaglsunpack/internal/app"
	"github.com/vk/eaglsunpack/internal/cli"
	"github.com/vk/eaglsunpack/internal/ctxlog"
	"github.com/vk/eaglsunpack/internal/delegate"
	"github.com/vk/eaglsunpack/internal/hcl"
)

// main is the entrypoint for the eaglsunpack front end.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	runner := &delegate.ExecRunner{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
	os.Exit(run(os.Stdout, os.Stderr, os.Args[1:], runner))
}

// run encapsulates the main application logic for easier testing and
// returns the process exit status.
func run(outW, errW io.Writer, args []string, runner delegate.Runner) int {
	ctx := ctxlog.WithLogger(context.Background(), slog.Default())

	appConfig, shouldExit, err := cli.Parse(ctx, args, outW, hcl.NewLoader())
	if err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(errW, exitErr.Message)
			return exitErr.Code
		}
		fmt.Fprintln(errW, err)
		return 1
	}
	if shouldExit {
		return 0
	}

	unpackApp := app.NewApp(outW, appConfig, runner)
	code, err := unpackApp.Run(ctx)
	if err != nil {
		fmt.Fprintf(errW, "Error: %v\n", err)
	}
	return code
}
