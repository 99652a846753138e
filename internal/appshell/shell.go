// Package appshell wires a command's run function to the process.
package appshell

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// ExitInterrupted is the exit code of a run cut short by SIGINT or SIGTERM.
const ExitInterrupted = 130

// Main runs run with a context cancelled on SIGINT or SIGTERM and exits with
// its code.
func Main(run func(context.Context, io.Reader, io.Writer, io.Writer) int) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := Run(ctx, run, os.Stdin, os.Stdout, os.Stderr)

	stop()
	os.Exit(code)
}

// Run calls run and normalizes the exit code of a cancelled context.
func Run(
	ctx context.Context,
	run func(context.Context, io.Reader, io.Writer, io.Writer) int,
	stdin io.Reader,
	stdout, stderr io.Writer,
) int {
	code := run(ctx, stdin, stdout, stderr)
	if ctx.Err() != nil && code != ExitInterrupted {
		code = ExitInterrupted
	}
	return code
}
