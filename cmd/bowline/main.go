// Package main provides the bowline CLI entrypoint.
//
// Usage:
//
//	bowline <command> [options] [report.jsonl]
//
// Commands read a finished report from a file or stdin, fold it, and
// derive artifacts: summaries, badges, snapshots, or S3 uploads.
//
// Exit codes:
//   - 0: success
//   - 1: command error (bad flags, upload failure, write failure)
//   - 2: unreadable or malformed report
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/bowline/cli/cmd"
	"github.com/justapithecus/bowline/types"
)

// Commit is set via ldflags at build time.
var commit = "unknown"

func main() {
	app := &cli.App{
		Name:           "bowline",
		Usage:          "Compliance report aggregation CLI",
		Version:        fmt.Sprintf("%s (commit: %s)", types.Version, commit),
		ExitErrHandler: exitErrHandler,
		Commands: []*cli.Command{
			cmd.SummaryCommand(),
			cmd.BadgesCommand(),
			cmd.PublishCommand(),
			cmd.CacheCommand(),
			cmd.VersionCommand(commit),
		},
	}

	if err := app.Run(os.Args); err != nil {
		// ExitErrHandler already handled the exit for cli.ExitCoder errors.
		// This branch handles unexpected errors that weren't wrapped.
		os.Exit(1)
	}
}

// exitErrHandler handles errors from the CLI, preserving exit codes
// from cli.Exit().
func exitErrHandler(_ *cli.Context, err error) {
	if err == nil {
		return
	}

	// cli.Exit("", N).Error() returns "exit status N"; skip printing those.
	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		code := exitCoder.ExitCode()
		msg := exitCoder.Error()
		if msg != "" && msg != fmt.Sprintf("exit status %d", code) {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(code)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
