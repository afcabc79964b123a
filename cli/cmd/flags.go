// Package cmd provides CLI commands for the bowline binary.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/bowline/cache"
	"github.com/justapithecus/bowline/cli/config"
	"github.com/justapithecus/bowline/iox"
	"github.com/justapithecus/bowline/report"
)

// Exit codes shared by all commands.
const (
	exitError     = 1
	exitBadReport = 2
)

// Shared flags for commands that consume a report.
var (
	// ConfigFlag points at an optional bowline.yaml config file.
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to bowline.yaml config file",
	}

	// SnapshotFlag switches report input from line-delimited JSON to a
	// binary snapshot produced by the cache command.
	SnapshotFlag = &cli.BoolFlag{
		Name:  "snapshot",
		Usage: "Read the input as a binary snapshot instead of line-delimited JSON",
	}
)

// ReportFlags returns the shared flags for commands that read a report.
func ReportFlags() []cli.Flag {
	return []cli.Flag{
		ConfigFlag,
		SnapshotFlag,
	}
}

// loadConfig loads the config file named by --config. Without the flag
// an empty config is returned; flags always override config values.
func loadConfig(c *cli.Context) (*config.Config, error) {
	path := c.String("config")
	if path == "" {
		return &config.Config{}, nil
	}
	return config.Load(path)
}

// loadReport reads a report from path, or from stdin when path is "-".
// With --snapshot the input is decoded as a binary snapshot.
func loadReport(c *cli.Context, path string) (*report.Report, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening report %s: %w", path, err)
		}
		defer iox.DiscardClose(f)
		r = f
	}

	if c.Bool("snapshot") {
		return cache.Read(r)
	}
	return report.FromSerialized(r)
}

// reportArg returns the single positional report path argument,
// defaulting to stdin.
func reportArg(c *cli.Context) (string, error) {
	switch c.NArg() {
	case 0:
		return "-", nil
	case 1:
		return c.Args().First(), nil
	default:
		return "", fmt.Errorf("expected at most one report path, got %d arguments", c.NArg())
	}
}
