package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/bowline/cache"
)

// CacheCommand returns the cache command, which converts a
// line-delimited report into a binary snapshot for fast reloading.
func CacheCommand() *cli.Command {
	return &cli.Command{
		Name:      "cache",
		Usage:     "Write a binary snapshot of a report",
		ArgsUsage: "[report.jsonl]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "out",
				Aliases:  []string{"o"},
				Usage:    "Snapshot output path",
				Required: true,
			},
		},
		Action: cacheAction,
	}
}

func cacheAction(c *cli.Context) error {
	path, err := reportArg(c)
	if err != nil {
		return cli.Exit(err.Error(), exitError)
	}

	rep, err := loadReport(c, path)
	if err != nil {
		return cli.Exit(fmt.Sprintf("cannot read report: %v", err), exitBadReport)
	}

	if err := cache.WriteFile(c.String("out"), rep); err != nil {
		return cli.Exit(fmt.Sprintf("cannot write snapshot: %v", err), exitError)
	}
	return nil
}
