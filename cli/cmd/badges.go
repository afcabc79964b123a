package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/bowline/badge"
	"github.com/justapithecus/bowline/log"
)

// BadgesCommand returns the badges command, which writes shields.io
// badge artifacts for every implementation in a report.
func BadgesCommand() *cli.Command {
	return &cli.Command{
		Name:      "badges",
		Usage:     "Generate badge artifacts from a report",
		ArgsUsage: "[report.jsonl]",
		Flags: append(ReportFlags(),
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Target directory for badge artifacts",
			},
		),
		Action: badgesAction,
	}
}

func badgesAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), exitError)
	}

	targetDir := c.String("out")
	if targetDir == "" {
		targetDir = cfg.BadgeDir
	}
	if targetDir == "" {
		return cli.Exit("badge target directory required (--out or badge_dir in config)", exitError)
	}

	path, err := reportArg(c)
	if err != nil {
		return cli.Exit(err.Error(), exitError)
	}

	rep, err := loadReport(c, path)
	if err != nil {
		return cli.Exit(fmt.Sprintf("cannot read report: %v", err), exitBadReport)
	}

	logger := log.NewLogger(rep.Dialect())
	if err := badge.Generate(rep, targetDir); err != nil {
		return cli.Exit(fmt.Sprintf("badge generation failed: %v", err), exitError)
	}
	logger.Info("Generated badges", map[string]any{
		"dir":             targetDir,
		"implementations": len(rep.Implementations()),
	})
	return nil
}
