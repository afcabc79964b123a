package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/bowline/adapter"
	"github.com/justapithecus/bowline/adapter/redis"
	"github.com/justapithecus/bowline/adapter/webhook"
	"github.com/justapithecus/bowline/cli/config"
	"github.com/justapithecus/bowline/iox"
	"github.com/justapithecus/bowline/log"
	"github.com/justapithecus/bowline/publish"
	"github.com/justapithecus/bowline/report"
)

// PublishCommand returns the publish command, which uploads a badge
// tree to object storage and optionally notifies downstream consumers.
func PublishCommand() *cli.Command {
	return &cli.Command{
		Name:      "publish",
		Usage:     "Upload badge artifacts to S3 and notify downstream consumers",
		ArgsUsage: "[report.jsonl]",
		Flags: append(ReportFlags(),
			&cli.StringFlag{
				Name:  "badges",
				Usage: "Badge directory to upload (defaults to badge_dir in config)",
			},
			&cli.StringFlag{
				Name:  "bucket",
				Usage: "S3 bucket name",
			},
			&cli.StringFlag{
				Name:  "prefix",
				Usage: "Key prefix within the bucket",
			},
			&cli.StringFlag{
				Name:  "region",
				Usage: "AWS region (defaults to the SDK credential chain)",
			},
			&cli.StringFlag{
				Name:  "endpoint",
				Usage: "Custom S3 endpoint for S3-compatible providers",
			},
			&cli.BoolFlag{
				Name:  "s3-path-style",
				Usage: "Use path-style S3 addressing",
			},
		),
		Action: publishAction,
	}
}

func publishAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), exitError)
	}

	storage := resolveStorage(c, cfg.Storage)
	badgeDir := c.String("badges")
	if badgeDir == "" {
		badgeDir = cfg.BadgeDir
	}
	if badgeDir == "" {
		return cli.Exit("badge directory required (--badges or badge_dir in config)", exitError)
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
	publisher, err := publish.New(c.Context, storage, logger)
	if err != nil {
		return cli.Exit(fmt.Sprintf("cannot initialize publisher: %v", err), exitError)
	}

	uploaded, err := publisher.PublishDir(c.Context, badgeDir)
	if err != nil {
		return cli.Exit(fmt.Sprintf("upload failed after %d objects: %v", uploaded, err), exitError)
	}

	if err := notify(c, cfg.Adapter, rep, logger); err != nil {
		// Upload already succeeded; notification failure is its own exit.
		return cli.Exit(fmt.Sprintf("notification failed: %v", err), exitError)
	}
	return nil
}

// resolveStorage merges CLI flags over config file values.
func resolveStorage(c *cli.Context, base config.StorageConfig) publish.Config {
	storage := publish.Config{
		Bucket:       base.Bucket,
		Prefix:       base.Prefix,
		Region:       base.Region,
		Endpoint:     base.Endpoint,
		UsePathStyle: base.S3PathStyle,
	}
	if v := c.String("bucket"); v != "" {
		storage.Bucket = v
	}
	if v := c.String("prefix"); v != "" {
		storage.Prefix = v
	}
	if v := c.String("region"); v != "" {
		storage.Region = v
	}
	if v := c.String("endpoint"); v != "" {
		storage.Endpoint = v
	}
	if c.Bool("s3-path-style") {
		storage.UsePathStyle = true
	}
	return storage
}

// notify publishes a completion event through the configured adapter.
// An empty adapter type means no notification.
func notify(c *cli.Context, cfg config.AdapterConfig, rep *report.Report, logger *log.Logger) error {
	a, err := buildAdapter(cfg)
	if err != nil || a == nil {
		return err
	}
	defer iox.DiscardClose(a)

	event := adapter.NewReportCompletedEvent(rep)
	if err := a.Publish(c.Context, event); err != nil {
		return err
	}
	logger.Info("Published completion event", map[string]any{
		"adapter": cfg.Type,
		"event":   event.EventType,
	})
	return nil
}

func buildAdapter(cfg config.AdapterConfig) (adapter.Adapter, error) {
	switch cfg.Type {
	case "":
		return nil, nil
	case "redis":
		rcfg := redis.Config{
			URL:     cfg.URL,
			Channel: cfg.Channel,
			Timeout: cfg.Timeout.Duration,
			Retries: redis.DefaultRetries,
		}
		if cfg.Retries != nil {
			rcfg.Retries = *cfg.Retries
		}
		return redis.New(rcfg)
	case "webhook":
		wcfg := webhook.Config{
			URL:     cfg.URL,
			Headers: cfg.Headers,
			Timeout: cfg.Timeout.Duration,
			Retries: webhook.DefaultRetries,
		}
		if cfg.Retries != nil {
			wcfg.Retries = *cfg.Retries
		}
		return webhook.New(wcfg)
	default:
		return nil, fmt.Errorf("unknown adapter type %q", cfg.Type)
	}
}
