// Package publish uploads badge trees and report files to
// S3-compatible object storage.
package publish

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/justapithecus/bowline/iox"
	"github.com/justapithecus/bowline/log"
)

// Config holds configuration for the S3 target.
type Config struct {
	// Bucket is the S3 bucket name (required).
	Bucket string
	// Prefix is the key prefix within the bucket (optional).
	Prefix string
	// Region is the AWS region (optional, uses default chain if empty).
	Region string
	// Endpoint is a custom S3 endpoint URL for S3-compatible providers
	// (e.g. Cloudflare R2, MinIO). Empty uses the default AWS endpoint.
	Endpoint string
	// UsePathStyle forces path-style addressing (bucket in path, not
	// subdomain). Required by most S3-compatible providers.
	UsePathStyle bool
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Bucket == "" {
		return errors.New("S3 bucket is required")
	}
	return nil
}

// objectPutter is the slice of the S3 API the publisher needs.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Publisher uploads local files to the configured bucket.
type Publisher struct {
	config Config
	client objectPutter
	logger *log.Logger
}

// New creates a Publisher using the AWS SDK default credential chain
// (env vars, shared config, IAM role).
func New(ctx context.Context, cfg Config, logger *log.Logger) (*Publisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsConfig, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		endpoint := cfg.Endpoint
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = &endpoint
		})
	}
	if cfg.UsePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	return newPublisher(cfg, s3.NewFromConfig(awsConfig, s3Opts...), logger), nil
}

func newPublisher(cfg Config, client objectPutter, logger *log.Logger) *Publisher {
	if logger == nil {
		logger = log.Nop()
	}
	return &Publisher{config: cfg, client: client, logger: logger}
}

// PublishDir uploads every regular file under dir, preserving the
// relative layout beneath the configured prefix. Returns the number of
// objects uploaded.
func (p *Publisher) PublishDir(ctx context.Context, dir string) (int, error) {
	uploaded := 0
	err := filepath.WalkDir(dir, func(filePath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, filePath)
		if err != nil {
			return err
		}
		if err := p.PublishFile(ctx, filePath, filepath.ToSlash(rel)); err != nil {
			return err
		}
		uploaded++
		return nil
	})
	if err != nil {
		return uploaded, err
	}
	p.logger.Info("Published directory", map[string]any{
		"dir":     dir,
		"bucket":  p.config.Bucket,
		"objects": uploaded,
	})
	return uploaded, nil
}

// PublishFile uploads one local file to the given key, relative to the
// configured prefix.
func (p *Publisher) PublishFile(ctx context.Context, filePath, key string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", filePath, err)
	}
	defer iox.DiscardClose(f)

	fullKey := p.objectKey(key)
	contentType := contentTypeFor(key)
	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &p.config.Bucket,
		Key:         &fullKey,
		Body:        f,
		ContentType: &contentType,
	})
	if err != nil {
		return wrapUploadError(err, fullKey)
	}

	p.logger.Debug("Uploaded object", map[string]any{"key": fullKey})
	return nil
}

// objectKey joins the configured prefix and a relative key.
func (p *Publisher) objectKey(key string) string {
	if p.config.Prefix == "" {
		return key
	}
	return path.Join(p.config.Prefix, key)
}

func contentTypeFor(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".json":
		return "application/json"
	case ".jsonl":
		return "application/jsonl"
	default:
		return "application/octet-stream"
	}
}
