// Package archive uploads recorded snapshot files to S3-compatible
// object storage, so diagnostic captures taken at the detector can be
// pulled into offline analysis.
package archive

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/coldbox-daq/wibscope/iox"
)

// Config holds the archive destination.
type Config struct {
	// Bucket is the S3 bucket name (required).
	Bucket string
	// Prefix is the key prefix within the bucket (optional).
	Prefix string
	// Region is the AWS region (optional, default chain if empty).
	Region string
	// Endpoint is a custom S3 endpoint URL for S3-compatible
	// providers (e.g. MinIO). Empty uses the default AWS endpoint.
	Endpoint string
	// PathStyle forces path-style addressing (bucket in path, not
	// subdomain). Required by most S3-compatible providers.
	PathStyle bool
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Bucket == "" {
		return errors.New("archive bucket is required")
	}
	return nil
}

// Key returns the object key for a snapshot file name.
func (c *Config) Key(name string) string {
	if c.Prefix == "" {
		return name
	}
	return path.Join(c.Prefix, name)
}

// Uploader pushes snapshot files to one bucket.
type Uploader struct {
	cfg    Config
	client *s3.Client
}

// NewUploader creates an uploader using the AWS SDK default credential
// chain (env vars, shared config, IAM role).
func NewUploader(ctx context.Context, cfg Config) (*Uploader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		endpoint := cfg.Endpoint
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = &endpoint
		})
	}
	if cfg.PathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	return &Uploader{cfg: cfg, client: s3.NewFromConfig(awsCfg, s3Opts...)}, nil
}

// UploadFile pushes one local snapshot file and returns its object key.
func (u *Uploader) UploadFile(ctx context.Context, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open snapshot: %w", err)
	}
	defer iox.DiscardClose(f)

	key := u.cfg.Key(filepath.Base(localPath))
	contentType := "application/vnd.apache.parquet"
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &u.cfg.Bucket,
		Key:         &key,
		Body:        f,
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s to s3://%s/%s: %w", localPath, u.cfg.Bucket, key, err)
	}
	return key, nil
}
