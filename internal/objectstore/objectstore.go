// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

package objectstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/tomtom215/fashionrec/internal/config"
	"github.com/tomtom215/fashionrec/internal/logging"
	"github.com/tomtom215/fashionrec/internal/metrics"
)

var (
	// ErrNoCredentials is returned by New when no access key pair is configured.
	ErrNoCredentials = errors.New("missing object storage credentials")

	// ErrInvalidPath is returned for a path that is not s3://bucket/key.
	ErrInvalidPath = errors.New("invalid s3 path")
)

// CredentialsHint tells the operator how to supply credentials.
const CredentialsHint = "Please provide AWS credentials via AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY env variables."

var s3PathPattern = regexp.MustCompile(`^s3://([\w._-]+)/([\w./_-]+)$`)

// ParseS3Path splits s3://bucket/key into bucket and key.
func ParseS3Path(path string) (bucket, key string, err error) {
	m := s3PathPattern.FindStringSubmatch(path)
	if m == nil {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	return m[1], m[2], nil
}

// Client uploads and downloads whole files.
type Client struct {
	client *minio.Client
}

// New creates a client for the configured endpoint. It does not contact the
// server.
func New(cfg *config.ObjectStoreConfig) (*Client, error) {
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, ErrNoCredentials
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client for %s: %w", cfg.Endpoint, err)
	}
	return &Client{client: mc}, nil
}

// Upload copies a local file to s3Path.
func (c *Client) Upload(ctx context.Context, localPath, s3Path string) (err error) {
	bucket, key, err := ParseS3Path(s3Path)
	if err != nil {
		return err
	}

	var size int64
	defer func() { metrics.RecordTransfer("upload", size, err) }()

	info, err := c.client.FPutObject(ctx, bucket, key, localPath, minio.PutObjectOptions{})
	if err != nil {
		return fmt.Errorf("upload %s to %s: %w", localPath, s3Path, err)
	}
	size = info.Size

	logging.Ctx(ctx).Info().
		Str("local_path", localPath).
		Str("s3_path", s3Path).
		Int64("bytes", size).
		Msg("Data uploaded")
	return nil
}

// Download copies s3Path to a local file, creating its directory. The
// destination is replaced only once the object has been fully received.
func (c *Client) Download(ctx context.Context, s3Path, localPath string) (err error) {
	bucket, key, err := ParseS3Path(s3Path)
	if err != nil {
		return err
	}

	var size int64
	defer func() { metrics.RecordTransfer("download", size, err) }()

	if dir := filepath.Dir(localPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := c.client.FGetObject(ctx, bucket, key, localPath, minio.GetObjectOptions{}); err != nil {
		return fmt.Errorf("download %s to %s: %w", s3Path, localPath, err)
	}
	if fi, statErr := os.Stat(localPath); statErr == nil {
		size = fi.Size()
	}

	logging.Ctx(ctx).Info().
		Str("s3_path", s3Path).
		Str("local_path", localPath).
		Int64("bytes", size).
		Msg("Data downloaded")
	return nil
}
